package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blogsync/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrNotConfigured = errors.New("mirror: image store is not configured")

const (
	BlockMaxWidth = 1920
	CoverMaxWidth = 2400
)

type UploadOptions struct {
	PublicID string
	MaxWidth int
}

// Uploader: долговременное хранилище картинок. Повторная загрузка
// с тем же PublicID не должна создавать копию.
type Uploader interface {
	Upload(ctx context.Context, src string, opts UploadOptions) (string, error)
}

type CloudinaryUploader struct {
	cld     *cloudinary.Cloudinary
	folder  string
	timeout time.Duration
}

func NewCloudinaryUploader(cfg *config.Config) (*CloudinaryUploader, error) {
	if !cfg.CloudinaryConfigured() {
		return nil, ErrNotConfigured
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	cld.Config.URL.Secure = true

	timeout := cfg.CloudinaryTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &CloudinaryUploader{cld: cld, folder: cfg.CloudinaryFolder, timeout: timeout}, nil
}

// Upload загружает картинку по ссылке (Cloudinary сам её скачивает).
// overwrite=false: существующий public_id возвращается как есть.
func (u *CloudinaryUploader) Upload(ctx context.Context, src string, opts UploadOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	width := opts.MaxWidth
	if width <= 0 {
		width = BlockMaxWidth
	}

	resp, err := u.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		PublicID:       opts.PublicID,
		Folder:         u.folder,
		Overwrite:      api.Bool(false),
		ResourceType:   "auto",
		Transformation: fmt.Sprintf("c_limit,w_%d/q_auto/f_auto", width),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload %s: %w", opts.PublicID, err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload %s: %s", opts.PublicID, resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload %s: empty secure_url", opts.PublicID)
	}
	return resp.SecureURL, nil
}
