package repository

import (
	"context"
	"errors"

	"blogsync/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrAssetNotFound = errors.New("image asset not found")

// DB: подмножество *pgxpool.Pool, которым пользуется репозиторий.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ImageAssetRepo: журнал зеркалированных картинок в Postgres.
type ImageAssetRepo struct {
	db DB
}

func NewImageAssetRepo(db DB) *ImageAssetRepo {
	return &ImageAssetRepo{db: db}
}

func (r *ImageAssetRepo) Get(ctx context.Context, pageID, blockID, contentHash string) (*models.ImageAsset, error) {
	query := `SELECT page_id, block_id, content_hash, public_id, source_url, mirror_url, created_at
		FROM image_assets WHERE page_id = $1 AND block_id = $2 AND content_hash = $3`

	var a models.ImageAsset
	err := r.db.QueryRow(ctx, query, pageID, blockID, contentHash).Scan(
		&a.PageID, &a.BlockID, &a.ContentHash, &a.PublicID, &a.SourceURL, &a.MirrorURL, &a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	a.Mirrored = true
	return &a, nil
}

// Save вставляет запись; повтор с тем же ключом ничего не меняет.
func (r *ImageAssetRepo) Save(ctx context.Context, a *models.ImageAsset) error {
	query := `INSERT INTO image_assets (page_id, block_id, content_hash, public_id, source_url, mirror_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (page_id, block_id, content_hash) DO NOTHING`
	_, err := r.db.Exec(ctx, query, a.PageID, a.BlockID, a.ContentHash, a.PublicID, a.SourceURL, a.MirrorURL)
	return err
}

func (r *ImageAssetRepo) ListByPage(ctx context.Context, pageID string) ([]models.ImageAsset, error) {
	rows, err := r.db.Query(ctx, `SELECT page_id, block_id, content_hash, public_id, source_url, mirror_url, created_at
		FROM image_assets WHERE page_id = $1 ORDER BY created_at, block_id`, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []models.ImageAsset{}
	for rows.Next() {
		var a models.ImageAsset
		if err := rows.Scan(&a.PageID, &a.BlockID, &a.ContentHash, &a.PublicID, &a.SourceURL, &a.MirrorURL, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Mirrored = true
		assets = append(assets, a)
	}
	return assets, rows.Err()
}
