package services

import (
	"context"
	"errors"
	"time"

	"blogsync/internal/logger"
	"blogsync/internal/mirror"
	"blogsync/internal/models"
	"blogsync/internal/notion"
	"blogsync/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const coverBlockID = "cover"

// ImageLedger: журнал загруженных картинок, ключ (pageId, blockId, contentHash).
type ImageLedger interface {
	Get(ctx context.Context, pageID, blockID, contentHash string) (*models.ImageAsset, error)
	Save(ctx context.Context, a *models.ImageAsset) error
	ListByPage(ctx context.Context, pageID string) ([]models.ImageAsset, error)
}

type BlockSource interface {
	BlockTree(ctx context.Context, pageID string) ([]*notion.Node, error)
}

type MirrorService struct {
	blocks      BlockSource
	uploader    mirror.Uploader
	ledger      ImageLedger
	concurrency int
	now         func() time.Time
}

// NewMirrorService: uploader == nil означает, что хранилище не настроено,
// и все операции становятся no-op.
func NewMirrorService(blocks BlockSource, uploader mirror.Uploader, ledger ImageLedger, concurrency int) *MirrorService {
	if concurrency <= 0 {
		concurrency = 4
	}
	if ledger == nil {
		ledger = repository.NewMemoryImageAssetRepo()
	}
	return &MirrorService{
		blocks:      blocks,
		uploader:    uploader,
		ledger:      ledger,
		concurrency: concurrency,
		now:         time.Now,
	}
}

func (s *MirrorService) Configured() bool { return s.uploader != nil }

// MirrorPage загружает дерево блоков страницы и зеркалирует все картинки.
func (s *MirrorService) MirrorPage(ctx context.Context, pageID string) ([]models.ImageAsset, error) {
	if !s.Configured() {
		logger.WithCtx(ctx).Info("Зеркалирование пропущено: хранилище картинок не настроено", zap.String("page_id", pageID))
		return []models.ImageAsset{}, nil
	}
	tree, err := s.blocks.BlockTree(ctx, pageID)
	if err != nil {
		return nil, err
	}
	return s.MirrorNodes(ctx, pageID, tree), nil
}

// MirrorPost: картинки страницы и обложка (для вебхука).
func (s *MirrorService) MirrorPost(ctx context.Context, st models.PageStatus) ([]models.ImageAsset, error) {
	assets, err := s.MirrorPage(ctx, st.PageID)
	if err != nil {
		return nil, err
	}
	if st.CoverImage != "" && s.Configured() {
		if cover, ok := s.mirrorCover(ctx, st.PageID, st.CoverImage); ok {
			assets = append(assets, cover)
		}
	}
	return assets, nil
}

// MirrorNodes зеркалирует картинки уже загруженного дерева. Ошибка одной
// загрузки не прерывает остальные: для неё возвращается исходная ссылка.
func (s *MirrorService) MirrorNodes(ctx context.Context, pageID string, nodes []*notion.Node) []models.ImageAsset {
	if !s.Configured() {
		return []models.ImageAsset{}
	}
	log := logger.WithCtx(ctx)

	type image struct {
		blockID string
		src     string
	}
	var images []image
	for _, b := range notion.Flatten(nodes) {
		if b.Type != "image" {
			continue
		}
		src := b.Content.FileURL()
		if !mirror.IsHTTPURL(src) {
			continue
		}
		images = append(images, image{blockID: b.ID, src: src})
	}
	if len(images) == 0 {
		log.Debug("Картинок на странице нет", zap.String("page_id", pageID))
		return []models.ImageAsset{}
	}

	assets := make([]models.ImageAsset, len(images))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, img := range images {
		g.Go(func() error {
			assets[i] = s.mirrorOne(ctx, pageID, img.blockID, img.src, mirror.PublicID(pageID, img.blockID, img.src), mirror.BlockMaxWidth)
			return nil
		})
	}
	_ = g.Wait()

	mirrored := 0
	for _, a := range assets {
		if a.Mirrored {
			mirrored++
		}
	}
	log.Info("Картинки страницы обработаны",
		zap.String("page_id", pageID),
		zap.Int("found", len(images)),
		zap.Int("mirrored", mirrored),
	)
	return assets
}

// MirrorCover возвращает ссылку на зеркало обложки или исходную ссылку.
func (s *MirrorService) MirrorCover(ctx context.Context, pageID, src string) string {
	if !s.Configured() || !mirror.IsHTTPURL(src) {
		return src
	}
	a, _ := s.mirrorCover(ctx, pageID, src)
	return a.MirrorURL
}

// LookupCover ищет обложку только в журнале, без загрузки.
func (s *MirrorService) LookupCover(ctx context.Context, pageID, src string) string {
	if !mirror.IsHTTPURL(src) {
		return src
	}
	a, err := s.ledger.Get(ctx, pageID, coverBlockID, mirror.ContentHash(src))
	if err != nil {
		return src
	}
	return a.MirrorURL
}

func (s *MirrorService) ListAssets(ctx context.Context, pageID string) ([]models.ImageAsset, error) {
	return s.ledger.ListByPage(ctx, pageID)
}

func (s *MirrorService) mirrorCover(ctx context.Context, pageID, src string) (models.ImageAsset, bool) {
	if !mirror.IsHTTPURL(src) {
		return models.ImageAsset{}, false
	}
	a := s.mirrorOne(ctx, pageID, coverBlockID, src, mirror.CoverPublicID(pageID, src), mirror.CoverMaxWidth)
	return a, true
}

func (s *MirrorService) mirrorOne(ctx context.Context, pageID, blockID, src, publicID string, maxWidth int) models.ImageAsset {
	log := logger.WithCtx(ctx).With(
		zap.String("page_id", pageID),
		zap.String("block_id", blockID),
		zap.String("public_id", publicID),
	)
	hash := mirror.ContentHash(src)

	existing, err := s.ledger.Get(ctx, pageID, blockID, hash)
	if err == nil {
		log.Debug("Картинка уже зеркалирована")
		return *existing
	}
	if !errors.Is(err, repository.ErrAssetNotFound) {
		log.Warn("Журнал картинок недоступен, загружаем заново", zap.Error(err))
	}

	asset := models.ImageAsset{
		PageID:      pageID,
		BlockID:     blockID,
		ContentHash: hash,
		PublicID:    publicID,
		SourceURL:   mirror.NormalizeURL(src),
		CreatedAt:   s.now(),
	}

	url, err := s.uploader.Upload(ctx, src, mirror.UploadOptions{PublicID: publicID, MaxWidth: maxWidth})
	if err != nil {
		// подписанная ссылка Notion живёт около часа, этого хватает до следующей попытки
		log.Warn("Ошибка загрузки картинки, используем исходную ссылку", zap.Error(err))
		asset.MirrorURL = src
		return asset
	}

	asset.MirrorURL = url
	asset.Mirrored = true
	if err := s.ledger.Save(ctx, &asset); err != nil {
		log.Warn("Не удалось записать картинку в журнал", zap.Error(err))
	}
	log.Info("Картинка зеркалирована", zap.String("mirror_url", url))
	return asset
}
