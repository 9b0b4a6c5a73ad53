package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"blogsync/internal/cache"
	"blogsync/internal/logger"
	"blogsync/internal/markdown"
	"blogsync/internal/mirror"
	"blogsync/internal/models"
	"blogsync/internal/notion"
	"blogsync/internal/render"

	"go.uber.org/zap"
)

var ErrPostNotFound = errors.New("post not found")

type PostSource interface {
	PublishedPosts(ctx context.Context) ([]models.PostMeta, error)
	PostBySlug(ctx context.Context, slug string) (models.PostMeta, error)
	BlockTree(ctx context.Context, pageID string) ([]*notion.Node, error)
}

type PostService struct {
	source    PostSource
	converter *markdown.Converter
	renderer  *render.Renderer
	mirror    *MirrorService
	cache     cache.Store
	perPage   int
}

func NewPostService(source PostSource, mirrorSvc *MirrorService, store cache.Store, perPage int) *PostService {
	if perPage <= 0 {
		perPage = 10
	}
	return &PostService{
		source:    source,
		converter: markdown.NewConverter(),
		renderer:  render.NewRenderer(),
		mirror:    mirrorSvc,
		cache:     store,
		perPage:   perPage,
	}
}

// published: все опубликованные посты. Список лежит под путями главной и ленты
// с тегом posts; сброс любого из путей заставляет перечитать Notion.
func (s *PostService) published(ctx context.Context) ([]models.PostMeta, error) {
	var posts []models.PostMeta
	if s.cache != nil && s.listCached(ctx, &posts) {
		return posts, nil
	}

	posts, err := s.source.PublishedPosts(ctx)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения постов из Notion", zap.Error(err))
		return nil, fmt.Errorf("fetch published posts: %w", err)
	}
	if s.mirror != nil {
		for i := range posts {
			posts[i].CoverImage = s.mirror.LookupCover(ctx, posts[i].ID, posts[i].CoverImage)
		}
	}

	if s.cache != nil {
		for _, path := range []string{ListPath, HomePath} {
			if err := cache.SetJSON(ctx, s.cache, path, posts, TagPosts); err != nil {
				logger.WithCtx(ctx).Warn("Не удалось закэшировать список постов",
					zap.String("path", path), zap.Error(err))
			}
		}
	}
	return posts, nil
}

func (s *PostService) listCached(ctx context.Context, out *[]models.PostMeta) bool {
	if _, err := s.cache.Get(ctx, HomePath); err != nil {
		return false
	}
	return cache.GetJSON(ctx, s.cache, ListPath, out)
}

// List: опубликованные посты с фильтрами по тегу, категории и featured.
func (s *PostService) List(ctx context.Context, opts models.ListOptions) ([]models.PostMeta, error) {
	all, err := s.published(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PostMeta, 0, len(all))
	for _, p := range all {
		if opts.Tag != "" && !containsString(p.Tags, opts.Tag) {
			continue
		}
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		if opts.Featured != nil && p.Featured != *opts.Featured {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Paginate: page начинается с 1, limit <= 0: значение по умолчанию.
func (s *PostService) Paginate(ctx context.Context, page, limit int, opts models.ListOptions) (models.PaginatedPosts, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.perPage
	}

	all, err := s.List(ctx, opts)
	if err != nil {
		return models.PaginatedPosts{}, err
	}

	start := (page - 1) * limit
	end := start + limit
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}
	return models.PaginatedPosts{
		Posts:   all[start:end],
		HasMore: end < len(all),
		Total:   len(all),
	}, nil
}

// Get: полный пост: блоки -> Markdown -> (зеркало картинок) -> HTML.
func (s *PostService) Get(ctx context.Context, slug string) (*models.Post, error) {
	log := logger.WithCtx(ctx).With(zap.String("slug", slug))
	path := PostPath(slug)

	var cached models.Post
	if s.cache != nil && cache.GetJSON(ctx, s.cache, path, &cached) {
		log.Debug("Пост из кэша")
		return &cached, nil
	}

	meta, err := s.source.PostBySlug(ctx, slug)
	if errors.Is(err, notion.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		log.Error("Ошибка поиска поста", zap.Error(err))
		return nil, fmt.Errorf("find post %q: %w", slug, err)
	}

	tree, err := s.source.BlockTree(ctx, meta.ID)
	if err != nil {
		log.Error("Ошибка загрузки блоков", zap.String("page_id", meta.ID), zap.Error(err))
		return nil, fmt.Errorf("load blocks of %s: %w", meta.ID, err)
	}

	md := s.converter.Convert(tree)
	if s.mirror != nil && s.mirror.Configured() {
		assets := s.mirror.MirrorNodes(ctx, meta.ID, tree)
		md = mirror.ReplaceURLs(md, mirror.BuildMapping(assets))
		meta.CoverImage = s.mirror.MirrorCover(ctx, meta.ID, meta.CoverImage)
	}

	doc, err := s.renderer.RenderDocument(md)
	if err != nil {
		log.Error("Ошибка рендеринга поста", zap.Error(err))
		return nil, fmt.Errorf("render %q: %w", slug, err)
	}

	post := &models.Post{PostMeta: meta, Document: doc}
	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, path, post, TagPosts); err != nil {
			log.Warn("Не удалось закэшировать пост", zap.Error(err))
		}
	}
	log.Info("Пост отрендерен",
		zap.Int("headings", len(doc.Headings)),
		zap.Int("references", len(doc.References)),
	)
	return post, nil
}

// Tags: уникальные теги опубликованных постов, по алфавиту.
func (s *PostService) Tags(ctx context.Context) ([]string, error) {
	all, err := s.published(ctx)
	if err != nil {
		return nil, err
	}
	set := map[string]struct{}{}
	for _, p := range all {
		for _, t := range p.Tags {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

func (s *PostService) Categories(ctx context.Context) ([]string, error) {
	all, err := s.published(ctx)
	if err != nil {
		return nil, err
	}
	set := map[string]struct{}{}
	for _, p := range all {
		if p.Category != "" {
			set[p.Category] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

// Search: подстрока в заголовке, описании или тегах, без учёта регистра.
func (s *PostService) Search(ctx context.Context, query string) ([]models.PostMeta, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.PostMeta{}, nil
	}
	all, err := s.published(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.PostMeta{}
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Excerpt), q) ||
			tagMatches(p.Tags, q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func tagMatches(tags []string, q string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
