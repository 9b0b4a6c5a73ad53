package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blogsync/internal/logger"
	"blogsync/internal/models"

	"go.uber.org/zap"
)

// ErrMissingSlug: у страницы нет свойства slug (или оно пустое).
var ErrMissingSlug = errors.New("notion: page has no slug")

const queryPageSize = 100

type QueryRequest struct {
	Filter      any    `json:"filter,omitempty"`
	Sorts       []Sort `json:"sorts,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
}

type Sort struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

func (c *Client) RetrievePage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodGet, "/pages/"+url.PathEscape(pageID), nil, &page); err != nil {
		return nil, fmt.Errorf("retrieve page %s: %w", pageID, err)
	}
	return &page, nil
}

// Query проходит все страницы выдачи data source (has_more/next_cursor), пока не наберёт limit.
// limit <= 0: без ограничения.
func (c *Client) Query(ctx context.Context, req QueryRequest, limit int) ([]Page, error) {
	dsID, err := c.DataSourceID(ctx)
	if err != nil {
		return nil, err
	}

	var pages []Page
	for {
		req.PageSize = queryPageSize
		if limit > 0 && limit-len(pages) < queryPageSize {
			req.PageSize = limit - len(pages)
		}

		var resp listResponse[Page]
		if err := c.do(ctx, http.MethodPost, "/data_sources/"+dsID+"/query", req, &resp); err != nil {
			return nil, fmt.Errorf("query data source: %w", err)
		}
		for _, p := range resp.Results {
			// в выдаче могут встречаться не только страницы
			if p.Object != "" && p.Object != "page" {
				continue
			}
			pages = append(pages, p)
		}

		if !resp.HasMore || resp.NextCursor == nil || (limit > 0 && len(pages) >= limit) {
			break
		}
		req.StartCursor = *resp.NextCursor
	}
	return pages, nil
}

func (c *Client) publishedFilter() map[string]any {
	return map[string]any{
		"property": c.props.Status,
		"select":   map[string]any{"equals": c.published},
	}
}

// QueryPublished: опубликованные страницы, новые сверху.
func (c *Client) QueryPublished(ctx context.Context, limit int) ([]Page, error) {
	return c.Query(ctx, QueryRequest{
		Filter: c.publishedFilter(),
		Sorts:  []Sort{{Property: c.props.PublishDate, Direction: "descending"}},
	}, limit)
}

// FindPublishedBySlug ищет опубликованную страницу по slug.
func (c *Client) FindPublishedBySlug(ctx context.Context, slug string) (*Page, error) {
	pages, err := c.Query(ctx, QueryRequest{
		Filter: map[string]any{
			"and": []any{
				map[string]any{
					"property":  c.props.Slug,
					"rich_text": map[string]any{"equals": slug},
				},
				c.publishedFilter(),
			},
		},
	}, 1)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, ErrNotFound
	}
	return &pages[0], nil
}

// PostMeta разбирает свойства страницы. false: страница невидима
// (нет заголовка или slug).
func (c *Client) PostMeta(page *Page) (models.PostMeta, bool) {
	title := strings.TrimSpace(page.Prop(c.props.Title).Text())
	slug := strings.TrimSpace(page.Prop(c.props.Slug).Text())
	if title == "" || slug == "" {
		logger.Log.Warn("Notion: у страницы нет обязательных полей (title/slug)", zap.String("page_id", page.ID))
		return models.PostMeta{}, false
	}

	meta := models.PostMeta{
		ID:          page.ID,
		Title:       title,
		Slug:        slug,
		Status:      page.Prop(c.props.Status).Text(),
		Excerpt:     page.Prop(c.props.Excerpt).Text(),
		PublishDate: parseDate(page.Prop(c.props.PublishDate).Text(), page.CreatedTime),
		Tags:        []string{},
		Category:    page.Prop(c.props.Category).Text(),
		CoverImage:  page.Cover.URL(),
	}
	if p := page.Prop(c.props.Tags); p != nil && p.Type == "multi_select" {
		for _, o := range p.MultiSelect {
			meta.Tags = append(meta.Tags, o.Name)
		}
	}
	if p := page.Prop(c.props.Featured); p != nil && p.Type == "checkbox" {
		meta.Featured = p.Checkbox
	}
	return meta, true
}

// PostMetas: видимые посты из списка страниц.
func (c *Client) PostMetas(pages []Page) []models.PostMeta {
	out := make([]models.PostMeta, 0, len(pages))
	for i := range pages {
		if meta, ok := c.PostMeta(&pages[i]); ok {
			out = append(out, meta)
		}
	}
	return out
}

// PublishedPosts: все видимые опубликованные посты, новые сверху.
func (c *Client) PublishedPosts(ctx context.Context) ([]models.PostMeta, error) {
	pages, err := c.QueryPublished(ctx, 0)
	if err != nil {
		return nil, err
	}
	return c.PostMetas(pages), nil
}

// PostBySlug: карточка опубликованного поста; ErrNotFound, если пост невидим.
func (c *Client) PostBySlug(ctx context.Context, slug string) (models.PostMeta, error) {
	page, err := c.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return models.PostMeta{}, err
	}
	meta, ok := c.PostMeta(page)
	if !ok {
		return models.PostMeta{}, ErrNotFound
	}
	return meta, nil
}

// PageStatus: slug и статус публикации по ID страницы (для вебхука).
func (c *Client) PageStatus(ctx context.Context, pageID string) (models.PageStatus, error) {
	page, err := c.RetrievePage(ctx, pageID)
	if err != nil {
		return models.PageStatus{}, err
	}

	status := page.Prop(c.props.Status).Text()
	published := status == c.published && !page.InTrash && !page.Archived

	logger.WithCtx(ctx).Debug("Notion: статус страницы",
		zap.String("page_id", pageID),
		zap.String("status", status),
		zap.Bool("published", published),
	)

	slugProp := page.Prop(c.props.Slug)
	if slugProp == nil || slugProp.Type != "rich_text" {
		return models.PageStatus{}, fmt.Errorf("%w: page %s has no rich_text %q property", ErrMissingSlug, pageID, c.props.Slug)
	}
	slug := strings.TrimSpace(slugProp.Text())
	if slug == "" {
		return models.PageStatus{}, fmt.Errorf("%w: page %s", ErrMissingSlug, pageID)
	}

	return models.PageStatus{
		PageID:     pageID,
		Slug:       slug,
		Published:  published,
		CoverImage: page.Cover.URL(),
	}, nil
}

func parseDate(v string, fallback time.Time) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000-07:00", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return fallback
}
