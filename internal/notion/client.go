// Package notion: тонкий клиент Notion REST API (pages, data sources, blocks).
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"blogsync/internal/config"
	"blogsync/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2025-09-03"

	// MaxBlockDepth: предел вложенности при обходе дерева блоков.
	MaxBlockDepth = 32

	maxAttempts  = 3
	initialDelay = 300 * time.Millisecond
	maxDelay     = 5 * time.Second
)

type Options struct {
	APIKey     string
	DatabaseID string
	Version    string
	BaseURL    string
	Timeout    time.Duration
	Props      config.PropertyMapping
	Published  string
	HTTPClient *http.Client
}

// OptionsFromConfig собирает Options из конфига приложения.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		APIKey:     cfg.NotionAPIKey,
		DatabaseID: cfg.NotionDatabaseID,
		Version:    cfg.NotionVersion,
		Timeout:    cfg.NotionTimeout,
		Props:      cfg.NotionProps,
		Published:  cfg.NotionPublished,
	}
}

type Client struct {
	http       *http.Client
	baseURL    string
	apiKey     string
	version    string
	databaseID string
	props      config.PropertyMapping
	published  string

	// MaxDepth ограничивает обход дерева блоков.
	MaxDepth int

	mu           sync.Mutex
	dataSourceID string
}

func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	version := opts.Version
	if version == "" {
		version = DefaultVersion
	}
	published := opts.Published
	if published == "" {
		published = "Published"
	}
	return &Client{
		http:       hc,
		baseURL:    base,
		apiKey:     opts.APIKey,
		version:    version,
		databaseID: opts.DatabaseID,
		props:      opts.Props,
		published:  published,
		MaxDepth:   MaxBlockDepth,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != "" && c.databaseID != ""
}

// Props: маппинг свойств базы.
func (c *Client) Props() config.PropertyMapping { return c.props }

// PublishedStatus: значение Status, означающее «опубликовано».
func (c *Client) PublishedStatus() string { return c.published }

// do выполняет запрос; 429 и 5xx повторяются с экспоненциальной задержкой (Retry-After уважаем).
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("notion: encode request: %w", err)
		}
	}

	delay := initialDelay
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		wait, err := c.doOnce(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.retryable() || attempt == maxAttempts {
			break
		}
		if wait <= 0 {
			wait = delay
		}
		if wait > maxDelay {
			wait = maxDelay
		}
		logger.WithCtx(ctx).Debug("Notion: повтор запроса",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte, out any) (time.Duration, error) {
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", c.version)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("notion: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		apiErr.Status = resp.StatusCode
		return retryAfter(resp.Header.Get("Retry-After")), apiErr
	}

	if out == nil {
		return 0, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return 0, fmt.Errorf("notion: decode %s: %w", path, err)
	}
	return 0, nil
}

func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

// DataSourceID возвращает ID первого data source базы (API 2025-09-03).
// Значение кэшируется на клиенте; гонка при первом вызове безвредна: результат один и тот же.
func (c *Client) DataSourceID(ctx context.Context) (string, error) {
	c.mu.Lock()
	cached := c.dataSourceID
	c.mu.Unlock()
	if cached != "" {
		return cached, nil
	}
	if c.databaseID == "" {
		return "", ErrNotConfigured
	}

	var db struct {
		DataSources []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data_sources"`
	}
	if err := c.do(ctx, http.MethodGet, "/databases/"+c.databaseID, nil, &db); err != nil {
		return "", fmt.Errorf("retrieve data source id: %w", err)
	}
	if len(db.DataSources) == 0 {
		return "", ErrNoDataSource
	}

	id := db.DataSources[0].ID
	c.mu.Lock()
	c.dataSourceID = id
	c.mu.Unlock()

	logger.WithCtx(ctx).Info("Notion: используем data source",
		zap.String("name", db.DataSources[0].Name),
		zap.String("data_source_id", id),
	)
	return id, nil
}
