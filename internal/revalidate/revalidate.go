// Package revalidate: инвалидация закэшированных страниц по пути и по тегу.
package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const TokenHeader = "x-revalidate-token"

// Invalidator реализуют cache.Store и Remote.
type Invalidator interface {
	InvalidatePath(ctx context.Context, path string) error
	InvalidateTag(ctx context.Context, tag string) error
}

// Remote пересылает инвалидацию во фронтенд: POST {base}/api/revalidate.
type Remote struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewRemote(baseURL, token string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Remote{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (r *Remote) InvalidatePath(ctx context.Context, path string) error {
	return r.post(ctx, map[string]string{"path": path})
}

func (r *Remote) InvalidateTag(ctx context.Context, tag string) error {
	return r.post(ctx, map[string]string{"tag": tag})
}

func (r *Remote) post(ctx context.Context, body map[string]string) error {
	if r.token == "" {
		return errors.New("revalidate: REVALIDATE_TOKEN is not set")
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/revalidate", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(TokenHeader, r.token)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("revalidate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("revalidate: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Multi вызывает все инвалидаторы по очереди; ошибки объединяются.
type Multi []Invalidator

func (m Multi) InvalidatePath(ctx context.Context, path string) error {
	var errs []error
	for _, inv := range m {
		if err := inv.InvalidatePath(ctx, path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) InvalidateTag(ctx context.Context, tag string) error {
	var errs []error
	for _, inv := range m {
		if err := inv.InvalidateTag(ctx, tag); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
