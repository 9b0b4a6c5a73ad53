// Package cache: кэш отрендеренных страниц с инвалидацией по пути и по тегу.
package cache

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrMiss = errors.New("cache: miss")

const (
	pagePrefix = "page:"
	tagPrefix  = "tag:"
)

// Store хранит ответы по пути. Каждая запись может принадлежать нескольким тегам.
type Store interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Set(ctx context.Context, path string, value []byte, tags ...string) error
	InvalidatePath(ctx context.Context, path string) error
	InvalidateTag(ctx context.Context, tag string) error
}

// GetJSON читает и декодирует запись. ok=false при промахе или битой записи.
func GetJSON[T any](ctx context.Context, s Store, path string, out *T) bool {
	raw, err := s.Get(ctx, path)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func SetJSON(ctx context.Context, s Store, path string, v any, tags ...string) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, path, raw, tags...)
}
