package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"blogsync/internal/models"
)

// MemoryImageAssetRepo: журнал в памяти, когда Postgres не настроен.
type MemoryImageAssetRepo struct {
	mu     sync.RWMutex
	assets map[string]models.ImageAsset
	now    func() time.Time
}

func NewMemoryImageAssetRepo() *MemoryImageAssetRepo {
	return &MemoryImageAssetRepo{assets: make(map[string]models.ImageAsset), now: time.Now}
}

func assetKey(pageID, blockID, contentHash string) string {
	return pageID + "\x00" + blockID + "\x00" + contentHash
}

func (r *MemoryImageAssetRepo) Get(_ context.Context, pageID, blockID, contentHash string) (*models.ImageAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[assetKey(pageID, blockID, contentHash)]
	if !ok {
		return nil, ErrAssetNotFound
	}
	return &a, nil
}

func (r *MemoryImageAssetRepo) Save(_ context.Context, a *models.ImageAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := assetKey(a.PageID, a.BlockID, a.ContentHash)
	if _, exists := r.assets[key]; exists {
		return nil
	}
	stored := *a
	stored.Mirrored = true
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now()
	}
	r.assets[key] = stored
	return nil
}

func (r *MemoryImageAssetRepo) ListByPage(_ context.Context, pageID string) ([]models.ImageAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.ImageAsset{}
	for _, a := range r.assets {
		if a.PageID == pageID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].BlockID < out[j].BlockID
	})
	return out, nil
}
