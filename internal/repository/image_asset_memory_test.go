package repository

import (
	"context"
	"testing"

	"blogsync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryImageAssetRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryImageAssetRepo()

	_, err := repo.Get(ctx, "p1", "b1", "h1")
	assert.ErrorIs(t, err, ErrAssetNotFound)

	first := &models.ImageAsset{PageID: "p1", BlockID: "b1", ContentHash: "h1", MirrorURL: "https://cdn/1"}
	require.NoError(t, repo.Save(ctx, first))

	// повторное сохранение с тем же ключом не перезаписывает запись
	require.NoError(t, repo.Save(ctx, &models.ImageAsset{PageID: "p1", BlockID: "b1", ContentHash: "h1", MirrorURL: "https://cdn/other"}))
	require.NoError(t, repo.Save(ctx, &models.ImageAsset{PageID: "p1", BlockID: "b2", ContentHash: "h2", MirrorURL: "https://cdn/2"}))
	require.NoError(t, repo.Save(ctx, &models.ImageAsset{PageID: "p2", BlockID: "b1", ContentHash: "h1", MirrorURL: "https://cdn/3"}))

	got, err := repo.Get(ctx, "p1", "b1", "h1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/1", got.MirrorURL)
	assert.True(t, got.Mirrored)
	assert.False(t, got.CreatedAt.IsZero())

	list, err := repo.ListByPage(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b1", list[0].BlockID)
}
