package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("NOTION_API_KEY", "secret_x")
	t.Setenv("NOTION_DATABASE_ID", "db1")
	t.Setenv("NOTION_TIMEOUT", "")
	t.Setenv("NOTION_PROP_SLUG", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "Slug", cfg.NotionProps.Slug)
	assert.Equal(t, "Published", cfg.NotionPublished)
	assert.Equal(t, 15*time.Second, cfg.NotionTimeout)
	assert.Equal(t, "blog", cfg.CloudinaryFolder)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL")
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.Validate()
	require.Error(t, err, "без ключей Notion конфиг невалиден")

	cfg = &Config{NotionAPIKey: "k", NotionDatabaseID: "d"}
	warnings, err := cfg.Validate()
	require.NoError(t, err)
	assert.NotEmpty(t, warnings)
	assert.Equal(t, 10, cfg.PostsPerPage)
	assert.False(t, cfg.CloudinaryConfigured())
	assert.False(t, cfg.DatabaseConfigured())
}
