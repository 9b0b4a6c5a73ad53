package mirror

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"blogsync/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestUploader направляет загрузки Cloudinary на локальный сервер.
func newTestUploader(t *testing.T, handler func(w http.ResponseWriter, form url.Values)) (*CloudinaryUploader, *[]string) {
	t.Helper()
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		form, err := url.ParseQuery(string(body))
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		handler(w, form)
	}))
	t.Cleanup(srv.Close)

	u, err := NewCloudinaryUploader(&config.Config{
		CloudinaryCloudName: "demo",
		CloudinaryAPIKey:    "key",
		CloudinaryAPISecret: "secret",
		CloudinaryFolder:    "blog",
		CloudinaryTimeout:   5 * time.Second,
	})
	require.NoError(t, err)
	u.cld.Upload.Config.API.UploadPrefix = srv.URL
	return u, &paths
}

func TestCloudinaryUploader_Params(t *testing.T) {
	src := "https://prod-files-secure.s3.us-west-2.amazonaws.com/a/pic.png?X-Amz-Signature=one"
	var got url.Values
	u, paths := newTestUploader(t, func(w http.ResponseWriter, form url.Values) {
		got = form
		_, _ = io.WriteString(w, `{"public_id":"blog/notion-p1-b1","secure_url":"https://res.cloudinary.com/demo/image/upload/blog/notion-p1-b1.jpg"}`)
	})

	mirrored, err := u.Upload(context.Background(), src, UploadOptions{PublicID: "notion-p1-b1"})
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/blog/notion-p1-b1.jpg", mirrored)

	require.Len(t, *paths, 1)
	assert.Equal(t, "/v1_1/demo/auto/upload", (*paths)[0])
	assert.Equal(t, src, got.Get("file"))
	assert.Equal(t, "notion-p1-b1", got.Get("public_id"))
	assert.Equal(t, "blog", got.Get("folder"))
	assert.Equal(t, "false", got.Get("overwrite"))
	assert.Equal(t, "c_limit,w_1920/q_auto/f_auto", got.Get("transformation"))
	assert.Equal(t, "key", got.Get("api_key"))
	assert.NotEmpty(t, got.Get("signature"))
}

func TestCloudinaryUploader_CoverWidth(t *testing.T) {
	var transformation string
	u, _ := newTestUploader(t, func(w http.ResponseWriter, form url.Values) {
		transformation = form.Get("transformation")
		_, _ = io.WriteString(w, `{"secure_url":"https://res.cloudinary.com/demo/image/upload/c.jpg"}`)
	})

	_, err := u.Upload(context.Background(), "https://example.com/c.jpg", UploadOptions{PublicID: "cover", MaxWidth: CoverMaxWidth})
	require.NoError(t, err)
	assert.Equal(t, "c_limit,w_2400/q_auto/f_auto", transformation)
}

func TestCloudinaryUploader_Errors(t *testing.T) {
	u, _ := newTestUploader(t, func(w http.ResponseWriter, _ url.Values) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"Resource not found"}}`)
	})
	_, err := u.Upload(context.Background(), "https://example.com/x.png", UploadOptions{PublicID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Resource not found")

	u, _ = newTestUploader(t, func(w http.ResponseWriter, _ url.Values) {
		_, _ = io.WriteString(w, `{"public_id":"x"}`)
	})
	_, err = u.Upload(context.Background(), "https://example.com/x.png", UploadOptions{PublicID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty secure_url")
}

func TestNewCloudinaryUploader_NotConfigured(t *testing.T) {
	_, err := NewCloudinaryUploader(&config.Config{CloudinaryCloudName: "demo"})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}
