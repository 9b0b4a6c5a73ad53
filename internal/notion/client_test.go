package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"blogsync/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProps = config.PropertyMapping{
	Title:       "Title",
	Slug:        "Slug",
	Status:      "Status",
	PublishDate: "PublishDate",
	Tags:        "Tags",
	Category:    "Category",
	Excerpt:     "Excerpt",
	Featured:    "Featured",
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{
		APIKey:     "secret_test",
		DatabaseID: "db1",
		BaseURL:    srv.URL,
		Props:      testProps,
		Published:  "Published",
		Timeout:    5 * time.Second,
	})
}

func pageJSON(id, title, slug, status string) string {
	return fmt.Sprintf(`{
		"object":"page","id":%q,"created_time":"2024-05-01T10:00:00.000Z",
		"cover":{"type":"external","external":{"url":"https://example.com/cover.png"}},
		"properties":{
			"Title":{"type":"title","title":[{"type":"text","plain_text":%q}]},
			"Slug":{"type":"rich_text","rich_text":[{"type":"text","plain_text":%q}]},
			"Status":{"type":"select","select":{"name":%q}},
			"PublishDate":{"type":"date","date":{"start":"2024-06-01"}},
			"Tags":{"type":"multi_select","multi_select":[{"name":"go"},{"name":"notion"}]},
			"Category":{"type":"select","select":{"name":"dev"}},
			"Excerpt":{"type":"rich_text","rich_text":[{"type":"text","plain_text":"short"}]},
			"Featured":{"type":"checkbox","checkbox":true}
		}}`, id, title, slug, status)
}

func TestDataSourceID_Memoized(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/databases/db1", r.URL.Path)
		assert.Equal(t, "Bearer secret_test", r.Header.Get("Authorization"))
		assert.Equal(t, DefaultVersion, r.Header.Get("Notion-Version"))
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"data_sources":[{"id":"ds1","name":"Posts"}]}`))
	}))

	for i := 0; i < 3; i++ {
		id, err := c.DataSourceID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ds1", id)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDataSourceID_Empty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data_sources":[]}`))
	}))
	_, err := c.DataSourceID(context.Background())
	assert.ErrorIs(t, err, ErrNoDataSource)
}

func TestPageStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pages/p1":
			_, _ = w.Write([]byte(pageJSON("p1", "Hello", "hello-world", "Published")))
		case "/pages/p2":
			_, _ = w.Write([]byte(pageJSON("p2", "Draft", "draft-post", "Draft")))
		case "/pages/p3":
			_, _ = w.Write([]byte(pageJSON("p3", "No slug", "", "Published")))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found","message":"Could not find page"}`))
		}
	}))
	ctx := context.Background()

	st, err := c.PageStatus(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "hello-world", st.Slug)
	assert.True(t, st.Published)
	assert.Equal(t, "https://example.com/cover.png", st.CoverImage)

	st, err = c.PageStatus(ctx, "p2")
	require.NoError(t, err)
	assert.False(t, st.Published)

	_, err = c.PageStatus(ctx, "p3")
	assert.ErrorIs(t, err, ErrMissingSlug)

	_, err = c.PageStatus(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "object_not_found", apiErr.Code)
}

func TestQueryPublished_PaginatesAndParses(t *testing.T) {
	var queries int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/databases/db1" {
			_, _ = w.Write([]byte(`{"data_sources":[{"id":"ds1","name":"Posts"}]}`))
			return
		}
		require.Equal(t, "/data_sources/ds1/query", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		n := atomic.AddInt32(&queries, 1)
		if n == 1 {
			assert.Nil(t, req["start_cursor"])
			fmt.Fprintf(w, `{"results":[%s],"has_more":true,"next_cursor":"c2"}`, pageJSON("p1", "One", "one", "Published"))
			return
		}
		assert.Equal(t, "c2", req["start_cursor"])
		fmt.Fprintf(w, `{"results":[%s,%s,{"object":"data_source","id":"x"}],"has_more":false,"next_cursor":null}`,
			pageJSON("p2", "Two", "two", "Published"), pageJSON("p3", "", "three", "Published"))
	}))

	pages, err := c.QueryPublished(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	metas := c.PostMetas(pages)
	require.Len(t, metas, 2, "страница без заголовка невидима")
	assert.Equal(t, "one", metas[0].Slug)
	assert.Equal(t, []string{"go", "notion"}, metas[0].Tags)
	assert.Equal(t, "dev", metas[0].Category)
	assert.True(t, metas[0].Featured)
	assert.Equal(t, 2024, metas[0].PublishDate.Year())
	assert.Equal(t, time.June, metas[0].PublishDate.Month())
}

func TestDo_RetriesOnRateLimit(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"object":"error","status":429,"code":"rate_limited","message":"slow down"}`))
			return
		}
		_, _ = w.Write([]byte(pageJSON("p1", "Hello", "hello", "Published")))
	}))

	page, err := c.RetrievePage(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", page.ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestBlockTree_NestedAndDepthLimit(t *testing.T) {
	// root -> a(has children) -> b(has children) -> c
	children := map[string]string{
		"root": `[{"object":"block","id":"a","type":"toggle","has_children":true,"toggle":{"rich_text":[{"plain_text":"A"}]}},
		          {"object":"block","id":"img","type":"image","has_children":false,"image":{"type":"file","file":{"url":"https://s3/x.png"}}}]`,
		"a": `[{"object":"block","id":"b","type":"paragraph","has_children":true,"paragraph":{"rich_text":[{"plain_text":"B"}]}}]`,
		"b": `[{"object":"block","id":"c","type":"paragraph","has_children":false,"paragraph":{"rich_text":[{"plain_text":"C"}]}}]`,
	}
	var requested []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/blocks/"), "/children")
		requested = append(requested, id)
		fmt.Fprintf(w, `{"results":%s,"has_more":false,"next_cursor":null}`, children[id])
	}))

	tree, err := c.BlockTree(context.Background(), "root")
	require.NoError(t, err)
	require.Len(t, tree, 2)
	require.Len(t, tree[0].Children, 1)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, 2, tree[0].Children[0].Children[0].Depth)
	assert.Equal(t, "https://s3/x.png", tree[1].Block.Content.FileURL())

	var ids []string
	for _, b := range Flatten(tree) {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "img"}, ids)

	requested = nil
	c.MaxDepth = 2
	tree, err = c.BlockTree(context.Background(), "root")
	require.NoError(t, err)
	assert.Empty(t, tree[0].Children[0].Children, "глубже MaxDepth не ходим")
	assert.NotContains(t, requested, "b")
}

func TestNotConfigured(t *testing.T) {
	c := NewClient(Options{})
	_, err := c.RetrievePage(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, c.Configured())
}
