package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func stores(t *testing.T) map[string]Store {
	rs, _ := newRedisStore(t)
	return map[string]Store{
		"redis":  rs,
		"memory": NewMemoryStore(time.Hour),
	}
}

func TestStore_PathAndTagInvalidation(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Get(ctx, "/blog/hello")
			assert.ErrorIs(t, err, ErrMiss)

			require.NoError(t, s.Set(ctx, "/blog/hello", []byte("post"), "post:hello"))
			require.NoError(t, s.Set(ctx, "/api/posts?page=1", []byte("list1"), "posts"))
			require.NoError(t, s.Set(ctx, "/api/tags", []byte("tags"), "posts"))

			got, err := s.Get(ctx, "/blog/hello")
			require.NoError(t, err)
			assert.Equal(t, "post", string(got))

			require.NoError(t, s.InvalidateTag(ctx, "posts"))
			_, err = s.Get(ctx, "/api/posts?page=1")
			assert.ErrorIs(t, err, ErrMiss)
			_, err = s.Get(ctx, "/api/tags")
			assert.ErrorIs(t, err, ErrMiss)

			// запись без тега posts не задета
			_, err = s.Get(ctx, "/blog/hello")
			require.NoError(t, err)

			require.NoError(t, s.InvalidatePath(ctx, "/blog/hello"))
			_, err = s.Get(ctx, "/blog/hello")
			assert.ErrorIs(t, err, ErrMiss)

			// инвалидация пустого тега и отсутствующего пути: не ошибка
			assert.NoError(t, s.InvalidateTag(ctx, "nothing"))
			assert.NoError(t, s.InvalidatePath(ctx, "/missing"))
		})
	}
}

func TestRedisStore_Keys(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "/blog/a", []byte("x"), "posts"))

	assert.True(t, mr.Exists("page:/blog/a"))
	members, err := mr.SMembers("tag:posts")
	require.NoError(t, err)
	assert.Equal(t, []string{"page:/blog/a"}, members)
	assert.Equal(t, time.Hour, mr.TTL("page:/blog/a"))

	mr.FastForward(2 * time.Hour)
	_, err = s.Get(ctx, "/blog/a")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore_TTL(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "/a", []byte("1")))
	now = now.Add(2 * time.Minute)
	_, err := s.Get(ctx, "/a")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestJSONHelpers(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	type payload struct {
		Slug string `json:"slug"`
	}
	require.NoError(t, SetJSON(ctx, s, "/blog/x", payload{Slug: "x"}, "posts"))

	var got payload
	require.True(t, GetJSON(ctx, s, "/blog/x", &got))
	assert.Equal(t, "x", got.Slug)

	require.NoError(t, s.Set(ctx, "/broken", []byte("{")))
	assert.False(t, GetJSON(ctx, s, "/broken", &got))
	assert.False(t, GetJSON(ctx, s, "/none", &got))
}
