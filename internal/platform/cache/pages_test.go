package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestPageCache(t *testing.T) *PageCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPageCache(client, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPageCacheFetchJSONPopulatesOnce(t *testing.T) {
	c := newTestPageCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return map[string]string{"title": "hello"}, nil
	}

	var first map[string]string
	require.NoError(t, c.FetchJSON(ctx, "home", "feed", &first, loader))
	require.Equal(t, "hello", first["title"])

	var second map[string]string
	require.NoError(t, c.FetchJSON(ctx, "home", "feed", &second, loader))
	require.Equal(t, "hello", second["title"])
	require.Equal(t, 1, calls)
}

func TestPageCacheInvalidateBumpsVersion(t *testing.T) {
	c := newTestPageCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	var got int
	require.NoError(t, c.FetchJSON(ctx, "home", "feed", &got, loader))
	require.Equal(t, 1, got)

	c.Invalidate(ctx, "home")

	require.NoError(t, c.FetchJSON(ctx, "home", "feed", &got, loader))
	require.Equal(t, 2, got)
	require.Equal(t, 2, calls)
}

func TestPageCacheSectionsAreIndependent(t *testing.T) {
	c := newTestPageCache(t)
	ctx := context.Background()

	newsCalls := 0
	var got string
	load := func(value string, counter *int) func(context.Context) (any, error) {
		return func(context.Context) (any, error) {
			*counter++
			return value, nil
		}
	}

	require.NoError(t, c.FetchJSON(ctx, "news", "list", &got, load("news", &newsCalls)))
	c.Invalidate(ctx, "home")
	require.NoError(t, c.FetchJSON(ctx, "news", "list", &got, load("news", &newsCalls)))
	require.Equal(t, 1, newsCalls)
}

func TestPageCacheNilClientPassesThrough(t *testing.T) {
	c := NewPageCache(nil, time.Minute, nil)
	calls := 0
	var got string
	loader := func(context.Context) (any, error) {
		calls++
		return "fresh", nil
	}

	require.NoError(t, c.FetchJSON(context.Background(), "home", "feed", &got, loader))
	require.NoError(t, c.FetchJSON(context.Background(), "home", "feed", &got, loader))
	require.Equal(t, "fresh", got)
	require.Equal(t, 2, calls)

	c.Invalidate(context.Background(), "home")
}
