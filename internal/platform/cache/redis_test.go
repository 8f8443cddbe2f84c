package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestNewConnectsAndConfiguresPool(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	opts := client.Options()
	require.Equal(t, redisPoolSize, opts.PoolSize)
	require.Equal(t, redisMinIdleConns, opts.MinIdleConns)
	require.Equal(t, redisDialTimeout, opts.DialTimeout)
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	_, err := New(context.Background(), "127.0.0.1:1")
	require.Error(t, err)
}
