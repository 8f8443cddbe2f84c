package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisPoolSize     = 20
	redisMinIdleConns = 2
	redisDialTimeout  = 3 * time.Second
	redisOpTimeout    = 2 * time.Second
)

// New dials Redis and verifies connectivity before returning the client.
// Sessions, the page cache and rate limiting all share this pool, so the
// size leaves headroom over the default.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     redisPoolSize,
		MinIdleConns: redisMinIdleConns,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisOpTimeout,
		WriteTimeout: redisOpTimeout,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("platform/cache: ping: %w", err)
	}

	return client, nil
}
