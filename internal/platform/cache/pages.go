package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Invalidator is the section-invalidation contract mutations depend on.
// Satisfied by PageCache directly and by the queue-backed fanout in jobs.
type Invalidator interface {
	Invalidate(ctx context.Context, sections ...string)
}

// PageCache caches rendered listing/detail payloads under versioned section
// keys. Invalidation bumps the section version, making every key built
// against the old version unreachable; stale entries age out via TTL.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewPageCache instantiates the cache helper. A nil client yields a
// pass-through cache, which keeps tests and degraded startups simple.
func NewPageCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *PageCache {
	return &PageCache{client: client, ttl: ttl, logger: logger}
}

func versionKey(section string) string {
	return "pages:version:" + section
}

// Version returns the current version for a section, initialising when missing.
func (c *PageCache) Version(ctx context.Context, section string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey(section)).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.Set(ctx, versionKey(section), 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey composes a cache key scoped to the section's current version.
func (c *PageCache) BuildKey(ctx context.Context, section, key string) (string, error) {
	ver, err := c.Version(ctx, section)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("pages:%s:%d:%s", section, ver, key), nil
}

// FetchJSON loads a cached value or populates it using the loader.
func (c *PageCache) FetchJSON(ctx context.Context, section, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, dest)
	}

	fullKey, err := c.BuildKey(ctx, section, key)
	if err != nil {
		return err
	}
	raw, err := c.client.Get(ctx, fullKey).Bytes()
	if err == nil {
		return json.Unmarshal(raw, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return err
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, fullKey, encoded, c.ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(encoded, dest)
}

// Invalidate bumps the version of each section. Best effort: failures are
// logged and swallowed so a cache outage never fails a mutation.
func (c *PageCache) Invalidate(ctx context.Context, sections ...string) {
	if c == nil || c.client == nil {
		return
	}
	for _, section := range sections {
		if err := c.client.Incr(ctx, versionKey(section)).Err(); err != nil && c.logger != nil {
			c.logger.Warn("page cache invalidate", slog.String("section", section), slog.Any("error", err))
		}
	}
}
