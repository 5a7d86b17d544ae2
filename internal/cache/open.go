package cache

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/agenthands/rellink/internal/config"
)

// NewRedisClient connects and pings the server at addr.
func NewRedisClient(ctx context.Context, addr string) (*goredis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewStore picks the store for one named cache. File caches live at path; Redis caches share
// the client and use "<redis_key>:<name>" as hash key.
func NewStore[V any](cfg config.CacheConfig, rdb goredis.Cmdable, name, path string) (Store[V], error) {
	switch cfg.Backend {
	case "", "file":
		if path == "" {
			return nil, nil
		}
		return NewFileStore[V](path), nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis cache %s requires a client", name)
		}
		return NewRedisStore[V](rdb, cfg.RedisKey+":"+name), nil
	}
	return nil, fmt.Errorf("unsupported cache backend: %q", cfg.Backend)
}
