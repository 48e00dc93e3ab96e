package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"TRAVELPACK_BACK-END/internal/config"
)

const cacheKey = "images:search:%s"

// Cache stores search results by normalized query
type Cache interface {
	Get(ctx context.Context, query string) ([]Image, bool)
	Set(ctx context.Context, query string, imgs []Image, ttl time.Duration) error
}

// NoCache never hits
type NoCache struct{}

func (NoCache) Get(context.Context, string) ([]Image, bool) { return nil, false }

func (NoCache) Set(context.Context, string, []Image, time.Duration) error { return nil }

// RedisCache keeps results in Redis as JSON
type RedisCache struct {
	cli *redis.Client
}

// NewRedisCache connects to Redis and pings it
func NewRedisCache(ctx context.Context, cfg config.RedisConfig) (*RedisCache, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		cli.Close()
		return nil, err
	}
	return &RedisCache{cli: cli}, nil
}

func (c *RedisCache) Get(ctx context.Context, query string) ([]Image, bool) {
	raw, err := c.cli.Get(ctx, key(query)).Bytes()
	if err != nil {
		return nil, false
	}
	var imgs []Image
	if err := json.Unmarshal(raw, &imgs); err != nil {
		return nil, false
	}
	return imgs, true
}

func (c *RedisCache) Set(ctx context.Context, query string, imgs []Image, ttl time.Duration) error {
	raw, err := json.Marshal(imgs)
	if err != nil {
		return err
	}
	return c.cli.Set(ctx, key(query), raw, ttl).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.cli.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.cli.Close()
}

func key(query string) string {
	return fmt.Sprintf(cacheKey, query)
}
