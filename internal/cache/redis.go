package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the shared-cache backend for multi-replica deployments.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedis(cfg RedisConfig) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Redis{rdb: rdb, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.rdb.Get(ctx, key).Bytes()

	// cache misses and cache errors read the same to callers
	if err != nil {
		return nil, false
	}

	return val, true
}

func (c *Redis) Set(ctx context.Context, key string, val []byte) {
	_ = c.rdb.Set(ctx, key, val, c.ttl).Err()
}

func (c *Redis) Delete(ctx context.Context, key string) {
	_ = c.rdb.Del(ctx, key).Err()
}

func (c *Redis) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.rdb.Close()
}
