package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Redis is a Cache backed by a Redis server. Write and delete errors are
// logged, not returned: a cache failure must never fail the request.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewRedis(cfg RedisConfig, log *slog.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return NewRedisFromClient(client, cfg.TTL, log)
}

func NewRedisFromClient(client *redis.Client, ttl time.Duration, log *slog.Logger) *Redis {
	if log == nil {
		log = slog.Default()
	}

	return &Redis{client: client, ttl: ttl, log: log}
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.WarnContext(ctx, "cache read failed", "key", key, "err", err)
		}
		return nil, false
	}

	return b, true
}

func (c *Redis) Set(ctx context.Context, key string, val []byte) {
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "cache write failed", "key", key, "err", err)
	}
}

func (c *Redis) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.WarnContext(ctx, "cache delete failed", "key", key, "err", err)
	}
}

// Ping checks redis connectivity.
func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.client.Close()
}
