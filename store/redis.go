package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the connection settings for NewRedisClient.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Redis keeps the token under a single redis key. The key never expires,
// the token is only removed by Clear.
type Redis struct {
	client redis.Cmdable
	key    string
}

// NewRedis returns a Redis store.
func NewRedis(client redis.Cmdable, opts ...Option) *Redis {
	o := buildOptions(opts)
	return &Redis{client: client, key: o.key}
}

func (r *Redis) Save(ctx context.Context, token string) error {
	return r.client.Set(ctx, r.key, token, 0).Err()
}

func (r *Redis) Load(ctx context.Context) (string, bool, error) {
	token, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func (r *Redis) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
