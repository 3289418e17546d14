package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hauwenw/ping-parking/internal/config"
	"github.com/hauwenw/ping-parking/internal/storage"
)

const tokenKeyPrefix = "console:token:"

// Tokens stores operator bearer tokens in Redis with a TTL per key.
type Tokens struct {
	client *redis.Client
}

// NewClient connects and verifies the connection.
func NewClient(cfg config.Redis) (*Tokens, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Tokens{client: client}, nil
}

func NewTokens(client *redis.Client) *Tokens {
	return &Tokens{client: client}
}

func (t *Tokens) Get(ctx context.Context, key string) (string, error) {
	token, err := t.client.Get(ctx, tokenKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", storage.ErrTokenNotFound
		}
		return "", fmt.Errorf("cache.Get: %w", err)
	}
	return token, nil
}

func (t *Tokens) Put(ctx context.Context, key, token string, ttl time.Duration) error {
	if err := t.client.Set(ctx, tokenKeyPrefix+key, token, ttl).Err(); err != nil {
		return fmt.Errorf("cache.Put: %w", err)
	}
	return nil
}

func (t *Tokens) Delete(ctx context.Context, key string) error {
	if err := t.client.Del(ctx, tokenKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("cache.Delete: %w", err)
	}
	return nil
}

func (t *Tokens) Close() error {
	return t.client.Close()
}
