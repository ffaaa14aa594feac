package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/weiawesome/wes-image-enhancer/internal/config"
	"github.com/weiawesome/wes-image-enhancer/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

type RedisOutcomeCache struct {
	client *redis.Client
	prefix string
}

func NewRedisOutcomeCache(cfg config.RedisConfig, prefix string) (*RedisOutcomeCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisOutcomeCache{
		client: client,
		prefix: prefix,
	}, nil
}

func (c *RedisOutcomeCache) key(imageID string) string {
	return c.prefix + imageID
}

func (c *RedisOutcomeCache) Get(ctx context.Context, imageID string) (*domain.Outcome, error) {
	data, err := c.client.Get(ctx, c.key(imageID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var outcome domain.Outcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return &outcome, nil
}

func (c *RedisOutcomeCache) Set(ctx context.Context, outcome *domain.Outcome, ttl time.Duration) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, c.key(outcome.ImageID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}

	return nil
}

func (c *RedisOutcomeCache) Close() error {
	return c.client.Close()
}
