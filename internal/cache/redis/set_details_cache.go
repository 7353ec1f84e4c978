// Package redis caches document provider set metadata in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"doccompare/internal/config"
	"doccompare/internal/domain"
	"doccompare/internal/port"
)

const keyPrefix = "doccompare:set-details:"

type setDetailsCache struct {
	client *redis.Client
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

// NewSetDetailsCache creates a Redis-backed SetDetailsCache.
func NewSetDetailsCache(client *redis.Client) port.SetDetailsCache {
	return &setDetailsCache{client: client}
}

func (c *setDetailsCache) Get(ctx context.Context, setID string) (*domain.RemoteSetDetails, error) {
	raw, err := c.client.Get(ctx, keyPrefix+setID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("setDetailsCache.Get: %w", err)
	}

	var details domain.RemoteSetDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, fmt.Errorf("setDetailsCache.Get: %w", err)
	}
	return &details, nil
}

func (c *setDetailsCache) Set(ctx context.Context, details *domain.RemoteSetDetails, ttl time.Duration) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("setDetailsCache.Set: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+details.SetID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("setDetailsCache.Set: %w", err)
	}
	return nil
}
