// Package cache memoizes model predictions keyed by their feature row.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// PredictionCache stores predictions by feature row
type PredictionCache interface {
	Get(ctx context.Context, modelVersion string, features []float64) (float64, bool, error)
	Set(ctx context.Context, modelVersion string, features []float64, prediction float64) error
	Close() error
}

// Key builds the cache key for a feature row. The model version is part of
// the key so retraining never serves stale values.
func Key(modelVersion string, features []float64) string {
	parts := make([]string, len(features))
	for i, f := range features {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprintf("predict:%s:%s", modelVersion, strings.Join(parts, ","))
}

// RedisCache keeps predictions in Redis with a TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to addr and verifies the connection
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get returns a cached prediction
func (c *RedisCache) Get(ctx context.Context, modelVersion string, features []float64) (float64, bool, error) {
	val, err := c.client.Get(ctx, Key(modelVersion, features)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt cache entry: %w", err)
	}
	return f, true, nil
}

// Set stores a prediction
func (c *RedisCache) Set(ctx context.Context, modelVersion string, features []float64, prediction float64) error {
	return c.client.Set(ctx, Key(modelVersion, features), strconv.FormatFloat(prediction, 'g', -1, 64), c.ttl).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NoopCache never hits
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, []float64) (float64, bool, error) { return 0, false, nil }
func (NoopCache) Set(context.Context, string, []float64, float64) error       { return nil }
func (NoopCache) Close() error                                                 { return nil }
