package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	appcatalog "github.com/ims/backend/internal/application/catalog"
	"github.com/ims/backend/internal/infrastructure/config"
)

// RedisDashboardCache stores dashboard snapshots in Redis, keyed by
// threshold. Suitable for deployments with multiple instances sharing
// one cache.
type RedisDashboardCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisDashboardCache creates a Redis-backed dashboard cache
func NewRedisDashboardCache(cfg config.RedisConfig, ttl time.Duration) (*RedisDashboardCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisDashboardCache{
		client:    client,
		keyPrefix: "dashboard:snapshot:",
		ttl:       ttl,
	}, nil
}

// Get returns the cached snapshot for the threshold, or (nil, nil) on miss
func (c *RedisDashboardCache) Get(ctx context.Context, threshold int64) (*appcatalog.DashboardResponse, error) {
	raw, err := c.client.Get(ctx, c.key(threshold)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read dashboard snapshot: %w", err)
	}

	var snapshot appcatalog.DashboardResponse
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard snapshot: %w", err)
	}
	return &snapshot, nil
}

// Set stores the snapshot for the threshold with the configured TTL
func (c *RedisDashboardCache) Set(ctx context.Context, threshold int64, snapshot *appcatalog.DashboardResponse) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode dashboard snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key(threshold), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store dashboard snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (c *RedisDashboardCache) Close() error {
	return c.client.Close()
}

func (c *RedisDashboardCache) key(threshold int64) string {
	return c.keyPrefix + strconv.FormatInt(threshold, 10)
}

var _ appcatalog.DashboardCache = (*RedisDashboardCache)(nil)
