package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CacheService provides Redis-backed caching for stats API payloads and
// aggregate snapshots.
type CacheService struct {
	client *redis.Client
	logger *logrus.Logger
	ctx    context.Context
}

// NewCacheService creates a new cache service instance
func NewCacheService(redisClient *redis.Client, logger *logrus.Logger) *CacheService {
	return &CacheService{
		client: redisClient,
		logger: logger,
		ctx:    context.Background(),
	}
}

// buildCacheKey constructs consistent cache keys
func (c *CacheService) buildCacheKey(elements ...string) string {
	return fmt.Sprintf("family-hub:%s", strings.Join(elements, ":"))
}

// Set stores a value in cache with TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Error("Failed to set cache value")
		return err
	}

	c.logger.WithFields(logrus.Fields{
		"key": key,
		"ttl": expiration.String(),
	}).Debug("Cached value successfully")

	return nil
}

// Get retrieves a value from cache
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("cache miss")
		}
		c.logger.WithError(err).WithField("key", key).Error("Failed to get cache value")
		return err
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		c.logger.WithError(err).WithField("key", key).Error("Failed to unmarshal cache value")
		return err
	}

	c.logger.WithField("key", key).Debug("Cache hit")
	return nil
}

// Delete removes a value from cache
func (c *CacheService) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Error("Failed to delete cache value")
		return err
	}
	return nil
}

// Exists checks if a key exists in cache
func (c *CacheService) Exists(ctx context.Context, key string) bool {
	count, err := c.client.Exists(ctx, key).Result()
	return err == nil && count > 0
}

// SetSimple stores a value using the service's background context.
func (c *CacheService) SetSimple(key string, value interface{}, expiration time.Duration) error {
	return c.Set(c.ctx, key, value, expiration)
}

// GetSimple retrieves a value using the service's background context.
func (c *CacheService) GetSimple(key string, dest interface{}) error {
	return c.Get(c.ctx, key, dest)
}

// InvalidateTeam drops cached payloads for one team selection.
func (c *CacheService) InvalidateTeam(teamID int) error {
	pattern := fmt.Sprintf("statsapi:*:%d", teamID)
	keys, err := c.client.Keys(c.ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		if err := c.client.Del(c.ctx, keys...).Err(); err != nil {
			c.logger.WithError(err).WithField("pattern", pattern).Error("Failed to delete keys by pattern")
			return err
		}
	}
	return nil
}

// IsHealthy reports whether Redis answers a ping.
func (c *CacheService) IsHealthy() bool {
	return c.client.Ping(c.ctx).Err() == nil
}
