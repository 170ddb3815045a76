package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"amarhadis/pkg/config"
	"amarhadis/pkg/logger"
	"amarhadis/pkg/models"
	"amarhadis/pkg/utils"
)

// DailyCache caches resolved daily selections in Redis. Every method
// degrades silently: a cache outage must never affect what readers see.
type DailyCache struct {
	client *redis.Client
}

// NewDailyCache connects to Redis. Returns nil when Redis is disabled
// or unreachable, and callers treat a nil cache as a permanent miss.
func NewDailyCache(cfg config.RedisConfig) *DailyCache {
	if !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnf("Redis unavailable, daily cache disabled: %v", err)
		return nil
	}

	logger.Infof("Daily cache connected to Redis at %s", cfg.Addr)
	return &DailyCache{client: client}
}

func selectionKey(dateKey string) string {
	return fmt.Sprintf("daily:selection:%s", dateKey)
}

// Get returns the cached selection for a date, or nil on miss or error
func (c *DailyCache) Get(ctx context.Context, dateKey string) *models.DailySelection {
	if c == nil {
		return nil
	}

	data, err := c.client.Get(ctx, selectionKey(dateKey)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warnf("Daily cache read failed for %s: %v", dateKey, err)
		}
		return nil
	}

	var selection models.DailySelection
	if err := json.Unmarshal(data, &selection); err != nil {
		logger.Warnf("Daily cache entry for %s is corrupt, dropping: %v", dateKey, err)
		c.client.Del(ctx, selectionKey(dateKey))
		return nil
	}
	return &selection
}

// Set stores a selection until the date rolls over. Selections for past
// or future dates get a short flat TTL instead.
func (c *DailyCache) Set(ctx context.Context, selection *models.DailySelection) {
	if c == nil || selection == nil {
		return
	}

	data, err := json.Marshal(selection)
	if err != nil {
		logger.Warnf("Daily cache marshal failed for %s: %v", selection.DateKey, err)
		return
	}

	ttl := 15 * time.Minute
	if selection.DateKey == utils.TodayKey() {
		ttl = utils.UntilMidnight(time.Now())
	}

	if err := c.client.Set(ctx, selectionKey(selection.DateKey), data, ttl).Err(); err != nil {
		logger.Warnf("Daily cache write failed for %s: %v", selection.DateKey, err)
	}
}

// Invalidate drops the cached selection after a schedule change
func (c *DailyCache) Invalidate(ctx context.Context, dateKey string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, selectionKey(dateKey)).Err(); err != nil {
		logger.Warnf("Daily cache invalidate failed for %s: %v", dateKey, err)
	}
}

// Close releases the Redis connection
func (c *DailyCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
