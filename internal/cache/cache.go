// Package cache is a thin Redis layer in front of briefing reads. It is a
// capability: when no Redis URL is configured every operation is a no-op
// miss, so callers never branch on whether caching is enabled.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stanbrief/internal/core"
)

// Cache stores generated briefing content keyed by (stan, date).
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis. An empty URL returns a disabled cache rather than
// an error.
func New(redisURL string, ttl time.Duration) (*Cache, error) {
	if redisURL == "" {
		return &Cache{}, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// Enabled reports whether a Redis backend is connected.
func (c *Cache) Enabled() bool { return c != nil && c.client != nil }

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func key(stanID, date string) string {
	return fmt.Sprintf("briefing:%s:%s", stanID, date)
}

// GetBriefing returns the cached content for (stan, date), or (nil, nil) on
// a miss. Cache errors are reported but are safe to treat as misses.
func (c *Cache) GetBriefing(ctx context.Context, stanID, date string) (*core.BriefingContent, error) {
	if !c.Enabled() {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, key(stanID, date)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache read failed: %w", err)
	}

	var content core.BriefingContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("cache entry corrupt: %w", err)
	}
	return &content, nil
}

// SetBriefing caches the content for (stan, date) with the configured TTL.
func (c *Cache) SetBriefing(ctx context.Context, stanID, date string, content *core.BriefingContent) error {
	if !c.Enabled() {
		return nil
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal briefing content: %w", err)
	}
	if err := c.client.Set(ctx, key(stanID, date), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache write failed: %w", err)
	}
	return nil
}

// InvalidateBriefing drops the cached entry for (stan, date).
func (c *Cache) InvalidateBriefing(ctx context.Context, stanID, date string) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Del(ctx, key(stanID, date)).Err()
}
