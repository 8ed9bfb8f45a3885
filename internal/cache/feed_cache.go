package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"yatube/pkg/logger"
)

const (
	feedKeyPrefix = "feed:index:"

	// FeedTTL is how long a rendered global feed page is served as-is.
	// Within the window readers get the cached bytes even if posts
	// changed underneath; Clear cuts the window short.
	FeedTTL = 20 * time.Second
)

// FeedCache caches the rendered global feed, one Redis key per page.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl <= 0 {
		ttl = FeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

func (c *FeedCache) key(page int) string {
	return fmt.Sprintf("%s%d", feedKeyPrefix, page)
}

func (c *FeedCache) Get(ctx context.Context, page int) ([]byte, bool) {
	data, err := c.client.Get(ctx, c.key(page)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores the rendered page. A cache write failure only costs a miss,
// so it is logged and swallowed.
func (c *FeedCache) Set(ctx context.Context, page int, body []byte) {
	if err := c.client.Set(ctx, c.key(page), body, c.ttl).Err(); err != nil {
		logger.Warn("feed cache set failed", zap.Int("page", page), zap.Error(err))
	}
}

// Clear drops every cached feed page; the next read renders fresh state.
func (c *FeedCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, feedKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
