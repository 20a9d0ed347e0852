package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	RSSKey         = "feed:rss"
	SitemapKey     = "feed:sitemap"
	TopicsKey      = "topics:published"
	UserStatsKeyFn = "stats:user:%s"
)

const (
	FeedTTL      = 10 * time.Minute
	TopicsTTL    = 5 * time.Minute
	UserStatsTTL = 2 * time.Minute
)

func UserStatsKey(userID string) string {
	return fmt.Sprintf(UserStatsKeyFn, userID)
}

// GetJSON reads key into dest. Returns (true, nil) on a hit, (false, nil) on a miss
// or when rdb is nil.
func GetJSON(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	raw, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and stores it with ttl.
func SetJSON(ctx context.Context, rdb *redis.Client, key string, v any, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

// Aside serves dest from Redis when possible; on a miss (or any Redis failure) it
// calls fetch to fill dest and stores the result best-effort.
func Aside(ctx context.Context, rdb *redis.Client, key string, dest any, ttl time.Duration, fetch func(context.Context) error) error {
	if found, err := GetJSON(ctx, rdb, key, dest); err == nil && found {
		return nil
	}
	if err := fetch(ctx); err != nil {
		return err
	}
	_ = SetJSON(ctx, rdb, key, dest, ttl)
	return nil
}

// Invalidate drops keys, ignoring errors.
func Invalidate(ctx context.Context, rdb *redis.Client, keys ...string) {
	if rdb == nil || len(keys) == 0 {
		return
	}
	rdb.Del(ctx, keys...)
}

// InvalidateContent drops every cache derived from published posts.
func InvalidateContent(ctx context.Context, rdb *redis.Client) {
	Invalidate(ctx, rdb, RSSKey, SitemapKey, TopicsKey)
}
