package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// timelineKeyPrefix is the key prefix for per-user timeline caches.
	timelineKeyPrefix = "timeline:user:"

	// TimelineTTL keeps cached timelines short-lived; the database is the
	// source of truth and a stale entry self-heals within this window even
	// when an invalidation is lost.
	TimelineTTL = 60 * time.Second
)

// TimelineCache caches the ordered message IDs of a user's home timeline.
// Implementations must degrade gracefully: a cache error is never a reason
// to fail the request, callers fall back to the database.
type TimelineCache interface {
	// Get returns the cached message IDs, newest first. ok is false on a
	// cache miss.
	Get(ctx context.Context, userID int64) (ids []int64, ok bool, err error)

	// Set replaces the user's cached timeline with the given IDs and
	// timestamps, refreshing the TTL.
	Set(ctx context.Context, userID int64, ids []int64, timestamps []int64) error

	// Invalidate drops the cached timelines of the given users.
	Invalidate(ctx context.Context, userIDs []int64) error
}

// RedisTimelineCache stores each timeline as a sorted set of message IDs
// scored by publish timestamp.
type RedisTimelineCache struct {
	client *redis.Client
}

// NewRedisTimelineCache connects to Redis and verifies the connection, so a
// misconfigured cache fails at startup rather than on the first request.
// URL format: redis://[:password@]host:port[/db]
func NewRedisTimelineCache(ctx context.Context, redisURL string) (*RedisTimelineCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisTimelineCache{client: client}, nil
}

// NewRedisTimelineCacheWithClient wraps an existing client; used by tests.
func NewRedisTimelineCacheWithClient(client *redis.Client) *RedisTimelineCache {
	return &RedisTimelineCache{client: client}
}

func timelineKey(userID int64) string {
	return timelineKeyPrefix + strconv.FormatInt(userID, 10)
}

func (c *RedisTimelineCache) Get(ctx context.Context, userID int64) ([]int64, bool, error) {
	members, err := c.client.ZRevRange(ctx, timelineKey(userID), 0, -1).Result()
	if err != nil {
		return nil, false, fmt.Errorf("zrevrange timeline: %w", err)
	}
	if len(members) == 0 {
		return nil, false, nil
	}

	ids := make([]int64, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, false, fmt.Errorf("corrupt timeline member %q: %w", member, err)
		}
		ids = append(ids, id)
	}
	return ids, true, nil
}

// Set writes the whole timeline in one pipeline: clear, ZADD, EXPIRE. Empty
// timelines are left uncached; Get reports them as misses and the caller
// falls through to the database.
func (c *RedisTimelineCache) Set(ctx context.Context, userID int64, ids []int64, timestamps []int64) error {
	if len(ids) != len(timestamps) {
		return fmt.Errorf("ids and timestamps length mismatch: %d != %d", len(ids), len(timestamps))
	}

	key := timelineKey(userID)
	members := make([]redis.Z, len(ids))
	for i, id := range ids {
		members[i] = redis.Z{
			Score:  float64(timestamps[i]),
			Member: strconv.FormatInt(id, 10),
		}
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(members) > 0 {
		pipe.ZAdd(ctx, key, members...)
	}
	pipe.Expire(ctx, key, TimelineTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set timeline: %w", err)
	}
	return nil
}

func (c *RedisTimelineCache) Invalidate(ctx context.Context, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = timelineKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate timelines: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *RedisTimelineCache) Close() error {
	return c.client.Close()
}
