package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"securesphere/internal/model"
)

// UnreadCache caches role-scoped unread comment counts. Invalidated on every
// comment write; misses fall through to the store.
type UnreadCache interface {
	Set(ctx context.Context, userID string, role model.Role, count int64) error
	Get(ctx context.Context, userID string, role model.Role) (int64, bool, error)
	Invalidate(ctx context.Context, userIDs ...string) error
}

type unreadCache struct {
	client *redis.Client
}

// NewUnreadCache creates a redis-backed unread count cache.
func NewUnreadCache(client *redis.Client) UnreadCache {
	return &unreadCache{client: client}
}

func unreadKey(userID string) string {
	return "unread:" + userID
}

func (c *unreadCache) Set(ctx context.Context, userID string, role model.Role, count int64) error {
	return c.client.Set(ctx, unreadKey(userID), count, 5*time.Minute).Err()
}

func (c *unreadCache) Get(ctx context.Context, userID string, role model.Role) (int64, bool, error) {
	data, err := c.client.Get(ctx, unreadKey(userID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	count, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

func (c *unreadCache) Invalidate(ctx context.Context, userIDs ...string) error {
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = unreadKey(id)
	}
	return c.client.Del(ctx, keys...).Err()
}
