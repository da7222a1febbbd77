// Package cache holds best-effort redis caches for derived read-path data.
// Nothing here is authoritative; every value can be recomputed from the
// persistent store.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"securesphere/internal/model"
)

// StatusCache caches the derived product status for dashboard reads.
type StatusCache interface {
	Set(ctx context.Context, status *model.ProductStatus) error
	Get(ctx context.Context, productID, userID string) (*model.ProductStatus, error)
	Invalidate(ctx context.Context, productID, userID string) error
}

type statusCache struct {
	client *redis.Client
}

// NewStatusCache creates a redis-backed status cache.
func NewStatusCache(client *redis.Client) StatusCache {
	return &statusCache{client: client}
}

func statusKey(productID, userID string) string {
	return "status:" + productID + ":" + userID
}

func (c *statusCache) Set(ctx context.Context, status *model.ProductStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statusKey(status.ProductID, status.UserID), data, 10*time.Minute).Err()
}

func (c *statusCache) Get(ctx context.Context, productID, userID string) (*model.ProductStatus, error) {
	data, err := c.client.Get(ctx, statusKey(productID, userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var status model.ProductStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *statusCache) Invalidate(ctx context.Context, productID, userID string) error {
	return c.client.Del(ctx, statusKey(productID, userID)).Err()
}
