package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const rankingKey = "maturity:ranking"

// RankingEntry is one product's position in the maturity ranking.
type RankingEntry struct {
	ProductID     string  `json:"productId"`
	MaturityScore float64 `json:"maturityScore"`
}

// RankingCache keeps a sorted set of products by maturity score for the admin
// analytics view.
type RankingCache interface {
	Update(ctx context.Context, productID string, maturityScore float64) error
	Remove(ctx context.Context, productID string) error
	Top(ctx context.Context, n int64) ([]RankingEntry, error)
}

type rankingCache struct {
	client *redis.Client
}

// NewRankingCache creates a redis ZSET-backed maturity ranking.
func NewRankingCache(client *redis.Client) RankingCache {
	return &rankingCache{client: client}
}

func (c *rankingCache) Update(ctx context.Context, productID string, maturityScore float64) error {
	return c.client.ZAdd(ctx, rankingKey, redis.Z{Score: maturityScore, Member: productID}).Err()
}

func (c *rankingCache) Remove(ctx context.Context, productID string) error {
	return c.client.ZRem(ctx, rankingKey, productID).Err()
}

func (c *rankingCache) Top(ctx context.Context, n int64) ([]RankingEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, rankingKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]RankingEntry, 0, len(results))
	for _, z := range results {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, RankingEntry{ProductID: id, MaturityScore: z.Score})
	}
	return entries, nil
}
