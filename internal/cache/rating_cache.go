package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"fixrx_backend/internal/models"
)

// RatingCache is the advisory cache of vendor rating aggregates. The
// database row stays authoritative: every rating write invalidates the
// key, and a miss simply falls through to the store. A nil client
// disables caching entirely.
type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRatingCache(client *redis.Client, ttl time.Duration) *RatingCache {
	return &RatingCache{client: client, ttl: ttl}
}

func key(vendorID string) string {
	return "vendor_rating:" + vendorID
}

// Get returns the cached aggregate, or (nil, nil) on miss or when the
// cache is disabled. Redis failures degrade to a miss.
func (c *RatingCache) Get(ctx context.Context, vendorID string) (*models.VendorRatingAggregate, error) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil, nil
	}

	data, err := c.client.Get(ctx, key(vendorID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var aggregate models.VendorRatingAggregate
	if err := json.Unmarshal(data, &aggregate); err != nil {
		// Corrupt entry: drop it and treat as miss.
		c.client.Del(ctx, key(vendorID))
		return nil, nil
	}
	return &aggregate, nil
}

func (c *RatingCache) Set(ctx context.Context, aggregate *models.VendorRatingAggregate) error {
	if c == nil || c.client == nil || c.ttl <= 0 || aggregate == nil {
		return nil
	}

	data, err := json.Marshal(aggregate)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(aggregate.VendorID), data, c.ttl).Err()
}

// Invalidate must be called after every rating write for the vendor.
func (c *RatingCache) Invalidate(ctx context.Context, vendorID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key(vendorID)).Err()
}
