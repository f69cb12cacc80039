package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "github.com/Adarsh-yadav-ui/Sangeet/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyUserByClerkID = "user:clerk:"
	keyRecentUsers   = "user:recent"
)

// UserCache caches user lookups and the recent-users list in Redis.
type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewUserCache returns a new UserCache.
func NewUserCache(rdb *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{rdb: rdb, ttl: ttl}
}

// GetByClerkID returns the cached user or nil if miss.
func (c *UserCache) GetByClerkID(ctx context.Context, clerkUserID string) (*dom.User, error) {
	b, err := c.rdb.Get(ctx, keyUserByClerkID+clerkUserID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u dom.User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetByClerkID stores the user in cache.
func (c *UserCache) SetByClerkID(ctx context.Context, u dom.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyUserByClerkID+u.ClerkUserID, b, c.ttl).Err()
}

// GetRecent returns the cached recent-users list or nil if miss.
func (c *UserCache) GetRecent(ctx context.Context) ([]dom.User, error) {
	b, err := c.rdb.Get(ctx, keyRecentUsers).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.User
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetRecent stores the recent-users list in cache.
func (c *UserCache) SetRecent(ctx context.Context, list []dom.User) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyRecentUsers, b, c.ttl).Err()
}

// Invalidate removes the cached user and the recent list (cache
// invalidation on write: upsert, remove, lazy-create).
func (c *UserCache) Invalidate(ctx context.Context, clerkUserID string) error {
	return c.rdb.Del(ctx, keyUserByClerkID+clerkUserID, keyRecentUsers).Err()
}
