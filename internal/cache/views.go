package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "views:"

// Views caches per-user read models (group/project/task lists, stats) in
// Redis. Values are JSON; every write path for a user drops all of that
// user's keys, since any mutation can change the derived counts.
type Views struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewViews returns a new Views cache.
func NewViews(rdb *redis.Client, ttl time.Duration) *Views {
	return &Views{rdb: rdb, ttl: ttl}
}

func userKey(ownerID int64, name string) string {
	return keyPrefix + strconv.FormatInt(ownerID, 10) + ":" + name
}

// Get unmarshals the cached view into dest. Returns false on miss.
func (c *Views) Get(ctx context.Context, ownerID int64, name string, dest any) (bool, error) {
	b, err := c.rdb.Get(ctx, userKey(ownerID, name)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores the view under the user's key.
func (c *Views) Set(ctx context.Context, ownerID int64, name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, userKey(ownerID, name), b, c.ttl).Err()
}

// Invalidate removes all cached views for the user.
func (c *Views) Invalidate(ctx context.Context, ownerID int64) error {
	pattern := keyPrefix + strconv.FormatInt(ownerID, 10) + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
