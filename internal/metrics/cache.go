package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheVersionKey = "metrics:version"
	// BumpChannel carries cache-invalidation notifications published when a
	// daily report lands. Subscribers re-run the whole pipeline; buckets are
	// never patched incrementally.
	BumpChannel = "reports.bump"
)

// Cache wraps Redis based caching with versioning controls.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		ver = 1
		if err := c.client.Set(ctx, cacheVersionKey, ver, 0).Err(); err != nil {
			return 0, err
		}
	}
	return ver, nil
}

// BuildKey composes the cache key with the current version.
func (c *Cache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	if c == nil || c.client == nil {
		return strings.Join(parts, ":"), nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", strings.Join(parts, ":"), ver), nil
}

// FetchJSON loads a cached value or populates it using the loader. Loader
// failures propagate untouched; a failed fetch is never stored and never
// turned into a zero value.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("metrics: cache loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, dest)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return err
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates every cached aggregate by incrementing the global version
// and publishing the new version on the bump channel.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, cacheVersionKey).Result()
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, BumpChannel, strconv.FormatInt(ver, 10)).Err()
}

// Key builders. Every aggregate key carries the tenant so cached values are
// isolated per organisation.

func keySummary(orgID int64, filter QueryFilter) string {
	return strings.Join([]string{"metrics", "summary", strconv.FormatInt(orgID, 10), filterToken(filter)}, ":")
}

func keySeries(orgID int64, filter QueryFilter, g Granularity) string {
	return strings.Join([]string{"metrics", "series", strconv.FormatInt(orgID, 10), string(g), filterToken(filter)}, ":")
}

func keyGrowth(orgID int64, g Granularity, filter QueryFilter) string {
	return strings.Join([]string{"metrics", "growth", strconv.FormatInt(orgID, 10), string(g), filterToken(filter)}, ":")
}

func filterToken(filter QueryFilter) string {
	return strings.Join([]string{rangeToken(filter.Range), idToken(filter.UserID), idToken(filter.ProductID)}, ":")
}

func rangeToken(rng *DateRange) string {
	if rng == nil {
		return "-"
	}
	return rng.Start.Format("20060102") + "_" + rng.End.Format("20060102")
}

func idToken(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}
