package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache errors
var (
	ErrCacheNotAvailable = errors.New("cache not available")
	ErrCacheNotFound     = errors.New("cache not found")
)

// CacheHelper provides caching operations over a shared Redis client.
// The cache is a latency optimization, never a dependency: a nil client and
// a downed backend both degrade to the authoritative store. Every read
// failure behaves like a miss and every write failure is safe to swallow.
type CacheHelper struct {
	client *redis.Client
	prefix string
}

// NewCacheHelper creates a new cache helper instance.
func NewCacheHelper(client *redis.Client, prefix string) *CacheHelper {
	return &CacheHelper{
		client: client,
		prefix: prefix,
	}
}

// CacheConfig defines cache configuration for different data types.
type CacheConfig struct {
	TTL    time.Duration
	Prefix string
}

var (
	// Folder lists are low churn; merged in place on writes.
	FolderCacheConfig = CacheConfig{
		TTL:    15 * time.Minute,
		Prefix: "user:",
	}

	// Media lists change more often.
	MediaCacheConfig = CacheConfig{
		TTL:    10 * time.Minute,
		Prefix: "user:",
	}

	// Identity records resolved during authentication.
	UserCacheConfig = CacheConfig{
		TTL:    15 * time.Minute,
		Prefix: "user:",
	}

	// Per-student enrollment views.
	EnrollmentCacheConfig = CacheConfig{
		TTL:    5 * time.Minute,
		Prefix: "user:",
	}
)

// ListKey builds the deterministic cache key for an owner-scoped list view:
// user:<ownerId>:<resource>[:<subId>]. Keys are stable across process
// restarts so warm caches remain valid.
func ListKey(ownerID, resource string, subID ...string) string {
	key := fmt.Sprintf("%s:%s", ownerID, resource)
	for _, id := range subID {
		key += ":" + id
	}
	return key
}

// GetCacheKey generates a cache key with prefix.
func (c *CacheHelper) GetCacheKey(key string) string {
	return fmt.Sprintf("%s%s", c.prefix, key)
}

// Available reports whether a cache backend is configured.
func (c *CacheHelper) Available() bool {
	return c.client != nil
}

// Get retrieves and unmarshals data from cache. ErrCacheNotFound signals a
// miss; any backend failure surfaces as ErrCacheNotAvailable so callers fall
// back to the authoritative store.
func (c *CacheHelper) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrCacheNotAvailable
	}

	cacheKey := c.GetCacheKey(key)
	data, err := c.client.Get(ctx, cacheKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheNotFound
		}
		return fmt.Errorf("%w: %w", ErrCacheNotAvailable, err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}

	return nil
}

// Set marshals and stores data in cache with the given TTL.
func (c *CacheHelper) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // Graceful degradation when cache not available
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	cacheKey := c.GetCacheKey(key)
	return c.client.Set(ctx, cacheKey, data, ttl).Err()
}

// SetKeepTTL rewrites an existing entry without touching its remaining TTL.
// Used by merge-on-write so a merged entry never outlives the original.
func (c *CacheHelper) SetKeepTTL(ctx context.Context, key string, value interface{}) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	cacheKey := c.GetCacheKey(key)
	return c.client.Set(ctx, cacheKey, data, redis.KeepTTL).Err()
}

// Delete removes entries from cache.
func (c *CacheHelper) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}

	if len(keys) == 0 {
		return nil
	}

	cacheKeys := make([]string, len(keys))
	for i, key := range keys {
		cacheKeys[i] = c.GetCacheKey(key)
	}

	return c.client.Del(ctx, cacheKeys...).Err()
}

// Exists checks if a key exists in cache.
func (c *CacheHelper) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, ErrCacheNotAvailable
	}

	cacheKey := c.GetCacheKey(key)
	count, err := c.client.Exists(ctx, cacheKey).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrCacheNotAvailable, err)
	}

	return count > 0, nil
}

// InvalidatePattern removes all keys matching a pattern using SCAN.
func (c *CacheHelper) InvalidatePattern(ctx context.Context, pattern string) error {
	if c.client == nil {
		return nil
	}

	fullPattern := c.GetCacheKey(pattern)
	var cursor uint64
	var keys []string

	for {
		var scanKeys []string
		var err error
		scanKeys, cursor, err = c.client.Scan(ctx, cursor, fullPattern, 100).Result()
		if err != nil {
			return fmt.Errorf("cache scan pattern error: %w", err)
		}
		keys = append(keys, scanKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return nil
	}

	return c.client.Del(ctx, keys...).Err()
}

// IsMiss reports whether a Get error means the caller should query the
// authoritative store: a plain miss, an unavailable backend, or a corrupt
// entry all read through.
func IsMiss(err error) bool {
	return err != nil
}

// GetList reads a cached list view into a typed slice.
func GetList[T any](ctx context.Context, c *CacheHelper, key string) ([]T, error) {
	var items []T
	if err := c.Get(ctx, key, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MergeList applies fn to an existing cached list and rewrites the entry
// preserving its TTL. Absent or unreachable entries are left alone: the next
// read repopulates from the store.
func MergeList[T any](ctx context.Context, c *CacheHelper, key string, fn func([]T) []T) error {
	items, err := GetList[T](ctx, c, key)
	if err != nil {
		if errors.Is(err, ErrCacheNotFound) || errors.Is(err, ErrCacheNotAvailable) {
			return nil
		}
		return err
	}
	return c.SetKeepTTL(ctx, key, fn(items))
}

// AppendToList merges a created element into a cached list view.
func AppendToList[T any](ctx context.Context, c *CacheHelper, key string, item T) error {
	return MergeList(ctx, c, key, func(items []T) []T {
		return append(items, item)
	})
}

// ReplaceInList merges an updated element into a cached list view.
func ReplaceInList[T any](ctx context.Context, c *CacheHelper, key string, match func(T) bool, item T) error {
	return MergeList(ctx, c, key, func(items []T) []T {
		for i := range items {
			if match(items[i]) {
				items[i] = item
			}
		}
		return items
	})
}

// RemoveFromList merges a deletion into a cached list view.
func RemoveFromList[T any](ctx context.Context, c *CacheHelper, key string, match func(T) bool) error {
	return MergeList(ctx, c, key, func(items []T) []T {
		out := items[:0]
		for _, item := range items {
			if !match(item) {
				out = append(out, item)
			}
		}
		return out
	})
}

// CacheManager groups the cache helpers by concern.
type CacheManager struct {
	Folder     *CacheHelper
	Media      *CacheHelper
	User       *CacheHelper
	Enrollment *CacheHelper

	client *redis.Client
}

// NewCacheManager creates the cache manager. A nil client yields a manager
// whose helpers all degrade to direct store access.
func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{
		Folder:     NewCacheHelper(client, FolderCacheConfig.Prefix),
		Media:      NewCacheHelper(client, MediaCacheConfig.Prefix),
		User:       NewCacheHelper(client, UserCacheConfig.Prefix),
		Enrollment: NewCacheHelper(client, EnrollmentCacheConfig.Prefix),
		client:     client,
	}
}

// HealthCheck verifies cache connectivity.
func (cm *CacheManager) HealthCheck(ctx context.Context) error {
	if cm.client == nil {
		return ErrCacheNotAvailable
	}

	if _, err := cm.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("cache health check failed: %w", err)
	}

	return nil
}
