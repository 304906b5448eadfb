package cache

import (
	"context"
	"log/slog"
	"time"
)

// SafeSet stores an entry and only logs on failure. Cache writes never fail
// the surrounding request.
func SafeSet(ctx context.Context, helper *CacheHelper, key string, value interface{}, ttl time.Duration) {
	if err := helper.Set(ctx, key, value, ttl); err != nil {
		slog.WarnContext(ctx, "cache set failed, continuing without cache",
			"error", err,
			"key", key)
	}
}

// SafeDelete deletes cache keys and only logs on failure.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.WarnContext(ctx, "cache delete failed, entry will expire by TTL",
			"error", err,
			"keys", keys)
	}
}

// SafeInvalidatePattern invalidates a cache pattern and only logs on failure.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.WarnContext(ctx, "cache pattern invalidation failed",
			"error", err,
			"pattern", pattern)
	}
}

// SafeAppend merges a created element into a cached list, logging on failure.
func SafeAppend[T any](ctx context.Context, helper *CacheHelper, key string, item T) {
	if err := AppendToList(ctx, helper, key, item); err != nil {
		slog.WarnContext(ctx, "cache merge append failed",
			"error", err,
			"key", key)
	}
}

// SafeReplace merges an updated element into a cached list, logging on failure.
func SafeReplace[T any](ctx context.Context, helper *CacheHelper, key string, match func(T) bool, item T) {
	if err := ReplaceInList(ctx, helper, key, match, item); err != nil {
		slog.WarnContext(ctx, "cache merge replace failed",
			"error", err,
			"key", key)
	}
}

// SafeRemove merges a deletion into a cached list, logging on failure.
func SafeRemove[T any](ctx context.Context, helper *CacheHelper, key string, match func(T) bool) {
	if err := RemoveFromList(ctx, helper, key, match); err != nil {
		slog.WarnContext(ctx, "cache merge remove failed",
			"error", err,
			"key", key)
	}
}
