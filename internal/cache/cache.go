package cache

import (
	"context"
	"time"
)

// Default expiry durations for cached entries
const (
	ExpiryDefault = 5 * time.Minute
	ExpiryShort   = 1 * time.Minute
	ExpiryLong    = 30 * time.Minute
)

// Cache defines the interface for cache implementations
type Cache interface {
	// Get retrieves a value from the cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in the cache with an expiration
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)

	// Delete removes a value from the cache
	Delete(ctx context.Context, key string)

	// DeleteByPrefix removes all values whose key starts with the prefix
	DeleteByPrefix(ctx context.Context, prefix string)

	// Flush removes all values from the cache
	Flush(ctx context.Context)
}

// TypedGet attempts to convert a cache value to the specified type.
// Returns the typed value and true if successful, nil and false otherwise.
func TypedGet[T any](value interface{}) (*T, bool) {
	if value == nil {
		return nil, false
	}
	if typed, ok := value.(*T); ok {
		return typed, true
	}
	return nil, false
}
