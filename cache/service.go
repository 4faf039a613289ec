package cache

import "context"

// FetchFn is the function signature GetOrFetch expects when fetching from the
// source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService exposes the key-value operations the insight services need.
// Values cross the boundary as JSON text: a Set serializes, a Get
// deserializes into the caller-supplied destination. Timestamps therefore
// live in the cache as RFC3339 strings; the destination struct's types are
// what turn them back into time.Time.
//
// Failure semantics: an unreachable or broken backend turns Get into a miss
// and Set/Delete into a no-op. Callers degrade to always-fetch behaviour
// instead of failing the request.
type CacheService interface {
	// Get loads the value stored under key into dest and reports whether a
	// fresh entry existed.
	Get(ctx context.Context, key string, dest any) bool

	// Set stores value under key at the service's configured TTL. It reports
	// whether the value was stored.
	Set(ctx context.Context, key string, value any) bool

	// Delete removes a single key. It reports whether the backend accepted
	// the deletion.
	Delete(ctx context.Context, key string) bool

	// ClearMatching removes every key containing fragment and returns the
	// number of keys removed.
	ClearMatching(ctx context.Context, fragment string) int
}

// GetOrFetch reads key from the cache and falls back to fetchFn on a miss,
// populating the cache with the fetched value. Errors from fetchFn are never
// cached.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var cached T
	if service != nil && service.Get(ctx, key, &cached) {
		return cached, nil
	}

	value, err := fetchFn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if service != nil {
		service.Set(ctx, key, value)
	}
	return value, nil
}

// Invalidator clears matching keys across every cache instance the process
// holds, so a forced refresh can purge composed responses, raw provider
// payloads and summaries in one call.
type Invalidator []CacheService

// ClearMatching fans the fragment out to every cache instance and returns the
// total number of keys removed.
func (inv Invalidator) ClearMatching(ctx context.Context, fragment string) int {
	removed := 0
	for _, svc := range inv {
		if svc != nil {
			removed += svc.ClearMatching(ctx, fragment)
		}
	}
	return removed
}
