package cache

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapCache is a minimal in-process CacheService for exercising the generic
// helpers without a real backend.
type mapCache struct {
	entries map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]byte{}}
}

func (m *mapCache) Get(_ context.Context, key string, dest any) bool {
	payload, ok := m.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(payload, dest) == nil
}

func (m *mapCache) Set(_ context.Context, key string, value any) bool {
	payload, err := json.Marshal(value)
	if err != nil {
		return false
	}
	m.entries[key] = payload
	return true
}

func (m *mapCache) Delete(_ context.Context, key string) bool {
	delete(m.entries, key)
	return true
}

func (m *mapCache) ClearMatching(_ context.Context, fragment string) int {
	removed := 0
	for key := range m.entries {
		if strings.Contains(key, fragment) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

func TestGetOrFetchPopulatesOnMiss(t *testing.T) {
	ctx := context.Background()
	svc := newMapCache()
	fetches := 0

	value, err := GetOrFetch(ctx, svc, "page_detail:acme", func(context.Context) (string, error) {
		fetches++
		return "composed", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "composed", value)
	assert.Equal(t, 1, fetches)

	// Second read is served from the cache.
	value, err = GetOrFetch(ctx, svc, "page_detail:acme", func(context.Context) (string, error) {
		fetches++
		return "refetched", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "composed", value)
	assert.Equal(t, 1, fetches)
}

func TestGetOrFetchErrorNotCached(t *testing.T) {
	ctx := context.Background()
	svc := newMapCache()
	boom := errors.New("upstream down")

	_, err := GetOrFetch(ctx, svc, "k", func(context.Context) (int, error) {
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, svc.entries)

	value, err := GetOrFetch(ctx, svc, "k", func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, value)
}

func TestGetOrFetchNilService(t *testing.T) {
	value, err := GetOrFetch(context.Background(), nil, "k", func(context.Context) (string, error) {
		return "direct", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "direct", value)
}

func TestInvalidatorFansOut(t *testing.T) {
	ctx := context.Background()
	composed := newMapCache()
	raw := newMapCache()

	composed.Set(ctx, "page_detail:acme", "a")
	composed.Set(ctx, "recent_posts:acme:15", "b")
	composed.Set(ctx, "page_detail:globex", "c")
	raw.Set(ctx, "org:acme", "d")

	inv := Invalidator{composed, nil, raw}
	removed := inv.ClearMatching(ctx, "acme")

	assert.Equal(t, 3, removed)
	assert.Len(t, composed.entries, 1)
	assert.Empty(t, raw.entries)
}
