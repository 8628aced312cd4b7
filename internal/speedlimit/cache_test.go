package speedlimit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draganv/speedwatch-backend-go/internal/models"
)

// countingResolver counts Resolve calls and returns a canned result.
type countingResolver struct {
	info  *models.SpeedLimitInfo
	err   error
	calls int
}

func (r *countingResolver) Resolve(lat, lon float64) (*models.SpeedLimitInfo, error) {
	r.calls++
	return r.info, r.err
}

func TestLookupCache(t *testing.T) {
	t.Parallel()

	t.Run("second lookup of the same coordinate is a cache hit", func(t *testing.T) {
		t.Parallel()
		resolver := &countingResolver{info: &models.SpeedLimitInfo{LimitKmh: 50, RawText: "50"}}
		cache := NewLookupCache()

		first, err := cache.GetOrResolve(44.123456, 20.654321, resolver)
		require.NoError(t, err)
		second, err := cache.GetOrResolve(44.123456, 20.654321, resolver)
		require.NoError(t, err)

		assert.Equal(t, 1, resolver.calls)
		assert.Same(t, first, second)

		hits, misses := cache.Stats()
		assert.Equal(t, 1, hits)
		assert.Equal(t, 1, misses)
	})

	t.Run("coordinates differing beyond 6 decimals share a key", func(t *testing.T) {
		t.Parallel()
		resolver := &countingResolver{info: &models.SpeedLimitInfo{LimitKmh: 50}}
		cache := NewLookupCache()

		_, err := cache.GetOrResolve(44.1234561, 20.6543211, resolver)
		require.NoError(t, err)
		_, err = cache.GetOrResolve(44.1234562, 20.6543212, resolver)
		require.NoError(t, err)

		assert.Equal(t, 1, resolver.calls)
	})

	t.Run("nil results are cached too", func(t *testing.T) {
		t.Parallel()
		resolver := &countingResolver{info: nil}
		cache := NewLookupCache()

		info, err := cache.GetOrResolve(1, 2, resolver)
		require.NoError(t, err)
		assert.Nil(t, info)

		info, err = cache.GetOrResolve(1, 2, resolver)
		require.NoError(t, err)
		assert.Nil(t, info)
		assert.Equal(t, 1, resolver.calls)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		t.Parallel()
		resolver := &countingResolver{err: errors.New("index down")}
		cache := NewLookupCache()

		_, err := cache.GetOrResolve(1, 2, resolver)
		require.Error(t, err)
		_, err = cache.GetOrResolve(1, 2, resolver)
		require.Error(t, err)
		assert.Equal(t, 2, resolver.calls)
	})
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "44.123456,20.654321", CacheKey(44.123456, 20.654321))
	assert.Equal(t, "-1.500000,0.000000", CacheKey(-1.5, 0))
}
