package speedlimit

import (
	"fmt"

	"github.com/draganv/speedwatch-backend-go/internal/models"
)

// LimitResolver is the lookup the cache delegates to on a miss.
type LimitResolver interface {
	Resolve(lat, lon float64) (*models.SpeedLimitInfo, error)
}

// LookupCache memoizes resolver results per rounded coordinate. It is scoped
// to one pass over one trip and is not safe for concurrent use; parallel
// trips each get their own instance. Nil results are cached too, so repeated
// unresolvable coordinates are not re-queried.
type LookupCache struct {
	entries map[string]*models.SpeedLimitInfo
	hits    int
	misses  int
}

// NewLookupCache creates an empty per-trip lookup cache.
func NewLookupCache() *LookupCache {
	return &LookupCache{entries: make(map[string]*models.SpeedLimitInfo)}
}

// CacheKey formats a coordinate as the fixed-width cache key. Fixed-width
// formatting avoids floating-point key instability.
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lon)
}

// GetOrResolve returns the cached result for the coordinate, delegating to
// the resolver on a miss. Resolver errors are not cached.
func (c *LookupCache) GetOrResolve(lat, lon float64, resolver LimitResolver) (*models.SpeedLimitInfo, error) {
	key := CacheKey(lat, lon)

	if info, ok := c.entries[key]; ok {
		c.hits++
		return info, nil
	}

	info, err := resolver.Resolve(lat, lon)
	if err != nil {
		return nil, err
	}

	c.entries[key] = info
	c.misses++
	return info, nil
}

// Stats returns the hit and miss counts for this trip's pass.
func (c *LookupCache) Stats() (hits, misses int) {
	return c.hits, c.misses
}
