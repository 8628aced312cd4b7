package speedlimit

import (
	"fmt"

	"github.com/draganv/speedwatch-backend-go/internal/models"
)

const (
	// ExactPrecisionDigits is the coordinate rounding used for exact-bucket
	// matching: 6 decimal digits, about 0.11 m at the equator.
	ExactPrecisionDigits = 6

	// NearestMaxDistanceDeg caps the nearest-neighbor fallback radius:
	// 0.001 degrees, about 111 m at the equator.
	NearestMaxDistanceDeg = 0.001
)

// Resolver resolves the applicable speed limit for a coordinate, trying an
// exact-bucket match first and a bounded nearest-neighbor match second.
type Resolver struct {
	index SpatialIndex
}

// NewResolver creates a new resolver backed by the given spatial index.
func NewResolver(index SpatialIndex) *Resolver {
	return &Resolver{index: index}
}

// Resolve returns the speed limit for a coordinate, or nil when no candidate
// within reach carries a parseable limit. Unparsable candidates are skipped,
// not treated as failures. Index errors are returned as errors: a failing
// backing store is a systemic problem, never "no limit".
func (r *Resolver) Resolve(lat, lon float64) (*models.SpeedLimitInfo, error) {
	candidates, err := r.index.Exact(lat, lon, ExactPrecisionDigits)
	if err != nil {
		return nil, fmt.Errorf("exact lookup failed: %w", err)
	}

	if info := firstParseable(candidates); info != nil {
		return info, nil
	}

	candidates, err = r.index.Nearest(lat, lon, NearestMaxDistanceDeg)
	if err != nil {
		return nil, fmt.Errorf("nearest lookup failed: %w", err)
	}

	return firstParseable(candidates), nil
}

// firstParseable returns the first candidate whose maxspeed text parses,
// preserving the index's candidate order.
func firstParseable(candidates []models.LimitFeature) *models.SpeedLimitInfo {
	for _, c := range candidates {
		limit, ok := ParseMaxspeed(c.Maxspeed)
		if !ok {
			continue
		}

		roadClass := c.Highway
		if roadClass == "" {
			roadClass = "unknown"
		}

		return &models.SpeedLimitInfo{
			LimitKmh:  limit,
			RawText:   c.Maxspeed,
			RoadClass: roadClass,
			RoadName:  c.Name,
			WayID:     c.WayID,
		}
	}
	return nil
}
