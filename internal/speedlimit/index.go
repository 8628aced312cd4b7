package speedlimit

import "github.com/draganv/speedwatch-backend-go/internal/models"

// SpatialIndex is the read-only speed-limit store queried by the resolver.
// Implementations must be safe for concurrent readers; candidate ordering
// must be stable because the resolver takes the first parseable candidate.
type SpatialIndex interface {
	// Exact returns candidates whose stored coordinate, rounded to
	// precisionDigits decimal places, equals the rounded query coordinate.
	Exact(lat, lon float64, precisionDigits int) ([]models.LimitFeature, error)

	// Nearest returns candidates within maxDistanceDeg degrees of the query
	// coordinate, ordered by ascending distance.
	Nearest(lat, lon, maxDistanceDeg float64) ([]models.LimitFeature, error)
}
