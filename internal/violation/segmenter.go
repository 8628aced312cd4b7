package violation

import (
	"fmt"

	"github.com/draganv/speedwatch-backend-go/internal/models"
	"github.com/draganv/speedwatch-backend-go/internal/speedlimit"
)

// DefaultThreshold is the margin in km/h a sample must exceed the limit by
// to count as a violation.
const DefaultThreshold = 10.0

// Segmenter walks one trip's sample stream in order, classifies each sample
// against its local speed limit, and collapses each contiguous over-limit
// run into the run's most severe record. All mutable state is per instance;
// create a fresh Segmenter (and with it a fresh coordinate cache) per trip.
type Segmenter struct {
	resolver  speedlimit.LimitResolver
	cache     *speedlimit.LookupCache
	threshold float64

	// Best-of-run state for the currently open run; nil while no run is open.
	runBest *models.ViolationRecord

	// Stream start/end markers, tracked across all samples regardless of
	// whether any violation is found.
	startUs int64
	endUs   int64
	started bool

	violations []models.ViolationRecord
	processed  int
}

// NewSegmenter creates a segmenter for one trip's pass.
func NewSegmenter(resolver speedlimit.LimitResolver, threshold float64) *Segmenter {
	if threshold < 0 {
		threshold = 0
	}
	return &Segmenter{
		resolver:  resolver,
		cache:     speedlimit.NewLookupCache(),
		threshold: threshold,
	}
}

// Process consumes the ordered sample stream and returns one violation
// record per contiguous over-limit run. Samples with missing fields break
// the current run and are otherwise skipped; they never abort the trip.
// A speed-limit index failure aborts the trip with an error.
func (s *Segmenter) Process(samples []models.TelemetrySample) ([]models.ViolationRecord, error) {
	for i := range samples {
		sample := &samples[i]

		if !s.started {
			s.startUs = sample.TimestampUs
			s.started = true
		}
		s.endUs = sample.TimestampUs

		if !sample.HasCoordinates() || sample.DisplaySpeed == nil {
			s.flush()
			continue
		}

		s.processed++
		lat, lon := *sample.Latitude, *sample.Longitude
		speed := *sample.DisplaySpeed

		// Not moving: nothing to classify.
		if speed <= 0 {
			s.flush()
			continue
		}

		info, err := s.cache.GetOrResolve(lat, lon, s.resolver)
		if err != nil {
			return nil, fmt.Errorf("speed limit lookup failed at (%f, %f): %w", lat, lon, err)
		}

		// No applicable limit closes the run; gaps are never bridged.
		if info == nil {
			s.flush()
			continue
		}

		if speed > info.LimitKmh+s.threshold {
			record := buildRecord(sample, speed, info)
			// Strict > keeps the earliest sample on equal over-speed.
			if s.runBest == nil || record.OverSpeed > s.runBest.OverSpeed {
				s.runBest = &record
			}
		} else {
			s.flush()
		}
	}

	s.flush()
	return s.violations, nil
}

// flush closes the open run, if any, emitting its best record.
func (s *Segmenter) flush() {
	if s.runBest != nil {
		s.violations = append(s.violations, *s.runBest)
		s.runBest = nil
	}
}

func buildRecord(sample *models.TelemetrySample, speed float64, info *models.SpeedLimitInfo) models.ViolationRecord {
	overSpeed := speed - info.LimitKmh

	overPercent := 0.0
	if info.LimitKmh > 0 {
		overPercent = overSpeed / info.LimitKmh * 100
	}

	return models.ViolationRecord{
		TimestampUs:      sample.TimestampUs,
		TimestampS:       float64(sample.TimestampUs) / 1e6,
		Latitude:         *sample.Latitude,
		Longitude:        *sample.Longitude,
		SpeedKmh:         speed,
		SpeedLimitKmh:    info.LimitKmh,
		SpeedLimitRaw:    info.RawText,
		OverSpeed:        overSpeed,
		OverSpeedPercent: overPercent,
		HighwayType:      info.RoadClass,
		RoadName:         info.RoadName,
		WayID:            info.WayID,
		Altitude:         sample.Altitude,
		CompassAngle:     sample.CompassAngle,
	}
}

// StartMarkerUs returns the first observed stream timestamp.
func (s *Segmenter) StartMarkerUs() int64 {
	return s.startUs
}

// EndMarkerUs returns the last observed stream timestamp.
func (s *Segmenter) EndMarkerUs() int64 {
	return s.endUs
}

// Processed returns the number of samples that carried coordinates and speed.
func (s *Segmenter) Processed() int {
	return s.processed
}

// CacheStats returns the coordinate cache hit/miss counts for this pass.
func (s *Segmenter) CacheStats() (hits, misses int) {
	return s.cache.Stats()
}
