package violation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draganv/speedwatch-backend-go/internal/models"
)

// fixedResolver returns the same limit for every coordinate.
type fixedResolver struct {
	info  *models.SpeedLimitInfo
	err   error
	calls int
}

func (r *fixedResolver) Resolve(lat, lon float64) (*models.SpeedLimitInfo, error) {
	r.calls++
	return r.info, r.err
}

func f64(v float64) *float64 { return &v }

// sample builds a telemetry sample at a distinct coordinate per timestamp so
// every lookup misses the coordinate cache unless a test wants otherwise.
func sample(tsUs int64, speed float64) models.TelemetrySample {
	return models.TelemetrySample{
		TimestampUs:  tsUs,
		Latitude:     f64(44.0 + float64(tsUs)/1e9),
		Longitude:    f64(20.0),
		DisplaySpeed: f64(speed),
	}
}

func limit50() *models.SpeedLimitInfo {
	return &models.SpeedLimitInfo{LimitKmh: 50, RawText: "50", RoadClass: "residential"}
}

func TestSegmenterProcess(t *testing.T) {
	t.Parallel()

	t.Run("reduces a contiguous run to its most severe sample", func(t *testing.T) {
		t.Parallel()
		// threshold=10, limit=50: 65 is the only sample beyond 60; the 40
		// closes the run without producing a second record.
		s := NewSegmenter(&fixedResolver{info: limit50()}, 10)

		violations, err := s.Process([]models.TelemetrySample{
			sample(1_000_000, 55),
			sample(2_000_000, 65),
			sample(3_000_000, 60),
			sample(4_000_000, 40),
		})
		require.NoError(t, err)

		require.Len(t, violations, 1)
		assert.Equal(t, int64(2_000_000), violations[0].TimestampUs)
		assert.InDelta(t, 15, violations[0].OverSpeed, 1e-9)
		assert.InDelta(t, 30, violations[0].OverSpeedPercent, 1e-9)
		assert.Equal(t, 65.0, violations[0].SpeedKmh)
		assert.Equal(t, 50.0, violations[0].SpeedLimitKmh)
	})

	t.Run("exact limit plus threshold is not a violation", func(t *testing.T) {
		t.Parallel()
		s := NewSegmenter(&fixedResolver{info: limit50()}, 10)

		violations, err := s.Process([]models.TelemetrySample{sample(1, 60)})
		require.NoError(t, err)
		assert.Empty(t, violations)
	})

	t.Run("earliest sample wins an over-speed tie", func(t *testing.T) {
		t.Parallel()
		s := NewSegmenter(&fixedResolver{info: limit50()}, 0)

		violations, err := s.Process([]models.TelemetrySample{
			sample(1_000_000, 70),
			sample(2_000_000, 70),
		})
		require.NoError(t, err)

		require.Len(t, violations, 1)
		assert.Equal(t, int64(1_000_000), violations[0].TimestampUs)
	})

	t.Run("missing latitude mid-run flushes the run", func(t *testing.T) {
		t.Parallel()
		s := NewSegmenter(&fixedResolver{info: limit50()}, 0)

		broken := sample(2_000_000, 80)
		broken.Latitude = nil

		violations, err := s.Process([]models.TelemetrySample{
			sample(1_000_000, 70),
			broken,
			sample(3_000_000, 90),
		})
		require.NoError(t, err)

		// Two independent runs, one record each.
		require.Len(t, violations, 2)
		assert.Equal(t, int64(1_000_000), violations[0].TimestampUs)
		assert.Equal(t, int64(3_000_000), violations[1].TimestampUs)
	})

	t.Run("missing speed flushes the run", func(t *testing.T) {
		t.Parallel()
		s := NewSegmenter(&fixedResolver{info: limit50()}, 0)

		broken := sample(2_000_000, 0)
		broken.DisplaySpeed = nil

		violations, err := s.Process([]models.TelemetrySample{
			sample(1_000_000, 70),
			broken,
		})
		require.NoError(t, err)
		require.Len(t, violations, 1)
		assert.Equal(t, int64(1_000_000), violations[0].TimestampUs)
	})

	t.Run("zero or negative speed flushes the run", func(t *testing.T) {
		t.Parallel()
		s := NewSegmenter(&fixedResolver{info: limit50()}, 0)

		violations, err := s.Process([]models.TelemetrySample{
			sample(1_000_000, 70),
			sample(2_000_000, 0),
			sample(3_000_000, -5),
		})
		require.NoError(t, err)
		require.Len(t, violations, 1)
	})

	t.Run("unresolvable coordinate closes the run without bridging", func(t *testing.T) {
		t.Parallel()
		// Resolver yields no limit at all: nothing can ever violate, and an
		// open run would close on the first miss.
		s := NewSegmenter(&fixedResolver{info: nil}, 0)

		violations, err := s.Process([]models.TelemetrySample{
			sample(1_000_000, 70),
			sample(2_000_000, 80),
		})
		require.NoError(t, err)
		assert.Empty(t, violations)
	})

	t.Run("run still open at end of stream is flushed", func(t *testing.T) {
		t.Parallel()
		s := NewSegmenter(&fixedResolver{info: limit50()}, 0)

		violations, err := s.Process([]models.TelemetrySample{
			sample(1_000_000, 70),
			sample(2_000_000, 90),
		})
		require.NoError(t, err)

		require.Len(t, violations, 1)
		assert.Equal(t, int64(2_000_000), violations[0].TimestampUs)
		assert.InDelta(t, 40, violations[0].OverSpeed, 1e-9)
	})

	t.Run("records at most one violation per over-threshold sample", func(t *testing.T) {
		t.Parallel()
		s := NewSegmenter(&fixedResolver{info: limit50()}, 0)

		violations, err := s.Process([]models.TelemetrySample{
			sample(1, 70), sample(2, 75), sample(3, 40),
			sample(4, 80), sample(5, 30), sample(6, 90),
		})
		require.NoError(t, err)
		assert.Len(t, violations, 3)
	})

	t.Run("zero limit yields zero over-speed percent", func(t *testing.T) {
		t.Parallel()
		info := &models.SpeedLimitInfo{LimitKmh: 0, RawText: "0"}
		s := NewSegmenter(&fixedResolver{info: info}, 0)

		violations, err := s.Process([]models.TelemetrySample{sample(1, 30)})
		require.NoError(t, err)
		require.Len(t, violations, 1)
		assert.Equal(t, 0.0, violations[0].OverSpeedPercent)
	})

	t.Run("tracks stream markers regardless of violations", func(t *testing.T) {
		t.Parallel()
		s := NewSegmenter(&fixedResolver{info: limit50()}, 0)

		_, err := s.Process([]models.TelemetrySample{
			sample(5_000_000, 10),
			sample(9_000_000, 20),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5_000_000), s.StartMarkerUs())
		assert.Equal(t, int64(9_000_000), s.EndMarkerUs())
	})

	t.Run("empty stream yields no violations and zero markers", func(t *testing.T) {
		t.Parallel()
		s := NewSegmenter(&fixedResolver{info: limit50()}, 0)

		violations, err := s.Process(nil)
		require.NoError(t, err)
		assert.Empty(t, violations)
		assert.Equal(t, int64(0), s.EndMarkerUs())
	})

	t.Run("repeated coordinate resolves once through the cache", func(t *testing.T) {
		t.Parallel()
		resolver := &fixedResolver{info: limit50()}
		s := NewSegmenter(resolver, 0)

		same := models.TelemetrySample{
			TimestampUs:  1_000_000,
			Latitude:     f64(44.123456),
			Longitude:    f64(20.654321),
			DisplaySpeed: f64(30),
		}
		again := same
		again.TimestampUs = 2_000_000

		_, err := s.Process([]models.TelemetrySample{same, again})
		require.NoError(t, err)
		assert.Equal(t, 1, resolver.calls)

		hits, _ := s.CacheStats()
		assert.Equal(t, 1, hits)
	})

	t.Run("resolver failure aborts the trip", func(t *testing.T) {
		t.Parallel()
		s := NewSegmenter(&fixedResolver{err: errors.New("index down")}, 0)

		_, err := s.Process([]models.TelemetrySample{sample(1, 70)})
		require.Error(t, err)
		assert.ErrorContains(t, err, "speed limit lookup failed")
	})

	t.Run("negative threshold is clamped to zero", func(t *testing.T) {
		t.Parallel()
		s := NewSegmenter(&fixedResolver{info: limit50()}, -5)

		violations, err := s.Process([]models.TelemetrySample{sample(1, 51)})
		require.NoError(t, err)
		assert.Len(t, violations, 1)
	})
}
