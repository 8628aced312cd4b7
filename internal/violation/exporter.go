package violation

import (
	"sort"

	"github.com/draganv/speedwatch-backend-go/internal/models"
)

// Export converts a reduced violation list into the normalized timeline
// document. Start time is fixed at 0; end time is the last observed stream
// timestamp converted to seconds. A zero-violation trip yields a well-formed
// document with an empty event list.
func Export(violations []models.ViolationRecord, endMarkerUs int64, id string) *models.TimelineDocument {
	// Defensive stable sort; the segmenter already emits in stream order.
	sorted := make([]models.ViolationRecord, len(violations))
	copy(sorted, violations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimestampUs < sorted[j].TimestampUs
	})

	events := make([]models.TimelineEvent, 0, len(sorted))
	for _, v := range sorted {
		events = append(events, models.TimelineEvent{
			Timestamp:         float64(v.TimestampUs) / 1e6,
			Latitude:          v.Latitude,
			Longitude:         v.Longitude,
			SpeedLimit:        v.SpeedLimitKmh,
			CurrentSpeed:      v.SpeedKmh,
			DetectedViolation: models.DetectedViolationSpeeding,
		})
	}

	return &models.TimelineDocument{
		ID:        id,
		StartTime: 0,
		EndTime:   float64(endMarkerUs) / 1e6,
		Score:     0,
		Events:    events,
	}
}
