package models

// DetectedViolationSpeeding is the fixed event code for speeding events in
// the exported timeline.
const DetectedViolationSpeeding = 3

// TimelineEvent is one entry of the exported timeline, derived 1:1 from a
// ViolationRecord. Timestamp is in seconds.
type TimelineEvent struct {
	Timestamp         float64 `json:"timestamp"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	SpeedLimit        float64 `json:"speed_limit"`
	CurrentSpeed      float64 `json:"current_speed"`
	DetectedViolation int     `json:"detected_violation"`
}

// TimelineDocument is the normalized output document for one trip.
// StartTime is always 0; EndTime is the last observed stream timestamp in
// seconds. Score is a placeholder filled in by downstream scoring.
type TimelineDocument struct {
	ID        string          `json:"id"`
	StartTime float64         `json:"start_time"`
	EndTime   float64         `json:"end_time"`
	Score     float64         `json:"score"`
	Events    []TimelineEvent `json:"list_of_timeline_events"`
}
