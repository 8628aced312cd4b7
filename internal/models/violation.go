package models

// ViolationRecord is the most severe sample of one contiguous over-limit run.
// One record is emitted per run; it is immutable once emitted.
type ViolationRecord struct {
	TimestampUs      int64    `json:"timestamp_us"`
	TimestampS       float64  `json:"timestamp_s"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	SpeedKmh         float64  `json:"speed_kmh"`
	SpeedLimitKmh    float64  `json:"speed_limit_kmh"`
	SpeedLimitRaw    string   `json:"speed_limit_raw"`
	OverSpeed        float64  `json:"over_speed"`
	OverSpeedPercent float64  `json:"over_speed_percent"`
	HighwayType      string   `json:"highway_type"`
	RoadName         string   `json:"road_name"`
	WayID            int64    `json:"way_id"`
	Altitude         *float64 `json:"altitude"`
	CompassAngle     *float64 `json:"compass_angle"`
}
