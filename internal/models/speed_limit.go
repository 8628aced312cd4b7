package models

// LimitFeature is one candidate speed-limit feature returned by the spatial
// index for a coordinate query. Maxspeed is the raw OSM text, unparsed.
type LimitFeature struct {
	WayID    int64  `json:"way_id"`
	Maxspeed string `json:"maxspeed"`
	Highway  string `json:"highway"`
	Name     string `json:"name"`
}

// SpeedLimitInfo is a resolved speed limit for a coordinate. LimitKmh is
// always set; candidates whose raw text cannot be parsed never produce one.
type SpeedLimitInfo struct {
	LimitKmh  float64 `json:"limit_kmh"`
	RawText   string  `json:"raw_text"`
	RoadClass string  `json:"road_class"`
	RoadName  string  `json:"road_name"`
	WayID     int64   `json:"way_id"`
}
