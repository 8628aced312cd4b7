package models

// TelemetrySample represents one entry of a trip's dynamic metadata stream.
// Optional fields are pointers so a missing field can be told apart from zero.
type TelemetrySample struct {
	TimestampUs  int64    `json:"timestampUs"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	DisplaySpeed *float64 `json:"displaySpeed,omitempty"` // km/h
	Altitude     *float64 `json:"altitude,omitempty"`
	CompassAngle *float64 `json:"compassAngle,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (s *TelemetrySample) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// TelemetryDocument is the input document for one trip. Samples are assumed
// to be in arrival order; the core does not re-sort them.
type TelemetryDocument struct {
	DynamicMetadata []TelemetrySample `json:"dynamicMetadata"`
}
