package violation

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/draganv/speedwatch-backend-go/internal/models"
	"github.com/draganv/speedwatch-backend-go/internal/speedlimit"
)

// Checker turns one telemetry document into one timeline document. It holds
// only the shared read-only resolver and the configured threshold; every
// check runs with its own segmenter and coordinate cache, so a single
// Checker may serve concurrent trips.
type Checker struct {
	resolver  *speedlimit.Resolver
	threshold float64
}

// NewChecker creates a checker over the given spatial index.
func NewChecker(index speedlimit.SpatialIndex, threshold float64) *Checker {
	return &Checker{
		resolver:  speedlimit.NewResolver(index),
		threshold: threshold,
	}
}

// Threshold returns the configured violation margin in km/h.
func (c *Checker) Threshold() float64 {
	return c.threshold
}

// CheckDocument decodes a raw telemetry document and checks it. A document
// without the dynamicMetadata field yields an empty timeline and a warning,
// not an error; a document that is not valid JSON is an error.
func (c *Checker) CheckDocument(id string, raw []byte) (*models.TimelineDocument, error) {
	var probe struct {
		DynamicMetadata json.RawMessage `json:"dynamicMetadata"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse telemetry document: %w", err)
	}

	if probe.DynamicMetadata == nil {
		log.Printf("[Checker] Warning: no dynamicMetadata found in %s", id)
		return Export(nil, 0, id), nil
	}

	var samples []models.TelemetrySample
	if err := json.Unmarshal(probe.DynamicMetadata, &samples); err != nil {
		return nil, fmt.Errorf("failed to parse dynamicMetadata: %w", err)
	}

	return c.CheckSamples(id, samples)
}

// CheckSamples checks an already-decoded sample stream.
func (c *Checker) CheckSamples(id string, samples []models.TelemetrySample) (*models.TimelineDocument, error) {
	return c.CheckSamplesWithThreshold(id, samples, c.threshold)
}

// CheckSamplesWithThreshold checks a sample stream with a per-call margin.
func (c *Checker) CheckSamplesWithThreshold(id string, samples []models.TelemetrySample, threshold float64) (*models.TimelineDocument, error) {
	segmenter := NewSegmenter(c.resolver, threshold)

	violations, err := segmenter.Process(samples)
	if err != nil {
		return nil, err
	}

	hits, misses := segmenter.CacheStats()
	log.Printf("[Checker] %s: %d samples processed, %d violation runs (cache: %d hits, %d lookups)",
		id, segmenter.Processed(), len(violations), hits, misses)

	return Export(violations, segmenter.EndMarkerUs(), id), nil
}
