package service

import (
	"github.com/draganv/speedwatch-backend-go/internal/models"
	"github.com/draganv/speedwatch-backend-go/internal/speedlimit"
	"github.com/draganv/speedwatch-backend-go/internal/violation"
)

// ViolationService handles business logic for trip violation checks.
type ViolationService struct {
	checker  *violation.Checker
	resolver *speedlimit.Resolver
}

// NewViolationService creates a new violation service
func NewViolationService(index speedlimit.SpatialIndex, threshold float64) *ViolationService {
	return &ViolationService{
		checker:  violation.NewChecker(index, threshold),
		resolver: speedlimit.NewResolver(index),
	}
}

// CheckTrip checks one trip's sample stream and returns its timeline
// document. A nil threshold uses the configured default.
func (s *ViolationService) CheckTrip(id string, samples []models.TelemetrySample, threshold *float64) (*models.TimelineDocument, error) {
	t := s.checker.Threshold()
	if threshold != nil && *threshold >= 0 {
		t = *threshold
	}
	return s.checker.CheckSamplesWithThreshold(id, samples, t)
}

// ResolveLimit resolves the speed limit for one coordinate. A nil result
// with nil error means no applicable limit.
func (s *ViolationService) ResolveLimit(lat, lon float64) (*models.SpeedLimitInfo, error) {
	return s.resolver.Resolve(lat, lon)
}
