package service

import (
	"context"

	"github.com/lily666-hub/cityrun-backend-go/internal/geolocate"
	"github.com/lily666-hub/cityrun-backend-go/internal/models"
)

// PositionService resolves current positions and accepts client reports
type PositionService struct {
	resolver *geolocate.Resolver
	reports  *geolocate.ReportCache
}

// NewPositionService creates a new position service
func NewPositionService(resolver *geolocate.Resolver, reports *geolocate.ReportCache) *PositionService {
	return &PositionService{
		resolver: resolver,
		reports:  reports,
	}
}

// Current resolves the owner's best-effort position through the fallback chain
func (s *PositionService) Current(ctx context.Context, ownerID string) models.PositionSample {
	return s.resolver.Current(ctx, ownerID)
}

// Report stores a client-reported browser position and returns the sample
func (s *PositionService) Report(ownerID string, report models.PositionReport) models.PositionSample {
	return s.reports.Report(ownerID, report)
}

// LastSource reports which fallback stage produced the most recent position
func (s *PositionService) LastSource() models.PositionSource {
	return s.resolver.LastSource()
}
