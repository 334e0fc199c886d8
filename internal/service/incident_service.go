package service

import (
	"fmt"
	"time"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/repository"
)

// IncidentService handles incident reporting and queries
type IncidentService struct {
	repo *repository.IncidentRepository
}

// NewIncidentService creates a new incident service
func NewIncidentService(repo *repository.IncidentRepository) *IncidentService {
	return &IncidentService{repo: repo}
}

// Report stores a new incident
func (s *IncidentService) Report(ownerID string, report models.IncidentReport) (*models.Incident, error) {
	ts := report.Timestamp
	if ts == 0 {
		ts = time.Now().Unix()
	}

	inc := &models.Incident{
		Type:        report.Type,
		Severity:    report.Severity,
		Latitude:    *report.Latitude,
		Longitude:   *report.Longitude,
		Timestamp:   ts,
		Description: report.Description,
		ReportedBy:  ownerID,
	}
	if err := s.repo.Create(inc); err != nil {
		return nil, fmt.Errorf("failed to report incident: %w", err)
	}
	return inc, nil
}

// List retrieves incidents matching the filter
func (s *IncidentService) List(filter models.IncidentFilter) ([]models.Incident, error) {
	return s.repo.List(filter)
}
