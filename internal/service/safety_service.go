package service

import (
	"fmt"
	"time"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/repository"
	"github.com/lily666-hub/cityrun-backend-go/internal/scoring"
	"github.com/lily666-hub/cityrun-backend-go/internal/spatial"
	"github.com/lily666-hub/cityrun-backend-go/internal/timeslot"
)

// analysisWindow is the history/incident look-back for slot statistics
const analysisWindow = 90 * 24 * time.Hour

// SafetyService computes safety scores, time-slot statistics, hotspots and
// route analyses. Pure computation lives in the scoring and timeslot
// packages; this service feeds them from the repositories.
type SafetyService struct {
	scorer       *scoring.Scorer
	analyzer     *timeslot.Analyzer
	locationRepo *repository.LocationRepository
	incidentRepo *repository.IncidentRepository
	loc          *time.Location
}

// NewSafetyService creates a new safety service. loc is the timezone hours
// are bucketed in; nil means UTC.
func NewSafetyService(
	scorer *scoring.Scorer,
	analyzer *timeslot.Analyzer,
	locationRepo *repository.LocationRepository,
	incidentRepo *repository.IncidentRepository,
	loc *time.Location,
) *SafetyService {
	if loc == nil {
		loc = time.UTC
	}
	return &SafetyService{
		scorer:       scorer,
		analyzer:     analyzer,
		locationRepo: locationRepo,
		incidentRepo: incidentRepo,
		loc:          loc,
	}
}

// ScoreAt computes the safety score for a location and time. The instant is
// converted to the configured timezone before the hour buckets apply, so two
// representations of the same moment score identically.
func (s *SafetyService) ScoreAt(lat, lon float64, t time.Time) models.SafetyScore {
	return s.scorer.ScoreAt(lat, lon, t.In(s.loc), scoring.Environment{})
}

// TimeSlots aggregates the owner's history and the shared incident set into
// per-slot statistics in canonical slot order
func (s *SafetyService) TimeSlots(ownerID string) ([]models.TimeSlotStat, error) {
	history, incidents, err := s.analysisInputs(ownerID)
	if err != nil {
		return nil, err
	}
	return s.analyzer.AnalyzeAllSlots(history, incidents), nil
}

// TimeSlot aggregates statistics for one named slot
func (s *SafetyService) TimeSlot(ownerID, slotName string) (*models.TimeSlotStat, error) {
	slot, ok := timeslot.ByName(slotName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown time slot %q", ErrNotFound, slotName)
	}

	history, incidents, err := s.analysisInputs(ownerID)
	if err != nil {
		return nil, err
	}
	stat := s.analyzer.AnalyzeSlot(slot, history, incidents)
	return &stat, nil
}

// BestRunningTimes ranks all slots by descending safety score
func (s *SafetyService) BestRunningTimes(ownerID string) ([]models.TimeSlotStat, error) {
	slots, err := s.TimeSlots(ownerID)
	if err != nil {
		return nil, err
	}
	return timeslot.BestRunningTimes(slots), nil
}

// Hotspots grades incident grid cells over the analysis window
func (s *SafetyService) Hotspots() ([]models.RiskHotspot, error) {
	incidents, err := s.recentIncidents()
	if err != nil {
		return nil, err
	}
	return timeslot.Hotspots(incidents), nil
}

// AnalyzeRoute scores a route polyline at the given time
func (s *SafetyService) AnalyzeRoute(route []spatial.Point, at time.Time) (*models.RouteAnalysis, error) {
	incidents, err := s.recentIncidents()
	if err != nil {
		return nil, err
	}
	analysis := s.analyzer.AnalyzeRoute(route, at, incidents)
	return &analysis, nil
}

func (s *SafetyService) analysisInputs(ownerID string) ([]models.LocationHistoryEntry, []models.Incident, error) {
	since := time.Now().Add(-analysisWindow).Unix()

	history, _, err := s.locationRepo.GetHistory(ownerID, models.LocationHistoryFilter{
		StartTime: since,
		Page:      1,
		PageSize:  1000,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load history: %w", err)
	}

	incidents, err := s.recentIncidents()
	if err != nil {
		return nil, nil, err
	}

	return history, incidents, nil
}

func (s *SafetyService) recentIncidents() ([]models.Incident, error) {
	incidents, err := s.incidentRepo.List(models.IncidentFilter{
		StartTime: time.Now().Add(-analysisWindow).Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load incidents: %w", err)
	}
	return incidents, nil
}
