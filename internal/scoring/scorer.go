// Package scoring computes the composite 0-100 safety score from independent
// weighted factors: time-of-day risk, lighting, crowd density and historical
// incident density. Scoring is a pure function of its inputs; the only
// external signal, incident density, enters through an injectable provider.
package scoring

import (
	"time"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/stats"
)

// Factor weights; must sum to 1
const (
	weightTimeOfDay    = 0.3
	weightLighting     = 0.3
	weightCrowdDensity = 0.2
	weightIncidentRate = 0.2
)

// NeutralScore substitutes for any sub-score that cannot be computed
const NeutralScore = 50.0

// IncidentDensityProvider supplies historical incident density around a
// location. Density is incidents per square kilometer over the provider's
// window; ok is false when no data is available for the area.
type IncidentDensityProvider interface {
	Density(lat, lon float64, t time.Time) (density float64, ok bool)
}

// Environment carries optional measured overrides for sub-scores. A nil field
// means "not measured": lighting and crowd fall back to the rule tables,
// incident density to the provider, and all of them to NeutralScore.
type Environment struct {
	Lighting        *float64 // measured lighting sub-score, 0-100
	CrowdDensity    *float64 // measured crowd sub-score, 0-100
	IncidentDensity *float64 // incidents per km², overrides the provider
}

// Scorer computes safety scores. Safe for concurrent use; holds no mutable state.
type Scorer struct {
	incidents IncidentDensityProvider // may be nil
}

// NewScorer creates a scorer. incidents may be nil, in which case the
// incident sub-score is the neutral default unless overridden per call.
func NewScorer(incidents IncidentDensityProvider) *Scorer {
	return &Scorer{incidents: incidents}
}

// Score computes the safety score for a position sample
func (s *Scorer) Score(sample models.PositionSample, env Environment) models.SafetyScore {
	t := time.Unix(sample.Timestamp, 0)
	return s.ScoreAt(sample.Latitude, sample.Longitude, t, env)
}

// ScoreAt computes the safety score for an arbitrary location and time
func (s *Scorer) ScoreAt(lat, lon float64, t time.Time, env Environment) models.SafetyScore {
	hour := t.Hour()

	factors := models.SafetyFactors{
		TimeOfDay:    TimeOfDayScore(hour),
		Lighting:     s.lighting(lat, lon, t, env),
		CrowdDensity: s.crowd(hour, env),
		IncidentRate: s.incidentRate(lat, lon, t, env),
	}

	overall := factors.TimeOfDay*weightTimeOfDay +
		factors.Lighting*weightLighting +
		factors.CrowdDensity*weightCrowdDensity +
		factors.IncidentRate*weightIncidentRate

	return models.SafetyScore{
		Overall: stats.Clamp(overall, 0, 100),
		Factors: factors,
	}
}

// ScoreForHour computes the score at a representative hour with no location
// context. Used by the time-slot aggregator.
func (s *Scorer) ScoreForHour(hour int, env Environment) models.SafetyScore {
	factors := models.SafetyFactors{
		TimeOfDay:    TimeOfDayScore(hour),
		Lighting:     LightingHourScore(hour),
		CrowdDensity: s.crowd(hour, env),
		IncidentRate: NeutralScore,
	}
	if env.Lighting != nil {
		factors.Lighting = stats.Clamp(*env.Lighting, 0, 100)
	}
	if env.IncidentDensity != nil {
		factors.IncidentRate = densityToScore(*env.IncidentDensity)
	}

	overall := factors.TimeOfDay*weightTimeOfDay +
		factors.Lighting*weightLighting +
		factors.CrowdDensity*weightCrowdDensity +
		factors.IncidentRate*weightIncidentRate

	return models.SafetyScore{
		Overall: stats.Clamp(overall, 0, 100),
		Factors: factors,
	}
}

func (s *Scorer) lighting(lat, lon float64, t time.Time, env Environment) float64 {
	if env.Lighting != nil {
		return stats.Clamp(*env.Lighting, 0, 100)
	}
	if lat == 0 && lon == 0 {
		// Null island means "no location"; hour table only
		return LightingHourScore(t.Hour())
	}
	return lightingScore(lat, lon, t)
}

func (s *Scorer) crowd(hour int, env Environment) float64 {
	if env.CrowdDensity != nil {
		return stats.Clamp(*env.CrowdDensity, 0, 100)
	}
	return CrowdDensityScore(hour)
}

func (s *Scorer) incidentRate(lat, lon float64, t time.Time, env Environment) float64 {
	if env.IncidentDensity != nil {
		return densityToScore(*env.IncidentDensity)
	}
	if s.incidents == nil {
		return NeutralScore
	}
	density, ok := s.incidents.Density(lat, lon, t)
	if !ok {
		return NeutralScore
	}
	return densityToScore(density)
}

// densityToScore maps incidents per km² onto 0-100. Zero incidents is a
// perfect score; 5 or more per km² floors at zero.
func densityToScore(density float64) float64 {
	return stats.Clamp(100-density*20, 0, 100)
}
