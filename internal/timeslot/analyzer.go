package timeslot

import (
	"sort"
	"time"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/scoring"
	"github.com/lily666-hub/cityrun-backend-go/internal/spatial"
	"github.com/lily666-hub/cityrun-backend-go/internal/stats"
)

// Sub-score thresholds that trigger risk factor tags and recommendations
const (
	lightingThreshold  = 60.0
	crowdThreshold     = 50.0
	timeOfDayThreshold = 50.0
	incidentThreshold  = 70.0
)

// hotspotMatchRadiusMeters is how close a hotspot must be to a route vertex
// to be attributed to the route
const hotspotMatchRadiusMeters = 250.0

// Analyzer aggregates history and incident records into slot and route
// statistics. Hours are bucketed in the analyzer's timezone.
type Analyzer struct {
	scorer *scoring.Scorer
	loc    *time.Location
}

// NewAnalyzer creates an analyzer. loc may be nil, which means UTC.
func NewAnalyzer(scorer *scoring.Scorer, loc *time.Location) *Analyzer {
	if loc == nil {
		loc = time.UTC
	}
	return &Analyzer{scorer: scorer, loc: loc}
}

// AnalyzeSlot aggregates the given history and incidents for one slot.
// Empty inputs yield zero counts and a defined rule-table score.
func (a *Analyzer) AnalyzeSlot(slot Slot, history []models.LocationHistoryEntry, incidents []models.Incident) models.TimeSlotStat {
	var speeds []float64
	totalRuns := 0
	for _, h := range history {
		if !slot.Contains(a.hourOf(h.Timestamp)) {
			continue
		}
		totalRuns++
		if h.Speed > 0 {
			speeds = append(speeds, h.Speed)
		}
	}

	incidentCount := 0
	for _, inc := range incidents {
		if slot.Contains(a.hourOf(inc.Timestamp)) {
			incidentCount++
		}
	}

	env := scoring.Environment{}
	if incidentCount > 0 {
		// Slot incident count stands in for area density; see the scorer's
		// density mapping.
		density := float64(incidentCount)
		env.IncidentDensity = &density
	}
	score := a.scorer.ScoreForHour(slot.RepHour, env)

	return models.TimeSlotStat{
		Slot:          slot.Name,
		Label:         slot.Label,
		StartHour:     slot.StartHour,
		EndHour:       slot.EndHour,
		SafetyScore:   score.Overall,
		TotalRuns:     totalRuns,
		IncidentCount: incidentCount,
		AvgSpeed:      stats.Mean(speeds),
		P95Speed:      stats.Quantile(speeds, 0.95),
		RiskFactors:   riskFactors(score.Factors),
	}
}

// AnalyzeAllSlots runs AnalyzeSlot for every slot in canonical order
func (a *Analyzer) AnalyzeAllSlots(history []models.LocationHistoryEntry, incidents []models.Incident) []models.TimeSlotStat {
	out := make([]models.TimeSlotStat, 0, len(Slots))
	for _, slot := range Slots {
		out = append(out, a.AnalyzeSlot(slot, history, incidents))
	}
	return out
}

// BestRunningTimes ranks slot statistics by descending safety score.
// Ties keep the canonical slot order (stable sort).
func BestRunningTimes(slotStats []models.TimeSlotStat) []models.TimeSlotStat {
	ranked := make([]models.TimeSlotStat, len(slotStats))
	copy(ranked, slotStats)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SafetyScore > ranked[j].SafetyScore
	})
	return ranked
}

// AnalyzeRoute scores a route polyline at the given time and attaches the
// incident hotspots lying near it.
func (a *Analyzer) AnalyzeRoute(route []spatial.Point, at time.Time, incidents []models.Incident) models.RouteAnalysis {
	hotspots := Hotspots(incidents)

	var near []models.RiskHotspot
	for _, h := range hotspots {
		center := spatial.Point{Lat: h.Latitude, Lon: h.Longitude}
		for _, p := range route {
			if spatial.WithinRadius(p, center, hotspotMatchRadiusMeters) {
				near = append(near, h)
				break
			}
		}
	}

	var scores []float64
	var factorSum models.SafetyFactors
	for _, p := range route {
		sc := a.scorer.ScoreAt(p.Lat, p.Lon, at.In(a.loc), scoring.Environment{})
		scores = append(scores, sc.Overall)
		factorSum.TimeOfDay += sc.Factors.TimeOfDay
		factorSum.Lighting += sc.Factors.Lighting
		factorSum.CrowdDensity += sc.Factors.CrowdDensity
		factorSum.IncidentRate += sc.Factors.IncidentRate
	}

	overall := scoring.NeutralScore
	meanFactors := models.SafetyFactors{
		TimeOfDay:    scoring.NeutralScore,
		Lighting:     scoring.NeutralScore,
		CrowdDensity: scoring.NeutralScore,
		IncidentRate: scoring.NeutralScore,
	}
	if n := float64(len(route)); n > 0 {
		overall = stats.Mean(scores)
		meanFactors = models.SafetyFactors{
			TimeOfDay:    factorSum.TimeOfDay / n,
			Lighting:     factorSum.Lighting / n,
			CrowdDensity: factorSum.CrowdDensity / n,
			IncidentRate: factorSum.IncidentRate / n,
		}
	}
	if len(near) > 0 {
		// Hotspots on the route drag the incident factor below neutral
		meanFactors.IncidentRate = stats.Clamp(meanFactors.IncidentRate-float64(len(near))*10, 0, 100)
		overall = stats.Clamp(overall-float64(len(near))*5, 0, 100)
	}

	return models.RouteAnalysis{
		OverallSafetyScore: overall,
		DistanceMeters:     spatial.PathDistance(route),
		RiskHotspots:       near,
		Recommendations:    Recommendations(meanFactors),
	}
}

func (a *Analyzer) hourOf(ts int64) int {
	return time.Unix(ts, 0).In(a.loc).Hour()
}

func riskFactors(f models.SafetyFactors) []string {
	var tags []string
	if f.TimeOfDay < timeOfDayThreshold {
		tags = append(tags, "late_night")
	}
	if f.Lighting < lightingThreshold {
		tags = append(tags, "poor_lighting")
	}
	if f.CrowdDensity < crowdThreshold {
		tags = append(tags, "low_crowd")
	}
	if f.IncidentRate < incidentThreshold {
		tags = append(tags, "incident_history")
	}
	return tags
}

// Recommendations returns human-readable advice for factors scoring below
// the fixed thresholds
func Recommendations(f models.SafetyFactors) []string {
	var recs []string
	if f.Lighting < lightingThreshold {
		recs = append(recs, "Lighting is poor on this route. Bring a light source and wear reflective clothing.")
	}
	if f.CrowdDensity < crowdThreshold {
		recs = append(recs, "Few people are around at this time. Run with a partner or pick a busier route.")
	}
	if f.TimeOfDay < timeOfDayThreshold {
		recs = append(recs, "Late-night runs carry extra risk. Consider moving your run to daylight hours.")
	}
	if f.IncidentRate < incidentThreshold {
		recs = append(recs, "Incidents have been reported nearby. Stay alert and share your live location.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Conditions look good. Enjoy your run.")
	}
	return recs
}
