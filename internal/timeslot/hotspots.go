package timeslot

import (
	"fmt"
	"sort"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/spatial"
)

// hotspotGeohashPrecision bins incidents into cells of roughly 150m x 150m
const hotspotGeohashPrecision = 7

// Cell score thresholds for risk levels. The level is monotone in the score:
// low < medium < high.
const (
	mediumRiskThreshold = 4.0
	highRiskThreshold   = 8.0
)

// Hotspots clusters incidents into geohash grid cells and grades each cell.
// The cell score is the sum of incident severities. The hotspot sits at the
// grid cell center, not at its member incidents, so its position is stable
// no matter where inside the cell the incidents land.
func Hotspots(incidents []models.Incident) []models.RiskHotspot {
	type cell struct {
		score float64
		types map[string]bool
		count int
	}

	cells := make(map[string]*cell)
	for _, inc := range incidents {
		gridID := spatial.EncodeGeohash(inc.Latitude, inc.Longitude, hotspotGeohashPrecision)
		c, ok := cells[gridID]
		if !ok {
			c = &cell{types: make(map[string]bool)}
			cells[gridID] = c
		}
		c.score += float64(inc.Severity)
		c.types[inc.Type] = true
		c.count++
	}

	hotspots := make([]models.RiskHotspot, 0, len(cells))
	for gridID, c := range cells {
		lat, lon := spatial.DecodeGeohash(gridID)

		var types []string
		for t := range c.types {
			types = append(types, t)
		}
		sort.Strings(types)

		hotspots = append(hotspots, models.RiskHotspot{
			Latitude:      lat,
			Longitude:     lon,
			GridID:        gridID,
			RiskLevel:     riskLevelForScore(c.score),
			Score:         c.score,
			IncidentCount: c.count,
			Description:   fmt.Sprintf("%d incident(s) reported in this area", c.count),
			RiskFactors:   types,
		})
	}

	// Highest-risk first; grid id as the deterministic tie-break
	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].Score != hotspots[j].Score {
			return hotspots[i].Score > hotspots[j].Score
		}
		return hotspots[i].GridID < hotspots[j].GridID
	})

	return hotspots
}

func riskLevelForScore(score float64) models.RiskLevel {
	switch {
	case score >= highRiskThreshold:
		return models.RiskHigh
	case score >= mediumRiskThreshold:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
