package models

// SafetyFactors holds the four independent sub-scores, each 0-100
type SafetyFactors struct {
	TimeOfDay    float64 `json:"timeOfDay"`
	Lighting     float64 `json:"lighting"`
	CrowdDensity float64 `json:"crowdDensity"`
	IncidentRate float64 `json:"incidentRate"`
}

// SafetyScore is a composite 0-100 rating of how safe a location/time is.
// Derived value; recomputed on demand, never persisted as a source of truth.
type SafetyScore struct {
	Overall float64       `json:"overall"` // 0-100
	Factors SafetyFactors `json:"factors"`
}

// RiskLevel classifies a hotspot
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskHotspot is a location flagged as elevated-risk based on incident history.
// Incidents are grid-binned by geohash cell; Score is the numeric cell score
// the RiskLevel thresholds are applied to.
type RiskHotspot struct {
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	GridID        string    `json:"gridId"`
	RiskLevel     RiskLevel `json:"riskLevel"`
	Score         float64   `json:"score"`
	IncidentCount int       `json:"incidentCount"`
	Description   string    `json:"description"`
	RiskFactors   []string  `json:"riskFactors"`
}

// RouteAnalysis is the result of analyzing a posted route polyline
type RouteAnalysis struct {
	OverallSafetyScore float64       `json:"overallSafetyScore"`
	DistanceMeters     float64       `json:"distanceMeters"`
	RiskHotspots       []RiskHotspot `json:"riskHotspots"`
	Recommendations    []string      `json:"recommendations"`
}
