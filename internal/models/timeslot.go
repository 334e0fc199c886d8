package models

// TimeSlotStat represents aggregated safety statistics for one day-period
type TimeSlotStat struct {
	Slot          string   `json:"slot"` // one of the 7 named day-periods
	Label         string   `json:"label"`
	StartHour     int      `json:"startHour"`
	EndHour       int      `json:"endHour"`
	SafetyScore   float64  `json:"safetyScore"`
	TotalRuns     int      `json:"totalRuns"`
	IncidentCount int      `json:"incidentCount"`
	AvgSpeed      float64  `json:"avgSpeed"` // m/s, over matched history samples
	P95Speed      float64  `json:"p95Speed,omitempty"`
	RiskFactors   []string `json:"riskFactors"`
}
