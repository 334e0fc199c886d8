package models

// Incident represents one reported safety incident near a running route
type Incident struct {
	ID          int64   `json:"id" db:"id"`
	Type        string  `json:"type" db:"type"`         // harassment, theft, accident, poor_lighting, other
	Severity    int     `json:"severity" db:"severity"` // 1 (minor) - 5 (critical)
	Latitude    float64 `json:"latitude" db:"latitude"`
	Longitude   float64 `json:"longitude" db:"longitude"`
	Timestamp   int64   `json:"timestamp" db:"timestamp"` // Unix timestamp in seconds
	Description string  `json:"description,omitempty" db:"description"`
	ReportedBy  string  `json:"reportedBy,omitempty" db:"reported_by"`
}

// IncidentFilter represents filter parameters for querying incidents
type IncidentFilter struct {
	StartTime   int64   `form:"startTime"`
	EndTime     int64   `form:"endTime"`
	MinSeverity int     `form:"minSeverity"`
	MinLat      float64 `form:"minLat"`
	MaxLat      float64 `form:"maxLat"`
	MinLon      float64 `form:"minLon"`
	MaxLon      float64 `form:"maxLon"`
	Limit       int     `form:"limit"`
}

// IncidentReport is the payload for reporting a new incident. Coordinates are
// pointers so that a legitimate 0 is distinguishable from an absent field.
type IncidentReport struct {
	Type        string   `json:"type" binding:"required"`
	Severity    int      `json:"severity" binding:"required,min=1,max=5"`
	Latitude    *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	Timestamp   int64    `json:"timestamp"`
	Description string   `json:"description"`
}
