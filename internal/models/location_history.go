package models

import "time"

// LocationHistoryEntry represents a persisted position sample for one owner
type LocationHistoryEntry struct {
	ID           int64      `json:"id" db:"id"`
	OwnerID      string     `json:"ownerId" db:"owner_id"`
	Latitude     float64    `json:"latitude" db:"latitude"`
	Longitude    float64    `json:"longitude" db:"longitude"`
	Altitude     float64    `json:"altitude,omitempty" db:"altitude"`
	Accuracy     float64    `json:"accuracy,omitempty" db:"accuracy"`
	Speed        float64    `json:"speed,omitempty" db:"speed"`
	Heading      float64    `json:"heading,omitempty" db:"heading"`
	Timestamp    int64      `json:"timestamp" db:"timestamp"` // Unix timestamp in seconds
	Source       string     `json:"source" db:"source"`
	BatteryLevel float64    `json:"batteryLevel,omitempty" db:"battery_level"` // 0-100
	NetworkType  string     `json:"networkType,omitempty" db:"network_type"`   // wifi, cellular, offline
	CreatedAt    *time.Time `json:"createdAt,omitempty" db:"created_at"`
}

// LocationHistoryFilter represents filter parameters for querying location history
type LocationHistoryFilter struct {
	StartTime int64 `form:"startTime"` // Unix timestamp
	EndTime   int64 `form:"endTime"`   // Unix timestamp
	Page      int   `form:"page"`
	PageSize  int   `form:"pageSize"`
}

// LocationHistoryResponse represents a paginated response of history entries
type LocationHistoryResponse struct {
	Data       []LocationHistoryEntry `json:"data"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"pageSize"`
	TotalPages int                    `json:"totalPages"`
}

// TrackingSummary aggregates an owner's recently persisted samples
type TrackingSummary struct {
	Samples        int     `json:"samples"`
	DistanceMeters float64 `json:"distanceMeters"`
	AvgSpeed       float64 `json:"avgSpeed"` // m/s, over samples with a reading
	TopSpeed       float64 `json:"topSpeed"` // m/s
	Heading        float64 `json:"heading"`  // degrees, from the two newest samples
	CenterLat      float64 `json:"centerLat"`
	CenterLon      float64 `json:"centerLon"`
}
