package models

import "time"

// EmergencyStatus constants
const (
	EmergencyStatusActive    = "active"
	EmergencyStatusResolved  = "resolved"
	EmergencyStatusCancelled = "cancelled"
)

// EmergencyEvent represents a user-triggered incident with an
// active/resolved/cancelled lifecycle. Mutated only through explicit
// resolve/cancel transitions; resolved and cancelled are terminal.
type EmergencyEvent struct {
	ID          string    `json:"id" db:"id"` // uuid
	OwnerID     string    `json:"ownerId" db:"owner_id"`
	Type        string    `json:"type" db:"type"` // sos, fall_detected, route_deviation
	Latitude    float64   `json:"latitude" db:"latitude"`
	Longitude   float64   `json:"longitude" db:"longitude"`
	Timestamp   int64     `json:"timestamp" db:"timestamp"`
	Status      string    `json:"status" db:"status"`
	Description string    `json:"description,omitempty" db:"description"`
	Resolution  *string   `json:"resolution,omitempty" db:"resolution"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// IsTerminal returns true if the event is in a terminal state
func (e *EmergencyEvent) IsTerminal() bool {
	return e.Status == EmergencyStatusResolved || e.Status == EmergencyStatusCancelled
}

// EmergencyTrigger is the payload for creating an emergency event
type EmergencyTrigger struct {
	Type        string  `json:"type" binding:"required"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
}

// EmergencyContact represents one person to notify when an emergency fires
type EmergencyContact struct {
	ID        int64     `json:"id" db:"id"`
	OwnerID   string    `json:"ownerId" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Relation  string    `json:"relation,omitempty" db:"relation"`
	Priority  int       `json:"priority" db:"priority"` // 1 = first to notify
	CreatedAt time.Time `json:"createdAt,omitempty" db:"created_at"`
}
