package models

import "time"

// ChatMessage represents one stored advice-chat message.
// History is kept server-side so the client can fall back to stored
// conversations when the LLM collaborator is unreachable.
type ChatMessage struct {
	ID        string    `json:"id" db:"id"` // uuid
	OwnerID   string    `json:"ownerId" db:"owner_id"`
	Role      string    `json:"role" db:"role"` // user, assistant
	Content   string    `json:"content" db:"content"`
	Severity  string    `json:"severity,omitempty" db:"severity"` // info, caution, warning
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// AdviceRequest is the payload for the advice chat endpoint
type AdviceRequest struct {
	Message      string  `json:"message" binding:"required"`
	IncludeScore bool    `json:"includeScore"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// AdviceResponse is the structured reply parsed out of the LLM text
type AdviceResponse struct {
	Reply       string   `json:"reply"`
	Severity    string   `json:"severity"` // info, caution, warning
	Suggestions []string `json:"suggestions,omitempty"`
	Offline     bool     `json:"offline,omitempty"` // true when served from stored history
}
