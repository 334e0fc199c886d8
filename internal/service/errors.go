package service

import "errors"

// Sentinel errors surfaced by services and translated by handlers
var (
	ErrNotFound      = errors.New("not found")
	ErrTerminalState = errors.New("event is already in a terminal state")
	ErrNotTracking   = errors.New("tracking is not active for this owner")
)
