package repository

import (
	"database/sql"
	"fmt"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
)

// EmergencyRepository handles database operations for emergency events
type EmergencyRepository struct {
	db *sql.DB
}

// NewEmergencyRepository creates a new emergency repository
func NewEmergencyRepository(db *sql.DB) *EmergencyRepository {
	return &EmergencyRepository{db: db}
}

// Create inserts a new emergency event
func (r *EmergencyRepository) Create(e *models.EmergencyEvent) error {
	_, err := r.db.Exec(`
		INSERT INTO emergency_events
			(id, owner_id, type, latitude, longitude, timestamp, status, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.OwnerID, e.Type, e.Latitude, e.Longitude, e.Timestamp, e.Status, e.Description)
	if err != nil {
		return fmt.Errorf("failed to insert emergency event: %w", err)
	}
	return nil
}

// GetByID retrieves an emergency event; returns nil when not found
func (r *EmergencyRepository) GetByID(id string) (*models.EmergencyEvent, error) {
	row := r.db.QueryRow(`
		SELECT id, owner_id, type, latitude, longitude, timestamp, status, description,
			resolution, created_at, updated_at
		FROM emergency_events WHERE id = ?
	`, id)

	var e models.EmergencyEvent
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.Type, &e.Latitude, &e.Longitude, &e.Timestamp,
		&e.Status, &e.Description, &e.Resolution, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get emergency event: %w", err)
	}
	return &e, nil
}

// UpdateStatus transitions an event to a new status with an optional
// resolution. The WHERE clause guards against racing past a terminal state;
// changed reports whether a row was actually updated.
func (r *EmergencyRepository) UpdateStatus(id, status string, resolution *string) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE emergency_events
		SET status = ?, resolution = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, status, resolution, id, models.EmergencyStatusActive)
	if err != nil {
		return false, fmt.Errorf("failed to update emergency event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected > 0, nil
}

// ListByOwner retrieves the owner's events, newest first
func (r *EmergencyRepository) ListByOwner(ownerID string, status string, limit int) ([]models.EmergencyEvent, error) {
	if limit < 1 {
		limit = 50
	}

	query := `
		SELECT id, owner_id, type, latitude, longitude, timestamp, status, description,
			resolution, created_at, updated_at
		FROM emergency_events WHERE owner_id = ?`
	args := []interface{}{ownerID}

	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query emergency events: %w", err)
	}
	defer rows.Close()

	var events []models.EmergencyEvent
	for rows.Next() {
		var e models.EmergencyEvent
		if err := rows.Scan(
			&e.ID, &e.OwnerID, &e.Type, &e.Latitude, &e.Longitude, &e.Timestamp,
			&e.Status, &e.Description, &e.Resolution, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan emergency event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
