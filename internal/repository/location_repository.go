package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
)

// LocationRepository handles database operations for location history
type LocationRepository struct {
	db *sql.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *sql.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// SaveSamples appends a batch of samples for one owner in a single transaction
func (r *LocationRepository) SaveSamples(ctx context.Context, ownerID string, samples []models.PositionSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO location_history
			(owner_id, latitude, longitude, altitude, accuracy, speed, heading, timestamp, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		if _, err := stmt.ExecContext(ctx,
			ownerID, s.Latitude, s.Longitude, s.Altitude, s.Accuracy,
			s.Speed, s.Heading, s.Timestamp, string(s.Source),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit samples: %w", err)
	}
	return nil
}

// GetHistory retrieves history entries for an owner with filtering and pagination
func (r *LocationRepository) GetHistory(ownerID string, filter models.LocationHistoryFilter) ([]models.LocationHistoryEntry, int64, error) {
	conditions := []string{"owner_id = ?"}
	args := []interface{}{ownerID}

	if filter.StartTime > 0 {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, filter.EndTime)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM location_history"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count history entries: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := `SELECT id, owner_id, latitude, longitude, altitude, accuracy, speed, heading,
		timestamp, source, battery_level, network_type, created_at
		FROM location_history` + where + " ORDER BY timestamp DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query history entries: %w", err)
	}
	defer rows.Close()

	var entries []models.LocationHistoryEntry
	for rows.Next() {
		var e models.LocationHistoryEntry
		if err := rows.Scan(
			&e.ID, &e.OwnerID, &e.Latitude, &e.Longitude, &e.Altitude, &e.Accuracy,
			&e.Speed, &e.Heading, &e.Timestamp, &e.Source, &e.BatteryLevel,
			&e.NetworkType, &e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, total, rows.Err()
}

// GetRecent retrieves the owner's most recent entries, newest first
func (r *LocationRepository) GetRecent(ownerID string, limit int) ([]models.LocationHistoryEntry, error) {
	if limit < 1 {
		limit = 100
	}

	entries, _, err := r.GetHistory(ownerID, models.LocationHistoryFilter{Page: 1, PageSize: limit})
	return entries, err
}
