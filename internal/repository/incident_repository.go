package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/spatial"
)

// densityWindow is the look-back window for incident density queries
const densityWindow = 90 * 24 * time.Hour

// IncidentRepository handles database operations for incidents
type IncidentRepository struct {
	db *sql.DB
}

// NewIncidentRepository creates a new incident repository
func NewIncidentRepository(db *sql.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

// Create inserts a new incident and returns it with its assigned id
func (r *IncidentRepository) Create(inc *models.Incident) error {
	result, err := r.db.Exec(`
		INSERT INTO incidents (type, severity, latitude, longitude, timestamp, description, reported_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, inc.Type, inc.Severity, inc.Latitude, inc.Longitude, inc.Timestamp, inc.Description, inc.ReportedBy)
	if err != nil {
		return fmt.Errorf("failed to insert incident: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get incident id: %w", err)
	}
	inc.ID = id
	return nil
}

// List retrieves incidents matching the filter, newest first
func (r *IncidentRepository) List(filter models.IncidentFilter) ([]models.Incident, error) {
	var conditions []string
	var args []interface{}

	if filter.StartTime > 0 {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, filter.EndTime)
	}
	if filter.MinSeverity > 0 {
		conditions = append(conditions, "severity >= ?")
		args = append(args, filter.MinSeverity)
	}
	if filter.MinLat != 0 || filter.MaxLat != 0 {
		conditions = append(conditions, "latitude BETWEEN ? AND ?")
		args = append(args, filter.MinLat, filter.MaxLat)
	}
	if filter.MinLon != 0 || filter.MaxLon != 0 {
		conditions = append(conditions, "longitude BETWEEN ? AND ?")
		args = append(args, filter.MinLon, filter.MaxLon)
	}

	query := `SELECT id, type, severity, latitude, longitude, timestamp, description, reported_by
		FROM incidents`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 500
	}
	if limit > 5000 {
		limit = 5000
	}
	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query incidents: %w", err)
	}
	defer rows.Close()

	var incidents []models.Incident
	for rows.Next() {
		var inc models.Incident
		if err := rows.Scan(
			&inc.ID, &inc.Type, &inc.Severity, &inc.Latitude, &inc.Longitude,
			&inc.Timestamp, &inc.Description, &inc.ReportedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}
		incidents = append(incidents, inc)
	}

	return incidents, rows.Err()
}

// Density implements scoring.IncidentDensityProvider: incidents per km²
// within 1km of the location over the look-back window. ok is false when the
// query fails, so the scorer falls back to its neutral default.
func (r *IncidentRepository) Density(lat, lon float64, t time.Time) (float64, bool) {
	const radiusMeters = 1000.0

	// Coarse bounding box first; exact distance check below
	latDelta := radiusMeters / 111000.0
	lonDelta := latDelta * 2 // generous at mid latitudes

	since := t.Add(-densityWindow).Unix()

	rows, err := r.db.Query(`
		SELECT latitude, longitude FROM incidents
		WHERE timestamp >= ? AND latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?
	`, since, lat-latDelta, lat+latDelta, lon-lonDelta, lon+lonDelta)
	if err != nil {
		return 0, false
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var iLat, iLon float64
		if err := rows.Scan(&iLat, &iLon); err != nil {
			return 0, false
		}
		if spatial.HaversineDistance(lat, lon, iLat, iLon) <= radiusMeters {
			count++
		}
	}
	if rows.Err() != nil {
		return 0, false
	}

	// Circle of 1km radius is ~3.14 km²
	area := 3.14159
	return float64(count) / area, true
}
