package repository

import (
	"database/sql"
	"fmt"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
)

// ContactRepository handles database operations for emergency contacts
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a new emergency contact
func (r *ContactRepository) Create(c *models.EmergencyContact) error {
	result, err := r.db.Exec(`
		INSERT INTO emergency_contacts (owner_id, name, phone, relation, priority)
		VALUES (?, ?, ?, ?, ?)
	`, c.OwnerID, c.Name, c.Phone, c.Relation, c.Priority)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get contact id: %w", err)
	}
	c.ID = id
	return nil
}

// ListByOwner retrieves the owner's contacts ordered by notify priority
func (r *ContactRepository) ListByOwner(ownerID string) ([]models.EmergencyContact, error) {
	rows, err := r.db.Query(`
		SELECT id, owner_id, name, phone, relation, priority, created_at
		FROM emergency_contacts WHERE owner_id = ? ORDER BY priority, id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.EmergencyContact
	for rows.Next() {
		var c models.EmergencyContact
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Phone, &c.Relation, &c.Priority, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}

// Delete removes a contact owned by ownerID
func (r *ContactRepository) Delete(ownerID string, id int64) error {
	result, err := r.db.Exec(`DELETE FROM emergency_contacts WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
