package repository

import (
	"database/sql"
	"fmt"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
)

// ChatRepository handles database operations for advice chat history
type ChatRepository struct {
	db *sql.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *sql.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Save inserts a chat message
func (r *ChatRepository) Save(m *models.ChatMessage) error {
	_, err := r.db.Exec(`
		INSERT INTO chat_messages (id, owner_id, role, content, severity)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, m.OwnerID, m.Role, m.Content, m.Severity)
	if err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	return nil
}

// History retrieves the owner's recent messages, oldest first so the
// conversation replays in order
func (r *ChatRepository) History(ownerID string, limit int) ([]models.ChatMessage, error) {
	if limit < 1 {
		limit = 50
	}

	// rowid breaks ties between messages stored within the same second
	rows, err := r.db.Query(`
		SELECT id, owner_id, role, content, severity, created_at FROM (
			SELECT rowid AS rid, id, owner_id, role, content, severity, created_at
			FROM chat_messages WHERE owner_id = ?
			ORDER BY created_at DESC, rid DESC LIMIT ?
		) ORDER BY created_at ASC, rid ASC
	`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Role, &m.Content, &m.Severity, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
