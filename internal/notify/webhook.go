// Package notify dispatches emergency alerts to an external messaging
// webhook (SMS gateway, chat bridge). Delivery is best-effort per contact;
// the caller decides when total failure must be escalated.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
)

// WebhookNotifier posts one JSON alert per contact to a configured endpoint
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

// NewWebhookNotifier creates a notifier, or nil when no URL is configured
func NewWebhookNotifier(url string) *WebhookNotifier {
	if url == "" {
		return nil
	}
	return &WebhookNotifier{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// alertPayload is the webhook message body
type alertPayload struct {
	ContactName  string  `json:"contactName"`
	ContactPhone string  `json:"contactPhone"`
	EventID      string  `json:"eventId"`
	EventType    string  `json:"eventType"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timestamp    int64   `json:"timestamp"`
	Message      string  `json:"message"`
}

// Notify implements service.ContactNotifier
func (n *WebhookNotifier) Notify(contact models.EmergencyContact, event models.EmergencyEvent) error {
	payload, err := json.Marshal(alertPayload{
		ContactName:  contact.Name,
		ContactPhone: contact.Phone,
		EventID:      event.ID,
		EventType:    event.Type,
		Latitude:     event.Latitude,
		Longitude:    event.Longitude,
		Timestamp:    event.Timestamp,
		Message: fmt.Sprintf("Emergency alert (%s): runner needs help near %.5f, %.5f",
			event.Type, event.Latitude, event.Longitude),
	})
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	resp, err := n.httpClient.Post(n.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("alert webhook failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("alert webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
