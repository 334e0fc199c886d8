package service

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/repository"
)

// ContactNotifier dispatches an emergency alert to a contact. Dispatch
// failure is the one error class this application surfaces prominently.
type ContactNotifier interface {
	Notify(contact models.EmergencyContact, event models.EmergencyEvent) error
}

// EmergencyService manages the emergency event lifecycle:
// active -> resolved | cancelled, with terminal states immutable.
type EmergencyService struct {
	repo     *repository.EmergencyRepository
	contacts *repository.ContactRepository
	notifier ContactNotifier // may be nil
}

// NewEmergencyService creates a new emergency service
func NewEmergencyService(
	repo *repository.EmergencyRepository,
	contacts *repository.ContactRepository,
	notifier ContactNotifier,
) *EmergencyService {
	return &EmergencyService{
		repo:     repo,
		contacts: contacts,
		notifier: notifier,
	}
}

// Trigger creates an active emergency event and dispatches alerts to the
// owner's contacts. A dispatch failure does not roll the event back; it is
// returned so the handler can tell the user to call emergency services
// directly.
func (s *EmergencyService) Trigger(ownerID string, trigger models.EmergencyTrigger) (*models.EmergencyEvent, error) {
	event := &models.EmergencyEvent{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Type:        trigger.Type,
		Latitude:    trigger.Latitude,
		Longitude:   trigger.Longitude,
		Timestamp:   time.Now().Unix(),
		Status:      models.EmergencyStatusActive,
		Description: trigger.Description,
	}

	if err := s.repo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to create emergency event: %w", err)
	}

	if err := s.dispatch(*event); err != nil {
		return event, fmt.Errorf("emergency dispatch failed: %w", err)
	}
	return event, nil
}

// Resolve transitions an active event to resolved with a resolution note
func (s *EmergencyService) Resolve(ownerID, id, resolution string) (*models.EmergencyEvent, error) {
	return s.transition(ownerID, id, models.EmergencyStatusResolved, &resolution)
}

// Cancel transitions an active event to cancelled
func (s *EmergencyService) Cancel(ownerID, id string) (*models.EmergencyEvent, error) {
	return s.transition(ownerID, id, models.EmergencyStatusCancelled, nil)
}

// List retrieves the owner's events, optionally filtered by status
func (s *EmergencyService) List(ownerID, status string, limit int) ([]models.EmergencyEvent, error) {
	return s.repo.ListByOwner(ownerID, status, limit)
}

// AddContact stores a new emergency contact
func (s *EmergencyService) AddContact(ownerID string, contact models.EmergencyContact) (*models.EmergencyContact, error) {
	contact.OwnerID = ownerID
	if contact.Priority < 1 {
		contact.Priority = 1
	}
	if err := s.contacts.Create(&contact); err != nil {
		return nil, fmt.Errorf("failed to add contact: %w", err)
	}
	return &contact, nil
}

// Contacts lists the owner's emergency contacts by priority
func (s *EmergencyService) Contacts(ownerID string) ([]models.EmergencyContact, error) {
	return s.contacts.ListByOwner(ownerID)
}

func (s *EmergencyService) transition(ownerID, id, status string, resolution *string) (*models.EmergencyEvent, error) {
	event, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if event == nil || event.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	if event.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", ErrTerminalState, event.Status)
	}

	changed, err := s.repo.UpdateStatus(id, status, resolution)
	if err != nil {
		return nil, err
	}
	if !changed {
		// Lost a race with another transition
		return nil, fmt.Errorf("%w: %s", ErrTerminalState, status)
	}

	event.Status = status
	event.Resolution = resolution
	return event, nil
}

func (s *EmergencyService) dispatch(event models.EmergencyEvent) error {
	contacts, err := s.contacts.ListByOwner(event.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}
	if len(contacts) == 0 || s.notifier == nil {
		log.Printf("[EmergencyService] no contacts or notifier configured for owner %s", event.OwnerID)
		return nil
	}

	var failed int
	for _, c := range contacts {
		if err := s.notifier.Notify(c, event); err != nil {
			failed++
			log.Printf("[EmergencyService] failed to notify %s: %v", c.Name, err)
		}
	}
	if failed == len(contacts) {
		return fmt.Errorf("all %d contact notification(s) failed", failed)
	}
	return nil
}
