package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lily666-hub/cityrun-backend-go/internal/middleware"
	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/service"
	"github.com/lily666-hub/cityrun-backend-go/pkg/response"
)

// emergencyFallbackNotice is attached whenever dispatch fails: silent
// failure is unacceptable on this path
const emergencyFallbackNotice = "Alerting your contacts failed. Call your local emergency number directly."

// EmergencyHandler handles HTTP requests for the emergency lifecycle
type EmergencyHandler struct {
	emergencyService *service.EmergencyService
}

// NewEmergencyHandler creates a new emergency handler
func NewEmergencyHandler(emergencyService *service.EmergencyService) *EmergencyHandler {
	return &EmergencyHandler{
		emergencyService: emergencyService,
	}
}

// Trigger handles POST /api/v1/emergency
func (h *EmergencyHandler) Trigger(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	var trigger models.EmergencyTrigger
	if err := c.ShouldBindJSON(&trigger); err != nil {
		response.BadRequest(c, "Invalid emergency payload")
		return
	}

	event, err := h.emergencyService.Trigger(ownerID, trigger)
	if err != nil {
		if event != nil {
			// Event stored but dispatch failed: surface prominently
			response.ServiceUnavailable(c, emergencyFallbackNotice, event)
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, event)
}

// Resolve handles POST /api/v1/emergency/:id/resolve
func (h *EmergencyHandler) Resolve(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	id := c.Param("id")

	var body struct {
		Resolution string `json:"resolution" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "A resolution note is required")
		return
	}

	event, err := h.emergencyService.Resolve(ownerID, id, body.Resolution)
	if err != nil {
		h.transitionError(c, err)
		return
	}
	response.Success(c, event)
}

// Cancel handles POST /api/v1/emergency/:id/cancel
func (h *EmergencyHandler) Cancel(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	id := c.Param("id")

	event, err := h.emergencyService.Cancel(ownerID, id)
	if err != nil {
		h.transitionError(c, err)
		return
	}
	response.Success(c, event)
}

// List handles GET /api/v1/emergency
func (h *EmergencyHandler) List(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.emergencyService.List(ownerID, c.Query("status"), limit)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"data":  events,
		"count": len(events),
	})
}

// AddContact handles POST /api/v1/emergency/contacts
func (h *EmergencyHandler) AddContact(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	var contact models.EmergencyContact
	if err := c.ShouldBindJSON(&contact); err != nil || contact.Name == "" || contact.Phone == "" {
		response.BadRequest(c, "Contact name and phone are required")
		return
	}

	created, err := h.emergencyService.AddContact(ownerID, contact)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, created)
}

// Contacts handles GET /api/v1/emergency/contacts
func (h *EmergencyHandler) Contacts(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	contacts, err := h.emergencyService.Contacts(ownerID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"data":  contacts,
		"count": len(contacts),
	})
}

func (h *EmergencyHandler) transitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "Emergency event not found")
	case errors.Is(err, service.ErrTerminalState):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}
