package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lily666-hub/cityrun-backend-go/internal/middleware"
	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/service"
	"github.com/lily666-hub/cityrun-backend-go/pkg/response"
)

// IncidentHandler handles HTTP requests for incident reports
type IncidentHandler struct {
	incidentService *service.IncidentService
}

// NewIncidentHandler creates a new incident handler
func NewIncidentHandler(incidentService *service.IncidentService) *IncidentHandler {
	return &IncidentHandler{
		incidentService: incidentService,
	}
}

// Report handles POST /api/v1/incidents
func (h *IncidentHandler) Report(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	var report models.IncidentReport
	if err := c.ShouldBindJSON(&report); err != nil {
		response.BadRequest(c, "Invalid incident report")
		return
	}

	inc, err := h.incidentService.Report(ownerID, report)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, inc)
}

// List handles GET /api/v1/incidents
func (h *IncidentHandler) List(c *gin.Context) {
	var filter models.IncidentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	incidents, err := h.incidentService.List(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"data":  incidents,
		"count": len(incidents),
	})
}
