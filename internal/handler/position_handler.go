package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lily666-hub/cityrun-backend-go/internal/middleware"
	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/service"
	"github.com/lily666-hub/cityrun-backend-go/pkg/response"
)

// PositionHandler handles HTTP requests for position resolution
type PositionHandler struct {
	positionService *service.PositionService
}

// NewPositionHandler creates a new position handler
func NewPositionHandler(positionService *service.PositionService) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
	}
}

// Current handles GET /api/v1/positions/current
func (h *PositionHandler) Current(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	sample := h.positionService.Current(c.Request.Context(), ownerID)

	response.Success(c, gin.H{
		"position":   sample,
		"lastSource": h.positionService.LastSource(),
	})
}

// Report handles POST /api/v1/positions/report
func (h *PositionHandler) Report(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	var report models.PositionReport
	if err := c.ShouldBindJSON(&report); err != nil {
		response.BadRequest(c, "Invalid position report")
		return
	}

	sample := h.positionService.Report(ownerID, report)
	response.Success(c, sample)
}
