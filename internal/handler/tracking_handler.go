package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lily666-hub/cityrun-backend-go/internal/middleware"
	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/service"
	"github.com/lily666-hub/cityrun-backend-go/pkg/response"
)

// TrackingHandler handles HTTP requests for live location tracking
type TrackingHandler struct {
	trackingService *service.TrackingService
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(trackingService *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

// Start handles POST /api/v1/tracking/start
func (h *TrackingHandler) Start(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	h.trackingService.Start(ownerID)
	response.Success(c, gin.H{"tracking": true})
}

// Stop handles POST /api/v1/tracking/stop
func (h *TrackingHandler) Stop(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	if err := h.trackingService.Stop(ownerID); err != nil {
		if errors.Is(err, service.ErrNotTracking) {
			response.NotFound(c, "Tracking is not active")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"tracking": false})
}

// Record handles POST /api/v1/tracking/samples
func (h *TrackingHandler) Record(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	var report models.PositionReport
	if err := c.ShouldBindJSON(&report); err != nil {
		response.BadRequest(c, "Invalid position sample")
		return
	}

	ts := report.Timestamp
	if ts == 0 {
		ts = time.Now().Unix()
	}
	sample := models.PositionSample{
		Latitude:  *report.Latitude,
		Longitude: *report.Longitude,
		Altitude:  report.Altitude,
		Accuracy:  report.Accuracy,
		Speed:     report.Speed,
		Heading:   report.Heading,
		Timestamp: ts,
		Source:    models.SourceBrowser,
	}

	if err := h.trackingService.Record(ownerID, sample); err != nil {
		if errors.Is(err, service.ErrNotTracking) {
			response.NotFound(c, "Tracking is not active; call /tracking/start first")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, sample)
}

// Flush handles POST /api/v1/tracking/flush (e.g. before page unload)
func (h *TrackingHandler) Flush(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	if err := h.trackingService.Flush(c.Request.Context(), ownerID); err != nil {
		if errors.Is(err, service.ErrNotTracking) {
			response.NotFound(c, "Tracking is not active")
			return
		}
		// Samples stay pending; the next interval retries
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"flushed": true})
}

// Clear handles DELETE /api/v1/tracking
func (h *TrackingHandler) Clear(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	if err := h.trackingService.Clear(ownerID); err != nil {
		if errors.Is(err, service.ErrNotTracking) {
			response.NotFound(c, "Tracking is not active")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"cleared": true})
}

// History handles GET /api/v1/tracking/history
func (h *TrackingHandler) History(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	history, err := h.trackingService.History(ownerID)
	if err != nil {
		if errors.Is(err, service.ErrNotTracking) {
			response.NotFound(c, "Tracking is not active")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"data":  history,
		"count": len(history),
	})
}

// Records handles GET /api/v1/tracking/records: the persisted, paginated
// history, available with or without an active session
func (h *TrackingHandler) Records(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	var filter models.LocationHistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	records, err := h.trackingService.PersistedHistory(ownerID, filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, records)
}

// Summary handles GET /api/v1/tracking/summary
func (h *TrackingHandler) Summary(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	summary, err := h.trackingService.Summary(ownerID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, summary)
}

// Distance handles GET /api/v1/tracking/distance
func (h *TrackingHandler) Distance(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	distance, err := h.trackingService.DistanceTraveled(ownerID)
	if err != nil {
		if errors.Is(err, service.ErrNotTracking) {
			response.NotFound(c, "Tracking is not active")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"distanceMeters": distance})
}
