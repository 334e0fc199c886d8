package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lily666-hub/cityrun-backend-go/internal/middleware"
	"github.com/lily666-hub/cityrun-backend-go/internal/service"
	"github.com/lily666-hub/cityrun-backend-go/internal/spatial"
	"github.com/lily666-hub/cityrun-backend-go/pkg/response"
)

// SafetyHandler handles HTTP requests for safety scoring and analysis
type SafetyHandler struct {
	safetyService *service.SafetyService
}

// NewSafetyHandler creates a new safety handler
func NewSafetyHandler(safetyService *service.SafetyService) *SafetyHandler {
	return &SafetyHandler{
		safetyService: safetyService,
	}
}

// Score handles GET /api/v1/safety/score?lat=..&lon=..&time=..
func (h *SafetyHandler) Score(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		response.BadRequest(c, "Invalid lat parameter")
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		response.BadRequest(c, "Invalid lon parameter")
		return
	}

	at := time.Now()
	if ts := c.Query("time"); ts != "" {
		unix, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			response.BadRequest(c, "Invalid time parameter")
			return
		}
		at = time.Unix(unix, 0)
	}

	score := h.safetyService.ScoreAt(lat, lon, at)
	response.Success(c, score)
}

// TimeSlots handles GET /api/v1/safety/time-slots
func (h *SafetyHandler) TimeSlots(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	if slotName := c.Query("slot"); slotName != "" {
		stat, err := h.safetyService.TimeSlot(ownerID, slotName)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				response.NotFound(c, err.Error())
				return
			}
			response.InternalError(c, err.Error())
			return
		}
		response.Success(c, stat)
		return
	}

	slots, err := h.safetyService.TimeSlots(ownerID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, slots)
}

// BestTimes handles GET /api/v1/safety/best-times
func (h *SafetyHandler) BestTimes(c *gin.Context) {
	ownerID := middleware.OwnerID(c)

	ranked, err := h.safetyService.BestRunningTimes(ownerID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, ranked)
}

// Hotspots handles GET /api/v1/safety/hotspots
func (h *SafetyHandler) Hotspots(c *gin.Context) {
	hotspots, err := h.safetyService.Hotspots()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{
		"data":  hotspots,
		"count": len(hotspots),
	})
}

// routeRequest is the payload for route analysis. Vertex coordinates are
// pointers so that a legitimate 0 is distinguishable from an absent field.
type routeRequest struct {
	Positions []struct {
		Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
		Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	} `json:"positions" binding:"required,min=2,dive"`
	Time int64 `json:"time"` // Unix timestamp; defaults to now
}

// AnalyzeRoute handles POST /api/v1/safety/route
func (h *SafetyHandler) AnalyzeRoute(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid route payload; at least two positions required")
		return
	}

	route := make([]spatial.Point, 0, len(req.Positions))
	for _, p := range req.Positions {
		route = append(route, spatial.Point{Lat: *p.Latitude, Lon: *p.Longitude})
	}

	at := time.Now()
	if req.Time > 0 {
		at = time.Unix(req.Time, 0)
	}

	analysis, err := h.safetyService.AnalyzeRoute(route, at)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, analysis)
}
