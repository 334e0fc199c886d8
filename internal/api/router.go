package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lily666-hub/cityrun-backend-go/internal/config"
	"github.com/lily666-hub/cityrun-backend-go/internal/handler"
	"github.com/lily666-hub/cityrun-backend-go/internal/middleware"
	"github.com/lily666-hub/cityrun-backend-go/internal/service"
)

// Handlers bundles every handler wired by the router
type Handlers struct {
	Position  *handler.PositionHandler
	Tracking  *handler.TrackingHandler
	Safety    *handler.SafetyHandler
	Incident  *handler.IncidentHandler
	Emergency *handler.EmergencyHandler
	Advice    *handler.AdviceHandler
}

// NewHandlers builds the handler set from services
func NewHandlers(
	position *service.PositionService,
	tracking *service.TrackingService,
	safety *service.SafetyService,
	incident *service.IncidentService,
	emergency *service.EmergencyService,
	advice *service.AdviceService,
) *Handlers {
	return &Handlers{
		Position:  handler.NewPositionHandler(position),
		Tracking:  handler.NewTrackingHandler(tracking),
		Safety:    handler.NewSafetyHandler(safety),
		Incident:  handler.NewIncidentHandler(incident),
		Emergency: handler.NewEmergencyHandler(emergency),
		Advice:    handler.NewAdviceHandler(advice),
	}
}

// SetupRouter configures routes and middleware
func SetupRouter(cfg *config.Config, h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "CityRun Backend API is running",
		})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(300, time.Minute))
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		positions := api.Group("/positions")
		{
			positions.GET("/current", h.Position.Current)
			positions.POST("/report", h.Position.Report)
		}

		tracking := api.Group("/tracking")
		{
			tracking.POST("/start", h.Tracking.Start)
			tracking.POST("/stop", h.Tracking.Stop)
			tracking.POST("/samples", h.Tracking.Record)
			tracking.POST("/flush", h.Tracking.Flush)
			tracking.GET("/history", h.Tracking.History)
			tracking.GET("/records", h.Tracking.Records)
			tracking.GET("/summary", h.Tracking.Summary)
			tracking.GET("/distance", h.Tracking.Distance)
			tracking.DELETE("", h.Tracking.Clear)
		}

		safety := api.Group("/safety")
		{
			safety.GET("/score", h.Safety.Score)
			safety.GET("/time-slots", h.Safety.TimeSlots)
			safety.GET("/best-times", h.Safety.BestTimes)
			safety.GET("/hotspots", h.Safety.Hotspots)
			safety.POST("/route", h.Safety.AnalyzeRoute)
		}

		incidents := api.Group("/incidents")
		{
			incidents.GET("", h.Incident.List)
			incidents.POST("", h.Incident.Report)
		}

		emergency := api.Group("/emergency")
		{
			emergency.POST("", h.Emergency.Trigger)
			emergency.GET("", h.Emergency.List)
			emergency.POST("/:id/resolve", h.Emergency.Resolve)
			emergency.POST("/:id/cancel", h.Emergency.Cancel)
			emergency.GET("/contacts", h.Emergency.Contacts)
			emergency.POST("/contacts", h.Emergency.AddContact)
		}

		advice := api.Group("/advice")
		{
			advice.POST("/chat", h.Advice.Chat)
			advice.GET("/history", h.Advice.History)
		}
	}

	return r
}
