package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/lily666-hub/cityrun-backend-go/internal/api"
	"github.com/lily666-hub/cityrun-backend-go/internal/buffer"
	"github.com/lily666-hub/cityrun-backend-go/internal/config"
	"github.com/lily666-hub/cityrun-backend-go/internal/database"
	"github.com/lily666-hub/cityrun-backend-go/internal/geolocate"
	"github.com/lily666-hub/cityrun-backend-go/internal/notify"
	"github.com/lily666-hub/cityrun-backend-go/internal/repository"
	"github.com/lily666-hub/cityrun-backend-go/internal/scoring"
	"github.com/lily666-hub/cityrun-backend-go/internal/service"
	"github.com/lily666-hub/cityrun-backend-go/internal/spatial"
	"github.com/lily666-hub/cityrun-backend-go/internal/timeslot"

	adviceclient "github.com/lily666-hub/cityrun-backend-go/internal/advice"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()
	db := database.GetDB()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("Unknown timezone %q, falling back to UTC", cfg.Timezone)
		loc = time.UTC
	}

	// Repositories
	locationRepo := repository.NewLocationRepository(db)
	incidentRepo := repository.NewIncidentRepository(db)
	emergencyRepo := repository.NewEmergencyRepository(db)
	contactRepo := repository.NewContactRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// Position fallback chain: vendor API, then browser reports, then the
	// fixed default coordinate
	reports := geolocate.NewReportCache(cfg.ReportTTL)
	vendor := geolocate.NewVendorClient(cfg.VendorBaseURL, cfg.VendorAPIKey, cfg.PositionTimeout)
	resolver := geolocate.NewResolver(
		spatial.Point{Lat: cfg.DefaultLatitude, Lon: cfg.DefaultLongitude},
		cfg.PositionTimeout,
		vendor,
		reports,
	)

	scorer := scoring.NewScorer(incidentRepo)
	analyzer := timeslot.NewAnalyzer(scorer, loc)

	var notifier service.ContactNotifier
	if wh := notify.NewWebhookNotifier(cfg.AlertWebhookURL); wh != nil {
		notifier = wh
	}

	// Services
	positionService := service.NewPositionService(resolver, reports)
	trackingService := service.NewTrackingService(
		locationRepo,
		locationRepo,
		buffer.Config{Capacity: cfg.BufferCapacity, Batch: cfg.BatchFlush},
		cfg.FlushInterval,
	)
	defer trackingService.StopAll()
	safetyService := service.NewSafetyService(scorer, analyzer, locationRepo, incidentRepo, loc)
	incidentService := service.NewIncidentService(incidentRepo)
	emergencyService := service.NewEmergencyService(emergencyRepo, contactRepo, notifier)
	adviceService := service.NewAdviceService(
		adviceclient.NewClient(cfg.AdviceBaseURL, cfg.AdviceAPIKey, cfg.AdviceModel, 0),
		chatRepo,
		scorer,
		loc,
	)

	handlers := api.NewHandlers(
		positionService,
		trackingService,
		safetyService,
		incidentService,
		emergencyService,
		adviceService,
	)
	router := api.SetupRouter(cfg, handlers)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
