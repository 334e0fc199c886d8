package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/lily666-hub/cityrun-backend-go/internal/advice"
	"github.com/lily666-hub/cityrun-backend-go/internal/buffer"
	"github.com/lily666-hub/cityrun-backend-go/internal/config"
	"github.com/lily666-hub/cityrun-backend-go/internal/database"
	"github.com/lily666-hub/cityrun-backend-go/internal/geolocate"
	"github.com/lily666-hub/cityrun-backend-go/internal/repository"
	"github.com/lily666-hub/cityrun-backend-go/internal/scoring"
	"github.com/lily666-hub/cityrun-backend-go/internal/service"
	"github.com/lily666-hub/cityrun-backend-go/internal/spatial"
	"github.com/lily666-hub/cityrun-backend-go/internal/timeslot"
)

const routerTestSecret = "router-test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.RunMigrations(db))
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		JWTSecret:        routerTestSecret,
		Timezone:         "UTC",
		DefaultLatitude:  31.2304,
		DefaultLongitude: 121.4737,
	}

	locationRepo := repository.NewLocationRepository(db)
	incidentRepo := repository.NewIncidentRepository(db)
	emergencyRepo := repository.NewEmergencyRepository(db)
	contactRepo := repository.NewContactRepository(db)
	chatRepo := repository.NewChatRepository(db)

	reports := geolocate.NewReportCache(time.Minute)
	resolver := geolocate.NewResolver(
		spatial.Point{Lat: cfg.DefaultLatitude, Lon: cfg.DefaultLongitude},
		time.Second,
		reports,
	)

	scorer := scoring.NewScorer(incidentRepo)
	analyzer := timeslot.NewAnalyzer(scorer, time.UTC)

	positionService := service.NewPositionService(resolver, reports)
	trackingService := service.NewTrackingService(locationRepo, locationRepo, buffer.Config{Capacity: 100, Batch: true}, time.Hour)
	t.Cleanup(trackingService.StopAll)
	safetyService := service.NewSafetyService(scorer, analyzer, locationRepo, incidentRepo, time.UTC)
	incidentService := service.NewIncidentService(incidentRepo)
	emergencyService := service.NewEmergencyService(emergencyRepo, contactRepo, nil)
	adviceService := service.NewAdviceService(
		advice.NewClient("", "", "gpt-4o-mini", time.Second), chatRepo, scorer, time.UTC)

	return SetupRouter(cfg, NewHandlers(
		positionService, trackingService, safetyService,
		incidentService, emergencyService, adviceService,
	))
}

func bearerToken(t *testing.T, ownerID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": ownerID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(routerTestSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doRequest(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRouter_HealthNoAuth(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_APIRequiresAuth(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(r, http.MethodGet, "/api/v1/positions/current", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_PositionReportThenCurrent(t *testing.T) {
	r := newTestRouter(t)
	token := bearerToken(t, "runner-1")

	w := doRequest(r, http.MethodPost, "/api/v1/positions/report", token,
		`{"latitude":31.25,"longitude":121.48,"accuracy":10}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/positions/current", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Position struct {
			Latitude float64 `json:"latitude"`
			Source   string  `json:"source"`
		} `json:"position"`
		LastSource string `json:"lastSource"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 31.25, data.Position.Latitude)
	assert.Equal(t, "browser", data.Position.Source)
	assert.Equal(t, "browser", data.LastSource)
}

func TestRouter_PositionReportAcceptsZeroCoordinates(t *testing.T) {
	r := newTestRouter(t)
	token := bearerToken(t, "runner-1")

	// The equator and the prime meridian are legitimate positions
	w := doRequest(r, http.MethodPost, "/api/v1/positions/report", token,
		`{"latitude":0,"longitude":0}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/positions/current", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Position struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Source    string  `json:"source"`
		} `json:"position"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "browser", data.Position.Source)
	assert.Zero(t, data.Position.Latitude)
	assert.Zero(t, data.Position.Longitude)
}

func TestRouter_PositionReportValidation(t *testing.T) {
	r := newTestRouter(t)
	token := bearerToken(t, "runner-1")

	w := doRequest(r, http.MethodPost, "/api/v1/positions/report", token,
		`{"longitude":121.48}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing latitude")

	w = doRequest(r, http.MethodPost, "/api/v1/positions/report", token,
		`{"latitude":91,"longitude":121.48}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "latitude out of range")
}

func TestRouter_CurrentFallsBackToDefault(t *testing.T) {
	r := newTestRouter(t)
	token := bearerToken(t, "runner-without-reports")

	w := doRequest(r, http.MethodGet, "/api/v1/positions/current", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Position struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Source    string  `json:"source"`
		} `json:"position"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "default", data.Position.Source)
	assert.Equal(t, 31.2304, data.Position.Latitude)
	assert.Equal(t, 121.4737, data.Position.Longitude)
}

func TestRouter_TrackingLifecycle(t *testing.T) {
	r := newTestRouter(t)
	token := bearerToken(t, "runner-1")

	// Recording before start is a 404
	w := doRequest(r, http.MethodPost, "/api/v1/tracking/samples", token,
		`{"latitude":31.23,"longitude":121.47}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/tracking/start", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/tracking/samples", token,
		`{"latitude":31.2304,"longitude":121.4737}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(r, http.MethodPost, "/api/v1/tracking/samples", token,
		`{"latitude":31.2310,"longitude":121.4740}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/tracking/history", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Count int `json:"count"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Equal(t, 2, history.Count)

	w = doRequest(r, http.MethodGet, "/api/v1/tracking/distance", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var dist struct {
		DistanceMeters float64 `json:"distanceMeters"`
	}
	env = decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &dist))
	assert.Greater(t, dist.DistanceMeters, 0.0)

	w = doRequest(r, http.MethodPost, "/api/v1/tracking/flush", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/tracking/stop", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/tracking/stop", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Flushed samples stay readable after the session ended
	w = doRequest(r, http.MethodGet, "/api/v1/tracking/records", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var records struct {
		Total int64 `json:"total"`
		Data  []struct {
			Latitude float64 `json:"latitude"`
		} `json:"data"`
	}
	env = decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &records))
	assert.Equal(t, int64(2), records.Total)
	require.Len(t, records.Data, 2)

	w = doRequest(r, http.MethodGet, "/api/v1/tracking/summary", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		Samples        int     `json:"samples"`
		DistanceMeters float64 `json:"distanceMeters"`
	}
	env = decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 2, summary.Samples)
	assert.Greater(t, summary.DistanceMeters, 0.0)
}

func TestRouter_SafetyScore(t *testing.T) {
	r := newTestRouter(t)
	token := bearerToken(t, "runner-1")

	w := doRequest(r, http.MethodGet, "/api/v1/safety/score?lat=31.2304&lon=121.4737", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var score struct {
		Overall float64 `json:"overall"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &score))
	assert.GreaterOrEqual(t, score.Overall, 0.0)
	assert.LessOrEqual(t, score.Overall, 100.0)

	w = doRequest(r, http.MethodGet, "/api/v1/safety/score?lat=abc&lon=121.4737", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_SafetyTimeSlots(t *testing.T) {
	r := newTestRouter(t)
	token := bearerToken(t, "runner-1")

	w := doRequest(r, http.MethodGet, "/api/v1/safety/time-slots", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var slots []struct {
		Slot string `json:"slot"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &slots))
	assert.Len(t, slots, 7)

	w = doRequest(r, http.MethodGet, "/api/v1/safety/time-slots?slot=nope", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_SafetyRouteAnalysis(t *testing.T) {
	r := newTestRouter(t)
	token := bearerToken(t, "runner-1")

	w := doRequest(r, http.MethodPost, "/api/v1/safety/route", token,
		`{"positions":[{"latitude":31.2304,"longitude":121.4737},{"latitude":31.2320,"longitude":121.4750}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	// Fewer than two positions is rejected
	w = doRequest(r, http.MethodPost, "/api/v1/safety/route", token,
		`{"positions":[{"latitude":31.2304,"longitude":121.4737}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_IncidentReportAndList(t *testing.T) {
	r := newTestRouter(t)
	token := bearerToken(t, "runner-1")

	w := doRequest(r, http.MethodPost, "/api/v1/incidents", token,
		`{"type":"harassment","severity":3,"latitude":31.2304,"longitude":121.4737}`)
	require.Equal(t, http.StatusOK, w.Code)

	// A zero coordinate is a valid incident location
	w = doRequest(r, http.MethodPost, "/api/v1/incidents", token,
		`{"type":"theft","severity":2,"latitude":0,"longitude":6.5}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/incidents", token,
		`{"type":"theft","severity":2,"longitude":6.5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing latitude")

	w = doRequest(r, http.MethodGet, "/api/v1/incidents", token, "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_EmergencyLifecycle(t *testing.T) {
	r := newTestRouter(t)
	token := bearerToken(t, "runner-1")

	w := doRequest(r, http.MethodPost, "/api/v1/emergency", token,
		`{"type":"sos","latitude":31.2304,"longitude":121.4737}`)
	require.Equal(t, http.StatusOK, w.Code)

	var event struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &event))
	require.NotEmpty(t, event.ID)
	assert.Equal(t, "active", event.Status)

	w = doRequest(r, http.MethodPost, "/api/v1/emergency/"+event.ID+"/resolve", token,
		`{"resolution":"made it home"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// Terminal state rejects further transitions
	w = doRequest(r, http.MethodPost, "/api/v1/emergency/"+event.ID+"/cancel", token, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_AdviceOfflineFallback(t *testing.T) {
	r := newTestRouter(t)
	token := bearerToken(t, "runner-1")

	// No chat backend configured: degraded reply with 503
	w := doRequest(r, http.MethodPost, "/api/v1/advice/chat", token,
		`{"message":"Is it safe to run?"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/advice/history", token, "")
	require.Equal(t, http.StatusOK, w.Code)
}
