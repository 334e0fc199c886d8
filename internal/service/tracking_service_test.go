package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lily666-hub/cityrun-backend-go/internal/buffer"
	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/repository"
)

type captureStore struct {
	mu    sync.Mutex
	saved map[string][]models.PositionSample
}

func newCaptureStore() *captureStore {
	return &captureStore{saved: make(map[string][]models.PositionSample)}
}

func (c *captureStore) SaveSamples(ctx context.Context, ownerID string, samples []models.PositionSample) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saved[ownerID] = append(c.saved[ownerID], samples...)
	return nil
}

func (c *captureStore) count(ownerID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.saved[ownerID])
}

func newTrackingService(store buffer.Store) *TrackingService {
	return NewTrackingService(store, nil, buffer.Config{Capacity: 100, Batch: true}, time.Hour)
}

// newPersistedTrackingService backs the service with a real repository so
// flushed samples can be read back.
func newPersistedTrackingService(t *testing.T) *TrackingService {
	repo := repository.NewLocationRepository(newTestDB(t))
	svc := NewTrackingService(repo, repo, buffer.Config{Capacity: 100, Batch: true}, time.Hour)
	t.Cleanup(svc.StopAll)
	return svc
}

func TestTrackingService_RecordRequiresActiveSession(t *testing.T) {
	svc := newTrackingService(newCaptureStore())

	err := svc.Record("runner-1", models.PositionSample{Latitude: 31.23, Longitude: 121.47})
	assert.ErrorIs(t, err, ErrNotTracking)

	_, err = svc.History("runner-1")
	assert.ErrorIs(t, err, ErrNotTracking)

	_, err = svc.DistanceTraveled("runner-1")
	assert.ErrorIs(t, err, ErrNotTracking)
}

func TestTrackingService_StartRecordStop(t *testing.T) {
	store := newCaptureStore()
	svc := newTrackingService(store)

	svc.Start("runner-1")
	require.NoError(t, svc.Record("runner-1", models.PositionSample{Latitude: 31.2304, Longitude: 121.4737, Timestamp: 1}))
	require.NoError(t, svc.Record("runner-1", models.PositionSample{Latitude: 31.2310, Longitude: 121.4740, Timestamp: 2}))

	history, err := svc.History("runner-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(2), history[0].Timestamp)

	distance, err := svc.DistanceTraveled("runner-1")
	require.NoError(t, err)
	assert.Greater(t, distance, 0.0)

	// Stop runs a final flush; nothing recorded is lost
	require.NoError(t, svc.Stop("runner-1"))
	assert.Equal(t, 2, store.count("runner-1"))

	assert.ErrorIs(t, svc.Stop("runner-1"), ErrNotTracking)
}

func TestTrackingService_StartIsIdempotent(t *testing.T) {
	svc := newTrackingService(newCaptureStore())

	svc.Start("runner-1")
	require.NoError(t, svc.Record("runner-1", models.PositionSample{Latitude: 31.2304, Longitude: 121.4737, Timestamp: 1}))
	require.NoError(t, svc.Record("runner-1", models.PositionSample{Latitude: 31.2310, Longitude: 121.4740, Timestamp: 2}))
	distance, err := svc.DistanceTraveled("runner-1")
	require.NoError(t, err)
	require.Greater(t, distance, 0.0)

	// A second Start keeps the existing buffer
	svc.Start("runner-1")
	after, err := svc.DistanceTraveled("runner-1")
	require.NoError(t, err)
	assert.Equal(t, distance, after)

	require.NoError(t, svc.Stop("runner-1"))
}

func TestTrackingService_ManualFlush(t *testing.T) {
	store := newCaptureStore()
	svc := newTrackingService(store)

	svc.Start("runner-1")
	require.NoError(t, svc.Record("runner-1", models.PositionSample{Latitude: 31.23, Longitude: 121.47, Timestamp: 1}))
	require.NoError(t, svc.Flush(context.Background(), "runner-1"))
	assert.Equal(t, 1, store.count("runner-1"))

	require.NoError(t, svc.Stop("runner-1"))
}

func TestTrackingService_Clear(t *testing.T) {
	svc := newTrackingService(newCaptureStore())

	svc.Start("runner-1")
	require.NoError(t, svc.Record("runner-1", models.PositionSample{Latitude: 31.2304, Longitude: 121.4737, Timestamp: 1}))
	require.NoError(t, svc.Record("runner-1", models.PositionSample{Latitude: 31.2310, Longitude: 121.4740, Timestamp: 2}))

	require.NoError(t, svc.Clear("runner-1"))

	history, err := svc.History("runner-1")
	require.NoError(t, err)
	assert.Empty(t, history)

	distance, err := svc.DistanceTraveled("runner-1")
	require.NoError(t, err)
	assert.Zero(t, distance)

	require.NoError(t, svc.Stop("runner-1"))
}

func TestTrackingService_SessionsAreIndependent(t *testing.T) {
	store := newCaptureStore()
	svc := newTrackingService(store)

	svc.Start("runner-1")
	svc.Start("runner-2")
	require.NoError(t, svc.Record("runner-1", models.PositionSample{Latitude: 31.23, Longitude: 121.47, Timestamp: 1}))

	h2, err := svc.History("runner-2")
	require.NoError(t, err)
	assert.Empty(t, h2)

	svc.StopAll()
	assert.Equal(t, 1, store.count("runner-1"))
	assert.Zero(t, store.count("runner-2"))

	assert.ErrorIs(t, svc.Stop("runner-1"), ErrNotTracking)
}

func TestTrackingService_PersistedHistoryPagination(t *testing.T) {
	svc := newPersistedTrackingService(t)

	svc.Start("runner-1")
	for i := 1; i <= 5; i++ {
		require.NoError(t, svc.Record("runner-1", models.PositionSample{
			Latitude:  31.2304 + float64(i)*0.0001,
			Longitude: 121.4737,
			Speed:     2.0,
			Timestamp: int64(i),
		}))
	}
	require.NoError(t, svc.Flush(context.Background(), "runner-1"))

	page, err := svc.PersistedHistory("runner-1", models.LocationHistoryFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Data, 2)
	assert.Equal(t, int64(5), page.Data[0].Timestamp, "newest first")
}

func TestTrackingService_PersistedHistoryWithoutSession(t *testing.T) {
	svc := newPersistedTrackingService(t)

	page, err := svc.PersistedHistory("runner-1", models.LocationHistoryFilter{})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Zero(t, page.Total)
}

func TestTrackingService_SummaryAggregatesRecentSamples(t *testing.T) {
	svc := newPersistedTrackingService(t)

	svc.Start("runner-1")
	// Three samples due north along the meridian, roughly 111m per step
	samples := []models.PositionSample{
		{Latitude: 31.2304, Longitude: 121.4737, Speed: 2.0, Timestamp: 1},
		{Latitude: 31.2314, Longitude: 121.4737, Speed: 3.0, Timestamp: 2},
		{Latitude: 31.2324, Longitude: 121.4737, Speed: 2.5, Timestamp: 3},
	}
	for _, s := range samples {
		require.NoError(t, svc.Record("runner-1", s))
	}
	require.NoError(t, svc.Flush(context.Background(), "runner-1"))

	summary, err := svc.Summary("runner-1")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Samples)
	assert.InDelta(t, 222.4, summary.DistanceMeters, 5.0)
	assert.InDelta(t, 2.5, summary.AvgSpeed, 1e-9)
	assert.Equal(t, 3.0, summary.TopSpeed)
	assert.InDelta(t, 0.0, summary.Heading, 0.5, "heading follows the two newest samples")
	assert.InDelta(t, 31.2314, summary.CenterLat, 1e-6)
	assert.InDelta(t, 121.4737, summary.CenterLon, 1e-6)
}

func TestTrackingService_SummaryEmpty(t *testing.T) {
	svc := newPersistedTrackingService(t)

	summary, err := svc.Summary("runner-1")
	require.NoError(t, err)
	assert.Zero(t, summary.Samples)
	assert.Zero(t, summary.DistanceMeters)
	assert.Zero(t, summary.TopSpeed)
}
