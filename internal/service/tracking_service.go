package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lily666-hub/cityrun-backend-go/internal/buffer"
	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/spatial"
	"github.com/lily666-hub/cityrun-backend-go/internal/stats"
)

// summaryWindow is how many persisted samples a tracking summary covers
const summaryWindow = 100

// LocationReader reads back persisted samples; implemented by the location
// repository.
type LocationReader interface {
	GetHistory(ownerID string, filter models.LocationHistoryFilter) ([]models.LocationHistoryEntry, int64, error)
	GetRecent(ownerID string, limit int) ([]models.LocationHistoryEntry, error)
}

// TrackingService manages one location buffer per actively-tracked owner.
// Starting tracking spins up a periodic flusher; stopping cancels it after
// a final flush.
type TrackingService struct {
	store         buffer.Store
	history       LocationReader
	bufferCfg     buffer.Config
	flushInterval time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	buf    *buffer.Buffer
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTrackingService creates a new tracking service
func NewTrackingService(store buffer.Store, history LocationReader, bufferCfg buffer.Config, flushInterval time.Duration) *TrackingService {
	return &TrackingService{
		store:         store,
		history:       history,
		bufferCfg:     bufferCfg,
		flushInterval: flushInterval,
		sessions:      make(map[string]*session),
	}
}

// Start begins tracking for the owner. Idempotent: starting an active
// session keeps the existing buffer and accumulated distance.
func (s *TrackingService) Start(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[ownerID]; ok {
		return
	}

	buf := buffer.New(ownerID, s.store, s.bufferCfg)
	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{buf: buf, cancel: cancel, done: make(chan struct{})}

	flusher := buffer.NewFlusher(buf, s.flushInterval)
	go func() {
		defer close(sess.done)
		flusher.Run(ctx)
	}()

	s.sessions[ownerID] = sess
	log.Printf("[TrackingService] started tracking for owner %s", ownerID)
}

// Stop ends tracking for the owner. The flusher performs a final flush
// before Stop returns, so pending samples are not dropped.
func (s *TrackingService) Stop(ownerID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[ownerID]
	if ok {
		delete(s.sessions, ownerID)
	}
	s.mu.Unlock()

	if !ok {
		return ErrNotTracking
	}

	sess.cancel()
	<-sess.done
	log.Printf("[TrackingService] stopped tracking for owner %s", ownerID)
	return nil
}

// StopAll ends every active session; used on shutdown
func (s *TrackingService) StopAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for ownerID, sess := range sessions {
		sess.cancel()
		<-sess.done
		log.Printf("[TrackingService] stopped tracking for owner %s", ownerID)
	}
}

// Record appends a sample to the owner's buffer
func (s *TrackingService) Record(ownerID string, sample models.PositionSample) error {
	sess, err := s.session(ownerID)
	if err != nil {
		return err
	}
	sess.buf.Record(sample)
	return nil
}

// Flush forces an immediate write of the owner's pending samples
func (s *TrackingService) Flush(ctx context.Context, ownerID string) error {
	sess, err := s.session(ownerID)
	if err != nil {
		return err
	}
	if err := sess.buf.Flush(ctx); err != nil {
		return fmt.Errorf("flush failed: %w", err)
	}
	return nil
}

// Clear empties the owner's buffer and resets distance accumulation
func (s *TrackingService) Clear(ownerID string) error {
	sess, err := s.session(ownerID)
	if err != nil {
		return err
	}
	sess.buf.Clear()
	return nil
}

// History returns the owner's in-memory history, most recent first
func (s *TrackingService) History(ownerID string) ([]models.PositionSample, error) {
	sess, err := s.session(ownerID)
	if err != nil {
		return nil, err
	}
	return sess.buf.History(), nil
}

// DistanceTraveled returns the owner's accumulated distance in meters
func (s *TrackingService) DistanceTraveled(ownerID string) (float64, error) {
	sess, err := s.session(ownerID)
	if err != nil {
		return 0, err
	}
	return sess.buf.DistanceTraveled(), nil
}

// PersistedHistory pages through the owner's flushed samples. Unlike the
// in-memory History this works without an active session.
func (s *TrackingService) PersistedHistory(ownerID string, filter models.LocationHistoryFilter) (*models.LocationHistoryResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}

	entries, total, err := s.history.GetHistory(ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if entries == nil {
		entries = []models.LocationHistoryEntry{}
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	return &models.LocationHistoryResponse{
		Data:       entries,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Summary aggregates the owner's most recent persisted samples: path length,
// speeds, current heading and the geographic center of the window.
func (s *TrackingService) Summary(ownerID string) (*models.TrackingSummary, error) {
	entries, err := s.history.GetRecent(ownerID, summaryWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent samples: %w", err)
	}

	var segments, speeds []float64
	points := make([]spatial.Point, 0, len(entries))
	for _, e := range entries {
		points = append(points, spatial.Point{Lat: e.Latitude, Lon: e.Longitude})
		if e.Speed > 0 {
			speeds = append(speeds, e.Speed)
		}
	}
	for i := 1; i < len(entries); i++ {
		segments = append(segments, spatial.HaversineDistance(
			entries[i].Latitude, entries[i].Longitude,
			entries[i-1].Latitude, entries[i-1].Longitude,
		))
	}

	summary := &models.TrackingSummary{
		Samples:        len(entries),
		DistanceMeters: stats.Sum(segments),
		AvgSpeed:       stats.Mean(speeds),
		TopSpeed:       stats.Max(speeds),
	}
	if len(points) > 0 {
		center := spatial.Centroid(points)
		summary.CenterLat = center.Lat
		summary.CenterLon = center.Lon
	}
	if len(entries) >= 2 {
		// Entries are newest first: heading points from the previous
		// sample towards the latest one
		summary.Heading = spatial.Bearing(
			entries[1].Latitude, entries[1].Longitude,
			entries[0].Latitude, entries[0].Longitude,
		)
	}
	return summary, nil
}

func (s *TrackingService) session(ownerID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[ownerID]
	if !ok {
		return nil, ErrNotTracking
	}
	return sess, nil
}
