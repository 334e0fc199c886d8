// Package buffer implements the in-memory location buffer: a capped
// most-recent-first history for display, a running distance accumulator and
// a pending queue flushed to persistence with at-least-once semantics.
package buffer

import (
	"context"
	"fmt"
	"sync"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/spatial"
)

// DefaultCapacity caps the in-memory history
const DefaultCapacity = 100

// Store persists flushed samples for an owner
type Store interface {
	SaveSamples(ctx context.Context, ownerID string, samples []models.PositionSample) error
}

// Config controls buffer behavior
type Config struct {
	Capacity int  // in-memory history cap; DefaultCapacity when <= 0
	Batch    bool // flush pending samples in one call instead of one by one
}

// Buffer accumulates position samples for a single owner. Safe for
// concurrent use. Record never blocks on persistence; Flush failures keep
// the pending samples queued for the next attempt.
type Buffer struct {
	ownerID string
	store   Store
	cfg     Config

	mu       sync.Mutex
	history  []models.PositionSample // index 0 = most recent
	pending  []models.PositionSample // insertion order, awaiting flush
	distance float64                 // meters, running haversine total
	last     *models.PositionSample  // previous recorded sample
}

// New creates a buffer for one owner
func New(ownerID string, store Store, cfg Config) *Buffer {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	return &Buffer{
		ownerID: ownerID,
		store:   store,
		cfg:     cfg,
	}
}

// Record appends a sample to the history and schedules it for persistence
func (b *Buffer) Record(sample models.PositionSample) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.last != nil {
		b.distance += spatial.HaversineDistance(
			b.last.Latitude, b.last.Longitude,
			sample.Latitude, sample.Longitude,
		)
	}
	last := sample
	b.last = &last

	// Most recent first, oldest evicted past the cap
	b.history = append([]models.PositionSample{sample}, b.history...)
	if len(b.history) > b.cfg.Capacity {
		b.history = b.history[:b.cfg.Capacity]
	}

	b.pending = append(b.pending, sample)
}

// Flush writes all pending samples to the store. On failure the unsent
// samples stay pending; samples recorded during the flush are preserved.
func (b *Buffer) Flush(ctx context.Context) error {
	b.mu.Lock()
	batch := b.pending
	b.pending = nil
	b.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	var unsent []models.PositionSample
	var err error

	if b.cfg.Batch {
		if err = b.store.SaveSamples(ctx, b.ownerID, batch); err != nil {
			unsent = batch
		}
	} else {
		for i := range batch {
			if err = b.store.SaveSamples(ctx, b.ownerID, batch[i:i+1]); err != nil {
				unsent = batch[i:]
				break
			}
		}
	}

	if len(unsent) > 0 {
		b.mu.Lock()
		b.pending = append(unsent, b.pending...)
		b.mu.Unlock()
		return fmt.Errorf("failed to flush %d sample(s): %w", len(unsent), err)
	}
	return nil
}

// Clear empties the buffer and resets distance accumulation
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.history = nil
	b.pending = nil
	b.distance = 0
	b.last = nil
}

// History returns a copy of the in-memory history, most recent first
func (b *Buffer) History() []models.PositionSample {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.PositionSample, len(b.history))
	copy(out, b.history)
	return out
}

// DistanceTraveled returns the accumulated distance in meters
func (b *Buffer) DistanceTraveled() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.distance
}

// PendingCount returns the number of samples awaiting flush
func (b *Buffer) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
