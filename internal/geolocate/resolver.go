// Package geolocate resolves a best-effort current position through a
// fallback chain: vendor mapping API, then the client's own reported
// browser geolocation, then a fixed default coordinate. The resolver always
// produces a sample; stage failures are logged, never returned.
package geolocate

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/spatial"
)

// Provider is one stage of the fallback chain
type Provider interface {
	// Source identifies the stage in produced samples
	Source() models.PositionSource
	// Position attempts to produce a sample for the owner
	Position(ctx context.Context, ownerID string) (models.PositionSample, error)
}

// Resolver runs the provider chain in order with a per-stage timeout
type Resolver struct {
	providers    []Provider
	fallback     spatial.Point
	stageTimeout time.Duration

	mu         sync.RWMutex
	lastSource models.PositionSource

	now func() time.Time
}

// NewResolver creates a resolver. providers are tried in the given order;
// fallback is the coordinate of last resort.
func NewResolver(fallback spatial.Point, stageTimeout time.Duration, providers ...Provider) *Resolver {
	if stageTimeout <= 0 {
		stageTimeout = 5 * time.Second
	}
	return &Resolver{
		providers:    providers,
		fallback:     fallback,
		stageTimeout: stageTimeout,
		lastSource:   models.SourceDefault,
		now:          time.Now,
	}
}

// Current resolves the owner's position. Never fails: when every provider
// errors out or times out, the fixed fallback coordinate is returned with
// source "default".
func (r *Resolver) Current(ctx context.Context, ownerID string) models.PositionSample {
	for _, p := range r.providers {
		stageCtx, cancel := context.WithTimeout(ctx, r.stageTimeout)
		sample, err := p.Position(stageCtx, ownerID)
		cancel()
		if err != nil {
			log.Printf("[Resolver] %s stage failed: %v", p.Source(), err)
			continue
		}
		sample.Source = p.Source()
		r.setLastSource(sample.Source)
		return sample
	}

	sample := models.PositionSample{
		Latitude:  r.fallback.Lat,
		Longitude: r.fallback.Lon,
		Timestamp: r.now().Unix(),
		Source:    models.SourceDefault,
	}
	r.setLastSource(models.SourceDefault)
	return sample
}

// LastSource reports which stage produced the most recent sample, so the
// client can indicate positioning confidence.
func (r *Resolver) LastSource() models.PositionSource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastSource
}

func (r *Resolver) setLastSource(s models.PositionSource) {
	r.mu.Lock()
	r.lastSource = s
	r.mu.Unlock()
}
