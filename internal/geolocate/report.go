package geolocate

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
)

// ReportCache holds the most recent browser-reported position per owner.
// It is the "browser" stage of the fallback chain: a report older than the
// TTL no longer counts as a usable position.
type ReportCache struct {
	cache *gocache.Cache
	now   func() time.Time
}

// NewReportCache creates a report cache with the given freshness window
func NewReportCache(ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &ReportCache{
		cache: gocache.New(ttl, 5*time.Minute),
		now:   time.Now,
	}
}

// Report stores a client-reported position for the owner
func (r *ReportCache) Report(ownerID string, report models.PositionReport) models.PositionSample {
	ts := report.Timestamp
	if ts == 0 {
		ts = r.now().Unix()
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
	r.cache.SetDefault(ownerID, sample)
	return sample
}

// Source implements Provider
func (r *ReportCache) Source() models.PositionSource {
	return models.SourceBrowser
}

// Position implements Provider by returning the owner's last fresh report
func (r *ReportCache) Position(_ context.Context, ownerID string) (models.PositionSample, error) {
	cached, ok := r.cache.Get(ownerID)
	if !ok {
		return models.PositionSample{}, fmt.Errorf("no fresh position report for owner")
	}
	return cached.(models.PositionSample), nil
}
