package geolocate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/spatial"
)

type stubProvider struct {
	source models.PositionSource
	sample models.PositionSample
	err    error
	calls  int
}

func (s *stubProvider) Source() models.PositionSource { return s.source }

func (s *stubProvider) Position(ctx context.Context, ownerID string) (models.PositionSample, error) {
	s.calls++
	if s.err != nil {
		return models.PositionSample{}, s.err
	}
	return s.sample, nil
}

var shanghaiFallback = spatial.Point{Lat: 31.2304, Lon: 121.4737}

func TestResolver_FirstStageWins(t *testing.T) {
	vendor := &stubProvider{
		source: models.SourceVendor,
		sample: models.PositionSample{Latitude: 31.25, Longitude: 121.50, Timestamp: 100},
	}
	browser := &stubProvider{source: models.SourceBrowser}

	r := NewResolver(shanghaiFallback, time.Second, vendor, browser)
	sample := r.Current(context.Background(), "runner-1")

	assert.Equal(t, models.SourceVendor, sample.Source)
	assert.Equal(t, 31.25, sample.Latitude)
	assert.Zero(t, browser.calls, "later stages are not consulted")
	assert.Equal(t, models.SourceVendor, r.LastSource())
}

func TestResolver_FallsThroughToBrowser(t *testing.T) {
	vendor := &stubProvider{source: models.SourceVendor, err: errors.New("api unreachable")}
	browser := &stubProvider{
		source: models.SourceBrowser,
		sample: models.PositionSample{Latitude: 31.26, Longitude: 121.51, Timestamp: 200},
	}

	r := NewResolver(shanghaiFallback, time.Second, vendor, browser)
	sample := r.Current(context.Background(), "runner-1")

	assert.Equal(t, models.SourceBrowser, sample.Source)
	assert.Equal(t, 31.26, sample.Latitude)
	assert.Equal(t, 1, vendor.calls)
	assert.Equal(t, models.SourceBrowser, r.LastSource())
}

func TestResolver_AllStagesFailYieldsDefault(t *testing.T) {
	vendor := &stubProvider{source: models.SourceVendor, err: errors.New("api unreachable")}
	browser := &stubProvider{source: models.SourceBrowser, err: errors.New("no fresh report")}

	r := NewResolver(shanghaiFallback, time.Second, vendor, browser)
	r.now = func() time.Time { return time.Unix(1700000000, 0) }

	sample := r.Current(context.Background(), "runner-1")

	assert.Equal(t, models.SourceDefault, sample.Source)
	assert.Equal(t, shanghaiFallback.Lat, sample.Latitude)
	assert.Equal(t, shanghaiFallback.Lon, sample.Longitude)
	assert.Equal(t, int64(1700000000), sample.Timestamp)
	assert.Equal(t, models.SourceDefault, r.LastSource())
}

func TestResolver_NoProvidersYieldsDefault(t *testing.T) {
	r := NewResolver(shanghaiFallback, time.Second)
	sample := r.Current(context.Background(), "runner-1")
	assert.Equal(t, models.SourceDefault, sample.Source)
}

func TestResolver_SourceStampedByStage(t *testing.T) {
	// A provider that forgets to set the source still yields a correctly
	// tagged sample.
	browser := &stubProvider{
		source: models.SourceBrowser,
		sample: models.PositionSample{Latitude: 31.0, Longitude: 121.0},
	}
	r := NewResolver(shanghaiFallback, time.Second, browser)
	sample := r.Current(context.Background(), "runner-1")
	assert.Equal(t, models.SourceBrowser, sample.Source)
}

func TestResolver_LastSourceStartsDefault(t *testing.T) {
	r := NewResolver(shanghaiFallback, time.Second)
	require.Equal(t, models.SourceDefault, r.LastSource())
}

func TestResolver_StageTimeoutEnforced(t *testing.T) {
	slow := &slowProvider{source: models.SourceVendor}
	r := NewResolver(shanghaiFallback, 20*time.Millisecond, slow)

	start := time.Now()
	sample := r.Current(context.Background(), "runner-1")
	elapsed := time.Since(start)

	assert.Equal(t, models.SourceDefault, sample.Source)
	assert.Less(t, elapsed, time.Second, "slow stage is cut off by the per-stage timeout")
}

type slowProvider struct {
	source models.PositionSource
}

func (s *slowProvider) Source() models.PositionSource { return s.source }

func (s *slowProvider) Position(ctx context.Context, ownerID string) (models.PositionSample, error) {
	select {
	case <-ctx.Done():
		return models.PositionSample{}, ctx.Err()
	case <-time.After(10 * time.Second):
		return models.PositionSample{Latitude: 1, Longitude: 1}, nil
	}
}
