package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lily666-hub/cityrun-backend-go/internal/models"
)

func TestIncidentRepository_CreateAndList(t *testing.T) {
	repo := NewIncidentRepository(newTestDB(t))

	inc := &models.Incident{
		Type:       "harassment",
		Severity:   3,
		Latitude:   31.2304,
		Longitude:  121.4737,
		Timestamp:  100,
		ReportedBy: "runner-1",
	}
	require.NoError(t, repo.Create(inc))
	assert.NotZero(t, inc.ID)

	incidents, err := repo.List(models.IncidentFilter{})
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, "harassment", incidents[0].Type)
	assert.Equal(t, 3, incidents[0].Severity)
}

func TestIncidentRepository_ListFilters(t *testing.T) {
	repo := NewIncidentRepository(newTestDB(t))

	seed := []models.Incident{
		{Type: "theft", Severity: 1, Latitude: 31.23, Longitude: 121.47, Timestamp: 100},
		{Type: "assault", Severity: 4, Latitude: 31.23, Longitude: 121.47, Timestamp: 200},
		{Type: "theft", Severity: 2, Latitude: 31.50, Longitude: 121.80, Timestamp: 300},
	}
	for i := range seed {
		require.NoError(t, repo.Create(&seed[i]))
	}

	bySeverity, err := repo.List(models.IncidentFilter{MinSeverity: 3})
	require.NoError(t, err)
	require.Len(t, bySeverity, 1)
	assert.Equal(t, "assault", bySeverity[0].Type)

	byTime, err := repo.List(models.IncidentFilter{StartTime: 150, EndTime: 250})
	require.NoError(t, err)
	require.Len(t, byTime, 1)
	assert.Equal(t, int64(200), byTime[0].Timestamp)

	byArea, err := repo.List(models.IncidentFilter{
		MinLat: 31.20, MaxLat: 31.30,
		MinLon: 121.40, MaxLon: 121.50,
	})
	require.NoError(t, err)
	assert.Len(t, byArea, 2)
}

func TestIncidentRepository_ListNewestFirst(t *testing.T) {
	repo := NewIncidentRepository(newTestDB(t))

	for _, ts := range []int64{100, 300, 200} {
		require.NoError(t, repo.Create(&models.Incident{
			Type: "theft", Severity: 1, Latitude: 31.23, Longitude: 121.47, Timestamp: ts,
		}))
	}

	incidents, err := repo.List(models.IncidentFilter{})
	require.NoError(t, err)
	require.Len(t, incidents, 3)
	assert.Equal(t, int64(300), incidents[0].Timestamp)
	assert.Equal(t, int64(100), incidents[2].Timestamp)
}

func TestIncidentRepository_Density(t *testing.T) {
	repo := NewIncidentRepository(newTestDB(t))

	now := time.Now()
	recent := now.Add(-24 * time.Hour).Unix()
	ancient := now.Add(-120 * 24 * time.Hour).Unix()

	near := []models.Incident{
		{Type: "theft", Severity: 2, Latitude: 31.2304, Longitude: 121.4737, Timestamp: recent},
		{Type: "theft", Severity: 2, Latitude: 31.2310, Longitude: 121.4740, Timestamp: recent},
		{Type: "theft", Severity: 2, Latitude: 31.2300, Longitude: 121.4730, Timestamp: ancient}, // outside window
		{Type: "theft", Severity: 2, Latitude: 31.50, Longitude: 121.90, Timestamp: recent},      // far away
	}
	for i := range near {
		require.NoError(t, repo.Create(&near[i]))
	}

	density, ok := repo.Density(31.2304, 121.4737, now)
	require.True(t, ok)
	// Two incidents inside the 1km circle of ~3.14 km²
	assert.InDelta(t, 2/3.14159, density, 1e-6)
}

func TestIncidentRepository_DensityEmptyArea(t *testing.T) {
	repo := NewIncidentRepository(newTestDB(t))

	density, ok := repo.Density(31.2304, 121.4737, time.Now())
	require.True(t, ok)
	assert.Zero(t, density)
}
