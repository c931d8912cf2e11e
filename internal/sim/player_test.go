package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-telemetry/engine/internal/domain"
	"fleet-telemetry/engine/internal/geo"
)

var testPath = []geo.Point{
	{Lat: 13.00, Lng: 80.00},
	{Lat: 13.01, Lng: 80.01},
	{Lat: 13.02, Lng: 80.02},
	{Lat: 13.03, Lng: 80.03},
}

func testTrip(start time.Time, duration time.Duration) *domain.ActiveTrip {
	return &domain.ActiveTrip{
		VehicleID:      "veh-001",
		Path:           testPath,
		ScheduledStart: start,
		Duration:       duration,
	}
}

func TestPositionAt_BeforeStart(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	trip := testTrip(now.Add(10*time.Second), time.Minute)

	_, _, ok := PositionAt(trip, now)
	assert.False(t, ok)
}

func TestPositionAt_HalfwayHitsWaypointOne(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	trip := testTrip(now.Add(-30*time.Second), time.Minute)

	// progress = 0.5, index = floor(0.5 * 3) = 1
	p, idx, ok := PositionAt(trip, now)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, testPath[1], p)
}

func TestPositionAt_Finished(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	trip := testTrip(now.Add(-90*time.Second), time.Minute)

	_, _, ok := PositionAt(trip, now)
	assert.False(t, ok)
}

func TestPositionAt_EmptyPath(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	trip := &domain.ActiveTrip{
		VehicleID:      "veh-001",
		ScheduledStart: now.Add(-time.Second),
		Duration:       time.Minute,
	}

	_, _, ok := PositionAt(trip, now)
	assert.False(t, ok)
}

// The index depends only on the clock, never on how often the function is
// evaluated.
func TestPositionAt_DeterministicInNow(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	trip := testTrip(start, time.Minute)

	for elapsed := 0; elapsed < 60; elapsed += 5 {
		now := start.Add(time.Duration(elapsed) * time.Second)
		_, first, ok := PositionAt(trip, now)
		require.True(t, ok)

		for i := 0; i < 3; i++ {
			_, again, ok := PositionAt(trip, now)
			require.True(t, ok)
			assert.Equal(t, first, again)
		}
	}
}

func TestPositionAt_IndexNeverExceedsPath(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	trip := testTrip(start, time.Minute)

	// Sample just inside the end of the trip.
	now := start.Add(time.Minute - time.Millisecond)
	_, idx, ok := PositionAt(trip, now)
	require.True(t, ok)
	assert.LessOrEqual(t, idx, len(testPath)-1)
}
