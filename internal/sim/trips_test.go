package sim

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-telemetry/engine/internal/geo"
)

func TestTrips_StartReplacesExisting(t *testing.T) {
	trips := NewTrips()
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	trips.Start("veh-001", testPath, start, time.Minute)
	trips.Start("veh-001", testPath[:2], start.Add(time.Hour), 2*time.Minute)

	trip, ok := trips.Get("veh-001")
	require.True(t, ok)
	assert.Len(t, trip.Path, 2)
	assert.Equal(t, start.Add(time.Hour), trip.ScheduledStart)
	assert.Equal(t, 1, trips.Len())
}

func TestTrips_RemoveIdempotent(t *testing.T) {
	trips := NewTrips()
	trips.Start("veh-001", testPath, time.Now(), time.Minute)

	trips.Remove("veh-001")
	trips.Remove("veh-001")

	assert.False(t, trips.Has("veh-001"))
}

func TestTrips_PathIsCopied(t *testing.T) {
	trips := NewTrips()
	path := []geo.Point{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}

	trips.Start("veh-001", path, time.Now(), time.Minute)
	path[0] = geo.Point{Lat: 99, Lng: 99}

	trip, _ := trips.Get("veh-001")
	assert.Equal(t, 1.0, trip.Path[0].Lat)
}

func TestTrips_ConcurrentAccess(t *testing.T) {
	trips := NewTrips()
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			trips.Start("veh-001", testPath, start, time.Minute)
		}()
		go func() {
			defer wg.Done()
			trips.Has("veh-001")
		}()
		go func() {
			defer wg.Done()
			trips.Remove("veh-002")
		}()
	}
	wg.Wait()

	assert.True(t, trips.Has("veh-001"))
}
