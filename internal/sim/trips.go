package sim

import (
	"sync"
	"time"

	"fleet-telemetry/engine/internal/domain"
	"fleet-telemetry/engine/internal/geo"
)

// Trips is the active-trip table, keyed by vehicle id. It is touched from
// the booking path (Start), the read-triggered advance path (Get/Remove)
// and the idle degradation worker (Has), so all access goes through the
// lock. Trips are independent per vehicle; no cross-key coordination.
type Trips struct {
	mu sync.RWMutex
	m  map[string]*domain.ActiveTrip
}

func NewTrips() *Trips {
	return &Trips{m: make(map[string]*domain.ActiveTrip)}
}

// Start registers a trip for the vehicle. An existing trip for the same
// vehicle is silently replaced (last writer wins).
func (t *Trips) Start(vehicleID string, path []geo.Point, scheduledStart time.Time, duration time.Duration) {
	trip := &domain.ActiveTrip{
		VehicleID:      vehicleID,
		Path:           append([]geo.Point(nil), path...),
		ScheduledStart: scheduledStart,
		Duration:       duration,
	}

	t.mu.Lock()
	t.m[vehicleID] = trip
	t.mu.Unlock()
}

func (t *Trips) Get(vehicleID string) (*domain.ActiveTrip, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	trip, ok := t.m[vehicleID]
	return trip, ok
}

func (t *Trips) Has(vehicleID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.m[vehicleID]
	return ok
}

// Remove deletes the trip entry. Idempotent.
func (t *Trips) Remove(vehicleID string) {
	t.mu.Lock()
	delete(t.m, vehicleID)
	t.mu.Unlock()
}

func (t *Trips) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.m)
}
