package sim

import (
	"context"
	"fmt"
	"time"

	"fleet-telemetry/engine/internal/domain"
	"fleet-telemetry/engine/internal/geo"
	"fleet-telemetry/engine/internal/metrics"
	"fleet-telemetry/engine/internal/store"
	"fleet-telemetry/engine/pkg/logger"
)

// LiveMirror receives a copy of the vehicle state after every mutation.
// Satisfied by store.RedisStore; nil disables mirroring.
type LiveMirror interface {
	UpdateLiveState(ctx context.Context, v *domain.Vehicle) error
}

// Engine drives trip playback against the vehicle store. Advance is
// triggered by live-position reads, so it runs concurrently with the
// background workers; the trip table is the only shared mutable state.
type Engine struct {
	trips    *Trips
	vehicles store.VehicleStore
	wear     *WearModel
	live     LiveMirror
	log      logger.Logger

	defaultTripDuration time.Duration

	now func() time.Time
}

func NewEngine(
	trips *Trips,
	vehicles store.VehicleStore,
	wear *WearModel,
	live LiveMirror,
	log logger.Logger,
	defaultTripDuration time.Duration,
) *Engine {
	return &Engine{
		trips:               trips,
		vehicles:            vehicles,
		wear:                wear,
		live:                live,
		log:                 log,
		defaultTripDuration: defaultTripDuration,
		now:                 time.Now,
	}
}

// SetClock overrides the engine's time source. Tests only.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

func (e *Engine) Trips() *Trips {
	return e.trips
}

// StartTrip registers a playback path for the vehicle, replacing any trip
// already in flight for it. Called by the booking collaborator when a trip
// is confirmed.
func (e *Engine) StartTrip(vehicleID string, path []geo.Point, scheduledStart time.Time, duration time.Duration) {
	if duration <= 0 {
		duration = e.defaultTripDuration
	}
	if scheduledStart.IsZero() {
		scheduledStart = e.now()
	}
	e.trips.Start(vehicleID, path, scheduledStart, duration)
}

func (e *Engine) CancelTrip(vehicleID string) {
	e.trips.Remove(vehicleID)
}

// Advance moves the vehicle to the waypoint dictated by the wall clock and
// applies one moving-wear tick. A no-op when the vehicle has no trip, the
// trip has not started, or the trip just expired (the expired entry is
// removed; the vehicle stays at its last written position). Position is a
// pure function of time; odometer and wear are per-call side effects.
func (e *Engine) Advance(ctx context.Context, vehicleID string) error {
	trip, ok := e.trips.Get(vehicleID)
	if !ok {
		return nil
	}

	now := e.now()
	if !trip.Started(now) {
		return nil
	}
	if trip.Finished(now) {
		e.trips.Remove(vehicleID)
		return nil
	}

	target, _, ok := PositionAt(trip, now)
	if !ok {
		return nil
	}

	v, err := e.vehicles.Get(ctx, vehicleID)
	if err != nil {
		return fmt.Errorf("advance %s: %w", vehicleID, err)
	}

	// A zero position means the vehicle was never placed; skip the
	// odometer delta so the first fix doesn't record a phantom journey.
	if v.Latitude != 0 || v.Longitude != 0 {
		from := geo.Point{Lat: v.Latitude, Lng: v.Longitude}
		v.OdometerKm += geo.HaversineKm(from, target)
	}

	v.Latitude = target.Lat
	v.Longitude = target.Lng

	e.wear.MovingTick(v)
	v.LastUpdate = now

	if err := e.vehicles.Save(ctx, v); err != nil {
		return fmt.Errorf("advance %s: %w", vehicleID, err)
	}
	metrics.PositionAdvances.Add(1)

	if e.live != nil {
		if err := e.live.UpdateLiveState(ctx, v); err != nil {
			e.log.Warn("live state mirror failed", "vehicle_id", vehicleID, "error", err)
		}
	}
	return nil
}
