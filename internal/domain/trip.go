package domain

import (
	"time"

	"fleet-telemetry/engine/internal/geo"
)

// ActiveTrip is the ephemeral record of an in-progress simulated journey.
// The path is immutable once created; progress is a pure function of the
// wall clock, never of how often the trip is observed.
type ActiveTrip struct {
	VehicleID      string
	Path           []geo.Point
	ScheduledStart time.Time
	Duration       time.Duration
}

// Elapsed returns time since the scheduled start, clamped at zero.
func (t *ActiveTrip) Elapsed(now time.Time) time.Duration {
	d := now.Sub(t.ScheduledStart)
	if d < 0 {
		return 0
	}
	return d
}

// Started reports whether the scheduled start has passed.
func (t *ActiveTrip) Started(now time.Time) bool {
	return !now.Before(t.ScheduledStart)
}

// Finished reports whether elapsed time has consumed the whole duration.
func (t *ActiveTrip) Finished(now time.Time) bool {
	return t.Elapsed(now) >= t.Duration
}

// Progress returns elapsed/duration in [0,1).
func (t *ActiveTrip) Progress(now time.Time) float64 {
	if t.Duration <= 0 {
		return 0
	}
	return float64(t.Elapsed(now)) / float64(t.Duration)
}
