package sim

import (
	"time"

	"fleet-telemetry/engine/internal/domain"
	"fleet-telemetry/engine/internal/geo"
)

// PositionAt maps a trip and a wall-clock instant to the waypoint the
// vehicle should occupy. Pure: the result depends only on the trip and
// now, never on how many times it has been called. ok is false when the
// trip has not started, has already finished, or has an empty path.
func PositionAt(trip *domain.ActiveTrip, now time.Time) (geo.Point, int, bool) {
	if len(trip.Path) == 0 {
		return geo.Point{}, 0, false
	}
	if !trip.Started(now) || trip.Finished(now) {
		return geo.Point{}, 0, false
	}

	idx := int(trip.Progress(now) * float64(len(trip.Path)-1))
	if idx < 0 {
		idx = 0
	}
	if idx > len(trip.Path)-1 {
		idx = len(trip.Path) - 1
	}
	return trip.Path[idx], idx, true
}
