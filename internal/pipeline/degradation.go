package pipeline

import (
	"context"
	"time"

	"fleet-telemetry/engine/internal/domain"
	"fleet-telemetry/engine/internal/metrics"
	"fleet-telemetry/engine/internal/sim"
	"fleet-telemetry/engine/internal/store"
	"fleet-telemetry/engine/pkg/logger"
)

// DegradationWorker applies the idle wear tick to every eligible vehicle
// on a fixed interval. Vehicles currently on a trip are skipped here; their
// faster moving wear is applied by the advance path.
type DegradationWorker struct {
	vehicles store.VehicleStore
	trips    *sim.Trips
	wear     *sim.WearModel
	live     sim.LiveMirror
	log      logger.Logger
	interval time.Duration
	now      func() time.Time
}

func NewDegradationWorker(
	vehicles store.VehicleStore,
	trips *sim.Trips,
	wear *sim.WearModel,
	live sim.LiveMirror,
	log logger.Logger,
	interval time.Duration,
) *DegradationWorker {
	return &DegradationWorker{
		vehicles: vehicles,
		trips:    trips,
		wear:     wear,
		live:     live,
		log:      log,
		interval: interval,
		now:      time.Now,
	}
}

// SetClock overrides the worker's time source. Tests only.
func (w *DegradationWorker) SetClock(now func() time.Time) {
	w.now = now
}

func (w *DegradationWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.RunOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce performs one degradation pass over a snapshot of the fleet. A
// failure on one vehicle is logged and never aborts the rest of the pass.
func (w *DegradationWorker) RunOnce(ctx context.Context) {
	vehicles, err := w.vehicles.List(ctx)
	if err != nil {
		w.log.Error("degradation pass: vehicle list failed", "error", err)
		metrics.StoreFailures.Add(1)
		return
	}

	now := w.now()
	for _, v := range vehicles {
		if domain.DegradationSkipStatuses[v.Status] {
			continue
		}
		if w.trips.Has(v.ID) {
			continue
		}

		w.wear.IdleTick(v)
		v.LastUpdate = now

		if err := w.vehicles.Save(ctx, v); err != nil {
			w.log.Warn("degradation tick: save failed", "vehicle_id", v.ID, "error", err)
			metrics.StoreFailures.Add(1)
			continue
		}
		metrics.IdleTicks.Add(1)

		if w.live != nil {
			if err := w.live.UpdateLiveState(ctx, v); err != nil {
				w.log.Warn("degradation tick: live mirror failed", "vehicle_id", v.ID, "error", err)
			}
		}
	}
	metrics.VehiclesScanned.Add(int64(len(vehicles)))
}
