package pipeline

import (
	"context"
	"time"

	"fleet-telemetry/engine/internal/maintenance"
	"fleet-telemetry/engine/internal/metrics"
	"fleet-telemetry/engine/internal/store"
	"fleet-telemetry/engine/pkg/logger"
)

// PredictorWorker refreshes every vehicle's maintenance due date on a
// fixed interval.
type PredictorWorker struct {
	vehicles store.VehicleStore
	svc      *maintenance.Service
	log      logger.Logger
	interval time.Duration
}

func NewPredictorWorker(
	vehicles store.VehicleStore,
	svc *maintenance.Service,
	log logger.Logger,
	interval time.Duration,
) *PredictorWorker {
	return &PredictorWorker{
		vehicles: vehicles,
		svc:      svc,
		log:      log,
		interval: interval,
	}
}

func (w *PredictorWorker) Run(ctx context.Context) {
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

func (w *PredictorWorker) RunOnce(ctx context.Context) {
	vehicles, err := w.vehicles.List(ctx)
	if err != nil {
		w.log.Error("predictor pass: vehicle list failed", "error", err)
		metrics.StoreFailures.Add(1)
		return
	}

	for _, v := range vehicles {
		if err := w.svc.PredictVehicle(ctx, v); err != nil {
			w.log.Warn("maintenance prediction failed", "vehicle_id", v.ID, "error", err)
			metrics.StoreFailures.Add(1)
			continue
		}
		metrics.PredictionsRun.Add(1)
	}
}
