package pipeline

import (
	"context"
	"time"

	"fleet-telemetry/engine/internal/domain"
	"fleet-telemetry/engine/internal/metrics"
	"fleet-telemetry/engine/internal/store"
	"fleet-telemetry/engine/pkg/logger"
)

// RecorderWorker snapshots every non-pending vehicle into the append-only
// telemetry history on a fixed interval. No de-duplication and no upsert;
// a missed tick is simply superseded by the next one.
type RecorderWorker struct {
	vehicles store.VehicleStore
	history  store.HistoryStore
	log      logger.Logger
	interval time.Duration
	now      func() time.Time
}

func NewRecorderWorker(
	vehicles store.VehicleStore,
	history store.HistoryStore,
	log logger.Logger,
	interval time.Duration,
) *RecorderWorker {
	return &RecorderWorker{
		vehicles: vehicles,
		history:  history,
		log:      log,
		interval: interval,
		now:      time.Now,
	}
}

// SetClock overrides the worker's time source. Tests only.
func (w *RecorderWorker) SetClock(now func() time.Time) {
	w.now = now
}

func (w *RecorderWorker) Run(ctx context.Context) {
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

func (w *RecorderWorker) RunOnce(ctx context.Context) {
	vehicles, err := w.vehicles.List(ctx)
	if err != nil {
		w.log.Error("recorder pass: vehicle list failed", "error", err)
		metrics.StoreFailures.Add(1)
		return
	}

	now := w.now()
	records := make([]*domain.TelemetryRecord, 0, len(vehicles))
	for _, v := range vehicles {
		if v.Status == domain.StatusPending {
			continue
		}
		records = append(records, domain.Snapshot(v, now))
	}
	if len(records) == 0 {
		return
	}

	if err := w.history.Append(ctx, records); err != nil {
		w.log.Error("recorder pass: history append failed", "rows", len(records), "error", err)
		metrics.StoreFailures.Add(1)
		return
	}
	metrics.HistoryRowsWritten.Add(int64(len(records)))
	w.log.Debug("telemetry history recorded", "rows", len(records))
}
