package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fleet-telemetry/engine/internal/domain"
	"fleet-telemetry/engine/internal/metrics"
	"fleet-telemetry/engine/internal/store"
	"fleet-telemetry/engine/pkg/logger"
)

// AlertPublisher fans freshly created alerts out to live subscribers.
// Satisfied by store.RedisStore; nil disables fan-out.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, a *domain.Alert) error
}

// AlertEvaluator scans current readings against the threshold rules on a
// fixed interval. Creation is de-duplicated: a vehicle never carries two
// ACTIVE alerts of the same type. The evaluator only ever creates alerts;
// acknowledging and resolving are operator actions, so a condition that
// self-heals leaves its ACTIVE alert standing.
type AlertEvaluator struct {
	vehicles  store.VehicleStore
	alerts    store.AlertStore
	publisher AlertPublisher
	log       logger.Logger
	interval  time.Duration
	rules     []domain.ThresholdRule
	now       func() time.Time
}

func NewAlertEvaluator(
	vehicles store.VehicleStore,
	alerts store.AlertStore,
	publisher AlertPublisher,
	log logger.Logger,
	interval time.Duration,
) *AlertEvaluator {
	return &AlertEvaluator{
		vehicles:  vehicles,
		alerts:    alerts,
		publisher: publisher,
		log:       log,
		interval:  interval,
		rules:     domain.ThresholdRules,
		now:       time.Now,
	}
}

// SetClock overrides the evaluator's time source. Tests only.
func (e *AlertEvaluator) SetClock(now func() time.Time) {
	e.now = now
}

func (e *AlertEvaluator) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.RunOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (e *AlertEvaluator) RunOnce(ctx context.Context) {
	vehicles, err := e.vehicles.List(ctx)
	if err != nil {
		e.log.Error("alert pass: vehicle list failed", "error", err)
		metrics.StoreFailures.Add(1)
		return
	}

	for _, v := range vehicles {
		if v.Status == domain.StatusPending {
			continue
		}
		e.evaluate(ctx, v)
	}
}

func (e *AlertEvaluator) evaluate(ctx context.Context, v *domain.Vehicle) {
	active, err := e.alerts.ListByVehicleAndStatus(ctx, v.ID, domain.AlertActive)
	if err != nil {
		e.log.Warn("alert dedup query failed", "vehicle_id", v.ID, "error", err)
		metrics.StoreFailures.Add(1)
		return
	}

	activeTypes := make(map[domain.AlertType]bool, len(active))
	for _, a := range active {
		activeTypes[a.Type] = true
	}

	for _, rule := range e.rules {
		value, triggered := rule.Triggered(v)
		if !triggered {
			continue
		}
		if activeTypes[rule.Type] {
			metrics.AlertsSuppressed.Add(1)
			continue
		}

		alert := &domain.Alert{
			ID:           uuid.NewString(),
			VehicleID:    v.ID,
			VehicleModel: v.Model,
			NumberPlate:  v.NumberPlate,
			DriverName:   v.DriverName,
			Type:         rule.Type,
			Severity:     rule.Severity,
			Message:      rule.Message(value),
			Value:        value,
			Status:       domain.AlertActive,
			CreatedAt:    e.now(),
		}

		if err := e.alerts.Insert(ctx, alert); err != nil {
			e.log.Warn("alert insert failed", "vehicle_id", v.ID, "alert_type", rule.Type, "error", err)
			metrics.StoreFailures.Add(1)
			continue
		}
		activeTypes[rule.Type] = true
		metrics.AlertsCreated.Add(1)
		e.log.Info("alert created",
			"vehicle_id", v.ID,
			"number_plate", v.NumberPlate,
			"alert_type", rule.Type,
			"severity", rule.Severity,
			"value", value,
		)

		if e.publisher != nil {
			if err := e.publisher.PublishAlert(ctx, alert); err != nil {
				e.log.Warn("alert publish failed", "alert_id", alert.ID, "error", err)
			}
		}
	}
}
