// Package alerts exposes the operator-facing alert lifecycle. The state
// machine is strictly one-way: ACTIVE -> ACKNOWLEDGED -> RESOLVED, with a
// direct ACTIVE -> RESOLVED shortcut. The engine never resolves alerts on
// its own; a condition that self-heals leaves its ACTIVE alert in place
// until an operator closes it.
package alerts

import (
	"context"
	"fmt"
	"time"

	"fleet-telemetry/engine/internal/domain"
	"fleet-telemetry/engine/internal/store"
)

type Service struct {
	alerts store.AlertStore
	now    func() time.Time
}

func NewService(alerts store.AlertStore) *Service {
	return &Service{alerts: alerts, now: time.Now}
}

// SetClock overrides the service's time source. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) Acknowledge(ctx context.Context, alertID string) error {
	a, err := s.alerts.Get(ctx, alertID)
	if err != nil {
		return err
	}

	if a.Status != domain.AlertActive {
		return fmt.Errorf("acknowledge alert %s in status %s: %w", alertID, a.Status, store.ErrInvalidState)
	}

	a.Status = domain.AlertAcknowledged
	a.AcknowledgedAt = s.now()
	return s.alerts.Update(ctx, a)
}

func (s *Service) Resolve(ctx context.Context, alertID string) error {
	a, err := s.alerts.Get(ctx, alertID)
	if err != nil {
		return err
	}

	if a.Status == domain.AlertResolved {
		return fmt.Errorf("resolve alert %s already resolved: %w", alertID, store.ErrInvalidState)
	}

	a.Status = domain.AlertResolved
	a.ResolvedAt = s.now()
	return s.alerts.Update(ctx, a)
}

func (s *Service) ListByStatus(ctx context.Context, status domain.AlertStatus) ([]*domain.Alert, error) {
	return s.alerts.ListByStatus(ctx, status)
}

func (s *Service) ListBySeverityAndStatus(ctx context.Context, severity domain.AlertSeverity, status domain.AlertStatus) ([]*domain.Alert, error) {
	return s.alerts.ListBySeverityAndStatus(ctx, severity, status)
}
