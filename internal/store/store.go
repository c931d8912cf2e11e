package store

import (
	"context"
	"errors"
	"time"

	"fleet-telemetry/engine/internal/domain"
)

var (
	// ErrNotFound is returned for unknown vehicle or alert ids.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when a lifecycle transition is rejected,
	// e.g. resolving an already resolved alert.
	ErrInvalidState = errors.New("invalid state transition")
)

// VehicleStore is the persistence collaborator for the fleet. Writes are
// serialized per row by the backing store; the engine holds no row locks.
type VehicleStore interface {
	List(ctx context.Context) ([]*domain.Vehicle, error)
	Get(ctx context.Context, id string) (*domain.Vehicle, error)
	Save(ctx context.Context, v *domain.Vehicle) error
}

type AlertStore interface {
	Insert(ctx context.Context, a *domain.Alert) error
	Get(ctx context.Context, id string) (*domain.Alert, error)
	Update(ctx context.Context, a *domain.Alert) error

	// ListByVehicleAndStatus backs alert de-duplication: the evaluator
	// checks it for an ACTIVE alert of the same type before inserting.
	ListByVehicleAndStatus(ctx context.Context, vehicleID string, status domain.AlertStatus) ([]*domain.Alert, error)
	ListByStatus(ctx context.Context, status domain.AlertStatus) ([]*domain.Alert, error)
	ListBySeverityAndStatus(ctx context.Context, severity domain.AlertSeverity, status domain.AlertStatus) ([]*domain.Alert, error)
}

// HistoryStore is append-only; rows are never updated or deleted.
type HistoryStore interface {
	Append(ctx context.Context, records []*domain.TelemetryRecord) error
	ListByVehicleSince(ctx context.Context, vehicleID string, since time.Time) ([]*domain.TelemetryRecord, error)
	ListSince(ctx context.Context, since time.Time) ([]*domain.TelemetryRecord, error)
}
