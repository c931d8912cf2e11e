package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"fleet-telemetry/engine/internal/domain"
)

// In-process implementations of the store interfaces. They back tests and
// local development without Postgres. Values are copied on the way in and
// out so callers never alias stored rows.

type MemoryVehicleStore struct {
	mu       sync.RWMutex
	vehicles map[string]domain.Vehicle
}

func NewMemoryVehicleStore() *MemoryVehicleStore {
	return &MemoryVehicleStore{vehicles: make(map[string]domain.Vehicle)}
}

func (s *MemoryVehicleStore) List(ctx context.Context) ([]*domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		c := v
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryVehicleStore) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := v
	return &c, nil
}

func (s *MemoryVehicleStore) Save(ctx context.Context, v *domain.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vehicles[v.ID] = *v
	return nil
}

type MemoryAlertStore struct {
	mu     sync.RWMutex
	alerts map[string]domain.Alert
}

func NewMemoryAlertStore() *MemoryAlertStore {
	return &MemoryAlertStore{alerts: make(map[string]domain.Alert)}
}

func (s *MemoryAlertStore) Insert(ctx context.Context, a *domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alerts[a.ID] = *a
	return nil
}

func (s *MemoryAlertStore) Get(ctx context.Context, id string) (*domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.alerts[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := a
	return &c, nil
}

func (s *MemoryAlertStore) Update(ctx context.Context, a *domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.alerts[a.ID]; !ok {
		return ErrNotFound
	}
	s.alerts[a.ID] = *a
	return nil
}

func (s *MemoryAlertStore) ListByVehicleAndStatus(ctx context.Context, vehicleID string, status domain.AlertStatus) ([]*domain.Alert, error) {
	return s.filter(func(a *domain.Alert) bool {
		return a.VehicleID == vehicleID && a.Status == status
	}), nil
}

func (s *MemoryAlertStore) ListByStatus(ctx context.Context, status domain.AlertStatus) ([]*domain.Alert, error) {
	return s.filter(func(a *domain.Alert) bool {
		return a.Status == status
	}), nil
}

func (s *MemoryAlertStore) ListBySeverityAndStatus(ctx context.Context, severity domain.AlertSeverity, status domain.AlertStatus) ([]*domain.Alert, error) {
	return s.filter(func(a *domain.Alert) bool {
		return a.Severity == severity && a.Status == status
	}), nil
}

func (s *MemoryAlertStore) filter(keep func(*domain.Alert) bool) []*domain.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Alert
	for _, a := range s.alerts {
		c := a
		if keep(&c) {
			out = append(out, &c)
		}
	}
	// Newest first, matching the Postgres ORDER BY created_at DESC.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

type MemoryHistoryStore struct {
	mu      sync.RWMutex
	history []domain.TelemetryRecord
}

func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{}
}

func (s *MemoryHistoryStore) Append(ctx context.Context, records []*domain.TelemetryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.history = append(s.history, *r)
	}
	return nil
}

func (s *MemoryHistoryStore) ListByVehicleSince(ctx context.Context, vehicleID string, since time.Time) ([]*domain.TelemetryRecord, error) {
	return s.filter(func(r *domain.TelemetryRecord) bool {
		return r.VehicleID == vehicleID && r.RecordedAt.After(since)
	}), nil
}

func (s *MemoryHistoryStore) ListSince(ctx context.Context, since time.Time) ([]*domain.TelemetryRecord, error) {
	return s.filter(func(r *domain.TelemetryRecord) bool {
		return r.RecordedAt.After(since)
	}), nil
}

func (s *MemoryHistoryStore) filter(keep func(*domain.TelemetryRecord) bool) []*domain.TelemetryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TelemetryRecord
	for i := range s.history {
		c := s.history[i]
		if keep(&c) {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out
}
