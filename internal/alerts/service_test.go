package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-telemetry/engine/internal/domain"
	"fleet-telemetry/engine/internal/store"
)

func newTestService(t *testing.T, now time.Time) (*Service, *store.MemoryAlertStore) {
	t.Helper()
	alerts := store.NewMemoryAlertStore()
	svc := NewService(alerts)
	svc.SetClock(func() time.Time { return now })
	return svc, alerts
}

func seedAlert(t *testing.T, alerts *store.MemoryAlertStore, id string, status domain.AlertStatus) {
	t.Helper()
	require.NoError(t, alerts.Insert(context.Background(), &domain.Alert{
		ID:        id,
		VehicleID: "veh-001",
		Type:      domain.AlertBatteryLow,
		Severity:  domain.SeverityWarning,
		Status:    status,
		CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}))
}

func TestAcknowledge(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc, alerts := newTestService(t, now)
	seedAlert(t, alerts, "a1", domain.AlertActive)

	require.NoError(t, svc.Acknowledge(context.Background(), "a1"))

	a, _ := alerts.Get(context.Background(), "a1")
	assert.Equal(t, domain.AlertAcknowledged, a.Status)
	assert.Equal(t, now, a.AcknowledgedAt)
}

func TestAcknowledge_OnlyFromActive(t *testing.T) {
	svc, alerts := newTestService(t, time.Now())
	seedAlert(t, alerts, "a1", domain.AlertAcknowledged)
	seedAlert(t, alerts, "a2", domain.AlertResolved)

	assert.True(t, errors.Is(svc.Acknowledge(context.Background(), "a1"), store.ErrInvalidState))
	assert.True(t, errors.Is(svc.Acknowledge(context.Background(), "a2"), store.ErrInvalidState))
}

func TestResolve_FromActiveAndAcknowledged(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc, alerts := newTestService(t, now)
	seedAlert(t, alerts, "a1", domain.AlertActive)
	seedAlert(t, alerts, "a2", domain.AlertAcknowledged)

	require.NoError(t, svc.Resolve(context.Background(), "a1"))
	require.NoError(t, svc.Resolve(context.Background(), "a2"))

	for _, id := range []string{"a1", "a2"} {
		a, _ := alerts.Get(context.Background(), id)
		assert.Equal(t, domain.AlertResolved, a.Status)
		assert.Equal(t, now, a.ResolvedAt)
	}
}

func TestResolve_AlreadyResolved(t *testing.T) {
	svc, alerts := newTestService(t, time.Now())
	seedAlert(t, alerts, "a1", domain.AlertResolved)

	assert.True(t, errors.Is(svc.Resolve(context.Background(), "a1"), store.ErrInvalidState))
}

func TestLifecycle_UnknownAlert(t *testing.T) {
	svc, _ := newTestService(t, time.Now())

	assert.True(t, errors.Is(svc.Acknowledge(context.Background(), "ghost"), store.ErrNotFound))
	assert.True(t, errors.Is(svc.Resolve(context.Background(), "ghost"), store.ErrNotFound))
}

func TestListBySeverityAndStatus(t *testing.T) {
	svc, alerts := newTestService(t, time.Now())
	require.NoError(t, alerts.Insert(context.Background(), &domain.Alert{
		ID: "a1", VehicleID: "veh-001", Severity: domain.SeverityCritical, Status: domain.AlertActive,
	}))
	require.NoError(t, alerts.Insert(context.Background(), &domain.Alert{
		ID: "a2", VehicleID: "veh-001", Severity: domain.SeverityWarning, Status: domain.AlertActive,
	}))

	out, err := svc.ListBySeverityAndStatus(context.Background(), domain.SeverityCritical, domain.AlertActive)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a1", out[0].ID)
}
