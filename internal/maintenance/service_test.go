package maintenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-telemetry/engine/internal/domain"
	"fleet-telemetry/engine/internal/store"
	"fleet-telemetry/engine/pkg/logger"
)

func newTestService(t *testing.T, now time.Time) (*Service, *store.MemoryVehicleStore) {
	t.Helper()
	vehicles := store.NewMemoryVehicleStore()
	svc := NewService(vehicles, logger.Nop())
	svc.SetClock(func() time.Time { return now })
	return svc, vehicles
}

func TestPredictVehicle_WritesDueDate(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc, vehicles := newTestService(t, now)

	v := &domain.Vehicle{ID: "veh-001", Status: domain.StatusActive, EngineHealth: 45, BatteryHealth: 100}
	require.NoError(t, vehicles.Save(context.Background(), v))

	require.NoError(t, svc.PredictVehicle(context.Background(), v))

	saved, _ := vehicles.Get(context.Background(), "veh-001")
	assert.Equal(t, now.AddDate(0, 0, 10), saved.NextMaintenanceDate)
}

func TestSummary(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc, vehicles := newTestService(t, now)

	due := now.AddDate(0, 0, 45)
	require.NoError(t, vehicles.Save(context.Background(), &domain.Vehicle{
		ID:                  "veh-001",
		EngineHealth:        80,
		TireWear:            15,
		BatteryHealth:       90,
		OdometerKm:          1234.5,
		NextMaintenanceDate: due,
	}))

	summary, err := svc.Summary(context.Background(), "veh-001")
	require.NoError(t, err)
	assert.Equal(t, 80.0, summary.Engine)
	assert.Equal(t, 15.0, summary.Tires)
	assert.Equal(t, 90.0, summary.Battery)
	assert.Equal(t, 1234.5, summary.OdometerKm)
	assert.Equal(t, due, summary.NextMaintenance)
}

func TestSummary_UnknownVehicle(t *testing.T) {
	svc, _ := newTestService(t, time.Now())

	_, err := svc.Summary(context.Background(), "ghost")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestResetHealth(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc, vehicles := newTestService(t, now)

	require.NoError(t, vehicles.Save(context.Background(), &domain.Vehicle{
		ID:            "veh-001",
		Status:        domain.StatusMaintenance,
		EngineHealth:  12,
		TireWear:      88,
		BatteryHealth: 20,
		TirePressure:  22,
	}))

	require.NoError(t, svc.ResetHealth(context.Background(), "veh-001"))

	v, _ := vehicles.Get(context.Background(), "veh-001")
	assert.Equal(t, 100.0, v.EngineHealth)
	assert.Equal(t, 0.0, v.TireWear)
	assert.Equal(t, 100.0, v.BatteryHealth)
	assert.Equal(t, 32.0, v.TirePressure)
	assert.Equal(t, domain.StatusActive, v.Status)
	assert.Equal(t, now.AddDate(0, 0, 90), v.NextMaintenanceDate)
}

func TestScheduleMaintenance(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc, vehicles := newTestService(t, now)

	require.NoError(t, vehicles.Save(context.Background(), &domain.Vehicle{
		ID:     "veh-001",
		Status: domain.StatusActive,
	}))

	require.NoError(t, svc.ScheduleMaintenance(context.Background(), "veh-001"))

	v, _ := vehicles.Get(context.Background(), "veh-001")
	assert.Equal(t, domain.StatusMaintenance, v.Status)
}
