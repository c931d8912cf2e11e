package fleet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-telemetry/engine/internal/domain"
	"fleet-telemetry/engine/internal/store"
)

func newTestAnalytics(t *testing.T, now time.Time) (*Analytics, *store.MemoryVehicleStore, *store.MemoryHistoryStore) {
	t.Helper()
	vehicles := store.NewMemoryVehicleStore()
	history := store.NewMemoryHistoryStore()
	a := NewAnalytics(vehicles, history)
	a.SetClock(func() time.Time { return now })
	return a, vehicles, history
}

func saveVehicle(t *testing.T, vehicles *store.MemoryVehicleStore, id string, status domain.VehicleStatus, odo, engine float64) {
	t.Helper()
	require.NoError(t, vehicles.Save(context.Background(), &domain.Vehicle{
		ID: id, Status: status, OdometerKm: odo, EngineHealth: engine,
	}))
}

func TestUtilization(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	a, vehicles, _ := newTestAnalytics(t, now)

	saveVehicle(t, vehicles, "veh-001", domain.StatusActive, 100, 90)
	saveVehicle(t, vehicles, "veh-002", domain.StatusEnroute, 200, 80)
	saveVehicle(t, vehicles, "veh-003", domain.StatusMaintenance, 300, 40)
	saveVehicle(t, vehicles, "veh-004", domain.StatusInactive, 0, 70)
	saveVehicle(t, vehicles, "veh-005", domain.StatusPending, 0, 100)

	u, err := a.Utilization(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, u.TotalVehicles) // pending excluded
	assert.Equal(t, 2, u.ActiveVehicles)
	assert.Equal(t, 1, u.MaintenanceVehicles)
	assert.Equal(t, 1, u.InactiveVehicles)
	assert.Equal(t, 50.0, u.UtilizationRate)
	assert.Equal(t, 120.0, u.AvgOdometerKm)
	assert.Equal(t, 76.0, u.AvgFleetHealth)
}

func TestUtilization_EmptyFleet(t *testing.T) {
	a, _, _ := newTestAnalytics(t, time.Now())

	u, err := a.Utilization(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, u.TotalVehicles)
	assert.Equal(t, 0.0, u.UtilizationRate)
	assert.Equal(t, 100.0, u.AvgFleetHealth)
}

func TestHealthTrends_BucketsByDay(t *testing.T) {
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
	a, _, history := newTestAnalytics(t, now)

	yesterday := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, history.Append(context.Background(), []*domain.TelemetryRecord{
		{VehicleID: "veh-001", EngineHealth: 90, BatteryHealth: 80, RecordedAt: yesterday},
		{VehicleID: "veh-002", EngineHealth: 70, BatteryHealth: 60, RecordedAt: yesterday.Add(time.Hour)},
		{VehicleID: "veh-001", EngineHealth: 88, BatteryHealth: 78, RecordedAt: now.Add(-time.Hour)},
	}))

	points, err := a.HealthTrends(context.Background(), 7)
	require.NoError(t, err)

	// Five empty days are omitted; only Aug 2 and Aug 3 have rows.
	require.Len(t, points, 2)
	assert.Equal(t, "2026-08-02", points[0].Day)
	assert.Equal(t, 80.0, points[0].EngineHealth)
	assert.Equal(t, 70.0, points[0].BatteryHealth)
	assert.Equal(t, "2026-08-03", points[1].Day)
	assert.Equal(t, 88.0, points[1].EngineHealth)
}

func TestHealthTrends_FallsBackToCurrentAverages(t *testing.T) {
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
	a, vehicles, _ := newTestAnalytics(t, now)

	saveVehicle(t, vehicles, "veh-001", domain.StatusActive, 0, 90)
	saveVehicle(t, vehicles, "veh-002", domain.StatusActive, 0, 70)

	points, err := a.HealthTrends(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, points, 3)
	for _, p := range points {
		assert.Equal(t, 80.0, p.EngineHealth)
	}
	assert.Equal(t, "2026-08-01", points[0].Day)
	assert.Equal(t, "2026-08-03", points[2].Day)
}

func TestVehicleHistory_WindowAndOrder(t *testing.T) {
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
	a, _, history := newTestAnalytics(t, now)

	require.NoError(t, history.Append(context.Background(), []*domain.TelemetryRecord{
		{VehicleID: "veh-001", RecordedAt: now.Add(-30 * time.Hour)}, // outside window
		{VehicleID: "veh-001", RecordedAt: now.Add(-2 * time.Hour)},
		{VehicleID: "veh-001", RecordedAt: now.Add(-10 * time.Hour)},
		{VehicleID: "veh-002", RecordedAt: now.Add(-time.Hour)},
	}))

	rows, err := a.VehicleHistory(context.Background(), "veh-001", 24)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.True(t, rows[0].RecordedAt.Before(rows[1].RecordedAt))
}
