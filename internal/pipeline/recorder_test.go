package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-telemetry/engine/internal/domain"
	"fleet-telemetry/engine/internal/store"
	"fleet-telemetry/engine/pkg/logger"
)

func TestRecorder_SnapshotsNonPendingVehicles(t *testing.T) {
	vehicles := store.NewMemoryVehicleStore()
	history := store.NewMemoryHistoryStore()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	w := NewRecorderWorker(vehicles, history, logger.Nop(), time.Minute)
	w.SetClock(func() time.Time { return now })

	active := healthyVehicle("veh-001")
	active.OdometerKm = 120.5
	pending := healthyVehicle("veh-002")
	pending.Status = domain.StatusPending
	require.NoError(t, vehicles.Save(context.Background(), active))
	require.NoError(t, vehicles.Save(context.Background(), pending))

	w.RunOnce(context.Background())

	rows, _ := history.ListSince(context.Background(), now.Add(-time.Hour))
	require.Len(t, rows, 1)
	assert.Equal(t, "veh-001", rows[0].VehicleID)
	assert.Equal(t, 120.5, rows[0].OdometerKm)
	assert.Equal(t, now, rows[0].RecordedAt)
}

func TestRecorder_AppendOnly(t *testing.T) {
	vehicles := store.NewMemoryVehicleStore()
	history := store.NewMemoryHistoryStore()
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	w := NewRecorderWorker(vehicles, history, logger.Nop(), time.Minute)
	w.SetClock(func() time.Time { return clock })

	require.NoError(t, vehicles.Save(context.Background(), healthyVehicle("veh-001")))

	w.RunOnce(context.Background())
	clock = clock.Add(5 * time.Minute)
	w.RunOnce(context.Background())

	rows, _ := history.ListByVehicleSince(context.Background(), "veh-001", clock.Add(-time.Hour))
	assert.Len(t, rows, 2)
}

func TestRecorder_EmptyFleetWritesNothing(t *testing.T) {
	vehicles := store.NewMemoryVehicleStore()
	history := store.NewMemoryHistoryStore()

	w := NewRecorderWorker(vehicles, history, logger.Nop(), time.Minute)
	w.RunOnce(context.Background())

	rows, _ := history.ListSince(context.Background(), time.Time{})
	assert.Empty(t, rows)
}
