package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"fleet-telemetry/engine/internal/domain"
)

func freshVehicle() *domain.Vehicle {
	v := &domain.Vehicle{ID: "veh-001", Status: domain.StatusActive}
	v.EnsureHealthDefaults()
	return v
}

func TestEnsureHealthDefaults(t *testing.T) {
	v := &domain.Vehicle{ID: "veh-001"}
	v.EnsureHealthDefaults()

	assert.Equal(t, 100.0, v.EngineHealth)
	assert.Equal(t, 100.0, v.BatteryHealth)
	assert.Equal(t, 0.0, v.TireWear)
	assert.Equal(t, 32.0, v.TirePressure)
	assert.Equal(t, 100.0, v.FuelPercent)
	assert.True(t, v.HealthInitialized)

	// Second call must not overwrite live readings.
	v.EngineHealth = 55
	v.EnsureHealthDefaults()
	assert.Equal(t, 55.0, v.EngineHealth)
}

func TestMovingTick_RangesAndDirections(t *testing.T) {
	w := NewWearModel(rand.NewSource(1))
	v := freshVehicle()

	w.MovingTick(v)

	assert.InDelta(t, 100-0.03, v.EngineHealth, 0.02)   // -U(0.01,0.05)
	assert.InDelta(t, 100-0.035, v.BatteryHealth, 0.015) // -U(0.02,0.05)
	assert.InDelta(t, 0.02, v.TireWear, 0.01)            // +U(0.01,0.03)
	assert.InDelta(t, 100-1.0, v.FuelPercent, 0.5)       // -U(0.5,1.5)
}

func TestMovingTick_ClampsAtZero(t *testing.T) {
	w := NewWearModel(rand.NewSource(1))
	v := freshVehicle()
	v.EngineHealth = 0.001
	v.BatteryHealth = 0.001
	v.FuelPercent = 0.001

	for i := 0; i < 100; i++ {
		w.MovingTick(v)
	}

	assert.GreaterOrEqual(t, v.EngineHealth, 0.0)
	assert.GreaterOrEqual(t, v.BatteryHealth, 0.0)
	assert.GreaterOrEqual(t, v.FuelPercent, 0.0)
	assert.LessOrEqual(t, v.TireWear, 100.0)
}

func TestIdleTick_BoundsHoldOverManyTicks(t *testing.T) {
	w := NewWearModel(rand.NewSource(42))
	v := freshVehicle()

	for i := 0; i < 10000; i++ {
		w.IdleTick(v)
	}

	assert.GreaterOrEqual(t, v.EngineHealth, 0.0)
	assert.LessOrEqual(t, v.EngineHealth, 100.0)
	assert.GreaterOrEqual(t, v.BatteryHealth, 0.0)
	assert.GreaterOrEqual(t, v.FuelPercent, 0.0)
	assert.GreaterOrEqual(t, v.TirePressure, 20.0) // idle decay floor
}

func TestIdleTick_TireWearNeverIncreases(t *testing.T) {
	w := NewWearModel(rand.NewSource(7))
	v := freshVehicle()
	v.TireWear = 40

	for i := 0; i < 1000; i++ {
		w.IdleTick(v)
	}
	assert.Equal(t, 40.0, v.TireWear)
}

func TestMovingWearFasterThanIdle(t *testing.T) {
	moving := freshVehicle()
	idle := freshVehicle()

	wm := NewWearModel(rand.NewSource(3))
	wi := NewWearModel(rand.NewSource(3))

	for i := 0; i < 500; i++ {
		wm.MovingTick(moving)
		wi.IdleTick(idle)
	}

	assert.Less(t, moving.BatteryHealth, idle.BatteryHealth)
	assert.Less(t, moving.EngineHealth, idle.EngineHealth)
	assert.Greater(t, moving.TireWear, idle.TireWear)
}
