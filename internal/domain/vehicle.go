package domain

import "time"

type VehicleStatus string

const (
	StatusPending     VehicleStatus = "Pending"
	StatusActive      VehicleStatus = "Active"
	StatusEnroute     VehicleStatus = "Enroute"
	StatusMaintenance VehicleStatus = "Maintenance"
	StatusInactive    VehicleStatus = "Inactive"
	StatusOffline     VehicleStatus = "Offline"
	StatusRejected    VehicleStatus = "Rejected"
)

// Default readings applied the first time the engine touches a vehicle
// that was registered without telemetry.
const (
	DefaultEngineHealth  = 100.0
	DefaultBatteryHealth = 100.0
	DefaultTireWear      = 0.0
	DefaultTirePressure  = 32.0
	DefaultFuelPercent   = 100.0
)

type Vehicle struct {
	ID          string
	Name        string
	Model       string
	NumberPlate string
	DriverName  string

	Status    VehicleStatus
	Latitude  float64
	Longitude float64

	SpeedKmh       float64
	BatteryPercent float64
	FuelPercent    float64
	OdometerKm     float64
	TirePressure   float64

	// Health metrics, 0-100. TireWear grows toward 100 (higher = worse).
	EngineHealth  float64
	TireWear      float64
	BatteryHealth float64

	// Set once the degradation model has seeded default readings.
	HealthInitialized bool

	NextMaintenanceDate time.Time
	LastUpdate          time.Time
}

// EnsureHealthDefaults seeds baseline readings for a vehicle that has never
// been ticked. Safe to call on every tick.
func (v *Vehicle) EnsureHealthDefaults() {
	if v.HealthInitialized {
		return
	}
	v.EngineHealth = DefaultEngineHealth
	v.BatteryHealth = DefaultBatteryHealth
	v.TireWear = DefaultTireWear
	v.TirePressure = DefaultTirePressure
	v.FuelPercent = DefaultFuelPercent
	if v.BatteryPercent == 0 {
		v.BatteryPercent = 100
	}
	v.HealthInitialized = true
}

// OnTrip statuses count toward fleet utilization.
func (v *Vehicle) IsUtilized() bool {
	return v.Status == StatusActive || v.Status == StatusEnroute
}

// DegradationSkipStatuses are excluded from the idle wear tick.
var DegradationSkipStatuses = map[VehicleStatus]bool{
	StatusPending:     true,
	StatusMaintenance: true,
	StatusInactive:    true,
}
