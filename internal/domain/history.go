package domain

import "time"

// TelemetryRecord is one immutable point-in-time copy of a vehicle's
// telemetry, written by the recorder on every tick. Identity labels are
// denormalized so history can be displayed without re-joining vehicles.
type TelemetryRecord struct {
	VehicleID    string
	VehicleModel string
	NumberPlate  string
	DriverName   string

	SpeedKmh       float64
	BatteryPercent float64
	FuelPercent    float64
	OdometerKm     float64

	EngineHealth  float64
	TireWear      float64
	BatteryHealth float64
	TirePressure  float64

	Latitude  float64
	Longitude float64

	VehicleStatus VehicleStatus
	RecordedAt    time.Time
}

// Snapshot copies the recordable fields of a vehicle at the given instant.
func Snapshot(v *Vehicle, at time.Time) *TelemetryRecord {
	return &TelemetryRecord{
		VehicleID:      v.ID,
		VehicleModel:   v.Model,
		NumberPlate:    v.NumberPlate,
		DriverName:     v.DriverName,
		SpeedKmh:       v.SpeedKmh,
		BatteryPercent: v.BatteryPercent,
		FuelPercent:    v.FuelPercent,
		OdometerKm:     v.OdometerKm,
		EngineHealth:   v.EngineHealth,
		TireWear:       v.TireWear,
		BatteryHealth:  v.BatteryHealth,
		TirePressure:   v.TirePressure,
		Latitude:       v.Latitude,
		Longitude:      v.Longitude,
		VehicleStatus:  v.Status,
		RecordedAt:     at,
	}
}
