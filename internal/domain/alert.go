package domain

import (
	"fmt"
	"time"
)

type AlertType string

const (
	AlertBatteryLow            AlertType = "BATTERY_LOW"
	AlertEngineCritical        AlertType = "ENGINE_CRITICAL"
	AlertEngineWarning         AlertType = "ENGINE_WARNING"
	AlertTireWearHigh          AlertType = "TIRE_WEAR_HIGH"
	AlertTireWearWarning       AlertType = "TIRE_WEAR_WARNING"
	AlertTirePressureLow       AlertType = "TIRE_PRESSURE_LOW"
	AlertBatteryHealthCritical AlertType = "BATTERY_HEALTH_CRITICAL"
	AlertFuelLow               AlertType = "FUEL_LOW"
)

type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "INFO"
	SeverityWarning  AlertSeverity = "WARNING"
	SeverityCritical AlertSeverity = "CRITICAL"
)

type AlertStatus string

const (
	AlertActive       AlertStatus = "ACTIVE"
	AlertAcknowledged AlertStatus = "ACKNOWLEDGED"
	AlertResolved     AlertStatus = "RESOLVED"
)

// Alert is a maintenance/telemetry threshold breach. At most one ACTIVE
// alert per (vehicle, type) pair exists at a time; the evaluator enforces
// this before inserting. Lifecycle is one-way:
// ACTIVE -> ACKNOWLEDGED -> RESOLVED (ACTIVE may also resolve directly).
type Alert struct {
	ID string

	VehicleID    string
	VehicleModel string
	NumberPlate  string
	DriverName   string

	Type     AlertType
	Severity AlertSeverity
	Message  string
	Value    float64

	Status AlertStatus

	CreatedAt      time.Time
	AcknowledgedAt time.Time
	ResolvedAt     time.Time
}

// ThresholdRule maps one vehicle reading to a fixed (type, severity) alert.
// Triggered returns the reading that breached along with whether it did.
// Engine and tire-wear bands are exclusive by construction so a vehicle
// never carries both the CRITICAL and WARNING variant at once.
type ThresholdRule struct {
	Type      AlertType
	Severity  AlertSeverity
	Triggered func(v *Vehicle) (float64, bool)
	Message   func(value float64) string
}

var ThresholdRules = []ThresholdRule{
	{
		Type:     AlertBatteryLow,
		Severity: SeverityCritical,
		Triggered: func(v *Vehicle) (float64, bool) {
			return v.BatteryPercent, v.BatteryPercent < 20
		},
		Message: func(val float64) string {
			return fmt.Sprintf("Battery critically low at %.0f%%", val)
		},
	},
	{
		Type:     AlertEngineCritical,
		Severity: SeverityCritical,
		Triggered: func(v *Vehicle) (float64, bool) {
			return v.EngineHealth, v.EngineHealth < 30
		},
		Message: func(val float64) string {
			return fmt.Sprintf("Engine health critical at %.0f%%", val)
		},
	},
	{
		Type:     AlertEngineWarning,
		Severity: SeverityWarning,
		Triggered: func(v *Vehicle) (float64, bool) {
			return v.EngineHealth, v.EngineHealth >= 30 && v.EngineHealth < 50
		},
		Message: func(val float64) string {
			return fmt.Sprintf("Engine health low at %.0f%%", val)
		},
	},
	{
		Type:     AlertTireWearHigh,
		Severity: SeverityCritical,
		Triggered: func(v *Vehicle) (float64, bool) {
			return v.TireWear, v.TireWear > 80
		},
		Message: func(val float64) string {
			return fmt.Sprintf("Tire wear critically high at %.0f%%", val)
		},
	},
	{
		Type:     AlertTireWearWarning,
		Severity: SeverityWarning,
		Triggered: func(v *Vehicle) (float64, bool) {
			return v.TireWear, v.TireWear > 60 && v.TireWear <= 80
		},
		Message: func(val float64) string {
			return fmt.Sprintf("Tire wear high at %.0f%%", val)
		},
	},
	{
		Type:     AlertTirePressureLow,
		Severity: SeverityWarning,
		Triggered: func(v *Vehicle) (float64, bool) {
			return v.TirePressure, v.TirePressure < 28
		},
		Message: func(val float64) string {
			return fmt.Sprintf("Tire pressure low at %.1f PSI", val)
		},
	},
	{
		Type:     AlertBatteryHealthCritical,
		Severity: SeverityCritical,
		Triggered: func(v *Vehicle) (float64, bool) {
			return v.BatteryHealth, v.BatteryHealth < 30
		},
		Message: func(val float64) string {
			return fmt.Sprintf("Battery health critical at %.0f%%", val)
		},
	},
	{
		Type:     AlertFuelLow,
		Severity: SeverityWarning,
		Triggered: func(v *Vehicle) (float64, bool) {
			return v.FuelPercent, v.FuelPercent < 15
		},
		Message: func(val float64) string {
			return fmt.Sprintf("Fuel level low at %.0f%%", val)
		},
	},
}
