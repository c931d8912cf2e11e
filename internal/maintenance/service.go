package maintenance

import (
	"context"
	"fmt"
	"time"

	"fleet-telemetry/engine/internal/domain"
	"fleet-telemetry/engine/internal/store"
	"fleet-telemetry/engine/pkg/logger"
)

// HealthSummary is the per-vehicle view served to the maintenance screens.
type HealthSummary struct {
	Engine          float64
	Tires           float64
	Battery         float64
	OdometerKm      float64
	NextMaintenance time.Time
}

type Service struct {
	vehicles store.VehicleStore
	log      logger.Logger
	now      func() time.Time
}

func NewService(vehicles store.VehicleStore, log logger.Logger) *Service {
	return &Service{
		vehicles: vehicles,
		log:      log,
		now:      time.Now,
	}
}

// SetClock overrides the service's time source. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// PredictVehicle recomputes the vehicle's maintenance due date from its
// current readings and persists it. A critical condition is logged for
// operators; the alert evaluator raises the actual alert on its own tick.
func (s *Service) PredictVehicle(ctx context.Context, v *domain.Vehicle) error {
	days := PredictDays(v.EngineHealth, v.TireWear, v.BatteryHealth, v.OdometerKm)
	v.NextMaintenanceDate = s.now().AddDate(0, 0, days)

	if s.critical(v) && v.Status != domain.StatusMaintenance {
		s.log.Warn("vehicle requires urgent maintenance",
			"vehicle_id", v.ID,
			"engine_health", v.EngineHealth,
			"tire_wear", v.TireWear,
			"battery_health", v.BatteryHealth,
		)
	}

	if err := s.vehicles.Save(ctx, v); err != nil {
		return fmt.Errorf("predict %s: %w", v.ID, err)
	}
	return nil
}

func (s *Service) critical(v *domain.Vehicle) bool {
	return v.EngineHealth < 30 || v.TireWear > 80 || v.BatteryHealth < 30
}

func (s *Service) Summary(ctx context.Context, vehicleID string) (*HealthSummary, error) {
	v, err := s.vehicles.Get(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	return &HealthSummary{
		Engine:          v.EngineHealth,
		Tires:           v.TireWear,
		Battery:         v.BatteryHealth,
		OdometerKm:      v.OdometerKm,
		NextMaintenance: v.NextMaintenanceDate,
	}, nil
}

// ResetHealth is the post-service administrative override: restores all
// health metrics to factory values and puts the vehicle back in rotation.
func (s *Service) ResetHealth(ctx context.Context, vehicleID string) error {
	v, err := s.vehicles.Get(ctx, vehicleID)
	if err != nil {
		return err
	}

	v.EngineHealth = domain.DefaultEngineHealth
	v.TireWear = domain.DefaultTireWear
	v.BatteryHealth = domain.DefaultBatteryHealth
	v.TirePressure = domain.DefaultTirePressure
	v.HealthInitialized = true
	v.Status = domain.StatusActive
	v.NextMaintenanceDate = s.now().AddDate(0, 0, baseIntervalDays)
	v.LastUpdate = s.now()

	if err := s.vehicles.Save(ctx, v); err != nil {
		return fmt.Errorf("reset health %s: %w", vehicleID, err)
	}
	s.log.Info("vehicle health reset", "vehicle_id", vehicleID)
	return nil
}

// ScheduleMaintenance pulls the vehicle out of rotation immediately,
// bypassing the predictor.
func (s *Service) ScheduleMaintenance(ctx context.Context, vehicleID string) error {
	v, err := s.vehicles.Get(ctx, vehicleID)
	if err != nil {
		return err
	}

	v.Status = domain.StatusMaintenance
	v.NextMaintenanceDate = s.now()
	v.LastUpdate = s.now()

	if err := s.vehicles.Save(ctx, v); err != nil {
		return fmt.Errorf("schedule maintenance %s: %w", vehicleID, err)
	}
	s.log.Info("vehicle scheduled for maintenance", "vehicle_id", vehicleID)
	return nil
}
