// Package fleet computes fleet-wide aggregates for the manager dashboard:
// utilization counters and daily health-trend series.
package fleet

import (
	"context"
	"math"
	"time"

	"fleet-telemetry/engine/internal/domain"
	"fleet-telemetry/engine/internal/store"
)

type Utilization struct {
	TotalVehicles       int
	ActiveVehicles      int
	MaintenanceVehicles int
	InactiveVehicles    int

	// Percentage of the non-pending fleet that is Active or Enroute.
	UtilizationRate float64

	AvgOdometerKm  float64
	AvgFleetHealth float64
}

// TrendPoint is one day bucket of fleet-average health readings.
type TrendPoint struct {
	Day           string
	EngineHealth  float64
	BatteryHealth float64
	TireWear      float64
	FuelPercent   float64
}

type Analytics struct {
	vehicles store.VehicleStore
	history  store.HistoryStore
	now      func() time.Time
}

func NewAnalytics(vehicles store.VehicleStore, history store.HistoryStore) *Analytics {
	return &Analytics{vehicles: vehicles, history: history, now: time.Now}
}

// SetClock overrides the time source. Tests only.
func (a *Analytics) SetClock(now func() time.Time) {
	a.now = now
}

func (a *Analytics) Utilization(ctx context.Context) (*Utilization, error) {
	vehicles, err := a.vehicles.List(ctx)
	if err != nil {
		return nil, err
	}

	u := &Utilization{}
	var odoSum, engineSum float64
	var counted int
	for _, v := range vehicles {
		if v.Status != domain.StatusPending {
			u.TotalVehicles++
		}
		if v.IsUtilized() {
			u.ActiveVehicles++
		}
		switch v.Status {
		case domain.StatusMaintenance:
			u.MaintenanceVehicles++
		case domain.StatusInactive:
			u.InactiveVehicles++
		}
		odoSum += v.OdometerKm
		engineSum += v.EngineHealth
		counted++
	}

	if u.TotalVehicles > 0 {
		u.UtilizationRate = round1(float64(u.ActiveVehicles) * 100 / float64(u.TotalVehicles))
	}
	if counted > 0 {
		u.AvgOdometerKm = round1(odoSum / float64(counted))
		u.AvgFleetHealth = round1(engineSum / float64(counted))
	} else {
		u.AvgFleetHealth = 100
	}
	return u, nil
}

// HealthTrends buckets history rows into per-day fleet averages over the
// trailing window. Days without rows are omitted. When the window has no
// rows at all (a fresh deployment), every day is filled from the current
// instantaneous fleet averages so the dashboard still renders a series.
func (a *Analytics) HealthTrends(ctx context.Context, days int) ([]TrendPoint, error) {
	now := a.now()
	since := now.AddDate(0, 0, -days)

	rows, err := a.history.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}

	var points []TrendPoint
	for i := 0; i < days; i++ {
		dayStart := truncateDay(now.AddDate(0, 0, -(days - i - 1)))
		dayEnd := dayStart.AddDate(0, 0, 1)

		var engine, battery, wear, fuel float64
		var n int
		for _, r := range rows {
			if r.RecordedAt.Before(dayStart) || !r.RecordedAt.Before(dayEnd) {
				continue
			}
			engine += r.EngineHealth
			battery += r.BatteryHealth
			wear += r.TireWear
			fuel += r.FuelPercent
			n++
		}
		if n == 0 {
			continue
		}
		points = append(points, TrendPoint{
			Day:           dayStart.Format("2006-01-02"),
			EngineHealth:  engine / float64(n),
			BatteryHealth: battery / float64(n),
			TireWear:      wear / float64(n),
			FuelPercent:   fuel / float64(n),
		})
	}

	if len(points) == 0 {
		current, err := a.currentAverages(ctx)
		if err != nil {
			return nil, err
		}
		for i := 0; i < days; i++ {
			day := truncateDay(now.AddDate(0, 0, -(days - i - 1)))
			p := current
			p.Day = day.Format("2006-01-02")
			points = append(points, p)
		}
	}
	return points, nil
}

// VehicleHistory returns history rows for one vehicle over the trailing
// window, oldest first.
func (a *Analytics) VehicleHistory(ctx context.Context, vehicleID string, hours int) ([]*domain.TelemetryRecord, error) {
	since := a.now().Add(-time.Duration(hours) * time.Hour)
	return a.history.ListByVehicleSince(ctx, vehicleID, since)
}

func (a *Analytics) currentAverages(ctx context.Context) (TrendPoint, error) {
	vehicles, err := a.vehicles.List(ctx)
	if err != nil {
		return TrendPoint{}, err
	}
	if len(vehicles) == 0 {
		return TrendPoint{EngineHealth: 100, BatteryHealth: 100}, nil
	}

	var p TrendPoint
	for _, v := range vehicles {
		p.EngineHealth += v.EngineHealth
		p.BatteryHealth += v.BatteryHealth
		p.TireWear += v.TireWear
		p.FuelPercent += v.FuelPercent
	}
	n := float64(len(vehicles))
	p.EngineHealth /= n
	p.BatteryHealth /= n
	p.TireWear /= n
	p.FuelPercent /= n
	return p, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
