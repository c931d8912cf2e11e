package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleet-telemetry/engine/internal/config"
	"fleet-telemetry/engine/internal/domain"
)

// NewPool opens the shared pgx pool used by the Postgres-backed stores.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?pool_max_conns=%d",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBMaxConns,
	)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create db pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return pool, nil
}

type PostgresVehicleStore struct {
	pool *pgxpool.Pool
}

func NewPostgresVehicleStore(pool *pgxpool.Pool) *PostgresVehicleStore {
	return &PostgresVehicleStore{pool: pool}
}

const vehicleColumns = `
	id, name, model, number_plate, driver_name, status,
	latitude, longitude, speed_kmh, battery_pct, fuel_pct, odometer_km,
	tire_pressure, engine_health, tire_wear, battery_health,
	health_initialized, next_maintenance_date, last_update`

func (s *PostgresVehicleStore) List(ctx context.Context) ([]*domain.Vehicle, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles failed: %w", err)
	}
	defer rows.Close()

	var out []*domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *PostgresVehicleStore) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

func (s *PostgresVehicleStore) Save(ctx context.Context, v *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			speed_kmh = EXCLUDED.speed_kmh,
			battery_pct = EXCLUDED.battery_pct,
			fuel_pct = EXCLUDED.fuel_pct,
			odometer_km = EXCLUDED.odometer_km,
			tire_pressure = EXCLUDED.tire_pressure,
			engine_health = EXCLUDED.engine_health,
			tire_wear = EXCLUDED.tire_wear,
			battery_health = EXCLUDED.battery_health,
			health_initialized = EXCLUDED.health_initialized,
			next_maintenance_date = EXCLUDED.next_maintenance_date,
			last_update = EXCLUDED.last_update
	`
	var nextMaint *time.Time
	if !v.NextMaintenanceDate.IsZero() {
		nextMaint = &v.NextMaintenanceDate
	}
	_, err := s.pool.Exec(ctx, query,
		v.ID, v.Name, v.Model, v.NumberPlate, v.DriverName, string(v.Status),
		v.Latitude, v.Longitude, v.SpeedKmh, v.BatteryPercent, v.FuelPercent, v.OdometerKm,
		v.TirePressure, v.EngineHealth, v.TireWear, v.BatteryHealth,
		v.HealthInitialized, nextMaint, v.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("save vehicle %s failed: %w", v.ID, err)
	}
	return nil
}

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	var v domain.Vehicle
	var status string
	var nextMaint, lastUpdate *time.Time

	err := row.Scan(
		&v.ID, &v.Name, &v.Model, &v.NumberPlate, &v.DriverName, &status,
		&v.Latitude, &v.Longitude, &v.SpeedKmh, &v.BatteryPercent, &v.FuelPercent, &v.OdometerKm,
		&v.TirePressure, &v.EngineHealth, &v.TireWear, &v.BatteryHealth,
		&v.HealthInitialized, &nextMaint, &lastUpdate,
	)
	if err != nil {
		return nil, err
	}
	v.Status = domain.VehicleStatus(status)
	if nextMaint != nil {
		v.NextMaintenanceDate = *nextMaint
	}
	if lastUpdate != nil {
		v.LastUpdate = *lastUpdate
	}
	return &v, nil
}

type PostgresAlertStore struct {
	pool *pgxpool.Pool
}

func NewPostgresAlertStore(pool *pgxpool.Pool) *PostgresAlertStore {
	return &PostgresAlertStore{pool: pool}
}

const alertColumns = `
	id, vehicle_id, vehicle_model, number_plate, driver_name,
	alert_type, severity, message, value, status,
	created_at, acknowledged_at, resolved_at`

func (s *PostgresAlertStore) Insert(ctx context.Context, a *domain.Alert) error {
	query := `
		INSERT INTO alerts (` + alertColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`
	_, err := s.pool.Exec(ctx, query,
		a.ID, a.VehicleID, a.VehicleModel, a.NumberPlate, a.DriverName,
		string(a.Type), string(a.Severity), a.Message, a.Value, string(a.Status),
		a.CreatedAt, nullableTime(a.AcknowledgedAt), nullableTime(a.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("insert alert failed: %w", err)
	}
	return nil
}

func (s *PostgresAlertStore) Get(ctx context.Context, id string) (*domain.Alert, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id)
	a, err := scanAlert(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (s *PostgresAlertStore) Update(ctx context.Context, a *domain.Alert) error {
	query := `
		UPDATE alerts
		SET status = $2, acknowledged_at = $3, resolved_at = $4
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query,
		a.ID, string(a.Status), nullableTime(a.AcknowledgedAt), nullableTime(a.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("update alert %s failed: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresAlertStore) ListByVehicleAndStatus(ctx context.Context, vehicleID string, status domain.AlertStatus) ([]*domain.Alert, error) {
	return s.query(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE vehicle_id = $1 AND status = $2 ORDER BY created_at DESC`,
		vehicleID, string(status))
}

func (s *PostgresAlertStore) ListByStatus(ctx context.Context, status domain.AlertStatus) ([]*domain.Alert, error) {
	return s.query(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE status = $1 ORDER BY created_at DESC`,
		string(status))
}

func (s *PostgresAlertStore) ListBySeverityAndStatus(ctx context.Context, severity domain.AlertSeverity, status domain.AlertStatus) ([]*domain.Alert, error) {
	return s.query(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE severity = $1 AND status = $2 ORDER BY created_at DESC`,
		string(severity), string(status))
}

func (s *PostgresAlertStore) query(ctx context.Context, sql string, args ...interface{}) ([]*domain.Alert, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("alert query failed: %w", err)
	}
	defer rows.Close()

	var out []*domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAlert(row pgx.Row) (*domain.Alert, error) {
	var a domain.Alert
	var alertType, severity, status string
	var ackAt, resAt *time.Time

	err := row.Scan(
		&a.ID, &a.VehicleID, &a.VehicleModel, &a.NumberPlate, &a.DriverName,
		&alertType, &severity, &a.Message, &a.Value, &status,
		&a.CreatedAt, &ackAt, &resAt,
	)
	if err != nil {
		return nil, err
	}
	a.Type = domain.AlertType(alertType)
	a.Severity = domain.AlertSeverity(severity)
	a.Status = domain.AlertStatus(status)
	if ackAt != nil {
		a.AcknowledgedAt = *ackAt
	}
	if resAt != nil {
		a.ResolvedAt = *resAt
	}
	return &a, nil
}

type PostgresHistoryStore struct {
	pool *pgxpool.Pool
}

func NewPostgresHistoryStore(pool *pgxpool.Pool) *PostgresHistoryStore {
	return &PostgresHistoryStore{pool: pool}
}

var historyColumns = []string{
	"vehicle_id",
	"vehicle_model",
	"number_plate",
	"driver_name",
	"speed_kmh",
	"battery_pct",
	"fuel_pct",
	"odometer_km",
	"engine_health",
	"tire_wear",
	"battery_health",
	"tire_pressure",
	"latitude",
	"longitude",
	"vehicle_status",
	"recorded_at",
}

func (s *PostgresHistoryStore) Append(ctx context.Context, records []*domain.TelemetryRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([][]interface{}, len(records))
	for i, r := range records {
		rows[i] = []interface{}{
			r.VehicleID,
			r.VehicleModel,
			r.NumberPlate,
			r.DriverName,
			r.SpeedKmh,
			r.BatteryPercent,
			r.FuelPercent,
			r.OdometerKm,
			r.EngineHealth,
			r.TireWear,
			r.BatteryHealth,
			r.TirePressure,
			r.Latitude,
			r.Longitude,
			string(r.VehicleStatus),
			r.RecordedAt,
		}
	}

	_, err := s.pool.CopyFrom(
		ctx,
		pgx.Identifier{"telemetry_history"},
		historyColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("CopyFrom failed for batch of %d: %w", len(records), err)
	}
	return nil
}

func (s *PostgresHistoryStore) ListByVehicleSince(ctx context.Context, vehicleID string, since time.Time) ([]*domain.TelemetryRecord, error) {
	return s.query(ctx, `
		SELECT vehicle_id, vehicle_model, number_plate, driver_name,
		       speed_kmh, battery_pct, fuel_pct, odometer_km,
		       engine_health, tire_wear, battery_health, tire_pressure,
		       latitude, longitude, vehicle_status, recorded_at
		FROM telemetry_history
		WHERE vehicle_id = $1 AND recorded_at > $2
		ORDER BY recorded_at ASC
	`, vehicleID, since)
}

func (s *PostgresHistoryStore) ListSince(ctx context.Context, since time.Time) ([]*domain.TelemetryRecord, error) {
	return s.query(ctx, `
		SELECT vehicle_id, vehicle_model, number_plate, driver_name,
		       speed_kmh, battery_pct, fuel_pct, odometer_km,
		       engine_health, tire_wear, battery_health, tire_pressure,
		       latitude, longitude, vehicle_status, recorded_at
		FROM telemetry_history
		WHERE recorded_at > $1
		ORDER BY recorded_at ASC
	`, since)
}

func (s *PostgresHistoryStore) query(ctx context.Context, sql string, args ...interface{}) ([]*domain.TelemetryRecord, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("history query failed: %w", err)
	}
	defer rows.Close()

	var out []*domain.TelemetryRecord
	for rows.Next() {
		var r domain.TelemetryRecord
		var status string
		err := rows.Scan(
			&r.VehicleID, &r.VehicleModel, &r.NumberPlate, &r.DriverName,
			&r.SpeedKmh, &r.BatteryPercent, &r.FuelPercent, &r.OdometerKm,
			&r.EngineHealth, &r.TireWear, &r.BatteryHealth, &r.TirePressure,
			&r.Latitude, &r.Longitude, &status, &r.RecordedAt,
		)
		if err != nil {
			return nil, err
		}
		r.VehicleStatus = domain.VehicleStatus(status)
		out = append(out, &r)
	}
	return out, rows.Err()
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
