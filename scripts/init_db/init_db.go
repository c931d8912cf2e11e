package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using system environment variables")
	}

	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		dbGetEnv("DB_USER", "fleet_user"),
		dbGetEnv("DB_PASSWORD", "fleet_password"),
		dbGetEnv("DB_HOST", "localhost"),
		dbGetEnv("DB_PORT", "5432"),
		dbGetEnv("DB_NAME", "fleet_telemetry"),
	)

	ctx := context.Background()

	fmt.Println("Connecting to Postgres...")
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		log.Fatalf("Connection failed: %v\n\nMake sure Postgres is running:\n  docker-compose up -d postgres", err)
	}
	defer conn.Close(ctx)
	fmt.Println("✓ Connected")

	step1_vehicles_table(ctx, conn)
	step2_history_table(ctx, conn)
	step3_alerts_table(ctx, conn)
	step4_indexes(ctx, conn)
	step5_verify(ctx, conn)

	fmt.Println("\n✅ Database initialised successfully")
	fmt.Println("   Run next: go run ./scripts/seed_fleet")
}

// ─────────────────────────────────────────────────────────────
// Step 1 — vehicles table
// ─────────────────────────────────────────────────────────────
func step1_vehicles_table(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 1: vehicles table ──────────────────────")

	execOrFatal(ctx, conn, `
		CREATE TABLE IF NOT EXISTS vehicles (
			id                    TEXT             PRIMARY KEY,
			name                  TEXT             NOT NULL DEFAULT '',
			model                 TEXT             NOT NULL DEFAULT '',
			number_plate          TEXT             NOT NULL DEFAULT '',
			driver_name           TEXT             NOT NULL DEFAULT '',

			-- Pending, Active, Enroute, Maintenance, Inactive, Offline, Rejected
			status                TEXT             NOT NULL DEFAULT 'Pending',

			latitude              DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude             DOUBLE PRECISION NOT NULL DEFAULT 0,
			speed_kmh             DOUBLE PRECISION NOT NULL DEFAULT 0,
			battery_pct           DOUBLE PRECISION NOT NULL DEFAULT 0,
			fuel_pct              DOUBLE PRECISION NOT NULL DEFAULT 0,
			odometer_km           DOUBLE PRECISION NOT NULL DEFAULT 0,
			tire_pressure         DOUBLE PRECISION NOT NULL DEFAULT 0,

			-- Health metrics, 0-100; tire_wear grows toward 100
			engine_health         DOUBLE PRECISION NOT NULL DEFAULT 0,
			tire_wear             DOUBLE PRECISION NOT NULL DEFAULT 0,
			battery_health        DOUBLE PRECISION NOT NULL DEFAULT 0,
			health_initialized    BOOLEAN          NOT NULL DEFAULT false,

			next_maintenance_date TIMESTAMPTZ,
			last_update           TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		);
	`, "vehicles table created")
}

// ─────────────────────────────────────────────────────────────
// Step 2 — telemetry_history table (append-only)
// ─────────────────────────────────────────────────────────────
func step2_history_table(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 2: telemetry_history table ─────────────")

	execOrFatal(ctx, conn, `
		CREATE TABLE IF NOT EXISTS telemetry_history (
			id             BIGSERIAL        PRIMARY KEY,

			vehicle_id     TEXT             NOT NULL,

			-- Denormalized labels so history renders without a join
			vehicle_model  TEXT             NOT NULL DEFAULT '',
			number_plate   TEXT             NOT NULL DEFAULT '',
			driver_name    TEXT             NOT NULL DEFAULT '',

			speed_kmh      DOUBLE PRECISION NOT NULL DEFAULT 0,
			battery_pct    DOUBLE PRECISION NOT NULL DEFAULT 0,
			fuel_pct       DOUBLE PRECISION NOT NULL DEFAULT 0,
			odometer_km    DOUBLE PRECISION NOT NULL DEFAULT 0,
			engine_health  DOUBLE PRECISION NOT NULL DEFAULT 0,
			tire_wear      DOUBLE PRECISION NOT NULL DEFAULT 0,
			battery_health DOUBLE PRECISION NOT NULL DEFAULT 0,
			tire_pressure  DOUBLE PRECISION NOT NULL DEFAULT 0,

			latitude       DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude      DOUBLE PRECISION NOT NULL DEFAULT 0,

			vehicle_status TEXT             NOT NULL DEFAULT '',
			recorded_at    TIMESTAMPTZ      NOT NULL
		);
	`, "telemetry_history table created")
}

// ─────────────────────────────────────────────────────────────
// Step 3 — alerts table
// ─────────────────────────────────────────────────────────────
func step3_alerts_table(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 3: alerts table ────────────────────────")

	execOrFatal(ctx, conn, `
		CREATE TABLE IF NOT EXISTS alerts (
			id              TEXT             PRIMARY KEY,

			vehicle_id      TEXT             NOT NULL,
			vehicle_model   TEXT             NOT NULL DEFAULT '',
			number_plate    TEXT             NOT NULL DEFAULT '',
			driver_name     TEXT             NOT NULL DEFAULT '',

			alert_type      TEXT             NOT NULL,
			severity        TEXT             NOT NULL,
			message         TEXT             NOT NULL DEFAULT '',
			value           DOUBLE PRECISION NOT NULL DEFAULT 0,

			-- ACTIVE, ACKNOWLEDGED, RESOLVED
			status          TEXT             NOT NULL DEFAULT 'ACTIVE',

			created_at      TIMESTAMPTZ      NOT NULL,
			acknowledged_at TIMESTAMPTZ,
			resolved_at     TIMESTAMPTZ
		);
	`, "alerts table created")

	// One ACTIVE alert per (vehicle, type); the evaluator checks before
	// inserting, this closes the race between concurrent passes.
	execOrFatal(ctx, conn, `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_alerts_active_unique
		ON alerts (vehicle_id, alert_type)
		WHERE status = 'ACTIVE';
	`, "active alert uniqueness index")
}

// ─────────────────────────────────────────────────────────────
// Step 4 — indexes
// ─────────────────────────────────────────────────────────────
func step4_indexes(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 4: indexes ─────────────────────────────")

	execOrFatal(ctx, conn, `
		CREATE INDEX IF NOT EXISTS idx_history_vehicle_time
		ON telemetry_history (vehicle_id, recorded_at DESC);
	`, "history vehicle/time index")

	execOrFatal(ctx, conn, `
		CREATE INDEX IF NOT EXISTS idx_history_time
		ON telemetry_history (recorded_at DESC);
	`, "history time index")

	execOrFatal(ctx, conn, `
		CREATE INDEX IF NOT EXISTS idx_alerts_status
		ON alerts (status, created_at DESC);
	`, "alert status index")

	execOrFatal(ctx, conn, `
		CREATE INDEX IF NOT EXISTS idx_alerts_vehicle_status
		ON alerts (vehicle_id, status);
	`, "alert vehicle/status index")
}

// ─────────────────────────────────────────────────────────────
// Step 5 — verify
// ─────────────────────────────────────────────────────────────
func step5_verify(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 5: Verification ────────────────────────")

	for _, table := range []string{"vehicles", "telemetry_history", "alerts"} {
		var count int
		err := conn.QueryRow(ctx,
			`SELECT COUNT(*) FROM information_schema.tables WHERE table_name = $1`,
			table,
		).Scan(&count)
		if err != nil || count == 0 {
			log.Fatalf("Table %s missing: %v", table, err)
		}
		fmt.Printf("  ✓ %s exists\n", table)
	}
}

func execOrFatal(ctx context.Context, conn *pgx.Conn, sql, label string) {
	if _, err := conn.Exec(ctx, sql); err != nil {
		log.Fatalf("%s failed: %v", label, err)
	}
	fmt.Printf("  ✓ %s\n", label)
}

func dbGetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
