package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type seedVehicle struct {
	id, name, model, plate, driver string
	status                         string
	lat, lng                       float64
}

var fleet = []seedVehicle{
	{"veh-001", "V001", "Toyota Innova", "TN 09 AZ 1234", "Rajesh K", "Active", 13.0827, 80.2707},
	{"veh-002", "V002", "Mahindra XUV700", "KA 03 MH 5678", "Suresh P", "Active", 12.9716, 77.5946},
	{"veh-003", "V003", "Tata Nexon EV", "MH 12 DE 9012", "Amit S", "Enroute", 18.5204, 73.8567},
	{"veh-004", "V004", "Hyundai Creta", "DL 08 CA 3456", "Vikram R", "Inactive", 28.6139, 77.2090},
	{"veh-005", "V005", "Maruti Ertiga", "GJ 01 RT 7890", "Prakash M", "Pending", 23.0225, 72.5714},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file — using system environment variables")
	}

	ctx := context.Background()

	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		seedGetEnv("DB_USER", "fleet_user"),
		seedGetEnv("DB_PASSWORD", "fleet_password"),
		seedGetEnv("DB_HOST", "localhost"),
		seedGetEnv("DB_PORT", "5432"),
		seedGetEnv("DB_NAME", "fleet_telemetry"),
	)

	fmt.Println("Connecting to Postgres...")
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		log.Fatalf("Connection failed: %v", err)
	}
	defer conn.Close(ctx)
	fmt.Println("✓ Connected")

	step1_vehicles(ctx, conn)
	step2_redis(ctx)

	fmt.Println("\n✅ Fleet seeded successfully")
	fmt.Println("   Run next: go run ./cmd/engine")
}

func step1_vehicles(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 1: Seeding vehicles ────────────────────")

	for _, v := range fleet {
		_, err := conn.Exec(ctx, `
			INSERT INTO vehicles
				(id, name, model, number_plate, driver_name, status,
				 latitude, longitude, battery_pct, fuel_pct, tire_pressure,
				 engine_health, battery_health, health_initialized, last_update)
			VALUES
				($1, $2, $3, $4, $5, $6, $7, $8, 100, 100, 32, 100, 100, true, $9)
			ON CONFLICT (id) DO NOTHING
		`, v.id, v.name, v.model, v.plate, v.driver, v.status, v.lat, v.lng, time.Now())
		if err != nil {
			log.Fatalf("Failed to seed %s: %v", v.id, err)
		}
		fmt.Printf("  ✓ %-8s %-18s %s\n", v.id, v.model, v.status)
	}
}

func step2_redis(ctx context.Context) {
	fmt.Println("\n── Step 2: Priming Redis geo index ─────────────")

	client := redis.NewClient(&redis.Options{
		Addr:     seedGetEnv("REDIS_ADDR", "localhost:6379"),
		Password: seedGetEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}

	for _, v := range fleet {
		err := client.GeoAdd(ctx, "fleet:geo", &redis.GeoLocation{
			Name:      v.id,
			Longitude: v.lng,
			Latitude:  v.lat,
		}).Err()
		if err != nil {
			log.Fatalf("GeoAdd failed for %s: %v", v.id, err)
		}
	}
	fmt.Printf("  ✓ %d vehicles in geo index\n", len(fleet))
}

func seedGetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
