package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fleet-telemetry/engine/internal/config"
	"fleet-telemetry/engine/internal/domain"
)

const (
	TelemetryChannel = "fleet:telemetry"
	AlertChannel     = "fleet:alerts"

	fleetGeoKey = "fleet:geo"
)

// RedisStore mirrors live vehicle state for dashboard reads and fans out
// telemetry/alert events over pub/sub. It is a best-effort cache: every
// write carries a TTL and the durable row in Postgres stays authoritative.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(ctx context.Context, cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     20,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ttl:    time.Duration(cfg.LiveStateTTLSeconds) * time.Second,
	}, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Client() *redis.Client {
	return r.client
}

// UpdateLiveState writes the vehicle's current readings to its state hash,
// refreshes the fleet geo index, and publishes the snapshot for stream
// subscribers. One pipeline round trip per vehicle.
func (r *RedisStore) UpdateLiveState(ctx context.Context, v *domain.Vehicle) error {
	stateData := map[string]interface{}{
		"vehicle_id":     v.ID,
		"status":         string(v.Status),
		"lat":            v.Latitude,
		"lng":            v.Longitude,
		"speed_kmh":      v.SpeedKmh,
		"battery_pct":    v.BatteryPercent,
		"fuel_pct":       v.FuelPercent,
		"odometer_km":    v.OdometerKm,
		"engine_health":  v.EngineHealth,
		"tire_wear":      v.TireWear,
		"battery_health": v.BatteryHealth,
		"tire_pressure":  v.TirePressure,
		"last_update":    v.LastUpdate.Unix(),
	}

	pubPayload, err := json.Marshal(stateData)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	stateKey := fmt.Sprintf("vehicle:%s:state", v.ID)

	pipe := r.client.Pipeline()

	pipe.HSet(ctx, stateKey, stateData)
	pipe.Expire(ctx, stateKey, r.ttl)
	pipe.GeoAdd(ctx, fleetGeoKey, &redis.GeoLocation{
		Name:      v.ID,
		Longitude: v.Longitude,
		Latitude:  v.Latitude,
	})
	pipe.Publish(ctx, TelemetryChannel, pubPayload)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline failed: %w", err)
	}
	return nil
}

// PublishAlert fans a freshly created alert out to stream subscribers.
func (r *RedisStore) PublishAlert(ctx context.Context, a *domain.Alert) error {
	payload, err := json.Marshal(map[string]interface{}{
		"alert_id":     a.ID,
		"vehicle_id":   a.VehicleID,
		"number_plate": a.NumberPlate,
		"alert_type":   string(a.Type),
		"severity":     string(a.Severity),
		"message":      a.Message,
		"value":        a.Value,
		"triggered_at": a.CreatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}
	return r.client.Publish(ctx, AlertChannel, payload).Err()
}
