package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP (metrics + live stream)
	HTTPPort string

	// Logging
	LogLevel string

	// Postgres
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBMaxConns int32

	// Redis
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	LiveStateTTLSeconds int

	// Background tick intervals
	IdleTickSeconds        int
	RecorderIntervalSec    int
	AlertIntervalSec       int
	MaintenanceIntervalSec int

	// Trip defaults
	TripDefaultDurationSec int
}

// Load reads configuration from the environment, applying defaults for
// anything unset. A .env file is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:               getEnv("HTTP_PORT", "8002"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 getEnv("DB_PORT", "5432"),
		DBUser:                 getEnv("DB_USER", "fleet_user"),
		DBPassword:             getEnv("DB_PASSWORD", "fleet_password"),
		DBName:                 getEnv("DB_NAME", "fleet_telemetry"),
		DBMaxConns:             int32(getEnvInt("DB_MAX_CONNS", 15)),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		RedisDB:                getEnvInt("REDIS_DB", 0),
		LiveStateTTLSeconds:    getEnvInt("LIVE_STATE_TTL_SECONDS", 30),
		IdleTickSeconds:        getEnvInt("IDLE_TICK_SECONDS", 30),
		RecorderIntervalSec:    getEnvInt("RECORDER_INTERVAL_SECONDS", 300),
		AlertIntervalSec:       getEnvInt("ALERT_INTERVAL_SECONDS", 60),
		MaintenanceIntervalSec: getEnvInt("MAINTENANCE_INTERVAL_SECONDS", 60),
		TripDefaultDurationSec: getEnvInt("TRIP_DEFAULT_DURATION_SECONDS", 60),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
