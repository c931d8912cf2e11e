package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"fleet-telemetry/engine/internal/alerts"
	"fleet-telemetry/engine/internal/config"
	"fleet-telemetry/engine/internal/fleet"
	"fleet-telemetry/engine/internal/maintenance"
	"fleet-telemetry/engine/internal/metrics"
	"fleet-telemetry/engine/internal/pipeline"
	"fleet-telemetry/engine/internal/sim"
	"fleet-telemetry/engine/internal/store"
	"fleet-telemetry/engine/internal/stream"
	"fleet-telemetry/engine/internal/transport/httpapi"
	"fleet-telemetry/engine/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := store.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal("postgres connect failed", "error", err)
	}
	defer pool.Close()

	redisStore, err := store.NewRedisStore(ctx, cfg)
	if err != nil {
		log.Fatal("redis connect failed", "error", err)
	}
	defer redisStore.Close()

	vehicles := store.NewPostgresVehicleStore(pool)
	alertStore := store.NewPostgresAlertStore(pool)
	history := store.NewPostgresHistoryStore(pool)

	trips := sim.NewTrips()
	wear := sim.NewWearModel(rand.NewSource(time.Now().UnixNano()))
	engine := sim.NewEngine(trips, vehicles, wear, redisStore, log,
		time.Duration(cfg.TripDefaultDurationSec)*time.Second)

	maintSvc := maintenance.NewService(vehicles, log)
	alertSvc := alerts.NewService(alertStore)
	analytics := fleet.NewAnalytics(vehicles, history)

	degradation := pipeline.NewDegradationWorker(vehicles, trips, wear, redisStore, log,
		time.Duration(cfg.IdleTickSeconds)*time.Second)
	recorder := pipeline.NewRecorderWorker(vehicles, history, log,
		time.Duration(cfg.RecorderIntervalSec)*time.Second)
	evaluator := pipeline.NewAlertEvaluator(vehicles, alertStore, redisStore, log,
		time.Duration(cfg.AlertIntervalSec)*time.Second)
	predictor := pipeline.NewPredictorWorker(vehicles, maintSvc, log,
		time.Duration(cfg.MaintenanceIntervalSec)*time.Second)

	hub := stream.NewHub(redisStore.Client(), log)

	var wg sync.WaitGroup
	for _, run := range []func(context.Context){
		degradation.Run,
		recorder.Run,
		evaluator.Run,
		predictor.Run,
		hub.Run,
	} {
		wg.Add(1)
		go func(run func(context.Context)) {
			defer wg.Done()
			run(ctx)
		}(run)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", metrics.HandleMetrics)
	mux.HandleFunc("/ws", hub.ServeWS)

	api := httpapi.NewHandler(engine, maintSvc, alertSvc, analytics, vehicles, log)
	api.Register(mux)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: mux,
	}
	go func() {
		log.Info("http server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server failed", "error", err)
			stop()
		}
	}()

	log.Info("telemetry engine started",
		"idle_tick_seconds", cfg.IdleTickSeconds,
		"recorder_interval_seconds", cfg.RecorderIntervalSec,
		"alert_interval_seconds", cfg.AlertIntervalSec,
		"maintenance_interval_seconds", cfg.MaintenanceIntervalSec,
	)

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)

	wg.Wait()
	log.Info("engine stopped")
}
