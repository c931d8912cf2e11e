// Package httpapi is the thin JSON surface collaborators call into: trip
// start/cancel from the booking system, live-position advance from the
// vehicle listing, maintenance overrides and alert lifecycle from the
// operator dashboards. Routing stays on the standard mux; there is no
// middleware stack here.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"fleet-telemetry/engine/internal/alerts"
	"fleet-telemetry/engine/internal/domain"
	"fleet-telemetry/engine/internal/fleet"
	"fleet-telemetry/engine/internal/geo"
	"fleet-telemetry/engine/internal/maintenance"
	"fleet-telemetry/engine/internal/sim"
	"fleet-telemetry/engine/internal/store"
	"fleet-telemetry/engine/pkg/logger"
)

type Handler struct {
	engine    *sim.Engine
	maint     *maintenance.Service
	alerts    *alerts.Service
	analytics *fleet.Analytics
	vehicles  store.VehicleStore
	log       logger.Logger
}

func NewHandler(
	engine *sim.Engine,
	maint *maintenance.Service,
	alertSvc *alerts.Service,
	analytics *fleet.Analytics,
	vehicles store.VehicleStore,
	log logger.Logger,
) *Handler {
	return &Handler{
		engine:    engine,
		maint:     maint,
		alerts:    alertSvc,
		analytics: analytics,
		vehicles:  vehicles,
		log:       log,
	}
}

// Register mounts all routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /trips/start", h.startTrip)
	mux.HandleFunc("POST /trips/{vehicleID}/cancel", h.cancelTrip)

	mux.HandleFunc("POST /vehicles/{id}/advance", h.advance)
	mux.HandleFunc("GET /vehicles/live", h.liveVehicles)
	mux.HandleFunc("GET /vehicles/{id}/health", h.healthSummary)
	mux.HandleFunc("GET /vehicles/{id}/history", h.vehicleHistory)
	mux.HandleFunc("PUT /vehicles/{id}/maintenance/reset", h.resetHealth)
	mux.HandleFunc("PUT /vehicles/{id}/maintenance/schedule", h.scheduleMaintenance)

	mux.HandleFunc("GET /fleet/utilization", h.utilization)
	mux.HandleFunc("GET /fleet/health/trends", h.healthTrends)

	mux.HandleFunc("GET /alerts", h.listAlerts)
	mux.HandleFunc("PUT /alerts/{id}/acknowledge", h.acknowledgeAlert)
	mux.HandleFunc("PUT /alerts/{id}/resolve", h.resolveAlert)
}

type startTripRequest struct {
	VehicleID       string       `json:"vehicle_id"`
	Path            [][2]float64 `json:"path"`
	ScheduledStart  time.Time    `json:"scheduled_start"`
	DurationSeconds int          `json:"duration_seconds"`
}

func (h *Handler) startTrip(w http.ResponseWriter, r *http.Request) {
	var req startTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VehicleID == "" || len(req.Path) == 0 {
		writeError(w, http.StatusBadRequest, "vehicle_id and path are required")
		return
	}

	path := make([]geo.Point, len(req.Path))
	for i, p := range req.Path {
		path[i] = geo.Point{Lat: p[0], Lng: p[1]}
	}

	h.engine.StartTrip(req.VehicleID, path, req.ScheduledStart,
		time.Duration(req.DurationSeconds)*time.Second)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "trip started"})
}

func (h *Handler) cancelTrip(w http.ResponseWriter, r *http.Request) {
	h.engine.CancelTrip(r.PathValue("vehicleID"))
	writeJSON(w, http.StatusOK, map[string]string{"status": "trip cancelled"})
}

func (h *Handler) advance(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.engine.Advance(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// liveVehicles advances every in-trip vehicle before reading, so each live
// read reflects the simulated position at the moment of the request.
func (h *Handler) liveVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicles.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	type liveVehicle struct {
		ID          string  `json:"id"`
		Model       string  `json:"model"`
		NumberPlate string  `json:"number_plate"`
		DriverName  string  `json:"driver_name"`
		Status      string  `json:"status"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		SpeedKmh    float64 `json:"speed_kmh"`
	}

	var out []liveVehicle
	for _, v := range vehicles {
		if !v.IsUtilized() {
			continue
		}
		if err := h.engine.Advance(r.Context(), v.ID); err != nil {
			h.log.Warn("live advance failed", "vehicle_id", v.ID, "error", err)
		} else if fresh, err := h.vehicles.Get(r.Context(), v.ID); err == nil {
			v = fresh
		}
		out = append(out, liveVehicle{
			ID:          v.ID,
			Model:       v.Model,
			NumberPlate: v.NumberPlate,
			DriverName:  v.DriverName,
			Status:      string(v.Status),
			Latitude:    v.Latitude,
			Longitude:   v.Longitude,
			SpeedKmh:    v.SpeedKmh,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) healthSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.maint.Summary(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"engine":          summary.Engine,
		"tires":           summary.Tires,
		"battery":         summary.Battery,
		"odometer":        summary.OdometerKm,
		"nextMaintenance": summary.NextMaintenance,
	})
}

func (h *Handler) vehicleHistory(w http.ResponseWriter, r *http.Request) {
	hours := queryInt(r, "hours", 24)
	records, err := h.analytics.VehicleHistory(r.Context(), r.PathValue("id"), hours)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) resetHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.maint.ResetHealth(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "health reset"})
}

func (h *Handler) scheduleMaintenance(w http.ResponseWriter, r *http.Request) {
	if err := h.maint.ScheduleMaintenance(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "maintenance scheduled"})
}

func (h *Handler) utilization(w http.ResponseWriter, r *http.Request) {
	u, err := h.analytics.Utilization(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) healthTrends(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)
	trends, err := h.analytics.HealthTrends(r.Context(), days)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	status := domain.AlertStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.AlertActive
	}

	var (
		list []*domain.Alert
		err  error
	)
	if sev := r.URL.Query().Get("severity"); sev != "" {
		list, err = h.alerts.ListBySeverityAndStatus(r.Context(), domain.AlertSeverity(sev), status)
	} else {
		list, err = h.alerts.ListByStatus(r.Context(), status)
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) acknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.alerts.Acknowledge(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "acknowledged"})
}

func (h *Handler) resolveAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.alerts.Resolve(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
