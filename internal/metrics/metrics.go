package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	PositionAdvances   atomic.Int64
	IdleTicks          atomic.Int64
	VehiclesScanned    atomic.Int64
	HistoryRowsWritten atomic.Int64
	AlertsCreated      atomic.Int64
	AlertsSuppressed   atomic.Int64
	PredictionsRun     atomic.Int64
	StoreFailures      atomic.Int64
)

func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "engine_position_advances_total %d\n", PositionAdvances.Load())
	fmt.Fprintf(w, "engine_idle_ticks_total %d\n", IdleTicks.Load())
	fmt.Fprintf(w, "engine_vehicles_scanned_total %d\n", VehiclesScanned.Load())
	fmt.Fprintf(w, "engine_history_rows_written_total %d\n", HistoryRowsWritten.Load())
	fmt.Fprintf(w, "engine_alerts_created_total %d\n", AlertsCreated.Load())
	fmt.Fprintf(w, "engine_alerts_suppressed_total %d\n", AlertsSuppressed.Load())
	fmt.Fprintf(w, "engine_predictions_run_total %d\n", PredictionsRun.Load())
	fmt.Fprintf(w, "engine_store_failures_total %d\n", StoreFailures.Load())
}
