package maintenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredictDays(t *testing.T) {
	tests := []struct {
		name     string
		engine   float64
		tireWear float64
		battery  float64
		odometer float64
		want     int
	}{
		{"all healthy", 100, 0, 100, 0, 90},
		{"engine critical dominates", 20, 0, 100, 0, 2},
		{"engine low band", 45, 0, 100, 0, 10},
		{"engine mid band", 65, 0, 100, 0, 45},
		{"tire wear critical", 100, 85, 100, 0, 2},
		{"tire wear warning band", 100, 65, 100, 0, 20},
		{"battery critical", 100, 0, 25, 0, 3},
		{"battery mid band", 100, 0, 65, 0, 60},
		{"odometer near service boundary", 100, 0, 100, 4600, 7},
		{"odometer within 1000km", 100, 0, 100, 4200, 14},
		{"odometer within 2000km", 100, 0, 100, 3500, 30},
		{"odometer past boundary wraps", 100, 0, 100, 5100, 90},
		{"worst factor wins", 45, 72, 55, 4600, 7},
		{"engine beats odometer", 20, 72, 55, 4600, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PredictDays(tt.engine, tt.tireWear, tt.battery, tt.odometer)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredictDays_BoundaryValues(t *testing.T) {
	// Band edges are exclusive on the healthy side.
	assert.Equal(t, 5, PredictDays(30, 0, 100, 0))  // exactly 30 is the <40 band
	assert.Equal(t, 90, PredictDays(70, 0, 100, 0)) // exactly 70 is healthy
	assert.Equal(t, 45, PredictDays(100, 50.1, 100, 0))
	assert.Equal(t, 90, PredictDays(100, 50, 100, 0))
}
