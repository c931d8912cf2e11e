package maintenance

import "math"

// ServiceIntervalKm is the odometer boundary between routine services.
const ServiceIntervalKm = 5000.0

// baseIntervalDays is the due date horizon when every factor is healthy.
const baseIntervalDays = 90

// PredictDays maps current health readings to an estimated number of days
// until maintenance is due. Each factor independently picks the most
// urgent band it falls into; the worst factor dominates the result.
func PredictDays(engineHealth, tireWear, batteryHealth, odometerKm float64) int {
	days := baseIntervalDays

	days = min(days, engineDays(engineHealth))
	days = min(days, tireDays(tireWear))
	days = min(days, batteryDays(batteryHealth))
	days = min(days, odometerDays(odometerKm))

	return days
}

func engineDays(health float64) int {
	switch {
	case health < 30:
		return 2
	case health < 40:
		return 5
	case health < 50:
		return 10
	case health < 60:
		return 20
	case health < 70:
		return 45
	default:
		return baseIntervalDays
	}
}

func tireDays(wear float64) int {
	switch {
	case wear > 80:
		return 2
	case wear > 75:
		return 5
	case wear > 70:
		return 10
	case wear > 60:
		return 20
	case wear > 50:
		return 45
	default:
		return baseIntervalDays
	}
}

func batteryDays(health float64) int {
	switch {
	case health < 30:
		return 3
	case health < 40:
		return 7
	case health < 50:
		return 14
	case health < 60:
		return 30
	case health < 70:
		return 60
	default:
		return baseIntervalDays
	}
}

// odometerDays bands on the distance remaining until the next 5000 km
// service boundary.
func odometerDays(odometerKm float64) int {
	remaining := ServiceIntervalKm - math.Mod(odometerKm, ServiceIntervalKm)
	switch {
	case remaining < 500:
		return 7
	case remaining < 1000:
		return 14
	case remaining < 2000:
		return 30
	default:
		return baseIntervalDays
	}
}
