// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/rehabdesk/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// RoundWhole rounds a value to the nearest whole currency unit, halves away
// from zero.
func RoundWhole(val float64) float64 {
	r := math.Round(val)
	if r == 0 {
		// normalize -0
		return 0
	}
	return r
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// Outlay returns a cash outlay as a non-positive amount regardless of the
// sign it was entered with.
func Outlay(val float64) float64 {
	if val == 0 {
		return 0
	}
	return -math.Abs(val)
}

// CompoundGrowth returns the gain of base after years of growth at rate,
// compounded from base: base*(1+rate)^years - base.
func CompoundGrowth(base, rate float64, years int) float64 {
	return base*math.Pow(1+rate, float64(years)) - base
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * 100
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}
