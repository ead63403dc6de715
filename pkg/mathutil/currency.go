// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/mortgage-visualizer/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for display and logical comparisons, never inside the schedule math.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinRelativeTolerance checks if two values agree to within tolerance
// relative to the larger magnitude. Two zeros always agree.
func WithinRelativeTolerance(val1, val2, tolerance float64) bool {
	scale := math.Max(math.Abs(val1), math.Abs(val2))
	if scale == 0 {
		return true
	}
	return math.Abs(val1-val2)/scale <= tolerance
}

// NonNegative clamps negative values, including negative zero, to 0.
func NonNegative(val float64) float64 {
	if val > 0 {
		return val
	}
	return 0
}

// PeriodicRate converts an annual percentage rate to the rate applied per
// payment period.
func PeriodicRate(annualPercent float64, periodsPerYear int) float64 {
	if periodsPerYear <= 0 {
		return 0
	}
	return annualPercent / constants.PercentageMultiplier / float64(periodsPerYear)
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}
