package utils

import "math"

// RoundMoney rounds to cents. All ledger arithmetic goes through this so
// float drift never reaches the stored decimals.
func RoundMoney(val float64) float64 {
	return math.Round(val*100) / 100
}

// ClampNonNegative floors a balance at zero.
func ClampNonNegative(val float64) float64 {
	if val < 0 {
		return 0
	}
	return val
}
