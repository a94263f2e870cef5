package plan

import "math"

// All monetary figures in the engine are float64 pounds. Roundings go
// through these helpers so every step uses the same convention:
// round-half-away-from-zero, which is what math.Round does.

// Round2 rounds a monetary amount to 2 decimal places (pennies).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds to 4 decimal places. Used for growth rates only.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Round1 rounds to 1 decimal place. Used by the shortfall solver's
// convergence check.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
