// Package analysis derives summary metrics and composite storage opportunity
// scores from validated EIA record arrays. Every function in this package is
// a pure function of its inputs: no I/O, no retries, no state carried
// between calls. Missing or degenerate input is handled with documented
// fallback values rather than errors, so one missing data category never
// fails a whole analysis.
package analysis

import "math"

// valueOrZero coerces a missing numeric value to 0. Several aggregations
// (price averaging, generation summation) deliberately treat "not reported"
// as 0, which understates true averages when nulls dominate. All null
// coercion in this package goes through here so a stricter null-aware
// variant can be swapped in without touching call sites.
func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// clamp bounds x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// roundTo rounds x to the given number of decimal places.
func roundTo(x float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(x*factor) / factor
}
