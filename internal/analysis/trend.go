package analysis

import "math"

// Trend classifies a month-over-month change in an aggregate quantity.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// PriceTrend classifies a month-over-month change in a retail price.
type PriceTrend string

const (
	PriceTrendRising  PriceTrend = "rising"
	PriceTrendFalling PriceTrend = "falling"
	PriceTrendFlat    PriceTrend = "flat"
)

// priceTrendDeadband is an absolute band in cents/kWh. Price deltas are
// small-magnitude, so a relative band would be too noisy.
const priceTrendDeadband = 0.1

// ClassifyTrend compares the latest value against the previous one using a
// relative deadband of 1% of the previous value, with a minimum absolute
// band of 1 to avoid instability when the previous value is near 0.
// Nil values coerce to 0 before comparison, which can misclassify missing
// data as a small value; callers own that tradeoff.
func ClassifyTrend(latest, previous *float64) Trend {
	l := valueOrZero(latest)
	p := valueOrZero(previous)

	threshold := math.Max(math.Abs(p)*0.01, 1)
	delta := l - p

	switch {
	case delta > threshold:
		return TrendUp
	case delta < -threshold:
		return TrendDown
	default:
		return TrendFlat
	}
}

// ClassifyPriceTrend compares a (latest, previous) retail price pair using a
// fixed 0.1 cents/kWh deadband. Nil values coerce to 0.
func ClassifyPriceTrend(latest, previous *float64) PriceTrend {
	delta := valueOrZero(latest) - valueOrZero(previous)

	switch {
	case delta > priceTrendDeadband:
		return PriceTrendRising
	case delta < -priceTrendDeadband:
		return PriceTrendFalling
	default:
		return PriceTrendFlat
	}
}
