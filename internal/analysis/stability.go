package analysis

import (
	"math"

	"github.com/gridlytics/gridlytics-go/internal/models"
)

// Fallback values used when an hourly series carries fewer than two usable
// observations. These are placeholder industry-typical figures, not values
// computed from input; the explicit fallback branch keeps a region scorable
// when hourly data is missing instead of silently returning zeros.
var (
	fallbackStability = models.GridStabilityMetrics{
		MaxHourlyRampMW:              500,
		RampingFrequencyPerDay:       4,
		FrequencyRegulationNeedMW:    100,
		SpinningReserveRequirementMW: 300,
	}
	fallbackDemandSupply = models.DemandSupplyMetrics{
		AverageDemandMW:        10000,
		PeakDemandMW:           15000,
		MinimumDemandMW:        6000,
		LoadFactor:             10000.0 / 15000.0,
		DemandVariabilityIndex: 0.15,
	}
)

// significantRampFraction is the fraction of average demand an hour-over-hour
// ramp must exceed to count as significant.
const significantRampFraction = 0.05

// EstimateDemandSupply computes peak/min/average demand, load factor and a
// variability index from an hourly series. Nil and non-finite values are
// dropped, so partial data degrades the estimate silently rather than
// failing it. Fewer than two usable values returns the documented fallback
// constants.
func EstimateDemandSupply(series []models.HourlySeriesRecord) models.DemandSupplyMetrics {
	values := usableValues(series)
	if len(values) < 2 {
		return fallbackDemandSupply
	}

	stats := Describe(values)
	peak, minimum := values[0], values[0]
	for _, v := range values {
		peak = math.Max(peak, v)
		minimum = math.Min(minimum, v)
	}

	var loadFactor float64
	if peak > 0 {
		loadFactor = stats.Avg / peak
	}

	return models.DemandSupplyMetrics{
		AverageDemandMW:        stats.Avg,
		PeakDemandMW:           peak,
		MinimumDemandMW:        minimum,
		LoadFactor:             loadFactor,
		DemandVariabilityIndex: stats.CoefficientOfVariation,
	}
}

// EstimateGridStability computes ramping metrics and simplified
// ancillary-service sizing from an hourly series. Regulation need (1% of
// average demand) and spinning reserve (half the maximum ramp) are
// proportional heuristics standing in for a real reliability study.
// Fewer than two usable values returns the documented fallback constants.
func EstimateGridStability(series []models.HourlySeriesRecord) models.GridStabilityMetrics {
	values := usableValues(series)
	if len(values) < 2 {
		return fallbackStability
	}

	avg := calculateMean(values)

	var maxRamp float64
	significantRamps := 0
	threshold := avg * significantRampFraction
	for i := 1; i < len(values); i++ {
		ramp := math.Abs(values[i] - values[i-1])
		maxRamp = math.Max(maxRamp, ramp)
		if ramp > threshold {
			significantRamps++
		}
	}

	// Normalizes the hourly-step ramp count into a per-day rate regardless
	// of the actual window length.
	rampsPerDay := float64(significantRamps) / float64(len(values)) * 24

	return models.GridStabilityMetrics{
		MaxHourlyRampMW:              maxRamp,
		RampingFrequencyPerDay:       rampsPerDay,
		FrequencyRegulationNeedMW:    avg * 0.01,
		SpinningReserveRequirementMW: maxRamp * 0.5,
	}
}

func usableValues(series []models.HourlySeriesRecord) []float64 {
	values := make([]float64, 0, len(series))
	for _, rec := range series {
		if rec.Value == nil || math.IsNaN(*rec.Value) || math.IsInf(*rec.Value, 0) {
			continue
		}
		values = append(values, *rec.Value)
	}
	return values
}
