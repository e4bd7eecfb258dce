package analysis

import (
	"math"

	"github.com/gridlytics/gridlytics-go/internal/models"
)

const hoursPerYear = 8760

// BuildGridCapacity splits a by-fuel capacity aggregation into renewable,
// fossil and total summer-capacity buckets. Codes outside both buckets
// count only toward the total.
func BuildGridCapacity(byFuel map[string]*models.FuelCapacity) models.GridCapacityMetrics {
	var metrics models.GridCapacityMetrics
	for code, entry := range byFuel {
		metrics.TotalCapacityMW += entry.SummerCapacityMW
		switch {
		case renewableFuelCodes[code]:
			metrics.RenewableCapacityMW += entry.SummerCapacityMW
		case fossilFuelCodes[code]:
			metrics.FossilCapacityMW += entry.SummerCapacityMW
		}
	}
	return metrics
}

// EstimateRenewableIntegration layers duck-curve and curtailment heuristics
// on the capacity mix. Duck-curve severity grows with the solar share of
// variable renewables; the +1 MW in the denominator avoids division by zero
// and dampens the ratio when both solar and wind are near zero. Estimated
// curtailment applies the policy's fixed capacity-factor and curtailment-rate
// assumptions; neither is derived from the fetched data.
func EstimateRenewableIntegration(byFuel map[string]*models.FuelCapacity, policy Policy) models.RenewableIntegrationMetrics {
	capacity := BuildGridCapacity(byFuel)

	var solarMW, windMW float64
	if entry, ok := byFuel["SUN"]; ok {
		solarMW = entry.SummerCapacityMW
	}
	if entry, ok := byFuel["WND"]; ok {
		windMW = entry.SummerCapacityMW
	}

	var penetration float64
	if capacity.TotalCapacityMW > 0 {
		penetration = capacity.RenewableCapacityMW / capacity.TotalCapacityMW * 100
	}

	solarShare := solarMW / (solarMW + windMW + 1)
	duckCurve := math.Min(solarShare*2, 1)

	curtailment := (solarMW + windMW) * hoursPerYear * policy.RenewableCapacityFactor * policy.CurtailmentRate

	return models.RenewableIntegrationMetrics{
		RenewablePenetrationPercent: penetration,
		SolarCapacityMW:             solarMW,
		WindCapacityMW:              windMW,
		DuckCurveSeverity:           duckCurve,
		EstimatedCurtailmentMWh:     curtailment,
	}
}
