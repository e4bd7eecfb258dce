package analysis

import (
	"github.com/gridlytics/gridlytics-go/internal/models"
)

// hoursPerMonth is the average month length in hours, using 365.25/12 days
// to account for leap years.
const hoursPerMonth = 30.4375 * 24

// EstimateUtilization estimates the ratio of actual generation to the
// theoretical full-capacity output over an average month. Summer capacity is
// used year-round, which understates utilization where winter capacity is
// the binding constraint; a documented heuristic, not a physical figure.
//
// With no generation records, or no positive summer capacity, the ratio is
// nil and totals are zero.
func EstimateUtilization(capacity models.RegionalCapacityMetrics, records []models.GenerationRecord) models.CapacityUtilization {
	var result models.CapacityUtilization
	if len(records) == 0 || capacity.TotalSummerCapacityMW <= 0 {
		return result
	}

	latest := LatestGenerationPeriod(records)

	var generationMWh, consumptionMWh float64
	for _, rec := range records {
		if rec.Period != latest {
			continue
		}
		generationMWh += valueOrZero(rec.GenerationValue)
		consumptionMWh += valueOrZero(rec.TotalConsumption)
	}

	potentialMWh := capacity.TotalSummerCapacityMW * hoursPerMonth
	if potentialMWh > 0 {
		ratio := roundTo(generationMWh/potentialMWh, 4)
		result.Ratio = &ratio
	}

	result.TotalGenerationGWh = roundTo(generationMWh/1000, 3)
	result.TotalConsumptionGWh = roundTo(consumptionMWh/1000, 3)
	return result
}
