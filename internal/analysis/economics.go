package analysis

import (
	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"github.com/gridlytics/gridlytics-go/internal/models"
)

// EstimateEconomics derives storage economics from a monthly retail price
// series. With no records it returns the policy's fallback constants, an
// explicit placeholder branch rather than a computed zero.
//
// The peak/off-peak spread is a unit-scaled heuristic (half the average
// retail rate, expressed per MWh) because the upstream monthly data carries
// no time-of-day granularity. Arbitrage revenue assumes the policy's fixed
// reference asset (storage hours x cycles x efficiency).
func EstimateEconomics(records []models.RetailPriceRecord, policy Policy) models.EconomicOpportunityMetrics {
	if len(records) == 0 {
		return models.EconomicOpportunityMetrics{
			AveragePriceCentsPerKWh:          policy.DefaultPriceCentsPerKWh,
			PriceVolatilityIndex:             policy.DefaultPriceVolatility,
			PeakOffPeakSpreadPerMWh:          policy.DefaultSpreadPerMWh,
			EstimatedArbitrageRevenuePerYear: policy.DefaultArbitrageRevenue,
		}
	}

	prices := make([]float64, 0, len(records))
	for _, rec := range records {
		prices = append(prices, valueOrZero(rec.PriceCentsPerKWh))
	}

	stats := Describe(prices)
	spread := stats.Avg * 0.5 * 10
	revenue := spread * policy.StorageHours * policy.CyclesPerYear * policy.RoundTripEfficiency

	return models.EconomicOpportunityMetrics{
		AveragePriceCentsPerKWh:          stats.Avg,
		PriceVolatilityIndex:             stats.CoefficientOfVariation,
		PeakOffPeakSpreadPerMWh:          spread,
		EstimatedArbitrageRevenuePerYear: revenue,
	}
}

// SmoothedRecentPrice computes a simple moving average over a chronological
// price series and returns its final value, a deseasonalized view of where
// the retail rate currently sits. Series shorter than the period return the
// plain mean.
func SmoothedRecentPrice(chronological []float64, period int) float64 {
	if len(chronological) == 0 {
		return 0
	}
	if period < 2 || len(chronological) < period {
		return calculateMean(chronological)
	}

	sma := trend.NewSmaWithPeriod[float64](period)
	values := helper.ChanToSlice(sma.Compute(helper.SliceToChan(chronological)))
	if len(values) == 0 {
		return calculateMean(chronological)
	}
	return values[len(values)-1]
}
