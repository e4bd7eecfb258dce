package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gridlytics/gridlytics-go/internal/models"
)

func priceRecord(period string, price *float64) models.RetailPriceRecord {
	return models.RetailPriceRecord{Period: period, PriceCentsPerKWh: price}
}

func TestEstimateEconomics(t *testing.T) {
	policy := DefaultPolicy()

	t.Run("empty input falls back to policy defaults", func(t *testing.T) {
		metrics := EstimateEconomics(nil, policy)
		assert.InDelta(t, policy.DefaultPriceCentsPerKWh, metrics.AveragePriceCentsPerKWh, 1e-9)
		assert.InDelta(t, policy.DefaultPriceVolatility, metrics.PriceVolatilityIndex, 1e-9)
		assert.InDelta(t, policy.DefaultSpreadPerMWh, metrics.PeakOffPeakSpreadPerMWh, 1e-9)
		assert.InDelta(t, policy.DefaultArbitrageRevenue, metrics.EstimatedArbitrageRevenuePerYear, 1e-9)
	})

	t.Run("average price includes missing values as zero", func(t *testing.T) {
		records := []models.RetailPriceRecord{
			priceRecord("2024-06", floatPtr(10)),
			priceRecord("2024-05", floatPtr(20)),
			priceRecord("2024-04", nil),
		}

		metrics := EstimateEconomics(records, policy)
		assert.InDelta(t, 10, metrics.AveragePriceCentsPerKWh, 1e-9)
		assert.InDelta(t, 1.0, metrics.PriceVolatilityIndex, 1e-9)
	})

	t.Run("spread and arbitrage revenue", func(t *testing.T) {
		records := []models.RetailPriceRecord{
			priceRecord("2024-06", floatPtr(10)),
			priceRecord("2024-05", floatPtr(10)),
		}

		metrics := EstimateEconomics(records, policy)
		// spread = 10 * 0.5 * 10; revenue = spread * 4h * 300 cycles * 0.85
		assert.InDelta(t, 50, metrics.PeakOffPeakSpreadPerMWh, 1e-9)
		assert.InDelta(t, 51000, metrics.EstimatedArbitrageRevenuePerYear, 1e-6)
		assert.Zero(t, metrics.PriceVolatilityIndex)
	})
}

func TestSmoothedRecentPrice(t *testing.T) {
	tests := []struct {
		name     string
		prices   []float64
		period   int
		expected float64
	}{
		{
			name:     "empty series",
			prices:   nil,
			period:   3,
			expected: 0,
		},
		{
			name:     "shorter than period returns mean",
			prices:   []float64{10, 14},
			period:   3,
			expected: 12,
		},
		{
			name:     "moving average of the final window",
			prices:   []float64{10, 12, 14, 16, 18},
			period:   3,
			expected: 16,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, SmoothedRecentPrice(tc.prices, tc.period), 1e-9)
		})
	}
}

func TestEstimateRenewableIntegration(t *testing.T) {
	policy := DefaultPolicy()

	t.Run("penetration from capacity mix", func(t *testing.T) {
		byFuel := map[string]*models.FuelCapacity{
			"SUN": {FuelCode: "SUN", SummerCapacityMW: 8000},
			"NG":  {FuelCode: "NG", SummerCapacityMW: 12000},
		}

		metrics := EstimateRenewableIntegration(byFuel, policy)
		assert.InDelta(t, 40, metrics.RenewablePenetrationPercent, 1e-9)
		assert.InDelta(t, 8000, metrics.SolarCapacityMW, 1e-9)
		assert.Zero(t, metrics.WindCapacityMW)
		// solar-dominated mix saturates duck-curve severity
		assert.InDelta(t, 1.0, metrics.DuckCurveSeverity, 1e-9)
		// 8000 MW * 8760 h * 0.35 CF * 0.03 curtailment
		assert.InDelta(t, 735840, metrics.EstimatedCurtailmentMWh, 1e-6)
	})

	t.Run("empty mix is all zeros", func(t *testing.T) {
		metrics := EstimateRenewableIntegration(map[string]*models.FuelCapacity{}, policy)
		assert.Zero(t, metrics.RenewablePenetrationPercent)
		assert.Zero(t, metrics.DuckCurveSeverity)
		assert.Zero(t, metrics.EstimatedCurtailmentMWh)
	})
}

func TestBuildGridCapacity(t *testing.T) {
	byFuel := map[string]*models.FuelCapacity{
		"SUN": {FuelCode: "SUN", SummerCapacityMW: 100},
		"WAT": {FuelCode: "WAT", SummerCapacityMW: 200},
		"NG":  {FuelCode: "NG", SummerCapacityMW: 300},
		"NUC": {FuelCode: "NUC", SummerCapacityMW: 400},
	}

	metrics := BuildGridCapacity(byFuel)
	assert.InDelta(t, 1000, metrics.TotalCapacityMW, 1e-9)
	assert.InDelta(t, 300, metrics.RenewableCapacityMW, 1e-9)
	assert.InDelta(t, 300, metrics.FossilCapacityMW, 1e-9)
}
