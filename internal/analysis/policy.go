package analysis

// Policy gathers every heuristic constant used by the estimators and the
// opportunity scorer. The values are policy knobs, not fitted parameters:
// they exist in one place so they can be tuned and tested in isolation
// instead of being scattered inline.
type Policy struct {
	// Reference storage asset model for arbitrage revenue.
	StorageHours        float64 `json:"storage_hours"`
	CyclesPerYear       float64 `json:"cycles_per_year"`
	RoundTripEfficiency float64 `json:"round_trip_efficiency"`

	// Renewable curtailment assumptions.
	RenewableCapacityFactor float64 `json:"renewable_capacity_factor"`
	CurtailmentRate         float64 `json:"curtailment_rate"`

	// Composite score weights; must sum to 1. Renewable integration is
	// weighted highest: renewable firming is assumed to be storage's primary
	// near-term value driver.
	PeakShavingWeight          float64 `json:"peak_shaving_weight"`
	RenewableIntegrationWeight float64 `json:"renewable_integration_weight"`
	GridServicesWeight         float64 `json:"grid_services_weight"`
	EconomicWeight             float64 `json:"economic_weight"`

	// Normalization ceilings for the grid-services and economic sub-scores.
	MaxRampNormMW           float64 `json:"max_ramp_norm_mw"`
	RampFrequencyNormPerDay float64 `json:"ramp_frequency_norm_per_day"`
	RegulationNormMW        float64 `json:"regulation_norm_mw"`
	PriceNormCentsPerKWh    float64 `json:"price_norm_cents_per_kwh"`
	ArbitrageRevenueNorm    float64 `json:"arbitrage_revenue_norm"`
	CurtailmentNormMWh      float64 `json:"curtailment_norm_mwh"`

	// Fallback economics when no price data is available.
	DefaultPriceCentsPerKWh float64 `json:"default_price_cents_per_kwh"`
	DefaultPriceVolatility  float64 `json:"default_price_volatility"`
	DefaultSpreadPerMWh     float64 `json:"default_spread_per_mwh"`
	DefaultArbitrageRevenue float64 `json:"default_arbitrage_revenue"`
}

// DefaultPolicy returns the standard heuristic constants.
func DefaultPolicy() Policy {
	return Policy{
		StorageHours:        4,
		CyclesPerYear:       300,
		RoundTripEfficiency: 0.85,

		RenewableCapacityFactor: 0.35,
		CurtailmentRate:         0.03,

		PeakShavingWeight:          0.25,
		RenewableIntegrationWeight: 0.35,
		GridServicesWeight:         0.20,
		EconomicWeight:             0.20,

		MaxRampNormMW:           1000,
		RampFrequencyNormPerDay: 10,
		RegulationNormMW:        500,
		PriceNormCentsPerKWh:    20,
		ArbitrageRevenueNorm:    100000,
		CurtailmentNormMWh:      10000,

		DefaultPriceCentsPerKWh: 10,
		DefaultPriceVolatility:  0.15,
		DefaultSpreadPerMWh:     50,
		DefaultArbitrageRevenue: 50000,
	}
}

// Renewable and fossil fuel-code buckets for the penetration calculation.
// EIA reports conventional hydro as WAT; HYD is kept as an alias seen in
// older series. Codes outside both sets still count toward total capacity
// but belong to neither bucket, so penetration plus fossil share can be
// under 100% when such codes exist. That asymmetry is deliberate and
// preserved from the upstream methodology.
var (
	renewableFuelCodes = map[string]bool{
		"SUN": true, "WND": true, "WAT": true, "HYD": true,
		"GEO": true, "BIO": true, "WAS": true,
	}
	fossilFuelCodes = map[string]bool{
		"NG": true, "COL": true, "PET": true, "OTH": true,
	}
)
