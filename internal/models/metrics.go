package models

import "time"

// RegionalCapacityMetrics holds total plant capacity for a region's latest
// reporting period.
type RegionalCapacityMetrics struct {
	Region                string  `json:"region"`
	LatestPeriod          string  `json:"latest_period"`
	TotalSummerCapacityMW float64 `json:"total_summer_capacity_mw"`
	TotalWinterCapacityMW float64 `json:"total_winter_capacity_mw"`
	PlantCount            int     `json:"plant_count"`
}

// FuelCapacity holds capacity totals for a single fuel code, aggregated
// across the fetched window. Period is the truncated year of a contributing
// record, an approximation since a bucket may span periods.
type FuelCapacity struct {
	FuelCode         string  `json:"fuel_code"`
	Period           string  `json:"period"`
	SummerCapacityMW float64 `json:"summer_capacity_mw"`
	WinterCapacityMW float64 `json:"winter_capacity_mw"`
}

// FuelGeneration holds accumulated generation for a single fuel code within
// the latest reporting period.
type FuelGeneration struct {
	FuelCode         string  `json:"fuel_code"`
	NetGenerationGWh float64 `json:"net_generation_gwh"`
	SharePercent     float64 `json:"share_percent"`
	ReportingUnits   int     `json:"reporting_units"`
	Description      string  `json:"description,omitempty"`
}

// GenerationMixSummary is the per-region generation mix for the latest period.
type GenerationMixSummary struct {
	Region       string            `json:"region"`
	Period       string            `json:"period"`
	TotalGWh     float64           `json:"total_gwh"`
	Mix          []*FuelGeneration `json:"mix"`
	DominantFuel string            `json:"dominant_fuel"`
}

// CapacityUtilization estimates how much of the installed summer capacity was
// actually used over the latest reporting month. Ratio is nil when no
// estimate is possible (no generation records or no reported capacity).
type CapacityUtilization struct {
	Ratio               *float64 `json:"ratio"`
	TotalGenerationGWh  float64  `json:"total_generation_gwh"`
	TotalConsumptionGWh float64  `json:"total_consumption_gwh"`
}

// DemandSupplyMetrics summarizes an hourly demand series.
type DemandSupplyMetrics struct {
	AverageDemandMW        float64 `json:"average_demand_mw"`
	PeakDemandMW           float64 `json:"peak_demand_mw"`
	MinimumDemandMW        float64 `json:"minimum_demand_mw"`
	LoadFactor             float64 `json:"load_factor"`
	DemandVariabilityIndex float64 `json:"demand_variability_index"`
}

// GridStabilityMetrics holds ramping and ancillary-service sizing estimates
// derived from an hourly series. Regulation and reserve figures are
// proportional heuristics, not a reliability calculation.
type GridStabilityMetrics struct {
	MaxHourlyRampMW              float64 `json:"max_hourly_ramp_mw"`
	RampingFrequencyPerDay       float64 `json:"ramping_frequency_per_day"`
	FrequencyRegulationNeedMW    float64 `json:"frequency_regulation_need_mw"`
	SpinningReserveRequirementMW float64 `json:"spinning_reserve_requirement_mw"`
}

// EconomicOpportunityMetrics holds retail-price derived economics for a
// reference storage asset.
type EconomicOpportunityMetrics struct {
	AveragePriceCentsPerKWh          float64 `json:"average_price_cents_per_kwh"`
	PriceVolatilityIndex             float64 `json:"price_volatility_index"`
	PeakOffPeakSpreadPerMWh          float64 `json:"peak_off_peak_spread_per_mwh"`
	EstimatedArbitrageRevenuePerYear float64 `json:"estimated_arbitrage_revenue_per_year"`
}

// RenewableIntegrationMetrics holds renewable-penetration and duck-curve
// heuristics layered on the capacity mix.
type RenewableIntegrationMetrics struct {
	RenewablePenetrationPercent float64 `json:"renewable_penetration_percent"`
	SolarCapacityMW             float64 `json:"solar_capacity_mw"`
	WindCapacityMW              float64 `json:"wind_capacity_mw"`
	DuckCurveSeverity           float64 `json:"duck_curve_severity"`
	EstimatedCurtailmentMWh     float64 `json:"estimated_curtailment_mwh"`
}

// GridCapacityMetrics holds the capacity totals feeding the opportunity score.
type GridCapacityMetrics struct {
	TotalCapacityMW     float64 `json:"total_capacity_mw"`
	RenewableCapacityMW float64 `json:"renewable_capacity_mw"`
	FossilCapacityMW    float64 `json:"fossil_capacity_mw"`
}

// StorageOpportunityScore holds the weighted sub-scores and the overall
// composite, each clamped to [0, 100].
type StorageOpportunityScore struct {
	PeakShavingScore          float64 `json:"peak_shaving_score"`
	RenewableIntegrationScore float64 `json:"renewable_integration_score"`
	GridServicesScore         float64 `json:"grid_services_score"`
	EconomicScore             float64 `json:"economic_score"`
	OverallScore              float64 `json:"overall_score"`
}

// EnergyStorageOpportunityMetrics is the full composite output for one region.
type EnergyStorageOpportunityMetrics struct {
	Region                  string                      `json:"region"`
	AnalysisDate            time.Time                   `json:"analysis_date"`
	GridCapacity            GridCapacityMetrics         `json:"grid_capacity"`
	DemandSupplyMetrics     DemandSupplyMetrics         `json:"demand_supply_metrics"`
	RenewableIntegration    RenewableIntegrationMetrics `json:"renewable_integration"`
	GridStability           GridStabilityMetrics        `json:"grid_stability"`
	EconomicOpportunity     EconomicOpportunityMetrics  `json:"economic_opportunity"`
	GenerationSummary       *GenerationMixSummary       `json:"generation_summary,omitempty"`
	StorageOpportunityScore StorageOpportunityScore     `json:"storage_opportunity_score"`
}

// RankedRegion is one successfully scored entry in a ranking result.
type RankedRegion struct {
	Rank          int                              `json:"rank"`
	Region        string                           `json:"region"`
	OverallScore  float64                          `json:"overall_score"`
	PrimaryDriver string                           `json:"primary_driver"`
	Metrics       *EnergyStorageOpportunityMetrics `json:"metrics"`
}

// FailedRegion records a region excluded from ranking and why.
type FailedRegion struct {
	Region string `json:"region"`
	Error  string `json:"error"`
}

// RankingSummary reports the top candidates of a ranking run.
type RankingSummary struct {
	RegionsAnalyzed int            `json:"regions_analyzed"`
	RegionsFailed   int            `json:"regions_failed"`
	TopRegions      []RankedRegion `json:"top_regions"`
}

// RankingResult is the batch output of a multi-region opportunity ranking.
// Partial success is the normal case: failed regions are reported alongside
// the ranked ones and never abort the batch.
type RankingResult struct {
	RunID           string         `json:"run_id"`
	GeneratedAt     time.Time      `json:"generated_at"`
	Summary         RankingSummary `json:"summary"`
	DetailedResults []RankedRegion `json:"detailed_results"`
	FailedRegions   []FailedRegion `json:"failed_regions"`
}
