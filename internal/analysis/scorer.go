package analysis

import (
	"math"
	"time"

	"github.com/gridlytics/gridlytics-go/internal/models"
)

// ScoreInput carries the validated record arrays for one region. CapacityByFuel
// must be non-empty; the caller owns that guard (see RankRegions), the scorer
// itself does not validate and will produce degenerate zero scores if invoked
// with no capacity data.
type ScoreInput struct {
	Region            string
	CapacityByFuel    map[string]*models.FuelCapacity
	HourlySeries      []models.HourlySeriesRecord
	GenerationRecords []models.GenerationRecord
	PriceRecords      []models.RetailPriceRecord
}

// ScoreStorageOpportunity combines capacity, demand, renewable-penetration,
// grid-stability and price data into four weighted sub-scores and one overall
// score, each clamped to [0, 100]. The sub-score formulas are unbounded
// heuristics before clamping, so the clamp is what guarantees the range for
// adversarially large inputs.
func ScoreStorageOpportunity(input ScoreInput, policy Policy) *models.EnergyStorageOpportunityMetrics {
	gridCapacity := BuildGridCapacity(input.CapacityByFuel)
	demandSupply := EstimateDemandSupply(input.HourlySeries)
	stability := EstimateGridStability(input.HourlySeries)
	renewable := EstimateRenewableIntegration(input.CapacityByFuel, policy)
	economics := EstimateEconomics(input.PriceRecords, policy)

	mix := SummarizeGenerationMix(input.GenerationRecords)
	mixSummary := BuildGenerationMixSummary(input.Region, LatestGenerationPeriod(input.GenerationRecords), mix)

	peakShaving := clamp(
		(1-demandSupply.LoadFactor)*50+demandSupply.DemandVariabilityIndex*200,
		0, 100)

	renewableIntegration := clamp(
		renewable.RenewablePenetrationPercent*0.5+
			renewable.DuckCurveSeverity*30+
			math.Min(renewable.EstimatedCurtailmentMWh/policy.CurtailmentNormMWh, 1)*20,
		0, 100)

	gridServices := clamp(
		math.Min(stability.MaxHourlyRampMW/policy.MaxRampNormMW, 1)*40+
			math.Min(stability.RampingFrequencyPerDay/policy.RampFrequencyNormPerDay, 1)*30+
			math.Min(stability.FrequencyRegulationNeedMW/policy.RegulationNormMW, 1)*30,
		0, 100)

	economic := clamp(
		math.Min(economics.AveragePriceCentsPerKWh/policy.PriceNormCentsPerKWh, 1)*30+
			economics.PriceVolatilityIndex*100+
			math.Min(economics.EstimatedArbitrageRevenuePerYear/policy.ArbitrageRevenueNorm, 1)*40,
		0, 100)

	overall := clamp(
		peakShaving*policy.PeakShavingWeight+
			renewableIntegration*policy.RenewableIntegrationWeight+
			gridServices*policy.GridServicesWeight+
			economic*policy.EconomicWeight,
		0, 100)

	return &models.EnergyStorageOpportunityMetrics{
		Region:               input.Region,
		AnalysisDate:         time.Now().UTC(),
		GridCapacity:         gridCapacity,
		DemandSupplyMetrics:  demandSupply,
		RenewableIntegration: renewable,
		GridStability:        stability,
		EconomicOpportunity:  economics,
		GenerationSummary:    &mixSummary,
		StorageOpportunityScore: models.StorageOpportunityScore{
			PeakShavingScore:          peakShaving,
			RenewableIntegrationScore: renewableIntegration,
			GridServicesScore:         gridServices,
			EconomicScore:             economic,
			OverallScore:              overall,
		},
	}
}
