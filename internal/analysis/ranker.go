package analysis

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gridlytics/gridlytics-go/internal/models"
)

// RegionData bundles the validated record arrays fetched for one region.
// HourlySeries is optional; the estimators fall back to documented defaults
// when it is empty.
type RegionData struct {
	CapacityRecords   []models.CapacityRecord
	GenerationRecords []models.GenerationRecord
	PriceRecords      []models.RetailPriceRecord
	HourlySeries      []models.HourlySeriesRecord
}

// RegionDataFetcher retrieves the data categories needed to score a region.
// Retries and timeouts are the fetcher's responsibility; the ranker applies
// neither.
type RegionDataFetcher interface {
	FetchRegionData(ctx context.Context, region string) (*RegionData, error)
}

// Sub-score names reported as a ranked region's primary driver.
const (
	DriverPeakShaving          = "peak_shaving"
	DriverRenewableIntegration = "renewable_integration"
	DriverGridServices         = "grid_services"
	DriverEconomic             = "economic"
)

// RankRegions scores a batch of regions and sorts them by overall score.
// Each region runs as its own goroutine with no shared state; the batch
// waits for every region to settle rather than failing fast. A fetch or
// scoring failure is captured as a FailedRegion and excluded from ranking,
// never aborting the siblings.
func RankRegions(ctx context.Context, regions []string, fetcher RegionDataFetcher, policy Policy, logger *logrus.Logger) *models.RankingResult {
	result := &models.RankingResult{
		RunID:           uuid.New().String(),
		GeneratedAt:     time.Now().UTC(),
		DetailedResults: []models.RankedRegion{},
		FailedRegions:   []models.FailedRegion{},
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, region := range regions {
		wg.Add(1)
		go func(region string) {
			defer wg.Done()

			metrics, err := ScoreRegion(ctx, region, fetcher, policy)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if logger != nil {
					logger.WithFields(logrus.Fields{
						"region": region,
						"error":  err.Error(),
					}).Warn("Region excluded from ranking")
				}
				result.FailedRegions = append(result.FailedRegions, models.FailedRegion{
					Region: region,
					Error:  err.Error(),
				})
				return
			}
			result.DetailedResults = append(result.DetailedResults, models.RankedRegion{
				Region:        region,
				OverallScore:  metrics.StorageOpportunityScore.OverallScore,
				PrimaryDriver: primaryDriver(metrics.StorageOpportunityScore),
				Metrics:       metrics,
			})
		}(region)
	}
	wg.Wait()

	sort.Slice(result.DetailedResults, func(i, j int) bool {
		a, b := result.DetailedResults[i], result.DetailedResults[j]
		if a.OverallScore != b.OverallScore {
			return a.OverallScore > b.OverallScore
		}
		return a.Region < b.Region
	})
	sort.Slice(result.FailedRegions, func(i, j int) bool {
		return result.FailedRegions[i].Region < result.FailedRegions[j].Region
	})
	for i := range result.DetailedResults {
		result.DetailedResults[i].Rank = i + 1
	}

	top := len(result.DetailedResults)
	if top > 3 {
		top = 3
	}
	result.Summary = models.RankingSummary{
		RegionsAnalyzed: len(result.DetailedResults),
		RegionsFailed:   len(result.FailedRegions),
		TopRegions:      result.DetailedResults[:top],
	}

	return result
}

// ScoreRegion fetches one region's data and scores it. An empty capacity
// aggregation fails the region instead of reaching the scorer.
func ScoreRegion(ctx context.Context, region string, fetcher RegionDataFetcher, policy Policy) (*models.EnergyStorageOpportunityMetrics, error) {
	data, err := fetcher.FetchRegionData(ctx, region)
	if err != nil {
		return nil, err
	}

	byFuel := AggregateCapacityByFuel(data.CapacityRecords)
	// The scorer does not validate emptiness itself; an empty capacity mix
	// would flow degenerate totals through every sub-score, so the region
	// is failed here instead.
	if len(byFuel) == 0 {
		return nil, &NoCapacityDataError{Region: region}
	}

	return ScoreStorageOpportunity(ScoreInput{
		Region:            region,
		CapacityByFuel:    byFuel,
		HourlySeries:      data.HourlySeries,
		GenerationRecords: data.GenerationRecords,
		PriceRecords:      data.PriceRecords,
	}, policy), nil
}

// NoCapacityDataError marks a region whose capacity fetch returned no
// usable plant records.
type NoCapacityDataError struct {
	Region string
}

func (e *NoCapacityDataError) Error() string {
	return "no capacity data available for region " + e.Region
}

func primaryDriver(score models.StorageOpportunityScore) string {
	driver := DriverPeakShaving
	best := score.PeakShavingScore
	if score.RenewableIntegrationScore > best {
		driver, best = DriverRenewableIntegration, score.RenewableIntegrationScore
	}
	if score.GridServicesScore > best {
		driver, best = DriverGridServices, score.GridServicesScore
	}
	if score.EconomicScore > best {
		driver = DriverEconomic
	}
	return driver
}
