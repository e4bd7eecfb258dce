package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gridlytics/gridlytics-go/internal/analysis"
	"github.com/gridlytics/gridlytics-go/internal/models"
	"github.com/gridlytics/gridlytics-go/internal/utils"
)

// DataFetcher is the data access surface the analysis endpoints need: the
// batch fetch used by scoring plus the per-category fetches behind the
// single-metric endpoints.
type DataFetcher interface {
	analysis.RegionDataFetcher
	FetchCapacity(ctx context.Context, region string) ([]models.CapacityRecord, error)
	FetchGeneration(ctx context.Context, region string) ([]models.GenerationRecord, error)
	FetchPrices(ctx context.Context, region, sector string) ([]models.RetailPriceRecord, error)
	FetchHourly(ctx context.Context, region string) ([]models.HourlySeriesRecord, error)
}

// AnalysisHandler serves the derived-metric and opportunity-score endpoints.
type AnalysisHandler struct {
	fetcher DataFetcher
	policy  analysis.Policy
	logger  *logrus.Logger
}

// NewAnalysisHandler creates an analysis handler.
func NewAnalysisHandler(fetcher DataFetcher, policy analysis.Policy, logger *logrus.Logger) *AnalysisHandler {
	return &AnalysisHandler{fetcher: fetcher, policy: policy, logger: logger}
}

// smaPeriod is the smoothing window for the recent-price average.
const smaPeriod = 3

// GenerationMixResponse is the payload of GET /generation/mix.
type GenerationMixResponse struct {
	models.GenerationMixSummary
	Trend     analysis.Trend `json:"trend"`
	Timestamp time.Time      `json:"timestamp"`
}

// GetGenerationMix summarizes the latest-period generation mix for a region.
func (h *AnalysisHandler) GetGenerationMix(c *gin.Context) {
	region, ok := requireRegion(c)
	if !ok {
		return
	}

	records, err := h.fetcher.FetchGeneration(c.Request.Context(), region)
	if err != nil {
		h.upstreamError(c, region, "generation", err)
		return
	}

	mix := analysis.SummarizeGenerationMix(records)
	summary := analysis.BuildGenerationMixSummary(region, analysis.LatestGenerationPeriod(records), mix)

	c.JSON(http.StatusOK, GenerationMixResponse{
		GenerationMixSummary: summary,
		Trend:                analysis.GenerationTrend(records),
		Timestamp:            time.Now().UTC(),
	})
}

// CapacityResponse is the payload of GET /capacity.
type CapacityResponse struct {
	Regional  models.RegionalCapacityMetrics `json:"regional"`
	ByFuel    []*models.FuelCapacity         `json:"by_fuel"`
	Timestamp time.Time                      `json:"timestamp"`
}

// GetCapacity reports regional capacity totals and the by-fuel breakdown.
func (h *AnalysisHandler) GetCapacity(c *gin.Context) {
	region, ok := requireRegion(c)
	if !ok {
		return
	}

	records, err := h.fetcher.FetchCapacity(c.Request.Context(), region)
	if err != nil {
		h.upstreamError(c, region, "capacity", err)
		return
	}

	byFuel := analysis.AggregateCapacityByFuel(records)
	entries := make([]*models.FuelCapacity, 0, len(byFuel))
	for _, entry := range byFuel {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SummerCapacityMW != entries[j].SummerCapacityMW {
			return entries[i].SummerCapacityMW > entries[j].SummerCapacityMW
		}
		return entries[i].FuelCode < entries[j].FuelCode
	})

	c.JSON(http.StatusOK, CapacityResponse{
		Regional:  analysis.AggregateRegionalCapacity(region, records),
		ByFuel:    entries,
		Timestamp: time.Now().UTC(),
	})
}

// UtilizationResponse is the payload of GET /capacity/utilization.
type UtilizationResponse struct {
	Region      string                         `json:"region"`
	Capacity    models.RegionalCapacityMetrics `json:"capacity"`
	Utilization models.CapacityUtilization     `json:"utilization"`
	Timestamp   time.Time                      `json:"timestamp"`
}

// GetUtilization estimates capacity utilization for a region's latest period.
func (h *AnalysisHandler) GetUtilization(c *gin.Context) {
	region, ok := requireRegion(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	capacityRecords, err := h.fetcher.FetchCapacity(ctx, region)
	if err != nil {
		h.upstreamError(c, region, "capacity", err)
		return
	}
	generationRecords, err := h.fetcher.FetchGeneration(ctx, region)
	if err != nil {
		h.upstreamError(c, region, "generation", err)
		return
	}

	capacity := analysis.AggregateRegionalCapacity(region, capacityRecords)
	c.JSON(http.StatusOK, UtilizationResponse{
		Region:      region,
		Capacity:    capacity,
		Utilization: analysis.EstimateUtilization(capacity, generationRecords),
		Timestamp:   time.Now().UTC(),
	})
}

// StabilityResponse is the payload of GET /grid/stability.
type StabilityResponse struct {
	Region       string                      `json:"region"`
	DemandSupply models.DemandSupplyMetrics  `json:"demand_supply"`
	Stability    models.GridStabilityMetrics `json:"stability"`
	SampleCount  int                         `json:"sample_count"`
	Timestamp    time.Time                   `json:"timestamp"`
}

// GetStability reports demand-supply and ramping metrics for a balancing
// authority's hourly demand series.
func (h *AnalysisHandler) GetStability(c *gin.Context) {
	region, ok := requireRegion(c)
	if !ok {
		return
	}

	series, err := h.fetcher.FetchHourly(c.Request.Context(), region)
	if err != nil {
		h.upstreamError(c, region, "hourly demand", err)
		return
	}

	c.JSON(http.StatusOK, StabilityResponse{
		Region:       region,
		DemandSupply: analysis.EstimateDemandSupply(series),
		Stability:    analysis.EstimateGridStability(series),
		SampleCount:  len(series),
		Timestamp:    time.Now().UTC(),
	})
}

// PricesResponse is the payload of GET /prices.
type PricesResponse struct {
	Region              string                            `json:"region"`
	Sector              string                            `json:"sector"`
	Economics           models.EconomicOpportunityMetrics `json:"economics"`
	PriceTrend          analysis.PriceTrend               `json:"price_trend"`
	SmoothedRecentPrice float64                           `json:"smoothed_recent_price"`
	PeriodCount         int                               `json:"period_count"`
	Timestamp           time.Time                         `json:"timestamp"`
}

// GetPrices reports retail price economics and the recent price trend.
func (h *AnalysisHandler) GetPrices(c *gin.Context) {
	region, ok := requireRegion(c)
	if !ok {
		return
	}
	sector := c.Query("sector")

	records, err := h.fetcher.FetchPrices(c.Request.Context(), region, sector)
	if err != nil {
		h.upstreamError(c, region, "retail prices", err)
		return
	}

	// Records arrive newest first; the trend compares the two most recent
	// periods and the SMA wants chronological order.
	sorted := make([]models.RetailPriceRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Period > sorted[j].Period })

	trend := analysis.PriceTrendFlat
	if len(sorted) >= 2 {
		trend = analysis.ClassifyPriceTrend(sorted[0].PriceCentsPerKWh, sorted[1].PriceCentsPerKWh)
	}

	chronological := make([]float64, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].PriceCentsPerKWh != nil {
			chronological = append(chronological, *sorted[i].PriceCentsPerKWh)
		}
	}

	if sector == "" {
		sector = "ALL"
	}
	c.JSON(http.StatusOK, PricesResponse{
		Region:              region,
		Sector:              sector,
		Economics:           analysis.EstimateEconomics(records, h.policy),
		PriceTrend:          trend,
		SmoothedRecentPrice: analysis.SmoothedRecentPrice(chronological, smaPeriod),
		PeriodCount:         len(records),
		Timestamp:           time.Now().UTC(),
	})
}

// GetStorageOpportunity scores a single region.
func (h *AnalysisHandler) GetStorageOpportunity(c *gin.Context) {
	region, ok := requireRegion(c)
	if !ok {
		return
	}

	metrics, err := analysis.ScoreRegion(c.Request.Context(), region, h.fetcher, h.policy)
	if err != nil {
		var noData *analysis.NoCapacityDataError
		if errors.As(err, &noData) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.upstreamError(c, region, "region data", err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// RankRequest is the body of POST /storage/rank.
type RankRequest struct {
	Regions []string `json:"regions" binding:"required,min=1"`
}

// RankStorageOpportunities scores a batch of regions concurrently and
// returns them ranked, with per-region failures reported alongside.
func (h *AnalysisHandler) RankStorageOpportunities(c *gin.Context) {
	var req RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request must include a non-empty regions array"})
		return
	}

	result := analysis.RankRegions(c.Request.Context(), req.Regions, h.fetcher, h.policy, h.logger)
	c.JSON(http.StatusOK, result)
}

func requireRegion(c *gin.Context) (string, bool) {
	region := c.Query("region")
	if region == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "region query parameter is required"})
		return "", false
	}
	return region, true
}

func (h *AnalysisHandler) upstreamError(c *gin.Context, region, category string, err error) {
	h.logger.WithFields(logrus.Fields{
		"region":   region,
		"category": category,
		"error":    err.Error(),
	}).Error("Upstream data fetch failed")

	status := http.StatusBadGateway
	var validationErr *utils.ValidationError
	if errors.As(err, &validationErr) {
		status = http.StatusBadGateway
	}
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	c.JSON(status, gin.H{"error": category + " unavailable for region " + region})
}
