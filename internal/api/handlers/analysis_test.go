package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlytics/gridlytics-go/internal/analysis"
	"github.com/gridlytics/gridlytics-go/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

type stubDataFetcher struct {
	capacity   []models.CapacityRecord
	generation []models.GenerationRecord
	prices     []models.RetailPriceRecord
	hourly     []models.HourlySeriesRecord

	failRegions map[string]error
}

func (s *stubDataFetcher) regionError(region string) error {
	if err, ok := s.failRegions[region]; ok {
		return err
	}
	return nil
}

func (s *stubDataFetcher) FetchRegionData(_ context.Context, region string) (*analysis.RegionData, error) {
	if err := s.regionError(region); err != nil {
		return nil, err
	}
	return &analysis.RegionData{
		CapacityRecords:   s.capacity,
		GenerationRecords: s.generation,
		PriceRecords:      s.prices,
		HourlySeries:      s.hourly,
	}, nil
}

func (s *stubDataFetcher) FetchCapacity(_ context.Context, region string) ([]models.CapacityRecord, error) {
	return s.capacity, s.regionError(region)
}

func (s *stubDataFetcher) FetchGeneration(_ context.Context, region string) ([]models.GenerationRecord, error) {
	return s.generation, s.regionError(region)
}

func (s *stubDataFetcher) FetchPrices(_ context.Context, region, _ string) ([]models.RetailPriceRecord, error) {
	return s.prices, s.regionError(region)
}

func (s *stubDataFetcher) FetchHourly(_ context.Context, region string) ([]models.HourlySeriesRecord, error) {
	return s.hourly, s.regionError(region)
}

func populatedFetcher() *stubDataFetcher {
	units := "thousand megawatthours"
	values := []float64{9000, 11000, 8500, 10500}
	hourly := make([]models.HourlySeriesRecord, 0, len(values))
	for i := range values {
		hourly = append(hourly, models.HourlySeriesRecord{Value: &values[i]})
	}

	return &stubDataFetcher{
		capacity: []models.CapacityRecord{
			{Period: "2024-06", FuelCode: "SUN", SummerCapacityMW: floatPtr(5000)},
			{Period: "2024-06", FuelCode: "NG", SummerCapacityMW: floatPtr(10000)},
		},
		generation: []models.GenerationRecord{
			{Period: "2024-06", FuelCode: "NG", GenerationValue: floatPtr(600), GenerationUnits: &units},
			{Period: "2024-06", FuelCode: "SUN", GenerationValue: floatPtr(400), GenerationUnits: &units},
			{Period: "2024-05", FuelCode: "NG", GenerationValue: floatPtr(700), GenerationUnits: &units},
		},
		prices: []models.RetailPriceRecord{
			{Period: "2024-06", PriceCentsPerKWh: floatPtr(15)},
			{Period: "2024-05", PriceCentsPerKWh: floatPtr(12)},
		},
		hourly: hourly,
	}
}

func testRouter(fetcher DataFetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	handler := NewAnalysisHandler(fetcher, analysis.DefaultPolicy(), logger)

	router := gin.New()
	router.GET("/api/v1/generation/mix", handler.GetGenerationMix)
	router.GET("/api/v1/capacity", handler.GetCapacity)
	router.GET("/api/v1/capacity/utilization", handler.GetUtilization)
	router.GET("/api/v1/grid/stability", handler.GetStability)
	router.GET("/api/v1/prices", handler.GetPrices)
	router.GET("/api/v1/storage/opportunity", handler.GetStorageOpportunity)
	router.POST("/api/v1/storage/rank", handler.RankStorageOpportunities)
	return router
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRegionParameterIsRequired(t *testing.T) {
	router := testRouter(populatedFetcher())

	paths := []string{
		"/api/v1/generation/mix",
		"/api/v1/capacity",
		"/api/v1/capacity/utilization",
		"/api/v1/grid/stability",
		"/api/v1/prices",
		"/api/v1/storage/opportunity",
	}
	for _, path := range paths {
		w := doGet(router, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestGetGenerationMix(t *testing.T) {
	router := testRouter(populatedFetcher())

	w := doGet(router, "/api/v1/generation/mix?region=CAL")
	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerationMixResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CAL", resp.Region)
	assert.Equal(t, "2024-06", resp.Period)
	assert.Equal(t, "NG", resp.DominantFuel)
	assert.InDelta(t, 1000, resp.TotalGWh, 1e-9)
	assert.Equal(t, analysis.TrendUp, resp.Trend)
}

func TestGetCapacity(t *testing.T) {
	router := testRouter(populatedFetcher())

	w := doGet(router, "/api/v1/capacity?region=CAL")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CapacityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 15000, resp.Regional.TotalSummerCapacityMW, 1e-9)
	require.Len(t, resp.ByFuel, 2)
	assert.Equal(t, "NG", resp.ByFuel[0].FuelCode)
	assert.Equal(t, "SUN", resp.ByFuel[1].FuelCode)
}

func TestGetUtilization(t *testing.T) {
	router := testRouter(populatedFetcher())

	w := doGet(router, "/api/v1/capacity/utilization?region=CAL")
	require.Equal(t, http.StatusOK, w.Code)

	var resp UtilizationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CAL", resp.Region)
	require.NotNil(t, resp.Utilization.Ratio)
	assert.Greater(t, *resp.Utilization.Ratio, 0.0)
}

func TestGetStability(t *testing.T) {
	router := testRouter(populatedFetcher())

	w := doGet(router, "/api/v1/grid/stability?region=CISO")
	require.Equal(t, http.StatusOK, w.Code)

	var resp StabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.SampleCount)
	assert.InDelta(t, 9750, resp.DemandSupply.AverageDemandMW, 1e-9)
}

func TestGetPrices(t *testing.T) {
	router := testRouter(populatedFetcher())

	w := doGet(router, "/api/v1/prices?region=CAL")
	require.Equal(t, http.StatusOK, w.Code)

	var resp PricesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ALL", resp.Sector)
	assert.Equal(t, analysis.PriceTrendRising, resp.PriceTrend)
	assert.InDelta(t, 13.5, resp.Economics.AveragePriceCentsPerKWh, 1e-9)
	assert.Equal(t, 2, resp.PeriodCount)
}

func TestGetStorageOpportunity(t *testing.T) {
	t.Run("scores a populated region", func(t *testing.T) {
		router := testRouter(populatedFetcher())

		w := doGet(router, "/api/v1/storage/opportunity?region=CAL")
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.EnergyStorageOpportunityMetrics
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "CAL", resp.Region)
		assert.GreaterOrEqual(t, resp.StorageOpportunityScore.OverallScore, 0.0)
		assert.LessOrEqual(t, resp.StorageOpportunityScore.OverallScore, 100.0)
	})

	t.Run("no capacity data is unprocessable", func(t *testing.T) {
		router := testRouter(&stubDataFetcher{})

		w := doGet(router, "/api/v1/storage/opportunity?region=EMPTY")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("fetch failure is a bad gateway", func(t *testing.T) {
		fetcher := populatedFetcher()
		fetcher.failRegions = map[string]error{"DOWN": errors.New("connection refused")}
		router := testRouter(fetcher)

		w := doGet(router, "/api/v1/storage/opportunity?region=DOWN")
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestRankStorageOpportunities(t *testing.T) {
	t.Run("ranks surviving regions and reports failures", func(t *testing.T) {
		fetcher := populatedFetcher()
		fetcher.failRegions = map[string]error{"BB": errors.New("upstream timeout")}
		router := testRouter(fetcher)

		body, err := json.Marshal(RankRequest{Regions: []string{"AA", "BB"}})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/storage/rank", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var result models.RankingResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		require.Len(t, result.DetailedResults, 1)
		assert.Equal(t, "AA", result.DetailedResults[0].Region)
		require.Len(t, result.FailedRegions, 1)
		assert.Equal(t, "BB", result.FailedRegions[0].Region)
		assert.NotEmpty(t, result.FailedRegions[0].Error)
	})

	t.Run("empty regions array is rejected", func(t *testing.T) {
		router := testRouter(populatedFetcher())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/storage/rank", bytes.NewReader([]byte(`{"regions":[]}`)))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		router := testRouter(populatedFetcher())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/storage/rank", bytes.NewReader([]byte(`not json`)))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
