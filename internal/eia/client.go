package eia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/gridlytics/gridlytics-go/internal/config"
	"github.com/gridlytics/gridlytics-go/internal/models"
	"github.com/gridlytics/gridlytics-go/internal/utils"
)

// Dataset routes under the EIA v2 API.
const (
	routeOperatingCapacity = "electricity/operating-generator-capacity/data/"
	routeOperationalData   = "electricity/electric-power-operational-data/data/"
	routeRetailSales       = "electricity/retail-sales/data/"
	routeRTORegionData     = "electricity/rto/region-data/data/"
)

// Client is the EIA v2 REST client. It owns API-key auth, rate limiting,
// retries and response-shape validation; everything downstream receives
// validated typed records sorted descending by period.
type Client struct {
	HTTPClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	maxRetries int
	rowLimit   int
	logger     *logrus.Logger
}

// NewClient creates an EIA API client from configuration.
func NewClient(cfg *config.EIAConfig, logger *logrus.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 2
	}

	rowLimit := cfg.RowLimit
	if rowLimit <= 0 {
		rowLimit = 5000
	}

	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		maxRetries: cfg.MaxRetries,
		rowLimit:   rowLimit,
		logger:     logger,
	}
}

// GetOperatingCapacity retrieves plant-level seasonal capacity records for a
// region, newest period first.
func (c *Client) GetOperatingCapacity(ctx context.Context, region string) ([]models.CapacityRecord, error) {
	params := url.Values{}
	params.Set("frequency", "monthly")
	params.Add("data[0]", "net-summer-capacity-mw")
	params.Add("data[1]", "net-winter-capacity-mw")
	params.Add("facets[stateid][]", region)

	body, err := c.fetchRows(ctx, routeOperatingCapacity, params)
	if err != nil {
		return nil, err
	}

	var rows []capacityRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, utils.NewValidationErrorf("operating capacity rows have unexpected shape: %v", err)
	}

	records := make([]models.CapacityRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.CapacityRecord{
			Period:           row.Period,
			RegionCode:       row.StateID,
			FuelCode:         row.EnergySourceCode,
			PlantName:        row.PlantName,
			SummerCapacityMW: row.NetSummerCapacity.Ptr(),
			WinterCapacityMW: row.NetWinterCapacity.Ptr(),
		})
	}
	return records, nil
}

// GetGenerationMix retrieves per-fuel generation records for a region,
// newest period first.
func (c *Client) GetGenerationMix(ctx context.Context, region string) ([]models.GenerationRecord, error) {
	params := url.Values{}
	params.Set("frequency", "monthly")
	params.Add("data[0]", "generation")
	params.Add("data[1]", "total-consumption")
	params.Add("facets[location][]", region)

	body, err := c.fetchRows(ctx, routeOperationalData, params)
	if err != nil {
		return nil, err
	}

	var rows []generationRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, utils.NewValidationErrorf("generation rows have unexpected shape: %v", err)
	}

	records := make([]models.GenerationRecord, 0, len(rows))
	for _, row := range rows {
		var units *string
		if row.GenerationUnits != "" {
			u := row.GenerationUnits
			units = &u
		}
		records = append(records, models.GenerationRecord{
			Period:           row.Period,
			FuelCode:         row.FuelTypeID,
			FuelDescription:  row.FuelTypeDescription,
			GenerationValue:  row.Generation.Ptr(),
			GenerationUnits:  units,
			TotalConsumption: row.TotalConsumption.Ptr(),
		})
	}
	return records, nil
}

// GetRetailPrices retrieves monthly retail price records for a region and
// sector, newest period first. Sector defaults to all-sector ("ALL").
func (c *Client) GetRetailPrices(ctx context.Context, region, sector string) ([]models.RetailPriceRecord, error) {
	if sector == "" {
		sector = "ALL"
	}

	params := url.Values{}
	params.Set("frequency", "monthly")
	params.Add("data[0]", "price")
	params.Add("data[1]", "sales")
	params.Add("facets[stateid][]", region)
	params.Add("facets[sectorid][]", sector)

	body, err := c.fetchRows(ctx, routeRetailSales, params)
	if err != nil {
		return nil, err
	}

	var rows []retailPriceRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, utils.NewValidationErrorf("retail price rows have unexpected shape: %v", err)
	}

	records := make([]models.RetailPriceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.RetailPriceRecord{
			Period:           row.Period,
			RegionCode:       row.StateID,
			SectorCode:       row.SectorID,
			PriceCentsPerKWh: row.Price.Ptr(),
			SalesMWh:         row.Sales.Ptr(),
		})
	}
	return records, nil
}

// GetHourlyDemand retrieves the hourly demand series for a balancing
// authority, newest hour first.
func (c *Client) GetHourlyDemand(ctx context.Context, respondent string) ([]models.HourlySeriesRecord, error) {
	params := url.Values{}
	params.Set("frequency", "hourly")
	params.Add("data[0]", "value")
	params.Add("facets[respondent][]", respondent)
	params.Add("facets[type][]", "D")

	body, err := c.fetchRows(ctx, routeRTORegionData, params)
	if err != nil {
		return nil, err
	}

	var rows []hourlyRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, utils.NewValidationErrorf("hourly series rows have unexpected shape: %v", err)
	}

	records := make([]models.HourlySeriesRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.HourlySeriesRecord{
			Period:         row.Period,
			RespondentCode: row.Respondent,
			SeriesType:     row.Type,
			Value:          row.Value.Ptr(),
		})
	}
	return records, nil
}

// fetchRows performs a GET against a dataset route and returns the raw data
// array after envelope validation. Every request carries the descending
// period sort the aggregators rely on.
func (c *Client) fetchRows(ctx context.Context, route string, params url.Values) (json.RawMessage, error) {
	params.Set("api_key", c.apiKey)
	params.Add("sort[0][column]", "period")
	params.Add("sort[0][direction]", "desc")
	params.Set("length", fmt.Sprintf("%d", c.rowLimit))

	requestURL := fmt.Sprintf("%s/%s?%s", c.baseURL, route, params.Encode())

	var lastErr error
	attempts := c.maxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, retryable, err := c.doRequest(ctx, requestURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		c.logger.WithFields(logrus.Fields{
			"route":   route,
			"attempt": attempt + 1,
			"error":   err.Error(),
		}).Warn("EIA request failed, retrying")
	}

	return nil, fmt.Errorf("EIA request failed after %d attempts: %w", attempts, lastErr)
}

func (c *Client) doRequest(ctx context.Context, requestURL string) (json.RawMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Debug("Error closing response body")
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		var env envelope
		if err := json.Unmarshal(respBody, &env); err == nil && env.Error != "" {
			return nil, retryable, fmt.Errorf("EIA API error (%d): %s", resp.StatusCode, env.Error)
		}
		return nil, retryable, fmt.Errorf("EIA API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, false, utils.NewValidationErrorf("response is not valid JSON: %v", err)
	}
	if env.Response == nil {
		return nil, false, utils.NewValidationError("response envelope is missing")
	}
	if len(env.Response.Data) == 0 {
		return nil, false, utils.NewValidationError("response data array is missing")
	}
	return env.Response.Data, false, nil
}
