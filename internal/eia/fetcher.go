package eia

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/gridlytics/gridlytics-go/internal/analysis"
	"github.com/gridlytics/gridlytics-go/internal/cache"
	"github.com/gridlytics/gridlytics-go/internal/models"
)

// RegionFetcher retrieves the data categories needed to analyze a region,
// consulting the series cache before the API. It satisfies
// analysis.RegionDataFetcher.
type RegionFetcher struct {
	client *Client
	cache  *cache.SeriesCache
	logger *logrus.Logger
}

// NewRegionFetcher creates a fetcher over the given client and cache. The
// cache may be nil, in which case every fetch goes to the API.
func NewRegionFetcher(client *Client, seriesCache *cache.SeriesCache, logger *logrus.Logger) *RegionFetcher {
	return &RegionFetcher{client: client, cache: seriesCache, logger: logger}
}

var _ analysis.RegionDataFetcher = (*RegionFetcher)(nil)

// FetchRegionData fetches capacity, generation, price and hourly demand data
// for one region. The four category fetches are independent reads and run
// concurrently. Capacity, generation and price failures fail the region;
// a missing hourly series is tolerated because the stability estimators
// carry documented fallbacks for it.
func (f *RegionFetcher) FetchRegionData(ctx context.Context, region string) (*analysis.RegionData, error) {
	data := &analysis.RegionData{}

	var (
		wg                                  sync.WaitGroup
		capErr, genErr, priceErr, hourlyErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		data.CapacityRecords, capErr = f.FetchCapacity(ctx, region)
	}()
	go func() {
		defer wg.Done()
		data.GenerationRecords, genErr = f.FetchGeneration(ctx, region)
	}()
	go func() {
		defer wg.Done()
		data.PriceRecords, priceErr = f.FetchPrices(ctx, region, "")
	}()
	go func() {
		defer wg.Done()
		data.HourlySeries, hourlyErr = f.FetchHourly(ctx, region)
	}()
	wg.Wait()

	if capErr != nil {
		return nil, fmt.Errorf("capacity data for %s: %w", region, capErr)
	}
	if genErr != nil {
		return nil, fmt.Errorf("generation data for %s: %w", region, genErr)
	}
	if priceErr != nil {
		return nil, fmt.Errorf("price data for %s: %w", region, priceErr)
	}
	if hourlyErr != nil {
		f.logger.WithFields(logrus.Fields{
			"region": region,
			"error":  hourlyErr.Error(),
		}).Warn("Hourly demand unavailable, stability estimates will use fallbacks")
		data.HourlySeries = nil
	}

	return data, nil
}

// FetchCapacity returns plant-level capacity records for a region, cached.
func (f *RegionFetcher) FetchCapacity(ctx context.Context, region string) ([]models.CapacityRecord, error) {
	key := "capacity:" + region
	var cached []models.CapacityRecord
	if f.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	records, err := f.client.GetOperatingCapacity(ctx, region)
	if err != nil {
		return nil, err
	}
	f.cache.Set(ctx, key, records)
	return records, nil
}

// FetchGeneration returns per-fuel generation records for a region, cached.
func (f *RegionFetcher) FetchGeneration(ctx context.Context, region string) ([]models.GenerationRecord, error) {
	key := "generation:" + region
	var cached []models.GenerationRecord
	if f.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	records, err := f.client.GetGenerationMix(ctx, region)
	if err != nil {
		return nil, err
	}
	f.cache.Set(ctx, key, records)
	return records, nil
}

// FetchPrices returns retail price records for a region and sector, cached
// per sector. An empty sector means the all-sector aggregate.
func (f *RegionFetcher) FetchPrices(ctx context.Context, region, sector string) ([]models.RetailPriceRecord, error) {
	if sector == "" {
		sector = "ALL"
	}
	key := "prices:" + region + ":" + sector
	var cached []models.RetailPriceRecord
	if f.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	records, err := f.client.GetRetailPrices(ctx, region, sector)
	if err != nil {
		return nil, err
	}
	f.cache.Set(ctx, key, records)
	return records, nil
}

// FetchHourly returns the hourly demand series for a region, cached.
func (f *RegionFetcher) FetchHourly(ctx context.Context, region string) ([]models.HourlySeriesRecord, error) {
	key := "hourly:" + region
	var cached []models.HourlySeriesRecord
	if f.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	records, err := f.client.GetHourlyDemand(ctx, region)
	if err != nil {
		return nil, err
	}
	f.cache.Set(ctx, key, records)
	return records, nil
}
