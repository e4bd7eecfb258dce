package eia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlytics/gridlytics-go/internal/cache"
	"github.com/gridlytics/gridlytics-go/internal/config"
	"github.com/gridlytics/gridlytics-go/internal/database"
)

// fakeEIA serves minimal valid payloads for every dataset route and counts
// requests per route.
type fakeEIA struct {
	mu         sync.Mutex
	calls      map[string]int
	failHourly bool
}

func (f *fakeEIA) handler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	switch {
	case strings.Contains(r.URL.Path, "operating-generator-capacity"):
		f.calls["capacity"]++
	case strings.Contains(r.URL.Path, "electric-power-operational-data"):
		f.calls["generation"]++
	case strings.Contains(r.URL.Path, "retail-sales"):
		f.calls["prices"]++
	case strings.Contains(r.URL.Path, "rto/region-data"):
		f.calls["hourly"]++
	}
	f.mu.Unlock()

	if f.failHourly && strings.Contains(r.URL.Path, "rto/region-data") {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"unknown respondent"}`))
		return
	}

	var data string
	switch {
	case strings.Contains(r.URL.Path, "operating-generator-capacity"):
		data = `{"period":"2024-06","stateid":"CAL","energy_source_code":"SUN","net-summer-capacity-mw":"500"}`
	case strings.Contains(r.URL.Path, "electric-power-operational-data"):
		data = `{"period":"2024-06","fueltypeid":"SUN","generation":"100","generation-units":"thousand megawatthours"}`
	case strings.Contains(r.URL.Path, "retail-sales"):
		data = `{"period":"2024-06","stateid":"CAL","sectorid":"ALL","price":"14.2"}`
	default:
		data = `{"period":"2024-06-30T23","respondent":"CAL","type":"D","value":21000}`
	}
	_, _ = w.Write([]byte(`{"response":{"total":1,"data":[` + data + `]}}`))
}

func (f *fakeEIA) count(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

func newTestFetcher(t *testing.T, failHourly bool) (*RegionFetcher, *fakeEIA) {
	t.Helper()

	fake := &fakeEIA{calls: make(map[string]int), failHourly: failHourly}
	server := httptest.NewServer(http.HandlerFunc(fake.handler))
	t.Cleanup(server.Close)

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	redisClient, err := database.NewRedisConnection(config.RedisConfig{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	t.Cleanup(redisClient.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	client := testClient(server.URL, 0)
	seriesCache := cache.NewSeriesCache(redisClient, time.Minute, logger)
	return NewRegionFetcher(client, seriesCache, logger), fake
}

func TestFetchRegionData(t *testing.T) {
	fetcher, fake := newTestFetcher(t, false)

	data, err := fetcher.FetchRegionData(context.Background(), "CAL")
	require.NoError(t, err)
	require.NotNil(t, data)

	assert.Len(t, data.CapacityRecords, 1)
	assert.Len(t, data.GenerationRecords, 1)
	assert.Len(t, data.PriceRecords, 1)
	assert.Len(t, data.HourlySeries, 1)

	assert.Equal(t, 1, fake.count("capacity"))
	assert.Equal(t, 1, fake.count("generation"))
	assert.Equal(t, 1, fake.count("prices"))
	assert.Equal(t, 1, fake.count("hourly"))
}

func TestFetchRegionDataToleratesMissingHourly(t *testing.T) {
	fetcher, _ := newTestFetcher(t, true)

	data, err := fetcher.FetchRegionData(context.Background(), "CAL")
	require.NoError(t, err)
	assert.Nil(t, data.HourlySeries)
	assert.Len(t, data.CapacityRecords, 1)
}

func TestFetchCapacityUsesCache(t *testing.T) {
	fetcher, fake := newTestFetcher(t, false)
	ctx := context.Background()

	first, err := fetcher.FetchCapacity(ctx, "CAL")
	require.NoError(t, err)
	second, err := fetcher.FetchCapacity(ctx, "CAL")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.count("capacity"))
}

func TestFetchPricesCachesPerSector(t *testing.T) {
	fetcher, fake := newTestFetcher(t, false)
	ctx := context.Background()

	_, err := fetcher.FetchPrices(ctx, "CAL", "")
	require.NoError(t, err)
	_, err = fetcher.FetchPrices(ctx, "CAL", "ALL")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.count("prices"))

	_, err = fetcher.FetchPrices(ctx, "CAL", "RES")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.count("prices"))
}
