package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/gridlytics/gridlytics-go/internal/cache"
	"github.com/gridlytics/gridlytics-go/internal/database"
)

// HealthHandler serves liveness and runtime statistics.
type HealthHandler struct {
	redis     *database.RedisClient
	series    *cache.SeriesCache
	startedAt time.Time
}

// NewHealthHandler creates a health handler. Redis may be nil when caching
// is disabled.
func NewHealthHandler(redis *database.RedisClient, series *cache.SeriesCache) *HealthHandler {
	return &HealthHandler{redis: redis, series: series, startedAt: time.Now().UTC()}
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status        string                 `json:"status"`
	Timestamp     time.Time              `json:"timestamp"`
	Version       string                 `json:"version"`
	UptimeSeconds float64                `json:"uptime_seconds"`
	Services      HealthServices         `json:"services"`
	Cache         cache.SeriesCacheStats `json:"cache"`
	Runtime       RuntimeStats           `json:"runtime"`
}

// HealthServices reports per-dependency status.
type HealthServices struct {
	Redis string `json:"redis"`
}

// RuntimeStats reports process and host resource usage.
type RuntimeStats struct {
	Goroutines        int     `json:"goroutines"`
	HeapAllocMB       float64 `json:"heap_alloc_mb"`
	HostMemoryUsedPct float64 `json:"host_memory_used_pct"`
	HostCPUPct        float64 `json:"host_cpu_pct"`
}

// Check reports service health. Cache being down degrades the service but
// does not fail the check: analyses still work, just uncached.
func (h *HealthHandler) Check(c *gin.Context) {
	response := HealthResponse{
		Status:        "ok",
		Timestamp:     time.Now().UTC(),
		Version:       "1.0.0",
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		Services:      HealthServices{Redis: "disabled"},
		Cache:         h.series.Stats(),
		Runtime:       collectRuntimeStats(),
	}

	if h.redis != nil {
		response.Services.Redis = "ok"
		if err := h.redis.HealthCheck(c.Request.Context()); err != nil {
			response.Services.Redis = "error"
			response.Status = "degraded"
		}
	}

	c.JSON(http.StatusOK, response)
}

func collectRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := RuntimeStats{
		Goroutines:  runtime.NumGoroutine(),
		HeapAllocMB: float64(memStats.HeapAlloc) / (1024 * 1024),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.HostMemoryUsedPct = vm.UsedPercent
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.HostCPUPct = percents[0]
	}

	return stats
}
