package api

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/gridlytics/gridlytics-go/internal/api/handlers"
)

// SetupRoutes wires the analysis endpoints onto the router.
func SetupRoutes(router *gin.Engine, analysisHandler *handlers.AnalysisHandler, healthHandler *handlers.HealthHandler) {
	router.Use(otelgin.Middleware("gridlytics"))

	router.GET("/health", healthHandler.Check)

	v1 := router.Group("/api/v1")
	{
		generation := v1.Group("/generation")
		{
			generation.GET("/mix", analysisHandler.GetGenerationMix)
		}

		capacity := v1.Group("/capacity")
		{
			capacity.GET("", analysisHandler.GetCapacity)
			capacity.GET("/utilization", analysisHandler.GetUtilization)
		}

		grid := v1.Group("/grid")
		{
			grid.GET("/stability", analysisHandler.GetStability)
		}

		v1.GET("/prices", analysisHandler.GetPrices)

		storage := v1.Group("/storage")
		{
			storage.GET("/opportunity", analysisHandler.GetStorageOpportunity)
			storage.POST("/rank", analysisHandler.RankStorageOpportunities)
		}
	}
}
