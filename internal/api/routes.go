package api

import (
	"github.com/gin-gonic/gin"

	"github.com/guestpulse/insights/internal/telemetry"
)

// SetupRoutes configures the daemon's operational routes.
func SetupRoutes(router *gin.Engine, handler *Handler, tel *telemetry.Provider) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	if tel != nil {
		router.GET("/metrics", gin.WrapH(tel.Handler()))
	}

	admin := router.Group("/admin")
	{
		admin.POST("/analyze", handler.Analyze) // POST /admin/analyze

		enrich := admin.Group("/enrichment")
		{
			enrich.GET("/stats", handler.EnrichmentStats)    // GET /admin/enrichment/stats
			enrich.POST("/pause", handler.PauseEnrichment)   // POST /admin/enrichment/pause
			enrich.POST("/resume", handler.ResumeEnrichment) // POST /admin/enrichment/resume
		}
	}
}
