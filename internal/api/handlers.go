package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guestpulse/insights/internal/analyzer"
	"github.com/guestpulse/insights/internal/enrichment"
	"github.com/guestpulse/insights/internal/logger"
)

// EnrichmentControl exposes the pipeline's kill switch and counters.
type EnrichmentControl interface {
	Pause()
	Resume()
	Paused() bool
	Collect(ctx context.Context) (enrichment.Stats, error)
}

// Pinger reports backend liveness for the readiness probe.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler handles HTTP requests on the daemon's operational surface.
type Handler struct {
	analyzer *analyzer.Service
	enricher EnrichmentControl
	db       Pinger
	service  string
	version  string
	log      logger.Logger
}

// NewHandler creates an ops handler. enricher and db may be nil when
// the corresponding subsystem is not wired.
func NewHandler(
	analyzerSvc *analyzer.Service,
	enricher EnrichmentControl,
	db Pinger,
	service, version string,
	log logger.Logger,
) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		analyzer: analyzerSvc,
		enricher: enricher,
		db:       db,
		service:  service,
		version:  version,
		log:      log,
	}
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
		"version": h.version,
	})
}

// ReadyCheck handles GET /ready. Ready means the database answers.
func (h *Handler) ReadyCheck(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.log.Warn("readiness check failed", logger.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Analyze handles POST /admin/analyze: an operator dry-run of the
// local analyzer. Nothing is persisted.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid analyze request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.analyzer.Analyze(c.Request.Context(), req.Text, req.Rating)
	c.JSON(http.StatusOK, AnalyzeResponse{Result: result})
}

// EnrichmentStats handles GET /admin/enrichment/stats.
func (h *Handler) EnrichmentStats(c *gin.Context) {
	if h.enricher == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "enrichment not configured"})
		return
	}

	stats, err := h.enricher.Collect(c.Request.Context())
	if err != nil {
		h.log.Error("collect enrichment stats failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toEnrichmentStatsResponse(stats))
}

// PauseEnrichment handles POST /admin/enrichment/pause.
func (h *Handler) PauseEnrichment(c *gin.Context) {
	if h.enricher == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "enrichment not configured"})
		return
	}
	h.enricher.Pause()
	h.log.Info("enrichment paused via API")
	c.JSON(http.StatusOK, gin.H{"paused": true})
}

// ResumeEnrichment handles POST /admin/enrichment/resume.
func (h *Handler) ResumeEnrichment(c *gin.Context) {
	if h.enricher == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "enrichment not configured"})
		return
	}
	h.enricher.Resume()
	h.log.Info("enrichment resumed via API")
	c.JSON(http.StatusOK, gin.H{"paused": false})
}
