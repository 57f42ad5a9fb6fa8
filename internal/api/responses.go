package api

import (
	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/enrichment"
)

// AnalyzeRequest is an operator dry-run request for the local analyzer.
type AnalyzeRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
}

// AnalyzeResponse wraps a local analysis result.
type AnalyzeResponse struct {
	Result domain.AnalysisResult `json:"result"`
}

// EnrichmentStatsResponse reports pipeline state for the dashboard.
type EnrichmentStatsResponse struct {
	Paused    bool           `json:"paused"`
	BatchSize int            `json:"batch_size"`
	Pending   int            `json:"pending"`
	Completed int            `json:"completed"`
	Failed    int            `json:"failed"`
	ByStatus  map[string]int `json:"by_status"`
}

func toEnrichmentStatsResponse(stats enrichment.Stats) EnrichmentStatsResponse {
	byStatus := make(map[string]int, len(stats.ByStatus))
	for status, n := range stats.ByStatus {
		byStatus[string(status)] = n
	}
	return EnrichmentStatsResponse{
		Paused:    stats.Paused,
		BatchSize: stats.BatchSize,
		Pending:   stats.ByStatus[domain.EnrichmentPending],
		Completed: stats.ByStatus[domain.EnrichmentCompleted],
		Failed:    stats.ByStatus[domain.EnrichmentFailed],
		ByStatus:  byStatus,
	}
}
