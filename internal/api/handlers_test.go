package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestpulse/insights/internal/analyzer"
	"github.com/guestpulse/insights/internal/cache"
	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/enrichment"
	"github.com/guestpulse/insights/internal/sentiment"
)

// fakeEnricher implements EnrichmentControl.
type fakeEnricher struct {
	paused bool
	stats  enrichment.Stats
	err    error
}

func (f *fakeEnricher) Pause()       { f.paused = true }
func (f *fakeEnricher) Resume()      { f.paused = false }
func (f *fakeEnricher) Paused() bool { return f.paused }

func (f *fakeEnricher) Collect(_ context.Context) (enrichment.Stats, error) {
	if f.err != nil {
		return enrichment.Stats{}, f.err
	}
	stats := f.stats
	stats.Paused = f.paused
	return stats, nil
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error {
	return errors.New("connection refused")
}

func setupRouter(t *testing.T, enricher EnrichmentControl, db Pinger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := analyzer.NewService(
		analyzer.NewEngine(),
		sentiment.NewChain(nil, sentiment.NewLexical()),
		cache.NewMemory(time.Minute),
		nil, nil,
	)

	handler := NewHandler(svc, enricher, db, "insights", "test", nil)
	router := gin.New()
	SetupRoutes(router, handler, nil)
	return router
}

func newFakeEnricher() *fakeEnricher {
	return &fakeEnricher{
		stats: enrichment.Stats{
			ByStatus: map[domain.EnrichmentStatus]int{
				domain.EnrichmentPending:   2,
				domain.EnrichmentCompleted: 5,
			},
			BatchSize: 20,
		},
	}
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReady(t *testing.T) {
	router := setupRouter(t, newFakeEnricher(), nil)

	rec := doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyCheckFailsWhenDatabaseDown(t *testing.T) {
	router := setupRouter(t, newFakeEnricher(), failingPinger{})

	rec := doJSON(router, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAnalyzeEndpoint(t *testing.T) {
	router := setupRouter(t, newFakeEnricher(), nil)

	rec := doJSON(router, http.MethodPost, "/admin/analyze",
		AnalyzeRequest{Text: "Еда вкусная", Rating: 5})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Result.Tags)
	assert.Equal(t, domain.SentimentPositive, resp.Result.Sentiment)
	assert.Equal(t, domain.MethodRules, resp.Result.Method)
}

func TestAnalyzeEndpointFallsBackOnEmptyText(t *testing.T) {
	router := setupRouter(t, newFakeEnricher(), nil)

	rec := doJSON(router, http.MethodPost, "/admin/analyze",
		AnalyzeRequest{Text: "", Rating: 5})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Result.Tags, 1)
	assert.Equal(t, domain.CategoryGeneral, resp.Result.Tags[0].Category)
	assert.Equal(t, domain.MethodFallback, resp.Result.Method)
}

func TestAnalyzeEndpointRejectsBadRating(t *testing.T) {
	router := setupRouter(t, newFakeEnricher(), nil)

	rec := doJSON(router, http.MethodPost, "/admin/analyze",
		map[string]any{"text": "ок", "rating": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnrichmentStats(t *testing.T) {
	enricher := newFakeEnricher()
	router := setupRouter(t, enricher, nil)

	rec := doJSON(router, http.MethodGet, "/admin/enrichment/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats EnrichmentStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.False(t, stats.Paused)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 5, stats.Completed)
	assert.Equal(t, 20, stats.BatchSize)
}

func TestEnrichmentPauseResume(t *testing.T) {
	enricher := newFakeEnricher()
	router := setupRouter(t, enricher, nil)

	rec := doJSON(router, http.MethodPost, "/admin/enrichment/pause", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, enricher.Paused())

	rec = doJSON(router, http.MethodPost, "/admin/enrichment/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, enricher.Paused())
}

func TestEnrichmentEndpointsWithoutPipeline(t *testing.T) {
	router := setupRouter(t, nil, nil)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/admin/enrichment/stats"},
		{http.MethodPost, "/admin/enrichment/pause"},
		{http.MethodPost, "/admin/enrichment/resume"},
	} {
		rec := doJSON(router, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
	}
}
