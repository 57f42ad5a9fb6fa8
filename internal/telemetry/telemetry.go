// Package telemetry provides OpenTelemetry instrumentation for the
// insights service. It exports Prometheus metrics and provides tracing
// capabilities.
package telemetry

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "insights"

// Metrics holds all insights Prometheus metrics
type Metrics struct {
	// Local analysis metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	PanicsRecovered  prometheus.Counter

	// Result cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Enrichment pipeline metrics
	EnrichmentOutcomes  *prometheus.CounterVec
	EnrichmentBatchSize prometheus.Histogram
	EnrichmentPending   prometheus.Gauge
	EnrichmentPaused    prometheus.Gauge

	// Remote annotator metrics
	AnnotatorDuration *prometheus.HistogramVec
	AnnotatorFailures *prometheus.CounterVec

	// Search index sink metrics
	ReviewsIndexed prometheus.Counter
	IndexFailures  prometheus.Counter
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// promauto registers into the global registry; a second registration
// of the same metric panics. The singleton keeps repeated wiring
// (daemon + tests in one process) safe.
var (
	provider     *Provider
	providerOnce sync.Once
)

// NewProvider initializes telemetry with Prometheus metrics. Repeated
// calls return the same provider.
func NewProvider() *Provider {
	providerOnce.Do(func() {
		provider = &Provider{
			Tracer:  otel.Tracer(serviceName),
			Metrics: initMetrics(),
		}
	})
	return provider
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initAnalysisMetrics(m)
	initCacheMetrics(m)
	initEnrichmentMetrics(m)
	initAnnotatorMetrics(m)
	initIndexMetrics(m)
	return m
}

func initAnalysisMetrics(m *Metrics) {
	m.AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_analyses_total",
		Help: "Total local analyses by method (cache, rules, fallback)",
	}, []string{"method"})

	m.AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "insights_analysis_duration_seconds",
		Help:    "Time to analyze a single review locally",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	})

	m.PanicsRecovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insights_analysis_panics_recovered_total",
		Help: "Panics recovered during rule evaluation",
	})
}

func initCacheMetrics(m *Metrics) {
	m.CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insights_cache_hits_total",
		Help: "Analysis result cache hits",
	})

	m.CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insights_cache_misses_total",
		Help: "Analysis result cache misses",
	})
}

func initEnrichmentMetrics(m *Metrics) {
	m.EnrichmentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_enrichment_outcomes_total",
		Help: "Enrichment attempts by outcome (completed, retried, failed)",
	}, []string{"outcome"})

	m.EnrichmentBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "insights_enrichment_batch_size",
		Help:    "Reviews claimed per enrichment poll",
		Buckets: []float64{0, 1, 5, 10, 20, 50},
	})

	m.EnrichmentPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "insights_enrichment_pending",
		Help: "Reviews currently awaiting enrichment",
	})

	m.EnrichmentPaused = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "insights_enrichment_paused",
		Help: "Whether the enrichment kill switch is engaged (1) or not (0)",
	})
}

func initAnnotatorMetrics(m *Metrics) {
	m.AnnotatorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insights_annotator_duration_seconds",
		Help:    "Remote annotation call latency by provider",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"provider"})

	m.AnnotatorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_annotator_failures_total",
		Help: "Failed remote annotation calls by provider and reason",
	}, []string{"provider", "reason"})
}

func initIndexMetrics(m *Metrics) {
	m.ReviewsIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insights_reviews_indexed_total",
		Help: "Enriched reviews written to the search index",
	})

	m.IndexFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insights_reviews_index_failures_total",
		Help: "Failed search index writes",
	})
}

// RecordAnalysis records metrics for a single local analysis
func (p *Provider) RecordAnalysis(ctx context.Context, method string, duration time.Duration) {
	p.Metrics.AnalysesTotal.WithLabelValues(method).Inc()
	p.Metrics.AnalysisDuration.Observe(duration.Seconds())
}

// RecordCacheLookup records a result cache hit or miss
func (p *Provider) RecordCacheLookup(hit bool) {
	if hit {
		p.Metrics.CacheHits.Inc()
	} else {
		p.Metrics.CacheMisses.Inc()
	}
}

// RecordPanicRecovered counts a panic recovered during rule evaluation
func (p *Provider) RecordPanicRecovered() {
	p.Metrics.PanicsRecovered.Inc()
}

// RecordEnrichmentOutcome records one enrichment attempt outcome
// (completed, retried, failed)
func (p *Provider) RecordEnrichmentOutcome(outcome string) {
	p.Metrics.EnrichmentOutcomes.WithLabelValues(outcome).Inc()
}

// RecordEnrichmentBatch records the size of a claimed enrichment batch
func (p *Provider) RecordEnrichmentBatch(size int) {
	p.Metrics.EnrichmentBatchSize.Observe(float64(size))
}

// SetEnrichmentPending sets the pending reviews gauge
func (p *Provider) SetEnrichmentPending(count int) {
	p.Metrics.EnrichmentPending.Set(float64(count))
}

// SetEnrichmentPaused reflects the kill switch state
func (p *Provider) SetEnrichmentPaused(paused bool) {
	if paused {
		p.Metrics.EnrichmentPaused.Set(1)
	} else {
		p.Metrics.EnrichmentPaused.Set(0)
	}
}

// RecordAnnotatorCall records latency and outcome of a remote
// annotation call
func (p *Provider) RecordAnnotatorCall(provider, reason string, duration time.Duration, success bool) {
	p.Metrics.AnnotatorDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if !success {
		p.Metrics.AnnotatorFailures.WithLabelValues(provider, reason).Inc()
	}
}

// RecordIndexWrite records an attempted search index write
func (p *Provider) RecordIndexWrite(success bool) {
	if success {
		p.Metrics.ReviewsIndexed.Inc()
	} else {
		p.Metrics.IndexFailures.Inc()
	}
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
