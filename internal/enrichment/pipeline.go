// Package enrichment runs the asynchronous remote annotation pipeline:
// claim pending reviews in priority order, annotate them through the
// configured backend, and advance their enrichment state machine.
package enrichment

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/guestpulse/insights/internal/annotator"
	"github.com/guestpulse/insights/internal/config"
	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/logger"
	"github.com/guestpulse/insights/internal/telemetry"
)

// Store is the review persistence the pipeline needs. Implemented by
// the database review repository.
type Store interface {
	// FetchPendingBatch claims up to limit pending reviews with retry
	// budget left, worst-rated first, newest first within a rating.
	FetchPendingBatch(ctx context.Context, limit, retryLimit int) ([]domain.Review, error)

	// MarkCompleted stores the tags and moves the review to completed.
	MarkCompleted(ctx context.Context, id string, tags domain.TagList) error

	// RecordFailure increments the retry count, moving the review to
	// failed once the ceiling is reached. Returns the resulting status.
	RecordFailure(ctx context.Context, id string, retryLimit int) (domain.EnrichmentStatus, error)

	// CountByStatus reports how many reviews sit in each state.
	CountByStatus(ctx context.Context) (map[domain.EnrichmentStatus]int, error)
}

// Indexer mirrors enriched reviews into the search index.
type Indexer interface {
	IndexReview(ctx context.Context, review *domain.Review) error
}

// Summary reports what one poll did.
type Summary struct {
	Skipped   bool `json:"skipped"`
	Claimed   int  `json:"claimed"`
	Completed int  `json:"completed"`
	Retried   int  `json:"retried"`
	Failed    int  `json:"failed"`
}

// Stats is the pipeline state exposed on the admin API.
type Stats struct {
	Paused    bool                            `json:"paused"`
	ByStatus  map[domain.EnrichmentStatus]int `json:"by_status"`
	BatchSize int                             `json:"batch_size"`
}

// Pipeline drives remote enrichment. Safe for concurrent use; the
// kill switch may be flipped from another goroutine at any time.
type Pipeline struct {
	store     Store
	annotator annotator.Annotator
	indexer   Indexer
	limiter   *rate.Limiter
	telemetry *telemetry.Provider
	log       logger.Logger

	batchSize   int
	retryLimit  int
	callTimeout time.Duration

	paused atomic.Bool
}

// NewPipeline wires the pipeline. The kill switch starts engaged when
// enrichment is disabled in config.
func NewPipeline(store Store, a annotator.Annotator, cfg config.EnrichmentConfig, tel *telemetry.Provider, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}
	retryLimit := cfg.RetryLimit
	if retryLimit <= 0 {
		retryLimit = domain.DefaultRetryLimit
	}
	callTimeout := cfg.CallTimeout
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = int(rps)
		if burst < 1 {
			burst = 1
		}
	}

	p := &Pipeline{
		store:       store,
		annotator:   a,
		limiter:     rate.NewLimiter(rate.Limit(rps), burst),
		telemetry:   tel,
		log:         log,
		batchSize:   batchSize,
		retryLimit:  retryLimit,
		callTimeout: callTimeout,
	}
	p.setPaused(!cfg.Enabled)
	return p
}

// AttachIndexer makes the pipeline mirror enriched reviews into the
// search index. Index failures are logged, never retried.
func (p *Pipeline) AttachIndexer(idx Indexer) {
	p.indexer = idx
}

// Pause engages the kill switch. In-flight calls finish; no new calls
// start.
func (p *Pipeline) Pause() {
	p.setPaused(true)
	p.log.Info("enrichment paused")
}

// Resume releases the kill switch.
func (p *Pipeline) Resume() {
	p.setPaused(false)
	p.log.Info("enrichment resumed")
}

// Paused reports the kill switch state.
func (p *Pipeline) Paused() bool {
	return p.paused.Load()
}

func (p *Pipeline) setPaused(paused bool) {
	p.paused.Store(paused)
	if p.telemetry != nil {
		p.telemetry.SetEnrichmentPaused(paused)
	}
}

// RunOnce performs a single poll: claim, annotate, persist. Item
// failures are independent; only claiming errors surface to the
// caller.
func (p *Pipeline) RunOnce(ctx context.Context) (Summary, error) {
	if p.Paused() {
		p.log.Info("enrichment poll skipped, pipeline paused")
		return Summary{Skipped: true}, nil
	}

	reviews, err := p.store.FetchPendingBatch(ctx, p.batchSize, p.retryLimit)
	if err != nil {
		return Summary{}, err
	}
	if p.telemetry != nil {
		p.telemetry.RecordEnrichmentBatch(len(reviews))
	}
	if len(reviews) == 0 {
		p.log.Debug("no pending reviews")
		return Summary{}, nil
	}

	summary := Summary{Claimed: len(reviews)}
	for i := range reviews {
		// Kill switch flipped mid-batch: stop before the next call.
		if p.Paused() {
			p.log.Info("enrichment paused mid-batch",
				logger.Int("remaining", len(reviews)-i))
			break
		}
		if err := p.limiter.Wait(ctx); err != nil {
			p.log.Warn("rate limiter interrupted", logger.Error(err))
			break
		}
		p.enrichOne(ctx, &reviews[i], &summary)
	}

	p.log.Info("enrichment poll finished",
		logger.Int("claimed", summary.Claimed),
		logger.Int("completed", summary.Completed),
		logger.Int("retried", summary.Retried),
		logger.Int("failed", summary.Failed))
	return summary, nil
}

func (p *Pipeline) enrichOne(ctx context.Context, review *domain.Review, summary *Summary) {
	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	start := time.Now()
	tags, err := p.annotator.Annotate(callCtx, *review)
	if p.telemetry != nil {
		p.telemetry.RecordAnnotatorCall(p.annotator.Name(), failureReason(err), time.Since(start), err == nil)
	}

	if err != nil {
		p.log.Warn("annotation failed",
			logger.String("review_id", review.ID),
			logger.Int("retry_count", review.AIRetryCount),
			logger.Error(err))

		status, storeErr := p.store.RecordFailure(ctx, review.ID, p.retryLimit)
		if storeErr != nil {
			p.log.Error("failed to record enrichment failure",
				logger.String("review_id", review.ID),
				logger.Error(storeErr))
			return
		}
		if status == domain.EnrichmentFailed {
			summary.Failed++
			p.recordOutcome("failed")
		} else {
			summary.Retried++
			p.recordOutcome("retried")
		}
		return
	}

	if err := p.store.MarkCompleted(ctx, review.ID, tags); err != nil {
		p.log.Error("failed to store enrichment result",
			logger.String("review_id", review.ID),
			logger.Error(err))
		return
	}
	summary.Completed++
	p.recordOutcome("completed")

	if p.indexer != nil {
		review.MarkEnriched(tags, time.Now().UTC())
		err := p.indexer.IndexReview(ctx, review)
		if p.telemetry != nil {
			p.telemetry.RecordIndexWrite(err == nil)
		}
		if err != nil {
			p.log.Warn("failed to index enriched review",
				logger.String("review_id", review.ID),
				logger.Error(err))
		}
	}
}

func (p *Pipeline) recordOutcome(outcome string) {
	if p.telemetry != nil {
		p.telemetry.RecordEnrichmentOutcome(outcome)
	}
}

// Collect gathers the pipeline state for the admin API and refreshes
// the pending gauge.
func (p *Pipeline) Collect(ctx context.Context) (Stats, error) {
	byStatus, err := p.store.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	if p.telemetry != nil {
		p.telemetry.SetEnrichmentPending(byStatus[domain.EnrichmentPending])
	}
	return Stats{
		Paused:    p.Paused(),
		ByStatus:  byStatus,
		BatchSize: p.batchSize,
	}, nil
}

func failureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, annotator.ErrInvalidShape):
		return "invalid_shape"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "unavailable"
	}
}
