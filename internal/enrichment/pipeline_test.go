package enrichment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestpulse/insights/internal/annotator"
	"github.com/guestpulse/insights/internal/config"
	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/logger"
	"github.com/guestpulse/insights/internal/testhelpers"
)

var remoteTags = []domain.AspectTag{
	{Category: "Продукт", Subcategory: "Еда/кухня", Sentiment: domain.SentimentPositive},
}

func testConfig() config.EnrichmentConfig {
	return config.EnrichmentConfig{
		Enabled:     true,
		BatchSize:   20,
		RetryLimit:  3,
		CallTimeout: time.Second,
		RateLimit:   1000,
		RateBurst:   1000,
	}
}

func seedReview(t *testing.T, store *testhelpers.MockReviewStore, text string, rating int, createdAt time.Time) *domain.Review {
	t.Helper()
	review := domain.MustNewReview(text, rating)
	review.CreatedAt = createdAt
	store.Put(review)
	return review
}

func TestRunOnceCompletes(t *testing.T) {
	store := testhelpers.NewMockReviewStore()
	review := seedReview(t, store, "Еда вкусная", 4, time.Now())

	p := NewPipeline(store, testhelpers.NewMockAnnotator(remoteTags), testConfig(), nil, logger.NewNop())
	summary, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Claimed: 1, Completed: 1}, summary)

	got, err := store.Get(review.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EnrichmentCompleted, got.AIStatus)
	assert.Equal(t, domain.TagList(remoteTags), got.AITags)
	require.NotNil(t, got.AIAnalyzedAt)
	assert.Equal(t, remoteTags, got.ResolvedTags())
}

func TestRunOncePriorityOrder(t *testing.T) {
	store := testhelpers.NewMockReviewStore()
	base := time.Now()

	older1 := seedReview(t, store, "отзыв на единицу, старый", 1, base.Add(-2*time.Hour))
	newer1 := seedReview(t, store, "отзыв на единицу, свежий", 1, base.Add(-time.Hour))
	mid3 := seedReview(t, store, "отзыв на тройку", 3, base)
	top5 := seedReview(t, store, "отзыв на пятерку", 5, base)

	mock := testhelpers.NewMockAnnotator(remoteTags)
	p := NewPipeline(store, mock, testConfig(), nil, logger.NewNop())
	_, err := p.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{newer1.ID, older1.ID, mid3.ID, top5.ID}, mock.Calls(),
		"worst rating first, newest first within a rating")
}

func TestRunOnceRetryCeiling(t *testing.T) {
	store := testhelpers.NewMockReviewStore()
	review := seedReview(t, store, "Еда вкусная", 4, time.Now())

	mock := testhelpers.NewMockAnnotator(nil)
	mock.Err = annotator.ErrUnavailable
	p := NewPipeline(store, mock, testConfig(), nil, logger.NewNop())
	ctx := context.Background()

	for attempt := 1; attempt <= 2; attempt++ {
		summary, err := p.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, Summary{Claimed: 1, Retried: 1}, summary, "attempt %d", attempt)

		got, _ := store.Get(review.ID)
		assert.Equal(t, domain.EnrichmentPending, got.AIStatus)
		assert.Equal(t, attempt, got.AIRetryCount)
	}

	summary, err := p.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Claimed: 1, Failed: 1}, summary)

	got, _ := store.Get(review.ID)
	assert.Equal(t, domain.EnrichmentFailed, got.AIStatus)
	assert.Equal(t, 3, got.AIRetryCount)
	assert.Empty(t, got.AITags, "failed review keeps local tags only")

	// Terminal state means no further claims.
	summary, err = p.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
}

func TestRunOnceItemFailuresAreIndependent(t *testing.T) {
	store := testhelpers.NewMockReviewStore()
	bad := seedReview(t, store, "плохой отзыв", 1, time.Now())
	good := seedReview(t, store, "хороший отзыв", 5, time.Now())

	mock := testhelpers.NewMockAnnotator(remoteTags)
	mock.FailFor = map[string]error{bad.ID: annotator.ErrInvalidShape}

	p := NewPipeline(store, mock, testConfig(), nil, logger.NewNop())
	summary, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Claimed: 2, Completed: 1, Retried: 1}, summary)

	gotGood, _ := store.Get(good.ID)
	assert.Equal(t, domain.EnrichmentCompleted, gotGood.AIStatus)
	gotBad, _ := store.Get(bad.ID)
	assert.Equal(t, domain.EnrichmentPending, gotBad.AIStatus)
	assert.Equal(t, 1, gotBad.AIRetryCount)
}

func TestRunOncePaused(t *testing.T) {
	store := testhelpers.NewMockReviewStore()
	seedReview(t, store, "отзыв", 3, time.Now())

	mock := testhelpers.NewMockAnnotator(remoteTags)
	cfg := testConfig()
	cfg.Enabled = false
	p := NewPipeline(store, mock, cfg, nil, logger.NewNop())

	summary, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.Skipped)
	assert.Empty(t, mock.Calls(), "paused pipeline must not call the annotator")

	p.Resume()
	summary, err = p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, summary.Skipped)
	assert.Equal(t, 1, summary.Completed)
}

// pausingAnnotator engages the pipeline's kill switch from inside its
// first call, the way an operator would mid-batch.
type pausingAnnotator struct {
	*testhelpers.MockAnnotator
	pipeline *Pipeline
	once     sync.Once
}

func (a *pausingAnnotator) Annotate(ctx context.Context, review domain.Review) ([]domain.AspectTag, error) {
	tags, err := a.MockAnnotator.Annotate(ctx, review)
	a.once.Do(a.pipeline.Pause)
	return tags, err
}

func TestRunOncePausedMidBatch(t *testing.T) {
	store := testhelpers.NewMockReviewStore()
	base := time.Now()
	first := seedReview(t, store, "отзыв раз", 1, base)
	second := seedReview(t, store, "отзыв два", 2, base)
	seedReview(t, store, "отзыв три", 3, base)

	ann := &pausingAnnotator{MockAnnotator: testhelpers.NewMockAnnotator(remoteTags)}
	p := NewPipeline(store, ann, testConfig(), nil, logger.NewNop())
	ann.pipeline = p

	summary, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Claimed: 3, Completed: 1}, summary)
	assert.Equal(t, []string{first.ID}, ann.Calls(),
		"the in-flight call finishes, no new calls start")

	got, err := store.Get(second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EnrichmentPending, got.AIStatus,
		"the unprocessed remainder stays pending for the next cycle")
	assert.Zero(t, got.AIRetryCount)
}

func TestRunOnceBatchSizeLimit(t *testing.T) {
	store := testhelpers.NewMockReviewStore()
	for i := range 25 {
		seedReview(t, store, "отзыв", 3, time.Now().Add(time.Duration(i)*time.Second))
	}

	cfg := testConfig()
	cfg.BatchSize = 20
	p := NewPipeline(store, testhelpers.NewMockAnnotator(remoteTags), cfg, nil, logger.NewNop())

	summary, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, summary.Claimed)
}

func TestCollect(t *testing.T) {
	store := testhelpers.NewMockReviewStore()
	seedReview(t, store, "раз", 3, time.Now())
	done := seedReview(t, store, "два", 4, time.Now())
	_, err := store.RecordFailure(context.Background(), done.ID, 1)
	require.NoError(t, err)

	p := NewPipeline(store, testhelpers.NewMockAnnotator(remoteTags), testConfig(), nil, logger.NewNop())
	stats, err := p.Collect(context.Background())
	require.NoError(t, err)
	assert.False(t, stats.Paused)
	assert.Equal(t, 1, stats.ByStatus[domain.EnrichmentPending])
	assert.Equal(t, 1, stats.ByStatus[domain.EnrichmentFailed])
	assert.Equal(t, 20, stats.BatchSize)
}

func TestPollerStartStop(t *testing.T) {
	store := testhelpers.NewMockReviewStore()
	review := seedReview(t, store, "отзыв", 2, time.Now())

	p := NewPipeline(store, testhelpers.NewMockAnnotator(remoteTags), testConfig(), nil, logger.NewNop())
	poller := NewPoller(p, time.Hour, logger.NewNop())

	require.NoError(t, poller.Start(context.Background()))
	assert.Error(t, poller.Start(context.Background()), "second start must fail")
	assert.True(t, poller.IsRunning())

	// The first poll runs immediately; give it a moment.
	require.Eventually(t, func() bool {
		got, err := store.Get(review.ID)
		return err == nil && got.AIStatus == domain.EnrichmentCompleted
	}, 2*time.Second, 10*time.Millisecond)

	poller.Stop()
	assert.False(t, poller.IsRunning())
}

type captureIndexer struct {
	reviews []*domain.Review
}

func (c *captureIndexer) IndexReview(_ context.Context, review *domain.Review) error {
	clone := *review
	c.reviews = append(c.reviews, &clone)
	return nil
}

func TestRunOnceIndexesEnrichedReviews(t *testing.T) {
	store := testhelpers.NewMockReviewStore()
	ok := seedReview(t, store, "Еда вкусная", 4, time.Now())
	bad := seedReview(t, store, "Долго ждали", 2, time.Now())

	ann := testhelpers.NewMockAnnotator(remoteTags)
	ann.FailFor = map[string]error{bad.ID: annotator.ErrUnavailable}

	idx := &captureIndexer{}
	p := NewPipeline(store, ann, testConfig(), nil, logger.NewNop())
	p.AttachIndexer(idx)

	summary, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 1, summary.Retried)

	// Only the completed review reaches the index.
	require.Len(t, idx.reviews, 1)
	assert.Equal(t, ok.ID, idx.reviews[0].ID)
	assert.Equal(t, remoteTags, idx.reviews[0].ResolvedTags())
}
