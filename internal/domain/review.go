package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an entity is not found in the store.
var ErrNotFound = errors.New("entity not found")

// ErrInvalidReview is returned when creating a review with invalid fields.
var ErrInvalidReview = errors.New("invalid review")

// EnrichmentStatus tracks the remote annotation lifecycle of a review.
type EnrichmentStatus string

const (
	// EnrichmentPending means the review is waiting for a remote pass.
	EnrichmentPending EnrichmentStatus = "pending"
	// EnrichmentCompleted means remote tags arrived and were accepted. Terminal.
	EnrichmentCompleted EnrichmentStatus = "completed"
	// EnrichmentFailed means the retry ceiling was reached. Terminal.
	EnrichmentFailed EnrichmentStatus = "failed"
)

// DefaultRetryLimit is the enrichment retry ceiling.
const DefaultRetryLimit = 3

// Rating bounds for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer review together with both analysis result sets:
// the local tags written synchronously at creation time and the remote
// (enriched) tags that may arrive later.
type Review struct {
	ID             string  `db:"id"              json:"id"`
	Text           string  `db:"text"            json:"text"`
	Rating         int     `db:"rating"          json:"rating"`
	Sentiment      string  `db:"sentiment"       json:"sentiment"`
	SentimentScore float64 `db:"sentiment_score" json:"sentiment_score"`
	Tags           TagList `db:"tags"            json:"tags"`

	AIStatus     EnrichmentStatus `db:"ai_status"      json:"ai_status"`
	AITags       TagList          `db:"ai_tags"        json:"ai_tags,omitempty"`
	AIRetryCount int              `db:"ai_retry_count" json:"ai_retry_count"`
	AIAnalyzedAt *time.Time       `db:"ai_analyzed_at" json:"ai_analyzed_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewReview creates a review with a fresh ID, rating-derived sentiment and
// enrichment state set to pending. Returns an error when the rating is out
// of range.
func NewReview(text string, rating int) (*Review, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, fmt.Errorf("%w: rating %d out of range", ErrInvalidReview, rating)
	}

	now := time.Now().UTC()
	return &Review{
		ID:        uuid.NewString(),
		Text:      strings.TrimSpace(text),
		Rating:    rating,
		Sentiment: DeriveSentiment(rating),
		AIStatus:  EnrichmentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// MustNewReview is like NewReview but panics on validation error.
// Use only when the inputs are known valid (e.g., in tests).
func MustNewReview(text string, rating int) *Review {
	r, err := NewReview(text, rating)
	if err != nil {
		panic(err)
	}
	return r
}

// DeriveSentiment maps a star rating to a sentiment label:
// 4-5 positive, 1-2 negative, 3 neutral.
func DeriveSentiment(rating int) string {
	switch {
	case rating >= 4:
		return SentimentPositive
	case rating <= 2:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// ResolvedTags is the single read path for consumers: enriched tags when
// enrichment completed with a non-empty set, local tags otherwise.
func (r *Review) ResolvedTags() []AspectTag {
	if r.AIStatus == EnrichmentCompleted && len(r.AITags) > 0 {
		return r.AITags
	}
	return r.Tags
}

// EnrichmentDone reports whether the review is in a terminal enrichment state.
func (r *Review) EnrichmentDone() bool {
	return r.AIStatus == EnrichmentCompleted || r.AIStatus == EnrichmentFailed
}

// CanRetry reports whether another remote attempt is allowed.
func (r *Review) CanRetry(retryLimit int) bool {
	return r.AIStatus == EnrichmentPending && r.AIRetryCount < retryLimit
}

// MarkEnriched records a successful remote pass. No-op on terminal states.
func (r *Review) MarkEnriched(tags []AspectTag, at time.Time) {
	if r.EnrichmentDone() {
		return
	}
	r.AITags = tags
	r.AIStatus = EnrichmentCompleted
	r.AIAnalyzedAt = &at
	r.UpdatedAt = at
}

// RecordEnrichmentFailure bumps the retry counter and moves the review to
// failed once the ceiling is reached. No-op on terminal states. Returns the
// resulting status.
func (r *Review) RecordEnrichmentFailure(retryLimit int) EnrichmentStatus {
	if r.EnrichmentDone() {
		return r.AIStatus
	}
	r.AIRetryCount++
	if r.AIRetryCount >= retryLimit {
		r.AIStatus = EnrichmentFailed
	}
	r.UpdatedAt = time.Now().UTC()
	return r.AIStatus
}

// ResetEnrichment puts the review back into the pending state with a zero
// retry counter. This is the out-of-band re-analysis trigger; it is the only
// allowed way out of a terminal state.
func (r *Review) ResetEnrichment() {
	r.AIStatus = EnrichmentPending
	r.AITags = nil
	r.AIRetryCount = 0
	r.AIAnalyzedAt = nil
	r.UpdatedAt = time.Now().UTC()
}
