package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/guestpulse/insights/internal/domain"
)

const reviewColumns = `id, text, rating, sentiment, sentiment_score, tags,
	ai_status, ai_tags, ai_retry_count, ai_analyzed_at, created_at, updated_at`

// claimLease is how long a fetched batch stays claimed. A claim left
// behind by a crashed worker expires and the rows become fetchable
// again on a later poll.
const claimLease = 15 * time.Minute

// ReviewRepository persists reviews through sqlx. Queries are written
// with ? placeholders and rebound per driver, so the repository works
// on PostgreSQL and SQLite alike.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a repository over an open connection.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := r.db.Rebind(`
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		review.ID, review.Text, review.Rating, review.Sentiment,
		review.SentimentScore, review.Tags,
		review.AIStatus, review.AITags, review.AIRetryCount, review.AIAnalyzedAt,
		review.CreatedAt, review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// GetByID fetches one review. domain.ErrNotFound when absent.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	var review domain.Review
	query := r.db.Rebind(`SELECT ` + reviewColumns + ` FROM reviews WHERE id = ?`)
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &review, nil
}

// UpdateLocalAnalysis rewrites the locally derived fields after a
// re-analysis pass.
func (r *ReviewRepository) UpdateLocalAnalysis(ctx context.Context, review *domain.Review) error {
	query := r.db.Rebind(`
		UPDATE reviews
		SET sentiment = ?, sentiment_score = ?, tags = ?, updated_at = ?
		WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query,
		review.Sentiment, review.SentimentScore, review.Tags,
		time.Now().UTC(), review.ID)
	if err != nil {
		return fmt.Errorf("update local analysis: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FetchPendingBatch claims up to limit reviews awaiting enrichment
// with retry budget left, worst-rated first, newest first within a
// rating. The claim is a single UPDATE ... RETURNING over a selecting
// subquery: claimed rows stay invisible to other pollers until the
// claim lease expires or an outcome is recorded, so the claim survives
// the statement itself. On PostgreSQL the subquery additionally takes
// FOR UPDATE SKIP LOCKED so concurrent pollers never queue on each
// other's rows.
func (r *ReviewRepository) FetchPendingBatch(ctx context.Context, limit, retryLimit int) ([]domain.Review, error) {
	now := time.Now().UTC()
	inner := `SELECT id FROM reviews
			WHERE ai_status = ? AND ai_retry_count < ?
			  AND (ai_claimed_at IS NULL OR ai_claimed_at < ?)
			ORDER BY rating ASC, created_at DESC
			LIMIT ?`
	if r.db.DriverName() == DriverPostgres {
		inner += `
			FOR UPDATE SKIP LOCKED`
	}
	query := `UPDATE reviews
		SET ai_claimed_at = ?, updated_at = ?
		WHERE id IN (` + inner + `)
		RETURNING ` + reviewColumns

	var reviews []domain.Review
	err := r.db.SelectContext(ctx, &reviews, r.db.Rebind(query),
		now, now, domain.EnrichmentPending, retryLimit, now.Add(-claimLease), limit)
	if err != nil {
		return nil, fmt.Errorf("fetch pending batch: %w", err)
	}

	// RETURNING does not preserve the subquery's order.
	slices.SortFunc(reviews, func(a, b domain.Review) int {
		if a.Rating != b.Rating {
			return a.Rating - b.Rating
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return reviews, nil
}

// MarkCompleted stores remote tags and moves the review to completed.
// A review already in a terminal state is left untouched.
func (r *ReviewRepository) MarkCompleted(ctx context.Context, id string, tags domain.TagList) error {
	now := time.Now().UTC()
	query := r.db.Rebind(`
		UPDATE reviews
		SET ai_tags = ?, ai_status = ?, ai_analyzed_at = ?, updated_at = ?
		WHERE id = ? AND ai_status = ?`)

	_, err := r.db.ExecContext(ctx, query,
		tags, domain.EnrichmentCompleted, now, now,
		id, domain.EnrichmentPending)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

// RecordFailure bumps the retry counter, flipping the review to failed
// once the ceiling is reached, and returns the resulting status.
func (r *ReviewRepository) RecordFailure(ctx context.Context, id string, retryLimit int) (domain.EnrichmentStatus, error) {
	query := r.db.Rebind(`
		UPDATE reviews
		SET ai_retry_count = ai_retry_count + 1,
		    ai_status = CASE WHEN ai_retry_count + 1 >= ? THEN ? ELSE ai_status END,
		    ai_claimed_at = NULL,
		    updated_at = ?
		WHERE id = ? AND ai_status = ?`)

	_, err := r.db.ExecContext(ctx, query,
		retryLimit, domain.EnrichmentFailed, time.Now().UTC(),
		id, domain.EnrichmentPending)
	if err != nil {
		return "", fmt.Errorf("record enrichment failure: %w", err)
	}

	var status domain.EnrichmentStatus
	statusQuery := r.db.Rebind(`SELECT ai_status FROM reviews WHERE id = ?`)
	if err := r.db.GetContext(ctx, &status, statusQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("read enrichment status: %w", err)
	}
	return status, nil
}

// ResetEnrichment puts a review back into the pending state with a
// clean retry budget. The only way out of a terminal state.
func (r *ReviewRepository) ResetEnrichment(ctx context.Context, id string) error {
	query := r.db.Rebind(`
		UPDATE reviews
		SET ai_status = ?, ai_tags = NULL, ai_retry_count = 0,
		    ai_analyzed_at = NULL, ai_claimed_at = NULL, updated_at = ?
		WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query,
		domain.EnrichmentPending, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("reset enrichment: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByStatus tallies reviews per enrichment state.
func (r *ReviewRepository) CountByStatus(ctx context.Context) (map[domain.EnrichmentStatus]int, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT ai_status, COUNT(*) FROM reviews GROUP BY ai_status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.EnrichmentStatus]int)
	for rows.Next() {
		var status domain.EnrichmentStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ListForReanalysis streams reviews for the bulk re-analysis command.
// rating 0 means all ratings; limit 0 means no limit.
func (r *ReviewRepository) ListForReanalysis(ctx context.Context, rating, limit int) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews`
	args := []any{}
	if rating > 0 {
		query += ` WHERE rating = ?`
		args = append(args, rating)
	}
	query += ` ORDER BY created_at ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var reviews []domain.Review
	if err := r.db.SelectContext(ctx, &reviews, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list for reanalysis: %w", err)
	}
	return reviews, nil
}
