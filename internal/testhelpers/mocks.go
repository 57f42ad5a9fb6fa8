// Package testhelpers provides shared test utilities for the insights service.
package testhelpers

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/guestpulse/insights/internal/domain"
)

// ErrReviewNotFound is returned when a review is not in the mock store.
var ErrReviewNotFound = errors.New("review not found")

// MockReviewStore implements the enrichment store and the read paths
// of the review repository against an in-memory map.
type MockReviewStore struct {
	mu      sync.RWMutex
	reviews map[string]*domain.Review

	// FetchErr, when set, is returned by FetchPendingBatch.
	FetchErr error
}

// NewMockReviewStore creates an empty mock store.
func NewMockReviewStore() *MockReviewStore {
	return &MockReviewStore{reviews: make(map[string]*domain.Review)}
}

// Put inserts or replaces a review.
func (m *MockReviewStore) Put(review *domain.Review) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *review
	m.reviews[review.ID] = &clone
}

// Get returns a copy of the stored review.
func (m *MockReviewStore) Get(id string) (*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	review, ok := m.reviews[id]
	if !ok {
		return nil, ErrReviewNotFound
	}
	clone := *review
	return &clone, nil
}

// FetchPendingBatch returns pending reviews with retry budget left,
// ordered rating ascending then created_at descending, like the real
// repository query.
func (m *MockReviewStore) FetchPendingBatch(_ context.Context, limit, retryLimit int) ([]domain.Review, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var pending []domain.Review
	for _, r := range m.reviews {
		if r.CanRetry(retryLimit) {
			pending = append(pending, *r)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].Rating != pending[j].Rating {
			return pending[i].Rating < pending[j].Rating
		}
		return pending[i].CreatedAt.After(pending[j].CreatedAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// MarkCompleted stores tags and moves the review to completed.
func (m *MockReviewStore) MarkCompleted(_ context.Context, id string, tags domain.TagList) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.reviews[id]
	if !ok {
		return ErrReviewNotFound
	}
	review.MarkEnriched(tags, time.Now().UTC())
	return nil
}

// RecordFailure advances the failure state machine and returns the
// resulting status.
func (m *MockReviewStore) RecordFailure(_ context.Context, id string, retryLimit int) (domain.EnrichmentStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.reviews[id]
	if !ok {
		return "", ErrReviewNotFound
	}
	review.RecordEnrichmentFailure(retryLimit)
	return review.AIStatus, nil
}

// CountByStatus tallies reviews per enrichment state.
func (m *MockReviewStore) CountByStatus(_ context.Context) (map[domain.EnrichmentStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[domain.EnrichmentStatus]int)
	for _, r := range m.reviews {
		counts[r.AIStatus]++
	}
	return counts, nil
}

// MockAnnotator returns canned tags or errors, recording every call.
type MockAnnotator struct {
	mu    sync.Mutex
	calls []string

	// Tags is returned on success.
	Tags []domain.AspectTag
	// Err, when set, fails every call.
	Err error
	// FailFor fails calls for specific review IDs.
	FailFor map[string]error
	// Delay simulates call latency.
	Delay time.Duration
}

// NewMockAnnotator creates a mock that answers with the given tags.
func NewMockAnnotator(tags []domain.AspectTag) *MockAnnotator {
	return &MockAnnotator{Tags: tags}
}

// Name implements the annotator interface.
func (m *MockAnnotator) Name() string { return "mock" }

// Annotate records the call and answers per configuration.
func (m *MockAnnotator) Annotate(ctx context.Context, review domain.Review) ([]domain.AspectTag, error) {
	m.mu.Lock()
	m.calls = append(m.calls, review.ID)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if err, ok := m.FailFor[review.ID]; ok {
		return nil, err
	}
	return m.Tags, nil
}

// Calls returns the review IDs annotated so far, in call order.
func (m *MockAnnotator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
