package analyzer

import (
	"context"
	"sync"

	"github.com/guestpulse/insights/internal/domain"
)

// BatchResult pairs a review with its fresh analysis. Err is only set
// when the context was cancelled before the item was reached.
type BatchResult struct {
	ReviewID string
	Result   domain.AnalysisResult
	Err      error
}

// AnalyzeBatch re-analyzes many reviews through a bounded worker
// pool. Results come back in input order; each item is independent,
// so one review can never poison the rest of the batch.
func (s *Service) AnalyzeBatch(ctx context.Context, reviews []domain.Review, workers int) []BatchResult {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(reviews) {
		workers = len(reviews)
	}

	results := make([]BatchResult, len(reviews))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r := reviews[i]
				if err := ctx.Err(); err != nil {
					results[i] = BatchResult{ReviewID: r.ID, Err: err}
					continue
				}
				results[i] = BatchResult{
					ReviewID: r.ID,
					Result:   s.Analyze(ctx, r.Text, r.Rating),
				}
			}
		}()
	}

	for i := range reviews {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
