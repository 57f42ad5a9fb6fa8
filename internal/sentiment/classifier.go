// Package sentiment provides holistic review sentiment classifiers:
// a lexical scorer, an HTTP sidecar client, and a fallback chain that
// never fails outward.
package sentiment

import (
	"context"
	"errors"
	"math"

	"github.com/guestpulse/insights/internal/domain"
)

// ErrUnavailable means a classifier could not produce a judgment for
// this input. The chain moves on to the next backend.
var ErrUnavailable = errors.New("sentiment classifier unavailable")

// Classification is a holistic sentiment judgment for a whole review.
type Classification struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// Score maps the classification onto [-1, 1]: confidence signed by
// polarity, zero for neutral, rounded to two decimals.
func (c Classification) Score() float64 {
	switch c.Sentiment {
	case domain.SentimentPositive:
		return round2(c.Confidence)
	case domain.SentimentNegative:
		return round2(-c.Confidence)
	default:
		return 0.0
	}
}

// Valid reports whether the classification carries a known label and
// a confidence in range.
func (c Classification) Valid() bool {
	return domain.ValidSentiment(c.Sentiment) && c.Confidence >= 0 && c.Confidence <= 1
}

// Classifier scores a whole review. Implementations return
// ErrUnavailable (possibly wrapped) when they cannot judge the input.
type Classifier interface {
	Classify(ctx context.Context, text string, rating int) (Classification, error)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
