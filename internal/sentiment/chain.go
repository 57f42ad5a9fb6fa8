package sentiment

import (
	"context"
	"strings"

	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/logger"
)

// Floor is the guaranteed result when every classifier declines.
var Floor = Classification{Sentiment: domain.SentimentNeutral, Confidence: 0.5}

// Chain tries each classifier in order and falls through on error.
// Classify never returns an error: the neutral floor backstops the
// whole chain.
type Chain struct {
	classifiers []Classifier
	log         logger.Logger
}

// NewChain builds a chain over the given classifiers, tried in order.
func NewChain(log logger.Logger, classifiers ...Classifier) *Chain {
	if log == nil {
		log = logger.NewNop()
	}
	return &Chain{classifiers: classifiers, log: log}
}

// Classify returns the first successful judgment, or the neutral
// floor when the text is empty or every backend declines.
func (c *Chain) Classify(ctx context.Context, text string, rating int) (Classification, error) {
	if strings.TrimSpace(text) == "" {
		return Floor, nil
	}

	for _, cl := range c.classifiers {
		result, err := cl.Classify(ctx, text, rating)
		if err == nil {
			return result, nil
		}
		c.log.Debug("sentiment classifier declined", logger.Error(err))
	}
	return Floor, nil
}
