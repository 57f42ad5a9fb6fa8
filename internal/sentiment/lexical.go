package sentiment

import (
	"context"

	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/lexicon"
	"github.com/guestpulse/insights/internal/morph"
)

// Lexical scores a review by counting sentiment-bearing lemmas. It is
// the cheap first link of the chain; reviews with no recognizable
// sentiment vocabulary are passed on with ErrUnavailable.
type Lexical struct{}

// NewLexical returns the lexicon-based classifier.
func NewLexical() *Lexical {
	return &Lexical{}
}

// Classify counts positive and negative lemmas, flipping words under a
// negation marker. The rating is ignored: the lexical signal should
// stand on the text alone.
func (l *Lexical) Classify(_ context.Context, text string, _ int) (Classification, error) {
	folded := morph.Fold(text)
	words := morph.Tokens(folded)

	var positive, negative int
	for i, w := range words {
		lemma := morph.Lemma(w)
		negated := i > 0 && lexicon.IsNegationMarker(words[i-1])

		switch {
		case lexicon.PositiveLemmas.Has(lemma):
			if negated {
				negative++
			} else {
				positive++
			}
		case lexicon.NegativeLemmas.Has(lemma):
			negative++
		case negated && lexicon.NegatableWords.Has(lemma):
			negative++
		default:
			switch lexicon.GeneralSentiment(lemma) {
			case domain.SentimentPositive:
				if negated {
					negative++
				} else {
					positive++
				}
			case domain.SentimentNegative:
				negative++
			}
		}
	}

	total := positive + negative
	if total == 0 {
		return Classification{}, ErrUnavailable
	}

	diff := positive - negative
	if diff < 0 {
		diff = -diff
	}
	confidence := round2(0.5 + 0.5*float64(diff)/float64(total))

	result := Classification{Sentiment: domain.SentimentNeutral, Confidence: confidence}
	if positive > negative {
		result.Sentiment = domain.SentimentPositive
	} else if negative > positive {
		result.Sentiment = domain.SentimentNegative
	}
	return result, nil
}
