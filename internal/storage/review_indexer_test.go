package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestpulse/insights/internal/config"
	"github.com/guestpulse/insights/internal/domain"
)

func TestBuildDocumentLocalTags(t *testing.T) {
	review := domain.MustNewReview("Суп холодный", 2)
	review.Sentiment = domain.SentimentNegative
	review.SentimentScore = -0.8
	review.Tags = domain.TagList{
		{Category: "Продукт", Subcategory: "Еда/кухня", Sentiment: domain.SentimentNegative, Marker: "суп"},
	}

	doc := buildDocument(review)

	assert.Equal(t, review.ID, doc.ReviewID)
	assert.Equal(t, 2, doc.Rating)
	assert.False(t, doc.AIEnriched)
	require.Len(t, doc.Tags, 1)
	assert.Equal(t, "Продукт", doc.Tags[0].Category)
	assert.Equal(t, "Еда", doc.Tags[0].Subcategory)
	assert.Equal(t, domain.SentimentNegative, doc.Tags[0].Sentiment)
	assert.False(t, doc.IndexedAt.IsZero())
}

func TestBuildDocumentPrefersEnrichedTags(t *testing.T) {
	review := domain.MustNewReview("Отличное место", 5)
	review.Tags = domain.TagList{
		{Category: "Общее", Subcategory: "Общее впечатление", Sentiment: domain.SentimentPositive, Marker: "-"},
	}
	review.MarkEnriched([]domain.AspectTag{
		{Category: "Сервис", Subcategory: "Сервис/персонал", Sentiment: domain.SentimentPositive, Marker: "персонал"},
	}, time.Now().UTC())

	doc := buildDocument(review)

	assert.True(t, doc.AIEnriched)
	require.Len(t, doc.Tags, 1)
	assert.Equal(t, "Сервис", doc.Tags[0].Category)
}

func TestNewReviewIndexerDisabled(t *testing.T) {
	indexer, err := NewReviewIndexer(config.ElasticsearchConfig{Enabled: false}, nil)
	require.NoError(t, err)
	assert.Nil(t, indexer)
}
