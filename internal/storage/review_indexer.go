// Package storage provides the optional Elasticsearch sink: enriched
// reviews are mirrored into a search index for downstream analytics.
// The pipeline runs fine without it.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/guestpulse/insights/internal/config"
	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/logger"
)

// indexMapping declares the review document shape. Tags are nested so
// per-aspect aggregations (sentiment per category) work.
const indexMapping = `{
  "mappings": {
    "properties": {
      "review_id":   {"type": "keyword"},
      "text":        {"type": "text"},
      "rating":      {"type": "integer"},
      "sentiment":   {"type": "keyword"},
      "score":       {"type": "float"},
      "ai_enriched": {"type": "boolean"},
      "tags": {
        "type": "nested",
        "properties": {
          "category":    {"type": "keyword"},
          "subcategory": {"type": "keyword"},
          "sentiment":   {"type": "keyword"}
        }
      },
      "created_at": {"type": "date"},
      "indexed_at": {"type": "date"}
    }
  }
}`

// reviewDocument is the indexed shape.
type reviewDocument struct {
	ReviewID   string      `json:"review_id"`
	Text       string      `json:"text"`
	Rating     int         `json:"rating"`
	Sentiment  string      `json:"sentiment"`
	Score      float64     `json:"score"`
	AIEnriched bool        `json:"ai_enriched"`
	Tags       []tagFacet  `json:"tags"`
	CreatedAt  time.Time   `json:"created_at"`
	IndexedAt  time.Time   `json:"indexed_at"`
}

type tagFacet struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Sentiment   string `json:"sentiment"`
}

// ReviewIndexer writes reviews into Elasticsearch.
type ReviewIndexer struct {
	client *es.Client
	index  string
	log    logger.Logger
}

// NewReviewIndexer connects to Elasticsearch. Returns (nil, nil) when
// the sink is disabled in config so callers can wire it with one line.
func NewReviewIndexer(cfg config.ElasticsearchConfig, log logger.Logger) (*ReviewIndexer, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if log == nil {
		log = logger.NewNop()
	}

	client, err := es.NewClient(es.Config{
		Addresses:  []string{cfg.URL},
		Username:   cfg.Username,
		Password:   cfg.Password,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	return &ReviewIndexer{client: client, index: cfg.Index, log: log}, nil
}

// EnsureIndex creates the review index with its mapping when missing.
func (s *ReviewIndexer) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index},
		s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	createRes, err := s.client.Indices.Create(s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(strings.NewReader(indexMapping)))
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer createRes.Body.Close()
	if createRes.IsError() {
		return fmt.Errorf("create index: %s", createRes.String())
	}

	s.log.Info("review index created", logger.String("index", s.index))
	return nil
}

// IndexReview writes one review with its resolved tags. Called after
// enrichment completes and after local (re-)analysis.
func (s *ReviewIndexer) IndexReview(ctx context.Context, review *domain.Review) error {
	doc := buildDocument(review)

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal review document: %w", err)
	}

	res, err := s.client.Index(s.index, bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(review.ID))
	if err != nil {
		return fmt.Errorf("index review: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index review: %s", res.String())
	}
	return nil
}

func buildDocument(review *domain.Review) reviewDocument {
	resolved := review.ResolvedTags()
	facets := make([]tagFacet, 0, len(resolved))
	for _, tag := range resolved {
		facets = append(facets, tagFacet{
			Category:    tag.Category,
			Subcategory: tag.Subcategory,
			Sentiment:   tag.Sentiment,
		})
	}

	return reviewDocument{
		ReviewID:   review.ID,
		Text:       review.Text,
		Rating:     review.Rating,
		Sentiment:  review.Sentiment,
		Score:      review.SentimentScore,
		AIEnriched: review.AIStatus == domain.EnrichmentCompleted && len(review.AITags) > 0,
		Tags:       facets,
		CreatedAt:  review.CreatedAt,
		IndexedAt:  time.Now().UTC(),
	}
}
