// Package domain contains the core domain models for the insights service.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"
)

// Sentiment labels produced by the analyzers.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// ValidSentiment reports whether s is one of the three known labels.
func ValidSentiment(s string) bool {
	return s == SentimentPositive || s == SentimentNegative || s == SentimentNeutral
}

// AspectTag is a single aspect-level sentiment judgment extracted from a
// review: which facet of the visit is being talked about, and how.
// Immutable once produced.
type AspectTag struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Sentiment   string   `json:"sentiment"`
	Marker      string   `json:"marker,omitempty"`
	Evidence    []string `json:"evidence,omitempty"`
}

// The synthetic category used when no concrete aspect is detected.
const (
	CategoryGeneral           = "Общее"
	SubcategoryGeneralOverall = "Общее впечатление"
)

// FallbackTag builds the rating-derived tag substituted when analysis
// finds no aspect at all. Its sentiment follows the rating rule.
func FallbackTag(rating int) AspectTag {
	return AspectTag{
		Category:    CategoryGeneral,
		Subcategory: SubcategoryGeneralOverall,
		Sentiment:   DeriveSentiment(rating),
		Marker:      "-",
	}
}

// TagList is a JSON-encoded slice of aspect tags stored in a single column.
type TagList []AspectTag

// Value implements driver.Valuer for database storage.
func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	return data, nil
}

// Scan implements sql.Scanner for database retrieval.
func (t *TagList) Scan(src any) error {
	if src == nil {
		*t = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan tags: unsupported type %T", src)
	}
	if len(data) == 0 {
		*t = nil
		return nil
	}
	if err := json.Unmarshal(data, t); err != nil {
		return fmt.Errorf("unmarshal tags: %w", err)
	}
	return nil
}

// Equal reports whether both lists carry the same tags in order.
func (t TagList) Equal(other TagList) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i].Category != other[i].Category ||
			t[i].Subcategory != other[i].Subcategory ||
			t[i].Sentiment != other[i].Sentiment ||
			t[i].Marker != other[i].Marker ||
			!slices.Equal(t[i].Evidence, other[i].Evidence) {
			return false
		}
	}
	return true
}

// ErrInvalidScore is returned when an overall score is outside [-1, 1].
var ErrInvalidScore = errors.New("overall score out of range")

// Analysis methods recorded in AnalysisResult.Method.
const (
	MethodCache    = "cache"
	MethodRules    = "rules"
	MethodFallback = "fallback"
)

// AnalysisResult is the combined outcome of local analysis for one
// (text, rating) pair: the aspect tags plus the holistic sentiment.
// Tags is non-empty by contract; callers substitute a rating-derived
// fallback tag before the result leaves the orchestrator.
type AnalysisResult struct {
	Tags         []AspectTag `json:"tags"`
	OverallScore float64     `json:"overall_score"`
	Sentiment    string      `json:"sentiment"`
	Confidence   float64     `json:"confidence"`

	Method           string    `json:"method,omitempty"`
	ProcessingTimeMs int64     `json:"processing_time_ms,omitempty"`
	AnalyzedAt       time.Time `json:"analyzed_at,omitempty"`
}

// Validate checks the result invariants.
func (r *AnalysisResult) Validate() error {
	if len(r.Tags) == 0 {
		return errors.New("analysis result has no tags")
	}
	if r.OverallScore < -1.0 || r.OverallScore > 1.0 {
		return fmt.Errorf("%w: %f", ErrInvalidScore, r.OverallScore)
	}
	for i := range r.Tags {
		if !ValidSentiment(r.Tags[i].Sentiment) {
			return fmt.Errorf("tag %d: unknown sentiment %q", i, r.Tags[i].Sentiment)
		}
	}
	return nil
}
