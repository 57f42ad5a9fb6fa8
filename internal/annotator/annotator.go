// Package annotator provides the remote annotation backends for the
// enrichment pipeline: an LLM client and a generic HTTP sidecar. Both
// return taxonomy-validated aspect tags or reject the response
// wholesale.
package annotator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/guestpulse/insights/internal/config"
	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/logger"
	"github.com/guestpulse/insights/internal/taxonomy"
)

var (
	// ErrUnavailable means the backend could not be reached or refused
	// the call. The attempt counts against the review's retry budget.
	ErrUnavailable = errors.New("annotator unavailable")

	// ErrInvalidShape means the backend answered with tags that do not
	// fit the taxonomy. The whole response is rejected: a partially
	// valid tag list is worse than a clean retry.
	ErrInvalidShape = errors.New("annotator response has invalid shape")

	// ErrNotConfigured means no backend has credentials or an address.
	ErrNotConfigured = errors.New("no annotator configured")
)

// Annotator produces aspect tags for a review via a remote model.
type Annotator interface {
	// Annotate returns validated aspect tags for the review. The
	// returned list is non-empty on success.
	Annotate(ctx context.Context, review domain.Review) ([]domain.AspectTag, error)

	// Name identifies the backend in logs and metrics.
	Name() string
}

// New selects a backend from config: the explicit provider when set,
// otherwise the first one with credentials. ErrNotConfigured when
// neither backend is usable.
func New(cfg config.AnnotatorConfig, log logger.Logger) (Annotator, error) {
	switch cfg.Provider {
	case "claude":
		return NewClaude(cfg, log)
	case "http":
		return NewHTTP(cfg.ServiceURL, 0, log)
	case "":
		if cfg.ClaudeAPIKey != "" {
			return NewClaude(cfg, log)
		}
		if cfg.ServiceURL != "" {
			return NewHTTP(cfg.ServiceURL, 0, log)
		}
		return nil, ErrNotConfigured
	default:
		return nil, fmt.Errorf("unknown annotator provider %q", cfg.Provider)
	}
}

// tagPayload is the wire shape both backends answer with.
type tagPayload struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Sentiment   string   `json:"sentiment"`
	Evidence    []string `json:"evidence"`
}

// ParseTags decodes a JSON tag array and validates every tag against
// the taxonomy. LLMs like to wrap JSON in markdown fences; those are
// stripped first. Any malformed or off-taxonomy tag rejects the whole
// response with ErrInvalidShape.
func ParseTags(raw []byte) ([]domain.AspectTag, error) {
	text := stripFences(string(raw))

	var payload []tagPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty tag list", ErrInvalidShape)
	}

	tags := make([]domain.AspectTag, 0, len(payload))
	for i, p := range payload {
		tag := domain.AspectTag{
			Category:    strings.TrimSpace(p.Category),
			Subcategory: strings.TrimSpace(p.Subcategory),
			Sentiment:   strings.ToLower(strings.TrimSpace(p.Sentiment)),
			Evidence:    p.Evidence,
		}
		if err := taxonomy.Validate(tag); err != nil {
			return nil, fmt.Errorf("%w: tag %d: %v", ErrInvalidShape, i, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// stripFences removes a surrounding markdown code fence, with or
// without a language marker.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.HasPrefix(s, "[") {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
