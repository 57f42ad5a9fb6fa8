package annotator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/logger"
)

const defaultHTTPTimeout = 30 * time.Second

// annotateRequest is the body for POST /annotate on the sidecar.
type annotateRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// HTTP annotates reviews through a generic annotation sidecar that
// answers POST /annotate with a JSON tag array.
type HTTP struct {
	baseURL string
	client  *http.Client
	log     logger.Logger
}

// NewHTTP builds the sidecar backend. A zero timeout uses the default;
// the enrichment pipeline additionally bounds each call with its own
// per-item timeout.
func NewHTTP(baseURL string, timeout time.Duration, log logger.Logger) (*HTTP, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: missing service URL", ErrNotConfigured)
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &HTTP{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

// Name implements Annotator.
func (h *HTTP) Name() string { return "http" }

// Annotate sends POST /annotate and validates the returned tags.
func (h *HTTP) Annotate(ctx context.Context, review domain.Review) ([]domain.AspectTag, error) {
	body, err := json.Marshal(&annotateRequest{Text: review.Text, Rating: review.Rating})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/annotate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: sidecar returned %d", ErrUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	tags, err := ParseTags(raw)
	if err != nil {
		h.log.Warn("sidecar response rejected",
			logger.String("review_id", review.ID),
			logger.Error(err))
		return nil, err
	}
	return tags, nil
}
