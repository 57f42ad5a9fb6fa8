package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultRemoteTimeout = 5 * time.Second

// classifyRequest is the body for POST /classify on the sidecar.
type classifyRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// Remote calls the ML sentiment sidecar. Any transport failure,
// non-200 status, or malformed response surfaces as ErrUnavailable so
// the chain can fall through.
type Remote struct {
	baseURL string
	client  *http.Client
}

// NewRemote builds a sidecar client. A zero timeout uses the default.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &Remote{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Classify sends POST /classify and decodes the judgment.
func (r *Remote) Classify(ctx context.Context, text string, rating int) (Classification, error) {
	body, err := json.Marshal(&classifyRequest{Text: text, Rating: rating})
	if err != nil {
		return Classification{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return Classification{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return Classification{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Classification{}, fmt.Errorf("%w: sidecar returned %d", ErrUnavailable, resp.StatusCode)
	}

	var result Classification
	if decodeErr := json.NewDecoder(resp.Body).Decode(&result); decodeErr != nil {
		return Classification{}, fmt.Errorf("%w: decode response: %v", ErrUnavailable, decodeErr)
	}
	if !result.Valid() {
		return Classification{}, fmt.Errorf("%w: sidecar returned sentiment %q confidence %f",
			ErrUnavailable, result.Sentiment, result.Confidence)
	}
	result.Confidence = round2(result.Confidence)
	return result, nil
}

// Health calls GET /health and reports reachability and latency.
func (r *Remote) Health(ctx context.Context) (bool, int64, error) {
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", http.NoBody)
	if err != nil {
		return false, 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(httpReq)
	latencyMs := time.Since(start).Milliseconds()
	if err != nil {
		return false, latencyMs, fmt.Errorf("sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, latencyMs, fmt.Errorf("unhealthy status: %d", resp.StatusCode)
	}
	return true, latencyMs, nil
}
