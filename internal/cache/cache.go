// Package cache stores analysis results keyed by review text and
// rating. Backends: Redis for production, an in-process TTL map for
// development and tests. Misses and backend failures are equivalent:
// analysis is pure, so recomputation is always safe.
package cache

import (
	"context"
	"crypto/md5" //nolint:gosec // key derivation, not security
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/guestpulse/insights/internal/domain"
)

// DefaultTTL is how long cached results live. Expiry is advisory.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is the result cache consumed by the analyzer service.
type Cache interface {
	Get(ctx context.Context, key string) (domain.AnalysisResult, bool)
	Set(ctx context.Context, key string, result domain.AnalysisResult)
}

// Key derives the cache key for a (text, rating) pair. The text is
// whitespace-normalized first so reformatting a review does not bust
// the cache.
func Key(text string, rating int) string {
	normalized := strings.Join(strings.Fields(text), " ")
	sum := md5.Sum([]byte(normalized)) //nolint:gosec
	return fmt.Sprintf("review_analysis:%s:%d", hex.EncodeToString(sum[:])[:16], rating)
}
