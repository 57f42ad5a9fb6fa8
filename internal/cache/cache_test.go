package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestpulse/insights/internal/domain"
)

func TestKey(t *testing.T) {
	base := Key("Еда вкусная, но официант хамил", 3)

	tests := []struct {
		name   string
		text   string
		rating int
		same   bool
	}{
		{"identical input", "Еда вкусная, но официант хамил", 3, true},
		{"whitespace-only difference", "  Еда вкусная,\n но официант  хамил ", 3, true},
		{"different rating", "Еда вкусная, но официант хамил", 5, false},
		{"different text", "Еда ужасная", 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Key(tt.text, tt.rating)
			if tt.same {
				assert.Equal(t, base, got)
			} else {
				assert.NotEqual(t, base, got)
			}
		})
	}
}

func TestKeyFormat(t *testing.T) {
	key := Key("привет", 4)
	assert.Regexp(t, `^review_analysis:[0-9a-f]{16}:4$`, key)
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()

	result := domain.AnalysisResult{
		Tags:      []domain.AspectTag{domain.FallbackTag(5)},
		Sentiment: domain.SentimentPositive,
	}
	key := Key("отличное место", 5)

	_, ok := m.Get(ctx, key)
	require.False(t, ok)

	m.Set(ctx, key, result)
	got, ok := m.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, result, got)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }

	ctx := context.Background()
	m.Set(ctx, "k", domain.AnalysisResult{Sentiment: domain.SentimentNeutral})

	now = now.Add(30 * time.Second)
	_, ok := m.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(31 * time.Second)
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok)
	assert.Zero(t, m.Len(), "expired entry should be evicted on read")
}
