package sentiment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/logger"
)

func TestLexicalClassify(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantSentiment string
		wantErr       bool
	}{
		{
			name:          "clearly positive",
			text:          "Очень вкусно, отличный сервис",
			wantSentiment: domain.SentimentPositive,
		},
		{
			name:          "clearly negative",
			text:          "Ужасно, отвратительное обслуживание",
			wantSentiment: domain.SentimentNegative,
		},
		{
			name:          "negation flips positive",
			text:          "не вкусно",
			wantSentiment: domain.SentimentNegative,
		},
		{
			name:    "no sentiment vocabulary",
			text:    "Зашли вчера вечером с коллегами",
			wantErr: true,
		},
		{
			name:    "empty text",
			text:    "",
			wantErr: true,
		},
	}

	l := NewLexical()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Classify(context.Background(), tt.text, 3)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSentiment, got.Sentiment)
			assert.GreaterOrEqual(t, got.Confidence, 0.5)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		c    Classification
		want float64
	}{
		{"positive", Classification{Sentiment: domain.SentimentPositive, Confidence: 0.87}, 0.87},
		{"negative", Classification{Sentiment: domain.SentimentNegative, Confidence: 0.6}, -0.6},
		{"neutral ignores confidence", Classification{Sentiment: domain.SentimentNeutral, Confidence: 0.9}, 0.0},
		{"rounds to two decimals", Classification{Sentiment: domain.SentimentPositive, Confidence: 0.666}, 0.67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.c.Score(), 0.0001)
		})
	}
}

func TestRemoteClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/classify", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sentiment":"negative","confidence":0.91}`))
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, 0)
	got, err := r.Classify(context.Background(), "Все было плохо", 1)
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentNegative, got.Sentiment)
	assert.InDelta(t, 0.91, got.Confidence, 0.0001)
}

func TestRemoteClassifyErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "unknown label",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"sentiment":"mixed","confidence":0.7}`))
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewRemote(srv.URL, 0).Classify(context.Background(), "текст", 3)
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestRemoteHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ok, latency, err := NewRemote(srv.URL, 0).Health(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, latency, int64(0))
}

type stubClassifier struct {
	result Classification
	err    error
}

func (s *stubClassifier) Classify(context.Context, string, int) (Classification, error) {
	return s.result, s.err
}

func TestChainFallsThrough(t *testing.T) {
	failing := &stubClassifier{err: ErrUnavailable}
	working := &stubClassifier{result: Classification{Sentiment: domain.SentimentPositive, Confidence: 0.8}}

	chain := NewChain(logger.NewNop(), failing, working)
	got, err := chain.Classify(context.Background(), "какой-то текст", 4)
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentPositive, got.Sentiment)
}

func TestChainFloor(t *testing.T) {
	chain := NewChain(logger.NewNop(),
		&stubClassifier{err: ErrUnavailable},
		&stubClassifier{err: errors.New("boom")},
	)

	got, err := chain.Classify(context.Background(), "какой-то текст", 3)
	require.NoError(t, err)
	assert.Equal(t, Floor, got)
}

func TestChainEmptyTextShortCircuits(t *testing.T) {
	called := false
	chain := NewChain(logger.NewNop(), classifierFunc(func() (Classification, error) {
		called = true
		return Classification{}, nil
	}))

	got, err := chain.Classify(context.Background(), "   ", 3)
	require.NoError(t, err)
	assert.Equal(t, Floor, got)
	assert.False(t, called)
}

type classifierFunc func() (Classification, error)

func (f classifierFunc) Classify(context.Context, string, int) (Classification, error) {
	return f()
}
