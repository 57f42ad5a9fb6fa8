package annotator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestpulse/insights/internal/config"
	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/logger"
)

const validResponse = `[
	{"category": "Продукт", "subcategory": "Еда/кухня", "sentiment": "positive", "evidence": ["вкусная еда"]},
	{"category": "Сервис", "subcategory": "Хамство/грубость/конфликт", "sentiment": "negative", "evidence": ["официант хамил"]}
]`

func TestParseTags(t *testing.T) {
	tags, err := ParseTags([]byte(validResponse))
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Продукт", tags[0].Category)
	assert.Equal(t, "Хамство/грубость/конфликт", tags[1].Subcategory)
}

func TestParseTagsStripsFences(t *testing.T) {
	fenced := "```json\n" + validResponse + "\n```"
	tags, err := ParseTags([]byte(fenced))
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestParseTagsNormalizesSentimentCase(t *testing.T) {
	tags, err := ParseTags([]byte(`[{"category": "Общее", "subcategory": "Общее впечатление", "sentiment": " Positive "}]`))
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentPositive, tags[0].Sentiment)
}

func TestParseTagsRejectsWholesale(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "the review is mostly positive"},
		{"empty array", "[]"},
		{"unknown category", `[{"category": "Погода", "subcategory": "Общее впечатление", "sentiment": "neutral"}]`},
		{
			name: "one bad tag poisons the batch",
			raw: `[
				{"category": "Продукт", "subcategory": "Еда/кухня", "sentiment": "positive"},
				{"category": "Продукт", "subcategory": "Еда/кухня", "sentiment": "amazing"}
			]`,
		},
		{
			name: "subcategory from wrong category",
			raw:  `[{"category": "Продукт", "subcategory": "Сервис/персонал", "sentiment": "neutral"}]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTags([]byte(tt.raw))
			assert.ErrorIs(t, err, ErrInvalidShape)
		})
	}
}

func TestHTTPAnnotate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/annotate", r.URL.Path)
		_, _ = w.Write([]byte(validResponse))
	}))
	defer srv.Close()

	a, err := NewHTTP(srv.URL, 0, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "http", a.Name())

	tags, err := a.Annotate(context.Background(), domain.Review{ID: "r1", Text: "Еда вкусная", Rating: 4})
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestHTTPAnnotateUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a, err := NewHTTP(srv.URL, 0, logger.NewNop())
	require.NoError(t, err)

	_, err = a.Annotate(context.Background(), domain.Review{ID: "r1"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewSelection(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.AnnotatorConfig
		wantName string
		wantErr  error
	}{
		{
			name:     "explicit claude",
			cfg:      config.AnnotatorConfig{Provider: "claude", ClaudeAPIKey: "sk-test", ClaudeModel: "claude-sonnet-4-5"},
			wantName: "claude",
		},
		{
			name:     "explicit http",
			cfg:      config.AnnotatorConfig{Provider: "http", ServiceURL: "http://localhost:9000"},
			wantName: "http",
		},
		{
			name:     "claude preferred when both configured",
			cfg:      config.AnnotatorConfig{ClaudeAPIKey: "sk-test", ServiceURL: "http://localhost:9000"},
			wantName: "claude",
		},
		{
			name:     "http when only url configured",
			cfg:      config.AnnotatorConfig{ServiceURL: "http://localhost:9000"},
			wantName: "http",
		},
		{
			name:    "nothing configured",
			cfg:     config.AnnotatorConfig{},
			wantErr: ErrNotConfigured,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.cfg, logger.NewNop())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, a.Name())
		})
	}
}

func TestSystemPromptCoversTaxonomy(t *testing.T) {
	assert.Contains(t, systemPrompt, "Продукт")
	assert.Contains(t, systemPrompt, "Сервис/персонал")
	assert.Contains(t, systemPrompt, "positive")
}
