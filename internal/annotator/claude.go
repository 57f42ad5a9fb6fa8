package annotator

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/guestpulse/insights/internal/config"
	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/logger"
)

// Claude annotates reviews through the Anthropic Messages API.
type Claude struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	log       logger.Logger
}

// NewClaude builds the Claude backend from config.
func NewClaude(cfg config.AnnotatorConfig, log logger.Logger) (*Claude, error) {
	if cfg.ClaudeAPIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrNotConfigured)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Claude{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.ClaudeAPIKey)),
		model:     anthropic.Model(cfg.ClaudeModel),
		maxTokens: int64(cfg.ClaudeMaxTokens),
		log:       log,
	}, nil
}

// Name implements Annotator.
func (c *Claude) Name() string { return "claude" }

// Annotate sends the review to the model and parses the tag array out
// of the response text.
func (c *Claude) Annotate(ctx context.Context, review domain.Review) ([]domain.AspectTag, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt(review.Text, review.Rating))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return nil, fmt.Errorf("%w: response carries no text", ErrInvalidShape)
	}

	tags, err := ParseTags([]byte(b.String()))
	if err != nil {
		c.log.Warn("claude response rejected",
			logger.String("review_id", review.ID),
			logger.Error(err))
		return nil, err
	}
	return tags, nil
}
