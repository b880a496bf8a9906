package narrative

import (
	"context"
	"fmt"
	"strings"

	"FinVerdict/internal/domain/models"
	domsvc "FinVerdict/internal/domain/service"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeNarrator writes verdict narratives with the Anthropic Messages API.
type ClaudeNarrator struct {
	client anthropic.Client
	model  string
}

func NewClaudeNarrator(apiKey, model string, opts ...option.RequestOption) *ClaudeNarrator {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &ClaudeNarrator{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (n *ClaudeNarrator) Generate(ctx context.Context, tech models.CombinedVerdict, sent models.SentimentAggregate) (string, error) {
	resp, err := n.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(n.model),
		MaxTokens:   MaxTokens,
		Temperature: anthropic.Float(Temperature),
		System:      []anthropic.TextBlockParam{{Text: SystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(tech, sent))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude messages: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

var _ domsvc.NarrativeGenerator = (*ClaudeNarrator)(nil)
