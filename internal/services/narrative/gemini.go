package narrative

import (
	"context"
	"fmt"
	"strings"

	"FinVerdict/internal/domain/models"
	domsvc "FinVerdict/internal/domain/service"

	"google.golang.org/genai"
)

// GeminiNarrator writes verdict narratives with the Gemini generateContent API.
type GeminiNarrator struct {
	client *genai.Client
	model  string
}

// NewGeminiNarrator creates the client. baseURL overrides the API endpoint when non-empty.
func NewGeminiNarrator(ctx context.Context, apiKey, model, baseURL string) (*GeminiNarrator, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &GeminiNarrator{client: client, model: model}, nil
}

func (n *GeminiNarrator) Generate(ctx context.Context, tech models.CombinedVerdict, sent models.SentimentAggregate) (string, error) {
	resp, err := n.client.Models.GenerateContent(ctx, n.model,
		[]*genai.Content{genai.NewContentFromText(BuildPrompt(tech, sent), genai.RoleUser)},
		&genai.GenerateContentConfig{
			Temperature:       genai.Ptr[float32](Temperature),
			MaxOutputTokens:   MaxTokens,
			SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
		})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	var sb strings.Builder
	if resp != nil {
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part != nil {
					sb.WriteString(part.Text)
				}
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

var _ domsvc.NarrativeGenerator = (*GeminiNarrator)(nil)
