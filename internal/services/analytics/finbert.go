package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"FinVerdict/internal/domain/models"
	domsvc "FinVerdict/internal/domain/service"
)

// HTTPFinBERTClassifier classifies financial text through the Hugging Face inference API.
type HTTPFinBERTClassifier struct {
	base     *HTTPServiceBase
	model    string
	attempts int
}

func NewHTTPFinBERTClassifier(baseURL, model, token string, timeout time.Duration) *HTTPFinBERTClassifier {
	return &HTTPFinBERTClassifier{
		base:     NewHTTPServiceBase(baseURL, timeout, WithBearerToken(token)),
		model:    model,
		attempts: 3,
	}
}

type finbertRequest struct {
	Inputs []string `json:"inputs"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns one SentimentScores per input, in input order.
func (c *HTTPFinBERTClassifier) Classify(ctx context.Context, texts []string) ([]models.SentimentScores, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var raw json.RawMessage
	err := c.base.PostJSONWithRetry(ctx, "/models/"+c.model, finbertRequest{Inputs: texts}, &raw, c.attempts)
	if err != nil {
		return nil, fmt.Errorf("finbert classify: %w", err)
	}

	batches, err := decodeLabelScores(raw)
	if err != nil {
		return nil, fmt.Errorf("finbert classify: %w", err)
	}

	out := make([]models.SentimentScores, 0, len(batches))
	for _, scores := range batches {
		out = append(out, toScores(scores))
	}
	return out, nil
}

// decodeLabelScores accepts [[{label,score}...]...] and the flat [{label,score}...] returned for a single input.
func decodeLabelScores(raw json.RawMessage) ([][]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		return nested, nil
	}
	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return [][]labelScore{flat}, nil
}

func toScores(scores []labelScore) models.SentimentScores {
	var out models.SentimentScores
	best := -1.0
	for _, s := range scores {
		label := strings.ToLower(s.Label)
		switch label {
		case "positive":
			out.Positive = s.Score
		case "negative":
			out.Negative = s.Score
		case "neutral":
			out.Neutral = s.Score
		default:
			continue
		}
		if s.Score > best {
			best = s.Score
			out.Label, _ = models.ParseSentimentLabel(label)
			out.Confidence = s.Score
		}
	}
	if best < 0 {
		return models.NeutralScores()
	}
	return out
}

var _ domsvc.SentimentClassifier = (*HTTPFinBERTClassifier)(nil)
