package narrative

import (
	"encoding/json"
	"fmt"

	"FinVerdict/internal/domain/models"
)

const (
	SystemPrompt = "You are a financial analyst providing brief, professional market insights."

	MaxTokens   = 200
	Temperature = 0.3
)

type technicalSummary struct {
	Signal         string             `json:"overall_signal"`
	Confidence     float64            `json:"overall_confidence"`
	Recommendation string             `json:"recommendation"`
	Indicators     map[string]float64 `json:"indicators"`
}

type sentimentSummary struct {
	NewsCount         int     `json:"news_count"`
	WeightedSentiment float64 `json:"weighted_sentiment_avg"`
	PositiveRatio     float64 `json:"positive_ratio"`
	NegativeRatio     float64 `json:"negative_ratio"`
	AverageConfidence float64 `json:"average_confidence"`
	Momentum          float64 `json:"sentiment_momentum"`
}

// BuildPrompt renders the user prompt for one verdict.
func BuildPrompt(tech models.CombinedVerdict, sent models.SentimentAggregate) string {
	ts := technicalSummary{
		Signal:         tech.Signal.String(),
		Confidence:     tech.Confidence,
		Recommendation: tech.Recommendation,
		Indicators:     make(map[string]float64, len(tech.Indicators)),
	}
	for _, ind := range tech.Indicators {
		ts.Indicators[ind.Name] = ind.Value
	}
	ss := sentimentSummary{
		NewsCount:         sent.DocumentCount,
		WeightedSentiment: sent.WeightedSentimentAvg,
		PositiveRatio:     sent.PositiveRatio,
		NegativeRatio:     sent.NegativeRatio,
		AverageConfidence: sent.AverageConfidence,
		Momentum:          sent.SentimentMomentum,
	}

	techJSON, _ := json.MarshalIndent(ts, "", "  ")
	sentJSON, _ := json.MarshalIndent(ss, "", "  ")

	return fmt.Sprintf(`Generate a concise, professional investment insight for %s based on the following analysis data. Keep it to 2-3 sentences and focus on actionable insights.

Current Price: $%.2f
Technical Analysis: %s
Semantic Analysis: %s

Format as a single paragraph insight that a financial advisor would provide to a client.`,
		tech.Symbol, tech.CurrentPrice, techJSON, sentJSON)
}
