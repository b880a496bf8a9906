package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SentimentLabel is the three-way class of a classified document.
type SentimentLabel int

const (
	SentimentNeutral SentimentLabel = iota
	SentimentPositive
	SentimentNegative
)

func (l SentimentLabel) String() string {
	switch l {
	case SentimentPositive:
		return "positive"
	case SentimentNegative:
		return "negative"
	default:
		return "neutral"
	}
}

// ParseSentimentLabel maps a classifier label to a SentimentLabel.
func ParseSentimentLabel(s string) (SentimentLabel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return SentimentPositive, nil
	case "negative":
		return SentimentNegative, nil
	case "neutral", "":
		return SentimentNeutral, nil
	default:
		return SentimentNeutral, fmt.Errorf("unknown sentiment label %q", s)
	}
}

func (l SentimentLabel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *SentimentLabel) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := ParseSentimentLabel(raw)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// NewsArticle is a raw news item for a symbol.
type NewsArticle struct {
	Symbol  string    `json:"symbol"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	Created time.Time `json:"created"`
	URL     string    `json:"url"`
	Author  string    `json:"author"`
}

// Text is the content sent to the classifier.
func (a NewsArticle) Text() string {
	return a.Title + " " + a.Body
}

// SentimentScores is one classifier output.
type SentimentScores struct {
	Label      SentimentLabel `json:"sentiment"`
	Confidence float64        `json:"confidence"`
	Positive   float64        `json:"positive_score"`
	Negative   float64        `json:"negative_score"`
	Neutral    float64        `json:"neutral_score"`
}

// NeutralScores is the placeholder used when classification fails.
func NeutralScores() SentimentScores {
	return SentimentScores{Label: SentimentNeutral, Neutral: 1.0}
}

// SentimentDocument is a classified piece of text attributed to an entity.
type SentimentDocument struct {
	EntityID string `json:"symbol"`
	Text     string `json:"text"`
	SentimentScores
}

// WeightedScore is positive minus negative probability.
func (d SentimentDocument) WeightedScore() float64 {
	return d.Positive - d.Negative
}

// SentimentAggregate is the per-entity reduction of classified documents.
type SentimentAggregate struct {
	EntityID             string  `json:"symbol"`
	DocumentCount        int     `json:"news_count"`
	AnalysisDate         string  `json:"analysis_date,omitempty"`
	OverallSentiment     float64 `json:"overall_sentiment"`
	WeightedSentimentAvg float64 `json:"weighted_sentiment_avg"`
	PositiveRatio        float64 `json:"positive_ratio"`
	NegativeRatio        float64 `json:"negative_ratio"`
	NeutralRatio         float64 `json:"neutral_ratio"`
	AverageConfidence    float64 `json:"average_confidence"`
	SentimentMomentum    float64 `json:"sentiment_momentum"`
	AvgPositiveScore     float64 `json:"avg_positive_score"`
	AvgNegativeScore     float64 `json:"avg_negative_score"`
	AvgNeutralScore      float64 `json:"avg_neutral_score"`
	SentimentSignal      int     `json:"sentiment_signal"`
	ConfidenceNormalized float64 `json:"confidence_normalized"`
}
