package models

import "time"

// Verdict is the frontend-facing result for one symbol.
type Verdict struct {
	Stock             StockInfo         `json:"stock"`
	TechnicalAnalysis TechnicalAnalysis `json:"technicalAnalysis"`
	SemanticAnalysis  SemanticAnalysis  `json:"semanticAnalysis"`
	AIInsight         string            `json:"aiInsight"`
}

type StockInfo struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

type TechnicalAnalysis struct {
	Trend      string  `json:"trend"`
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
	RSI        float64 `json:"rsi"`
	MACD       string  `json:"macd"`
}

type SemanticAnalysis struct {
	Sentiment       string  `json:"sentiment"`
	NewsScore       float64 `json:"newsScore"`
	SocialMediaBuzz string  `json:"socialMediaBuzz"`
	AnalystRating   string  `json:"analystRating"`
}

// DetailedAnalysis is the raw analysis behind a verdict.
// Errors holds per-part collaborator failures; defaults were used for those parts.
type DetailedAnalysis struct {
	Symbol            string             `json:"symbol"`
	AnalysisTimestamp time.Time          `json:"analysis_timestamp"`
	Technical         CombinedVerdict    `json:"technical_analysis"`
	Sentiment         SentimentAggregate `json:"semantic_analysis"`
	Quality           DataQuality        `json:"data_quality"`
	Features          []BarFeatures      `json:"features,omitempty"`
	Errors            map[string]string  `json:"errors,omitempty"`
}

// VerdictEvent is published after a verdict is computed.
type VerdictEvent struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Source     string    `json:"source"`
	Signal     Signal    `json:"signal"`
	Confidence float64   `json:"confidence"`
	Verdict    Verdict   `json:"verdict"`
	CreatedAt  time.Time `json:"created_at"`
}
