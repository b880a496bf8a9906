package verdict

import (
	"time"

	"FinVerdict/internal/domain/models"
)

// DefaultTechnical substitutes for a failed technical analysis.
func DefaultTechnical(symbol string) models.CombinedVerdict {
	return models.CombinedVerdict{
		Symbol:         symbol,
		Timestamp:      time.Now().UTC(),
		CurrentPrice:   100.0,
		Signal:         models.SignalHold,
		Confidence:     50.0,
		Recommendation: "HOLD - default analysis",
		Indicators: []models.IndicatorResult{
			{Name: models.IndicatorRSI, Value: 50.0, Signal: models.SignalHold},
			{Name: models.IndicatorMACD, Value: 0.0, Signal: models.SignalHold},
			{Name: models.IndicatorEMA, Value: 100.0, Signal: models.SignalHold},
		},
	}
}

// DefaultSentiment substitutes for a failed sentiment analysis.
func DefaultSentiment(symbol string) models.SentimentAggregate {
	return models.SentimentAggregate{
		EntityID:             symbol,
		DocumentCount:        5,
		WeightedSentimentAvg: 0.0,
		PositiveRatio:        0.5,
		NeutralRatio:         0.5,
		AverageConfidence:    0.5,
	}
}
