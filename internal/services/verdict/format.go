package verdict

import (
	"github.com/shopspring/decimal"

	"FinVerdict/internal/domain/models"
)

// Thresholds for discretizing analyses into frontend categories.
const (
	supportFactor       = 0.95
	resistanceFactor    = 1.05
	sentimentThreshold  = 0.1
	strongRatingConf    = 70.0
	highBuzzDocs        = 20
	mediumBuzzDocs      = 10
	defaultRSI          = 50.0
	newsScoreMax        = 10.0
	newsScorePosWeight  = 10.0
	newsScoreConfWeight = 5.0
	newsScoreDivisor    = 1.5
)

// Format maps technical and sentiment summaries plus a price to the frontend verdict.
func Format(tech models.CombinedVerdict, sent models.SentimentAggregate, price float64, narrative string) models.Verdict {
	rsi := defaultRSI
	if ind, ok := tech.Indicator(models.IndicatorRSI); ok {
		rsi = round(ind.Value, 1)
	}
	macd := models.SignalHold
	if ind, ok := tech.Indicator(models.IndicatorMACD); ok {
		macd = ind.Signal
	}

	return models.Verdict{
		Stock: models.StockInfo{Symbol: tech.Symbol, Price: price},
		TechnicalAnalysis: models.TechnicalAnalysis{
			Trend:      TrendLabel(tech.Signal),
			Support:    round(price*supportFactor, 2),
			Resistance: round(price*resistanceFactor, 2),
			RSI:        rsi,
			MACD:       MACDLabel(macd),
		},
		SemanticAnalysis: models.SemanticAnalysis{
			Sentiment:       SentimentLabel(sent.WeightedSentimentAvg),
			NewsScore:       round(NewsScore(sent.PositiveRatio, sent.AverageConfidence), 1),
			SocialMediaBuzz: BuzzLevel(sent.DocumentCount),
			AnalystRating:   AnalystRating(tech.Signal, tech.Confidence),
		},
		AIInsight: narrative,
	}
}

// TrendLabel maps a combined signal to Bullish, Bearish or Neutral.
func TrendLabel(s models.Signal) string {
	switch s {
	case models.SignalBuy:
		return "Bullish"
	case models.SignalSell:
		return "Bearish"
	default:
		return "Neutral"
	}
}

// MACDLabel names the MACD signal for display.
func MACDLabel(s models.Signal) string {
	switch s {
	case models.SignalBuy:
		return "Buy Signal"
	case models.SignalSell:
		return "Sell Signal"
	default:
		return "Neutral"
	}
}

// SentimentLabel buckets the weighted sentiment average around the neutral band.
func SentimentLabel(weighted float64) string {
	switch {
	case weighted > sentimentThreshold:
		return "Positive"
	case weighted < -sentimentThreshold:
		return "Negative"
	default:
		return "Neutral"
	}
}

// NewsScore scales positive ratio and confidence onto [0, 10].
func NewsScore(positiveRatio, avgConfidence float64) float64 {
	v := (positiveRatio*newsScorePosWeight + avgConfidence*newsScoreConfWeight) / newsScoreDivisor
	if v < 0 {
		return 0
	}
	if v > newsScoreMax {
		return newsScoreMax
	}
	return v
}

// BuzzLevel rates news volume by document count.
func BuzzLevel(docs int) string {
	switch {
	case docs > highBuzzDocs:
		return "High"
	case docs > mediumBuzzDocs:
		return "Medium"
	default:
		return "Low"
	}
}

// AnalystRating upgrades a directional signal to Strong when confidence is high.
func AnalystRating(s models.Signal, confidence float64) string {
	switch {
	case s == models.SignalBuy && confidence > strongRatingConf:
		return "Strong Buy"
	case s == models.SignalBuy:
		return "Buy"
	case s == models.SignalSell && confidence > strongRatingConf:
		return "Strong Sell"
	case s == models.SignalSell:
		return "Sell"
	default:
		return "Hold"
	}
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
