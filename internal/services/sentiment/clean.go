package sentiment

import "FinVerdict/internal/domain/models"

// signalThreshold is the weighted sentiment magnitude needed for a directional signal.
const signalThreshold = 0.1

// Column names used by loosely-typed aggregate rows.
const (
	ColOverallSentiment     = "overall_sentiment"
	ColWeightedSentimentAvg = "weighted_sentiment_avg"
	ColPositiveRatio        = "positive_ratio"
	ColNegativeRatio        = "negative_ratio"
	ColAverageConfidence    = "average_confidence"
	ColSentimentSignal      = "sentiment_signal"
	ColConfidenceNormalized = "confidence_normalized"
)

// RequiredColumns are synthesized as 0 when missing from a row.
var RequiredColumns = []string{
	ColOverallSentiment,
	ColWeightedSentimentAvg,
	ColPositiveRatio,
	ColNegativeRatio,
	ColAverageConfidence,
}

// SignalFor discretizes a weighted sentiment average to -1, 0 or 1.
func SignalFor(weighted float64) int {
	switch {
	case weighted > signalThreshold:
		return 1
	case weighted < -signalThreshold:
		return -1
	default:
		return 0
	}
}

// CleanForDownstream returns copies of rows with SentimentSignal and
// ConfidenceNormalized derived across the batch.
func CleanForDownstream(rows []models.SentimentAggregate) []models.SentimentAggregate {
	maxConf := 0.0
	for _, r := range rows {
		if r.AverageConfidence > maxConf {
			maxConf = r.AverageConfidence
		}
	}
	out := make([]models.SentimentAggregate, len(rows))
	for i, r := range rows {
		r.SentimentSignal = SignalFor(r.WeightedSentimentAvg)
		r.ConfidenceNormalized = 0
		if maxConf > 0 {
			r.ConfidenceNormalized = r.AverageConfidence / maxConf
		}
		out[i] = r
	}
	return out
}

// CleanRecords is CleanForDownstream over partial column maps. Missing required
// columns are filled with 0 so it never fails.
func CleanRecords(records []map[string]float64) []map[string]float64 {
	out := make([]map[string]float64, len(records))
	maxConf := 0.0
	for i, rec := range records {
		row := make(map[string]float64, len(rec)+2)
		for k, v := range rec {
			row[k] = v
		}
		for _, col := range RequiredColumns {
			if _, ok := row[col]; !ok {
				row[col] = 0
			}
		}
		if row[ColAverageConfidence] > maxConf {
			maxConf = row[ColAverageConfidence]
		}
		out[i] = row
	}
	for _, row := range out {
		row[ColSentimentSignal] = float64(SignalFor(row[ColWeightedSentimentAvg]))
		row[ColConfidenceNormalized] = 0
		if maxConf > 0 {
			row[ColConfidenceNormalized] = row[ColAverageConfidence] / maxConf
		}
	}
	return out
}
