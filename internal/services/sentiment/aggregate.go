package sentiment

import (
	"math"

	"FinVerdict/internal/domain/models"
)

// Aggregate reduces classified documents for one entity. An empty batch yields zeros
// with a neutral ratio of 1.
func Aggregate(entityID string, docs []models.SentimentDocument) models.SentimentAggregate {
	agg := models.SentimentAggregate{EntityID: entityID, DocumentCount: len(docs)}
	if len(docs) == 0 {
		agg.NeutralRatio = 1.0
		return agg
	}

	n := float64(len(docs))
	var pos, neg, neu int
	var signed, weighted, conf, pScore, nScore, uScore float64
	for _, d := range docs {
		switch d.Label {
		case models.SentimentPositive:
			pos++
			signed += d.Confidence
		case models.SentimentNegative:
			neg++
			signed -= d.Confidence
		default:
			neu++
		}
		weighted += d.WeightedScore()
		conf += d.Confidence
		pScore += d.Positive
		nScore += d.Negative
		uScore += d.Neutral
	}

	agg.PositiveRatio = float64(pos) / n
	agg.NegativeRatio = float64(neg) / n
	agg.NeutralRatio = float64(neu) / n
	agg.OverallSentiment = signed / n
	agg.WeightedSentimentAvg = weighted / n
	agg.AverageConfidence = conf / n
	agg.AvgPositiveScore = pScore / n
	agg.AvgNegativeScore = nScore / n
	agg.AvgNeutralScore = uScore / n

	var variance float64
	for _, d := range docs {
		dev := d.WeightedScore() - agg.WeightedSentimentAvg
		variance += dev * dev
	}
	agg.SentimentMomentum = math.Sqrt(variance / n)
	return agg
}

// GroupByEntity buckets documents by their originating entity id.
func GroupByEntity(docs []models.SentimentDocument) map[string][]models.SentimentDocument {
	out := make(map[string][]models.SentimentDocument)
	for _, d := range docs {
		out[d.EntityID] = append(out[d.EntityID], d)
	}
	return out
}

// AggregateByEntity returns one aggregate per entity id, in the given order.
// Entities without documents get the empty aggregate.
func AggregateByEntity(entityIDs []string, docs []models.SentimentDocument) []models.SentimentAggregate {
	groups := GroupByEntity(docs)
	out := make([]models.SentimentAggregate, 0, len(entityIDs))
	for _, id := range entityIDs {
		out = append(out, Aggregate(id, groups[id]))
	}
	return out
}
