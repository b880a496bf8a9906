package narrative

import (
	"context"

	"FinVerdict/internal/domain/models"
	domsvc "FinVerdict/internal/domain/service"
)

// StaticNarrator is used when no language model is configured.
type StaticNarrator struct{}

func (StaticNarrator) Generate(context.Context, models.CombinedVerdict, models.SentimentAggregate) (string, error) {
	return "", domsvc.ErrNarrativeUnavailable
}

var _ domsvc.NarrativeGenerator = StaticNarrator{}
