package verdict

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FinVerdict/internal/domain/models"
	domsvc "FinVerdict/internal/domain/service"
	"FinVerdict/pkg/logger"
)

const defaultNarrativeTimeout = 10 * time.Second

// FallbackNarrative is the deterministic text used when no narrative can be generated.
func FallbackNarrative(symbol string, tech models.CombinedVerdict, sent models.SentimentAggregate) string {
	trend := strings.ToLower(tech.Signal.String())
	mood := "neutral"
	switch {
	case sent.WeightedSentimentAvg > 0:
		mood = "positive"
	case sent.WeightedSentimentAvg < 0:
		mood = "negative"
	}
	return fmt.Sprintf("Based on technical and semantic analysis, %s shows %s momentum with %s market sentiment. "+
		"Current technical indicators suggest %s bias while news sentiment analysis indicates %s market perception.",
		symbol, trend, mood, trend, mood)
}

// Formatter builds verdicts, asking a narrative generator for the insight text.
type Formatter struct {
	narrator domsvc.NarrativeGenerator
	timeout  time.Duration
	logger   *logger.Logger
}

type FormatterOption func(*Formatter)

func WithNarrativeTimeout(d time.Duration) FormatterOption {
	return func(f *Formatter) {
		if d > 0 {
			f.timeout = d
		}
	}
}

func WithLogger(l *logger.Logger) FormatterOption {
	return func(f *Formatter) { f.logger = l }
}

func NewFormatter(narrator domsvc.NarrativeGenerator, opts ...FormatterOption) *Formatter {
	f := &Formatter{narrator: narrator, timeout: defaultNarrativeTimeout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Build formats the verdict. Narrative failures fall back to FallbackNarrative and are never returned.
func (f *Formatter) Build(ctx context.Context, tech models.CombinedVerdict, sent models.SentimentAggregate) models.Verdict {
	return Format(tech, sent, tech.CurrentPrice, f.narrative(ctx, tech, sent))
}

func (f *Formatter) narrative(ctx context.Context, tech models.CombinedVerdict, sent models.SentimentAggregate) string {
	if f.narrator == nil {
		return FallbackNarrative(tech.Symbol, tech, sent)
	}
	cctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	text, err := f.narrator.Generate(cctx, tech, sent)
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		if f.logger != nil {
			if err == nil {
				err = fmt.Errorf("empty narrative")
			}
			f.logger.Warn("narrative fallback",
				logger.String("symbol", tech.Symbol),
				logger.Error(err),
			)
		}
		return FallbackNarrative(tech.Symbol, tech, sent)
	}
	return text
}
