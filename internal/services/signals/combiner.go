package signals

import (
	"fmt"
	"time"

	"FinVerdict/internal/domain/models"
)

const noClearSignals = "No clear signals from indicators"

// Combine fuses indicator results by majority vote. Confidence is the mean confidence of
// non-HOLD votes scaled by the winning share, so split votes are damped.
func Combine(results []models.IndicatorResult) (models.Signal, float64, string) {
	var buy, sell int
	var total float64
	for _, r := range results {
		switch r.Signal {
		case models.SignalBuy:
			buy++
			total += r.Confidence
		case models.SignalSell:
			sell++
			total += r.Confidence
		}
	}
	if buy == 0 && sell == 0 {
		return models.SignalHold, 0, noClearSignals
	}

	n := len(results)
	avg := total / float64(buy+sell)

	var (
		signal   models.Signal
		strength float64
		text     string
	)
	switch {
	case buy > sell:
		signal = models.SignalBuy
		strength = float64(buy) / float64(n)
		text = fmt.Sprintf("BUY - %d/%d indicators bullish", buy, n)
	case sell > buy:
		signal = models.SignalSell
		strength = float64(sell) / float64(n)
		text = fmt.Sprintf("SELL - %d/%d indicators bearish", sell, n)
	default:
		signal = models.SignalHold
		strength = 0.5
		text = fmt.Sprintf("HOLD - Mixed signals (%d buy, %d sell)", buy, sell)
	}
	return signal, clamp(avg*strength, 0, 100), text
}

// Evaluator produces per-indicator results for a price series.
type Evaluator interface {
	Evaluate(series models.PriceSeries) []models.IndicatorResult
}

// Analyze evaluates series and combines the results into a technical verdict.
// Timestamp and price come from the newest bar.
func Analyze(symbol string, series models.PriceSeries, ev Evaluator) models.CombinedVerdict {
	results := ev.Evaluate(series)
	signal, conf, text := Combine(results)

	out := models.CombinedVerdict{
		Symbol:         symbol,
		Timestamp:      time.Now().UTC(),
		Signal:         signal,
		Confidence:     conf,
		Recommendation: text,
		Indicators:     results,
	}
	if last, ok := series.Last(); ok {
		out.Timestamp = last.Timestamp
		out.CurrentPrice = last.Close
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
