package indicators

import (
	"fmt"
	"math"

	"FinVerdict/internal/domain/models"
)

// Evaluator computes EMA, MACD and RSI signals from close prices.
type Evaluator struct {
	params Params
}

// NewEvaluator validates p and returns an evaluator bound to it.
func NewEvaluator(p Params) (*Evaluator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{params: p}, nil
}

// Params returns the evaluator's parameters.
func (e *Evaluator) Params() Params { return e.params }

// Evaluate returns EMA, MACD and RSI results, in that order, for the series closes.
func (e *Evaluator) Evaluate(series models.PriceSeries) []models.IndicatorResult {
	return e.EvaluateCloses(series.Closes())
}

// EvaluateCloses is Evaluate over a bare close array ordered oldest to newest.
func (e *Evaluator) EvaluateCloses(closes []float64) []models.IndicatorResult {
	return []models.IndicatorResult{
		e.EMA(closes),
		e.MACD(closes),
		e.RSI(closes),
	}
}

// flatTolerance is the relative gap under which price and EMA count as equal.
const flatTolerance = 1e-9

// EMA compares the last close with its exponential moving average.
func (e *Evaluator) EMA(closes []float64) models.IndicatorResult {
	p := e.params.EMAPeriod
	if len(closes) < p {
		return insufficient(models.IndicatorEMA, len(closes), p)
	}
	avg := ema(closes, p)[len(closes)-1]
	price := closes[len(closes)-1]

	res := models.IndicatorResult{Name: models.IndicatorEMA, Value: avg, Reference: ptr(price)}
	switch {
	case math.Abs(price-avg) <= flatTolerance*math.Abs(avg):
		res.Signal = models.SignalHold
		res.Description = fmt.Sprintf("Price ($%.2f) at EMA ($%.2f)", price, avg)
	case price > avg:
		res.Signal = models.SignalBuy
		res.Confidence = capConfidence((price - avg) / avg * 100)
		res.Description = fmt.Sprintf("Price ($%.2f) above EMA ($%.2f)", price, avg)
	case price < avg:
		res.Signal = models.SignalSell
		res.Confidence = capConfidence((avg - price) / avg * 100)
		res.Description = fmt.Sprintf("Price ($%.2f) below EMA ($%.2f)", price, avg)
	default:
		res.Signal = models.SignalHold
		res.Description = fmt.Sprintf("Price ($%.2f) at EMA ($%.2f)", price, avg)
	}
	return res
}

// MACD evaluates the fast/slow EMA spread against its signal line.
func (e *Evaluator) MACD(closes []float64) models.IndicatorResult {
	need := e.params.MACDSlow + e.params.MACDSignal
	if len(closes) < need {
		return insufficient(models.IndicatorMACD, len(closes), need)
	}
	main, sig, hist := macd(closes, e.params.MACDFast, e.params.MACDSlow, e.params.MACDSignal)
	signal, conf := ClassifyMACD(main, sig, hist)

	res := models.IndicatorResult{
		Name:       models.IndicatorMACD,
		Signal:     signal,
		Value:      main,
		Reference:  ptr(sig),
		Confidence: conf,
	}
	switch signal {
	case models.SignalBuy:
		res.Description = fmt.Sprintf("MACD (%.4f) above Signal (%.4f)", main, sig)
	case models.SignalSell:
		res.Description = fmt.Sprintf("MACD (%.4f) below Signal (%.4f)", main, sig)
	default:
		res.Description = fmt.Sprintf("MACD (%.4f) near Signal (%.4f)", main, sig)
	}
	return res
}

// ClassifyMACD requires both the line crossing and the histogram to agree.
// main > signal with a non-positive histogram stays HOLD.
func ClassifyMACD(main, signal, hist float64) (models.Signal, float64) {
	switch {
	case main > signal && hist > 0:
		return models.SignalBuy, capConfidence(math.Abs(hist) * 1000)
	case main < signal && hist < 0:
		return models.SignalSell, capConfidence(math.Abs(hist) * 1000)
	default:
		return models.SignalHold, 0
	}
}

// RSI evaluates the Wilder relative strength index against the oversold/overbought bands.
func (e *Evaluator) RSI(closes []float64) models.IndicatorResult {
	p := e.params.RSIPeriod
	if len(closes) < p+1 {
		return insufficient(models.IndicatorRSI, len(closes), p+1)
	}
	v := rsi(closes, p)
	os, ob := e.params.RSIOversold, e.params.RSIOverbought

	res := models.IndicatorResult{Name: models.IndicatorRSI, Value: v}
	switch {
	case v < os:
		res.Signal = models.SignalBuy
		res.Confidence = capConfidence((os - v) / os * 100)
		res.Description = fmt.Sprintf("RSI (%.2f) oversold (< %g)", v, os)
	case v > ob:
		res.Signal = models.SignalSell
		res.Confidence = capConfidence((v - ob) / (100 - ob) * 100)
		res.Description = fmt.Sprintf("RSI (%.2f) overbought (> %g)", v, ob)
	default:
		res.Signal = models.SignalHold
		res.Description = fmt.Sprintf("RSI (%.2f) in neutral zone", v)
	}
	return res
}

func insufficient(name string, have, need int) models.IndicatorResult {
	return models.IndicatorResult{
		Name:        name,
		Signal:      models.SignalHold,
		Description: fmt.Sprintf("Insufficient data for %s (%d < %d)", name, have, need),
	}
}

func ptr(v float64) *float64 { return &v }
