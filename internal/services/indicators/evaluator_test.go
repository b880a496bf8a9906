package indicators

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinVerdict/internal/domain/models"
)

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	ev, err := NewEvaluator(DefaultParams())
	require.NoError(t, err)
	return ev
}

func TestNewEvaluator_InvalidParams(t *testing.T) {
	cases := []struct {
		name string
		mod  func(p *Params)
	}{
		{"negative ema", func(p *Params) { p.EMAPeriod = -1 }},
		{"zero rsi", func(p *Params) { p.RSIPeriod = 0 }},
		{"fast not below slow", func(p *Params) { p.MACDFast = 26 }},
		{"oversold above overbought", func(p *Params) { p.RSIOversold = 80 }},
		{"overbought 100", func(p *Params) { p.RSIOverbought = 100 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mod(&p)
			ev, err := NewEvaluator(p)
			assert.Nil(t, ev)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParams))
		})
	}
}

func TestMinDataPoints(t *testing.T) {
	assert.Equal(t, 45, DefaultParams().MinDataPoints())
}

func TestInsufficientData(t *testing.T) {
	ev := newTestEvaluator(t)
	cases := []struct {
		name   string
		closes []float64
		eval   func([]float64) models.IndicatorResult
	}{
		{"ema", ramp(19, 10, 1), ev.EMA},
		{"macd", ramp(34, 10, 1), ev.MACD},
		{"rsi", ramp(14, 10, 1), ev.RSI},
		{"empty ema", nil, ev.EMA},
		{"empty macd", nil, ev.MACD},
		{"empty rsi", nil, ev.RSI},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := tc.eval(tc.closes)
			assert.Equal(t, models.SignalHold, res.Signal)
			assert.Zero(t, res.Confidence)
			assert.True(t, strings.HasPrefix(res.Description, "Insufficient data for"), res.Description)
		})
	}
}

func TestEvaluate_ConstantSeries(t *testing.T) {
	ev := newTestEvaluator(t)
	results := ev.EvaluateCloses(constant(40, 100))
	require.Len(t, results, 3)

	assert.Equal(t, models.IndicatorEMA, results[0].Name)
	assert.Equal(t, models.IndicatorMACD, results[1].Name)
	assert.Equal(t, models.IndicatorRSI, results[2].Name)

	for _, r := range results {
		assert.Equal(t, models.SignalHold, r.Signal, r.Name)
		assert.Zero(t, r.Confidence, r.Name)
	}
	assert.Equal(t, 100.0, results[0].Value)
	assert.Equal(t, "Price ($100.00) at EMA ($100.00)", results[0].Description)
	assert.Equal(t, "MACD (0.0000) near Signal (0.0000)", results[1].Description)
	assert.Equal(t, 50.0, results[2].Value)
	assert.Equal(t, "RSI (50.00) in neutral zone", results[2].Description)
}

func TestEMA_Direction(t *testing.T) {
	ev := newTestEvaluator(t)

	up := ev.EMA(ramp(30, 100, 1))
	assert.Equal(t, models.SignalBuy, up.Signal)
	assert.Greater(t, up.Confidence, 0.0)
	require.NotNil(t, up.Reference)
	assert.Equal(t, 129.0, *up.Reference)
	assert.Contains(t, up.Description, "above EMA")

	down := ev.EMA(ramp(30, 100, -1))
	assert.Equal(t, models.SignalSell, down.Signal)
	assert.Contains(t, down.Description, "below EMA")
}

func TestEMA_FlatNonRepresentable(t *testing.T) {
	ev := newTestEvaluator(t)
	for _, v := range []float64{100.1, 0.7, 33.3} {
		res := ev.EMA(constant(40, v))
		assert.Equal(t, models.SignalHold, res.Signal, v)
		assert.Zero(t, res.Confidence, v)
		assert.Contains(t, res.Description, "at EMA", v)
	}
}

func TestEMA_ConfidenceCapped(t *testing.T) {
	ev := newTestEvaluator(t)
	closes := append(constant(20, 1), 1000)
	res := ev.EMA(closes)
	assert.Equal(t, models.SignalBuy, res.Signal)
	assert.Equal(t, 100.0, res.Confidence)
}

func TestRSI_Extremes(t *testing.T) {
	ev := newTestEvaluator(t)

	falling := ev.RSI(ramp(20, 100, -1))
	assert.Equal(t, models.SignalBuy, falling.Signal)
	assert.InDelta(t, 0.0, falling.Value, 1e-9)
	assert.InDelta(t, 100.0, falling.Confidence, 1e-9)
	assert.Equal(t, "RSI (0.00) oversold (< 30)", falling.Description)

	rising := ev.RSI(ramp(20, 100, 1))
	assert.Equal(t, models.SignalSell, rising.Signal)
	assert.InDelta(t, 100.0, rising.Value, 1e-9)
	assert.InDelta(t, 100.0, rising.Confidence, 1e-9)
	assert.Equal(t, "RSI (100.00) overbought (> 70)", rising.Description)
}

func TestRSI_Bounded(t *testing.T) {
	ev := newTestEvaluator(t)
	closes := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1, 45.9, 46.3, 46.0, 46.4, 46.2, 45.6, 46.2, 46.5}
	res := ev.RSI(closes)
	assert.GreaterOrEqual(t, res.Value, 0.0)
	assert.LessOrEqual(t, res.Value, 100.0)
	assert.GreaterOrEqual(t, res.Confidence, 0.0)
	assert.LessOrEqual(t, res.Confidence, 100.0)
}

func TestClassifyMACD(t *testing.T) {
	cases := []struct {
		name             string
		main, sig, hist  float64
		want             models.Signal
		wantConfPositive bool
	}{
		{"bullish agree", 1.0, 0.5, 0.05, models.SignalBuy, true},
		{"bearish agree", -1.0, -0.5, -0.05, models.SignalSell, true},
		{"above signal but flat histogram", 1.0, 0.5, 0, models.SignalHold, false},
		{"above signal but negative histogram", 1.0, 0.5, -0.1, models.SignalHold, false},
		{"below signal but positive histogram", -1.0, -0.5, 0.1, models.SignalHold, false},
		{"equal lines", 0.3, 0.3, 0, models.SignalHold, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig, conf := ClassifyMACD(tc.main, tc.sig, tc.hist)
			assert.Equal(t, tc.want, sig)
			if tc.wantConfPositive {
				assert.InDelta(t, 50.0, conf, 1e-9)
			} else {
				assert.Zero(t, conf)
			}
		})
	}
}

func TestClassifyMACD_ConfidenceCapped(t *testing.T) {
	sig, conf := ClassifyMACD(2, 1, 1)
	assert.Equal(t, models.SignalBuy, sig)
	assert.Equal(t, 100.0, conf)
}

func TestMACD_Trending(t *testing.T) {
	ev := newTestEvaluator(t)

	closes := append(constant(30, 100), ramp(15, 101, 2)...)
	res := ev.MACD(closes)
	assert.Equal(t, models.SignalBuy, res.Signal)
	require.NotNil(t, res.Reference)
	assert.Greater(t, res.Value, *res.Reference)
	assert.Contains(t, res.Description, "above Signal")

	closes = append(constant(30, 100), ramp(15, 99, -2)...)
	res = ev.MACD(closes)
	assert.Equal(t, models.SignalSell, res.Signal)
	assert.Contains(t, res.Description, "below Signal")
}
