package signals

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinVerdict/internal/domain/models"
	"FinVerdict/internal/services/indicators"
)

func ind(name string, s models.Signal, conf float64) models.IndicatorResult {
	return models.IndicatorResult{Name: name, Signal: s, Confidence: conf}
}

func TestCombine(t *testing.T) {
	cases := []struct {
		name     string
		in       []models.IndicatorResult
		wantSig  models.Signal
		wantConf float64
		wantText string
	}{
		{
			name:     "empty",
			wantSig:  models.SignalHold,
			wantText: "No clear signals from indicators",
		},
		{
			name:     "all hold",
			in:       []models.IndicatorResult{ind("EMA", models.SignalHold, 40), ind("MACD", models.SignalHold, 0), ind("RSI", models.SignalHold, 0)},
			wantSig:  models.SignalHold,
			wantText: "No clear signals from indicators",
		},
		{
			name:     "unanimous buy",
			in:       []models.IndicatorResult{ind("EMA", models.SignalBuy, 30), ind("MACD", models.SignalBuy, 60), ind("RSI", models.SignalBuy, 90)},
			wantSig:  models.SignalBuy,
			wantConf: 60,
			wantText: "BUY - 3/3 indicators bullish",
		},
		{
			name:     "sell majority damped",
			in:       []models.IndicatorResult{ind("EMA", models.SignalSell, 40), ind("MACD", models.SignalSell, 80), ind("RSI", models.SignalHold, 0)},
			wantSig:  models.SignalSell,
			wantConf: 40,
			wantText: "SELL - 2/3 indicators bearish",
		},
		{
			name:     "buy beats sell",
			in:       []models.IndicatorResult{ind("EMA", models.SignalBuy, 60), ind("MACD", models.SignalBuy, 60), ind("RSI", models.SignalSell, 30)},
			wantSig:  models.SignalBuy,
			wantConf: 50 * 2.0 / 3.0,
			wantText: "BUY - 2/3 indicators bullish",
		},
		{
			name:     "tie",
			in:       []models.IndicatorResult{ind("EMA", models.SignalBuy, 40), ind("MACD", models.SignalSell, 80), ind("RSI", models.SignalHold, 0)},
			wantSig:  models.SignalHold,
			wantConf: 30,
			wantText: "HOLD - Mixed signals (1 buy, 1 sell)",
		},
		{
			name:     "clamped above 100",
			in:       []models.IndicatorResult{ind("EMA", models.SignalBuy, 500), ind("MACD", models.SignalBuy, 250)},
			wantSig:  models.SignalBuy,
			wantConf: 100,
			wantText: "BUY - 2/2 indicators bullish",
		},
		{
			name:     "clamped below 0",
			in:       []models.IndicatorResult{ind("EMA", models.SignalSell, -50)},
			wantSig:  models.SignalSell,
			wantConf: 0,
			wantText: "SELL - 1/1 indicators bearish",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig, conf, text := Combine(tc.in)
			assert.Equal(t, tc.wantSig, sig)
			assert.InDelta(t, tc.wantConf, conf, 1e-9)
			assert.Equal(t, tc.wantText, text)
			assert.GreaterOrEqual(t, conf, 0.0)
			assert.LessOrEqual(t, conf, 100.0)
		})
	}
}

func TestCombine_OrderIndependent(t *testing.T) {
	a := []models.IndicatorResult{ind("EMA", models.SignalBuy, 20), ind("MACD", models.SignalSell, 70), ind("RSI", models.SignalBuy, 45)}
	b := []models.IndicatorResult{a[2], a[0], a[1]}

	s1, c1, t1 := Combine(a)
	s2, c2, t2 := Combine(b)
	assert.Equal(t, s1, s2)
	assert.InDelta(t, c1, c2, 1e-9)
	assert.Equal(t, t1, t2)
}

func TestAnalyze_ConstantSeries(t *testing.T) {
	ev, err := indicators.NewEvaluator(indicators.DefaultParams())
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := models.PriceSeries{Symbol: "AAPL", Interval: "1D"}
	for i := 0; i < 40; i++ {
		series.Points = append(series.Points, models.PricePoint{
			Timestamp: start.AddDate(0, 0, i),
			Open:      100, High: 100, Low: 100, Close: 100, Volume: 1000,
		})
	}

	v := Analyze("AAPL", series, ev)
	assert.Equal(t, models.SignalHold, v.Signal)
	assert.Equal(t, 0.0, v.Confidence)
	assert.Equal(t, "No clear signals from indicators", v.Recommendation)
	assert.Equal(t, 100.0, v.CurrentPrice)
	assert.Equal(t, start.AddDate(0, 0, 39), v.Timestamp)
	require.Len(t, v.Indicators, 3)

	rsi, ok := v.Indicator(models.IndicatorRSI)
	require.True(t, ok)
	assert.Equal(t, 50.0, rsi.Value)
	assert.Equal(t, models.SignalHold, rsi.Signal)
	assert.Zero(t, rsi.Confidence)
}

func TestReport_SortsByConfidence(t *testing.T) {
	out := Report([]models.CombinedVerdict{
		{Symbol: "LOW", Confidence: 10, Recommendation: "HOLD"},
		{Symbol: "HIGH", Confidence: 90, Recommendation: "BUY - 3/3 indicators bullish"},
	})
	assert.Contains(t, out, "Analyzed 2 symbols")
	assert.Less(t, strings.Index(out, "HIGH"), strings.Index(out, "LOW"))
}

