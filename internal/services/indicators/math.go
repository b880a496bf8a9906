package indicators

// ema returns the exponential moving average series of values for period p.
// The first p-1 entries are zero; entry p-1 is the simple mean of the first p values.
func ema(values []float64, p int) []float64 {
	out := make([]float64, len(values))
	if p <= 0 || len(values) < p {
		return out
	}
	sum := 0.0
	for i := 0; i < p; i++ {
		sum += values[i]
	}
	cur := sum / float64(p)
	out[p-1] = cur
	k := 2.0 / float64(p+1)
	for i := p; i < len(values); i++ {
		cur += k * (values[i] - cur)
		out[i] = cur
	}
	return out
}

// rsi returns the latest Wilder RSI over period p. Requires len(closes) > p.
func rsi(closes []float64, p int) float64 {
	var gain, loss float64
	for i := 1; i <= p; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	gain /= float64(p)
	loss /= float64(p)
	for i := p + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		var g, l float64
		if d > 0 {
			g = d
		} else {
			l = -d
		}
		gain = (gain*float64(p-1) + g) / float64(p)
		loss = (loss*float64(p-1) + l) / float64(p)
	}
	if gain+loss == 0 {
		return 50
	}
	return 100 * gain / (gain + loss)
}

// macd returns the latest main line, signal line and histogram.
// Requires len(closes) >= slow+signal-1.
func macd(closes []float64, fast, slow, signal int) (float64, float64, float64) {
	fastEMA := ema(closes, fast)
	slowEMA := ema(closes, slow)
	line := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		line = append(line, fastEMA[i]-slowEMA[i])
	}
	sig := ema(line, signal)
	main := line[len(line)-1]
	s := sig[len(sig)-1]
	return main, s, main - s
}

func capConfidence(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
