package models

import "time"

// PricePoint is one OHLCV bar for a symbol.
type PricePoint struct {
	Timestamp time.Time `json:"datetime"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Valid reports whether the bar is physically possible.
func (p PricePoint) Valid() bool {
	return p.Open > 0 && p.High > 0 && p.Low > 0 && p.Close > 0 &&
		p.Volume >= 0 && p.High >= p.Low
}

// PriceSeries is an ascending sequence of bars for one symbol.
type PriceSeries struct {
	Symbol   string       `json:"symbol"`
	Interval string       `json:"interval"`
	Points   []PricePoint `json:"points"`
}

// Closes returns the close prices oldest to newest.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

// Last returns the newest bar.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// BarFeatures are per-bar derived values reported alongside an analysis.
type BarFeatures struct {
	Timestamp      time.Time `json:"datetime"`
	PriceChange    float64   `json:"price_change"`
	PriceChangePct float64   `json:"price_change_pct"`
	TypicalPrice   float64   `json:"typical_price"`
	TrueRange      float64   `json:"true_range"`
}

// DataQuality summarizes sanity checks over a price series.
type DataQuality struct {
	Status   string   `json:"status"`
	Records  int      `json:"records"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
}
