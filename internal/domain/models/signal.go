package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Signal is a discrete trading call emitted by an indicator or the combiner.
type Signal int

const (
	SignalHold Signal = iota
	SignalBuy
	SignalSell
)

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// ParseSignal maps "BUY"/"SELL"/"HOLD" (any case) to a Signal.
func ParseSignal(s string) (Signal, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return SignalBuy, nil
	case "SELL":
		return SignalSell, nil
	case "HOLD", "":
		return SignalHold, nil
	default:
		return SignalHold, fmt.Errorf("unknown signal %q", s)
	}
}

func (s Signal) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Signal) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := ParseSignal(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Indicator names.
const (
	IndicatorEMA  = "EMA"
	IndicatorMACD = "MACD"
	IndicatorRSI  = "RSI"
)

// IndicatorResult is the outcome of one indicator over one price series.
type IndicatorResult struct {
	Name        string   `json:"name"`
	Signal      Signal   `json:"signal"`
	Value       float64  `json:"value"`
	Reference   *float64 `json:"reference_value,omitempty"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description"`
}

// CombinedVerdict is the technical summary for one symbol.
type CombinedVerdict struct {
	Symbol         string            `json:"symbol"`
	Timestamp      time.Time         `json:"datetime"`
	CurrentPrice   float64           `json:"current_price"`
	Signal         Signal            `json:"overall_signal"`
	Confidence     float64           `json:"overall_confidence"`
	Recommendation string            `json:"recommendation"`
	Indicators     []IndicatorResult `json:"indicators"`
}

// Indicator returns the named indicator result, if present.
func (v CombinedVerdict) Indicator(name string) (IndicatorResult, bool) {
	for _, ind := range v.Indicators {
		if ind.Name == name {
			return ind, true
		}
	}
	return IndicatorResult{}, false
}
