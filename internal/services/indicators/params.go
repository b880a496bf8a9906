package indicators

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidParams is returned when indicator parameters cannot be evaluated.
var ErrInvalidParams = errors.New("invalid indicator params")

// minDataBuffer is added to the longest lookback when sizing price requests.
const minDataBuffer = 10

// Params holds lookback periods and oscillator thresholds.
type Params struct {
	EMAPeriod     int     `yaml:"ema_period" validate:"gt=0"`
	MACDFast      int     `yaml:"macd_fast" validate:"gt=0"`
	MACDSlow      int     `yaml:"macd_slow" validate:"gt=0"`
	MACDSignal    int     `yaml:"macd_signal" validate:"gt=0"`
	RSIPeriod     int     `yaml:"rsi_period" validate:"gt=0"`
	RSIOversold   float64 `yaml:"rsi_oversold" validate:"gt=0,lte=100"`
	RSIOverbought float64 `yaml:"rsi_overbought" validate:"gte=0,lt=100"`
}

// DefaultParams returns the classic 20 EMA, 12/26/9 MACD and 14 RSI with 30/70 bands.
func DefaultParams() Params {
	return Params{
		EMAPeriod:     20,
		MACDFast:      12,
		MACDSlow:      26,
		MACDSignal:    9,
		RSIPeriod:     14,
		RSIOversold:   30,
		RSIOverbought: 70,
	}
}

var validate = validator.New()

// Validate checks field ranges and cross-field constraints.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s must satisfy %s=%s (got %v)", ErrInvalidParams, fe.Field(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if p.MACDFast >= p.MACDSlow {
		return fmt.Errorf("%w: macd fast period (%d) must be less than slow period (%d)", ErrInvalidParams, p.MACDFast, p.MACDSlow)
	}
	if p.RSIOversold >= p.RSIOverbought {
		return fmt.Errorf("%w: rsi oversold (%g) must be below overbought (%g)", ErrInvalidParams, p.RSIOversold, p.RSIOverbought)
	}
	return nil
}

// MinDataPoints is the number of bars to request so every indicator can be computed.
func (p Params) MinDataPoints() int {
	longest := p.EMAPeriod
	if v := p.MACDSlow + p.MACDSignal; v > longest {
		longest = v
	}
	if p.RSIPeriod > longest {
		longest = p.RSIPeriod
	}
	return longest + minDataBuffer
}
