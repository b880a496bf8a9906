package repository

// Interval represents bar resolution for price history.
type Interval string

const (
	Interval1Min  Interval = "1min"
	Interval5Min  Interval = "5min"
	Interval15Min Interval = "15min"
	Interval30Min Interval = "30min"
	Interval60Min Interval = "60min"
	Interval1D    Interval = "1D"
	Interval1W    Interval = "1W"
	Interval1M    Interval = "1M"
)

// IsValidInterval returns true if iv is a supported interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case Interval1Min, Interval5Min, Interval15Min, Interval30Min, Interval60Min,
		Interval1D, Interval1W, Interval1M:
		return true
	default:
		return false
	}
}

// IsIntraday reports whether iv is a sub-daily interval.
func IsIntraday(iv Interval) bool {
	switch iv {
	case Interval1Min, Interval5Min, Interval15Min, Interval30Min, Interval60Min:
		return true
	default:
		return false
	}
}

// DefaultInterval returns the default interval.
func DefaultInterval() Interval { return Interval1D }

// NormalizeInterval converts raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	if s == "" {
		return DefaultInterval()
	}
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}
