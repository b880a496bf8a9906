package util

import (
    "strconv"
    "strings"
)

// ParseFloat parses a numeric string that may carry surrounding spaces.
func ParseFloat(s string) (float64, bool) {
    s = strings.TrimSpace(s)
    if s == "" {
        return 0, false
    }
    v, err := strconv.ParseFloat(s, 64)
    if err != nil {
        return 0, false
    }
    return v, true
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(s string) string {
    return strings.ToUpper(strings.TrimSpace(s))
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
    if n <= 0 {
        return ""
    }
    r := []rune(s)
    if len(r) <= n {
        return s
    }
    return string(r[:n])
}
