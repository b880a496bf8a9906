package util

import (
    "strconv"
    "time"
)

// DateLayout is the calendar-date format used by upstream market APIs.
const DateLayout = "2006-01-02"

var timeLayouts = []string{
    time.RFC3339,
    time.RFC3339Nano,
    "2006-01-02 15:04:05",
    DateLayout,
    time.RFC1123Z,
    time.RFC1123,
}

// ParseTime tries RFC3339, exchange-local "date time", plain dates, RFC1123 and unix seconds.
// Zone-less layouts are interpreted as UTC.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    for _, layout := range timeLayouts {
        if t, err := time.Parse(layout, s); err == nil {
            return t, true
        }
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0).UTC(), true
    }
    return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}

// LookbackRange returns [now-daysBack days, now].
func LookbackRange(now time.Time, daysBack int) (time.Time, time.Time) {
    return now.AddDate(0, 0, -daysBack), now
}

// FormatDate renders t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
    return t.UTC().Format(DateLayout)
}
