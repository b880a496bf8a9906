package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeDateOnly(t *testing.T) {
    got, ok := ParseTime("2024-10-10")
    if !ok {
        t.Fatalf("expected ok")
    }
    if !got.Equal(time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)) {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeDateTime(t *testing.T) {
    got, ok := ParseTime("2024-10-10 16:00:00")
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Hour() != 16 {
        t.Fatalf("unexpected hour %d", got.Hour())
    }
}

func TestParseTimeRFC1123Z(t *testing.T) {
    got, ok := ParseTime("Thu, 10 Oct 2024 10:10:10 -0400")
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Hour() != 14 {
        t.Fatalf("unexpected utc hour %d", got.UTC().Hour())
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestLookbackRange(t *testing.T) {
    now := time.Date(2024, 10, 10, 12, 0, 0, 0, time.UTC)
    from, to := LookbackRange(now, 7)
    if FormatDate(from) != "2024-10-03" || FormatDate(to) != "2024-10-10" {
        t.Fatalf("unexpected range %s..%s", FormatDate(from), FormatDate(to))
    }
}

func TestParseFloat(t *testing.T) {
    if v, ok := ParseFloat(" 187.4400 "); !ok || v != 187.44 {
        t.Fatalf("unexpected %v %v", v, ok)
    }
    if _, ok := ParseFloat("n/a"); ok {
        t.Fatalf("expected failure")
    }
}

func TestTruncate(t *testing.T) {
    if got := Truncate("héllo", 2); got != "hé" {
        t.Fatalf("unexpected %q", got)
    }
    if got := Truncate("abc", 10); got != "abc" {
        t.Fatalf("unexpected %q", got)
    }
}
