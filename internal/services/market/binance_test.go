package market

import (
	"testing"
	"time"
)

func TestParseKlines(t *testing.T) {
	raw := []byte(`[
		[1704067200000, "95.10", "99.50", "94.00", "98.25", "120000.5", 1704153599999, "0", 0, "0", "0", "0"],
		[1704153600000, "98.25", "101.00", "97.80", "100.40", "98000.1", 1704239999999, "0", 0, "0", "0", "0"]
	]`)

	bars, err := parseKlines("SOLUSDT", raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("bars = %d, want 2", len(bars))
	}

	b := bars[0]
	if b.Symbol != "SOLUSDT" {
		t.Fatalf("symbol = %q", b.Symbol)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !b.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", b.Date, want)
	}
	if b.Open != 95.10 || b.High != 99.50 || b.Low != 94.00 || b.Close != 98.25 || b.Volume != 120000.5 {
		t.Fatalf("ohlcv mismatch: %+v", b)
	}
	if bars[1].Close != 100.40 {
		t.Fatalf("second close = %v", bars[1].Close)
	}
}

func TestParseKlinesShortRow(t *testing.T) {
	raw := []byte(`[[1704067200000, "95.10"]]`)
	if _, err := parseKlines("SOLUSDT", raw); err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestParseKlinesBadNumber(t *testing.T) {
	raw := []byte(`[[1704067200000, "not-a-price", "1", "1", "1", "1"]]`)
	if _, err := parseKlines("SOLUSDT", raw); err == nil {
		t.Fatalf("expected error for unparsable field")
	}
}
