package features

import (
	"math"
	"testing"
	"time"

	"SolSignal/internal/domain/models"
)

// linearBars builds n daily bars with close = 100 + i and a fixed 4-wide
// high/low band around the close.
func linearBars(n int) []models.PriceBar {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, n)
	for i := 0; i < n; i++ {
		c := 100.0 + float64(i)
		bars[i] = models.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Symbol: "SOLUSDT",
			Open:   c - 0.5,
			High:   c + 2,
			Low:    c - 2,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestEnrichWarmup(t *testing.T) {
	out := Enrich(linearBars(40))

	if !math.IsNaN(out[5].MA7) {
		t.Fatalf("MA7 at index 5 should be NaN, got %v", out[5].MA7)
	}
	if math.IsNaN(out[6].MA7) {
		t.Fatalf("MA7 at index 6 should be defined")
	}
	if !math.IsNaN(out[28].MA30) {
		t.Fatalf("MA30 at index 28 should be NaN, got %v", out[28].MA30)
	}
	if math.IsNaN(out[29].MA30) {
		t.Fatalf("MA30 at index 29 should be defined")
	}
	if !math.IsNaN(out[13].RSI14) {
		t.Fatalf("RSI at index 13 should be NaN, got %v", out[13].RSI14)
	}
	if !math.IsNaN(out[0].DailyReturn) {
		t.Fatalf("first daily return should be NaN")
	}
}

func TestEnrichLinearSeries(t *testing.T) {
	out := Enrich(linearBars(40))
	last := out[39]

	// mean of closes 133..139
	if got, want := last.MA7, 136.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("MA7 = %v, want %v", got, want)
	}
	if got, want := last.MA30, 124.5; math.Abs(got-want) > 1e-9 {
		t.Fatalf("MA30 = %v, want %v", got, want)
	}
	// close rises by 1 per day
	if got, want := last.Momentum10, 10.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("Momentum10 = %v, want %v", got, want)
	}
	// every delta is a gain
	if got := last.RSI14; got != 100 {
		t.Fatalf("RSI14 = %v, want 100", got)
	}
	// true range is the 4-wide band every day past the first
	if got, want := last.ATR, 4.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("ATR = %v, want %v", got, want)
	}
	if got, want := last.DailyReturn, 1.0/138.0; math.Abs(got-want) > 1e-12 {
		t.Fatalf("DailyReturn = %v, want %v", got, want)
	}
	if math.IsNaN(last.Volatility14) || last.Volatility14 <= 0 {
		t.Fatalf("Volatility14 = %v, want positive", last.Volatility14)
	}
}

func TestEnrichPreservesInput(t *testing.T) {
	bars := linearBars(40)
	out := Enrich(bars)
	if len(out) != len(bars) {
		t.Fatalf("length changed: %d != %d", len(out), len(bars))
	}
	for i := range bars {
		if !out[i].Date.Equal(bars[i].Date) || out[i].Close != bars[i].Close {
			t.Fatalf("bar %d mutated", i)
		}
	}
	// input slice indicators untouched
	if bars[39].MA7 != 0 {
		t.Fatalf("input slice was mutated")
	}
}

func TestCompleteReportsFirstMissing(t *testing.T) {
	out := Enrich(linearBars(40))

	if name, ok := Complete(out[39]); !ok {
		t.Fatalf("mature bar reported incomplete: %s", name)
	}
	name, ok := Complete(out[10])
	if ok {
		t.Fatalf("warm-up bar reported complete")
	}
	if name != "ma14" {
		t.Fatalf("first missing indicator = %q, want ma14", name)
	}
}

func TestEnrichEmpty(t *testing.T) {
	if out := Enrich(nil); len(out) != 0 {
		t.Fatalf("expected empty output, got %d", len(out))
	}
}
