package signal

import (
	"errors"
	"math"
	"testing"
	"time"

	"SolSignal/internal/domain/models"
)

func matureBar() models.PriceBar {
	return models.PriceBar{
		Date:         time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Symbol:       "SOLUSDT",
		Close:        100,
		MA7:          102,
		MA14:         101,
		MA30:         100,
		Volatility14: 0.05,
		ATR:          5,
		Momentum10:   1.2,
		RSI14:        25,
		DailyReturn:  0.01,
	}
}

// risingForecast climbs 1 per day from start.
func risingForecast(start float64, n int) []models.ForecastPoint {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	out := make([]models.ForecastPoint, n)
	for i := 0; i < n; i++ {
		p := start + float64(i)
		out[i] = models.ForecastPoint{Date: base.AddDate(0, 0, i), Predicted: p, LowerBound: p - 3, UpperBound: p + 3}
	}
	return out
}

func flatForecast(price float64, n int) []models.ForecastPoint {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	out := make([]models.ForecastPoint, n)
	for i := 0; i < n; i++ {
		out[i] = models.ForecastPoint{Date: base.AddDate(0, 0, i), Predicted: price, LowerBound: price - 3, UpperBound: price + 3}
	}
	return out
}

func TestEvaluateStrongBuy(t *testing.T) {
	e := NewEngine(DefaultConfig())
	bar := matureBar()
	// local min 98 puts the close within 4% of the forecast floor;
	// day 7 sits above the close, so the trend points up
	fc := risingForecast(98, 30)

	sig, err := e.Evaluate(bar, fc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Type != models.SignalBuy {
		t.Fatalf("type = %s, want BUY", sig.Type)
	}
	// 16 (momentum) + 22 (rsi) + 18 (alignment) + 10 (near min) pushes
	// past the cap
	if sig.Confidence != 100 {
		t.Fatalf("confidence = %v, want 100", sig.Confidence)
	}
	if len(sig.Details) != 4 {
		t.Fatalf("details = %v, want 4 entries", sig.Details)
	}
	if sig.Reason != "strong buy signal, 4 conditions met" {
		t.Fatalf("reason = %q", sig.Reason)
	}
}

func TestEvaluateHoldOnMixedState(t *testing.T) {
	e := NewEngine(DefaultConfig())
	bar := matureBar()
	// bearish crossover without a death cross, neutral RSI, no momentum
	bar.MA7, bar.MA14, bar.MA30 = 99, 100, 98
	bar.Momentum10 = 0
	bar.RSI14 = 50

	sig, err := e.Evaluate(bar, flatForecast(100, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Type != models.SignalHold {
		t.Fatalf("type = %s, want HOLD (got %q, details %v)", sig.Type, sig.Reason, sig.Details)
	}
	if sig.Confidence != 50 {
		t.Fatalf("confidence = %v, want 50", sig.Confidence)
	}
}

func TestPartialTiersDoNotGate(t *testing.T) {
	// MA7<MA14 alone and weak momentum sit in lower tiers. They add
	// points on the sell side but must never count toward the two
	// conditions a SELL needs.
	bar := matureBar()
	bar.MA7, bar.MA14, bar.MA30 = 99, 100, 98
	bar.Momentum10 = -0.1
	bar.RSI14 = 50

	e := NewEngine(DefaultConfig())
	sig, err := e.Evaluate(bar, flatForecast(100, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Type != models.SignalHold {
		t.Fatalf("type = %s, want HOLD", sig.Type)
	}

	// the same rules fully met do gate: death cross plus strong
	// negative momentum is a SELL
	bar.MA30 = 101
	bar.Momentum10 = -2
	sig, err = e.Evaluate(bar, flatForecast(100, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Type != models.SignalSell {
		t.Fatalf("type = %s, want SELL", sig.Type)
	}
}

func TestEvaluateSell(t *testing.T) {
	e := NewEngine(DefaultConfig())
	bar := matureBar()
	bar.MA7, bar.MA14, bar.MA30 = 99, 100, 101
	bar.Momentum10 = -2
	bar.RSI14 = 75
	// falling forecast keeps the trend down
	fc := flatForecast(90, 30)

	sig, err := e.Evaluate(bar, fc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Type != models.SignalSell {
		t.Fatalf("type = %s, want SELL", sig.Type)
	}
	if sig.Confidence <= 50 || sig.Confidence > 100 {
		t.Fatalf("confidence = %v, want in (50,100]", sig.Confidence)
	}
}

func TestEvaluateRiskLevels(t *testing.T) {
	e := NewEngine(DefaultConfig())
	bar := matureBar()
	fc := risingForecast(98, 30)

	sig, err := e.Evaluate(bar, fc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// stop = max(100 - 1.5*5, 98*0.98) = max(92.5, 96.04)
	if want := 98 * 0.98; math.Abs(sig.StopLoss-want) > 1e-9 {
		t.Fatalf("stop = %v, want %v", sig.StopLoss, want)
	}
	// take = min(100 + 3*5, 127*1.02) = min(115, 129.54)
	if want := 115.0; math.Abs(sig.TakeProfit-want) > 1e-9 {
		t.Fatalf("take = %v, want %v", sig.TakeProfit, want)
	}
	// near-term point is day 7 of the forecast
	if want := (104.0 - 100.0) / 100.0 * 100.0; math.Abs(sig.ExpectedMovePct-want) > 1e-9 {
		t.Fatalf("expected move = %v, want %v", sig.ExpectedMovePct, want)
	}
}

func TestEvaluateIncompleteIndicators(t *testing.T) {
	e := NewEngine(DefaultConfig())
	bar := matureBar()
	bar.RSI14 = math.NaN()

	_, err := e.Evaluate(bar, risingForecast(98, 30))
	var incomplete *models.IncompleteIndicatorsError
	if !errors.As(err, &incomplete) {
		t.Fatalf("error = %v, want IncompleteIndicatorsError", err)
	}
	if incomplete.Indicator != "rsi_14" {
		t.Fatalf("indicator = %q, want rsi_14", incomplete.Indicator)
	}
}

func TestEvaluateEmptyForecast(t *testing.T) {
	e := NewEngine(DefaultConfig())

	_, err := e.Evaluate(matureBar(), nil)
	var empty *models.EmptyForecastError
	if !errors.As(err, &empty) {
		t.Fatalf("error = %v, want EmptyForecastError", err)
	}
	if len(e.History()) != 0 {
		t.Fatalf("failed evaluation must not record history")
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	e := NewEngine(DefaultConfig())
	bar := matureBar()
	fc := risingForecast(98, 30)

	a, err := e.Evaluate(bar, fc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := e.Evaluate(bar, fc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Type != b.Type || a.Confidence != b.Confidence || a.StopLoss != b.StopLoss || a.TakeProfit != b.TakeProfit {
		t.Fatalf("same inputs produced different signals: %+v vs %+v", a, b)
	}
}

func TestHistoryAccumulates(t *testing.T) {
	e := NewEngine(DefaultConfig())
	fc := risingForecast(98, 30)

	for i := 0; i < 3; i++ {
		if _, err := e.Evaluate(matureBar(), fc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	h := e.History()
	if len(h) != 3 {
		t.Fatalf("history length = %d, want 3", len(h))
	}
	// returned slice is a copy
	h[0].Confidence = -1
	if e.History()[0].Confidence == -1 {
		t.Fatalf("History must return a copy")
	}
}

func TestShortForecastUsesLastPoint(t *testing.T) {
	e := NewEngine(DefaultConfig())
	bar := matureBar()
	fc := risingForecast(101, 3)

	sig, err := e.Evaluate(bar, fc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// near-term falls back to the final point (103)
	if want := 3.0; math.Abs(sig.ExpectedMovePct-want) > 1e-9 {
		t.Fatalf("expected move = %v, want %v", sig.ExpectedMovePct, want)
	}
}
