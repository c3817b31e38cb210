package backtest

import (
	"errors"
	"math"
	"testing"
	"time"

	"SolSignal/internal/domain/models"
)

var day0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// bullBar satisfies every entry condition at the given close.
func bullBar(i int, close float64) models.PriceBar {
	return models.PriceBar{
		Date:         day0.AddDate(0, 0, i),
		Symbol:       "SOLUSDT",
		Close:        close,
		MA7:          close * 1.02,
		MA14:         close * 1.01,
		MA30:         close,
		Volatility14: 0.04,
		ATR:          3,
		Momentum10:   1,
		RSI14:        55,
	}
}

// bearBar fails the entry rule and, while long, triggers a reversal exit.
func bearBar(i int, close float64) models.PriceBar {
	b := bullBar(i, close)
	b.MA7 = close * 0.99
	b.MA14 = close * 1.01
	b.MA30 = close * 1.02
	return b
}

// warmupBar carries NaN indicators.
func warmupBar(i int, close float64) models.PriceBar {
	b := bullBar(i, close)
	nan := math.NaN()
	b.MA7, b.MA14, b.MA30, b.RSI14, b.Momentum10 = nan, nan, nan, nan, nan
	return b
}

func TestRunInsufficientData(t *testing.T) {
	bars := []models.PriceBar{bullBar(0, 100)}
	_, err := New(DefaultConfig()).Run(bars, 10)
	var short *models.InsufficientDataError
	if !errors.As(err, &short) {
		t.Fatalf("error = %v, want InsufficientDataError", err)
	}
	if short.Need != 10 || short.Have != 1 {
		t.Fatalf("need/have = %d/%d, want 10/1", short.Need, short.Have)
	}
}

func TestRunNoEntries(t *testing.T) {
	bars := make([]models.PriceBar, 50)
	for i := range bars {
		bars[i] = bearBar(i, 100+float64(i))
	}

	r, err := New(DefaultConfig()).Run(bars, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TotalTrades != 0 || len(r.Trades) != 0 {
		t.Fatalf("trades = %d, want 0", r.TotalTrades)
	}
	if r.WinRate != 0 || r.TotalReturnPct != 0 {
		t.Fatalf("win rate %v / return %v, want zeros", r.WinRate, r.TotalReturnPct)
	}
	// buy & hold still covers the window
	if want := 49.0; math.Abs(r.BuyHoldReturnPct-want) > 1e-9 {
		t.Fatalf("buy & hold = %v, want %v", r.BuyHoldReturnPct, want)
	}
}

func TestRunWarmupBarsNeverEnter(t *testing.T) {
	bars := make([]models.PriceBar, 40)
	for i := range bars {
		bars[i] = warmupBar(i, 100)
	}

	r, err := New(DefaultConfig()).Run(bars, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TotalTrades != 0 {
		t.Fatalf("trades = %d, want 0", r.TotalTrades)
	}
}

func TestRunEndOfPeriodExit(t *testing.T) {
	// entry fires on day 10; closes drift up slowly enough that neither
	// stop nor take is touched and MA7 stays above MA14
	bars := make([]models.PriceBar, 100)
	for i := 0; i < 10; i++ {
		bars[i] = bearBar(i, 100)
	}
	for i := 10; i < 100; i++ {
		bars[i] = bullBar(i, 100+float64(i-10)*0.1)
	}

	r, err := New(DefaultConfig()).Run(bars, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TotalTrades != 1 {
		t.Fatalf("trades = %d, want 1", r.TotalTrades)
	}
	tr := r.Trades[0]
	if tr.ExitReason != models.ExitEndOfPeriod {
		t.Fatalf("exit reason = %s, want %s", tr.ExitReason, models.ExitEndOfPeriod)
	}
	if !tr.EntryDate.Equal(day0.AddDate(0, 0, 10)) {
		t.Fatalf("entry date = %v", tr.EntryDate)
	}
	if !tr.ExitDate.Equal(day0.AddDate(0, 0, 99)) {
		t.Fatalf("exit date = %v", tr.ExitDate)
	}
	if tr.PnLPct <= 0 {
		t.Fatalf("pnl = %v, want positive", tr.PnLPct)
	}
	// one winner, no losers
	if r.WinRate != 1 {
		t.Fatalf("win rate = %v, want 1", r.WinRate)
	}
	if r.ProfitFactor != models.ProfitFactorCap {
		t.Fatalf("profit factor = %v, want cap %v", r.ProfitFactor, models.ProfitFactorCap)
	}
}

func TestRunStopLossExit(t *testing.T) {
	bars := make([]models.PriceBar, 40)
	for i := 0; i < 20; i++ {
		bars[i] = bearBar(i, 100)
	}
	bars[20] = bullBar(20, 100)
	// 6% drop through the 5% stop; exit fills at the stop level
	bars[21] = bearBar(21, 94)
	for i := 22; i < 40; i++ {
		bars[i] = bearBar(i, 94)
	}

	r, err := New(DefaultConfig()).Run(bars, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TotalTrades != 1 {
		t.Fatalf("trades = %d, want 1", r.TotalTrades)
	}
	tr := r.Trades[0]
	if tr.ExitReason != models.ExitStopLoss {
		t.Fatalf("exit reason = %s, want %s", tr.ExitReason, models.ExitStopLoss)
	}
	if math.Abs(tr.PnLPct-(-5)) > 1e-9 {
		t.Fatalf("pnl = %v, want -5", tr.PnLPct)
	}
	if math.Abs(tr.ExitPrice-95) > 1e-9 {
		t.Fatalf("exit price = %v, want 95", tr.ExitPrice)
	}
	if r.LosingTrades != 1 || r.WinningTrades != 0 {
		t.Fatalf("win/loss = %d/%d, want 0/1", r.WinningTrades, r.LosingTrades)
	}
}

func TestRunTakeProfitExit(t *testing.T) {
	bars := make([]models.PriceBar, 40)
	for i := 0; i < 20; i++ {
		bars[i] = bearBar(i, 100)
	}
	bars[20] = bullBar(20, 100)
	bars[21] = bearBar(21, 116)
	for i := 22; i < 40; i++ {
		bars[i] = bearBar(i, 116)
	}

	r, err := New(DefaultConfig()).Run(bars, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TotalTrades != 1 {
		t.Fatalf("trades = %d, want 1", r.TotalTrades)
	}
	tr := r.Trades[0]
	if tr.ExitReason != models.ExitTakeProfit {
		t.Fatalf("exit reason = %s, want %s", tr.ExitReason, models.ExitTakeProfit)
	}
	if math.Abs(tr.PnLPct-15) > 1e-9 {
		t.Fatalf("pnl = %v, want 15", tr.PnLPct)
	}
	if math.Abs(tr.ExitPrice-115) > 1e-9 {
		t.Fatalf("exit price = %v, want 115", tr.ExitPrice)
	}
}

func TestRunSignalReversalExit(t *testing.T) {
	bars := make([]models.PriceBar, 40)
	for i := 0; i < 20; i++ {
		bars[i] = bearBar(i, 100)
	}
	bars[20] = bullBar(20, 100)
	// close inside the stop/take band but MA7 dips under MA14
	bars[21] = bearBar(21, 102)
	for i := 22; i < 40; i++ {
		bars[i] = bearBar(i, 102)
	}

	r, err := New(DefaultConfig()).Run(bars, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TotalTrades != 1 {
		t.Fatalf("trades = %d, want 1", r.TotalTrades)
	}
	tr := r.Trades[0]
	if tr.ExitReason != models.ExitSignalReversal {
		t.Fatalf("exit reason = %s, want %s", tr.ExitReason, models.ExitSignalReversal)
	}
	if math.Abs(tr.PnLPct-2) > 1e-9 {
		t.Fatalf("pnl = %v, want 2", tr.PnLPct)
	}
}

func TestRunNoEntryOnLastBar(t *testing.T) {
	bars := make([]models.PriceBar, 40)
	for i := 0; i < 39; i++ {
		bars[i] = bearBar(i, 100)
	}
	bars[39] = bullBar(39, 100)

	r, err := New(DefaultConfig()).Run(bars, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TotalTrades != 0 {
		t.Fatalf("trades = %d, want 0 (no entry on the final bar)", r.TotalTrades)
	}
}

func TestRunUsesTrailingWindow(t *testing.T) {
	// entry opportunity sits outside the lookback window
	bars := make([]models.PriceBar, 60)
	bars[0] = bullBar(0, 100)
	for i := 1; i < 60; i++ {
		bars[i] = bearBar(i, 100)
	}

	r, err := New(DefaultConfig()).Run(bars, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TotalTrades != 0 {
		t.Fatalf("trades = %d, want 0", r.TotalTrades)
	}
	if !r.From.Equal(day0.AddDate(0, 0, 20)) {
		t.Fatalf("window start = %v, want day 20", r.From)
	}
}

func TestReportCompoundsEquity(t *testing.T) {
	cfg := DefaultConfig()
	window := []models.PriceBar{bullBar(0, 100), bullBar(1, 110)}
	trades := []models.Trade{
		{PnLPct: 10},
		{PnLPct: -5},
	}

	r := buildReport(cfg, window, trades)
	want := ((1+0.10*cfg.PositionSizePct)*(1-0.05*cfg.PositionSizePct) - 1) * 100
	if math.Abs(r.TotalReturnPct-want) > 1e-9 {
		t.Fatalf("total return = %v, want %v", r.TotalReturnPct, want)
	}
	if r.WinRate != 0.5 {
		t.Fatalf("win rate = %v, want 0.5", r.WinRate)
	}
	if want := 10.0 / 5.0; math.Abs(r.ProfitFactor-want) > 1e-9 {
		t.Fatalf("profit factor = %v, want %v", r.ProfitFactor, want)
	}
	if r.MaxDrawdownPct <= 0 {
		t.Fatalf("drawdown = %v, want positive", r.MaxDrawdownPct)
	}
}
