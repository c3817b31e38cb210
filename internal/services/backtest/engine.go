package backtest

import (
	"math"

	"SolSignal/internal/domain/models"
)

// Config holds the replay parameters. Stops here are fixed percentage
// offsets from the entry price, deliberately simpler than the signal
// engine's ATR-based levels so a full-year replay stays cheap.
type Config struct {
	InitialCapital  float64
	PositionSizePct float64
	StopLossPct     float64
	TakeProfitPct   float64
}

// DefaultConfig returns the production replay parameters.
func DefaultConfig() Config {
	return Config{
		InitialCapital:  10000,
		PositionSizePct: 0.95,
		StopLossPct:     0.05,
		TakeProfitPct:   0.15,
	}
}

// state of the position machine. Only long positions exist; a new entry
// cannot occur until the prior position is closed.
type state int

const (
	stateFlat state = iota
	stateLong
)

// position carries the mutable fields of an open long.
type position struct {
	entryBar models.PriceBar
	stop     float64
	take     float64
}

// Engine replays the entry/exit rule set over a trailing window of daily
// bars. It is stateless between runs; every Run builds a fresh machine.
type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Run replays the trailing lookbackDays window of bars and returns the
// aggregate report. Fails with InsufficientDataError when the history is
// shorter than the window.
func (e *Engine) Run(bars []models.PriceBar, lookbackDays int) (*models.BacktestReport, error) {
	if len(bars) < lookbackDays {
		return nil, &models.InsufficientDataError{Need: lookbackDays, Have: len(bars)}
	}
	window := bars[len(bars)-lookbackDays:]

	var (
		st     = stateFlat
		pos    position
		trades []models.Trade
	)

	for i, bar := range window {
		last := i == len(window)-1

		if st == stateLong {
			if t, closed := e.tryExit(pos, bar, last); closed {
				trades = append(trades, t)
				st = stateFlat
			}
		}
		if st == stateFlat && !last {
			if p, entered := e.tryEnter(bar); entered {
				pos = p
				st = stateLong
			}
		}
	}

	return buildReport(e.cfg, window, trades), nil
}

// tryEnter opens a long at the bar's close when the trend-alignment rule
// fires: MA7>MA14>MA30, RSI below overbought, positive momentum. Bars
// whose indicators are still warming up never enter.
func (e *Engine) tryEnter(bar models.PriceBar) (position, bool) {
	if anyNaN(bar.MA7, bar.MA14, bar.MA30, bar.RSI14, bar.Momentum10) {
		return position{}, false
	}
	if !(bar.MA7 > bar.MA14 && bar.MA14 > bar.MA30) {
		return position{}, false
	}
	if bar.RSI14 >= 70 || bar.Momentum10 <= 0 {
		return position{}, false
	}
	return position{
		entryBar: bar,
		stop:     bar.Close * (1 - e.cfg.StopLossPct),
		take:     bar.Close * (1 + e.cfg.TakeProfitPct),
	}, true
}

// tryExit checks the exit transitions in their fixed priority order:
// stop-loss, take-profit, signal reversal, forced end-of-period close.
// Stop and take-profit exits fill at the level itself, not the close.
func (e *Engine) tryExit(pos position, bar models.PriceBar, last bool) (models.Trade, bool) {
	entry := pos.entryBar.Close
	switch {
	case bar.Close <= pos.stop:
		return closedTrade(pos, bar, pos.stop, -e.cfg.StopLossPct*100, models.ExitStopLoss), true
	case bar.Close >= pos.take:
		return closedTrade(pos, bar, pos.take, e.cfg.TakeProfitPct*100, models.ExitTakeProfit), true
	case !anyNaN(bar.MA7, bar.MA14) && bar.MA7 < bar.MA14:
		return closedTrade(pos, bar, bar.Close, (bar.Close-entry)/entry*100, models.ExitSignalReversal), true
	case last:
		return closedTrade(pos, bar, bar.Close, (bar.Close-entry)/entry*100, models.ExitEndOfPeriod), true
	}
	return models.Trade{}, false
}

func closedTrade(pos position, bar models.PriceBar, exitPrice, pnlPct float64, reason models.ExitReason) models.Trade {
	return models.Trade{
		EntryDate:  pos.entryBar.Date,
		EntryPrice: pos.entryBar.Close,
		ExitDate:   bar.Date,
		ExitPrice:  exitPrice,
		ExitReason: reason,
		PnLPct:     pnlPct,
	}
}

func anyNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
