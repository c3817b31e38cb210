package models

import "time"

// SignalType is the discrete trading recommendation.
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
	SignalHold SignalType = "HOLD"
)

// Signal is one evaluation of the rule table against the latest bar
// and the current forecast. Created fresh per call, never mutated.
type Signal struct {
	Timestamp       time.Time  `json:"timestamp"`
	Symbol          string     `json:"symbol"`
	Type            SignalType `json:"type"`
	Confidence      float64    `json:"confidence"` // clamped to [0,100]
	Price           float64    `json:"price"`
	ExpectedMovePct float64    `json:"expected_move_pct"`
	StopLoss        float64    `json:"stop_loss"`
	TakeProfit      float64    `json:"take_profit"`
	Reason          string     `json:"reason"`
	Details         []string   `json:"details,omitempty"`
}

// ExitReason names why a backtest position was closed.
type ExitReason string

const (
	ExitStopLoss       ExitReason = "stop_loss"
	ExitTakeProfit     ExitReason = "take_profit"
	ExitSignalReversal ExitReason = "signal_reversal"
	ExitEndOfPeriod    ExitReason = "end_of_period"
)

// Trade is one closed long position from a backtest replay.
// ExitDate is always >= EntryDate.
type Trade struct {
	EntryDate  time.Time  `json:"entry_date"`
	EntryPrice float64    `json:"entry_price"`
	ExitDate   time.Time  `json:"exit_date"`
	ExitPrice  float64    `json:"exit_price"`
	ExitReason ExitReason `json:"exit_reason"`
	PnLPct     float64    `json:"pnl_pct"`
}

// ProfitFactorCap is reported as the profit factor when a backtest closed
// at least one winning trade and no losing trades. The true value is
// unbounded; a finite sentinel keeps reports serializable.
const ProfitFactorCap = 1000.0

// BacktestReport aggregates the replay statistics. WinRate is a fraction
// in [0,1]; the *Pct fields are percentages.
type BacktestReport struct {
	Symbol            string    `json:"symbol"`
	From              time.Time `json:"from"`
	To                time.Time `json:"to"`
	Trades            []Trade   `json:"trades"`
	TotalTrades       int       `json:"total_trades"`
	WinningTrades     int       `json:"winning_trades"`
	LosingTrades      int       `json:"losing_trades"`
	WinRate           float64   `json:"win_rate"`
	ProfitFactor      float64   `json:"profit_factor"`
	MaxDrawdownPct    float64   `json:"max_drawdown_pct"`
	TotalReturnPct    float64   `json:"total_return_pct"`
	BuyHoldReturnPct  float64   `json:"buy_hold_return_pct"`
	AvgTradeReturnPct float64   `json:"avg_trade_return_pct"`
}
