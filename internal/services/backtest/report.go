package backtest

import "SolSignal/internal/domain/models"

// buildReport derives the aggregate statistics from the closed trades.
// The equity curve compounds trade returns sequentially; drawdown is the
// largest peak-to-trough decline on that curve.
func buildReport(cfg Config, window []models.PriceBar, trades []models.Trade) *models.BacktestReport {
	r := &models.BacktestReport{Trades: trades, TotalTrades: len(trades)}
	if len(window) > 0 {
		r.Symbol = window[0].Symbol
		r.From = window[0].Date
		r.To = window[len(window)-1].Date
		first, last := window[0].Close, window[len(window)-1].Close
		if first != 0 {
			r.BuyHoldReturnPct = (last - first) / first * 100
		}
	}
	if len(trades) == 0 {
		return r
	}

	var grossProfit, grossLoss, sumPct float64
	equity := 1.0
	peak := 1.0
	maxDD := 0.0
	for _, t := range trades {
		sumPct += t.PnLPct
		if t.PnLPct > 0 {
			r.WinningTrades++
			grossProfit += t.PnLPct
		} else if t.PnLPct < 0 {
			r.LosingTrades++
			grossLoss += -t.PnLPct
		}

		// only the allocated fraction of capital rides each trade
		equity *= 1 + t.PnLPct/100*cfg.PositionSizePct
		if equity > peak {
			peak = equity
		} else if dd := (peak - equity) / peak; dd > maxDD {
			maxDD = dd
		}
	}

	r.WinRate = float64(r.WinningTrades) / float64(r.TotalTrades)
	r.AvgTradeReturnPct = sumPct / float64(r.TotalTrades)
	r.TotalReturnPct = (equity - 1) * 100
	r.MaxDrawdownPct = maxDD * 100

	switch {
	case grossLoss > 0:
		r.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		// no losing trades: the true ratio is unbounded
		r.ProfitFactor = models.ProfitFactorCap
	default:
		r.ProfitFactor = 0
	}
	return r
}
