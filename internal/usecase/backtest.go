package usecase

import (
	"context"
	"fmt"
	"time"

	"SolSignal/internal/domain/models"
	domrepo "SolSignal/internal/domain/repository"
	"SolSignal/internal/services/backtest"
	"SolSignal/internal/services/features"
	applogger "SolSignal/pkg/logger"
)

// BacktestUseCase replays the entry/exit rule set over stored history.
type BacktestUseCase struct {
	store   domrepo.BarStore
	cfg     backtest.Config
	metrics domrepo.Metrics
	logger  *applogger.Logger
}

func NewBacktestUseCase(store domrepo.BarStore, cfg backtest.Config, metrics domrepo.Metrics, logger *applogger.Logger) *BacktestUseCase {
	return &BacktestUseCase{store: store, cfg: cfg, metrics: metrics, logger: logger}
}

// indicatorWarmupBars is the longest lookback any indicator needs (MA30)
// before its value is defined.
const indicatorWarmupBars = 30

type RunBacktestParams struct {
	Symbol        string
	LookbackDays  int
	StopLossPct   float64
	TakeProfitPct float64
}

// Run replays the trailing lookback window. Per-request stop and take
// overrides replace the configured defaults when set.
func (uc *BacktestUseCase) Run(ctx context.Context, p RunBacktestParams) (*models.BacktestReport, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.LookbackDays <= 0 {
		p.LookbackDays = 365
	}

	cfg := uc.cfg
	if p.StopLossPct > 0 {
		cfg.StopLossPct = p.StopLossPct
	}
	if p.TakeProfitPct > 0 {
		cfg.TakeProfitPct = p.TakeProfitPct
	}

	// the longest indicator window is 30 days, so fetch that much extra
	// history; the replay itself only covers the trailing lookback window
	bars, err := uc.store.GetBars(ctx, p.Symbol, p.LookbackDays+indicatorWarmupBars)
	if err != nil {
		uc.metrics.RecordError("bar_read")
		return nil, fmt.Errorf("get bars: %w", err)
	}

	start := time.Now()
	report, err := backtest.New(cfg).Run(features.Enrich(bars), p.LookbackDays)
	if err != nil {
		return nil, err
	}
	report.Symbol = p.Symbol

	uc.metrics.RecordBacktest(p.Symbol)
	uc.metrics.RecordLatency("backtest", time.Since(start).Seconds())
	uc.logger.Info("backtest complete",
		applogger.String("symbol", p.Symbol),
		applogger.Int("lookback_days", p.LookbackDays),
		applogger.Int("trades", report.TotalTrades),
	)

	return report, nil
}
