package usecase

import (
	"context"
	"fmt"
	"time"

	domrepo "SolSignal/internal/domain/repository"
	domsvc "SolSignal/internal/domain/service"
	applogger "SolSignal/pkg/logger"
)

// SyncUseCase pulls daily bars from the exchange into the bar store.
type SyncUseCase struct {
	source  domsvc.MarketSource
	store   domrepo.BarStore
	metrics domrepo.Metrics
	logger  *applogger.Logger
}

func NewSyncUseCase(source domsvc.MarketSource, store domrepo.BarStore, metrics domrepo.Metrics, logger *applogger.Logger) *SyncUseCase {
	return &SyncUseCase{source: source, store: store, metrics: metrics, logger: logger}
}

type SyncResult struct {
	Symbol   string    `json:"symbol"`
	Fetched  int       `json:"fetched"`
	LastDate time.Time `json:"last_date"`
}

// Sync fetches up to limit daily bars and upserts them. The store's
// ReplacingMergeTree dedupes overlapping dates, so repeated syncs are
// idempotent.
func (uc *SyncUseCase) Sync(ctx context.Context, symbol string, limit int) (*SyncResult, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if limit <= 0 {
		limit = 500
	}

	if prev, err := uc.store.LastDate(ctx, symbol); err == nil && prev > 0 {
		uc.logger.Debug("existing history",
			applogger.String("symbol", symbol),
			applogger.String("last_date", time.Unix(prev, 0).UTC().Format("2006-01-02")),
		)
	}

	start := time.Now()
	bars, err := uc.source.FetchDailyBars(ctx, symbol, limit)
	if err != nil {
		uc.metrics.RecordError("market_fetch")
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("exchange returned no bars for %s", symbol)
	}

	if err := uc.store.InsertBars(ctx, symbol, bars); err != nil {
		uc.metrics.RecordError("bar_insert")
		return nil, fmt.Errorf("insert bars: %w", err)
	}

	last := bars[len(bars)-1]
	uc.metrics.RecordLastPrice(symbol, last.Close)
	uc.metrics.RecordLatency("sync", time.Since(start).Seconds())
	uc.logger.Info("synced daily bars",
		applogger.String("symbol", symbol),
		applogger.Int("count", len(bars)),
		applogger.String("last_date", last.Date.Format("2006-01-02")),
	)

	return &SyncResult{Symbol: symbol, Fetched: len(bars), LastDate: last.Date}, nil
}
