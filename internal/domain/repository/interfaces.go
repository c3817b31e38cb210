package repository

import (
	"context"

	"SolSignal/internal/domain/models"
)

// BarStore persists raw daily OHLCV bars. Reads come back strictly
// date-ascending with no duplicate dates.
type BarStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	InsertBars(ctx context.Context, symbol string, bars []models.PriceBar) error
	GetBars(ctx context.Context, symbol string, limit int) ([]models.PriceBar, error)
	LastDate(ctx context.Context, symbol string) (int64, error) // unix seconds, 0 if empty
	Health(ctx context.Context) error
	Close() error
}

// SignalPublisher fans emitted signals out to downstream consumers.
type SignalPublisher interface {
	Publish(ctx context.Context, s models.Signal) error
	Close() error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordSignal(symbol, signalType string)
	RecordBacktest(symbol string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
	RecordError(kind string)
}
