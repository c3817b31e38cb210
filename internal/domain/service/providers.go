package service

import (
	"context"

	"SolSignal/internal/domain/models"
)

// Forecaster produces a forward-looking price forecast from historical bars.
type Forecaster interface {
	Forecast(ctx context.Context, symbol string, bars []models.PriceBar, horizon int) ([]models.ForecastPoint, error)
}

// MarketSource fetches raw daily bars from an exchange.
type MarketSource interface {
	FetchDailyBars(ctx context.Context, symbol string, limit int) ([]models.PriceBar, error)
}

// Notifier delivers a signal alert to a human channel.
type Notifier interface {
	NotifySignal(ctx context.Context, s models.Signal) error
}
