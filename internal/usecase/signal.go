package usecase

import (
	"context"
	"fmt"
	"time"

	"SolSignal/internal/domain/models"
	domrepo "SolSignal/internal/domain/repository"
	domsvc "SolSignal/internal/domain/service"
	"SolSignal/internal/services/features"
	signalengine "SolSignal/internal/services/signal"
	"SolSignal/pkg/cache"
	applogger "SolSignal/pkg/logger"
)

// SignalUseCase runs the full evaluation pipeline: load bars, enrich
// with indicators, obtain a forecast, score the rule table, then fan the
// emitted signal out to Kafka and the alert channel.
type SignalUseCase struct {
	store      domrepo.BarStore
	forecaster domsvc.Forecaster
	engine     *signalengine.Engine
	publisher  domrepo.SignalPublisher
	notifier   domsvc.Notifier
	cache      cache.Service
	cacheTTL   time.Duration
	metrics    domrepo.Metrics
	logger     *applogger.Logger
}

func NewSignalUseCase(
	store domrepo.BarStore,
	forecaster domsvc.Forecaster,
	engine *signalengine.Engine,
	publisher domrepo.SignalPublisher,
	notifier domsvc.Notifier,
	c cache.Service,
	cacheTTL time.Duration,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
) *SignalUseCase {
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &SignalUseCase{
		store:      store,
		forecaster: forecaster,
		engine:     engine,
		publisher:  publisher,
		notifier:   notifier,
		cache:      c,
		cacheTTL:   cacheTTL,
		metrics:    metrics,
		logger:     logger,
	}
}

// GetBars returns the trailing n bars with indicator columns filled in.
func (uc *SignalUseCase) GetBars(ctx context.Context, symbol string, n int) ([]models.PriceBar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	bars, err := uc.store.GetBars(ctx, symbol, n)
	if err != nil {
		uc.metrics.RecordError("bar_read")
		return nil, fmt.Errorf("get bars: %w", err)
	}
	return features.Enrich(bars), nil
}

// GetForecast returns the cached forecast for the symbol's current
// history, refitting through the sidecar on a miss.
func (uc *SignalUseCase) GetForecast(ctx context.Context, symbol string, horizon, n int) ([]models.ForecastPoint, error) {
	bars, err := uc.GetBars(ctx, symbol, n)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, &models.InsufficientDataError{Need: 1, Have: 0}
	}
	return uc.forecast(ctx, symbol, bars, horizon)
}

func (uc *SignalUseCase) forecast(ctx context.Context, symbol string, bars []models.PriceBar, horizon int) ([]models.ForecastPoint, error) {
	// a fit is only stale when new history arrives, so key on the last date
	lastDate := bars[len(bars)-1].Date.Format("2006-01-02")
	key := cache.GenerateKeyWithParams("forecast", symbol, horizon, lastDate)

	var cached []models.ForecastPoint
	if err := uc.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
		return cached, nil
	}

	start := time.Now()
	points, err := uc.forecaster.Forecast(ctx, symbol, bars, horizon)
	if err != nil {
		uc.metrics.RecordError("forecast")
		return nil, fmt.Errorf("forecast: %w", err)
	}
	uc.metrics.RecordLatency("forecast", time.Since(start).Seconds())

	if err := uc.cache.Set(ctx, key, points, uc.cacheTTL); err != nil {
		uc.logger.Warn("cache forecast", applogger.Error(err))
	}
	return points, nil
}

// Evaluate scores the latest bar and publishes the resulting signal.
// Publish and notify failures are logged but never fail the evaluation:
// the caller still gets the signal.
func (uc *SignalUseCase) Evaluate(ctx context.Context, symbol string, horizon, n int) (*models.Signal, error) {
	bars, err := uc.GetBars(ctx, symbol, n)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, &models.InsufficientDataError{Need: 31, Have: 0}
	}

	forecast, err := uc.forecast(ctx, symbol, bars, horizon)
	if err != nil {
		return nil, err
	}

	sig, err := uc.engine.Evaluate(bars[len(bars)-1], forecast)
	if err != nil {
		uc.metrics.RecordError("signal_eval")
		return nil, err
	}

	uc.metrics.RecordSignal(symbol, string(sig.Type))
	uc.logger.Info("signal emitted",
		applogger.String("symbol", symbol),
		applogger.String("type", string(sig.Type)),
		applogger.Any("confidence", sig.Confidence),
	)

	if sig.Type != models.SignalHold {
		if err := uc.publisher.Publish(ctx, sig); err != nil {
			uc.metrics.RecordError("signal_publish")
			uc.logger.Error("publish signal", applogger.Error(err))
		}
	}
	if err := uc.notifier.NotifySignal(ctx, sig); err != nil {
		uc.metrics.RecordError("signal_notify")
		uc.logger.Error("notify signal", applogger.Error(err))
	}

	return &sig, nil
}

// History returns every signal emitted since the process started.
func (uc *SignalUseCase) History() []models.Signal {
	return uc.engine.History()
}
