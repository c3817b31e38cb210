package di

import (
	"context"
	"fmt"
	"time"

	"SolSignal/internal/domain/repository"
	domsvc "SolSignal/internal/domain/service"
	"SolSignal/internal/handler/api"
	internalrepo "SolSignal/internal/repository"
	"SolSignal/internal/services/alert"
	"SolSignal/internal/services/backtest"
	"SolSignal/internal/services/forecast"
	"SolSignal/internal/services/market"
	signalengine "SolSignal/internal/services/signal"
	"SolSignal/internal/usecase"
	"SolSignal/pkg/cache"
	pkgch "SolSignal/pkg/clickhouse"
	"SolSignal/pkg/config"
	xhttp "SolSignal/pkg/http"
	pkgkafka "SolSignal/pkg/kafka"
	applogger "SolSignal/pkg/logger"
	"SolSignal/pkg/metrics"
	"SolSignal/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the database exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBarStore creates the ClickHouse bar store and ensures its table exists.
func ProvideBarStore(chClient *pkgch.Client, cfg *config.Config, logger *applogger.Logger) (repository.BarStore, error) {
	store := internalrepo.NewCHBarStore(chClient, cfg.ClickHouse.Database+"."+cfg.ClickHouse.BarsTable)
	store.SetLogger(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("bar store init: %w", err)
	}
	return store, nil
}

// ProvideSignalPublisher creates the Kafka signal publisher.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SignalPublisher {
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.SignalsTopic)
}

// ProvideMarketSource creates the Binance klines fetcher.
func ProvideMarketSource(cfg *config.Config) domsvc.MarketSource {
	return market.NewBinanceSource(cfg)
}

// ProvideForecaster creates the Prophet sidecar client.
func ProvideForecaster(cfg *config.Config) domsvc.Forecaster {
	return forecast.NewHTTPProphetForecaster(cfg)
}

// ProvideNotifier creates the Telegram notifier.
func ProvideNotifier(cfg *config.Config, logger *applogger.Logger) (domsvc.Notifier, error) {
	return alert.NewTelegramNotifier(cfg, logger)
}

// ProvideCache creates the forecast cache: layered memory+Redis when Redis
// is enabled, in-process memory otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Forecast.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Forecast.Redis.Host),
		cache.WithRedisPort(cfg.Forecast.Redis.Port),
		cache.WithRedisPassword(cfg.Forecast.Redis.Password),
		cache.WithRedisDB(cfg.Forecast.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc), nil
}

// ProvideSignalEngine builds the rule-table engine from configured thresholds.
func ProvideSignalEngine(cfg *config.Config) *signalengine.Engine {
	ec := signalengine.DefaultConfig()
	if cfg.Signal.RSIOversold > 0 {
		ec.RSIOversold = cfg.Signal.RSIOversold
	}
	if cfg.Signal.RSIOverbought > 0 {
		ec.RSIOverbought = cfg.Signal.RSIOverbought
	}
	if cfg.Signal.StrongMomentum > 0 {
		ec.StrongMomentum = cfg.Signal.StrongMomentum
	}
	if cfg.Signal.MinBuyConditions > 0 {
		ec.MinBuyConditions = cfg.Signal.MinBuyConditions
	}
	if cfg.Signal.MinSellConditions > 0 {
		ec.MinSellConditions = cfg.Signal.MinSellConditions
	}
	if cfg.Signal.ATRStopMult > 0 {
		ec.ATRStopMult = cfg.Signal.ATRStopMult
	}
	if cfg.Signal.ATRTakeMult > 0 {
		ec.ATRTakeMult = cfg.Signal.ATRTakeMult
	}
	return signalengine.NewEngine(ec)
}

// ProvideBacktestConfig builds replay parameters from config.
func ProvideBacktestConfig(cfg *config.Config) backtest.Config {
	bc := backtest.DefaultConfig()
	if cfg.Backtest.InitialCapital > 0 {
		bc.InitialCapital = cfg.Backtest.InitialCapital
	}
	if cfg.Backtest.PositionSizePct > 0 {
		bc.PositionSizePct = cfg.Backtest.PositionSizePct
	}
	if cfg.Backtest.StopLossPct > 0 {
		bc.StopLossPct = cfg.Backtest.StopLossPct
	}
	if cfg.Backtest.TakeProfitPct > 0 {
		bc.TakeProfitPct = cfg.Backtest.TakeProfitPct
	}
	return bc
}

// ProvideSyncUseCase creates the bar sync use case.
func ProvideSyncUseCase(source domsvc.MarketSource, store repository.BarStore, m repository.Metrics, logger *applogger.Logger) *usecase.SyncUseCase {
	return usecase.NewSyncUseCase(source, store, m, logger)
}

// ProvideSignalUseCase creates the evaluation pipeline use case.
func ProvideSignalUseCase(
	store repository.BarStore,
	forecaster domsvc.Forecaster,
	engine *signalengine.Engine,
	publisher repository.SignalPublisher,
	notifier domsvc.Notifier,
	c cache.Service,
	cfg *config.Config,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.SignalUseCase {
	return usecase.NewSignalUseCase(store, forecaster, engine, publisher, notifier, c, cfg.Forecast.CacheTTL, m, logger)
}

// ProvideBacktestUseCase creates the replay use case.
func ProvideBacktestUseCase(store repository.BarStore, bc backtest.Config, m repository.Metrics, logger *applogger.Logger) *usecase.BacktestUseCase {
	return usecase.NewBacktestUseCase(store, bc, m, logger)
}

// ProvideHTTPHandler creates the Echo API handler.
func ProvideHTTPHandler(
	logger *applogger.Logger,
	signals *usecase.SignalUseCase,
	bt *usecase.BacktestUseCase,
	sync *usecase.SyncUseCase,
	store repository.BarStore,
) xhttp.Handler {
	return api.NewSignalsEchoHandler(logger, signals, bt, sync, store)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	sync *usecase.SyncUseCase,
	publisher repository.SignalPublisher,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, logger, handler, sync, publisher, chClient)
}
