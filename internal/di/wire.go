//go:build wireinject
// +build wireinject

package di

import (
	"SolSignal/pkg/config"
	"SolSignal/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideCache,

		// Repositories
		ProvideBarStore,
		ProvideSignalPublisher,

		// Domain services
		ProvideMarketSource,
		ProvideForecaster,
		ProvideNotifier,
		ProvideSignalEngine,
		ProvideBacktestConfig,

		// Use cases
		ProvideSyncUseCase,
		ProvideSignalUseCase,
		ProvideBacktestUseCase,

		// HTTP + application server
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
