//go:build wireinject
// +build wireinject

package di

import (
	"PegGuard/pkg/config"
	"PegGuard/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Pricing core
		ProvideCurveStore,
		ProvideEngine,
		ProvideClassifier,

		// Infrastructure clients
		ProvideOracleStream,
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideObservationCache,
		ProvideQuoteHistory,
		ProvideEventPublisher,

		// Use cases
		ProvideRegimeMonitor,
		ProvideQuoteService,

		// HTTP surface and application server
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
