//go:build wireinject
// +build wireinject

package di

import (
	"PairPulse/pkg/config"
	"PairPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideCache,

		// Repositories
		ProvideAlertPublisher,
		ProvideConfigStore,
		ProvideMarketStream,

		// Core pipeline
		ProvidePairSynchronizer,
		ProvideAnalyticsEngine,
		ProvideAlertEngine,
		ProvideTickProcessor,
		ProvidePipeline,

		// Feeds
		ProvideTickCollector,
		ProvideKafkaConsumer,
		ProvideKafkaTicksHandler,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
