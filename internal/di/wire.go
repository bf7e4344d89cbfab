//go:build wireinject
// +build wireinject

package di

import (
	"FinDash/pkg/config"
	"FinDash/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,
		ProvideHTTPClient,
		ProvideCache,
		ProvideHistoryStore,
		ProvideEventPublisher,
		ProvideKafkaConsumer,

		// Upstreams and fallback
		ProvideCurrencySource,
		ProvideCryptoSource,
		ProvideGenerator,
		ProvideDataProvider,

		// Use cases
		ProvideOrchestrator,
		ProvideDashboard,
		ProvideRefreshHandler,

		// Transport
		ProvideLimiter,
		ProvideHub,
		ProvideDashboardHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return &server.App{}, nil
}
