//go:build wireinject
// +build wireinject

package di

import (
	"FinVerdict/internal/domain/repository"
	"FinVerdict/pkg/config"
	"FinVerdict/pkg/metrics"
	"FinVerdict/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,
		wire.Bind(new(repository.Metrics), new(*metrics.Recorder)),

		// Infrastructure clients
		ProvideRedisCache,
		ProvideCacheService,
		ProvideClickHouseClient,

		// Collaborators
		ProvidePriceSource,
		ProvideNewsSource,
		ProvideClassifier,
		ProvideNarrator,
		ProvideEvaluator,
		ProvideVerdictCache,
		ProvideVerdictPublisher,

		// Use cases
		ProvideAnalyzer,
		ProvideFormatter,
		ProvideVerdictUseCase,
		ProvideRefreshQueue,
		ProvideRefreshScheduler,

		// HTTP
		ProvideRateLimiter,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
