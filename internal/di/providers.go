package di

import (
	"context"
	"fmt"

	"FinVerdict/internal/domain/repository"
	domsvc "FinVerdict/internal/domain/service"
	"FinVerdict/internal/handler/api"
	mid "FinVerdict/internal/middleware"
	internalrepo "FinVerdict/internal/repository"
	"FinVerdict/internal/service/alphavantage"
	"FinVerdict/internal/service/benzinga"
	icache "FinVerdict/internal/service/cache"
	svcmetrics "FinVerdict/internal/service/metrics"
	"FinVerdict/internal/service/ratelimit"
	"FinVerdict/internal/services/analytics"
	"FinVerdict/internal/services/indicators"
	"FinVerdict/internal/services/narrative"
	"FinVerdict/internal/services/signals"
	"FinVerdict/internal/services/verdict"
	"FinVerdict/internal/usecase"
	pkgcache "FinVerdict/pkg/cache"
	pkgch "FinVerdict/pkg/clickhouse"
	"FinVerdict/pkg/config"
	xhttp "FinVerdict/pkg/http"
	pkgkafka "FinVerdict/pkg/kafka"
	"FinVerdict/pkg/logger"
	"FinVerdict/pkg/metrics"
	"FinVerdict/pkg/queue"
	"FinVerdict/pkg/server"
)

const serviceName = "finverdict"

// ProvideLogger creates the application logger. Error logs are shipped to Kafka when
// the collector is enabled and a producer exists; child loggers share the collector.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if producer != nil && cfg.Logging.Collector.Enabled {
		l.AddCollector(&logger.CollectionConfig{
			Service:        serviceName,
			TimeInterval:   cfg.Logging.Collector.Interval,
			CountThreshold: cfg.Logging.Collector.CountThreshold,
			Topic:          cfg.Logging.Collector.Topic,
			Publisher:      producer,
		})
	}
	return l.With(logger.String("service", serviceName), logger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideRedisCache connects to Redis when enabled. A failed connection falls back to
// memory-only caching unless the refresh queue needs Redis.
func ProvideRedisCache(cfg *config.Config, l *logger.Logger) (*pkgcache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisAddr(cfg.Redis.Addr),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix(serviceName),
	)
	if err != nil {
		if cfg.Refresh.Enabled {
			return nil, fmt.Errorf("redis: %w", err)
		}
		l.Warn("redis unavailable, using memory cache only", logger.String("addr", cfg.Redis.Addr), logger.Error(err))
		return nil, nil
	}
	return rc, nil
}

// ProvideCacheService layers an in-process cache over Redis, or returns memory only.
func ProvideCacheService(cfg *config.Config, redis *pkgcache.RedisCache) pkgcache.Service {
	if redis == nil {
		return pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(cfg.Cache.MaxSize))
	}
	return pkgcache.NewLayeredCache(redis, pkgcache.WithLayeredMemorySize(cfg.Cache.MaxSize))
}

func ProvideVerdictCache(store pkgcache.Service, cfg *config.Config, l *logger.Logger) *icache.VerdictCache {
	svcmetrics.Register()
	return icache.NewVerdictCache(store, cfg.Cache.VerdictTTL, l)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
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

// ProvideVerdictPublisher publishes verdict events to Kafka when a producer exists.
func ProvideVerdictPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.VerdictPublisher {
	if producer == nil {
		return internalrepo.NopVerdictPublisher{}
	}
	return internalrepo.NewKafkaVerdictPublisher(producer, cfg.Kafka.VerdictTopic)
}

// ProvideClickHouseClient connects only when ClickHouse is the price source.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Price.Source != config.PriceSourceClickHouse {
		return nil, nil
	}
	ch := cfg.Price.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvidePriceSource selects Alpha Vantage or the ClickHouse bar table.
func ProvidePriceSource(cfg *config.Config, ch *pkgch.Client, l *logger.Logger) (repository.PriceSource, error) {
	if ch != nil {
		store, err := internalrepo.NewCHPriceStore(ch, cfg.Price.ClickHouse.Table, l)
		if err != nil {
			return nil, fmt.Errorf("price store: %w", err)
		}
		return store, nil
	}
	av := cfg.Price.AlphaVantage
	return alphavantage.New(av.BaseURL, av.APIKey,
		alphavantage.WithPerMinute(av.PerMinute),
		alphavantage.WithTimeout(av.Timeout),
	), nil
}

func ProvideNewsSource(cfg *config.Config) repository.NewsSource {
	return benzinga.New(cfg.News.BaseURL, cfg.News.APIKey,
		benzinga.WithPerMinute(cfg.News.PerMinute),
		benzinga.WithTimeout(cfg.News.Timeout),
	)
}

// ProvideClassifier wraps the FinBERT client in the chunking pipeline.
func ProvideClassifier(cfg *config.Config, m repository.Metrics, l *logger.Logger) domsvc.SentimentClassifier {
	c := cfg.Classifier
	finbert := analytics.NewHTTPFinBERTClassifier(c.BaseURL, c.Model, c.Token, c.Timeout)
	return mid.NewClassifyPipeline(finbert, m,
		mid.WithChunkSize(c.ChunkSize),
		mid.WithChunkInterval(c.ChunkInterval),
		mid.WithMaxTextLength(c.MaxTextLength),
		mid.WithPipelineLogger(l),
	)
}

// ProvideNarrator picks the language model backend by provider name.
func ProvideNarrator(cfg *config.Config) (domsvc.NarrativeGenerator, error) {
	n := cfg.Narrative
	switch n.Provider {
	case config.NarrativeAnthropic:
		return narrative.NewClaudeNarrator(n.Anthropic.APIKey, n.Anthropic.Model), nil
	case config.NarrativeGemini:
		g, err := narrative.NewGeminiNarrator(context.Background(), n.Gemini.APIKey, n.Gemini.Model, "")
		if err != nil {
			return nil, fmt.Errorf("narrative: %w", err)
		}
		return g, nil
	default:
		return narrative.StaticNarrator{}, nil
	}
}

func ProvideEvaluator(cfg *config.Config) (signals.Evaluator, error) {
	ind := cfg.Analysis.Indicators
	ev, err := indicators.NewEvaluator(indicators.Params{
		EMAPeriod:     ind.EMAPeriod,
		MACDFast:      ind.MACDFast,
		MACDSlow:      ind.MACDSlow,
		MACDSignal:    ind.MACDSignal,
		RSIPeriod:     ind.RSIPeriod,
		RSIOversold:   ind.RSIOversold,
		RSIOverbought: ind.RSIOverbought,
	})
	if err != nil {
		return nil, fmt.Errorf("indicator params: %w", err)
	}
	return ev, nil
}

func ProvideAnalyzer(prices repository.PriceSource, news repository.NewsSource, classifier domsvc.SentimentClassifier, ev signals.Evaluator) *usecase.Analyzer {
	return usecase.NewAnalyzer(prices, news, classifier, ev)
}

func ProvideFormatter(narrator domsvc.NarrativeGenerator, cfg *config.Config, l *logger.Logger) *verdict.Formatter {
	return verdict.NewFormatter(narrator,
		verdict.WithNarrativeTimeout(cfg.Narrative.Timeout),
		verdict.WithLogger(l),
	)
}

func ProvideVerdictUseCase(
	analyzer *usecase.Analyzer,
	formatter *verdict.Formatter,
	cache *icache.VerdictCache,
	publisher repository.VerdictPublisher,
	m repository.Metrics,
	cfg *config.Config,
	l *logger.Logger,
) *usecase.VerdictUseCase {
	return usecase.NewVerdictUseCase(analyzer, formatter,
		usecase.WithCache(cache),
		usecase.WithPublisher(publisher),
		usecase.WithMetrics(m),
		usecase.WithLogger(l),
		usecase.WithTimeout(cfg.Analysis.Timeout),
	)
}

// ProvideRefreshQueue builds the Redis job queue with the refresh job registered.
// It is nil when refresh is disabled.
func ProvideRefreshQueue(cfg *config.Config, redis *pkgcache.RedisCache, uc *usecase.VerdictUseCase, l *logger.Logger) (*queue.RedisQueue, error) {
	if !cfg.Refresh.Enabled {
		return nil, nil
	}
	if redis == nil {
		return nil, fmt.Errorf("refresh queue: redis is not configured")
	}
	var opts []queue.RedisQueueOption
	if cfg.Refresh.KeyPrefix != "" {
		opts = append(opts, queue.WithKeyPrefix(cfg.Refresh.KeyPrefix))
	}
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    cfg.Refresh.Workers,
		RetryLimit: cfg.Refresh.RetryLimit,
		RetryDelay: cfg.Refresh.RetryDelay,
	}, redis.Client(), opts...)
	q.RegisterJob(usecase.NewRefreshJob(uc, l))
	return q, nil
}

func ProvideRefreshScheduler(cfg *config.Config, q *queue.RedisQueue, l *logger.Logger) (*usecase.RefreshScheduler, error) {
	if q == nil {
		return nil, nil
	}
	return usecase.NewRefreshScheduler(q, cfg.Refresh.Schedule, cfg.Refresh.Symbols, l)
}

func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst)
}

// ProvideHTTPHandler builds the echo handler and reports configured collaborators.
// /health includes the refresh dead letter count when the queue is enabled.
func ProvideHTTPHandler(cfg *config.Config, uc *usecase.VerdictUseCase, limiter *ratelimit.Limiter, q *queue.RedisQueue, l *logger.Logger) xhttp.Handler {
	var opts []api.HandlerOption
	if q != nil {
		opts = append(opts, api.WithDeadLetters(q))
	}
	return api.NewVerdictHandler(l, uc, limiter, api.Collaborators{
		PriceSource:  cfg.Price.Source,
		AlphaVantage: cfg.Price.AlphaVantage.APIKey != "",
		Benzinga:     cfg.News.APIKey != "",
		HuggingFace:  cfg.Classifier.Token != "",
		Narrative:    cfg.Narrative.Provider,
	}, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	handler xhttp.Handler,
	uc *usecase.VerdictUseCase,
	q *queue.RedisQueue,
	scheduler *usecase.RefreshScheduler,
	publisher repository.VerdictPublisher,
	cacheSvc pkgcache.Service,
	ch *pkgch.Client,
) *server.App {
	return server.New(cfg, l, handler, uc,
		server.WithRefresh(q, scheduler),
		server.WithPublisher(publisher),
		server.WithCache(cacheSvc),
		server.WithClickHouse(ch),
	)
}
