package di

import (
	"fmt"

	"PairPulse/internal/domain/models"
	"PairPulse/internal/domain/repository"
	"PairPulse/internal/handler/api"
	mid "PairPulse/internal/middleware"
	internalrepo "PairPulse/internal/repository"
	"PairPulse/internal/service/binance"
	"PairPulse/internal/services/analytics"
	"PairPulse/internal/usecase"
	pkgcache "PairPulse/pkg/cache"
	"PairPulse/pkg/config"
	xhttp "PairPulse/pkg/http"
	pkgkafka "PairPulse/pkg/kafka"
	applogger "PairPulse/pkg/logger"
	"PairPulse/pkg/metrics"
	"PairPulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Logging.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Logging.Format
	if format == "" {
		format = "console"
	}
	output := cfg.Logging.Output
	if output == "" {
		output = "stdout"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: output})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideKafkaProducer creates a Kafka producer, or nil when no brokers are
// configured (pure-websocket deployments without alert or log topics).
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
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

// ProvideAlertPublisher creates the alert transition publisher. Without a
// producer or an alerts topic, transitions stay local (log + metrics only).
func ProvideAlertPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.AlertPublisher {
	if producer == nil || cfg.Kafka.AlertsTopic == "" {
		return internalrepo.NoopAlertPublisher{}
	}
	pair := cfg.Feed.SymbolA + "-" + cfg.Feed.SymbolB
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertsTopic, pair)
}

// ProvideConfigStore seeds the trading config store from YAML.
func ProvideConfigStore(cfg *config.Config) (repository.ConfigStore, error) {
	store, err := internalrepo.NewAtomicConfigStore(models.TradingConfig{
		EntryThreshold: cfg.Analytics.EntryThreshold,
		ExitThreshold:  cfg.Analytics.ExitThreshold,
		MinCorrelation: cfg.Analytics.MinCorrelation,
		HedgeRatio:     cfg.Analytics.HedgeRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("config store: %w", err)
	}
	return store, nil
}

// ProvidePairSynchronizer creates the two-leg synchronizer.
func ProvidePairSynchronizer(cfg *config.Config) *usecase.PairSynchronizer {
	return usecase.NewPairSynchronizer(cfg.Feed.SymbolA, cfg.Feed.SymbolB)
}

// ProvideAnalyticsEngine creates the rolling analytics engine.
func ProvideAnalyticsEngine(cfg *config.Config, m repository.Metrics) *analytics.Engine {
	return analytics.NewEngine(cfg.Analytics.WindowSize, cfg.Analytics.HistorySize,
		analytics.WithStationarityBand(cfg.Analytics.StationarityBand, cfg.Analytics.StationarityMaxDrift),
		analytics.WithMetrics(m),
	)
}

// ProvideAlertEngine creates the alert state machine.
func ProvideAlertEngine() *usecase.AlertEngine {
	return usecase.NewAlertEngine()
}

// ProvideTickProcessor creates the single-writer tick processor.
func ProvideTickProcessor(
	sync *usecase.PairSynchronizer,
	engine *analytics.Engine,
	alerts *usecase.AlertEngine,
	store repository.ConfigStore,
	pub repository.AlertPublisher,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.TickProcessor {
	return usecase.NewTickProcessor(sync, engine, alerts, store, pub, m, logger)
}

// ProvidePipeline builds the validation/throttle middleware in front of the
// processor. The synchronizer doubles as the symbol filter.
func ProvidePipeline(
	proc *usecase.TickProcessor,
	sync *usecase.PairSynchronizer,
	m repository.Metrics,
	cfg *config.Config,
) *mid.RealtimePipeline {
	return mid.NewRealtimePipeline(proc, sync, m,
		mid.WithMaxRPS(cfg.Feed.MaxRPS),
	)
}

// ProvideMarketStream creates the Binance WebSocket stream.
func ProvideMarketStream(cfg *config.Config) repository.MarketStream {
	return binance.New(
		cfg.Feed.WebSocketURL,
		[]string{cfg.Feed.SymbolA, cfg.Feed.SymbolB},
		cfg.Feed.BackoffMin,
		cfg.Feed.BackoffMax,
		cfg.Feed.PingInterval,
	)
}

// ProvideTickCollector creates the WebSocket collector, or nil when the
// Kafka feed is configured.
func ProvideTickCollector(
	cfg *config.Config,
	stream repository.MarketStream,
	proc *usecase.TickProcessor,
	m repository.Metrics,
	pipe *mid.RealtimePipeline,
) *usecase.TickCollector {
	if cfg.Feed.Source != "websocket" {
		return nil
	}
	return usecase.NewTickCollector(stream, proc, m, pipe)
}

// ProvideKafkaConsumer creates a Kafka consumer for the tick feed, or nil
// when the WebSocket feed is configured.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Feed.Source != "kafka" {
		return nil, nil
	}

	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.MetricsHook())
	return consumer, nil
}

// ProvideKafkaTicksHandler registers the handler for the ticks topic.
func ProvideKafkaTicksHandler(cfg *config.Config, pipe *mid.RealtimePipeline, m repository.Metrics) *usecase.KafkaTicksHandler {
	return usecase.NewKafkaTicksHandler(cfg.Kafka.TicksTopic, pipe, m)
}

// ProvideCache creates the read-side cache per config.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return pkgcache.NewMemoryCache(), nil
	case "redis":
		c, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
			pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	default:
		return nil, nil
	}
}

// ProvideHTTPHandler creates the Echo analytics handler.
func ProvideHTTPHandler(
	logger *applogger.Logger,
	engine *analytics.Engine,
	alerts *usecase.AlertEngine,
	store repository.ConfigStore,
	cache pkgcache.Service,
	cfg *config.Config,
	collector *usecase.TickCollector,
) xhttp.Handler {
	connected := func() bool {
		if collector != nil {
			return collector.IsConnected()
		}
		// Kafka feed has no single connection to report.
		return true
	}
	return api.NewAnalyticsEchoHandler(logger, engine, alerts, store, cache, cfg.Cache.TTL, connected)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTicksHandler,
	proc *usecase.TickProcessor,
	producer *pkgkafka.Producer,
	cache pkgcache.Service,
	httpHandler xhttp.Handler,
) *server.App {
	return server.New(cfg, logger, collector, consumer, kh, proc, producer, cache, httpHandler)
}
