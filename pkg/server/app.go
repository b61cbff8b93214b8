package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PairPulse/internal/usecase"
	pkgcache "PairPulse/pkg/cache"
	"PairPulse/pkg/config"
	xhttp "PairPulse/pkg/http"
	pkgkafka "PairPulse/pkg/kafka"
	applogger "PairPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	collector   *usecase.TickCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	proc        *usecase.TickProcessor
	producer    *pkgkafka.Producer
	cache       pkgcache.Service
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	proc *usecase.TickProcessor,
	producer *pkgkafka.Producer,
	cache pkgcache.Service,
	httpHandler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		logger:      logger,
		collector:   collector,
		consumer:    consumer,
		kh:          kh,
		proc:        proc,
		producer:    producer,
		cache:       cache,
		httpHandler: httpHandler,
	}
}

// kafkaLogSink adapts the producer to the log collector's publisher.
type kafkaLogSink struct {
	producer *pkgkafka.Producer
}

func (s *kafkaLogSink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	// The collector flushes a batch of aggregated entries; publish them as
	// individual messages so downstream consumers read one entry at a time.
	if entries, ok := payload.([]applogger.AggregatedLogEntry); ok {
		msgs := make([]pkgkafka.Message, 0, len(entries))
		for _, e := range entries {
			msgs = append(msgs, pkgkafka.Message{Value: e})
		}
		return s.producer.PublishBatch(ctx, topic, msgs)
	}
	return s.producer.Publish(ctx, topic, nil, payload)
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger

	// Aggregate error logs to Kafka when a logs topic is configured.
	if a.producer != nil && a.cfg.Kafka.LogsTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          a.cfg.Kafka.LogsTopic,
			Publisher:      &kafkaLogSink{producer: a.producer},
		})
	}

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(a.cfg.Metrics.Enabled),
	)

	// Start the configured tick feed. Exactly one of collector/consumer runs;
	// both drive the same single-writer pipeline.
	switch a.cfg.Feed.Source {
	case "websocket":
		if err := a.collector.Start(ctx); err != nil {
			l.Error("collector start error", applogger.Error(err))
			return err
		}
		l.Info("collector started",
			applogger.String("symbol_a", a.cfg.Feed.SymbolA),
			applogger.String("symbol_b", a.cfg.Feed.SymbolB),
		)
	case "kafka":
		a.consumer.RegisterHandler(a.kh)
		if err := a.consumer.Start(); err != nil {
			l.Error("kafka consumer start error", applogger.Error(err))
			return err
		}
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.logger

	// Stop the feed first so no new ticks enter the pipeline.
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			l.Warn("collector stop error", applogger.Error(err))
		}
	}
	if a.consumer != nil {
		stopCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
		if err := a.consumer.Stop(stopCtx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
		cancel()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Flush the log collector before closing the producer it publishes to.
	l.RemoveCollector()

	// Close processor resources (alert publisher and the shared producer).
	if a.proc != nil {
		a.proc.Close()
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
