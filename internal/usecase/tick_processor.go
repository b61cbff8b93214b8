package usecase

import (
	"context"
	"fmt"
	"time"

	"PairPulse/internal/domain/models"
	drepo "PairPulse/internal/domain/repository"
	"PairPulse/internal/services/analytics"
	applogger "PairPulse/pkg/logger"
)

// TickProcessor is the single-writer processing step: it synchronizes the
// pair, updates the analytics engine and runs the alert state machine, all
// against one config value read at the start of the tick. Alert transition
// events are handed to the publisher best-effort; a publish failure never
// stops the pipeline.
type TickProcessor struct {
	sync    *PairSynchronizer
	engine  *analytics.Engine
	alerts  *AlertEngine
	cfg     drepo.ConfigStore
	pub     drepo.AlertPublisher
	metrics drepo.Metrics
	logger  *applogger.Logger
}

// NewTickProcessor creates a new TickProcessor instance.
func NewTickProcessor(
	sync *PairSynchronizer,
	engine *analytics.Engine,
	alerts *AlertEngine,
	cfg drepo.ConfigStore,
	pub drepo.AlertPublisher,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *TickProcessor {
	return &TickProcessor{
		sync:    sync,
		engine:  engine,
		alerts:  alerts,
		cfg:     cfg,
		pub:     pub,
		metrics: metrics,
		logger:  logger,
	}
}

// Process folds a single validated tick through the pipeline.
func (p *TickProcessor) Process(ctx context.Context, t *models.Tick) error {
	if t == nil {
		return fmt.Errorf("tick is nil")
	}

	start := time.Now()
	p.metrics.RecordLastPrice(t.Symbol, t.Price)

	sample, ok := p.sync.Apply(t)
	if !ok {
		// cold pair: the other leg has not ticked yet
		return nil
	}

	// One consistent config per tick; a concurrent Set is visible from the
	// next tick only.
	cfg := p.cfg.Get()

	snap := p.engine.ProcessSample(sample, cfg)

	if ev := p.alerts.Evaluate(snap, cfg); ev != nil {
		p.metrics.RecordAlert(string(ev.Signal))
		if p.logger != nil {
			p.logger.Info("alert transition",
				applogger.String("signal", string(ev.Signal)),
				applogger.String("previous", string(ev.Previous)),
				applogger.String("reason", ev.Reason),
			)
		}
		if p.pub != nil {
			if err := p.pub.Publish(ctx, ev); err != nil {
				p.metrics.RecordError("alert_publish")
				if p.logger != nil {
					p.logger.Warn("alert publish failed", applogger.Error(err))
				}
			}
		}
	}

	p.metrics.RecordLatency("process_tick", time.Since(start).Seconds())
	return nil
}

// Engine exposes the analytics engine for the read side.
func (p *TickProcessor) Engine() *analytics.Engine { return p.engine }

// Alerts exposes the alert engine for the read side.
func (p *TickProcessor) Alerts() *AlertEngine { return p.alerts }

// Close releases downstream resources.
func (p *TickProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
}
