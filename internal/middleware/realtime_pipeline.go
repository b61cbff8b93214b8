package middleware

import (
	"context"
	"fmt"
	"time"

	"PairPulse/internal/domain/models"
	domrepo "PairPulse/internal/domain/repository"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, t *models.Tick) error
}

// SymbolFilter reports whether a symbol is part of the watched pair.
type SymbolFilter interface {
	Knows(symbol string) bool
}

// RealtimePipeline sits between the feed and the tick processor. It drops
// and counts malformed or foreign ticks and optionally throttles per symbol.
// Everything it forwards stays on the caller's goroutine, so arrival order
// is preserved through the whole pipeline.
type RealtimePipeline struct {
	proc     Proc
	filter   SymbolFilter
	metrics  domrepo.Metrics
	maxRPS   int
	lastSeen map[string]time.Time // per-symbol last accepted time
}

type PipelineOption func(*RealtimePipeline)

// WithMaxRPS sets the max ticks per second per symbol; 0 disables throttling.
func WithMaxRPS(n int) PipelineOption {
	return func(p *RealtimePipeline) { p.maxRPS = n }
}

// NewRealtimePipeline creates a new pipeline.
func NewRealtimePipeline(proc Proc, filter SymbolFilter, metrics domrepo.Metrics, opts ...PipelineOption) *RealtimePipeline {
	p := &RealtimePipeline{
		proc:     proc,
		filter:   filter,
		metrics:  metrics,
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process validates and forwards one tick. Malformed input is dropped and
// counted, never propagated: the pipeline keeps running at reduced fidelity.
func (p *RealtimePipeline) Process(ctx context.Context, t *models.Tick) error {
	start := time.Now()

	if err := validateTick(t); err != nil {
		p.metrics.RecordDrop("malformed")
		return nil
	}
	if p.filter != nil && !p.filter.Knows(t.Symbol) {
		p.metrics.RecordDrop("foreign_symbol")
		return nil
	}
	if !p.allow(t.Symbol, start) {
		p.metrics.RecordDrop("throttled")
		return nil
	}

	if err := p.proc.Process(ctx, t); err != nil {
		p.metrics.RecordError("pipeline_process")
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateTick(t *models.Tick) error {
	if t == nil {
		return fmt.Errorf("tick nil")
	}
	if t.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if t.Timestamp <= 0 {
		return fmt.Errorf("timestamp invalid")
	}
	if t.Price <= 0 || t.Quantity <= 0 {
		return fmt.Errorf("non-positive price/quantity")
	}
	return nil
}

func (p *RealtimePipeline) allow(symbol string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	last := p.lastSeen[symbol]
	if last.IsZero() || now.Sub(last) >= time.Second/time.Duration(p.maxRPS) {
		p.lastSeen[symbol] = now
		return true
	}
	return false
}
