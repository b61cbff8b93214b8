package analytics

import (
	"math"
	"sync"
	"sync/atomic"

	"PairPulse/internal/domain/models"
	"PairPulse/internal/domain/repository"
)

// Engine consumes synchronized pair samples and maintains the rolling
// statistics: spread, z-score, Pearson correlation and the stationarity
// proxy. It is written to from exactly one goroutine (the tick pipeline);
// readers get fully formed snapshots through Latest/History and never block
// the writer.
type Engine struct {
	windowSize  int
	historySize int

	// stationarity proxy tuning
	band         float64
	maxDriftFrac float64

	prices *PairWindow
	spread *RollingWindow

	latest  atomic.Value // *models.Snapshot
	mu      sync.RWMutex // guards history
	history []models.Snapshot

	metrics repository.Metrics
}

// EngineOption configures Engine.
type EngineOption func(*Engine)

// WithStationarityBand tunes the drift-band heuristic: a full spread window
// is considered stationary when at most maxDriftFrac of its values deviate
// from the window mean by more than band standard deviations.
func WithStationarityBand(band, maxDriftFrac float64) EngineOption {
	return func(e *Engine) {
		if band > 0 {
			e.band = band
		}
		if maxDriftFrac >= 0 && maxDriftFrac <= 1 {
			e.maxDriftFrac = maxDriftFrac
		}
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m repository.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an analytics engine with the given window and history
// capacities.
func NewEngine(windowSize, historySize int, opts ...EngineOption) *Engine {
	if windowSize < 2 {
		windowSize = 2
	}
	if historySize <= 0 {
		historySize = 500
	}
	e := &Engine{
		windowSize:   windowSize,
		historySize:  historySize,
		band:         2.0,
		maxDriftFrac: 0.1,
		prices:       NewPairWindow(windowSize),
		spread:       NewRollingWindow(windowSize),
		history:      make([]models.Snapshot, 0, historySize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessSample folds one pair sample into the windows and publishes the
// resulting snapshot. The hedge ratio comes from the config value the caller
// read at the start of the tick, so one tick never mixes two configs.
func (e *Engine) ProcessSample(s *models.PairSample, cfg models.TradingConfig) models.Snapshot {
	e.prices.Push(s.PriceA, s.PriceB)

	spread := s.PriceA - cfg.HedgeRatio*s.PriceB
	e.spread.Push(spread)

	warmup := !e.spread.Full()
	zscore := 0.0
	if !warmup {
		if std := e.spread.StdDev(); std > 0 {
			zscore = (spread - e.spread.Mean()) / std
		}
	}

	snap := models.Snapshot{
		Timestamp:       s.Timestamp,
		Spread:          spread,
		ZScore:          zscore,
		Correlation:     e.prices.Correlation(),
		HedgeRatio:      cfg.HedgeRatio,
		Stationary:      e.stationary(),
		Warmup:          warmup,
		PointsCollected: e.spread.Len(),
		WindowSize:      e.windowSize,
	}

	e.publish(snap)
	if e.metrics != nil {
		e.metrics.RecordSnapshot(&snap)
	}
	return snap
}

// stationary is a deterministic windowed drift-band heuristic, not a unit
// root test: the spread is called stationary when the window is full, has
// real variance, and at most maxDriftFrac of its values sit further than
// band standard deviations from the window mean.
func (e *Engine) stationary() bool {
	if !e.spread.Full() {
		return false
	}
	std := e.spread.StdDev()
	if std == 0 {
		// constant spread never leaves the mean; trivially stationary
		return true
	}
	mean := e.spread.Mean()
	limit := e.band * std
	outliers := 0
	for _, v := range e.spread.Values() {
		if math.Abs(v-mean) > limit {
			outliers++
		}
	}
	return float64(outliers) <= e.maxDriftFrac*float64(e.spread.Len())
}

func (e *Engine) publish(snap models.Snapshot) {
	e.latest.Store(&snap)

	e.mu.Lock()
	if len(e.history) == e.historySize {
		copy(e.history, e.history[1:])
		e.history[len(e.history)-1] = snap
	} else {
		e.history = append(e.history, snap)
	}
	e.mu.Unlock()
}

// Latest returns the most recent snapshot, false before the first sample.
func (e *Engine) Latest() (models.Snapshot, bool) {
	v := e.latest.Load()
	if v == nil {
		return models.Snapshot{}, false
	}
	return *v.(*models.Snapshot), true
}

// History returns up to limit snapshots in chronological order.
func (e *Engine) History(limit int) []models.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	n := len(e.history)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]models.Snapshot, limit)
	copy(out, e.history[n-limit:])
	return out
}
