package usecase

import (
	"fmt"
	"math"
	"sync/atomic"

	"PairPulse/internal/domain/models"
)

// AlertEngine is the finite-state machine over analytics snapshots. Guards
// are evaluated in a fixed priority order: the correlation regime filter
// first (it also forces exits), then entry from NONE, then the
// mean-reversion exit. An event is produced only on a state transition;
// the display values are refreshed on every sample regardless.
//
// Evaluate runs on the single pipeline goroutine. State is published through
// an atomic value so API readers never block the writer.
type AlertEngine struct {
	signal  models.Signal
	display atomic.Value // models.AlertState
}

// NewAlertEngine creates an engine in the NONE state.
func NewAlertEngine() *AlertEngine {
	e := &AlertEngine{signal: models.SignalNone}
	e.display.Store(models.AlertState{Signal: models.SignalNone})
	return e
}

// Evaluate folds one snapshot into the state machine under the given config.
// It returns an event when a transition happened, nil otherwise. No
// transition out of NONE happens during warm-up.
func (e *AlertEngine) Evaluate(snap models.Snapshot, cfg models.TradingConfig) *models.AlertEvent {
	next := e.signal
	reason := ""

	switch {
	case snap.Warmup:
		next = models.SignalNone
		reason = "warming up, spread window not full"

	case snap.Correlation < cfg.MinCorrelation:
		// Regime filter has priority over everything, including holding an
		// open signal.
		next = models.SignalNone
		reason = fmt.Sprintf("correlation %.2f below minimum %.2f, alert filtered", snap.Correlation, cfg.MinCorrelation)

	case e.signal == models.SignalNone:
		if snap.ZScore <= -cfg.EntryThreshold {
			next = models.SignalLong
			reason = fmt.Sprintf("z-score %.2f breached entry threshold -%.2f (oversold)", snap.ZScore, cfg.EntryThreshold)
		} else if snap.ZScore >= cfg.EntryThreshold {
			next = models.SignalShort
			reason = fmt.Sprintf("z-score %.2f breached entry threshold %.2f (overbought)", snap.ZScore, cfg.EntryThreshold)
		} else {
			reason = fmt.Sprintf("z-score %.2f within entry threshold %.2f", snap.ZScore, cfg.EntryThreshold)
		}

	default: // LONG or SHORT held
		if math.Abs(snap.ZScore) <= cfg.ExitThreshold {
			next = models.SignalNone
			reason = fmt.Sprintf("z-score %.2f reverted within exit threshold %.2f", snap.ZScore, cfg.ExitThreshold)
		} else {
			// Hold the signal; growing |z| does not stack a re-entry.
			reason = fmt.Sprintf("holding %s, z-score %.2f", e.signal, snap.ZScore)
		}
	}

	prev := e.signal
	e.signal = next
	e.display.Store(models.AlertState{
		Signal:    next,
		ZScore:    snap.ZScore,
		Timestamp: snap.Timestamp,
		Reason:    reason,
	})

	if next == prev {
		return nil
	}
	return &models.AlertEvent{
		Timestamp:   snap.Timestamp,
		Signal:      next,
		Previous:    prev,
		ZScore:      snap.ZScore,
		Correlation: snap.Correlation,
		Reason:      reason,
	}
}

// State returns the current display values.
func (e *AlertEngine) State() models.AlertState {
	return e.display.Load().(models.AlertState)
}
