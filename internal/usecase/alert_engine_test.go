package usecase

import (
	"testing"

	"PairPulse/internal/domain/models"
)

var alertCfg = models.TradingConfig{
	EntryThreshold: 2.0,
	ExitThreshold:  0.5,
	MinCorrelation: 0.7,
	HedgeRatio:     25.0,
}

func snapAt(z, corr float64) models.Snapshot {
	return models.Snapshot{Timestamp: 1000, ZScore: z, Correlation: corr}
}

func TestAlertEntryShort(t *testing.T) {
	e := NewAlertEngine()

	ev := e.Evaluate(snapAt(2.5, 0.85), alertCfg)
	if ev == nil {
		t.Fatalf("expected transition event")
	}
	if ev.Signal != models.SignalShort || ev.Previous != models.SignalNone {
		t.Fatalf("expected NONE->SHORT, got %s->%s", ev.Previous, ev.Signal)
	}
	if st := e.State(); st.Signal != models.SignalShort {
		t.Fatalf("expected display state SHORT, got %s", st.Signal)
	}
}

func TestAlertEntryLong(t *testing.T) {
	e := NewAlertEngine()

	ev := e.Evaluate(snapAt(-2.1, 0.9), alertCfg)
	if ev == nil || ev.Signal != models.SignalLong {
		t.Fatalf("expected NONE->LONG, got %+v", ev)
	}
}

func TestAlertNoDuplicateWhileHeld(t *testing.T) {
	e := NewAlertEngine()

	if ev := e.Evaluate(snapAt(2.5, 0.85), alertCfg); ev == nil {
		t.Fatalf("expected entry event")
	}
	// still above entry: signal is held, no second event
	if ev := e.Evaluate(snapAt(2.4, 0.85), alertCfg); ev != nil {
		t.Fatalf("expected no event while holding, got %+v", ev)
	}
	if st := e.State(); st.Signal != models.SignalShort {
		t.Fatalf("expected held SHORT, got %s", st.Signal)
	}
}

func TestAlertExitOnReversion(t *testing.T) {
	e := NewAlertEngine()

	e.Evaluate(snapAt(2.5, 0.85), alertCfg)
	ev := e.Evaluate(snapAt(0.3, 0.85), alertCfg)
	if ev == nil {
		t.Fatalf("expected exit event")
	}
	if ev.Signal != models.SignalNone || ev.Previous != models.SignalShort {
		t.Fatalf("expected SHORT->NONE, got %s->%s", ev.Previous, ev.Signal)
	}
}

func TestAlertRegimeFilterBlocksEntry(t *testing.T) {
	e := NewAlertEngine()

	// z-score would trigger entry, but correlation is below minimum
	if ev := e.Evaluate(snapAt(3.0, 0.5), alertCfg); ev != nil {
		t.Fatalf("expected no event under regime filter, got %+v", ev)
	}
	if st := e.State(); st.Signal != models.SignalNone {
		t.Fatalf("expected NONE under regime filter, got %s", st.Signal)
	}
}

func TestAlertRegimeFilterForcesExit(t *testing.T) {
	e := NewAlertEngine()

	e.Evaluate(snapAt(2.5, 0.85), alertCfg)
	// correlation breaks down while the signal is held
	ev := e.Evaluate(snapAt(2.6, 0.4), alertCfg)
	if ev == nil {
		t.Fatalf("expected forced exit event")
	}
	if ev.Signal != models.SignalNone || ev.Previous != models.SignalShort {
		t.Fatalf("expected SHORT->NONE forced exit, got %s->%s", ev.Previous, ev.Signal)
	}
}

func TestAlertWarmupNoEntry(t *testing.T) {
	e := NewAlertEngine()

	snap := snapAt(5.0, 0.95)
	snap.Warmup = true
	if ev := e.Evaluate(snap, alertCfg); ev != nil {
		t.Fatalf("expected no event during warmup, got %+v", ev)
	}
}

func TestAlertDisplayRefreshWithoutTransition(t *testing.T) {
	e := NewAlertEngine()

	e.Evaluate(snapAt(0.1, 0.9), alertCfg)
	e.Evaluate(snapAt(0.2, 0.9), alertCfg)
	st := e.State()
	if st.Signal != models.SignalNone {
		t.Fatalf("expected NONE, got %s", st.Signal)
	}
	if st.ZScore != 0.2 {
		t.Fatalf("display z-score must track the latest sample, got %v", st.ZScore)
	}
}
