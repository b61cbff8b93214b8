package usecase

import (
	"context"
	"testing"

	"PairPulse/internal/domain/models"
	internalrepo "PairPulse/internal/repository"
	"PairPulse/internal/services/analytics"
)

type capturePublisher struct {
	events []*models.AlertEvent
}

func (p *capturePublisher) Publish(_ context.Context, ev *models.AlertEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordTick(source, symbol string)        {}
func (nopMetrics) RecordDrop(reason string)                {}
func (nopMetrics) RecordError(kind string)                 {}
func (nopMetrics) RecordLastPrice(symbol string, p float64) {}
func (nopMetrics) RecordSnapshot(s *models.Snapshot)        {}
func (nopMetrics) RecordAlert(signal string)                {}
func (nopMetrics) RecordLatency(op string, seconds float64) {}

func newTestProcessor(t *testing.T, windowSize int) (*TickProcessor, *capturePublisher) {
	t.Helper()
	store, err := internalrepo.NewAtomicConfigStore(models.TradingConfig{
		EntryThreshold: 2.0,
		ExitThreshold:  0.5,
		MinCorrelation: 0.7,
		HedgeRatio:     1.0,
	})
	if err != nil {
		t.Fatalf("config store: %v", err)
	}

	pub := &capturePublisher{}
	proc := NewTickProcessor(
		NewPairSynchronizer("BTCUSDT", "ETHUSDT"),
		analytics.NewEngine(windowSize, 100),
		NewAlertEngine(),
		store,
		pub,
		nopMetrics{},
		nil,
	)
	return proc, pub
}

func TestProcessorColdPairEmitsNothing(t *testing.T) {
	proc, pub := newTestProcessor(t, 10)

	for i := 0; i < 5; i++ {
		if err := proc.Process(context.Background(), tick("BTCUSDT", 100+float64(i), int64(i))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, ok := proc.Engine().Latest(); ok {
		t.Fatalf("expected no snapshot while pair is cold")
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no alert events while cold")
	}
}

func TestProcessorEntryAlertPublished(t *testing.T) {
	proc, pub := newTestProcessor(t, 10)
	ctx := context.Background()

	// Warm both legs with nearly identical prices: spread hovers around
	// zero and the legs stay highly correlated.
	ts := int64(0)
	for i := 0; i <= 10; i++ {
		ts++
		if err := proc.Process(ctx, tick("ETHUSDT", 100+float64(i), ts)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ts++
		if err := proc.Process(ctx, tick("BTCUSDT", 100+float64(i), ts)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	snap, ok := proc.Engine().Latest()
	if !ok {
		t.Fatalf("expected snapshot after warmup")
	}
	if snap.Warmup {
		t.Fatalf("expected warmup complete, points=%d", snap.PointsCollected)
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no events during calm regime, got %d", len(pub.events))
	}

	// A modest leg-A dislocation breaches the entry threshold. It has to
	// stay small relative to the legs' common trend: a violent jump would
	// drag the rolling correlation below the regime gate and the filter
	// would (correctly) suppress the entry.
	ts++
	if err := proc.Process(ctx, tick("BTCUSDT", 113, ts)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	post, _ := proc.Engine().Latest()
	if post.Correlation < 0.7 {
		t.Fatalf("scenario must keep correlation above the gate, got %v", post.Correlation)
	}
	if post.ZScore < 2.0 {
		t.Fatalf("scenario must breach the entry threshold, got z=%v", post.ZScore)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 alert event, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Signal != models.SignalShort || ev.Previous != models.SignalNone {
		t.Fatalf("expected NONE->SHORT, got %s->%s (%s)", ev.Previous, ev.Signal, ev.Reason)
	}
	if st := proc.Alerts().State(); st.Signal != models.SignalShort {
		t.Fatalf("expected SHORT display state, got %s", st.Signal)
	}
}

func TestProcessorConfigAppliesNextTick(t *testing.T) {
	proc, _ := newTestProcessor(t, 4)
	ctx := context.Background()

	// warm up with a flat pair
	ts := int64(0)
	proc.Process(ctx, tick("ETHUSDT", 100, 1))
	for i := 0; i < 6; i++ {
		ts = int64(10 + i)
		proc.Process(ctx, tick("BTCUSDT", 100, ts))
	}

	// Tighten the hedge ratio; the change must only show up in snapshots
	// produced after the update.
	before, _ := proc.Engine().Latest()
	if before.HedgeRatio != 1.0 {
		t.Fatalf("expected hedge 1.0 before update, got %v", before.HedgeRatio)
	}

	if _, err := proc.cfg.Set(models.TradingConfig{
		EntryThreshold: 2.0,
		ExitThreshold:  0.5,
		MinCorrelation: 0.7,
		HedgeRatio:     2.0,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, _ := proc.Engine().Latest()
	if after.HedgeRatio != 1.0 {
		t.Fatalf("existing snapshot must be untouched by config update")
	}

	proc.Process(ctx, tick("BTCUSDT", 100, 99))
	next, _ := proc.Engine().Latest()
	if next.HedgeRatio != 2.0 {
		t.Fatalf("expected new hedge ratio on next tick, got %v", next.HedgeRatio)
	}
}
