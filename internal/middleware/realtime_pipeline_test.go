package middleware

import (
	"context"
	"strings"
	"testing"

	"PairPulse/internal/domain/models"
)

type fakeProc struct {
	calls []*models.Tick
}

func (f *fakeProc) Process(_ context.Context, t *models.Tick) error {
	f.calls = append(f.calls, t)
	return nil
}

type fakeFilter struct{ a, b string }

func (f fakeFilter) Knows(sym string) bool {
	sym = strings.ToUpper(sym)
	return sym == f.a || sym == f.b
}

type fakeMetrics struct {
	drops map[string]int
	ticks int
	errs  map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{drops: make(map[string]int), errs: make(map[string]int)}
}

func (m *fakeMetrics) RecordTick(source, symbol string)        { m.ticks++ }
func (m *fakeMetrics) RecordDrop(reason string)                { m.drops[reason]++ }
func (m *fakeMetrics) RecordError(kind string)                 { m.errs[kind]++ }
func (m *fakeMetrics) RecordLastPrice(symbol string, p float64) {}
func (m *fakeMetrics) RecordSnapshot(s *models.Snapshot)        {}
func (m *fakeMetrics) RecordAlert(signal string)                {}
func (m *fakeMetrics) RecordLatency(op string, seconds float64) {}

func validTick() *models.Tick {
	return &models.Tick{Symbol: "BTCUSDT", Price: 50000, Quantity: 0.5, Timestamp: 1700000000000}
}

func TestPipelineForwardsValidTick(t *testing.T) {
	proc := &fakeProc{}
	m := newFakeMetrics()
	p := NewRealtimePipeline(proc, fakeFilter{a: "BTCUSDT", b: "ETHUSDT"}, m)

	if err := p.Process(context.Background(), validTick()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(proc.calls) != 1 {
		t.Fatalf("expected 1 forwarded tick, got %d", len(proc.calls))
	}
}

func TestPipelineDropsMalformed(t *testing.T) {
	proc := &fakeProc{}
	m := newFakeMetrics()
	p := NewRealtimePipeline(proc, fakeFilter{a: "BTCUSDT", b: "ETHUSDT"}, m)

	bad := []*models.Tick{
		nil,
		{Symbol: "", Price: 1, Quantity: 1, Timestamp: 1},
		{Symbol: "BTCUSDT", Price: 0, Quantity: 1, Timestamp: 1},
		{Symbol: "BTCUSDT", Price: -5, Quantity: 1, Timestamp: 1},
		{Symbol: "BTCUSDT", Price: 1, Quantity: 0, Timestamp: 1},
		{Symbol: "BTCUSDT", Price: 1, Quantity: 1, Timestamp: 0},
	}
	for i, tk := range bad {
		if err := p.Process(context.Background(), tk); err != nil {
			t.Fatalf("case %d: malformed tick must be dropped, not errored: %v", i, err)
		}
	}
	if len(proc.calls) != 0 {
		t.Fatalf("expected no forwarded ticks, got %d", len(proc.calls))
	}
	if m.drops["malformed"] != len(bad) {
		t.Fatalf("expected %d malformed drops, got %d", len(bad), m.drops["malformed"])
	}
}

func TestPipelineDropsForeignSymbol(t *testing.T) {
	proc := &fakeProc{}
	m := newFakeMetrics()
	p := NewRealtimePipeline(proc, fakeFilter{a: "BTCUSDT", b: "ETHUSDT"}, m)

	tk := validTick()
	tk.Symbol = "SOLUSDT"
	if err := p.Process(context.Background(), tk); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(proc.calls) != 0 {
		t.Fatalf("foreign symbol must not reach the processor")
	}
	if m.drops["foreign_symbol"] != 1 {
		t.Fatalf("expected foreign_symbol drop, got %v", m.drops)
	}
}

func TestPipelineThrottle(t *testing.T) {
	proc := &fakeProc{}
	m := newFakeMetrics()
	p := NewRealtimePipeline(proc, fakeFilter{a: "BTCUSDT", b: "ETHUSDT"}, m, WithMaxRPS(1))

	// two back-to-back ticks: the second arrives inside the 1 rps budget
	if err := p.Process(context.Background(), validTick()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Process(context.Background(), validTick()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(proc.calls) != 1 {
		t.Fatalf("expected second tick throttled, forwarded=%d", len(proc.calls))
	}
	if m.drops["throttled"] != 1 {
		t.Fatalf("expected 1 throttled drop, got %d", m.drops["throttled"])
	}
}
