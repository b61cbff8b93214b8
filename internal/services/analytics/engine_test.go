package analytics

import (
	"testing"

	"PairPulse/internal/domain/models"
)

var testCfg = models.TradingConfig{
	EntryThreshold: 2.0,
	ExitThreshold:  0.5,
	MinCorrelation: 0.7,
	HedgeRatio:     2.0,
}

func sample(ts int64, a, b float64) *models.PairSample {
	return &models.PairSample{Timestamp: ts, PriceA: a, PriceB: b}
}

func TestEngineWarmup(t *testing.T) {
	e := NewEngine(5, 100)

	for i := 0; i < 4; i++ {
		snap := e.ProcessSample(sample(int64(i), 100+float64(i), 50), testCfg)
		if !snap.Warmup {
			t.Fatalf("sample %d: expected warmup", i)
		}
		if snap.ZScore != 0 {
			t.Fatalf("sample %d: z-score must be 0 during warmup, got %v", i, snap.ZScore)
		}
		if snap.PointsCollected != i+1 {
			t.Fatalf("sample %d: expected %d points, got %d", i, i+1, snap.PointsCollected)
		}
	}

	snap := e.ProcessSample(sample(4, 104, 50), testCfg)
	if snap.Warmup {
		t.Fatalf("expected warmup over at window size")
	}
	if snap.WindowSize != 5 {
		t.Fatalf("expected window size 5, got %d", snap.WindowSize)
	}
}

func TestEngineSpread(t *testing.T) {
	e := NewEngine(5, 100)
	snap := e.ProcessSample(sample(1, 100, 30), testCfg)
	// spread = a - hedge*b = 100 - 2*30
	if snap.Spread != 40 {
		t.Fatalf("expected spread 40, got %v", snap.Spread)
	}
	if snap.HedgeRatio != testCfg.HedgeRatio {
		t.Fatalf("expected hedge ratio %v, got %v", testCfg.HedgeRatio, snap.HedgeRatio)
	}
}

func TestEngineConstantSpreadZeroZ(t *testing.T) {
	e := NewEngine(5, 100)

	var snap models.Snapshot
	for i := 0; i < 8; i++ {
		// both legs constant: spread constant, stddev 0
		snap = e.ProcessSample(sample(int64(i), 100, 40), testCfg)
	}
	if snap.Warmup {
		t.Fatalf("expected warmup over")
	}
	if snap.ZScore != 0 {
		t.Fatalf("constant spread must give z-score 0, got %v", snap.ZScore)
	}
	if !snap.Stationary {
		t.Fatalf("constant spread must be stationary")
	}
}

func TestEngineLatest(t *testing.T) {
	e := NewEngine(5, 100)

	if _, ok := e.Latest(); ok {
		t.Fatalf("expected no snapshot before first sample")
	}

	e.ProcessSample(sample(1, 100, 40), testCfg)
	snap, ok := e.Latest()
	if !ok {
		t.Fatalf("expected snapshot after first sample")
	}
	if snap.Timestamp != 1 {
		t.Fatalf("expected timestamp 1, got %d", snap.Timestamp)
	}
}

func TestEngineHistoryBound(t *testing.T) {
	e := NewEngine(2, 10)

	for i := 0; i < 25; i++ {
		e.ProcessSample(sample(int64(i), 100+float64(i), 40), testCfg)
	}

	all := e.History(0)
	if len(all) != 10 {
		t.Fatalf("expected history capped at 10, got %d", len(all))
	}
	// chronological order, newest last
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp <= all[i-1].Timestamp {
			t.Fatalf("history not chronological at %d", i)
		}
	}
	if all[len(all)-1].Timestamp != 24 {
		t.Fatalf("expected newest timestamp 24, got %d", all[len(all)-1].Timestamp)
	}

	limited := e.History(3)
	if len(limited) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(limited))
	}
	if limited[0].Timestamp != 22 {
		t.Fatalf("expected limited history to keep newest, got first ts %d", limited[0].Timestamp)
	}
}

func TestEngineStationarityDriftBand(t *testing.T) {
	e := NewEngine(10, 100)

	// leg B pinned at 1 with hedge 2, so spread = priceA - 2.
	// Eight samples sit on the mean, two spike to +/-500: both spikes fall
	// outside 2 standard deviations, exceeding the 10% drift allowance.
	prices := []float64{2, 2, 2, 2, 502, 2, 2, 2, -498, 2}
	var snap models.Snapshot
	for i, a := range prices {
		snap = e.ProcessSample(sample(int64(i), a, 1), testCfg)
	}
	if snap.Warmup {
		t.Fatalf("expected warmup over")
	}
	if snap.Stationary {
		t.Fatalf("expected non-stationary spread with outlier spikes")
	}

	// A tightly mean-reverting spread stays stationary.
	e2 := NewEngine(10, 100)
	for i := 0; i < 10; i++ {
		a := 2.0
		if i%2 == 0 {
			a = 3.0
		}
		snap = e2.ProcessSample(sample(int64(i), a, 1), testCfg)
	}
	if !snap.Stationary {
		t.Fatalf("expected stationary spread for mean-reverting series")
	}
}
