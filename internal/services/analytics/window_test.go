package analytics

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRollingWindowFIFO(t *testing.T) {
	w := NewRollingWindow(3)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		w.Push(v)
	}

	got := w.Values()
	want := []float64{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("values[%d]: expected %v, got %v", i, want[i], got[i])
		}
	}
	if !w.Full() {
		t.Fatalf("expected full window")
	}
}

func TestRollingWindowIncrementalStats(t *testing.T) {
	w := NewRollingWindow(4)
	series := []float64{10.5, 11.2, 9.8, 10.1, 12.4, 10.9, 11.7}
	for _, v := range series {
		w.Push(v)
	}

	// Recompute mean/std from the raw contents and compare with the
	// incrementally maintained aggregates.
	vals := w.Values()
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var ss float64
	for _, v := range vals {
		ss += (v - mean) * (v - mean)
	}
	std := math.Sqrt(ss / float64(len(vals)-1))

	if !almostEqual(w.Mean(), mean) {
		t.Fatalf("mean: expected %v, got %v", mean, w.Mean())
	}
	if !almostEqual(w.StdDev(), std) {
		t.Fatalf("stddev: expected %v, got %v", std, w.StdDev())
	}
}

func TestRollingWindowConstantSeries(t *testing.T) {
	w := NewRollingWindow(5)
	for i := 0; i < 10; i++ {
		w.Push(42.0)
	}
	if w.StdDev() != 0 {
		t.Fatalf("expected zero stddev for constant series, got %v", w.StdDev())
	}
	if w.Mean() != 42.0 {
		t.Fatalf("expected mean 42, got %v", w.Mean())
	}
}

func TestRollingWindowFewSamples(t *testing.T) {
	w := NewRollingWindow(5)
	if w.StdDev() != 0 || w.Mean() != 0 {
		t.Fatalf("empty window should report zero stats")
	}
	w.Push(7)
	if w.StdDev() != 0 {
		t.Fatalf("single sample should report zero stddev")
	}
}

func TestPairWindowPerfectCorrelation(t *testing.T) {
	w := NewPairWindow(10)
	for i := 1; i <= 10; i++ {
		// b is a linear function of a; float cancellation can leave the
		// result a few ulps inside 1, so compare with tolerance
		a := float64(i)
		w.Push(a, 2*a+5)
	}
	if got := w.Correlation(); !almostEqual(got, 1) {
		t.Fatalf("expected correlation 1, got %v", got)
	}
	if got := w.Correlation(); got > 1 {
		t.Fatalf("correlation must never exceed 1, got %v", got)
	}
}

func TestPairWindowInverseCorrelation(t *testing.T) {
	w := NewPairWindow(10)
	for i := 1; i <= 10; i++ {
		a := float64(i)
		w.Push(a, -3*a+100)
	}
	if got := w.Correlation(); !almostEqual(got, -1) {
		t.Fatalf("expected correlation -1, got %v", got)
	}
	if got := w.Correlation(); got < -1 {
		t.Fatalf("correlation must never fall below -1, got %v", got)
	}
}

func TestPairWindowZeroVariance(t *testing.T) {
	w := NewPairWindow(5)
	for i := 1; i <= 5; i++ {
		w.Push(float64(i), 50.0) // leg B constant
	}
	if got := w.Correlation(); got != 0 {
		t.Fatalf("expected correlation 0 for zero-variance leg, got %v", got)
	}
}

func TestPairWindowEviction(t *testing.T) {
	w := NewPairWindow(3)
	// first fill with anti-correlated data, then overwrite with correlated
	w.Push(1, 9)
	w.Push(2, 8)
	w.Push(3, 7)
	w.Push(10, 10)
	w.Push(20, 20)
	w.Push(30, 30)
	if got := w.Correlation(); !almostEqual(got, 1) {
		t.Fatalf("expected correlation 1 after eviction, got %v", got)
	}
}
