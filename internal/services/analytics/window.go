package analytics

import "math"

// varianceEpsilon is the cutoff below which a window is treated as having
// zero variance, so downstream z-score / correlation math never divides by a
// denormal leftover of float cancellation.
const varianceEpsilon = 1e-12

// RollingWindow is a fixed-capacity FIFO buffer of float64 values with
// incrementally maintained sum and sum-of-squares. Push and the derived
// statistics are O(1): eviction subtracts the evicted value (and its square)
// from the aggregates instead of rescanning the buffer.
type RollingWindow struct {
	values []float64
	head   int
	count  int
	sum    float64
	sumSq  float64
}

// NewRollingWindow creates a window holding at most capacity values.
func NewRollingWindow(capacity int) *RollingWindow {
	if capacity < 2 {
		capacity = 2
	}
	return &RollingWindow{values: make([]float64, capacity)}
}

// Push appends v, evicting the oldest value when the window is full.
func (w *RollingWindow) Push(v float64) {
	if w.count == len(w.values) {
		old := w.values[w.head]
		w.sum -= old
		w.sumSq -= old * old
	} else {
		w.count++
	}
	w.values[w.head] = v
	w.head = (w.head + 1) % len(w.values)
	w.sum += v
	w.sumSq += v * v
}

func (w *RollingWindow) Len() int { return w.count }

func (w *RollingWindow) Cap() int { return len(w.values) }

func (w *RollingWindow) Full() bool { return w.count == len(w.values) }

// Mean returns the arithmetic mean of the current contents, 0 when empty.
func (w *RollingWindow) Mean() float64 {
	if w.count == 0 {
		return 0
	}
	return w.sum / float64(w.count)
}

// StdDev returns the Bessel-corrected sample standard deviation. Below two
// samples, or when the maintained aggregates collapse to (numerically) zero
// variance, it returns 0; callers treat that as the insufficient-data /
// zero-variance regime rather than computing a division by it.
func (w *RollingWindow) StdDev() float64 {
	if w.count < 2 {
		return 0
	}
	n := float64(w.count)
	variance := (w.sumSq - w.sum*w.sum/n) / (n - 1)
	if variance <= varianceEpsilon {
		return 0
	}
	return math.Sqrt(variance)
}

// Values returns the contents oldest-first as a fresh slice.
func (w *RollingWindow) Values() []float64 {
	out := make([]float64, 0, w.count)
	start := w.head - w.count
	for i := 0; i < w.count; i++ {
		out = append(out, w.values[((start+i)%len(w.values)+len(w.values))%len(w.values)])
	}
	return out
}

// PairWindow keeps two legs' values in lockstep plus a running cross-product
// sum, so the rolling Pearson correlation is O(1) with the same
// subtract-on-evict technique the single window uses.
type PairWindow struct {
	a     *RollingWindow
	b     *RollingWindow
	pairs [][2]float64
	head  int
	count int
	sumAB float64
}

// NewPairWindow creates a paired window of the given capacity.
func NewPairWindow(capacity int) *PairWindow {
	if capacity < 2 {
		capacity = 2
	}
	return &PairWindow{
		a:     NewRollingWindow(capacity),
		b:     NewRollingWindow(capacity),
		pairs: make([][2]float64, capacity),
	}
}

// Push appends one observation of both legs.
func (w *PairWindow) Push(a, b float64) {
	if w.count == len(w.pairs) {
		old := w.pairs[w.head]
		w.sumAB -= old[0] * old[1]
	} else {
		w.count++
	}
	w.pairs[w.head] = [2]float64{a, b}
	w.head = (w.head + 1) % len(w.pairs)
	w.sumAB += a * b
	w.a.Push(a)
	w.b.Push(b)
}

func (w *PairWindow) Len() int { return w.count }

func (w *PairWindow) Full() bool { return w.count == len(w.pairs) }

// Correlation returns the rolling Pearson correlation of the two legs,
// clamped to [-1, 1]. When either leg has ~zero variance the relationship is
// undefined and 0 is reported instead of NaN.
func (w *PairWindow) Correlation() float64 {
	if w.count < 2 {
		return 0
	}
	stdA := w.a.StdDev()
	stdB := w.b.StdDev()
	if stdA == 0 || stdB == 0 {
		return 0
	}
	n := float64(w.count)
	cov := (w.sumAB - w.a.sum*w.b.sum/n) / (n - 1)
	corr := cov / (stdA * stdB)
	if corr > 1 {
		return 1
	}
	if corr < -1 {
		return -1
	}
	return corr
}
