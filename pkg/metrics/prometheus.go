package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"PairPulse/internal/domain/models"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	ticksTotal  *prometheus.CounterVec
	dropsTotal  *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	alertsTotal *prometheus.CounterVec
	lastPrice   *prometheus.GaugeVec
	zscore      prometheus.Gauge
	correlation prometheus.Gauge
	spread      prometheus.Gauge
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		ticksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairpulse_ticks_total",
				Help: "Total number of ticks received from the feed",
			},
			[]string{"source", "symbol"},
		),
		dropsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairpulse_ticks_dropped_total",
				Help: "Total number of ticks dropped before processing",
			},
			[]string{"reason"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		alertsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairpulse_alert_transitions_total",
				Help: "Total number of alert state transitions",
			},
			[]string{"signal"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pairpulse_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		zscore: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pairpulse_zscore",
				Help: "Current spread z-score",
			},
		),
		correlation: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pairpulse_correlation",
				Help: "Current rolling correlation of the pair",
			},
		),
		spread: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pairpulse_spread",
				Help: "Current pair spread",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pairpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordTick records a tick received from a feed source.
func (r *Recorder) RecordTick(source, symbol string) {
	r.ticksTotal.WithLabelValues(source, symbol).Inc()
}

// RecordDrop records a tick dropped before processing.
func (r *Recorder) RecordDrop(reason string) {
	r.dropsTotal.WithLabelValues(reason).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordSnapshot records the headline analytics gauges.
func (r *Recorder) RecordSnapshot(s *models.Snapshot) {
	r.zscore.Set(s.ZScore)
	r.correlation.Set(s.Correlation)
	r.spread.Set(s.Spread)
}

// RecordAlert records an alert state transition.
func (r *Recorder) RecordAlert(signal string) {
	r.alertsTotal.WithLabelValues(signal).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
