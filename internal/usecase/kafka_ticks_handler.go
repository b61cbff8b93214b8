package usecase

import (
	"context"
	"encoding/json"
	"time"

	"PairPulse/internal/domain/models"
	domrepo "PairPulse/internal/domain/repository"
	mid "PairPulse/internal/middleware"
	pkgkafka "PairPulse/pkg/kafka"
)

// KafkaTicksHandler is the alternative tick source: it decodes tick frames
// from a Kafka topic and drives the same pipeline the WebSocket collector
// does. The consumer delivers messages on one goroutine, preserving the
// single-writer processing order.
type KafkaTicksHandler struct {
	topic   string
	pipe    *mid.RealtimePipeline
	metrics domrepo.Metrics
}

func NewKafkaTicksHandler(topic string, pipe *mid.RealtimePipeline, metrics domrepo.Metrics) *KafkaTicksHandler {
	return &KafkaTicksHandler{topic: topic, pipe: pipe, metrics: metrics}
}

func (h *KafkaTicksHandler) Topic() string { return h.topic }

// incoming message schema: {symbol, t, p, q}
func (h *KafkaTicksHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol string  `json:"symbol"`
		T      int64   `json:"t"`
		P      float64 `json:"p"`
		Q      float64 `json:"q"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.T > 0 && m.T < 1e11 { // seconds
		m.T = m.T * 1000
	}
	h.metrics.RecordTick("kafka", m.Symbol)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.UnixMilli(m.T)).Seconds())

	return h.pipe.Process(ctx, &models.Tick{
		Symbol:    m.Symbol,
		Price:     m.P,
		Quantity:  m.Q,
		Timestamp: m.T,
	})
}

var _ pkgkafka.MessageHandler = (*KafkaTicksHandler)(nil)
