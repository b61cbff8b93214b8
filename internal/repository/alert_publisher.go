package repository

import (
	"context"

	"PairPulse/internal/domain/models"
	"PairPulse/internal/domain/repository"
	pkgkafka "PairPulse/pkg/kafka"
)

// KafkaAlertPublisher implements AlertPublisher for Kafka. Events are keyed
// by the pair so a topic partition keeps transition order.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	pair     string
}

// NewKafkaAlertPublisher creates a Kafka alert publisher.
func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic, pair string) repository.AlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic, pair: pair}
}

func (p *KafkaAlertPublisher) Publish(ctx context.Context, ev *models.AlertEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(p.pair), ev)
}

func (p *KafkaAlertPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopAlertPublisher is used when no alert topic is configured.
type NoopAlertPublisher struct{}

func (NoopAlertPublisher) Publish(context.Context, *models.AlertEvent) error { return nil }
func (NoopAlertPublisher) Close() error                                      { return nil }
