package repository

import (
	"context"

	"PairPulse/internal/domain/models"
)

type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// AlertPublisher fans alert transition events out to external consumers.
// Publishing is best-effort: the processing pipeline never blocks on it.
type AlertPublisher interface {
	Publish(ctx context.Context, ev *models.AlertEvent) error
	Close() error
}

// ConfigStore owns the trading config. Get returns a value snapshot; Set
// validates the candidate and swaps the stored value atomically, taking
// effect from the next processed tick.
type ConfigStore interface {
	Get() models.TradingConfig
	Set(candidate models.TradingConfig) (models.TradingConfig, error)
}

type Metrics interface {
	RecordTick(source, symbol string)
	RecordDrop(reason string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordSnapshot(s *models.Snapshot)
	RecordAlert(signal string)
	RecordLatency(op string, seconds float64)
}
