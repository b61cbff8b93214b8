package repository

import (
	"fmt"
	"sync/atomic"

	"PairPulse/internal/domain/models"
	drepo "PairPulse/internal/domain/repository"
)

// AtomicConfigStore implements ConfigStore with an atomically swapped value.
// Readers get a consistent config struct, never a mix of fields from two
// writes; a write takes effect for the next tick, never mid-tick.
type AtomicConfigStore struct {
	v atomic.Value // models.TradingConfig
}

// NewAtomicConfigStore creates a store seeded with the initial config.
// The initial value must already be valid.
func NewAtomicConfigStore(initial models.TradingConfig) (*AtomicConfigStore, error) {
	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("initial trading config: %w", err)
	}
	s := &AtomicConfigStore{}
	s.v.Store(initial)
	return s, nil
}

// Get returns the current config by value.
func (s *AtomicConfigStore) Get() models.TradingConfig {
	return s.v.Load().(models.TradingConfig)
}

// Set validates and swaps the config. On rejection the store is unchanged.
func (s *AtomicConfigStore) Set(candidate models.TradingConfig) (models.TradingConfig, error) {
	if err := candidate.Validate(); err != nil {
		return s.Get(), err
	}
	s.v.Store(candidate)
	return candidate, nil
}

var _ drepo.ConfigStore = (*AtomicConfigStore)(nil)
