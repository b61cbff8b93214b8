package models

import "fmt"

// TradingConfig is the runtime-tunable part of the alert logic. It is owned
// by the config store and read once per processed sample, so a tick always
// evaluates against one consistent value.
type TradingConfig struct {
	EntryThreshold float64 `json:"zscore_entry_threshold"`
	ExitThreshold  float64 `json:"zscore_exit_threshold"`
	MinCorrelation float64 `json:"min_correlation"`
	HedgeRatio     float64 `json:"hedge_ratio"`
}

// Validate checks threshold ordering and ranges.
func (c TradingConfig) Validate() error {
	if c.ExitThreshold < 0 {
		return fmt.Errorf("exit threshold must be >= 0, got %v", c.ExitThreshold)
	}
	if c.EntryThreshold <= c.ExitThreshold {
		return fmt.Errorf("entry threshold must be greater than exit threshold (%v <= %v)", c.EntryThreshold, c.ExitThreshold)
	}
	if c.MinCorrelation < 0 || c.MinCorrelation > 1 {
		return fmt.Errorf("min correlation must be in [0,1], got %v", c.MinCorrelation)
	}
	if c.HedgeRatio <= 0 {
		return fmt.Errorf("hedge ratio must be positive, got %v", c.HedgeRatio)
	}
	return nil
}
