package models

// Requests for analytics HTTP endpoints. Defined in domain for consistency and reuse.

type HistoryRequest struct {
	Limit int `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=500"`
}

type StatsRequest struct {
	Limit int `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=500"`
}

type ConfigUpdateRequest struct {
	EntryThreshold float64 `json:"zscore_entry_threshold" validate:"required,gt=0"`
	ExitThreshold  float64 `json:"zscore_exit_threshold" validate:"gte=0"`
	MinCorrelation float64 `json:"min_correlation" validate:"gte=0,lte=1"`
	HedgeRatio     float64 `json:"hedge_ratio" default:"25.0" validate:"gt=0"`
}
