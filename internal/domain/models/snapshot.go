package models

// Snapshot is one immutable metrics observation published per processed
// pair sample. Readers always see a fully formed value; the engine replaces
// the latest snapshot atomically, never mutates it in place.
type Snapshot struct {
	Timestamp       int64   `json:"timestamp"`
	Spread          float64 `json:"spread"`
	ZScore          float64 `json:"zscore"`
	Correlation     float64 `json:"correlation"`
	HedgeRatio      float64 `json:"hedge_ratio"`
	Stationary      bool    `json:"stationary"`
	Warmup          bool    `json:"warmup"`
	PointsCollected int     `json:"points_collected"`
	WindowSize      int     `json:"window_size"`
}

// StatsRow is one tabular row of the stats/CSV surface: a past snapshot plus
// the alert classification derived from that row's z-score under the current
// config.
type StatsRow struct {
	Timestamp    int64   `json:"timestamp"`
	ZScore       float64 `json:"zscore"`
	Spread       float64 `json:"spread"`
	Correlation  float64 `json:"correlation"`
	IsStationary bool    `json:"is_stationary"`
	Alert        Signal  `json:"alert"`
}
