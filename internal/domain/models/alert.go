package models

// Signal is the alert state of the pair.
type Signal string

const (
	SignalNone  Signal = "NONE"
	SignalLong  Signal = "LONG"
	SignalShort Signal = "SHORT"
)

// AlertState holds the display values of the alert engine. Signal is the
// debounced state; ZScore, Timestamp and Reason are refreshed on every
// processed sample so consumers always see current magnitude between
// transitions.
type AlertState struct {
	Signal    Signal  `json:"signal"`
	ZScore    float64 `json:"z_score"`
	Timestamp int64   `json:"timestamp"`
	Reason    string  `json:"reason"`
}

// AlertEvent is emitted once per state transition (dedup: repeated samples
// confirming the same state produce no event).
type AlertEvent struct {
	Timestamp   int64   `json:"timestamp"`
	Signal      Signal  `json:"signal"`
	Previous    Signal  `json:"previous"`
	ZScore      float64 `json:"z_score"`
	Correlation float64 `json:"correlation"`
	Reason      string  `json:"reason"`
}
