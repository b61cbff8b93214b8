package models

// Tick is one normalized trade observation from the feed adapter.
// Timestamp is epoch milliseconds.
type Tick struct {
	Symbol    string
	Price     float64
	Quantity  float64
	Timestamp int64
}

// PairSample is one synchronized observation of both legs of the pair.
// It is emitted whenever either leg updates; the other leg carries its last
// known price. Timestamp is the triggering tick's timestamp in epoch ms.
type PairSample struct {
	Timestamp int64
	PriceA    float64
	PriceB    float64
}
