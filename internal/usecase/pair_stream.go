package usecase

import (
	"strings"

	"PairPulse/internal/domain/models"
)

// PairSynchronizer merges two independently-arriving tick streams into one
// synchronized pair stream. A tick for either leg updates that leg's last
// known price and, once both legs have been seen, emits one sample carrying
// the triggering leg's fresh price and the other leg's held price. Sample
// frequency is therefore the union of both tick rates. Before both legs have
// ticked at least once, nothing is emitted.
//
// The synchronizer is driven from the single pipeline goroutine and keeps no
// locks of its own.
type PairSynchronizer struct {
	symbolA string
	symbolB string

	lastA float64
	lastB float64
	seenA bool
	seenB bool
}

// NewPairSynchronizer creates a synchronizer for the two leg symbols.
func NewPairSynchronizer(symbolA, symbolB string) *PairSynchronizer {
	return &PairSynchronizer{
		symbolA: strings.ToUpper(symbolA),
		symbolB: strings.ToUpper(symbolB),
	}
}

// Symbols returns the two leg symbols (A, B).
func (s *PairSynchronizer) Symbols() (string, string) { return s.symbolA, s.symbolB }

// Knows reports whether the symbol belongs to the pair.
func (s *PairSynchronizer) Knows(symbol string) bool {
	sym := strings.ToUpper(symbol)
	return sym == s.symbolA || sym == s.symbolB
}

// Apply folds one tick into the pair state. It returns the emitted sample
// and true, or nil and false while the pair is still cold or the symbol is
// not part of the pair.
func (s *PairSynchronizer) Apply(t *models.Tick) (*models.PairSample, bool) {
	switch strings.ToUpper(t.Symbol) {
	case s.symbolA:
		s.lastA = t.Price
		s.seenA = true
	case s.symbolB:
		s.lastB = t.Price
		s.seenB = true
	default:
		return nil, false
	}
	if !s.seenA || !s.seenB {
		return nil, false
	}
	return &models.PairSample{
		Timestamp: t.Timestamp,
		PriceA:    s.lastA,
		PriceB:    s.lastB,
	}, true
}
