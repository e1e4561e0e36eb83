package abstraction

import (
	"math"

	"github.com/behrlich/holdem-abstractor/pkg/cards"
	"github.com/behrlich/holdem-abstractor/pkg/deal"
	"github.com/behrlich/holdem-abstractor/pkg/notation"
)

// PreflopMetric computes Preflop's Metric from a closed-form hand
// strength score rather than an EMD lift: Preflop has no coarser
// street to cluster against, so spec.md §9's open question on whether
// Preflop persists a real Metric is resolved here (it does, for a
// uniform "three artifacts exist" done-contract across all four
// streets). Full preflop equity simulation is out of scope (spec.md
// §1 only assumes river equity is available), so the ground distance
// is a simplified rank/suitedness strength index.
func PreflopMetric() Metric {
	strengths := make([]float64, deal.NumHandClasses)
	for class := 0; class < deal.NumHandClasses; class++ {
		strengths[class] = handStrength(deal.RepresentativeHand(class))
	}

	raw := make(map[Pair]Energy)
	for i := 0; i < deal.NumHandClasses; i++ {
		for j := i + 1; j < deal.NumHandClasses; j++ {
			a := New(notation.Preflop, i)
			b := New(notation.Preflop, j)
			raw[NewPair(a, b)] = math.Abs(strengths[i] - strengths[j])
		}
	}
	return NewMetricFrom(raw)
}

// handStrength scores a representative hole-card pair: twice the high
// rank plus the low rank, with bonuses for pairs and suitedness.
func handStrength(hole [2]cards.Card) float64 {
	hi, lo := int(hole[0].Rank), int(hole[1].Rank)
	if lo > hi {
		hi, lo = lo, hi
	}
	s := float64(2*hi + lo)
	if hi == lo {
		s += 10
	}
	if hole[0].Suit == hole[1].Suit {
		s += 2
	}
	return s
}

// RiverMetric computes River's Metric as normalized index separation
// between equity buckets: buckets are already linearly ordered by
// equity (spec.md §4.D item 5), so index distance is a natural ground
// metric without re-running equity simulation.
func RiverMetric(buckets int) Metric {
	raw := make(map[Pair]Energy)
	for i := 0; i < buckets; i++ {
		for j := i + 1; j < buckets; j++ {
			a := New(notation.River, i)
			b := New(notation.River, j)
			raw[NewPair(a, b)] = float64(j - i)
		}
	}
	return NewMetricFrom(raw)
}
