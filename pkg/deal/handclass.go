package deal

import "github.com/behrlich/holdem-abstractor/pkg/cards"

// NumHandClasses is the standard 169-class partition of starting hands:
// 13 pocket pairs, plus 78 suited and 78 offsuit two-rank combinations.
const NumHandClasses = 169

// HandClass maps a hole-card pair to its canonical preflop hand class
// in [0, NumHandClasses), used to fabricate the Preflop Lookup directly
// (spec.md §4.D item 5: "preflop: hand-class bijection").
func HandClass(hole [2]cards.Card) int {
	r1, r2 := int(hole[0].Rank), int(hole[1].Rank)
	hi, lo := r1, r2
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi == lo {
		return hi // pocket pair: ranks 0..12
	}
	combo := hi*(hi-1)/2 + lo // triangular index over {0..12}, hi in [1,12]
	suited := hole[0].Suit == hole[1].Suit
	base := 13 + combo*2
	if suited {
		return base
	}
	return base + 1
}

// RepresentativeHand returns one canonical hole-card pair for class,
// inverting HandClass. Used where a single concrete hand stands in for
// an entire equivalence class (e.g. a closed-form class-distance
// formula).
func RepresentativeHand(class int) [2]cards.Card {
	if class < 13 {
		r := cards.Rank(class)
		return [2]cards.Card{{Rank: r, Suit: cards.Spades}, {Rank: r, Suit: cards.Hearts}}
	}
	rest := class - 13
	combo, suited := rest/2, rest%2 == 0

	hi := 1
	for hi*(hi-1)/2 <= combo {
		hi++
	}
	hi--
	lo := combo - hi*(hi-1)/2

	s2 := cards.Hearts
	if suited {
		s2 = cards.Spades
	}
	return [2]cards.Card{{Rank: cards.Rank(hi), Suit: cards.Spades}, {Rank: cards.Rank(lo), Suit: s2}}
}
