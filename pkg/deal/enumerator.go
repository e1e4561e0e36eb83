package deal

import (
	"sort"

	"github.com/behrlich/holdem-abstractor/pkg/cards"
	"github.com/behrlich/holdem-abstractor/pkg/notation"
)

// Enumerator is the seam spec.md assumes is opaque: list a street's
// observations, and list the one-card-forward transitions out of a
// single observation (used by Lookup.Projections to build a coarser
// street's points against the finer street's lookup, spec.md §4.D item 2).
type Enumerator interface {
	Enumerate(street notation.Street) []Observation
	Children(o Observation) []Observation
}

// CanonicalEnumerator implements Enumerator over the full 52-card deck
// with a colex combinatorial rank, and no suit-isomorphism reduction.
type CanonicalEnumerator struct{}

// NewCanonicalEnumerator returns the default, unreduced enumerator.
func NewCanonicalEnumerator() CanonicalEnumerator { return CanonicalEnumerator{} }

// Enumerate lists every (hole pair, board) combination for street, in
// colex order of the hole pair, then the board. Hole and board are
// enumerated as independent choices — not every 2+board-size subset
// of 52 cards, which would conflate distinct hands that happen to
// share the same 7 cards under a different hole/board split.
func (CanonicalEnumerator) Enumerate(street notation.Street) []Observation {
	n := boardSize(street)
	var out []Observation
	forEachCombination(52, 2, func(hole []int) {
		used := map[int]bool{hole[0]: true, hole[1]: true}
		remaining := make([]int, 0, 50)
		for c := 0; c < 52; c++ {
			if !used[c] {
				remaining = append(remaining, c)
			}
		}
		h := [2]int{hole[0], hole[1]}
		if n == 0 {
			out = append(out, encode(street, h, nil))
			return
		}
		forEachCombination(len(remaining), n, func(idx []int) {
			board := make([]int, n)
			for i, bi := range idx {
				board[i] = remaining[bi]
			}
			out = append(out, encode(street, h, board))
		})
	})
	return out
}

// Children lists every way to extend o's board by one street's worth
// of new cards, keeping its hole pair fixed. River observations have
// no children.
func (CanonicalEnumerator) Children(o Observation) []Observation {
	street, hole, board := decode(o)
	if street == notation.River {
		return nil
	}
	next := street.Next()
	addN := boardSize(next) - len(board)

	used := make(map[int]bool, 2+len(board))
	used[hole[0]] = true
	used[hole[1]] = true
	for _, c := range board {
		used[c] = true
	}
	remaining := make([]int, 0, 52-len(used))
	for c := 0; c < 52; c++ {
		if !used[c] {
			remaining = append(remaining, c)
		}
	}

	var out []Observation
	forEachCombination(len(remaining), addN, func(idx []int) {
		merged := append([]int(nil), board...)
		for _, i := range idx {
			merged = append(merged, remaining[i])
		}
		sort.Ints(merged)
		out = append(out, encode(next, hole, merged))
	})
	return out
}

// Cards decodes an observation back into its hole pair and board.
func Cards(o Observation) (hole [2]cards.Card, board []cards.Card) {
	_, h, b := decode(o)
	toCard := func(ord int) cards.Card {
		return cards.Card{Rank: cards.Rank(ord / 4), Suit: cards.Suit(ord % 4)}
	}
	hole = [2]cards.Card{toCard(h[0]), toCard(h[1])}
	for _, ord := range b {
		board = append(board, toCard(ord))
	}
	return hole, board
}
