// Package deal is the simplified stand-in for card dealing/enumeration
// that spec.md treats as an opaque external collaborator: an
// Observation identifies one street's (hole cards, board) combination,
// and an Enumerator lists a street's observations plus their one-card
// forward transitions. No suit-isomorphism reduction is performed —
// that reduction is explicitly out of scope (see DESIGN.md).
package deal

import (
	"fmt"
	"sort"

	"github.com/behrlich/holdem-abstractor/pkg/cards"
	"github.com/behrlich/holdem-abstractor/pkg/notation"
)

// Observation is an int64-backed opaque id for one street's (hole
// cards, board) combination. Its bit layout — street in the high byte,
// then an 11-bit colex rank of the hole pair over all 52 cards and a
// 22-bit colex rank of the board over the 50 cards the hole pair
// doesn't occupy — is an implementation detail of this package, not
// part of its contract. Hole and board are ranked independently so two
// deals that share the same 7 cards but split them differently between
// hole and board never collide.
type Observation struct {
	id int64
}

// Int64 returns the opaque persisted form.
func (o Observation) Int64() int64 { return o.id }

// FromInt64 reconstructs an Observation previously obtained from
// Int64. Callers must not construct ids any other way.
func FromInt64(id int64) Observation { return Observation{id: id} }

// Street returns the street this observation belongs to.
func (o Observation) Street() notation.Street {
	return notation.Street(uint64(o.id) >> 56)
}

func (o Observation) String() string {
	return fmt.Sprintf("Observation(%s, %d)", o.Street(), o.id&0x00FFFFFFFFFFFFFF)
}

// boardRankBits is wide enough for the largest board rank this package
// ever produces: C(50, 5)-1 = 2118759 for the river, which needs 22
// bits (2^22 = 4194304).
const boardRankBits = 22

const boardRankMask = int64(1)<<boardRankBits - 1

// cardsPerStreet is hole cards (always 2) plus board size.
func cardsPerStreet(street notation.Street) int {
	switch street {
	case notation.Preflop:
		return 2
	case notation.Flop:
		return 5
	case notation.Turn:
		return 6
	case notation.River:
		return 7
	default:
		panic("deal: unknown street")
	}
}

func boardSize(street notation.Street) int {
	return cardsPerStreet(street) - 2
}

// encode packs a street's hole pair and board into an Observation.
// hole is ranked over the full 52-card deck; board is ranked over the
// 50 cards hole doesn't occupy, so the two ranks never interfere and
// decode can recover exactly which cards were hole and which were
// board.
func encode(street notation.Street, hole [2]int, board []int) Observation {
	holeOrdinals := []int{hole[0], hole[1]}
	sort.Ints(holeOrdinals)
	holeRank := colexRank(holeOrdinals)

	reducedBoard := make([]int, len(board))
	for i, c := range board {
		reducedBoard[i] = reduceOrdinal(c, holeOrdinals)
	}
	sort.Ints(reducedBoard)
	boardRank := colexRank(reducedBoard)

	low := holeRank<<boardRankBits | boardRank
	return Observation{id: int64(street)<<56 | low}
}

func decode(o Observation) (street notation.Street, hole [2]int, board []int) {
	street = o.Street()
	low := o.id & 0x00FFFFFFFFFFFFFF
	boardRank := low & boardRankMask
	holeRank := low >> boardRankBits

	holeOrdinals := colexUnrank(holeRank, 2)
	hole = [2]int{holeOrdinals[0], holeOrdinals[1]}

	reducedBoard := colexUnrank(boardRank, boardSize(street))
	board = make([]int, len(reducedBoard))
	for i, r := range reducedBoard {
		board[i] = expandOrdinal(int(r), holeOrdinals)
	}
	return street, hole, board
}

// FromCards is the inverse of Cards: it encodes a concrete (hole,
// board) deal into its canonical Observation for street. Used by
// pkg/tree to look up a dealt showdown's abstraction bucket against a
// street's persisted Lookup.
func FromCards(street notation.Street, hole [2]cards.Card, board []cards.Card) Observation {
	h := [2]int{hole[0].Ordinal(), hole[1].Ordinal()}
	b := make([]int, len(board))
	for i, c := range board {
		b[i] = c.Ordinal()
	}
	return encode(street, h, b)
}
