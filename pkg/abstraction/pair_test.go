package abstraction

import (
	"testing"

	"github.com/behrlich/holdem-abstractor/pkg/notation"
	"github.com/stretchr/testify/assert"
)

func TestNewPairCanonicalizesOrder(t *testing.T) {
	a := New(notation.Flop, 3)
	b := New(notation.Flop, 7)
	assert.Equal(t, NewPair(a, b), NewPair(b, a))
}

func TestNewPairPanicsOnCrossStreet(t *testing.T) {
	a := New(notation.Flop, 0)
	b := New(notation.Turn, 0)
	assert.Panics(t, func() { NewPair(a, b) })
}

func TestNewPairPanicsOnSelfPair(t *testing.T) {
	a := New(notation.Flop, 0)
	assert.Panics(t, func() { NewPair(a, a) })
}

func TestPairEncodeDecodeRoundTrip(t *testing.T) {
	p := NewPair(New(notation.Turn, 12), New(notation.Turn, 199))
	assert.Equal(t, p, DecodePair(p.Encode()))
}
