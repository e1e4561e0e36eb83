package mccfr

import (
	"testing"

	"github.com/behrlich/holdem-abstractor/pkg/notation"
	"github.com/behrlich/holdem-abstractor/pkg/tree"
	"github.com/stretchr/testify/assert"
)

func TestWitnessInitializesUniformPolicy(t *testing.T) {
	p := NewProfile()
	b := Bucket{Path: tree.RootPath}
	edges := []Edge{{Type: notation.Check}, {Type: notation.Bet, Amount: 1}}

	p.Witness(b, edges)

	for _, e := range edges {
		assert.InDelta(t, 0.5, p.Policy(b, e), 1e-9)
	}
}

func TestWitnessIsIdempotent(t *testing.T) {
	p := NewProfile()
	b := Bucket{Path: tree.RootPath}
	edges := []Edge{{Type: notation.Check}, {Type: notation.Bet, Amount: 1}}

	p.Witness(b, edges)
	p.UpdateRegret(b, map[Edge]float64{edges[0]: 5, edges[1]: 1})
	p.Witness(b, edges) // must not reset regret back to zero

	assert.Equal(t, 5.0, p.Regret(b, edges[0]))
}

func TestUpdateRegretPanicsOnUnwitnessedEdge(t *testing.T) {
	p := NewProfile()
	b := Bucket{Path: tree.RootPath}
	p.Witness(b, []Edge{{Type: notation.Check}})

	assert.Panics(t, func() {
		p.UpdateRegret(b, map[Edge]float64{{Type: notation.Fold}: 1})
	})
}

func TestUpdatePolicyAveragesAdviceAcrossEpochs(t *testing.T) {
	p := NewProfile()
	b := Bucket{Path: tree.RootPath}
	checkEdge := Edge{Type: notation.Check}
	betEdge := Edge{Type: notation.Bet, Amount: 1}
	p.Witness(b, []Edge{checkEdge, betEdge})

	// after 1 iteration, epoch() == 0: advice <- (0*0 + 1)/(0+1) = 1
	p.Next()
	p.UpdatePolicy(b, map[Edge]float64{checkEdge: 1, betEdge: 0})
	assert.InDelta(t, 1.0, p.Advice(b, checkEdge), 1e-9)

	// after 2 iterations, epoch() == 1: advice <- (1*1 + 0)/(1+1) = 0.5
	p.Next()
	p.UpdatePolicy(b, map[Edge]float64{checkEdge: 0, betEdge: 1})
	assert.InDelta(t, 0.5, p.Advice(b, checkEdge), 1e-9)
}

func TestPolicyFallsBackToMinPositiveWhenUnseen(t *testing.T) {
	p := NewProfile()
	b := Bucket{Path: tree.RootPath}
	assert.Equal(t, MinPositive, p.Policy(b, Edge{Type: notation.Check}))
}

func TestWalkerAlternatesByIterationParity(t *testing.T) {
	p := NewProfile()
	p.Next() // iterations=1
	assert.Equal(t, 1, p.Walker())
	p.Next() // iterations=2
	assert.Equal(t, 0, p.Walker())
	assert.Equal(t, int64(1), p.Epochs())
}
