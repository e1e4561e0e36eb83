package mccfr

import (
	"testing"

	"github.com/behrlich/holdem-abstractor/pkg/abstraction"
	"github.com/behrlich/holdem-abstractor/pkg/notation"
	"github.com/behrlich/holdem-abstractor/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	p := NewProfile()
	b := Bucket{
		Path:        tree.RootPath.Extend(Edge{Type: notation.Bet, Amount: 3}),
		Abstraction: abstraction.New(notation.River, 5),
	}
	edges := []Edge{{Type: notation.Call}, {Type: notation.Fold}}
	p.Witness(b, edges)
	p.UpdateRegret(b, map[Edge]float64{edges[0]: 2.5, edges[1]: -1})
	p.Next()
	p.UpdatePolicy(b, map[Edge]float64{edges[0]: 0.75, edges[1]: 0.25})

	require.False(t, BlueprintDone(dir))
	require.NoError(t, p.Save(dir))
	require.True(t, BlueprintDone(dir))

	loaded, err := LoadProfile(dir)
	require.NoError(t, err)

	assert.InDelta(t, float64(float32(2.5)), loaded.Regret(b, edges[0]), 1e-6)
	assert.InDelta(t, float64(float32(0.75)), loaded.Advice(b, edges[0]), 1e-6)
	assert.InDelta(t, float64(float32(0.25)), loaded.Advice(b, edges[1]), 1e-6)
}
