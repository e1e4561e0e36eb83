package abstraction

import (
	"testing"

	"github.com/behrlich/holdem-abstractor/pkg/notation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricNormalizesByMax(t *testing.T) {
	a := New(notation.Flop, 0)
	b := New(notation.Flop, 1)
	c := New(notation.Flop, 2)
	d := New(notation.Flop, 3)

	p1 := NewPair(a, b)
	p2 := NewPair(a, c)
	p3 := NewPair(a, d)

	m := NewMetricFrom(map[Pair]Energy{p1: 2.0, p2: 4.0, p3: 8.0})

	assert.InDelta(t, 0.25, m.distances[p1], 1e-12)
	assert.InDelta(t, 0.5, m.distances[p2], 1e-12)
	assert.InDelta(t, 1.0, m.distances[p3], 1e-12)
}

func TestMetricDistanceSelfIsZero(t *testing.T) {
	m := Metric{}
	a := New(notation.Flop, 0)
	assert.Equal(t, 0.0, m.Distance(a, a))
}

func TestMetricDistancePanicsOnMissingPair(t *testing.T) {
	m := Metric{}
	a := New(notation.Flop, 0)
	b := New(notation.Flop, 1)
	assert.Panics(t, func() { m.Distance(a, b) })
}

func TestMetricSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := New(notation.Flop, 0)
	b := New(notation.Flop, 1)
	p := NewPair(a, b)
	m := NewMetricFrom(map[Pair]Energy{p: 3.0})

	require.NoError(t, m.Save(dir, notation.Flop))
	loaded, err := LoadMetric(dir, notation.Flop)
	require.NoError(t, err)

	assert.Equal(t, m.Len(), loaded.Len())
	assert.InDelta(t, m.distances[p], loaded.distances[p], 1e-6)
}

func TestMetricDoneReflectsFilePresence(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, MetricDone(dir, notation.Flop))

	m := NewMetricFrom(map[Pair]Energy{NewPair(New(notation.Flop, 0), New(notation.Flop, 1)): 1})
	require.NoError(t, m.Save(dir, notation.Flop))
	assert.True(t, MetricDone(dir, notation.Flop))
}
