package abstraction

import (
	"testing"

	"github.com/behrlich/holdem-abstractor/pkg/deal"
	"github.com/behrlich/holdem-abstractor/pkg/notation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tinyEnumerator is a hand-built deal.Enumerator over a handful of
// observations per street, small enough to exercise the full pipeline
// synchronously in a test (spec.md §4.I: "tests use K and N small
// enough to run synchronously").
type tinyEnumerator struct{}

func tinyObs(street notation.Street, i int64) deal.Observation {
	return deal.FromInt64(int64(street)<<56 | i)
}

func (tinyEnumerator) Enumerate(street notation.Street) []deal.Observation {
	switch street {
	case notation.River:
		return []deal.Observation{tinyObs(notation.River, 0), tinyObs(notation.River, 1)}
	case notation.Turn:
		return []deal.Observation{tinyObs(notation.Turn, 0)}
	case notation.Flop:
		return []deal.Observation{tinyObs(notation.Flop, 0)}
	default:
		return []deal.Observation{tinyObs(notation.Preflop, 0)}
	}
}

func (tinyEnumerator) Children(o deal.Observation) []deal.Observation {
	switch o.Street() {
	case notation.Preflop:
		return []deal.Observation{tinyObs(notation.Flop, 0)}
	case notation.Flop:
		return []deal.Observation{tinyObs(notation.Turn, 0)}
	case notation.Turn:
		return []deal.Observation{tinyObs(notation.River, 0), tinyObs(notation.River, 1)}
	default:
		return nil
	}
}

func TestRunDrivesAllFourStreetsAndPersistsArtifacts(t *testing.T) {
	dir := t.TempDir()
	config := PipelineConfig{
		River: LayerConfig{EquityBuckets: 2, OpponentRange: tinyOpponentRange()},
		Turn:  LayerConfig{K: 1, T: 1},
		Flop:  LayerConfig{K: 1, T: 1},
		Pref:  LayerConfig{},
	}

	require.NoError(t, Run(dir, tinyEnumerator{}, config))

	for _, street := range notation.Streets() {
		assert.True(t, Done(dir, street), "street %s not done", street)
	}
}

func TestRunSkipsAlreadyDoneStreets(t *testing.T) {
	dir := t.TempDir()
	config := PipelineConfig{
		River: LayerConfig{EquityBuckets: 2, OpponentRange: tinyOpponentRange()},
		Turn:  LayerConfig{K: 1, T: 1},
		Flop:  LayerConfig{K: 1, T: 1},
	}
	require.NoError(t, Run(dir, tinyEnumerator{}, config))
	// second run must not error even though every street is already done
	require.NoError(t, Run(dir, tinyEnumerator{}, config))
}

func tinyOpponentRange() []notation.Combo {
	hole, _ := deal.Cards(tinyObs(notation.Preflop, 2))
	return []notation.Combo{{Card1: hole[0], Card2: hole[1]}}
}
