// Package abstraction implements the hierarchical earth-mover-distance
// clustering engine: histograms over abstractions, the pairwise metric,
// the Sinkhorn and variation-distance EMD solvers, the per-street k-means
// layer, and the pipeline that drives river -> turn -> flop -> preflop.
package abstraction

import (
	"fmt"

	"github.com/behrlich/holdem-abstractor/pkg/notation"
)

// Abstraction is a strategic-equivalence class identifier for game states
// on one street. Its variant is uniquely determined by Street: River maps
// to the Percent variant, Preflop to the Preflop variant, and Flop/Turn to
// the Learned variant (spec.md §3). Index means "hand-class id" for
// Preflop, "equity bucket" for Percent, and "cluster index" for Learned.
// The zero value is Preflop hand class 0, since notation.Preflop is 0.
type Abstraction struct {
	street notation.Street
	index  int
}

// New constructs an Abstraction for the given street and index. index
// must be within [0, K) for that street's configured cardinality; this
// is the caller's responsibility (Layer and Lookup never construct out
// of range).
func New(street notation.Street, index int) Abstraction {
	return Abstraction{street: street, index: index}
}

// Street returns the street this abstraction belongs to.
func (a Abstraction) Street() notation.Street { return a.street }

// Index returns the hand-class id, equity bucket, or cluster index,
// depending on Street().
func (a Abstraction) Index() int { return a.index }

// IsLearned reports whether this abstraction is a Flop/Turn cluster
// label.
func (a Abstraction) IsLearned() bool {
	return a.street == notation.Flop || a.street == notation.Turn
}

// IsPercent reports whether this abstraction is a River equity bucket.
func (a Abstraction) IsPercent() bool { return a.street == notation.River }

// IsPreflop reports whether this abstraction is a Preflop hand class.
func (a Abstraction) IsPreflop() bool { return a.street == notation.Preflop }

// Less gives Abstraction a total order: by street, then by index.
func (a Abstraction) Less(b Abstraction) bool {
	if a.street != b.street {
		return a.street < b.street
	}
	return a.index < b.index
}

// Encode maps an Abstraction bijectively to an int64 for persistence:
// the street occupies the high byte, the index the low 56 bits.
func (a Abstraction) Encode() int64 {
	return int64(a.street)<<56 | int64(a.index)
}

// Decode inverts Encode.
func Decode(v int64) Abstraction {
	return Abstraction{
		street: notation.Street(uint64(v) >> 56),
		index:  int(v & 0x00FFFFFFFFFFFFFF),
	}
}

func (a Abstraction) String() string {
	return fmt.Sprintf("%s(%d)", a.street, a.index)
}
