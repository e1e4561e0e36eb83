package abstraction

import (
	"fmt"

	"github.com/behrlich/holdem-abstractor/pkg/deal"
	"github.com/behrlich/holdem-abstractor/pkg/notation"
	"github.com/behrlich/holdem-abstractor/pkg/pgcopy"
)

const lookupSuffix = ".pgcopy"

// Lookup is a total mapping Observation -> Abstraction over one
// street's canonical enumeration (spec.md §3). River's is derived from
// equity, Preflop's from hand class directly, Flop/Turn's from nearest
// centroid.
type Lookup struct {
	labels map[deal.Observation]Abstraction
}

// NewLookup returns an empty Lookup ready for Set.
func NewLookup() Lookup {
	return Lookup{labels: make(map[deal.Observation]Abstraction)}
}

// Set records the abstraction for an observation.
func (l *Lookup) Set(o deal.Observation, a Abstraction) {
	if l.labels == nil {
		l.labels = make(map[deal.Observation]Abstraction)
	}
	l.labels[o] = a
}

// Get returns the abstraction for o, panicking if o was never set —
// per spec.md §7 item 3, a lookup miss against a street's own
// canonical enumeration is a programming bug.
func (l Lookup) Get(o deal.Observation) Abstraction {
	a, ok := l.labels[o]
	if !ok {
		panic(fmt.Sprintf("abstraction: lookup miss for %s", o))
	}
	return a
}

// Len reports how many observations are mapped.
func (l Lookup) Len() int { return len(l.labels) }

// Projections builds the coarser layer's points: one Histogram per
// coarser-street observation (canonical enumeration order), each
// counting how many one-card-forward children land in every finer
// abstraction under l (spec.md §4.D: "points ... from the next
// street's decomposition"). l must be the finer (next) street's
// Lookup.
func (l Lookup) Projections(coarser notation.Street, enumerator deal.Enumerator) []Histogram {
	obs := enumerator.Enumerate(coarser)
	points := make([]Histogram, len(obs))
	for i, o := range obs {
		h := NewHistogram()
		for _, child := range enumerator.Children(o) {
			h.Add(l.Get(child), 1)
		}
		points[i] = h
	}
	return points
}

// Save persists the lookup for street under "<street>.pgcopy" in dir,
// atomically.
func (l Lookup) Save(dir string, street notation.Street) error {
	path := dir + "/" + street.String() + lookupSuffix
	w, err := pgcopy.Create(path)
	if err != nil {
		return err
	}
	for o, a := range l.labels {
		if err := w.WriteRow(pgcopy.I64(o.Int64()), pgcopy.I64(a.Encode())); err != nil {
			w.Close()
			return fmt.Errorf("abstraction: writing lookup row: %w", err)
		}
	}
	return w.Close()
}

// LoadLookup reads a street's persisted lookup.
func LoadLookup(dir string, street notation.Street) (Lookup, error) {
	path := dir + "/" + street.String() + lookupSuffix
	r, err := pgcopy.Open(path)
	if err != nil {
		return Lookup{}, err
	}
	defer r.Close()

	l := NewLookup()
	for {
		fields, ok, err := r.Next(2)
		if err != nil {
			return Lookup{}, fmt.Errorf("abstraction: reading lookup %s: %w", path, err)
		}
		if !ok {
			break
		}
		o := deal.FromInt64(pgcopy.DecodeI64(fields[0]))
		a := Decode(pgcopy.DecodeI64(fields[1]))
		l.labels[o] = a
	}
	return l, nil
}

// LookupDone reports whether street's lookup artifact exists.
func LookupDone(dir string, street notation.Street) bool {
	return fileExists(dir + "/" + street.String() + lookupSuffix)
}
