package abstraction

import (
	"fmt"

	"github.com/behrlich/holdem-abstractor/pkg/notation"
	"github.com/behrlich/holdem-abstractor/pkg/pgcopy"
)

// Energy is a nonnegative scalar distance, matching the Energy alias
// used throughout spec.md.
type Energy = float64

const metricSuffix = ".metric.pgcopy"

// Metric is a mapping Pair -> Energy, normalized so every stored value
// lies in [0, 1] (spec.md §4.B). It doubles as the ground distance used
// inside Sinkhorn's cost matrix and as the distance table persisted per
// street.
type Metric struct {
	distances map[Pair]Energy
}

// NewMetricFrom normalizes a raw Pair -> distance map by its maximum
// value so every stored entry lies in [0, 1] (spec.md scenario #4).
func NewMetricFrom(raw map[Pair]Energy) Metric {
	max := 0.0
	for _, d := range raw {
		if d > max {
			max = d
		}
	}
	if max <= 0 {
		max = minPositive
	}
	out := make(map[Pair]Energy, len(raw))
	for p, d := range raw {
		out[p] = d / max
	}
	return Metric{distances: out}
}

// minPositive guards against division by zero exactly like Rust's
// f32::MIN_POSITIVE does in the source algorithm.
const minPositive = 1e-38

// Len reports the number of stored pairs; for a well-formed Metric this
// equals C(K, 2) for the owning street's K.
func (m Metric) Len() int { return len(m.distances) }

// Distance returns the ground distance between two same-street
// abstractions: 0 if they're equal, otherwise the stored pair entry. It
// panics on an unknown pair (spec.md §7 item 3: a missing pair is a
// programming error, not a runtime condition). Preflop abstractions are
// not excluded: Preflop's Metric is populated from a closed-form
// rank/suitedness strength index (PreflopMetric) rather than an EMD lift (there is no
// coarser street to run k-means against), but it is a real Metric once
// built, and Distance against it behaves like any other street.
func (m Metric) Distance(a, b Abstraction) Energy {
	if a == b {
		return 0
	}
	d, ok := m.distances[NewPair(a, b)]
	if !ok {
		panic(fmt.Sprintf("abstraction: missing metric entry for %s", NewPair(a, b)))
	}
	return d
}

// EMD computes earth-mover distance between two histograms, dispatching
// on the variant of source's Peek() (spec.md §4.B). m is used as the
// ground metric when source is Learned. Preflop histograms never reach
// EMD: Preflop's Lookup is fabricated directly from hand class, so no
// Preflop Histogram is ever built to take part in clustering.
func (m Metric) EMD(source, target Histogram) Energy {
	switch peek := source.Peek(); {
	case peek.IsLearned():
		return NewSinkhorn(source, target, m).Minimize().Cost()
	case peek.IsPercent():
		return VariationDistance(source, target)
	default:
		panic("abstraction: no EMD defined for Preflop histograms")
	}
}

// Save persists the metric for street under "<street>.metric.pgcopy" in
// dir, atomically (write-temp-then-rename, per spec.md §7 item 5).
func (m Metric) Save(dir string, street notation.Street) error {
	path := dir + "/" + street.String() + metricSuffix
	w, err := pgcopy.Create(path)
	if err != nil {
		return err
	}
	for p, d := range m.distances {
		if err := w.WriteRow(pgcopy.I64(p.Encode()), pgcopy.F32(float32(d))); err != nil {
			w.Close()
			return fmt.Errorf("abstraction: writing metric row: %w", err)
		}
	}
	return w.Close()
}

// LoadMetric reads a street's persisted metric. Missing or corrupt
// files are reported as an error for the caller to treat as fatal
// (spec.md §7 item 1/2).
func LoadMetric(dir string, street notation.Street) (Metric, error) {
	path := dir + "/" + street.String() + metricSuffix
	r, err := pgcopy.Open(path)
	if err != nil {
		return Metric{}, err
	}
	defer r.Close()

	distances := make(map[Pair]Energy)
	for {
		fields, ok, err := r.Next(2)
		if err != nil {
			return Metric{}, fmt.Errorf("abstraction: reading metric %s: %w", path, err)
		}
		if !ok {
			break
		}
		distances[DecodePair(pgcopy.DecodeI64(fields[0]))] = Energy(pgcopy.DecodeF32(fields[1]))
	}
	return Metric{distances: distances}, nil
}

// MetricDone reports whether street's metric artifact exists.
func MetricDone(dir string, street notation.Street) bool {
	return fileExists(dir + "/" + street.String() + metricSuffix)
}
