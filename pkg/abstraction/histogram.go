package abstraction

import "gonum.org/v1/gonum/floats"

// Histogram is an unnormalized distribution over abstractions: an
// accumulator, not a probability. Every key in a Histogram must share the
// same variant (spec.md §3) — all Learned, all Percent, or all Preflop —
// which Peek relies on to discriminate the whole distribution from a
// single representative key.
type Histogram struct {
	mass map[Abstraction]float64
}

// NewHistogram returns an empty accumulator.
func NewHistogram() Histogram {
	return Histogram{mass: make(map[Abstraction]float64)}
}

// Add accumulates weight at a, creating the key if absent.
func (h *Histogram) Add(a Abstraction, weight float64) {
	if h.mass == nil {
		h.mass = make(map[Abstraction]float64)
	}
	h.mass[a] += weight
}

// Absorb pointwise-adds other into h.
func (h *Histogram) Absorb(other Histogram) {
	if h.mass == nil {
		h.mass = make(map[Abstraction]float64)
	}
	for a, w := range other.mass {
		h.mass[a] += w
	}
}

// Peek returns one key, used only to discriminate which Abstraction
// variant this histogram is distributed over. It panics on an empty
// histogram: spec.md §7 classifies this as a programming-bug invariant
// violation, not a recoverable runtime condition.
func (h Histogram) Peek() Abstraction {
	for a := range h.mass {
		return a
	}
	panic("abstraction: Peek called on empty histogram")
}

// Support iterates the histogram's keys.
func (h Histogram) Support() []Abstraction {
	keys := make([]Abstraction, 0, len(h.mass))
	for a := range h.mass {
		keys = append(keys, a)
	}
	return keys
}

// Len reports how many distinct abstractions have nonzero-ever mass
// (an abstraction absorbed with weight 0 still counts as present).
func (h Histogram) Len() int { return len(h.mass) }

// TotalMass sums every key's weight.
func (h Histogram) TotalMass() float64 {
	total := 0.0
	for _, w := range h.mass {
		total += w
	}
	return total
}

// Normalize produces a probability Density. A zero-mass histogram
// normalizes to an empty Density: callers that need to discriminate an
// empty centroid from a degenerate one should check TotalMass first.
func (h Histogram) Normalize() Density {
	total := h.TotalMass()
	d := Density{prob: make(map[Abstraction]float64, len(h.mass))}
	if total <= 0 {
		return d
	}
	weights := make([]float64, 0, len(h.mass))
	keys := make([]Abstraction, 0, len(h.mass))
	for a, w := range h.mass {
		keys = append(keys, a)
		weights = append(weights, w)
	}
	floats.Scale(1/total, weights)
	for i, a := range keys {
		d.prob[a] = weights[i]
	}
	return d
}

// Density is a normalized probability distribution over abstractions,
// kept as a distinct type from Histogram (Design Notes §9) so an empty
// centroid can never be silently divided by zero: Density(x) on an
// absent key is simply 0.
type Density struct {
	prob map[Abstraction]float64
}

// Density returns the probability mass at x, or 0 if x is not in the
// support.
func (d Density) Density(x Abstraction) float64 { return d.prob[x] }

// Support iterates the density's keys.
func (d Density) Support() []Abstraction {
	keys := make([]Abstraction, 0, len(d.prob))
	for a := range d.prob {
		keys = append(keys, a)
	}
	return keys
}
