package abstraction

import (
	"fmt"

	"github.com/behrlich/holdem-abstractor/pkg/notation"
	"github.com/behrlich/holdem-abstractor/pkg/pgcopy"
)

const decompSuffix = ".decomp.pgcopy"

// Decomposition is a mapping Abstraction -> centroid Histogram,
// consumed by the next (coarser) street as its finer-grained codebook
// (spec.md §3).
type Decomposition struct {
	centroids map[Abstraction]Histogram
}

// NewDecomposition returns an empty decomposition ready for Set.
func NewDecomposition() Decomposition {
	return Decomposition{centroids: make(map[Abstraction]Histogram)}
}

// Set records the centroid histogram for a label.
func (d *Decomposition) Set(label Abstraction, centroid Histogram) {
	if d.centroids == nil {
		d.centroids = make(map[Abstraction]Histogram)
	}
	d.centroids[label] = centroid
}

// Get returns the centroid histogram for label.
func (d Decomposition) Get(label Abstraction) Histogram {
	h, ok := d.centroids[label]
	if !ok {
		panic(fmt.Sprintf("abstraction: decomposition miss for %s", label))
	}
	return h
}

// Len reports the number of labeled centroids (equals the owning
// street's configured K).
func (d Decomposition) Len() int { return len(d.centroids) }

// Save persists the decomposition for street under
// "<street>.decomp.pgcopy" in dir, atomically. One row per (label,
// finer-abstraction) pair present in that label's centroid histogram.
func (d Decomposition) Save(dir string, street notation.Street) error {
	path := dir + "/" + street.String() + decompSuffix
	w, err := pgcopy.Create(path)
	if err != nil {
		return err
	}
	for label, centroid := range d.centroids {
		for _, finer := range centroid.Support() {
			mass := centroid.mass[finer]
			row := []pgcopy.Field{
				pgcopy.I64(label.Encode()),
				pgcopy.I64(finer.Encode()),
				pgcopy.F32(float32(mass)),
			}
			if err := w.WriteRow(row...); err != nil {
				w.Close()
				return fmt.Errorf("abstraction: writing decomposition row: %w", err)
			}
		}
	}
	return w.Close()
}

// LoadDecomposition reads a street's persisted decomposition.
func LoadDecomposition(dir string, street notation.Street) (Decomposition, error) {
	path := dir + "/" + street.String() + decompSuffix
	r, err := pgcopy.Open(path)
	if err != nil {
		return Decomposition{}, err
	}
	defer r.Close()

	d := NewDecomposition()
	for {
		fields, ok, err := r.Next(3)
		if err != nil {
			return Decomposition{}, fmt.Errorf("abstraction: reading decomposition %s: %w", path, err)
		}
		if !ok {
			break
		}
		label := Decode(pgcopy.DecodeI64(fields[0]))
		finer := Decode(pgcopy.DecodeI64(fields[1]))
		mass := float64(pgcopy.DecodeF32(fields[2]))

		h, ok := d.centroids[label]
		if !ok {
			h = NewHistogram()
		}
		h.Add(finer, mass)
		d.centroids[label] = h
	}
	return d, nil
}

// DecompositionDone reports whether street's decomposition artifact
// exists.
func DecompositionDone(dir string, street notation.Street) bool {
	return fileExists(dir + "/" + street.String() + decompSuffix)
}
