package mccfr

import (
	"fmt"

	"github.com/behrlich/holdem-abstractor/pkg/pgcopy"
)

const blueprintFile = "blueprint.pgcopy"

// Save persists every witnessed (Bucket, Edge) strategy under dir as
// blueprint.pgcopy (spec.md §6): one row per edge, u64 path | u64
// abstraction | u32 edge | f32 regret | f32 advice.
func (p *Profile) Save(dir string) error {
	path := dir + "/" + blueprintFile
	w, err := pgcopy.Create(path)
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	for b, entry := range p.strategies {
		entry.mu.Lock()
		for edge, s := range entry.edges {
			row := []pgcopy.Field{
				pgcopy.U64(EncodePath(b.Path)),
				pgcopy.U64(uint64(b.Abstraction.Encode())),
				pgcopy.U32(EncodeEdge(edge)),
				pgcopy.F32(float32(s.Regret)),
				pgcopy.F32(float32(s.Advice)),
			}
			if err := w.WriteRow(row...); err != nil {
				entry.mu.Unlock()
				w.Close()
				return fmt.Errorf("mccfr: writing blueprint row: %w", err)
			}
		}
		entry.mu.Unlock()
	}
	return w.Close()
}

// LoadProfile reads dir's persisted blueprint into a fresh Profile
// ready to resume training or to drive play.
func LoadProfile(dir string) (*Profile, error) {
	path := dir + "/" + blueprintFile
	r, err := pgcopy.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	p := NewProfile()
	for {
		fields, ok, err := r.Next(5)
		if err != nil {
			return nil, fmt.Errorf("mccfr: reading blueprint %s: %w", path, err)
		}
		if !ok {
			break
		}
		b := Bucket{
			Path:        DecodePath(pgcopy.DecodeU64(fields[0])),
			Abstraction: decodeAbstraction(int64(pgcopy.DecodeU64(fields[1]))),
		}
		edge := DecodeEdge(pgcopy.DecodeU32(fields[2]))
		regret := float64(pgcopy.DecodeF32(fields[3]))
		advice := float64(pgcopy.DecodeF32(fields[4]))

		entry := p.entry(b)
		entry.mu.Lock()
		entry.edges[edge] = &Strategy{Regret: regret, Advice: advice}
		entry.mu.Unlock()
	}
	return p, nil
}

// BlueprintDone reports whether dir already holds a persisted blueprint.
func BlueprintDone(dir string) bool {
	return fileExists(dir + "/" + blueprintFile)
}
