// Package mccfr implements the external-sampling Monte Carlo CFR+
// profile and traversal contract (spec.md §4.F, §4.G): a regret/policy
// store keyed by (Bucket, Edge), and the value/reach recursion that
// walks an arena pkg/tree.Tree to update it.
package mccfr

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"

	"github.com/behrlich/holdem-abstractor/pkg/tree"
)

// Bucket and Edge are the arena tree's information-set key and action
// type; mccfr never redefines them so a Tree built by pkg/tree can be
// traversed directly against a Profile.
type Bucket = tree.Bucket
type Edge = tree.Edge
type Path = tree.Path

// MinPositive floors regret and policy the same way the clustering
// package floors Sinkhorn's divisors, so importance ratios never divide
// by zero (spec.md §4.G: "All reaches are strictly ≥ MIN_POSITIVE").
const MinPositive = 1e-38

// Strategy holds one (Bucket, Edge) pair's running state (spec.md §3).
type Strategy struct {
	Regret float64
	Policy float64
	Advice float64
}

type bucketEntry struct {
	mu    sync.Mutex
	edges map[Edge]*Strategy
}

// Profile is the trained blueprint: an iteration counter plus a
// Bucket -> (Edge -> Strategy) store. Locking is bucket-level (spec.md
// §5 "Shared-resource policy"): concurrent walks touching different
// buckets never contend; only updates to the same bucket serialize.
type Profile struct {
	mu         sync.RWMutex // guards insertion of new bucket entries
	iterations int64
	strategies map[Bucket]*bucketEntry
}

// NewProfile returns an empty, untrained profile.
func NewProfile() *Profile {
	return &Profile{strategies: make(map[Bucket]*bucketEntry)}
}

// Iterations reports the number of Next() calls so far.
func (p *Profile) Iterations() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.iterations
}

// Next increments and returns the iteration counter (spec.md §4.F).
func (p *Profile) Next() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.iterations++
	return p.iterations
}

// Epochs reports iterations/2: one epoch is both players traversing
// once (spec.md §4.F).
func (p *Profile) Epochs() int64 {
	return p.Iterations() / 2
}

// Walker returns which player traverses on the current iteration:
// Player(iterations mod 2) (spec.md §4.F).
func (p *Profile) Walker() int {
	return int(p.Iterations() % 2)
}

// Rng derives a deterministic PRNG for node from hash(epoch,
// node.Bucket), so Monte-Carlo external-sampling decisions are
// reproducible given a fixed iteration count (spec.md §4.F).
func (p *Profile) Rng(node *tree.Node) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s|%v", p.Epochs(), node.Bucket.Path, node.Bucket.Abstraction)
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func (p *Profile) entry(b Bucket) *bucketEntry {
	p.mu.RLock()
	e, ok := p.strategies[b]
	p.mu.RUnlock()
	if ok {
		return e
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.strategies[b]; ok {
		return e
	}
	e = &bucketEntry{edges: make(map[Edge]*Strategy)}
	p.strategies[b] = e
	return e
}

// Witness is idempotent: if b is unseen, it initializes a uniform
// policy (1/|outgoing|) and zero regret/advice for every outgoing edge
// (spec.md §4.F).
func (p *Profile) Witness(b Bucket, outgoing []Edge) {
	e := p.entry(b)
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.edges) > 0 {
		return
	}
	uniform := 1.0 / float64(len(outgoing))
	for _, edge := range outgoing {
		e.edges[edge] = &Strategy{Policy: uniform}
	}
}

// UpdateRegret overwrites each outgoing edge's regret with vector's
// entry (spec.md §4.F): the caller has already floored cumulative
// regret at MinPositive.
func (p *Profile) UpdateRegret(b Bucket, vector map[Edge]float64) {
	e := p.entry(b)
	e.mu.Lock()
	defer e.mu.Unlock()
	for edge, r := range vector {
		s, ok := e.edges[edge]
		if !ok {
			panic(fmt.Sprintf("mccfr: update_regret on unwitnessed edge %v for bucket %v", edge, b))
		}
		s.Regret = r
	}
}

// UpdatePolicy overwrites each outgoing edge's policy with vector's
// entry, folding it into advice's running average via CFR+'s scheme:
// advice <- (advice*E + p) / (E+1), E = epochs() (spec.md §4.F).
func (p *Profile) UpdatePolicy(b Bucket, vector map[Edge]float64) {
	epoch := float64(p.Epochs())
	e := p.entry(b)
	e.mu.Lock()
	defer e.mu.Unlock()
	for edge, policy := range vector {
		s, ok := e.edges[edge]
		if !ok {
			panic(fmt.Sprintf("mccfr: update_policy on unwitnessed edge %v for bucket %v", edge, b))
		}
		s.Policy = policy
		s.Advice = (s.Advice*epoch + policy) / (epoch + 1)
	}
}

// Policy returns the opponent's stored policy for (b,e), falling back
// to MinPositive on an unseen bucket or edge so importance ratios never
// divide by zero (spec.md §4.F).
func (p *Profile) Policy(b Bucket, e Edge) float64 {
	p.mu.RLock()
	entry, ok := p.strategies[b]
	p.mu.RUnlock()
	if !ok {
		return MinPositive
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	s, ok := entry.edges[e]
	if !ok || s.Policy <= 0 {
		return MinPositive
	}
	return s.Policy
}

// Regret returns the stored running regret for (b,e), or 0 if unseen.
func (p *Profile) Regret(b Bucket, e Edge) float64 {
	p.mu.RLock()
	entry, ok := p.strategies[b]
	p.mu.RUnlock()
	if !ok {
		return 0
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if s, ok := entry.edges[e]; ok {
		return s.Regret
	}
	return 0
}

// Advice returns bucket b's time-averaged policy, the final blueprint
// answer for edge e.
func (p *Profile) Advice(b Bucket, e Edge) float64 {
	p.mu.RLock()
	entry, ok := p.strategies[b]
	p.mu.RUnlock()
	if !ok {
		return 0
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if s, ok := entry.edges[e]; ok {
		return s.Advice
	}
	return 0
}

// Outgoing returns the edges witnessed for b, in no particular order.
func (p *Profile) Outgoing(b Bucket) []Edge {
	p.mu.RLock()
	entry, ok := p.strategies[b]
	p.mu.RUnlock()
	if !ok {
		return nil
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	out := make([]Edge, 0, len(entry.edges))
	for e := range entry.edges {
		out = append(out, e)
	}
	return out
}
