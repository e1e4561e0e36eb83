package mccfr

import (
	"github.com/behrlich/holdem-abstractor/pkg/tree"
)

// Traversal walks one arena Tree against one Profile, implementing the
// external-sampling MCCFR value/reach recursion (spec.md §4.G). Every
// method is a pure function of (tree, node index); Traversal itself
// holds no per-walk mutable state besides the Profile it updates.
type Traversal struct {
	Tree    *tree.Tree
	Profile *Profile
}

// NewTraversal pairs a built tree with the profile it trains.
func NewTraversal(t *tree.Tree, p *Profile) *Traversal {
	return &Traversal{Tree: t, Profile: p}
}

func (tr *Traversal) node(idx int) *tree.Node {
	return tr.Tree.At(idx)
}

// PolicyVector returns the acting player's current strategy at idx:
// regret-matching over cumulative regret, floored so every edge keeps
// strictly positive probability (spec.md §4.G).
func (tr *Traversal) PolicyVector(idx int) map[Edge]float64 {
	n := tr.node(idx)
	edges := make([]Edge, len(n.Children))
	for i, c := range n.Children {
		edges[i] = tr.node(c).Incoming
	}
	tr.Profile.Witness(n.Bucket, edges)

	positive := make(map[Edge]float64, len(edges))
	sum := 0.0
	for _, e := range edges {
		r := tr.Profile.Regret(n.Bucket, e)
		if r < MinPositive {
			r = MinPositive
		}
		positive[e] = r
		sum += r
	}

	policy := make(map[Edge]float64, len(edges))
	if sum > 0 {
		for _, e := range edges {
			policy[e] = positive[e] / sum
		}
	} else {
		uniform := 1.0 / float64(len(edges))
		for _, e := range edges {
			policy[e] = uniform
		}
	}
	return policy
}

// TerminalValue is idx's payoff for player, read directly off the leaf
// (spec.md §4.G).
func (tr *Traversal) TerminalValue(idx int, player int) Utility {
	return tr.node(idx).Payoff[player]
}

// ExpectedValue is player's value at idx under the current policy at
// every decision node encountered on the way to each leaf: the
// policy-weighted average of the children's values (spec.md §4.G).
func (tr *Traversal) ExpectedValue(idx int, player int) Utility {
	n := tr.node(idx)
	if n.IsTerminal {
		return tr.TerminalValue(idx, player)
	}

	policy := tr.PolicyVector(idx)
	value := 0.0
	for _, c := range n.Children {
		edge := tr.node(c).Incoming
		value += policy[edge] * tr.ExpectedValue(c, player)
	}
	return value
}

// CfactualValue is player's counterfactual value at idx: player's
// expected value weighted by every OTHER player's reach probability to
// idx, excluding player's own (spec.md §4.G). extReach is the product
// of opponents' policy probabilities accumulated on the path to idx.
func (tr *Traversal) CfactualValue(idx int, player int, extReach float64) Utility {
	return extReach * tr.ExpectedValue(idx, player)
}

// InstantRegret is the one-shot, un-accumulated regret for taking edge
// at idx instead of following the current policy: the edge's
// counterfactual value minus the node's counterfactual value under the
// current policy (spec.md §4.G).
func (tr *Traversal) InstantRegret(idx int, childIdx int, player int, extReach float64) Utility {
	nodeValue := tr.CfactualValue(idx, player, extReach)
	childValue := tr.CfactualValue(childIdx, player, extReach)
	return childValue - nodeValue
}

// Gain floors InstantRegret at zero: CFR+ only accumulates
// non-negative regret (spec.md §4.G).
func (tr *Traversal) Gain(idx int, childIdx int, player int, extReach float64) Utility {
	g := tr.InstantRegret(idx, childIdx, player, extReach)
	if g < 0 {
		return 0
	}
	return g
}

// ExternalReach is the product of every opponent's (and chance's, were
// any modeled) policy probability along the path from root to idx —
// player's own choices are excluded (spec.md §4.G). It floors at
// MinPositive so importance-sampling ratios built from it never divide
// by zero.
func (tr *Traversal) ExternalReach(idx int, player int) float64 {
	reach := tr.reach(idx, func(actor int) bool { return actor != player })
	if reach < MinPositive {
		return MinPositive
	}
	return reach
}

// ProfiledReach is the product of every player's average (Advice)
// policy probability along the path from root to idx, used to weight
// contributions into the final blueprint (spec.md §4.G).
func (tr *Traversal) ProfiledReach(idx int) float64 {
	reach := 1.0
	cur := idx
	for cur != tr.Tree.Root {
		n := tr.node(cur)
		parent := n.ParentIdx
		reach *= tr.Profile.Advice(tr.node(parent).Bucket, n.Incoming)
		cur = parent
	}
	if reach < MinPositive {
		return MinPositive
	}
	return reach
}

// RelativeReach is idx's ExternalReach normalized by parent's, i.e.
// the single edge's own reach contribution in isolation (spec.md
// §4.G): used to weight one step of the regret recursion without
// re-walking the whole path from root.
func (tr *Traversal) RelativeReach(parentIdx, idx int, player int) float64 {
	n := tr.node(idx)
	if n.ParentIdx != parentIdx {
		panic("mccfr: RelativeReach called with a non-parent idx pair")
	}
	if tr.node(parentIdx).Player == player {
		return 1.0
	}
	return tr.Profile.Policy(tr.node(parentIdx).Bucket, n.Incoming)
}

// reach multiplies together, along the path from root to idx, every
// acting player's policy probability for the edge taken, restricted to
// actors for which include returns true.
func (tr *Traversal) reach(idx int, include func(actor int) bool) float64 {
	reach := 1.0
	cur := idx
	for cur != tr.Tree.Root {
		n := tr.node(cur)
		parent := tr.node(n.ParentIdx)
		if include(parent.Player) {
			reach *= tr.Profile.Policy(parent.Bucket, n.Incoming)
		}
		cur = n.ParentIdx
	}
	return reach
}

// RunningRegret is the profile's stored cumulative regret for (bucket,
// edge): an alias kept for symmetry with the spec's vocabulary (spec.md
// §4.G calls Profile.Regret "running_regret").
func (tr *Traversal) RunningRegret(b Bucket, e Edge) float64 {
	return tr.Profile.Regret(b, e)
}

// Walk runs one external-sampling MCCFR iteration rooted at idx for
// the current walker (spec.md §4.F/§4.G): the walker's own decision
// nodes update regret and policy at every reachable child; the
// opponent's decision nodes sample a single child by their current
// policy and recurse into it only, the hallmark of external sampling
// that keeps one iteration's cost proportional to tree depth, not
// width.
func (tr *Traversal) Walk(idx int, walker int, extReach float64) Utility {
	n := tr.node(idx)
	if n.IsTerminal {
		return tr.TerminalValue(idx, walker)
	}

	if n.Player != walker {
		policy := tr.PolicyVector(idx)
		child := tr.sampleChild(idx, n.Player, policy)
		edge := tr.node(child).Incoming
		return tr.Walk(child, walker, extReach*policy[edge])
	}

	policy := tr.PolicyVector(idx)
	childValues := make(map[Edge]float64, len(n.Children))
	nodeValue := 0.0
	for _, c := range n.Children {
		edge := tr.node(c).Incoming
		v := tr.Walk(c, walker, extReach)
		childValues[edge] = v
		nodeValue += policy[edge] * v
	}

	regretVector := make(map[Edge]float64, len(n.Children))
	for edge, v := range childValues {
		gain := extReach * (v - nodeValue)
		running := tr.Profile.Regret(n.Bucket, edge) + gain
		if running < MinPositive {
			running = MinPositive
		}
		regretVector[edge] = running
	}
	tr.Profile.UpdateRegret(n.Bucket, regretVector)
	tr.Profile.UpdatePolicy(n.Bucket, policy)

	return nodeValue
}

func (tr *Traversal) sampleChild(idx int, player int, policy map[Edge]float64) int {
	n := tr.node(idx)
	r := tr.Profile.Rng(n).Float64()
	cumulative := 0.0
	for _, c := range n.Children {
		edge := tr.node(c).Incoming
		cumulative += policy[edge]
		if r <= cumulative {
			return c
		}
	}
	return n.Children[len(n.Children)-1]
}
