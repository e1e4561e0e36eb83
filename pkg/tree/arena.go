package tree

import (
	"github.com/behrlich/holdem-abstractor/pkg/abstraction"
	"github.com/behrlich/holdem-abstractor/pkg/cards"
	"github.com/behrlich/holdem-abstractor/pkg/notation"
)

// Utility is a player's payoff at a terminal node, in big blinds.
type Utility = float64

// Edge is one action taken at a decision node. Distinct (Type, Amount)
// pairs are distinct edges; the action abstraction (which bet sizes
// exist at all) is decided by ActionConfig, not by this type.
type Edge = notation.Action

// Path is the sequence of edges taken since the root, encoded as a
// stable string so it is both hashable and orderable (spec.md §3).
type Path string

// Extend appends one edge to the path.
func (p Path) Extend(e Edge) Path {
	return Path(string(p) + "/" + e.String())
}

// RootPath is the path at the root of any tree.
const RootPath Path = ""

// Bucket is the MCCFR traversal's information-set key: the betting
// history since the start of the hand plus the acting player's
// abstraction at this street (spec.md §3).
type Bucket struct {
	Path        Path
	Abstraction abstraction.Abstraction
}

// Node is one arena slot. Indices, not pointers, link parent to
// children so the whole tree is one contiguous, relocatable slice
// (spec.md §9 "Cyclic/parent references": the game tree has a natural
// parent pointer, which in Go is best expressed as an index into a
// backing slice rather than a pointer cycle).
type Node struct {
	Player     int  // acting player, meaningful only for decision nodes
	ParentIdx  int  // -1 at the root
	Incoming   Edge // edge taken from ParentIdx to reach this node; zero value at the root
	Children   []int
	IsChance   bool
	IsTerminal bool
	Payoff     [2]Utility
	Bucket     Bucket

	Board  []cards.Card
	Pot    float64
	Stacks [2]float64

	leaves []int // cached by Tree.Leaves; nil until first computed
}

// Tree is an arena-based betting tree: a single Node slice plus a root
// index (spec.md §9's recommended representation), rather than a
// parent-less map keyed by a per-node info-set string.
type Tree struct {
	Nodes []Node
	Root  int
}

// NewTree returns an empty arena whose Root is 0; appending nodes does
// not change Root, so the builder sets it explicitly.
func NewTree() *Tree {
	return &Tree{Root: 0}
}

// add appends n and returns its index.
func (t *Tree) add(n Node) int {
	t.Nodes = append(t.Nodes, n)
	return len(t.Nodes) - 1
}

// Add appends n and returns its index, for callers outside this
// package building an arena directly (e.g. a traversal test fixture
// that skips Builder entirely).
func (t *Tree) Add(n Node) int {
	return t.add(n)
}

// At returns a pointer into the arena slice for idx, so callers can
// mutate a node (e.g. Builder filling in a node's Children after its
// subtree is built) without copying it out.
func (t *Tree) At(idx int) *Node {
	return &t.Nodes[idx]
}

// Parent returns idx's parent index, or -1 at the root.
func (t *Tree) Parent(idx int) int {
	return t.Nodes[idx].ParentIdx
}

// Leaves walks idx's descendants once and caches the resulting list of
// terminal-node indices on the node itself.
func (t *Tree) Leaves(idx int) []int {
	n := &t.Nodes[idx]
	if n.leaves != nil {
		return n.leaves
	}
	if n.IsTerminal {
		n.leaves = []int{idx}
		return n.leaves
	}
	var out []int
	for _, c := range n.Children {
		out = append(out, t.Leaves(c)...)
	}
	n.leaves = out
	return out
}
