package tree

import "testing"

func TestLeavesCachesAcrossCalls(t *testing.T) {
	tr := NewTree()
	leaf0 := tr.add(Node{IsTerminal: true})
	leaf1 := tr.add(Node{IsTerminal: true})
	root := tr.add(Node{Children: []int{leaf0, leaf1}})
	tr.Root = root

	first := tr.Leaves(root)
	if len(first) != 2 {
		t.Fatalf("expected 2 leaves, got %d", len(first))
	}

	second := tr.Leaves(root)
	if len(second) != 2 || second[0] != first[0] || second[1] != first[1] {
		t.Fatalf("cached leaves changed across calls: %v vs %v", first, second)
	}
}

func TestLeavesOfTerminalIsItself(t *testing.T) {
	tr := NewTree()
	leaf := tr.add(Node{IsTerminal: true})
	tr.Root = leaf

	got := tr.Leaves(leaf)
	if len(got) != 1 || got[0] != leaf {
		t.Fatalf("expected [%d], got %v", leaf, got)
	}
}

func TestPathExtendAccumulatesEdges(t *testing.T) {
	p := RootPath
	p = p.Extend(Edge{})
	if p == RootPath {
		t.Fatal("extending the root path should change it")
	}
}
