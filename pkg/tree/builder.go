package tree

import (
	"fmt"

	"github.com/behrlich/holdem-abstractor/pkg/abstraction"
	"github.com/behrlich/holdem-abstractor/pkg/cards"
	"github.com/behrlich/holdem-abstractor/pkg/deal"
	"github.com/behrlich/holdem-abstractor/pkg/notation"
)

// Builder constructs arena-based betting trees for one river board and
// one pair of dealt hole-card combos (spec.md §4.K's external stand-in:
// game-tree construction is out of the algorithmic core, but the core
// needs something real to traverse). Only river (5-card board) subgames
// are supported: cards.Evaluate requires exactly 7 cards, so an
// incomplete board has no showdown to evaluate against — this mirrors
// what the teacher's own Evaluate already enforces, not a new
// restriction.
type Builder struct {
	Config ActionConfig

	// Lookup maps a dealt hand to its river abstraction bucket. Nil
	// means every decision node gets the zero Abstraction (useful for
	// tests that only care about tree shape, not bucketing).
	Lookup abstraction.Lookup
}

// NewBuilder creates a builder with the given action config and an
// empty (zero-abstraction) lookup.
func NewBuilder(config ActionConfig) *Builder {
	return &Builder{Config: config}
}

// WithLookup attaches the river abstraction lookup used to assign each
// decision node's Bucket.
func (b *Builder) WithLookup(lookup abstraction.Lookup) *Builder {
	b.Lookup = lookup
	return b
}

// Build constructs the full betting tree for one specific hole-card
// matchup on gs's (already complete) river board.
func (b *Builder) Build(gs *notation.GameState, combo0, combo1 notation.Combo) (*Tree, error) {
	if len(gs.Players) != 2 {
		return nil, fmt.Errorf("tree: only 2-player games supported")
	}
	if len(gs.Board) != 5 {
		return nil, fmt.Errorf("tree: only complete (5-card) river boards supported")
	}
	if err := validateCards(gs.Board, combo0, combo1); err != nil {
		return nil, err
	}

	t := NewTree()
	stacks := [2]float64{gs.Players[0].Stack, gs.Players[1].Stack}
	combos := [2]notation.Combo{combo0, combo1}
	root := b.buildNode(t, -1, Edge{}, RootPath, gs.Board, gs.ActionHistory, gs.Pot, stacks, gs.ToAct, combos)
	t.Root = root
	return t, nil
}

func (b *Builder) buildNode(
	t *Tree,
	parentIdx int,
	incoming Edge,
	path Path,
	board []cards.Card,
	history []notation.Action,
	pot float64,
	stacks [2]float64,
	toAct int,
	combos [2]notation.Combo,
) int {
	lastAction := GetLastAction(history)

	if lastAction != nil && lastAction.Type == notation.Fold {
		payoffs := [2]Utility{0, 0}
		if toAct == 0 {
			payoffs[0] = pot
		} else {
			payoffs[1] = pot
		}
		return t.add(Node{
			ParentIdx:  parentIdx,
			Incoming:   incoming,
			IsTerminal: true,
			Payoff:     payoffs,
			Board:      board,
			Pot:        pot,
			Stacks:     stacks,
		})
	}

	if isShowdown(history) {
		payoffs := showdownPayoffs(board, combos, pot)
		return t.add(Node{
			ParentIdx:  parentIdx,
			Incoming:   incoming,
			IsTerminal: true,
			Payoff:     payoffs,
			Board:      board,
			Pot:        pot,
			Stacks:     stacks,
		})
	}

	playerCombo := combos[toAct]
	idx := t.add(Node{
		Player:    toAct,
		ParentIdx: parentIdx,
		Incoming:  incoming,
		Bucket:    b.bucket(path, board, playerCombo),
		Board:     board,
		Pot:       pot,
		Stacks:    stacks,
	})

	actions := GenerateActions(pot, stacks[toAct], lastAction, b.Config)
	children := make([]int, 0, len(actions))
	for _, action := range actions {
		newHistory := append(append([]notation.Action{}, history...), action)
		newPot, newStacks, nextToAct := b.applyAction(action, history, pot, stacks, toAct)
		childPath := path.Extend(action)
		child := b.buildNode(t, idx, action, childPath, board, newHistory, newPot, newStacks, nextToAct, combos)
		children = append(children, child)
	}
	t.At(idx).Children = children
	return idx
}

func (b *Builder) applyAction(action notation.Action, history []notation.Action, pot float64, stacks [2]float64, toAct int) (float64, [2]float64, int) {
	newPot := pot
	newStacks := stacks

	switch action.Type {
	case notation.Bet, notation.Raise:
		newPot += action.Amount
		newStacks[toAct] -= action.Amount
	case notation.Call:
		amount := callAmount(history, stacks[toAct])
		newPot += amount
		newStacks[toAct] -= amount
	}

	nextToAct := 1 - toAct
	if action.Type == notation.Call {
		nextToAct = toAct // irrelevant: this history is terminal
	}
	// After a Fold, nextToAct stays 1 - toAct: the fold terminal awards
	// the pot to that player, the one who did not fold.
	return newPot, newStacks, nextToAct
}

// callAmount finds the most recent bet/raise in history and caps it at
// the caller's remaining stack (an all-in call).
func callAmount(history []notation.Action, stack float64) float64 {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Type == notation.Bet || history[i].Type == notation.Raise {
			amount := history[i].Amount
			if amount > stack {
				return stack
			}
			return amount
		}
	}
	return 0
}

// bucket resolves the acting player's abstraction bucket from
// b.Lookup, if one is attached; otherwise it uses the zero
// Abstraction, which is enough for tree-shape-only tests.
func (b *Builder) bucket(path Path, board []cards.Card, combo notation.Combo) Bucket {
	var abs abstraction.Abstraction
	if b.Lookup.Len() > 0 {
		hole := [2]cards.Card{combo.Card1, combo.Card2}
		obs := deal.FromCards(notation.River, hole, board)
		abs = b.Lookup.Get(obs)
	}
	return Bucket{Path: path, Abstraction: abs}
}

func isShowdown(history []notation.Action) bool {
	if len(history) < 2 {
		return false
	}
	last := history[len(history)-1]
	secondLast := history[len(history)-2]
	if last.Type == notation.Check && secondLast.Type == notation.Check {
		return true
	}
	if last.Type == notation.Call && (secondLast.Type == notation.Bet || secondLast.Type == notation.Raise) {
		return true
	}
	return false
}

func showdownPayoffs(board []cards.Card, combos [2]notation.Combo, pot float64) [2]Utility {
	hand0 := append([]cards.Card{combos[0].Card1, combos[0].Card2}, board...)
	hand1 := append([]cards.Card{combos[1].Card1, combos[1].Card2}, board...)

	cmp := cards.Evaluate(hand0).Compare(cards.Evaluate(hand1))
	switch {
	case cmp > 0:
		return [2]Utility{pot, 0}
	case cmp < 0:
		return [2]Utility{0, pot}
	default:
		return [2]Utility{pot / 2, pot / 2}
	}
}

func validateCards(board []cards.Card, combo0, combo1 notation.Combo) error {
	seen := make(map[cards.Card]bool, len(board)+4)
	check := func(c cards.Card) error {
		if seen[c] {
			return fmt.Errorf("tree: duplicate card %s", c)
		}
		seen[c] = true
		return nil
	}
	for _, c := range board {
		if err := check(c); err != nil {
			return err
		}
	}
	for _, c := range []cards.Card{combo0.Card1, combo0.Card2, combo1.Card1, combo1.Card2} {
		if err := check(c); err != nil {
			return err
		}
	}
	return nil
}
