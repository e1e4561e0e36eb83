package tree

import (
	"testing"

	"github.com/behrlich/holdem-abstractor/pkg/cards"
	"github.com/behrlich/holdem-abstractor/pkg/notation"
)

func TestBuilderBuildSimpleRiver(t *testing.T) {
	gs := &notation.GameState{
		Players: []notation.PlayerRange{
			{Position: notation.BTN, Stack: 100},
			{Position: notation.BB, Stack: 100},
		},
		Pot:           10,
		Board:         makeRiverBoard(),
		ActionHistory: nil,
		ToAct:         0,
		Street:        notation.River,
	}

	combo0 := notation.Combo{
		Card1: cards.NewCard(cards.Ace, cards.Diamonds),
		Card2: cards.NewCard(cards.Ace, cards.Clubs),
	}
	combo1 := notation.Combo{
		Card1: cards.NewCard(cards.Queen, cards.Diamonds),
		Card2: cards.NewCard(cards.Queen, cards.Hearts),
	}

	config := ActionConfig{
		BetSizes:   []float64{0.5, 1.0},
		AllowCheck: true,
		AllowCall:  true,
		AllowFold:  true,
	}

	builder := NewBuilder(config)
	tr, err := builder.Build(gs, combo0, combo1)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	root := tr.At(tr.Root)
	if root.IsTerminal {
		t.Error("root should not be terminal")
	}
	if root.Player != 0 {
		t.Errorf("root player should be 0, got %d", root.Player)
	}
	if root.Pot != 10 {
		t.Errorf("root pot should be 10, got %.1f", root.Pot)
	}
	if len(root.Children) == 0 {
		t.Error("root should have children")
	}
}

func TestBuilderBuildInvalidInputs(t *testing.T) {
	config := DefaultRiverConfig()
	builder := NewBuilder(config)

	combo0 := notation.Combo{
		Card1: cards.NewCard(cards.Ace, cards.Spades),
		Card2: cards.NewCard(cards.King, cards.Spades),
	}
	combo1 := notation.Combo{
		Card1: cards.NewCard(cards.Queen, cards.Diamonds),
		Card2: cards.NewCard(cards.Jack, cards.Diamonds),
	}

	gs := &notation.GameState{
		Players:       []notation.PlayerRange{{Position: notation.BTN, Stack: 100}},
		Pot:           10,
		Board:         makeRiverBoard(),
		ActionHistory: nil,
		ToAct:         0,
	}
	if _, err := builder.Build(gs, combo0, combo1); err == nil {
		t.Error("expected error for non-2-player game")
	}

	gs2 := &notation.GameState{
		Players: []notation.PlayerRange{
			{Position: notation.BTN, Stack: 100},
			{Position: notation.BB, Stack: 100},
		},
		Pot:           10,
		Board:         []cards.Card{},
		ActionHistory: nil,
		ToAct:         0,
	}
	if _, err := builder.Build(gs2, combo0, combo1); err == nil {
		t.Error("expected error for an incomplete board")
	}
}

func TestBuilderBuildDuplicateCards(t *testing.T) {
	config := DefaultRiverConfig()
	builder := NewBuilder(config)

	board := makeRiverBoard()
	combo0 := notation.Combo{
		Card1: board[0],
		Card2: cards.NewCard(cards.Ace, cards.Clubs),
	}
	combo1 := notation.Combo{
		Card1: cards.NewCard(cards.Queen, cards.Diamonds),
		Card2: cards.NewCard(cards.Jack, cards.Diamonds),
	}

	gs := &notation.GameState{
		Players: []notation.PlayerRange{
			{Position: notation.BTN, Stack: 100},
			{Position: notation.BB, Stack: 100},
		},
		Pot:           10,
		Board:         board,
		ActionHistory: nil,
		ToAct:         0,
	}

	if _, err := builder.Build(gs, combo0, combo1); err == nil {
		t.Error("expected error for duplicate cards")
	}
}

func TestShowdownPayoffsSumToPot(t *testing.T) {
	board := []cards.Card{
		cards.NewCard(cards.King, cards.Hearts),
		cards.NewCard(cards.King, cards.Spades),
		cards.NewCard(cards.King, cards.Diamonds),
		cards.NewCard(cards.Seven, cards.Clubs),
		cards.NewCard(cards.Two, cards.Spades),
	}
	combo0 := notation.Combo{
		Card1: cards.NewCard(cards.Ace, cards.Diamonds),
		Card2: cards.NewCard(cards.Ace, cards.Clubs),
	}
	combo1 := notation.Combo{
		Card1: cards.NewCard(cards.Queen, cards.Diamonds),
		Card2: cards.NewCard(cards.Queen, cards.Hearts),
	}

	payoffs := showdownPayoffs(board, [2]notation.Combo{combo0, combo1}, 100)
	if payoffs[0]+payoffs[1] != 100 {
		t.Errorf("payoffs should sum to pot (100), got [%.1f, %.1f]", payoffs[0], payoffs[1])
	}
}

func TestBuilderFoldPayoffs(t *testing.T) {
	config := ActionConfig{
		BetSizes:   []float64{0.5},
		AllowCheck: true,
		AllowCall:  true,
		AllowFold:  true,
	}
	builder := NewBuilder(config)

	combo0 := notation.Combo{
		Card1: cards.NewCard(cards.Ace, cards.Diamonds),
		Card2: cards.NewCard(cards.Ace, cards.Clubs),
	}
	combo1 := notation.Combo{
		Card1: cards.NewCard(cards.Queen, cards.Diamonds),
		Card2: cards.NewCard(cards.Queen, cards.Hearts),
	}

	gs := &notation.GameState{
		Players: []notation.PlayerRange{
			{Position: notation.BTN, Stack: 100},
			{Position: notation.BB, Stack: 100},
		},
		Pot:   10,
		Board: makeRiverBoard(),
		ActionHistory: []notation.Action{
			{Type: notation.Bet, Amount: 5},
			{Type: notation.Fold},
		},
		ToAct: 0,
	}

	tr, err := builder.Build(gs, combo0, combo1)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	root := tr.At(tr.Root)
	if !root.IsTerminal {
		t.Error("expected terminal node after fold")
	}
	if root.Payoff[0] <= 0 {
		t.Errorf("expected BTN to win pot, got payoffs [%.1f, %.1f]", root.Payoff[0], root.Payoff[1])
	}
}

func TestIsShowdown(t *testing.T) {
	tests := []struct {
		name     string
		history  []notation.Action
		expected bool
	}{
		{"both checked", []notation.Action{{Type: notation.Check}, {Type: notation.Check}}, true},
		{"bet and call", []notation.Action{{Type: notation.Bet, Amount: 10}, {Type: notation.Call}}, true},
		{"just one check", []notation.Action{{Type: notation.Check}}, false},
		{"bet (not called yet)", []notation.Action{{Type: notation.Bet, Amount: 10}}, false},
		{"empty history", []notation.Action{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isShowdown(tt.history); got != tt.expected {
				t.Errorf("isShowdown() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCallAmount(t *testing.T) {
	tests := []struct {
		name    string
		history []notation.Action
		stack   float64
		want    float64
	}{
		{"empty history", []notation.Action{}, 100, 0},
		{"after bet", []notation.Action{{Type: notation.Bet, Amount: 10}}, 100, 10},
		{"after bet and check", []notation.Action{{Type: notation.Bet, Amount: 15}, {Type: notation.Check}}, 100, 15},
		{"capped by stack", []notation.Action{{Type: notation.Bet, Amount: 50}}, 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := callAmount(tt.history, tt.stack); got != tt.want {
				t.Errorf("callAmount() = %.1f, want %.1f", got, tt.want)
			}
		})
	}
}

func TestBuilderTreeStructure(t *testing.T) {
	config := ActionConfig{
		BetSizes:   []float64{0.5},
		AllowCheck: true,
		AllowCall:  true,
		AllowFold:  true,
	}
	builder := NewBuilder(config)

	gs := &notation.GameState{
		Players: []notation.PlayerRange{
			{Position: notation.BTN, Stack: 100},
			{Position: notation.BB, Stack: 100},
		},
		Pot:           10,
		Board:         makeRiverBoard(),
		ActionHistory: nil,
		ToAct:         0,
	}

	combo0 := notation.Combo{
		Card1: cards.NewCard(cards.Ace, cards.Diamonds),
		Card2: cards.NewCard(cards.Ace, cards.Clubs),
	}
	combo1 := notation.Combo{
		Card1: cards.NewCard(cards.Queen, cards.Diamonds),
		Card2: cards.NewCard(cards.Queen, cards.Hearts),
	}

	tr, err := builder.Build(gs, combo0, combo1)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	root := tr.At(tr.Root)
	var checkChildIdx = -1
	for _, ci := range root.Children {
		if tr.At(ci).Incoming.Type == notation.Check {
			checkChildIdx = ci
		}
	}
	if checkChildIdx < 0 {
		t.Fatal("root should have a check child")
	}

	checkChild := tr.At(checkChildIdx)
	if checkChild.IsTerminal {
		t.Error("check child should not be terminal (BB must act)")
	}
	if checkChild.Player != 1 {
		t.Errorf("check child should be for player 1, got %d", checkChild.Player)
	}
	if len(checkChild.Children) < 2 {
		t.Errorf("BB should have at least 2 actions, got %d", len(checkChild.Children))
	}

	for _, ci := range checkChild.Children {
		child := tr.At(ci)
		if child.Incoming.Type == notation.Check && !child.IsTerminal {
			t.Error("after both checks, should be terminal (showdown)")
		}
	}
}

func makeRiverBoard() []cards.Card {
	return []cards.Card{
		cards.NewCard(cards.King, cards.Hearts),
		cards.NewCard(cards.Nine, cards.Spades),
		cards.NewCard(cards.Four, cards.Clubs),
		cards.NewCard(cards.Seven, cards.Diamonds),
		cards.NewCard(cards.Two, cards.Spades),
	}
}
