package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/behrlich/holdem-abstractor/pkg/abstraction"
	"github.com/behrlich/holdem-abstractor/pkg/cards"
	"github.com/behrlich/holdem-abstractor/pkg/config"
	"github.com/behrlich/holdem-abstractor/pkg/deal"
	"github.com/behrlich/holdem-abstractor/pkg/mccfr"
	"github.com/behrlich/holdem-abstractor/pkg/notation"
	"github.com/behrlich/holdem-abstractor/pkg/tree"
)

var cli struct {
	Debug  bool   `help:"enable debug logging"`
	Config string `help:"path to an HCL config file" default:"abstractor.hcl"`

	Abstract AbstractCmd `cmd:"" help:"run the river->turn->flop->preflop clustering pipeline"`
	Train    TrainCmd    `cmd:"" help:"build a river subgame tree and train an MCCFR blueprint against it"`
	Inspect  InspectCmd  `cmd:"" help:"print a street's lookup/metric artifact summary"`
}

type AbstractCmd struct {
	Dir string `help:"directory to read/write clustering artifacts" required:""`
}

type TrainCmd struct {
	Dir    string  `help:"directory to read the river lookup from and write the blueprint to" required:""`
	Pot    float64 `help:"starting pot, in big blinds" default:"10"`
	Stack  float64 `help:"each player's starting stack, in big blinds" default:"100"`
}

type InspectCmd struct {
	Dir    string `help:"directory holding the artifact" required:""`
	Street string `help:"preflop|flop|turn|river" required:""`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("abstractor"),
		kong.Description("hierarchical EMD abstraction clustering and MCCFR blueprint training"),
		kong.UsageOnError(),
	)

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	var err error
	switch ctx.Command() {
	case "abstract":
		err = cli.Abstract.Run(logger)
	case "train":
		err = cli.Train.Run(logger)
	case "inspect":
		err = cli.Inspect.Run(logger)
	default:
		err = fmt.Errorf("unknown command: %s", ctx.Command())
	}
	if err != nil {
		logger.Fatal(err.Error())
	}
}

func (c *AbstractCmd) Run(logger *log.Logger) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("abstract: loading config: %w", err)
	}

	pipelineCfg := abstraction.PipelineConfig{
		Pref:   cfg.LayerConfig("preflop"),
		Flop:   cfg.LayerConfig("flop"),
		Turn:   cfg.LayerConfig("turn"),
		River:  cfg.LayerConfig("river"),
		Logger: logger,
	}
	enumerator := deal.CanonicalEnumerator{}
	return abstraction.Run(c.Dir, enumerator, pipelineCfg)
}

func (c *TrainCmd) Run(logger *log.Logger) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("train: loading config: %w", err)
	}
	if !abstraction.LookupDone(c.Dir, notation.River) {
		return fmt.Errorf("train: no river lookup in %s; run `abstract` first", c.Dir)
	}
	lookup, err := abstraction.LoadLookup(c.Dir, notation.River)
	if err != nil {
		return fmt.Errorf("train: loading river lookup: %w", err)
	}

	gs := &notation.GameState{
		Players: []notation.PlayerRange{
			{Position: notation.BTN, Stack: c.Stack},
			{Position: notation.BB, Stack: c.Stack},
		},
		Pot:    c.Pot,
		Board:  sampleRiverBoard(),
		Street: notation.River,
	}
	combo0, combo1 := sampleMatchup(gs.Board)

	builder := tree.NewBuilder(tree.DefaultRiverConfig()).WithLookup(lookup)
	t, err := builder.Build(gs, combo0, combo1)
	if err != nil {
		return fmt.Errorf("train: building tree: %w", err)
	}

	profile := mccfr.NewProfile()
	logger.Info("training", "epochs", cfg.Training.Epochs, "nodes", len(t.Nodes))
	mccfr.Train(t, profile, cfg.Training.Epochs)

	if err := profile.Save(c.Dir); err != nil {
		return fmt.Errorf("train: saving blueprint: %w", err)
	}
	logger.Info("blueprint saved", "dir", c.Dir)
	return nil
}

func (c *InspectCmd) Run(logger *log.Logger) error {
	street, err := parseStreet(c.Street)
	if err != nil {
		return err
	}
	if !abstraction.LookupDone(c.Dir, street) {
		return fmt.Errorf("inspect: no lookup artifact for %s in %s", street, c.Dir)
	}
	lookup, err := abstraction.LoadLookup(c.Dir, street)
	if err != nil {
		return err
	}
	logger.Info("lookup", "street", street.String(), "observations", lookup.Len())

	if abstraction.MetricDone(c.Dir, street) {
		metric, err := abstraction.LoadMetric(c.Dir, street)
		if err != nil {
			return err
		}
		logger.Info("metric", "street", street.String(), "pairs", metric.Len())
	}
	return nil
}

// sampleRiverBoard and sampleMatchup stand in for a hand dealt by a
// real game loop: `train` demonstrates wiring a built tree to a fresh
// Profile, not hand selection, which is out of this module's scope
// (spec.md non-goals).
func sampleRiverBoard() []cards.Card {
	return []cards.Card{
		cards.NewCard(cards.King, cards.Hearts),
		cards.NewCard(cards.Nine, cards.Spades),
		cards.NewCard(cards.Four, cards.Clubs),
		cards.NewCard(cards.Seven, cards.Diamonds),
		cards.NewCard(cards.Two, cards.Spades),
	}
}

func sampleMatchup(board []cards.Card) (notation.Combo, notation.Combo) {
	combo0 := notation.Combo{
		Card1: cards.NewCard(cards.Ace, cards.Diamonds),
		Card2: cards.NewCard(cards.Ace, cards.Clubs),
	}
	combo1 := notation.Combo{
		Card1: cards.NewCard(cards.Queen, cards.Diamonds),
		Card2: cards.NewCard(cards.Queen, cards.Hearts),
	}
	return combo0, combo1
}

func parseStreet(s string) (notation.Street, error) {
	switch s {
	case "preflop":
		return notation.Preflop, nil
	case "flop":
		return notation.Flop, nil
	case "turn":
		return notation.Turn, nil
	case "river":
		return notation.River, nil
	default:
		return 0, fmt.Errorf("unknown street %q", s)
	}
}
