package abstraction

import (
	"fmt"

	"github.com/behrlich/holdem-abstractor/pkg/deal"
	"github.com/behrlich/holdem-abstractor/pkg/notation"
)

// Logger is the subset of charmbracelet/log.Logger's API the pipeline
// needs, kept narrow so tests can pass a stub.
type Logger interface {
	Info(msg any, keyvals ...any)
}

// PipelineConfig supplies each street's LayerConfig (spec.md §4.E).
type PipelineConfig struct {
	River  LayerConfig
	Turn   LayerConfig
	Flop   LayerConfig
	Pref   LayerConfig
	Logger Logger
}

func (c PipelineConfig) forStreet(s notation.Street) LayerConfig {
	switch s {
	case notation.River:
		return c.River
	case notation.Turn:
		return c.Turn
	case notation.Flop:
		return c.Flop
	default:
		return c.Pref
	}
}

// Run drives river -> turn -> flop -> preflop, skipping any street
// whose three artifacts already exist on disk (spec.md §4.E: "no
// cross-stage state beyond disk artifacts").
func Run(dir string, enumerator deal.Enumerator, config PipelineConfig) error {
	for _, street := range notation.Streets() {
		if Done(dir, street) {
			if config.Logger != nil {
				config.Logger.Info("skipping street: already done", "street", street.String())
			}
			continue
		}
		if config.Logger != nil {
			config.Logger.Info("making street", "street", street.String())
		}
		l, err := Make(dir, street, enumerator, config.forStreet(street))
		if err != nil {
			return fmt.Errorf("abstraction: making %s: %w", street, err)
		}
		if err := l.Save(dir); err != nil {
			return fmt.Errorf("abstraction: saving %s: %w", street, err)
		}
	}
	return nil
}
