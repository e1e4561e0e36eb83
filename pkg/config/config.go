// Package config parses the per-street clustering and MCCFR training
// hyperparameters from an HCL file (spec.md §4.E/§4.F), the way
// lox-pokerforbots' server config parses its table/bot blocks:
// hclparse + gohcl.DecodeBody against a struct tagged with `hcl`.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/behrlich/holdem-abstractor/pkg/abstraction"
)

// StreetBlock is one street's clustering hyperparameters.
type StreetBlock struct {
	Name              string  `hcl:"name,label"`
	K                 int     `hcl:"k,optional"`
	T                 int     `hcl:"t,optional"`
	Seed              int64   `hcl:"seed,optional"`
	EquityBuckets     int     `hcl:"equity_buckets,optional"`
	SinkhornLambda    float64 `hcl:"sinkhorn_lambda,optional"`
	SinkhornMaxIter   int     `hcl:"sinkhorn_max_iter,optional"`
	SinkhornEpsilon   float64 `hcl:"sinkhorn_epsilon,optional"`
}

// TrainingBlock is the MCCFR training run's hyperparameters.
type TrainingBlock struct {
	Epochs int   `hcl:"epochs,optional"`
	Seed   int64 `hcl:"seed,optional"`
}

// Config is the top-level parsed document: a `street "pref" { ... }`
// block per street, plus one `training { ... }` block.
type Config struct {
	Streets  []StreetBlock  `hcl:"street,block"`
	Training *TrainingBlock `hcl:"training,block"`
}

// DefaultConfig mirrors the spec's own defaults (T=100, equity_buckets=50,
// Sinkhorn lambda=0.1/max_iter=100/epsilon=1e-4, flop/turn K=200) so a
// missing config file still drives a complete run.
func DefaultConfig() *Config {
	cfg := &Config{
		Streets: []StreetBlock{
			{Name: "preflop"},
			{Name: "flop", K: 200},
			{Name: "turn", K: 200},
			{Name: "river"},
		},
		Training: &TrainingBlock{Epochs: 1000},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads an HCL config file, falling back to DefaultConfig when
// path doesn't exist (the same not-found-is-default behavior
// LoadServerConfig uses).
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parsing %s: %s", path, diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("config: decoding %s: %s", path, diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Training == nil {
		c.Training = &TrainingBlock{Epochs: 1000}
	}
	if c.Training.Epochs == 0 {
		c.Training.Epochs = 1000
	}
	for i := range c.Streets {
		s := &c.Streets[i]
		if s.T == 0 {
			s.T = 100
		}
		if s.EquityBuckets == 0 {
			s.EquityBuckets = 50
		}
		if s.SinkhornMaxIter == 0 {
			s.SinkhornMaxIter = 100
		}
		if s.SinkhornEpsilon == 0 {
			s.SinkhornEpsilon = 1e-4
		}
		if s.SinkhornLambda == 0 {
			s.SinkhornLambda = 0.1
		}
	}
}

// LayerConfig converts the named street's block into the abstraction
// package's LayerConfig, the shape Pipeline actually consumes.
func (c *Config) LayerConfig(name string) abstraction.LayerConfig {
	for _, s := range c.Streets {
		if s.Name != name {
			continue
		}
		return abstraction.LayerConfig{
			K:             s.K,
			T:             s.T,
			Seed:          s.Seed,
			EquityBuckets: s.EquityBuckets,
			Sinkhorn: abstraction.SinkhornParams{
				Lambda:  s.SinkhornLambda,
				MaxIter: s.SinkhornMaxIter,
				Epsilon: s.SinkhornEpsilon,
			},
		}
	}
	return abstraction.LayerConfig{}
}
