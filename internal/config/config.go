// Package config holds the settings of the computor CLI: display toggles,
// the variable letter and graph output, loaded from an optional YAML file and
// overridden by flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	computor "github.com/njchilds90/computor"
	"github.com/njchilds90/computor/graph"
)

type Config struct {
	Variable string `yaml:"variable"`
	Fraction bool   `yaml:"fraction"`
	Decimal  bool   `yaml:"decimal"`
	Verbose  bool   `yaml:"verbose"`
	Color    bool   `yaml:"color"`
	Graph    Graph  `yaml:"graph"`
}

// Graph configures the optional curve output. Width and Height are inches.
type Graph struct {
	Enabled bool    `yaml:"enabled"`
	Out     string  `yaml:"out"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Step    float64 `yaml:"step"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
}

func Default() Config {
	d := graph.DefaultDomain()
	return Config{
		Variable: string(computor.DefaultVariable),
		Color:    true,
		Graph: Graph{
			Out:    "graph.png",
			Min:    d.Min,
			Max:    d.Max,
			Step:   d.Step,
			Width:  8,
			Height: 5,
		},
	}
}

// Load reads a YAML file on top of Default. Keys missing from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if utf8.RuneCountInString(c.Variable) != 1 {
		return fmt.Errorf("%w, got %q", computor.ErrInvalidVariable, c.Variable)
	}
	if err := computor.ValidVariable(c.VariableRune()); err != nil {
		return err
	}
	if err := c.Domain().Validate(); err != nil {
		return err
	}
	if c.Graph.Width <= 0 || c.Graph.Height <= 0 {
		return errors.New("graph width and height must be positive")
	}
	return nil
}

func (c Config) VariableRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Variable)
	return r
}

// NumberFormat shows decimals unless only fractions were asked for.
func (c Config) NumberFormat() computor.NumberFormat {
	return computor.NumberFormat{Fraction: c.Fraction, Decimal: c.Decimal || !c.Fraction}
}

func (c Config) Domain() graph.Domain {
	return graph.Domain{Min: c.Graph.Min, Max: c.Graph.Max, Step: c.Graph.Step}
}
