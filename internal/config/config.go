// Package config implements the translator's configuration surface (§6):
// the debug flag and the fault-model selection, loaded from YAML the way
// the teacher's ext package loads funxy.yaml (internal/ext/config.go).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/modellang/smtts-compiler/internal/diagnostics"
	"github.com/modellang/smtts-compiler/internal/ir"
	"github.com/modellang/smtts-compiler/internal/names"
)

// Config is the top-level translator configuration.
type Config struct {
	// Debug controls whether the renderer emits comments. It does not
	// affect semantic output (§6).
	Debug bool `yaml:"debug"`

	// FaultModel selects and parameterizes the §4.8 fault configuration.
	FaultModel FaultModelConfig `yaml:"faultModel"`

	// Cache configures the translation cache (internal/cache), a
	// supplemental, non-semantic feature.
	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig controls the sqlite-backed translation cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// FaultModelConfig is the serializable surface for ir.FaultConfig's sum
// type: Kind selects the variant, the remaining fields are interpreted
// accordingly.
type FaultModelConfig struct {
	// Kind is one of "none", "hybrid", "fixed".
	Kind string `yaml:"kind"`

	// Weights, Seed and Threshold apply when Kind == "hybrid": a weight (by
	// fault class name), a seed passed through unchanged, and the global
	// threshold the weighted sum of fault-class counts must not exceed.
	Weights   map[string]int `yaml:"weights,omitempty"`
	Seed      int64          `yaml:"seed,omitempty"`
	Threshold int            `yaml:"threshold,omitempty"`

	// Assignments applies when Kind == "fixed": a fault class per
	// qualified node name. Nodes absent from the map default to
	// NonFaulty.
	Assignments map[string]string `yaml:"assignments,omitempty"`
}

var classByName = map[string]ir.FaultClass{
	"NonFaulty":       ir.NonFaulty,
	"ManifestFaulty":  ir.ManifestFaulty,
	"SymmetricFaulty": ir.SymmetricFaulty,
	"ByzantineFaulty": ir.ByzantineFaulty,
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses YAML configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Resolve converts the serializable FaultModelConfig into the core
// ir.FaultConfig sum type. Validation of "fixed" node names against the
// program's actual node set happens during translation
// (internal/translate.ApplyFaultConfig), since the node set isn't known
// until a program is in hand.
func (c *Config) Resolve() (ir.FaultConfig, error) {
	switch c.FaultModel.Kind {
	case "", "none":
		return ir.NoFaults{}, nil

	case "hybrid":
		weights := make(map[ir.FaultClass]int, len(c.FaultModel.Weights))
		for name, w := range c.FaultModel.Weights {
			class, ok := classByName[name]
			if !ok {
				return nil, diagnostics.New(diagnostics.ErrUnknownFixedFaultNode, name, "unknown fault class in hybrid weights")
			}
			weights[class] = w
		}
		return ir.HybridFaults{Weights: weights, Seed: c.FaultModel.Seed, Threshold: c.FaultModel.Threshold}, nil

	case "fixed":
		assignments := make(map[names.Name]ir.FaultClass, len(c.FaultModel.Assignments))
		for node, className := range c.FaultModel.Assignments {
			class, ok := classByName[className]
			if !ok {
				return nil, diagnostics.New(diagnostics.ErrUnknownFixedFaultNode, className, "unknown fault class for node %s", node)
			}
			assignments[names.Name(node)] = class
		}
		return ir.FixedFaults{Assignments: assignments}, nil

	default:
		return nil, diagnostics.New(diagnostics.ErrUnknownFixedFaultNode, c.FaultModel.Kind, "unknown fault model kind")
	}
}
