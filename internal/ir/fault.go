package ir

import "github.com/modellang/smtts-compiler/internal/names"

// FaultClass taxonomy, borrowed from the fault-tolerant distributed
// systems literature. Ordinal order matters: it is the encoding used for
// the HybridFaults per-node classification input (SUPPLEMENTED FEATURES).
type FaultClass int

const (
	NonFaulty FaultClass = iota
	ManifestFaulty
	SymmetricFaulty
	ByzantineFaulty
)

func (c FaultClass) String() string {
	switch c {
	case NonFaulty:
		return "NonFaulty"
	case ManifestFaulty:
		return "ManifestFaulty"
	case SymmetricFaulty:
		return "SymmetricFaulty"
	case ByzantineFaulty:
		return "ByzantineFaulty"
	default:
		return "?"
	}
}

// FaultConfig is the sum type described in §3: NoFaults | HybridFaults |
// FixedFaults. The translator only ever needs to know which variant it
// has, so this is a closed interface rather than an exported tag.
type FaultConfig interface {
	isFaultConfig()
}

// NoFaults disables the fault model: assumptions = true, no extra inputs.
type NoFaults struct{}

func (NoFaults) isFaultConfig() {}

// HybridFaults introduces one classification input per node and bounds a
// weighted sum of fault-class counts by Threshold (SPEC_FULL's resolution
// of the open "how is the hybrid assumption quantified" question).
type HybridFaults struct {
	Weights   map[FaultClass]int
	Seed      int64
	Threshold int
}

func (HybridFaults) isFaultConfig() {}

// FixedFaults assigns a fixed fault class per node by qualified name;
// nodes absent from the map are NonFaulty.
type FixedFaults struct {
	Assignments map[names.Name]FaultClass
}

func (FixedFaults) isFaultConfig() {}
