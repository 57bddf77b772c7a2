package ir

import (
	"sort"

	"github.com/modellang/smtts-compiler/internal/names"
)

// Hash identifies a node in the content-addressed expression map.
type Hash uint32

// NodeKind tags the variant of an untyped expression node.
type NodeKind int

const (
	StateVarRef NodeKind = iota
	ChanValueRef
	ChanReadyRef
	Literal

	// Supported operators (§4.3).
	Not
	And
	Add
	Sub
	Mul
	Eq
	Lt
	Ite

	// Unsupported operators — present as variants so an elaborator can
	// still produce them; expression lowering rejects them (§7).
	Div
	Mod
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	IntToReal
	RealToInt
	MathFn
	ArrayIndex
	ExternalVar
)

// unsupportedFeature names the feature for the UnsupportedFeature diagnostic.
var unsupportedFeature = map[NodeKind]string{
	Div:         "division",
	Mod:         "modulus",
	BitAnd:      "bitwise and",
	BitOr:       "bitwise or",
	BitXor:      "bitwise xor",
	Shl:         "bitwise shift-left",
	Shr:         "bitwise shift-right",
	IntToReal:   "cast from integer to real",
	RealToInt:   "cast from real to integer",
	MathFn:      "math-library function",
	ArrayIndex:  "array indexing",
	ExternalVar: "external variable",
}

// UnsupportedFeatureName returns the human-readable feature name for a
// node kind, and whether that kind is in fact unsupported.
func UnsupportedFeatureName(k NodeKind) (string, bool) {
	name, ok := unsupportedFeature[k]
	return name, ok
}

// Node is an untyped expression DAG node. Operands are hashes into the
// owning UeMap; the interpretation of Args depends on Kind:
//   - StateVarRef: VarName holds the qualified state-variable name.
//   - ChanValueRef / ChanReadyRef: ChanID holds the channel id.
//   - Literal: Lit holds the constant.
//   - Not: Args[0]. And: Args (n-ary, left to right). Add/Sub/Mul/Eq/Lt: Args[0], Args[1].
//   - Ite: Args[0] cond, Args[1] then, Args[2] else.
//   - MathFn: FnName names the function, for diagnostics.
type Node struct {
	Kind    NodeKind
	VarName names.Name
	ChanID  int
	Lit     Const
	Args    []Hash
	FnName  string
}

// UeMap is the content-addressed expression DAG: a map from Hash to Node.
// It is acyclic by elaborator invariant.
type UeMap struct {
	nodes map[Hash]Node
}

func NewUeMap() *UeMap {
	return &UeMap{nodes: make(map[Hash]Node)}
}

// Insert records a node under hash h. Used by elaborator adapters and
// tests that build a UeMap directly.
func (m *UeMap) Insert(h Hash, n Node) {
	m.nodes[h] = n
}

// Lookup returns the node stored at h.
func (m *UeMap) Lookup(h Hash) (Node, bool) {
	n, ok := m.nodes[h]
	return n, ok
}

// Upstream returns the operand hashes of the node at h (empty for leaves).
// Returns false if h is not present in the map.
func (m *UeMap) Upstream(h Hash) ([]Hash, bool) {
	n, ok := m.nodes[h]
	if !ok {
		return nil, false
	}
	return n.Args, true
}

// Closure computes the set of hashes reachable from roots, roots included.
// Returns an error naming the first hash found referenced but absent from
// the map (an InvariantViolation per §7).
func (m *UeMap) Closure(roots []Hash) ([]Hash, error) {
	seen := make(map[Hash]bool, len(roots)*2)
	var out []Hash
	var visit func(h Hash) error
	visit = func(h Hash) error {
		if seen[h] {
			return nil
		}
		n, ok := m.nodes[h]
		if !ok {
			return &MissingHashError{Hash: h}
		}
		seen[h] = true
		out = append(out, h)
		for _, a := range n.Args {
			if err := visit(a); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range roots {
		if err := visit(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// MissingHashError reports a hash referenced as an operand but absent from
// the UeMap — an elaborator invariant violation.
type MissingHashError struct{ Hash Hash }

func (e *MissingHashError) Error() string {
	return "expression hash not present in map"
}

// CycleError reports that the induced subgraph over a hash set is not a
// DAG — the expression map is required to be acyclic by elaborator
// invariant, so this should never occur against well-formed input.
type CycleError struct{ Remaining []Hash }

func (e *CycleError) Error() string {
	return "expression graph contains a cycle"
}

// TopologicalSort orders hashes so that every operand precedes its users,
// using Kahn's algorithm with a stable ascending-hash tie-break so output
// order is deterministic across runs (required by §6's emission
// invariants and property P3).
func (m *UeMap) TopologicalSort(hashes []Hash) ([]Hash, error) {
	set := make(map[Hash]bool, len(hashes))
	for _, h := range hashes {
		set[h] = true
	}

	indegree := make(map[Hash]int, len(hashes))
	dependents := make(map[Hash][]Hash, len(hashes))
	for _, h := range hashes {
		indegree[h] = 0
	}
	for _, h := range hashes {
		n, ok := m.nodes[h]
		if !ok {
			return nil, &MissingHashError{Hash: h}
		}
		for _, a := range n.Args {
			if !set[a] {
				// Operand outside the requested set: treat it as already
				// satisfied (it belongs to a different rule's closure), as
				// long as it is present in the map at all.
				if _, ok := m.nodes[a]; !ok {
					return nil, &MissingHashError{Hash: a}
				}
				continue
			}
			indegree[h]++
			dependents[a] = append(dependents[a], h)
		}
	}

	ready := make([]Hash, 0, len(hashes))
	for _, h := range hashes {
		if indegree[h] == 0 {
			ready = append(ready, h)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })

	out := make([]Hash, 0, len(hashes))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		h := ready[0]
		ready = ready[1:]
		out = append(out, h)
		for _, d := range dependents[h] {
			indegree[d]--
			if indegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}

	if len(out) != len(hashes) {
		var remaining []Hash
		for _, h := range hashes {
			if indegree[h] > 0 {
				remaining = append(remaining, h)
			}
		}
		return nil, &CycleError{Remaining: remaining}
	}
	return out, nil
}
