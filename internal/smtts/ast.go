// Package smtts is the output-side AST: the SMT-TS transition-system
// record the translator produces (§3, §6). It has no dependency on ir —
// translation is a one-way lowering, and the translator never mutates its
// input (§3 "Ownership & lifecycle").
package smtts

import "github.com/modellang/smtts-compiler/internal/names"

// Type is an SMT-TS base type.
type Type int

const (
	TBool Type = iota
	TInt
	TReal
)

func (t Type) String() string {
	switch t {
	case TBool:
		return "Bool"
	case TInt:
		return "Int"
	case TReal:
		return "Real"
	default:
		return "?"
	}
}

// Term is the emitted expression language: variable references, literals,
// and n-ary applications of an operator. Shared-subexpression bindings are
// not Terms; a transition carries them separately as LetBinding values.
type Term interface{ isTerm() }

type Var struct{ Name string }

func (Var) isTerm() {}

type BoolLit struct{ Value bool }
type IntLit struct{ Value int64 }
type RealLit struct{ Value float64 }

func (BoolLit) isTerm() {}
func (IntLit) isTerm()  {}
func (RealLit) isTerm() {}

// App applies an n-ary operator ("not", "and", "+", "-", "*", "=", "<",
// "<=", "ite", "or") to its arguments.
type App struct {
	Op   string
	Args []Term
}

func (App) isTerm() {}

// And is sugar that flattens nested conjunctions at construction time
// (§4.5, §4.6: "apply and-simplification ... collapse nested ands").
func And(terms ...Term) Term {
	var flat []Term
	for _, t := range terms {
		switch v := t.(type) {
		case BoolLit:
			if !v.Value {
				return BoolLit{false}
			}
			// drop literal true
		case App:
			if v.Op == "and" {
				flat = append(flat, v.Args...)
				continue
			}
			flat = append(flat, t)
		default:
			flat = append(flat, t)
		}
	}
	if len(flat) == 0 {
		return BoolLit{true}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return App{Op: "and", Args: flat}
}

// Or is sugar that flattens nested disjunctions (§4.7).
func Or(terms ...Term) Term {
	var flat []Term
	for _, t := range terms {
		if v, ok := t.(App); ok && v.Op == "or" {
			flat = append(flat, v.Args...)
			continue
		}
		flat = append(flat, t)
	}
	if len(flat) == 0 {
		return BoolLit{false}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return App{Op: "or", Args: flat}
}

// LetBinding is one (var, expression) pair inside a transition's let form.
type LetBinding struct {
	Var  string
	Expr Term
}

// StateVar is one declared field of the state type: a state variable, a
// channel field, or a fault input. Input marks non-latched variables
// (§4.4: fault-channel and fault-node inputs).
type StateVar struct {
	Name  names.Name
	Type  Type
	Input bool
}

// StateType is the declared set of state and input variables for one
// system, in the deterministic order C4 specifies.
type StateType struct {
	Name names.Name
	Vars []StateVar
}

// InitialState is the initial-state predicate, keyed to its state type.
type InitialState struct {
	Name          names.Name
	StateTypeName names.Name
	Pred          Term
}

// Transition is one per-rule transition or the master transition. The
// master transition has no let-bindings (§4.7).
type Transition struct {
	Name          names.Name
	StateTypeName names.Name
	Lets          []LetBinding
	Pred          Term
}

// System packages the three top-level declaration names a downstream
// checker needs to run the system.
type System struct {
	Name              names.Name
	StateTypeName     names.Name
	InitialStateName  names.Name
	MasterTransition  names.Name
}

// Program is the complete emitted artifact (§3's SMT-TS AST record).
type Program struct {
	StateType    StateType
	Init         InitialState
	Transitions  []Transition // per-rule transitions, then the master last
	System       System
	Assumptions  Term // from the fault configuration (§4.8)
}
