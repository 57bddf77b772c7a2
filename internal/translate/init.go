package translate

import (
	"github.com/modellang/smtts-compiler/internal/ir"
	"github.com/modellang/smtts-compiler/internal/lower"
	"github.com/modellang/smtts-compiler/internal/names"
	"github.com/modellang/smtts-compiler/internal/smtts"
)

// BuildInitialState synthesizes the initial-state predicate (C5): an
// equality per state-variable leaf to its declared initial literal, and a
// var=default(type) ∧ ready=false pair per channel leaf. It walks the
// hierarchy with the same ir.Walk traversal BuildStateType uses, so the
// two enumerate state variables in the same order (P6) by construction.
func BuildInitialState(p ir.Program) smtts.InitialState {
	var conjuncts []smtts.Term

	ir.Walk(p.Hierarchy(), p.System(), func(qn names.Name, n ir.StateNode) {
		switch v := n.(type) {
		case *ir.Var:
			conjuncts = append(conjuncts, eq(names.StateRef(qn), lower.Const(v.Init)))
		case *ir.Chan:
			valName := names.ChanValueName(qn)
			readyName := names.ChanReadyName(qn)
			def := lower.Default(lower.Type(v.ElemType))
			conjuncts = append(conjuncts,
				eq(names.StateRef(valName), def),
				eq(names.StateRef(readyName), smtts.BoolLit{Value: false}),
			)
		}
	})

	return smtts.InitialState{
		Name:          names.InitialStateName(p.System()),
		StateTypeName: names.StateTypeName(p.System()),
		Pred:          smtts.And(conjuncts...),
	}
}

func eq(ref string, rhs smtts.Term) smtts.Term {
	return smtts.App{Op: "=", Args: []smtts.Term{smtts.Var{Name: ref}, rhs}}
}
