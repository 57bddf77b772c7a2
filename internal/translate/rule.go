package translate

import (
	"fmt"

	"github.com/modellang/smtts-compiler/internal/diagnostics"
	"github.com/modellang/smtts-compiler/internal/ir"
	"github.com/modellang/smtts-compiler/internal/lower"
	"github.com/modellang/smtts-compiler/internal/names"
	"github.com/modellang/smtts-compiler/internal/smtts"
)

// stateVarIndex is the set of declared state-type variables, shared by the
// assignment-target check and the frame condition (§9 design note:
// "implement once and share").
type stateVarIndex map[names.Name]bool

func indexStateVars(st smtts.StateType) stateVarIndex {
	idx := make(stateVarIndex, len(st.Vars))
	for _, v := range st.Vars {
		idx[v.Name] = true
	}
	return idx
}

// assignment pairs a target state variable with the term its next value
// is bound to — either a reference to a lowered expression's let-variable
// (ordinary assignments and channel value writes) or a literal (the
// ready=true a channel write also contributes).
type assignment struct {
	target names.Name
	value  smtts.Term
}

// BuildRuleTransition lowers one rule into its transition (C6): it
// collects shared subexpressions via lower.Expression, emits an equality
// per assigned next-state variable, emits a frame-condition equality for
// every other declared variable (§4.6 step 4 — the soundness-critical
// part), and conjoins the guard.
func BuildRuleTransition(p ir.Program, r ir.Rule, st smtts.StateType, chans map[int]ir.ChannelDescriptor) (smtts.Transition, error) {
	lets, tempVar, err := lower.Expression(p.Expressions(), r.Used, chans)
	if err != nil {
		return smtts.Transition{}, err
	}

	ref := func(h ir.Hash) (smtts.Term, error) {
		v, ok := tempVar[h]
		if !ok {
			return nil, diagnostics.New(diagnostics.ErrMissingHash, fmt.Sprintf("rule %d", r.ID), "value hash %d not in rule's used-expression closure", uint32(h))
		}
		return smtts.Var{Name: v}, nil
	}

	varIdx := indexStateVars(st)
	assigned := make(map[names.Name]bool)
	var assigns []assignment

	addAssign := func(target names.Name, value smtts.Term) error {
		if !varIdx[target] {
			return diagnostics.New(diagnostics.ErrBadAssignmentTarget, target.String(), "rule %d assigns a variable not present in the state type", r.ID)
		}
		if assigned[target] {
			return diagnostics.New(diagnostics.ErrBadAssignmentTarget, target.String(), "rule %d assigns %s more than once", r.ID, target)
		}
		assigned[target] = true
		assigns = append(assigns, assignment{target: target, value: value})
		return nil
	}

	for _, a := range r.Assigns {
		term, err := ref(a.Value)
		if err != nil {
			return smtts.Transition{}, err
		}
		if err := addAssign(a.Target, term); err != nil {
			return smtts.Transition{}, err
		}
	}

	for _, w := range r.Writes {
		ch, ok := chans[w.ChannelID]
		if !ok {
			return smtts.Transition{}, diagnostics.New(diagnostics.ErrUnknownChannel, fmt.Sprintf("channel id %d", w.ChannelID), "rule %d writes an unknown channel", r.ID)
		}
		valTerm, err := ref(w.Value)
		if err != nil {
			return smtts.Transition{}, err
		}
		if err := addAssign(names.ChanValueName(ch.Name), valTerm); err != nil {
			return smtts.Transition{}, err
		}
		if err := addAssign(names.ChanReadyName(ch.Name), smtts.BoolLit{Value: true}); err != nil {
			return smtts.Transition{}, err
		}
	}

	conjuncts := make([]smtts.Term, 0, len(assigns)+len(st.Vars)+1)

	if r.HasGuard {
		guard, err := ref(r.Guard)
		if err != nil {
			return smtts.Transition{}, err
		}
		conjuncts = append(conjuncts, guard)
	}

	for _, a := range assigns {
		conjuncts = append(conjuncts, eq(names.NextRef(a.target), a.value))
	}

	// Frame condition: every declared variable not assigned by this rule
	// keeps its value. This must cover state vars, channel fields and
	// fault input variables alike — the checker rejects a system whose
	// frame condition is incomplete (§6 invariants).
	for _, v := range st.Vars {
		if assigned[v.Name] {
			continue
		}
		conjuncts = append(conjuncts, eq(names.NextRef(v.Name), smtts.Var{Name: names.StateRef(v.Name)}))
	}

	return smtts.Transition{
		Name:          names.RuleTransitionName(p.System(), r.ID),
		StateTypeName: st.Name,
		Lets:          lets,
		Pred:          smtts.And(conjuncts...),
	}, nil
}
