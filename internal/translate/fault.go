package translate

import (
	"sort"
	"strconv"

	"github.com/modellang/smtts-compiler/internal/diagnostics"
	"github.com/modellang/smtts-compiler/internal/ir"
	"github.com/modellang/smtts-compiler/internal/names"
	"github.com/modellang/smtts-compiler/internal/smtts"
)

// faultClassName derives the per-node Int classification input
// (SUPPLEMENTED FEATURES — §4.8/§9's open question resolved). It is
// distinct from the baseline per-rule Boolean fault-node input §4.4
// always emits: NoFaults never adds this variable at all.
func faultClassName(nodeName names.Name, ruleID int) names.Name {
	return names.Scope(names.Suffix(nodeName, "fault_class"), strconv.Itoa(ruleID))
}

// ApplyFaultConfig augments the state type with whatever extra input
// variables the fault configuration requires and builds the assumptions
// predicate referenced from downstream queries (C8). It never touches
// per-rule transition predicates (§4.8: "does not alter per-rule
// transition predicates").
func ApplyFaultConfig(p ir.Program, st smtts.StateType, cfg ir.FaultConfig) (smtts.StateType, smtts.Term, error) {
	switch c := cfg.(type) {
	case nil, ir.NoFaults:
		return st, smtts.BoolLit{Value: true}, nil

	case ir.HybridFaults:
		rules := SortedRules(p.Rules())
		for _, r := range rules {
			st.Vars = append(st.Vars, smtts.StateVar{Name: faultClassName(r.NodeName, r.ID), Type: smtts.TInt, Input: true})
		}
		var contributions []smtts.Term
		for _, r := range rules {
			v := smtts.Var{Name: names.StateRef(faultClassName(r.NodeName, r.ID))}
			contributions = append(contributions, weightedClassTerm(v, c.Weights))
		}
		total := smtts.Term(smtts.IntLit{Value: 0})
		if len(contributions) > 0 {
			total = smtts.App{Op: "+", Args: contributions}
		}
		assumptions := smtts.App{Op: "<=", Args: []smtts.Term{total, smtts.IntLit{Value: int64(c.Threshold)}}}
		return st, assumptions, nil

	case ir.FixedFaults:
		rules := SortedRules(p.Rules())
		var eqs []smtts.Term
		seen := make(map[names.Name]bool, len(c.Assignments))
		for _, r := range rules {
			st.Vars = append(st.Vars, smtts.StateVar{Name: faultClassName(r.NodeName, r.ID), Type: smtts.TInt, Input: true})
			class := ir.NonFaulty
			if assigned, ok := c.Assignments[r.NodeName]; ok {
				class = assigned
				seen[r.NodeName] = true
			}
			v := smtts.Var{Name: names.StateRef(faultClassName(r.NodeName, r.ID))}
			eqs = append(eqs, eq(v.Name, smtts.IntLit{Value: int64(class)}))
		}
		for name := range c.Assignments {
			if !seen[name] {
				return st, nil, diagnostics.New(diagnostics.ErrUnknownFixedFaultNode, name.String(), "FixedFaults assigns a node not owned by any rule")
			}
		}
		return st, smtts.And(eqs...), nil

	default:
		return st, smtts.BoolLit{Value: true}, nil
	}
}

// weightedClassTerm expands a node's weighted fault-class contribution as
// a nested ite chain, since SMT-TS has no "count" aggregate: NonFaulty
// always contributes 0 and need not be checked explicitly.
func weightedClassTerm(nodeClass smtts.Var, weights map[ir.FaultClass]int) smtts.Term {
	var term smtts.Term = smtts.IntLit{Value: 0}
	for _, class := range []ir.FaultClass{ir.ManifestFaulty, ir.SymmetricFaulty, ir.ByzantineFaulty} {
		w, ok := weights[class]
		if !ok || w == 0 {
			continue
		}
		term = smtts.App{Op: "ite", Args: []smtts.Term{
			eq(nodeClass.Name, smtts.IntLit{Value: int64(class)}),
			smtts.IntLit{Value: int64(w)},
			term,
		}}
	}
	return term
}

// SortedRules returns rules ordered by ascending id, the canonical order
// C4's fault-node inputs, the master transition's disjuncts and the
// per-rule transition list all share.
func SortedRules(rules []ir.Rule) []ir.Rule {
	out := append([]ir.Rule(nil), rules...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
