package translate

import (
	"github.com/modellang/smtts-compiler/internal/ir"
	"github.com/modellang/smtts-compiler/internal/names"
	"github.com/modellang/smtts-compiler/internal/smtts"
)

// BuildMasterTransition disjoins references to every per-rule transition
// (C7); an empty rule set yields false (the system then has no
// transitions, per §4.7).
func BuildMasterTransition(p ir.Program, rules []ir.Rule, stateTypeName names.Name) smtts.Transition {
	disjuncts := make([]smtts.Term, 0, len(rules))
	for _, r := range rules {
		disjuncts = append(disjuncts, smtts.Var{Name: names.RuleTransitionName(p.System(), r.ID).String()})
	}
	return smtts.Transition{
		Name:          names.MasterTransitionName(p.System()),
		StateTypeName: stateTypeName,
		Pred:          smtts.Or(disjuncts...),
	}
}

// BuildSystem packages the system record (C7).
func BuildSystem(p ir.Program, stateTypeName, initName, masterName names.Name) smtts.System {
	return smtts.System{
		Name:             p.System(),
		StateTypeName:    stateTypeName,
		InitialStateName: initName,
		MasterTransition: masterName,
	}
}
