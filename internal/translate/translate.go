package translate

import (
	"github.com/modellang/smtts-compiler/internal/ir"
	"github.com/modellang/smtts-compiler/internal/smtts"
)

// Translate lowers an elaborated ir.Program into a smtts.Program (the
// full C4–C8 pipeline), under the given fault configuration. It is a pure
// function: the translator never mutates p (§3 "Ownership & lifecycle").
//
// Failure is fail-fast (§7): the first diagnostic encountered aborts
// translation and no partial smtts.Program is returned.
func Translate(p ir.Program, cfg ir.FaultConfig) (*smtts.Program, error) {
	st, err := BuildStateType(p)
	if err != nil {
		return nil, err
	}

	st, assumptions, err := ApplyFaultConfig(p, st, cfg)
	if err != nil {
		return nil, err
	}

	chans := ChannelsByID(p.Channels())
	rules := SortedRules(p.Rules())

	transitions := make([]smtts.Transition, 0, len(rules)+1)
	for _, r := range rules {
		tr, err := BuildRuleTransition(p, r, st, chans)
		if err != nil {
			return nil, err
		}
		transitions = append(transitions, tr)
	}

	master := BuildMasterTransition(p, rules, st.Name)
	transitions = append(transitions, master)

	init := BuildInitialState(p)
	system := BuildSystem(p, st.Name, init.Name, master.Name)

	return &smtts.Program{
		StateType:   st,
		Init:        init,
		Transitions: transitions,
		System:      system,
		Assumptions: assumptions,
	}, nil
}
