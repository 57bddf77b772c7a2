// Package translate implements C4 through C8: lowering an elaborated
// ir.Program into a smtts.Program. C1–C3 (name algebra, type/constant
// lowering, expression lowering) live in internal/names and
// internal/lower and are used here rather than reimplemented.
package translate

import (
	"sort"

	"github.com/modellang/smtts-compiler/internal/diagnostics"
	"github.com/modellang/smtts-compiler/internal/ir"
	"github.com/modellang/smtts-compiler/internal/lower"
	"github.com/modellang/smtts-compiler/internal/names"
	"github.com/modellang/smtts-compiler/internal/smtts"
)

// ChannelsByID indexes a channel list by id. It reports no error for a
// repeated id: the later descriptor replaces the earlier one.
func ChannelsByID(channels []ir.ChannelDescriptor) map[int]ir.ChannelDescriptor {
	m := make(map[int]ir.ChannelDescriptor, len(channels))
	for _, c := range channels {
		m[c.ID] = c
	}
	return m
}

// ValidateHierarchy checks the §3 sibling-uniqueness invariant, returning
// an InvariantViolation naming the first duplicate found.
func ValidateHierarchy(root ir.StateNode) error {
	var walk func(n ir.StateNode) error
	walk = func(n ir.StateNode) error {
		g, ok := n.(*ir.Group)
		if !ok {
			return nil
		}
		seen := make(map[string]bool, len(g.Children))
		for _, c := range g.Children {
			if seen[c.Segment()] {
				return diagnostics.New(diagnostics.ErrDuplicateSiblingName, c.Segment(), "duplicate sibling name under group %q", g.Seg)
			}
			seen[c.Segment()] = true
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root)
}

// BuildStateType synthesizes the state type (C4): hierarchy-derived state
// variables in pre-order, then fault-channel inputs in channel-id order,
// then fault-node inputs in rule-id order (§4.4).
func BuildStateType(p ir.Program) (smtts.StateType, error) {
	if err := ValidateHierarchy(p.Hierarchy()); err != nil {
		return smtts.StateType{}, err
	}

	var vars []smtts.StateVar
	ir.Walk(p.Hierarchy(), p.System(), func(qn names.Name, n ir.StateNode) {
		switch v := n.(type) {
		case *ir.Var:
			vars = append(vars, smtts.StateVar{Name: qn, Type: lower.Type(v.Init.Type)})
		case *ir.Chan:
			vars = append(vars,
				smtts.StateVar{Name: names.ChanValueName(qn), Type: lower.Type(v.ElemType)},
				smtts.StateVar{Name: names.ChanReadyName(qn), Type: smtts.TBool},
			)
		}
	})

	channels := append([]ir.ChannelDescriptor(nil), p.Channels()...)
	sort.Slice(channels, func(i, j int) bool { return channels[i].ID < channels[j].ID })
	for _, c := range channels {
		vars = append(vars, smtts.StateVar{
			Name:  names.FaultChanValueName(c.Name, c.ID),
			Type:  smtts.TBool,
			Input: true,
		})
	}

	rules := append([]ir.Rule(nil), p.Rules()...)
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	for _, r := range rules {
		vars = append(vars, smtts.StateVar{
			Name:  names.FaultNodeName(r.NodeName, r.ID),
			Type:  smtts.TBool,
			Input: true,
		})
	}

	return smtts.StateType{Name: names.StateTypeName(p.System()), Vars: vars}, nil
}
