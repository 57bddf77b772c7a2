package lower

import (
	"fmt"

	"github.com/modellang/smtts-compiler/internal/diagnostics"
	"github.com/modellang/smtts-compiler/internal/ir"
	"github.com/modellang/smtts-compiler/internal/names"
	"github.com/modellang/smtts-compiler/internal/smtts"
)

// TempVar names the let-variable a lowered expression node is bound to.
func TempVar(h ir.Hash) string {
	return fmt.Sprintf("temp!%d", uint32(h))
}

var opSymbol = map[ir.NodeKind]string{
	ir.Not: "not",
	ir.And: "and",
	ir.Add: "+",
	ir.Sub: "-",
	ir.Mul: "*",
	ir.Eq:  "=",
	ir.Lt:  "<",
	ir.Ite: "ite",
}

// Expression lowers a rule's used-hash set, together with every hash
// reachable from it, into an ordered sequence of let-bindings (C3):
// operands precede their users (stable tie-break on ascending hash, via
// UeMap.TopologicalSort), and every node is translated exactly once per
// call regardless of how many of its users reference it.
//
// chans maps a channel id to its descriptor, needed to resolve ChanValueRef
// / ChanReadyRef nodes to their field names.
func Expression(exprs *ir.UeMap, used []ir.Hash, chans map[int]ir.ChannelDescriptor) ([]smtts.LetBinding, map[ir.Hash]string, error) {
	var order []ir.Hash
	closure, err := exprs.Closure(used)
	if err == nil {
		order, err = exprs.TopologicalSort(closure)
	}
	if err != nil {
		switch e := err.(type) {
		case *ir.MissingHashError:
			return nil, nil, diagnostics.New(diagnostics.ErrMissingHash, fmt.Sprintf("hash %d", uint32(e.Hash)), "expression hash not present in the expression map")
		case *ir.CycleError:
			return nil, nil, diagnostics.New(diagnostics.ErrExpressionCycle, "", "expression graph is not acyclic")
		default:
			return nil, nil, err
		}
	}

	lets := make([]smtts.LetBinding, 0, len(order))
	tempVar := make(map[ir.Hash]string, len(order))

	ref := func(h ir.Hash) (smtts.Term, error) {
		name, ok := tempVar[h]
		if !ok {
			return nil, diagnostics.New(diagnostics.ErrMissingHash, fmt.Sprintf("hash %d", uint32(h)), "operand not yet bound — topological order violated")
		}
		return smtts.Var{Name: name}, nil
	}

	for _, h := range order {
		node, ok := exprs.Lookup(h)
		if !ok {
			return nil, nil, diagnostics.New(diagnostics.ErrMissingHash, fmt.Sprintf("hash %d", uint32(h)), "expression hash not present in the expression map")
		}

		term, err := lowerNode(node, chans, ref, h)
		if err != nil {
			return nil, nil, err
		}

		tv := TempVar(h)
		lets = append(lets, smtts.LetBinding{Var: tv, Expr: term})
		tempVar[h] = tv
	}

	return lets, tempVar, nil
}

func lowerNode(node ir.Node, chans map[int]ir.ChannelDescriptor, ref func(ir.Hash) (smtts.Term, error), self ir.Hash) (smtts.Term, error) {
	switch node.Kind {
	case ir.StateVarRef:
		return smtts.Var{Name: names.StateRef(node.VarName)}, nil

	case ir.ChanValueRef:
		ch, ok := chans[node.ChanID]
		if !ok {
			return nil, diagnostics.New(diagnostics.ErrUnknownChannel, fmt.Sprintf("channel id %d", node.ChanID), "channel referenced by expression not present in channel list")
		}
		return smtts.Var{Name: names.StateRef(names.ChanValueName(ch.Name))}, nil

	case ir.ChanReadyRef:
		ch, ok := chans[node.ChanID]
		if !ok {
			return nil, diagnostics.New(diagnostics.ErrUnknownChannel, fmt.Sprintf("channel id %d", node.ChanID), "channel referenced by expression not present in channel list")
		}
		return smtts.Var{Name: names.StateRef(names.ChanReadyName(ch.Name))}, nil

	case ir.Literal:
		return Const(node.Lit), nil

	case ir.Not, ir.And, ir.Add, ir.Sub, ir.Mul, ir.Eq, ir.Lt, ir.Ite:
		args := make([]smtts.Term, 0, len(node.Args))
		for _, a := range node.Args {
			t, err := ref(a)
			if err != nil {
				return nil, err
			}
			args = append(args, t)
		}
		return smtts.App{Op: opSymbol[node.Kind], Args: args}, nil

	default:
		feature, ok := ir.UnsupportedFeatureName(node.Kind)
		if !ok {
			feature = "unknown operator"
		}
		subject := fmt.Sprintf("hash %d", uint32(self))
		if node.FnName != "" {
			subject = node.FnName
		}
		return nil, diagnostics.UnsupportedFeature(feature, subject)
	}
}
