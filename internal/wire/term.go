package wire

import (
	"fmt"

	"github.com/jhump/protoreflect/dynamic"

	"github.com/modellang/smtts-compiler/internal/smtts"
)

// encodeTerm converts a smtts.Term into a dynamic Term message. Recursive
// by construction, since App nests arbitrarily deep terms (§4's "shared
// subexpressions" lowering can produce fairly wide but shallow trees once
// let-bound, so recursion depth tracks source expression nesting, not DAG
// size).
func (s *Schema) encodeTerm(t smtts.Term) (*dynamic.Message, error) {
	msg := dynamic.NewMessage(s.Term)
	switch v := t.(type) {
	case smtts.Var:
		msg.SetFieldByName("var", v.Name)
	case smtts.BoolLit:
		msg.SetFieldByName("bool_lit", v.Value)
	case smtts.IntLit:
		msg.SetFieldByName("int_lit", v.Value)
	case smtts.RealLit:
		msg.SetFieldByName("real_lit", v.Value)
	case smtts.App:
		app := dynamic.NewMessage(s.App)
		app.SetFieldByName("op", v.Op)
		args := make([]interface{}, 0, len(v.Args))
		for _, a := range v.Args {
			am, err := s.encodeTerm(a)
			if err != nil {
				return nil, err
			}
			args = append(args, am)
		}
		if err := app.TrySetFieldByName("args", args); err != nil {
			return nil, fmt.Errorf("encoding App.args: %w", err)
		}
		msg.SetFieldByName("app", app)
	default:
		return nil, fmt.Errorf("encoding term: unknown Term implementation %T", t)
	}
	return msg, nil
}

// decodeTerm is encodeTerm's inverse.
func (s *Schema) decodeTerm(msg *dynamic.Message) (smtts.Term, error) {
	switch msg.WhichOneof(s.Term.GetOneOfs()[0]) {
	case "var":
		return smtts.Var{Name: msg.GetFieldByName("var").(string)}, nil
	case "bool_lit":
		return smtts.BoolLit{Value: msg.GetFieldByName("bool_lit").(bool)}, nil
	case "int_lit":
		return smtts.IntLit{Value: msg.GetFieldByName("int_lit").(int64)}, nil
	case "real_lit":
		return smtts.RealLit{Value: msg.GetFieldByName("real_lit").(float64)}, nil
	case "app":
		app, ok := msg.GetFieldByName("app").(*dynamic.Message)
		if !ok {
			return nil, fmt.Errorf("decoding term: malformed App field")
		}
		op, _ := app.GetFieldByName("op").(string)
		argMsgs, _ := app.GetFieldByName("args").([]interface{})
		args := make([]smtts.Term, 0, len(argMsgs))
		for _, raw := range argMsgs {
			am, ok := raw.(*dynamic.Message)
			if !ok {
				return nil, fmt.Errorf("decoding term: malformed App.args element")
			}
			arg, err := s.decodeTerm(am)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return smtts.App{Op: op, Args: args}, nil
	default:
		return nil, fmt.Errorf("decoding term: empty oneof (no kind set)")
	}
}
