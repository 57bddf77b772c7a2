package lower

import (
	"testing"

	"github.com/modellang/smtts-compiler/internal/diagnostics"
	"github.com/modellang/smtts-compiler/internal/ir"
	"github.com/modellang/smtts-compiler/internal/names"
	"github.com/modellang/smtts-compiler/internal/smtts"
)

func TestExpressionLowersArithmeticChain(t *testing.T) {
	exprs := ir.NewUeMap()
	one := ir.Hash(1)
	counter := ir.Hash(2)
	sum := ir.Hash(3)

	exprs.Insert(one, ir.Node{Kind: ir.Literal, Lit: ir.IntConst(ir.Int8, 1)})
	exprs.Insert(counter, ir.Node{Kind: ir.StateVarRef, VarName: names.FromSegment("counter")})
	exprs.Insert(sum, ir.Node{Kind: ir.Add, Args: []ir.Hash{counter, one}})

	lets, tempVar, err := Expression(exprs, []ir.Hash{sum}, nil)
	if err != nil {
		t.Fatalf("Expression: %v", err)
	}
	if len(lets) != 3 {
		t.Fatalf("got %d let-bindings, want 3: %v", len(lets), lets)
	}
	// Operands must be bound before the node that uses them.
	pos := make(map[ir.Hash]int)
	for h, v := range tempVar {
		for i, lb := range lets {
			if lb.Var == v {
				pos[h] = i
			}
		}
	}
	if pos[one] >= pos[sum] || pos[counter] >= pos[sum] {
		t.Errorf("operand bound after its user: positions=%v", pos)
	}

	sumVar, ok := tempVar[sum]
	if !ok {
		t.Fatal("sum hash has no temp var")
	}
	last := lets[len(lets)-1]
	if last.Var != sumVar {
		t.Errorf("last binding %q is not the root expression's temp var %q", last.Var, sumVar)
	}
	app, ok := last.Expr.(smtts.App)
	if !ok || app.Op != "+" {
		t.Errorf("root binding = %#v, want an App(\"+\", ...)", last.Expr)
	}
}

func TestExpressionResolvesChannelFields(t *testing.T) {
	exprs := ir.NewUeMap()
	valueRef := ir.Hash(1)
	readyRef := ir.Hash(2)
	exprs.Insert(valueRef, ir.Node{Kind: ir.ChanValueRef, ChanID: 7})
	exprs.Insert(readyRef, ir.Node{Kind: ir.ChanReadyRef, ChanID: 7})

	chans := map[int]ir.ChannelDescriptor{
		7: {ID: 7, Name: names.FromSegment("ch"), ElemType: ir.Int32},
	}

	lets, _, err := Expression(exprs, []ir.Hash{valueRef, readyRef}, chans)
	if err != nil {
		t.Fatalf("Expression: %v", err)
	}
	if len(lets) != 2 {
		t.Fatalf("got %d bindings, want 2", len(lets))
	}
	valTerm := lets[0].Expr.(smtts.Var)
	if valTerm.Name != "state.ch!var" {
		t.Errorf("channel value ref = %q, want %q", valTerm.Name, "state.ch!var")
	}
	readyTerm := lets[1].Expr.(smtts.Var)
	if readyTerm.Name != "state.ch!ready" {
		t.Errorf("channel ready ref = %q, want %q", readyTerm.Name, "state.ch!ready")
	}
}

func TestExpressionUnknownChannelIsInvariantViolation(t *testing.T) {
	exprs := ir.NewUeMap()
	ref := ir.Hash(1)
	exprs.Insert(ref, ir.Node{Kind: ir.ChanValueRef, ChanID: 99})

	_, _, err := Expression(exprs, []ir.Hash{ref}, map[int]ir.ChannelDescriptor{})
	if err == nil {
		t.Fatal("expected an error for an unknown channel id")
	}
	de, ok := err.(*diagnostics.DiagnosticError)
	if !ok {
		t.Fatalf("got %T, want *diagnostics.DiagnosticError", err)
	}
	if de.Code != diagnostics.ErrUnknownChannel {
		t.Errorf("got code %s, want %s", de.Code, diagnostics.ErrUnknownChannel)
	}
}

func TestExpressionRejectsDivisionAsUnsupported(t *testing.T) {
	exprs := ir.NewUeMap()
	a := ir.Hash(1)
	b := ir.Hash(2)
	div := ir.Hash(3)
	exprs.Insert(a, ir.Node{Kind: ir.Literal, Lit: ir.IntConst(ir.Int32, 10)})
	exprs.Insert(b, ir.Node{Kind: ir.Literal, Lit: ir.IntConst(ir.Int32, 2)})
	exprs.Insert(div, ir.Node{Kind: ir.Div, Args: []ir.Hash{a, b}})

	_, _, err := Expression(exprs, []ir.Hash{div}, nil)
	if err == nil {
		t.Fatal("expected division to be rejected as unsupported")
	}
	de, ok := err.(*diagnostics.DiagnosticError)
	if !ok {
		t.Fatalf("got %T, want *diagnostics.DiagnosticError", err)
	}
	if de.Code != diagnostics.ErrUnsupportedDivision {
		t.Errorf("got code %s, want %s", de.Code, diagnostics.ErrUnsupportedDivision)
	}
}

func TestExpressionDeduplicatesSharedSubexpressions(t *testing.T) {
	exprs := ir.NewUeMap()
	shared := ir.Hash(1)
	useA := ir.Hash(2)
	useB := ir.Hash(3)
	exprs.Insert(shared, ir.Node{Kind: ir.Literal, Lit: ir.IntConst(ir.Int32, 5)})
	exprs.Insert(useA, ir.Node{Kind: ir.Not, Args: []ir.Hash{shared}})
	exprs.Insert(useB, ir.Node{Kind: ir.Not, Args: []ir.Hash{shared}})

	lets, _, err := Expression(exprs, []ir.Hash{useA, useB}, nil)
	if err != nil {
		t.Fatalf("Expression: %v", err)
	}
	count := 0
	for _, lb := range lets {
		if lit, ok := lb.Expr.(smtts.IntLit); ok && lit.Value == 5 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("shared subexpression bound %d times, want 1 (bindings: %v)", count, lets)
	}
}
