package translate

import (
	"strconv"
	"strings"
	"testing"

	"github.com/modellang/smtts-compiler/internal/ir"
	"github.com/modellang/smtts-compiler/internal/names"
	"github.com/modellang/smtts-compiler/internal/smtts"
)

// findVar returns the state-type variable named qn, failing the test if
// it is absent.
func findVar(t *testing.T, st smtts.StateType, qn names.Name) smtts.StateVar {
	t.Helper()
	for _, v := range st.Vars {
		if v.Name == qn {
			return v
		}
	}
	t.Fatalf("state type %s has no variable %s (vars: %v)", st.Name, qn, st.Vars)
	return smtts.StateVar{}
}

// --- A1: a single Int8 counter, incremented by one rule. ---

func a1Program() *ir.Elaborated {
	sys := names.FromSegment("Sys")
	counter := names.Scope(sys, "counter")

	exprs := ir.NewUeMap()
	litOne := ir.Hash(1)
	counterRef := ir.Hash(2)
	sum := ir.Hash(3)
	exprs.Insert(litOne, ir.Node{Kind: ir.Literal, Lit: ir.IntConst(ir.Int8, 1)})
	exprs.Insert(counterRef, ir.Node{Kind: ir.StateVarRef, VarName: counter})
	exprs.Insert(sum, ir.Node{Kind: ir.Add, Args: []ir.Hash{counterRef, litOne}})

	return &ir.Elaborated{
		SystemName: sys,
		Root: &ir.Group{Seg: "Sys", Children: []ir.StateNode{
			&ir.Var{Seg: "counter", Init: ir.IntConst(ir.Int8, 0)},
		}},
		Exprs: exprs,
		RuleList: []ir.Rule{
			{
				ID:       1,
				NodeName: sys,
				HasGuard: false,
				Assigns:  []ir.Assignment{{Target: counter, Value: sum}},
				Used:     []ir.Hash{litOne, counterRef, sum},
			},
		},
	}
}

func TestTranslateA1IncrementCounter(t *testing.T) {
	prog, err := Translate(a1Program(), ir.NoFaults{})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	sys := names.FromSegment("Sys")
	counter := names.Scope(sys, "counter")
	v := findVar(t, prog.StateType, counter)
	if v.Type != smtts.TInt || v.Input {
		t.Errorf("counter var = %+v, want a non-input Int", v)
	}

	if len(prog.Transitions) != 2 {
		t.Fatalf("got %d transitions, want 2 (one rule + master)", len(prog.Transitions))
	}
	ruleTr := prog.Transitions[0]
	if len(ruleTr.Lets) != 3 {
		t.Errorf("rule transition has %d let-bindings, want 3", len(ruleTr.Lets))
	}

	// The predicate must assert next.counter = <sum temp var>.
	pred, ok := ruleTr.Pred.(smtts.App)
	if !ok || pred.Op != "and" && pred.Op != "=" {
		t.Fatalf("rule predicate = %#v, unexpected shape", ruleTr.Pred)
	}
	if !strings.Contains(renderTerm(pred), "next."+counter.String()) {
		t.Errorf("rule predicate does not assert next.%s: %s", counter, renderTerm(pred))
	}
}

// --- A2: a Bool flag shared between two sibling nodes (read by one rule,
// written by another) under a fixed-fault configuration (A6). ---

func a2Program() *ir.Elaborated {
	sys := names.FromSegment("Sys")
	nodeA := names.Scope(sys, "nodeA")
	nodeB := names.Scope(sys, "nodeB")
	flag := names.Scope(sys, "flag")

	exprs := ir.NewUeMap()
	flagRef := ir.Hash(1)
	notFlag := ir.Hash(2)
	exprs.Insert(flagRef, ir.Node{Kind: ir.StateVarRef, VarName: flag})
	exprs.Insert(notFlag, ir.Node{Kind: ir.Not, Args: []ir.Hash{flagRef}})

	return &ir.Elaborated{
		SystemName: sys,
		Root: &ir.Group{Seg: "Sys", Children: []ir.StateNode{
			&ir.Var{Seg: "flag", Init: ir.BoolConst(false)},
		}},
		Exprs: exprs,
		RuleList: []ir.Rule{
			{ID: 1, NodeName: nodeA, HasGuard: true, Guard: flagRef, Assigns: []ir.Assignment{{Target: flag, Value: notFlag}}, Used: []ir.Hash{flagRef, notFlag}},
			{ID: 2, NodeName: nodeB, HasGuard: true, Guard: notFlag, Assigns: nil, Used: []ir.Hash{flagRef, notFlag}},
		},
	}
}

func TestTranslateA2SharedFlagWithFixedFaults(t *testing.T) {
	sys := names.FromSegment("Sys")
	nodeA := names.Scope(sys, "nodeA")

	cfg := ir.FixedFaults{Assignments: map[names.Name]ir.FaultClass{
		nodeA: ir.SymmetricFaulty,
	}}
	prog, err := Translate(a2Program(), cfg)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	// Every rule owns a per-rule fault-node Boolean input (§4.4); the
	// fixed-faults extension adds a fault-class Int input per rule. Rule 1's
	// Boolean input is checked here.
	faultNode1 := names.FaultNodeName(nodeA, 1)
	v := findVar(t, prog.StateType, faultNode1)
	if v.Type != smtts.TBool || !v.Input {
		t.Errorf("fault node input = %+v, want input Bool", v)
	}

	if prog.Assumptions == nil {
		t.Fatal("assumptions term is nil")
	}
	rendered := renderTerm(prog.Assumptions)
	if !strings.Contains(rendered, "2") { // SymmetricFaulty == 2
		t.Errorf("assumptions do not reference the assigned fault class: %s", rendered)
	}
}

// --- A3: a single channel between a writer and a reader rule. ---

func a3Program() *ir.Elaborated {
	sys := names.FromSegment("Sys")
	writer := names.Scope(sys, "writer")
	reader := names.Scope(sys, "reader")
	ch := names.Scope(sys, "ch")

	exprs := ir.NewUeMap()
	litVal := ir.Hash(1)
	chanValue := ir.Hash(2)
	exprs.Insert(litVal, ir.Node{Kind: ir.Literal, Lit: ir.IntConst(ir.Int32, 42)})
	exprs.Insert(chanValue, ir.Node{Kind: ir.ChanValueRef, ChanID: 0})

	return &ir.Elaborated{
		SystemName: sys,
		Root: &ir.Group{Seg: "Sys", Children: []ir.StateNode{
			&ir.Chan{Seg: "ch", ElemType: ir.Int32, ID: 0},
		}},
		Exprs: exprs,
		ChannelList: []ir.ChannelDescriptor{
			{ID: 0, Name: ch, ElemType: ir.Int32, WriterNode: writer, ReaderNode: reader},
		},
		RuleList: []ir.Rule{
			{ID: 1, NodeName: writer, Writes: []ir.ChannelWrite{{ChannelID: 0, Value: litVal}}, Used: []ir.Hash{litVal}},
			{ID: 2, NodeName: reader, HasGuard: false, Used: []ir.Hash{chanValue}},
		},
	}
}

func TestTranslateA3SingleChannelProtocol(t *testing.T) {
	prog, err := Translate(a3Program(), ir.NoFaults{})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	sys := names.FromSegment("Sys")
	ch := names.Scope(sys, "ch")
	valueVar := findVar(t, prog.StateType, names.ChanValueName(ch))
	readyVar := findVar(t, prog.StateType, names.ChanReadyName(ch))
	if valueVar.Type != smtts.TInt {
		t.Errorf("channel value var type = %v, want Int", valueVar.Type)
	}
	if readyVar.Type != smtts.TBool {
		t.Errorf("channel ready var type = %v, want Bool", readyVar.Type)
	}

	writerTr := prog.Transitions[0]
	rendered := renderTerm(writerTr.Pred)
	if !strings.Contains(rendered, "next."+names.ChanReadyName(ch).String()) {
		t.Errorf("writer transition does not set the ready field: %s", rendered)
	}
}

// --- A4: two channels chained a -> b -> c across three nodes. ---

func a4Program() *ir.Elaborated {
	sys := names.FromSegment("Sys")
	nodeA := names.Scope(sys, "a")
	nodeB := names.Scope(sys, "b")
	nodeC := names.Scope(sys, "c")
	chAB := names.Scope(sys, "ab")
	chBC := names.Scope(sys, "bc")

	exprs := ir.NewUeMap()
	abValue := ir.Hash(1)
	bcLit := ir.Hash(2)
	exprs.Insert(abValue, ir.Node{Kind: ir.ChanValueRef, ChanID: 0})
	exprs.Insert(bcLit, ir.Node{Kind: ir.Literal, Lit: ir.IntConst(ir.Int32, 0)})

	return &ir.Elaborated{
		SystemName: sys,
		Root: &ir.Group{Seg: "Sys", Children: []ir.StateNode{
			&ir.Chan{Seg: "ab", ElemType: ir.Int32, ID: 0},
			&ir.Chan{Seg: "bc", ElemType: ir.Int32, ID: 1},
		}},
		Exprs: exprs,
		ChannelList: []ir.ChannelDescriptor{
			{ID: 0, Name: chAB, ElemType: ir.Int32, WriterNode: nodeA, ReaderNode: nodeB},
			{ID: 1, Name: chBC, ElemType: ir.Int32, WriterNode: nodeB, ReaderNode: nodeC},
		},
		RuleList: []ir.Rule{
			{ID: 1, NodeName: nodeB, Writes: []ir.ChannelWrite{{ChannelID: 1, Value: abValue}}, Used: []ir.Hash{abValue}},
			{ID: 2, NodeName: nodeC, Used: []ir.Hash{bcLit}},
		},
	}
}

func TestTranslateA4ChainedChannels(t *testing.T) {
	prog, err := Translate(a4Program(), ir.NoFaults{})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	sys := names.FromSegment("Sys")
	for _, seg := range []string{"ab", "bc"} {
		ch := names.Scope(sys, seg)
		findVar(t, prog.StateType, names.ChanValueName(ch))
		findVar(t, prog.StateType, names.ChanReadyName(ch))
	}
	if len(prog.Transitions) != 3 {
		t.Fatalf("got %d transitions, want 3 (two rules + master)", len(prog.Transitions))
	}
}

// --- Unsupported feature: a division node must fail translation, not
// silently degrade. ---

func TestTranslateRejectsUnsupportedDivision(t *testing.T) {
	sys := names.FromSegment("Sys")
	node := names.Scope(sys, "n")

	exprs := ir.NewUeMap()
	a := ir.Hash(1)
	b := ir.Hash(2)
	div := ir.Hash(3)
	exprs.Insert(a, ir.Node{Kind: ir.Literal, Lit: ir.IntConst(ir.Int32, 10)})
	exprs.Insert(b, ir.Node{Kind: ir.Literal, Lit: ir.IntConst(ir.Int32, 2)})
	exprs.Insert(div, ir.Node{Kind: ir.Div, Args: []ir.Hash{a, b}})

	prog := &ir.Elaborated{
		SystemName: sys,
		Root:       &ir.Group{Seg: "Sys", Children: []ir.StateNode{&ir.Var{Seg: "x", Init: ir.IntConst(ir.Int32, 0)}}},
		Exprs:      exprs,
		RuleList: []ir.Rule{
			{ID: 1, NodeName: node, Assigns: []ir.Assignment{{Target: names.Scope(sys, "x"), Value: div}}, Used: []ir.Hash{a, b, div}},
		},
	}

	_, err := Translate(prog, ir.NoFaults{})
	if err == nil {
		t.Fatal("expected translation to fail on an unsupported division node")
	}
}

// renderTerm is a minimal local s-expression renderer used only to make
// assertions about a predicate's shape readable without importing
// internal/render (kept deliberately separate so translate has no
// dependency on the debug renderer).
func renderTerm(t smtts.Term) string {
	switch v := t.(type) {
	case smtts.Var:
		return v.Name
	case smtts.BoolLit:
		if v.Value {
			return "true"
		}
		return "false"
	case smtts.IntLit:
		return strconv.FormatInt(v.Value, 10)
	case smtts.RealLit:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case smtts.App:
		s := "(" + v.Op
		for _, a := range v.Args {
			s += " " + renderTerm(a)
		}
		return s + ")"
	default:
		return "?"
	}
}
