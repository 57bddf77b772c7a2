package pipeline

import (
	"testing"

	"github.com/modellang/smtts-compiler/internal/ir"
	"github.com/modellang/smtts-compiler/internal/names"
)

func counterProgram() *ir.Elaborated {
	sys := names.FromSegment("Sys")
	counter := names.Scope(sys, "counter")

	exprs := ir.NewUeMap()
	one := ir.Hash(1)
	ref := ir.Hash(2)
	sum := ir.Hash(3)
	exprs.Insert(one, ir.Node{Kind: ir.Literal, Lit: ir.IntConst(ir.Int8, 1)})
	exprs.Insert(ref, ir.Node{Kind: ir.StateVarRef, VarName: counter})
	exprs.Insert(sum, ir.Node{Kind: ir.Add, Args: []ir.Hash{ref, one}})

	return &ir.Elaborated{
		SystemName: sys,
		Root: &ir.Group{Seg: "Sys", Children: []ir.StateNode{
			&ir.Var{Seg: "counter", Init: ir.IntConst(ir.Int8, 0)},
		}},
		Exprs: exprs,
		RuleList: []ir.Rule{
			{ID: 1, NodeName: sys, Assigns: []ir.Assignment{{Target: counter, Value: sum}}, Used: []ir.Hash{one, ref, sum}},
		},
	}
}

func TestStandardPipelineProducesAProgram(t *testing.T) {
	ctx := &PipelineContext{Program: counterProgram(), FaultConfig: ir.NoFaults{}}
	result := Standard().Run(ctx)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected pipeline errors: %v", result.Errors)
	}
	if result.Result == nil {
		t.Fatal("pipeline produced no result")
	}
	if len(result.Result.Transitions) != 2 {
		t.Errorf("got %d transitions, want 2", len(result.Result.Transitions))
	}
}

func TestStandardPipelineStopsAtFirstError(t *testing.T) {
	sys := names.FromSegment("Sys")
	bogusTarget := names.Scope(sys, "doesNotExist")

	exprs := ir.NewUeMap()
	lit := ir.Hash(1)
	exprs.Insert(lit, ir.Node{Kind: ir.Literal, Lit: ir.IntConst(ir.Int8, 0)})

	prog := &ir.Elaborated{
		SystemName: sys,
		Root:       &ir.Group{Seg: "Sys", Children: []ir.StateNode{&ir.Var{Seg: "x", Init: ir.IntConst(ir.Int8, 0)}}},
		Exprs:      exprs,
		RuleList: []ir.Rule{
			{ID: 1, NodeName: sys, Assigns: []ir.Assignment{{Target: bogusTarget, Value: lit}}, Used: []ir.Hash{lit}},
		},
	}

	ctx := &PipelineContext{Program: prog, FaultConfig: ir.NoFaults{}}
	result := Standard().Run(ctx)

	if len(result.Errors) == 0 {
		t.Fatal("expected a pipeline error for an assignment to an undeclared variable")
	}
	if result.Result != nil {
		t.Error("pipeline must not return a partial Result on failure")
	}
}
