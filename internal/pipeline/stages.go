package pipeline

import (
	"github.com/modellang/smtts-compiler/internal/smtts"
	"github.com/modellang/smtts-compiler/internal/translate"
)

// StateTypeStage runs C4 (plus the fault configuration's extra input
// variables, C8) and stores the result on the context for later stages.
type StateTypeStage struct{}

func (StateTypeStage) Process(ctx *PipelineContext) *PipelineContext {
	st, err := translate.BuildStateType(ctx.Program)
	if err != nil {
		return fail(ctx, err)
	}
	st, assumptions, err := translate.ApplyFaultConfig(ctx.Program, st, ctx.FaultConfig)
	if err != nil {
		return fail(ctx, err)
	}
	ctx.StateType = st
	ctx.Assumptions = assumptions
	return ctx
}

// InitStage runs C5.
type InitStage struct{}

func (InitStage) Process(ctx *PipelineContext) *PipelineContext {
	ctx.Init = translate.BuildInitialState(ctx.Program)
	return ctx
}

// RulesStage runs C6 for every rule, in rule-id order.
type RulesStage struct{}

func (RulesStage) Process(ctx *PipelineContext) *PipelineContext {
	chans := translate.ChannelsByID(ctx.Program.Channels())
	for _, r := range translate.SortedRules(ctx.Program.Rules()) {
		tr, err := translate.BuildRuleTransition(ctx.Program, r, ctx.StateType, chans)
		if err != nil {
			return fail(ctx, err)
		}
		ctx.Transitions = append(ctx.Transitions, tr)
	}
	return ctx
}

// MasterStage runs C7 and assembles the final smtts.Program.
type MasterStage struct{}

func (MasterStage) Process(ctx *PipelineContext) *PipelineContext {
	rules := translate.SortedRules(ctx.Program.Rules())
	master := translate.BuildMasterTransition(ctx.Program, rules, ctx.StateType.Name)
	ctx.Transitions = append(ctx.Transitions, master)
	system := translate.BuildSystem(ctx.Program, ctx.StateType.Name, ctx.Init.Name, master.Name)

	ctx.Result = &smtts.Program{
		StateType:   ctx.StateType,
		Init:        ctx.Init,
		Transitions: ctx.Transitions,
		System:      system,
		Assumptions: ctx.Assumptions,
	}
	return ctx
}

// Standard builds the canonical translation pipeline.
func Standard() *Pipeline {
	return New(StateTypeStage{}, InitStage{}, RulesStage{}, MasterStage{})
}
