// Package pipeline composes the translation stages (C4–C8) as discrete
// Processors, the way the teacher composes LexerProcessor/ParserProcessor
// stages over a shared PipelineContext.
//
// Unlike the teacher's LSP-oriented pipeline, which keeps running stages
// after an error to collect all diagnostics, this Pipeline is fail-fast
// (§7): the first stage that appends an error stops the run, because a
// partially-translated system is unsound to hand to the checker.
package pipeline

import (
	"github.com/modellang/smtts-compiler/internal/config"
	"github.com/modellang/smtts-compiler/internal/diagnostics"
	"github.com/modellang/smtts-compiler/internal/ir"
	"github.com/modellang/smtts-compiler/internal/smtts"
)

// PipelineContext threads the program, configuration and in-progress
// result through each stage.
type PipelineContext struct {
	Program     ir.Program
	Config      *config.Config
	FaultConfig ir.FaultConfig

	StateType   smtts.StateType
	Init        smtts.InitialState
	Transitions []smtts.Transition
	Assumptions smtts.Term
	Result      *smtts.Program

	Errors []*diagnostics.DiagnosticError
}

// Processor is one translation stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline is an ordered sequence of Processors.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline, stopping at the first stage that records an
// error.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		if len(ctx.Errors) > 0 {
			break
		}
		ctx = processor.Process(ctx)
	}
	return ctx
}

func fail(ctx *PipelineContext, err error) *PipelineContext {
	de, ok := err.(*diagnostics.DiagnosticError)
	if !ok {
		de = diagnostics.New(diagnostics.ErrElaborationFailed, "", "%s", err.Error())
	}
	ctx.Errors = append(ctx.Errors, de)
	return ctx
}
