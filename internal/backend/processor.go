package backend

import (
	"strconv"

	"github.com/funvibe/jsmm/internal/diagnostics"
	"github.com/funvibe/jsmm/internal/evaluator"
	"github.com/funvibe/jsmm/internal/message"
	"github.com/funvibe/jsmm/internal/pipeline"
	"github.com/funvibe/jsmm/internal/token"
)

// ExecutionProcessor implements pipeline.Processor to run a Backend
type ExecutionProcessor struct {
	Backend Backend
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run execution
	if ctx.AstRoot == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	result, err := p.Backend.Run(ctx)
	if err != nil {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrR001, token.Token{}, err.Error()))
		return ctx
	}

	ctx.Result = result
	if result.Err != nil {
		p.handleEvaluatorError(ctx, result.Err)
	}
	return ctx
}

func (p *ExecutionProcessor) handleEvaluatorError(ctx *pipeline.PipelineContext, err *evaluator.Error) {
	tok := token.Token{Line: err.Line, Column: err.Column}
	errMsg := string(err.Class) + ": " + message.Plain(err.Message)

	// Innermost call first
	if len(err.StackTrace) > 0 {
		errMsg += "\nStack trace:"
		for i := len(err.StackTrace) - 1; i >= 0; i-- {
			frame := err.StackTrace[i]
			errMsg += "\n  at " + ctx.FilePath + ":" + strconv.Itoa(frame.Line) + " (called " + frame.Name + ")"
		}
	}

	d := diagnostics.NewError(diagnostics.ErrR001, tok, errMsg)
	d.File = ctx.FilePath
	ctx.Errors = append(ctx.Errors, d)
}
