package pipeline

import (
	"context"

	"github.com/funvibe/jsmm/internal/ast"
	"github.com/funvibe/jsmm/internal/diagnostics"
	"github.com/funvibe/jsmm/internal/evaluator"
)

// PipelineContext carries one program through the pipeline.
type PipelineContext struct {
	// Context bounds the run; its deadline and cancellation are honoured
	// by the evaluator between statements.
	Context context.Context

	SourceCode string
	FilePath   string

	AstRoot *ast.Program
	Errors  []*diagnostics.DiagnosticError

	// Globals is the host scope the program runs against. It must be
	// fresh for every run since hosts accumulate output.
	Globals map[string]evaluator.Value
	// Options configures the evaluator; the backend fills in its strategy.
	Options evaluator.Options

	// Result is set by the execution stage.
	Result *evaluator.Result
}

func NewPipelineContext(source, path string) *PipelineContext {
	return &PipelineContext{
		Context:    context.Background(),
		SourceCode: source,
		FilePath:   path,
	}
}

// Failed reports whether any stage reported an error.
func (ctx *PipelineContext) Failed() bool {
	return len(ctx.Errors) > 0
}
