package parser

import (
	"errors"

	"github.com/funvibe/jsmm/internal/diagnostics"
	"github.com/funvibe/jsmm/internal/pipeline"
	"github.com/funvibe/jsmm/internal/token"
)

// ParserProcessor is the parsing stage of the pipeline.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	program, err := Parse(ctx.FilePath, ctx.SourceCode)
	if err != nil {
		var d *diagnostics.DiagnosticError
		if !errors.As(err, &d) {
			d = diagnostics.NewError(diagnostics.ErrP001, token.Token{}, err.Error())
			d.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, d)
		return ctx
	}
	ctx.AstRoot = program
	return ctx
}
