package backend

import (
	"context"
	"fmt"
	"io"

	"github.com/funvibe/jsmm/internal/ast"
	"github.com/funvibe/jsmm/internal/diagnostics"
	"github.com/funvibe/jsmm/internal/evaluator"
	"github.com/funvibe/jsmm/internal/hosts"
	"github.com/funvibe/jsmm/internal/parser"
	"github.com/funvibe/jsmm/internal/pipeline"
)

// Request describes one program execution.
type Request struct {
	Context context.Context
	Path    string
	Source  string
	Options evaluator.Options
	// Hosts names the host bindings to enable; nil means hosts.Default.
	Hosts []string
	// Globals are extra global bindings. They may not shadow a host.
	Globals map[string]evaluator.Value
	// Mirror receives console output as it is logged. May be nil.
	Mirror io.Writer
}

// Outcome is everything one execution produced.
type Outcome struct {
	Program     *ast.Program
	Result      *evaluator.Result
	Console     *hosts.Console
	Diagnostics []*diagnostics.DiagnosticError
}

// SyntaxError returns the parse failure, if parsing failed.
func (o *Outcome) SyntaxError() *diagnostics.DiagnosticError {
	for _, d := range o.Diagnostics {
		if d.IsSyntax() {
			return d
		}
	}
	return nil
}

// Err returns the runtime error, if the program ran and failed.
func (o *Outcome) Err() *evaluator.Error {
	if o.Result == nil {
		return nil
	}
	return o.Result.Err
}

// Execute parses and runs req.Source with backend b through the standard
// pipeline. The returned error reports an invalid request; program
// failures are part of the outcome.
func Execute(b Backend, req Request) (*Outcome, error) {
	scope, console, err := hosts.Scope(req.Hosts, req.Mirror)
	if err != nil {
		return nil, err
	}
	for name, v := range req.Globals {
		if _, ok := scope[name]; ok || hosts.Valid(name) {
			return nil, fmt.Errorf("global %q shadows a host", name)
		}
		scope[name] = v
	}

	ctx := pipeline.NewPipelineContext(req.Source, req.Path)
	if req.Context != nil {
		ctx.Context = req.Context
	}
	ctx.Globals = scope
	ctx.Options = req.Options

	ctx = pipeline.New(&parser.ParserProcessor{}, NewExecutionProcessor(b)).Run(ctx)
	return &Outcome{
		Program:     ctx.AstRoot,
		Result:      ctx.Result,
		Console:     console,
		Diagnostics: ctx.Errors,
	}, nil
}
