package backend

import (
	"errors"

	"github.com/funvibe/jsmm/internal/evaluator"
	"github.com/funvibe/jsmm/internal/pipeline"
)

var errNoProgram = errors.New("no program to execute")

// TreeWalkBackend evaluates the syntax tree directly with one strategy.
type TreeWalkBackend struct {
	Strategy evaluator.Strategy
}

func NewTreeWalk(s evaluator.Strategy) *TreeWalkBackend {
	return &TreeWalkBackend{Strategy: s}
}

// NewRaw runs without checks. Never use it for untrusted programs.
func NewRaw() *TreeWalkBackend { return NewTreeWalk(evaluator.Raw) }

func NewSafe() *TreeWalkBackend { return NewTreeWalk(evaluator.Safe) }

// NewStep runs sandboxed and records a step trace.
func NewStep() *TreeWalkBackend { return NewTreeWalk(evaluator.Stepped) }

func (b *TreeWalkBackend) Name() string {
	return b.Strategy.String()
}

// Run executes ctx.AstRoot against ctx.Globals. The options in ctx apply
// except for the strategy, which is the backend's own.
func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) (*evaluator.Result, error) {
	if ctx.AstRoot == nil {
		return nil, errNoProgram
	}
	if len(ctx.Errors) > 0 {
		return nil, ctx.Errors[0]
	}

	opts := ctx.Options
	opts.Strategy = b.Strategy
	eval := evaluator.New(opts)
	if ctx.Context != nil {
		eval.Context = ctx.Context
	}
	return eval.Run(ctx.AstRoot, ctx.Globals), nil
}
