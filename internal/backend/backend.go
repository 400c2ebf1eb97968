// Package backend runs parsed programs. Each backend is one evaluation
// strategy of the tree-walking evaluator.
package backend

import (
	"fmt"

	"github.com/funvibe/jsmm/internal/evaluator"
	"github.com/funvibe/jsmm/internal/pipeline"
)

// Backend is the interface for execution backends
type Backend interface {
	// Run executes the program from pipeline context and returns the result
	Run(ctx *pipeline.PipelineContext) (*evaluator.Result, error)

	// Name returns the backend name for display
	Name() string
}

// ForStrategy returns the backend for a strategy name.
func ForStrategy(name string) (Backend, error) {
	s, err := evaluator.ParseStrategy(name)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	return NewTreeWalk(s), nil
}

// All returns one backend per strategy, unchecked first.
func All() []Backend {
	return []Backend{NewRaw(), NewSafe(), NewStep()}
}
