package evaluator

import (
	"fmt"

	"github.com/funvibe/jsmm/internal/ast"
)

// Limiter is consulted by the evaluator once per executed statement and
// once per loop guard. Returning an error aborts the run with a LimitError
// attributed to node; the error text becomes the message.
type Limiter interface {
	Tick(node ast.Node) error
}

// StepBudget limits the number of ticks in a run.
type StepBudget struct {
	Max   int
	count int
}

func NewStepBudget(max int) *StepBudget {
	return &StepBudget{Max: max}
}

func (b *StepBudget) Tick(node ast.Node) error {
	b.count++
	if b.Max > 0 && b.count > b.Max {
		return fmt.Errorf("Program stopped after <var>%d</var> steps, it may contain an infinite loop", b.Max)
	}
	return nil
}

// Used returns the number of ticks so far.
func (b *StepBudget) Used() int {
	return b.count
}

// LimiterFunc adapts a function to the Limiter interface.
type LimiterFunc func(node ast.Node) error

func (f LimiterFunc) Tick(node ast.Node) error {
	return f(node)
}
