package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/jsmm/internal/ast"
	"github.com/funvibe/jsmm/internal/config"
)

// Strategy selects how the evaluator runs a program.
type Strategy int

const (
	// Raw evaluates with plain JavaScript semantics and no checks. It is a
	// reference baseline and must not be used for untrusted programs.
	Raw Strategy = iota
	// Safe applies every type check and records command tags.
	Safe
	// Stepped is Safe plus buffering of narrated steps.
	Stepped
)

func (s Strategy) String() string {
	switch s {
	case Raw:
		return config.StrategyRaw
	case Safe:
		return config.StrategySafe
	case Stepped:
		return config.StrategyStep
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a strategy name to its value.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case config.StrategyRaw:
		return Raw, nil
	case config.StrategySafe, "":
		return Safe, nil
	case config.StrategyStep, "stepped":
		return Stepped, nil
	}
	return Safe, fmt.Errorf("unknown strategy %q (want raw, safe or step)", name)
}

type frame struct {
	scope *Scope
	label string
	call  ast.Node
}

// Context is the state of one program run: scopes, call stack, command
// records and buffered steps. It is created by Evaluator.Run, owned by
// that run alone, and handed to host callbacks so they can inspect the
// run or call back into user functions.
type Context struct {
	eval     *Evaluator
	strategy Strategy
	filter   *CommandFilter

	global *Scope
	scope  *Scope
	frames []frame

	calls        []ast.Node
	maxCallDepth int

	commands []Command
	steps    []Step
	pending  []Assignment
}

func newContext(e *Evaluator, globals map[string]Value) *Context {
	global := NewScope(nil)
	for name, v := range globals {
		global.Declare(name, v)
	}
	depth := e.opts.MaxCallDepth
	if depth <= 0 {
		depth = config.DefaultMaxCallDepth
	}
	return &Context{
		eval:         e,
		strategy:     e.opts.Strategy,
		filter:       e.opts.Filter,
		global:       global,
		scope:        global,
		maxCallDepth: depth,
	}
}

func (c *Context) Strategy() Strategy { return c.strategy }

// Scope returns the active scope.
func (c *Context) Scope() *Scope { return c.scope }

// AddCommand records that node used the construct tag. Under a command
// filter a disallowed tag fails here, before the construct has any effect.
func (c *Context) AddCommand(node ast.Node, tag string) error {
	if c.strategy == Raw {
		return nil
	}
	c.commands = append(c.commands, Command{NodeID: node.ID(), Tag: tag})
	if !c.filter.Allows(tag) {
		return c.newError(PolicyError, node, "<var>%s</var> cannot be used in this exercise", tag)
	}
	return nil
}

// AddAssignment marks that the next step changes name.
func (c *Context) AddAssignment(node ast.Node, name string) {
	if c.strategy == Raw {
		return
	}
	c.pending = append(c.pending, Assignment{NodeID: node.ID(), Name: name})
}

// NewStep records one narrated step. Only the stepped strategy keeps it.
func (c *Context) NewStep(fragments ...Fragment) {
	if c.strategy != Stepped {
		c.pending = c.pending[:0]
		return
	}
	step := Step{Fragments: fragments, Assignments: c.pending, Stack: c.Stack()}
	c.pending = nil
	c.steps = append(c.steps, step)
}

// Stack returns the labels of the active function frames, outermost first.
func (c *Context) Stack() []string {
	if len(c.frames) == 0 {
		return nil
	}
	labels := make([]string, len(c.frames))
	for i, f := range c.frames {
		labels[i] = f.label
	}
	return labels
}

// EnterCall brackets every call, user or host.
func (c *Context) EnterCall(node ast.Node) error {
	if len(c.calls) >= c.maxCallDepth {
		return c.newError(LimitError, node, "Too many nested function calls (more than <var>%d</var>)", c.maxCallDepth)
	}
	c.calls = append(c.calls, node)
	return nil
}

func (c *Context) LeaveCall(node ast.Node) {
	if n := len(c.calls); n > 0 {
		c.calls = c.calls[:n-1]
	}
}

// EnterFunction pushes a frame whose scope holds vars and whose parent is
// the global scope.
func (c *Context) EnterFunction(node ast.Node, vars map[string]Value, label string) {
	scope := NewScope(c.global)
	for name, v := range vars {
		scope.Declare(name, v)
	}
	var call ast.Node = node
	if n := len(c.calls); n > 0 {
		call = c.calls[n-1]
	}
	c.frames = append(c.frames, frame{scope: scope, label: label, call: call})
	c.scope = scope
}

func (c *Context) LeaveFunction(node ast.Node) {
	if n := len(c.frames); n > 0 {
		c.frames = c.frames[:n-1]
	}
	if n := len(c.frames); n > 0 {
		c.scope = c.frames[n-1].scope
	} else {
		c.scope = c.global
	}
}

// InFunction reports whether a user function is executing.
func (c *Context) InFunction() bool {
	return len(c.frames) > 0
}

// ExternalCall invokes a user function through the full call protocol.
// Host functions use it to call back into the program.
func (c *Context) ExternalCall(node ast.Node, fn *Function, args []Value) (Value, error) {
	return c.eval.callFunction(node, fn, args)
}

// Commands returns the command records so far.
func (c *Context) Commands() []Command { return c.commands }

// Steps returns the buffered steps so far.
func (c *Context) Steps() []Step { return c.steps }

// newError builds an error attributed to node, capturing the call stack.
func (c *Context) newError(class ErrorClass, node ast.Node, format string, a ...interface{}) *Error {
	err := &Error{Class: class, Message: fmt.Sprintf(format, a...)}
	if node != nil {
		tok := node.GetToken()
		err.NodeID = node.ID()
		err.Line = tok.Line
		err.Column = tok.Column
	}
	if len(c.frames) > 0 {
		err.StackTrace = make([]StackFrame, len(c.frames))
		for i, f := range c.frames {
			tok := f.call.GetToken()
			err.StackTrace[i] = StackFrame{Name: f.label, Line: tok.Line, Column: tok.Column}
		}
	}
	return err
}
