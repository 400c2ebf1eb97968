// Package jsmm embeds the interpreter in Go programs.
//
//	r, _ := jsmm.New("safe")
//	r.Bind("double", func(x int) int { return x * 2 })
//	out, err := r.Run(ctx, "console.log(double(21));")
package jsmm

import (
	"context"
	"fmt"
	"sort"

	"github.com/funvibe/jsmm/internal/backend"
	"github.com/funvibe/jsmm/internal/evaluator"
	"github.com/funvibe/jsmm/internal/hosts"
	"github.com/funvibe/jsmm/internal/message"
)

const syntaxErrorClass = "SyntaxError"

// Error is a failed run. Class is one of the runtime error classes or
// "SyntaxError"; Message is plain text.
type Error struct {
	Class   string
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", e.Class, e.Line, e.Column, e.Message)
}

// Runner runs programs against a set of Go bindings. A Runner is not safe
// for concurrent use; every Run gets a fresh console and scope.
type Runner struct {
	backend    backend.Backend
	options    evaluator.Options
	hosts      []string
	bindings   map[string]interface{}
	marshaller *Marshaller
}

// New creates a runner for the named strategy: "raw", "safe" or "step".
func New(strategy string) (*Runner, error) {
	b, err := backend.ForStrategy(strategy)
	if err != nil {
		return nil, err
	}
	return &Runner{
		backend:    b,
		bindings:   make(map[string]interface{}),
		marshaller: NewMarshaller(),
	}, nil
}

// SetLimits bounds executed statements and call depth. Zero statements
// means no bound; zero depth means the default.
func (r *Runner) SetLimits(statements, callDepth int) {
	r.options.MaxStatements = statements
	r.options.MaxCallDepth = callDepth
}

// Restrict limits the commands programs may use. See the exercise file
// format for the tag names.
func (r *Runner) Restrict(allow, deny []string) {
	r.options.Filter = evaluator.NewCommandFilter(allow, deny)
}

// SetHosts chooses the host bindings; nil restores the default.
func (r *Runner) SetHosts(names []string) error {
	for _, name := range names {
		if !hosts.Valid(name) {
			return fmt.Errorf("unknown host %q", name)
		}
	}
	r.hosts = names
	return nil
}

// Bind makes val available to programs as the global name. The value is
// converted on every Run, so programs never see each other's changes to
// arrays; struct pointers are shared with the caller.
func (r *Runner) Bind(name string, val interface{}) error {
	if hosts.Valid(name) {
		return fmt.Errorf("%q is a host name", name)
	}
	if _, err := r.marshaller.ToValue(name, val); err != nil {
		return err
	}
	r.bindings[name] = val
	return nil
}

// Bindings returns the bound names, sorted.
func (r *Runner) Bindings() []string {
	names := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes source and returns its console output. Program failures
// are returned as *Error together with the output logged before them.
func (r *Runner) Run(ctx context.Context, source string) (string, error) {
	globals := make(map[string]evaluator.Value, len(r.bindings))
	for name, val := range r.bindings {
		v, err := r.marshaller.ToValue(name, val)
		if err != nil {
			return "", err
		}
		globals[name] = v
	}

	out, err := backend.Execute(r.backend, backend.Request{
		Context: ctx,
		Path:    "main.js",
		Source:  source,
		Options: r.options,
		Hosts:   r.hosts,
		Globals: globals,
	})
	if err != nil {
		return "", err
	}
	output := out.Console.Output()
	if d := out.SyntaxError(); d != nil {
		return output, &Error{Class: syntaxErrorClass, Message: message.Plain(d.Message), Line: d.Token.Line, Column: d.Token.Column}
	}
	if e := out.Err(); e != nil {
		return output, &Error{Class: string(e.Class), Message: message.Plain(e.Message), Line: e.Line, Column: e.Column}
	}
	return output, nil
}
