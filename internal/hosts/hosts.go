// Package hosts provides the host bindings programs run against: the
// console output sink and the Math namespace.
package hosts

import (
	"fmt"
	"io"

	"github.com/funvibe/jsmm/internal/config"
	"github.com/funvibe/jsmm/internal/evaluator"
)

// Default lists the hosts enabled when an exercise does not choose.
var Default = []string{config.ConsoleName, config.MathName}

// Scope builds the host scope for one run from host names. The returned
// console collects the run's output; it is non-nil even when the console
// host is not enabled.
func Scope(names []string, w io.Writer) (map[string]evaluator.Value, *Console, error) {
	if names == nil {
		names = Default
	}
	console := NewConsole(w)
	scope := make(map[string]evaluator.Value, len(names))
	for _, name := range names {
		switch name {
		case config.ConsoleName:
			scope[name] = console.Object()
		case config.MathName:
			scope[name] = Math()
		default:
			return nil, nil, fmt.Errorf("unknown host %q", name)
		}
	}
	return scope, console, nil
}

// Valid reports whether name is a known host.
func Valid(name string) bool {
	return name == config.ConsoleName || name == config.MathName
}
