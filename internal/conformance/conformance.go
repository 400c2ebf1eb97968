// Package conformance checks that the evaluation strategies agree with each
// other. Every case runs under the safe and stepped strategies; cases that
// are expected to succeed also run unchecked. The runs must end with the
// same error and the same console output.
package conformance

import (
	"context"
	"fmt"
	"strings"

	"github.com/funvibe/jsmm/internal/backend"
	"github.com/funvibe/jsmm/internal/diagnostics"
	"github.com/funvibe/jsmm/internal/evaluator"
	"github.com/funvibe/jsmm/internal/message"
)

// Case is one program of the corpus.
type Case struct {
	Name   string
	Source string
	// Succeed marks programs whose unchecked run must agree with the
	// checked ones. Programs that rely on checks raw JavaScript does not
	// perform leave it false.
	Succeed bool
}

// Report is the verdict for one case.
type Report struct {
	Case    Case
	Failure string
}

// Passed reports whether all strategies agreed.
func (r Report) Passed() bool { return r.Failure == "" }

func (r Report) String() string {
	name := strings.ReplaceAll(r.Case.Name, "_", " ")
	if r.Passed() {
		return fmt.Sprintf("Test %q completed successfully!", name)
	}
	return fmt.Sprintf("In test %q %s", name, r.Failure)
}

// run is what one strategy produced for a case.
type run struct {
	name   string
	syntax *diagnostics.DiagnosticError
	err    *evaluator.Error
	output string
}

func (r run) describeError() string {
	switch {
	case r.syntax != nil:
		return message.Plain(r.syntax.Message)
	case r.err != nil:
		return r.err.Inspect()
	}
	return "null"
}

// Run executes c under every applicable strategy, each with a fresh console.
func Run(ctx context.Context, c Case) Report {
	backends := []backend.Backend{backend.NewSafe(), backend.NewStep()}
	if c.Succeed {
		backends = append([]backend.Backend{backend.NewRaw()}, backends...)
	}

	runs := make([]run, 0, len(backends))
	for _, b := range backends {
		out, err := backend.Execute(b, backend.Request{Context: ctx, Path: c.Name + ".js", Source: c.Source})
		if err != nil {
			return Report{Case: c, Failure: fmt.Sprintf("could not run under %s: %v", b.Name(), err)}
		}
		runs = append(runs, run{
			name:   b.Name(),
			syntax: out.SyntaxError(),
			err:    out.Err(),
			output: out.Console.Output(),
		})
	}

	for i := 1; i < len(runs); i++ {
		a, b := runs[i-1], runs[i]
		if !sameFailure(a, b) {
			return Report{Case: c, Failure: mismatch("error", a, b, a.describeError(), b.describeError(), c.Source)}
		}
		if a.output != b.output {
			return Report{Case: c, Failure: mismatch("console", a, b, a.output, b.output, c.Source)}
		}
	}
	return Report{Case: c}
}

// RunAll runs every case in order.
func RunAll(ctx context.Context, cases []Case) []Report {
	reports := make([]Report, 0, len(cases))
	for _, c := range cases {
		reports = append(reports, Run(ctx, c))
	}
	return reports
}

// Summary renders the closing line of a corpus run.
func Summary(reports []Report) string {
	failed := 0
	for _, r := range reports {
		if !r.Passed() {
			failed++
		}
	}
	switch failed {
	case 0:
		return "All tests completed successfully!"
	case 1:
		return "Unfortunately 1 test failed..."
	}
	return fmt.Sprintf("Unfortunately %d tests failed...", failed)
}

// sameFailure compares syntax errors by message and runtime errors with
// evaluator.SameError.
func sameFailure(a, b run) bool {
	if a.syntax != nil || b.syntax != nil {
		return a.syntax != nil && b.syntax != nil && a.syntax.Message == b.syntax.Message
	}
	return evaluator.SameError(a.err, b.err)
}

func mismatch(what string, a, b run, left, right, code string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s and %s %s were incorrect.\n", what, a.name, what, b.name)
	fmt.Fprintf(&sb, "%s %s:\n%s\n", what, a.name, left)
	fmt.Fprintf(&sb, "%s %s:\n%s\n", what, b.name, right)
	fmt.Fprintf(&sb, "code:\n%s", code)
	return sb.String()
}
