package store

import (
	"github.com/funvibe/jsmm/internal/backend"
	"github.com/funvibe/jsmm/internal/message"
)

// SyntaxErrorClass is stored for programs that did not parse.
const SyntaxErrorClass = "SyntaxError"

// FromOutcome builds the record of one execution.
func FromOutcome(strategy, source string, out *backend.Outcome) *Run {
	r := &Run{Strategy: strategy, Source: source}
	if out.Console != nil {
		r.Output = out.Console.Output()
	}
	if out.Result != nil {
		r.Statements = out.Result.Statements
	}
	if d := out.SyntaxError(); d != nil {
		r.ErrorClass = SyntaxErrorClass
		r.ErrorMessage = message.Plain(d.Message)
		r.ErrorLine, r.ErrorColumn = d.Token.Line, d.Token.Column
		return r
	}
	if e := out.Err(); e != nil {
		r.ErrorClass = string(e.Class)
		r.ErrorMessage = message.Plain(e.Message)
		r.ErrorLine, r.ErrorColumn = e.Line, e.Column
	}
	return r
}
