// Package diagnostics holds the positioned errors reported by the pipeline
// stages (parsing and execution) in a uniform shape.
package diagnostics

import (
	"fmt"

	"github.com/funvibe/jsmm/internal/token"
)

type ErrorCode string

const (
	// ErrP001 is a syntax error reported by the JavaScript parser.
	ErrP001 ErrorCode = "P001"
	// ErrP002 is valid JavaScript that is not part of jsmm.
	ErrP002 ErrorCode = "P002"
	// ErrP003 is an empty program or missing source.
	ErrP003 ErrorCode = "P003"
	// ErrR001 is a runtime error raised by the evaluator.
	ErrR001 ErrorCode = "R001"
)

// DiagnosticError is a single problem attributed to a source position.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
}

func NewError(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: message}
}

func (e *DiagnosticError) Error() string {
	loc := ""
	if e.File != "" {
		loc = e.File + ":"
	}
	if e.Token.Line > 0 {
		loc += fmt.Sprintf("%d:%d:", e.Token.Line, e.Token.Column)
	}
	if loc == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s [%s] %s", loc, e.Code, e.Message)
}

// IsSyntax reports whether the error was raised before execution.
func (e *DiagnosticError) IsSyntax() bool {
	return e.Code == ErrP001 || e.Code == ErrP002 || e.Code == ErrP003
}
