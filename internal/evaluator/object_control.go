package evaluator

import (
	"errors"
	"fmt"

	"github.com/funvibe/jsmm/internal/ast"
	"github.com/funvibe/jsmm/internal/message"
)

type ErrorClass string

const (
	TypeError       ErrorClass = "TypeError"
	ReferenceError  ErrorClass = "ReferenceError"
	ValueError      ErrorClass = "ValueError"
	ArityError      ErrorClass = "ArityError"
	AssignmentError ErrorClass = "AssignmentError"
	HostError       ErrorClass = "HostError"
	LimitError      ErrorClass = "LimitError"
	ControlError    ErrorClass = "ControlError"
	PolicyError     ErrorClass = "PolicyError"
	InternalError   ErrorClass = "InternalError"
)

// Sentinel errors for class checks with errors.Is.
var (
	ErrType       = errors.New("type error")
	ErrReference  = errors.New("reference error")
	ErrValue      = errors.New("value error")
	ErrArity      = errors.New("arity error")
	ErrAssignment = errors.New("assignment error")
	ErrHost       = errors.New("host error")
	ErrLimit      = errors.New("limit exceeded")
	ErrControl    = errors.New("control error")
	ErrPolicy     = errors.New("command not allowed")
	ErrInternal   = errors.New("internal error")
)

var classSentinels = map[ErrorClass]error{
	TypeError:       ErrType,
	ReferenceError:  ErrReference,
	ValueError:      ErrValue,
	ArityError:      ErrArity,
	AssignmentError: ErrAssignment,
	HostError:       ErrHost,
	LimitError:      ErrLimit,
	ControlError:    ErrControl,
	PolicyError:     ErrPolicy,
	InternalError:   ErrInternal,
}

// Error is a failure attributed to a syntax node. Message uses the
// <var>...</var> markup of package message.
type Error struct {
	Class      ErrorClass
	NodeID     ast.NodeID
	Line       int
	Column     int
	Message    string
	StackTrace []StackFrame

	// Err is the failure reported by a host hook, if any.
	Err error
	// Orig is set only for uncontrolled failures (recovered panics inside
	// the evaluator). Such errors never compare equal to anything.
	Orig error
}

// StackFrame is one active user-function call at the time of the error.
type StackFrame struct {
	Name   string // call label, e.g. "f(1, 2)"
	Line   int    // call site
	Column int
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at %d:%d: %s", e.Class, e.Line, e.Column, message.Plain(e.Message))
	}
	return fmt.Sprintf("%s: %s", e.Class, message.Plain(e.Message))
}

// Inspect renders the error with its stack trace, innermost call first.
func (e *Error) Inspect() string {
	result := e.Error()
	if len(e.StackTrace) > 0 {
		result += "\nStack trace:"
		for i := len(e.StackTrace) - 1; i >= 0; i-- {
			frame := e.StackTrace[i]
			result += fmt.Sprintf("\n  at %d:%d (called %s)", frame.Line, frame.Column, frame.Name)
		}
	}
	return result
}

// HTML renders the message for a web page.
func (e *Error) HTML() string {
	return message.HTML(e.Message)
}

func (e *Error) Unwrap() error {
	if e.Orig != nil {
		return e.Orig
	}
	return e.Err
}

// Is matches the sentinel of the error's class.
func (e *Error) Is(target error) bool {
	return classSentinels[e.Class] == target
}

// Controlled reports whether the error was raised by the engine itself
// rather than recovered from an uncontrolled failure.
func (e *Error) Controlled() bool {
	return e.Orig == nil
}

// SameError reports whether two run outcomes are equivalent: both
// succeeded, or both failed with controlled errors that carry the same
// message at the same node.
func SameError(a, b *Error) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if !a.Controlled() || !b.Controlled() {
		return false
	}
	return a.Class == b.Class && a.NodeID == b.NodeID && a.Message == b.Message
}

// ReturnValue carries the value of a return statement up to the call.
type ReturnValue struct {
	Value Value
}
