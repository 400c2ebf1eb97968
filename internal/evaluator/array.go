package evaluator

import (
	"errors"
	"fmt"
	"math"

	"github.com/funvibe/jsmm/internal/config"
)

var errArrayTooLong = fmt.Errorf("Arrays cannot have more than <var>%d</var> elements", config.MaxArrayLength)

// invalidValue is returned by built-in setters for values they cannot
// store. The evaluator reports it as a ValueError.
type invalidValue string

func (v invalidValue) Error() string { return string(v) }

// Array is a growable sequence of boxed slots. A nil slot is a hole that
// has never been written.
type Array struct {
	slots  []*LocalBinding
	length *VariableBinding
}

func NewArray(values []Value) *Array {
	a := &Array{slots: make([]*LocalBinding, len(values))}
	for i, v := range values {
		a.slots[i] = &LocalBinding{Value: v}
	}
	a.length = &VariableBinding{
		Name: "length",
		Get: func(string) (Value, error) {
			return &Number{Value: float64(len(a.slots))}, nil
		},
		Set: func(_ *Context, _ string, v Value) error {
			n, ok := v.(*Number)
			if !ok || n.Value < 0 || n.Value != math.Trunc(n.Value) {
				return invalidValue(fmt.Sprintf("<var>%s</var> is not a valid array length", Stringify(v)))
			}
			if n.Value > config.MaxArrayLength {
				return errArrayTooLong
			}
			a.resize(int(n.Value))
			return nil
		},
	}
	return a
}

func (a *Array) Type() ValueType { return ARRAY_VAL }
func (a *Array) Inspect() string { return "[array]" }
func (a *Array) value()          {}

func (a *Array) Len() int { return len(a.slots) }

// Member returns the array's accessor members; only length exists.
func (a *Array) Member(name string) Value {
	if name == "length" {
		return a.length
	}
	return nil
}

// Slot returns the binding for index i. Indices below the length always
// yield a LocalBinding (holes are filled with undefined on first access);
// anything else yields a PendingArraySlot.
func (a *Array) Slot(i int) Value {
	if i < len(a.slots) {
		if a.slots[i] == nil {
			a.slots[i] = &LocalBinding{Value: UNDEFINED}
		}
		return a.slots[i]
	}
	return &PendingArraySlot{Array: a, Index: i}
}

// SetSlot writes index i, growing the array so that exactly that slot is
// materialized. Slots skipped over stay holes.
func (a *Array) SetSlot(i int, v Value) error {
	if i >= config.MaxArrayLength {
		return errArrayTooLong
	}
	if i >= len(a.slots) {
		a.resize(i + 1)
	}
	a.slots[i] = &LocalBinding{Value: v}
	return nil
}

func (a *Array) resize(n int) {
	if n <= len(a.slots) {
		a.slots = a.slots[:n]
		return
	}
	grown := make([]*LocalBinding, n)
	copy(grown, a.slots)
	a.slots = grown
}

// Values returns the element values, with undefined for holes.
func (a *Array) Values() []Value {
	out := make([]Value, len(a.slots))
	for i, s := range a.slots {
		if s == nil || s.Value == nil {
			out[i] = UNDEFINED
		} else {
			out[i] = s.Value
		}
	}
	return out
}

// isArrayLimit reports whether err is an array size limit violation.
func isArrayLimit(err error) bool {
	return errors.Is(err, errArrayTooLong)
}
