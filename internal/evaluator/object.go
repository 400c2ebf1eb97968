package evaluator

import "github.com/funvibe/jsmm/internal/ast"

type ValueType string

const (
	UNDEFINED_VAL         = "undefined"
	NULL_VAL              = "null"
	NUMBER_VAL            = "number"
	STRING_VAL            = "string"
	BOOLEAN_VAL           = "boolean"
	ARRAY_VAL             = "array"
	OBJECT_VAL            = "object"
	FUNCTION_VAL          = "function"
	INTERNAL_FUNCTION_VAL = "internalFunction"
	VARIABLE_VAL          = "variable"
	LOCAL_VAL             = "local"
	PENDING_SLOT_VAL      = "newArrayValue"
)

// Value is a jsmm runtime value. The set of implementations is closed:
// only types in this package can satisfy it.
type Value interface {
	Type() ValueType
	Inspect() string
	value()
}

type Undefined struct{}

func (u *Undefined) Type() ValueType { return UNDEFINED_VAL }
func (u *Undefined) Inspect() string { return "undefined" }
func (u *Undefined) value()          {}

type Null struct{}

func (n *Null) Type() ValueType { return NULL_VAL }
func (n *Null) Inspect() string { return "null" }
func (n *Null) value()          {}

type Number struct {
	Value float64
}

func (n *Number) Type() ValueType { return NUMBER_VAL }
func (n *Number) Inspect() string { return Stringify(n) }
func (n *Number) value()          {}

type String struct {
	Value string
}

func (s *String) Type() ValueType { return STRING_VAL }
func (s *String) Inspect() string { return Stringify(s) }
func (s *String) value()          {}

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ValueType { return BOOLEAN_VAL }
func (b *Boolean) Inspect() string { return Stringify(b) }
func (b *Boolean) value()          {}

// Object is a namespace of named members. Each member is a *Function,
// an *InternalFunction or a *VariableBinding acting as a get/set accessor.
// The set of member names is fixed at construction.
type Object struct {
	Name    string
	Members map[string]Value
}

func (o *Object) Type() ValueType { return OBJECT_VAL }
func (o *Object) Inspect() string { return "[object]" }
func (o *Object) value()          {}

// Member returns the named member, or nil.
func (o *Object) Member(name string) Value {
	return o.Members[name]
}

// Function is a user-declared function.
type Function struct {
	Name string
	Decl *ast.FunctionDeclaration
}

func (f *Function) Type() ValueType { return FUNCTION_VAL }
func (f *Function) Inspect() string { return "[function]" }
func (f *Function) value()          {}

// HostFunction is the native implementation of an InternalFunction.
// Arguments arrive already unwrapped. A returned error is reported as a
// HostError at the call site; a nil Value means undefined.
type HostFunction func(ctx *Context, args []Value) (Value, error)

// InternalFunction is a host-native callback. It runs without a call frame
// and emits no steps of its own.
type InternalFunction struct {
	Name string
	// Info is the command tag recorded when the function is called,
	// e.g. "console.log". Defaults to Name.
	Info string
	Fn   HostFunction
}

func (f *InternalFunction) Type() ValueType { return INTERNAL_FUNCTION_VAL }
func (f *InternalFunction) Inspect() string { return "[function]" }
func (f *InternalFunction) value()          {}

// Tag returns the command tag for calls to this function.
func (f *InternalFunction) Tag() string {
	if f.Info != "" {
		return f.Info
	}
	return f.Name
}

// VariableBinding is a host-mediated name. Get is required; a nil Set makes
// the binding read-only.
type VariableBinding struct {
	Name string
	Get  func(name string) (Value, error)
	Set  func(ctx *Context, name string, v Value) error
}

func (vb *VariableBinding) Type() ValueType { return VARIABLE_VAL }
func (vb *VariableBinding) Inspect() string { return "[variable " + vb.Name + "]" }
func (vb *VariableBinding) value()          {}

// LocalBinding is a plain boxed value held by a scope or an array slot.
type LocalBinding struct {
	Value Value
}

func (lb *LocalBinding) Type() ValueType { return LOCAL_VAL }
func (lb *LocalBinding) Inspect() string {
	if lb.Value == nil {
		return "undefined"
	}
	return lb.Value.Inspect()
}
func (lb *LocalBinding) value() {}

// PendingArraySlot names an array index at or beyond the array's length.
// Reading it fails; writing to it materializes the slot.
type PendingArraySlot struct {
	Array *Array
	Index int
}

func (ps *PendingArraySlot) Type() ValueType { return PENDING_SLOT_VAL }
func (ps *PendingArraySlot) Inspect() string { return "undefined" }
func (ps *PendingArraySlot) value()          {}

var (
	UNDEFINED = &Undefined{}
	NULL      = &Null{}
	TRUE      = &Boolean{Value: true}
	FALSE     = &Boolean{Value: false}
)

func nativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// isBinding reports whether v is one of the boxed forms.
func isBinding(v Value) bool {
	switch v.(type) {
	case *VariableBinding, *LocalBinding, *PendingArraySlot:
		return true
	}
	return false
}

// isCallable reports whether v can be invoked.
func isCallable(v Value) bool {
	switch v.(type) {
	case *Function, *InternalFunction:
		return true
	}
	return false
}
