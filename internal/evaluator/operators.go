package evaluator

import (
	"math"
	"strings"

	"github.com/funvibe/jsmm/internal/ast"
)

// commandTag maps a binary or compound-assignment operator to the tag it
// records.
func commandTag(symbol string, v1, v2 Value) string {
	switch symbol {
	case "+", "+=":
		_, s1 := v1.(*String)
		_, s2 := v2.(*String)
		if s1 || s2 {
			return "+s"
		}
		if symbol == "+=" {
			return "+="
		}
		return "+"
	case "-", "*", "/", "%":
		return "+"
	case "-=", "*=", "/=", "%=":
		return "+="
	case ">", ">=", "<", "<=":
		return ">"
	case "==", "!=":
		return "=="
	case "&&", "||":
		return "&&"
	}
	return symbol
}

// runBinary applies a binary operator, or the operator part of a compound
// assignment, to two unwrapped values. The tag is recorded before any
// operand check.
func (e *Evaluator) runBinary(node ast.Node, v1 Value, symbol string, v2 Value) (Value, error) {
	if err := e.rec.AddCommand(node, commandTag(symbol, v1, v2)); err != nil {
		return nil, err
	}
	if e.raw() {
		return rawBinary(strings.TrimSuffix(symbol, "="), symbol, v1, v2), nil
	}

	switch symbol {
	case "-", "*", "/", "%", "-=", "*=", "/=", "%=", ">", ">=", "<", "<=":
		n1, ok := finiteNumber(v1)
		if !ok {
			return nil, e.notA(node, symbol, v1, "a number")
		}
		n2, ok := finiteNumber(v2)
		if !ok {
			return nil, e.notA(node, symbol, v2, "a number")
		}
		switch symbol {
		case "/", "/=", "%", "%=":
			if n2 == 0 {
				return nil, e.rec.newError(ValueError, node, "<var>%s</var> not possible since it is a division by zero", symbol)
			}
		}
		switch symbol {
		case "-", "-=":
			return &Number{Value: n1 - n2}, nil
		case "*", "*=":
			return &Number{Value: n1 * n2}, nil
		case "/", "/=":
			return &Number{Value: n1 / n2}, nil
		case "%", "%=":
			return &Number{Value: math.Mod(n1, n2)}, nil
		case ">":
			return nativeBool(n1 > n2), nil
		case ">=":
			return nativeBool(n1 >= n2), nil
		case "<":
			return nativeBool(n1 < n2), nil
		default:
			return nativeBool(n1 <= n2), nil
		}
	case "+", "+=":
		if !isNumberOrString(v1) {
			return nil, e.notA(node, symbol, v1, "a number or string")
		}
		if !isNumberOrString(v2) {
			return nil, e.notA(node, symbol, v2, "a number or string")
		}
		return add(v1, v2), nil
	case "&&", "||":
		b1, ok := v1.(*Boolean)
		if !ok {
			return nil, e.notA(node, symbol, v1, "a boolean")
		}
		b2, ok := v2.(*Boolean)
		if !ok {
			return nil, e.notA(node, symbol, v2, "a boolean")
		}
		if symbol == "&&" {
			return nativeBool(b1.Value && b2.Value), nil
		}
		return nativeBool(b1.Value || b2.Value), nil
	case "==":
		return nativeBool(looseEquals(v1, v2)), nil
	case "!=":
		return nativeBool(!looseEquals(v1, v2)), nil
	}
	return nil, e.rec.newError(InternalError, node, "Unknown operator <var>%s</var>", symbol)
}

// operandError records the tag of an operator whose operands could not be
// read, then returns the read error. Unknown operands count as numbers.
func (e *Evaluator) operandError(node ast.Node, symbol string, left Value, err error) error {
	if cerr := e.rec.AddCommand(node, commandTag(symbol, left, nil)); cerr != nil {
		return cerr
	}
	return err
}

func (e *Evaluator) notA(node ast.Node, symbol string, v Value, kind string) *Error {
	return e.rec.newError(TypeError, node, "<var>%s</var> not possible since <var>%s</var> is not %s", symbol, Stringify(v), kind)
}

func finiteNumber(v Value) (float64, bool) {
	n, ok := v.(*Number)
	if !ok || math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return 0, false
	}
	return n.Value, true
}

func isNumberOrString(v Value) bool {
	switch v.(type) {
	case *Number, *String:
		return true
	}
	return false
}

// add is JavaScript's + on primitives: concatenation when either side is
// a string, numeric addition otherwise.
func add(v1, v2 Value) Value {
	_, s1 := v1.(*String)
	_, s2 := v2.(*String)
	if s1 || s2 {
		return &String{Value: ToString(v1) + ToString(v2)}
	}
	return &Number{Value: ToNumber(v1) + ToNumber(v2)}
}

// looseEquals follows JavaScript's == for the value kinds of the language.
func looseEquals(a, b Value) bool {
	if lb, ok := a.(*LocalBinding); ok {
		a = lb.Value
	}
	if lb, ok := b.(*LocalBinding); ok {
		b = lb.Value
	}
	if a == nil {
		a = UNDEFINED
	}
	if b == nil {
		b = UNDEFINED
	}
	switch x := a.(type) {
	case *Undefined, *Null:
		switch b.(type) {
		case *Undefined, *Null:
			return true
		}
		return false
	case *Number:
		switch y := b.(type) {
		case *Number:
			return x.Value == y.Value
		case *String, *Boolean:
			return x.Value == ToNumber(y)
		case *Array, *Object:
			return looseEquals(x, &String{Value: ToString(y)})
		}
		return false
	case *String:
		switch y := b.(type) {
		case *String:
			return x.Value == y.Value
		case *Number, *Boolean:
			return ToNumber(x) == ToNumber(y)
		case *Array, *Object:
			return x.Value == ToString(y)
		}
		return false
	case *Boolean:
		if y, ok := b.(*Boolean); ok {
			return x.Value == y.Value
		}
		return looseEquals(&Number{Value: ToNumber(x)}, b)
	}
	switch b.(type) {
	case *Number, *String, *Boolean:
		return looseEquals(b, a)
	}
	return a == b
}

// rawUnwrap unboxes bindings without any checks.
func (e *Evaluator) rawUnwrap(node ast.Node, v Value) (Value, error) {
	switch x := v.(type) {
	case nil, *PendingArraySlot:
		return UNDEFINED, nil
	case *LocalBinding:
		if x.Value == nil {
			return UNDEFINED, nil
		}
		return x.Value, nil
	case *VariableBinding:
		return e.getVariable(node, x)
	}
	return v, nil
}

// rawBinary evaluates with plain JavaScript semantics. op is the operator
// with any assignment suffix removed.
func rawBinary(op, symbol string, v1, v2 Value) Value {
	switch symbol {
	case "==", "!=", ">=", "<=":
		op = symbol
	}
	switch op {
	case "+":
		if isNumberOrString(v1) && isNumberOrString(v2) {
			return add(v1, v2)
		}
		p1, p2 := toPrimitive(v1), toPrimitive(v2)
		return add(p1, p2)
	case "-":
		return &Number{Value: ToNumber(v1) - ToNumber(v2)}
	case "*":
		return &Number{Value: ToNumber(v1) * ToNumber(v2)}
	case "/":
		return &Number{Value: ToNumber(v1) / ToNumber(v2)}
	case "%":
		return &Number{Value: math.Mod(ToNumber(v1), ToNumber(v2))}
	case ">", ">=", "<", "<=":
		p1, p2 := toPrimitive(v1), toPrimitive(v2)
		s1, ok1 := p1.(*String)
		s2, ok2 := p2.(*String)
		if ok1 && ok2 {
			return nativeBool(compareOrdered(op, strings.Compare(s1.Value, s2.Value), 0))
		}
		n1, n2 := ToNumber(p1), ToNumber(p2)
		if math.IsNaN(n1) || math.IsNaN(n2) {
			return FALSE
		}
		return nativeBool(compareOrdered(op, n1, n2))
	case "==":
		return nativeBool(looseEquals(v1, v2))
	case "!=":
		return nativeBool(!looseEquals(v1, v2))
	}
	return UNDEFINED
}

func compareOrdered[T int | float64](op string, a, b T) bool {
	switch op {
	case ">":
		return a > b
	case ">=":
		return a >= b
	case "<":
		return a < b
	}
	return a <= b
}

// toPrimitive converts compound values to strings the way the + operator
// does before concatenating.
func toPrimitive(v Value) Value {
	switch v.(type) {
	case *Array, *Object, *Function, *InternalFunction:
		return &String{Value: ToString(v)}
	case *Undefined, *Null, *Number, *String, *Boolean:
		return v
	}
	return UNDEFINED
}

func rawUnary(symbol string, v Value) Value {
	switch symbol {
	case "!":
		return nativeBool(!Truthy(v))
	case "-":
		return &Number{Value: -ToNumber(v)}
	}
	return &Number{Value: ToNumber(v)}
}

// rawLogical short-circuits && and || and yields an operand, as
// JavaScript does.
func (e *Evaluator) rawLogical(node *ast.BinaryExpression) (Value, error) {
	left, err := e.Eval(node.Left)
	if err != nil {
		return nil, err
	}
	v1, err := e.rawUnwrap(node.Left, left)
	if err != nil {
		return nil, err
	}
	if Truthy(v1) == (node.Symbol == "||") {
		return v1, nil
	}
	right, err := e.Eval(node.Right)
	if err != nil {
		return nil, err
	}
	return e.rawUnwrap(node.Right, right)
}
