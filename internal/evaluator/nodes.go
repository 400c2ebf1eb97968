package evaluator

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/funvibe/jsmm/internal/ast"
	"github.com/funvibe/jsmm/internal/config"
)

// unwrap turns a binding into the value it holds, failing on values that
// cannot take part in an operation: undefined, null, non-finite numbers
// and unwritten array slots. node is the expression that produced v and
// names it in messages.
func (e *Evaluator) unwrap(node ast.Node, v Value) (Value, error) {
	if e.raw() {
		return e.rawUnwrap(node, v)
	}
	if lb, ok := v.(*LocalBinding); ok {
		v = lb.Value
	}
	switch x := v.(type) {
	case nil, *Undefined, *PendingArraySlot:
		return nil, e.rec.newError(ValueError, node, "<var>%s</var> is <var>undefined</var>", node.Code())
	case *Null:
		return nil, e.rec.newError(ValueError, node, "<var>%s</var> is <var>null</var>", node.Code())
	case *Number:
		if math.IsNaN(x.Value) || math.IsInf(x.Value, 0) {
			return nil, e.rec.newError(ValueError, node, "<var>%s</var> is not a valid number", node.Code())
		}
	case *VariableBinding:
		return e.getVariable(node, x)
	}
	return v, nil
}

func (e *Evaluator) getVariable(node ast.Node, vb *VariableBinding) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = e.rec.newError(HostError, node, "Reading <var>%s</var> failed: %v", node.Code(), r)
		}
	}()
	v, err = vb.Get(vb.Name)
	if err != nil {
		return nil, e.toError(node, err)
	}
	if v == nil {
		v = UNDEFINED
	}
	return v, nil
}

func (e *Evaluator) setVariable(node ast.Node, target ast.Node, binding Value, v Value) (err error) {
	switch b := binding.(type) {
	case *LocalBinding:
		b.Value = v
		return nil
	case *PendingArraySlot:
		if err := b.Array.SetSlot(b.Index, v); err != nil {
			return e.rec.newError(LimitError, node, "%s", err.Error())
		}
		return nil
	case *VariableBinding:
		if b.Set == nil {
			return e.rec.newError(AssignmentError, node, "Cannot assign <var>%s</var> to <var>%s</var>", Stringify(v), target.Code())
		}
		defer func() {
			if r := recover(); r != nil {
				err = e.rec.newError(HostError, node, "Assigning <var>%s</var> failed: %v", target.Code(), r)
			}
		}()
		if err := b.Set(e.rec, b.Name, v); err != nil {
			var invalid invalidValue
			switch {
			case isArrayLimit(err):
				return e.rec.newError(LimitError, node, "%s", err.Error())
			case errors.As(err, &invalid):
				return e.rec.newError(ValueError, node, "%s", invalid.Error())
			}
			return e.toError(node, err)
		}
		return nil
	}
	return e.rec.newError(AssignmentError, node, "Cannot assign <var>%s</var> to <var>%s</var>", Stringify(v), target.Code())
}

func (e *Evaluator) varItem(node *ast.VarItem) error {
	if err := e.rec.AddCommand(node, "var"); err != nil {
		return err
	}
	scope := e.rec.Scope()
	if e.raw() {
		if _, ok := scope.Local(node.Name); ok {
			return nil
		}
	}
	scope.Declare(node.Name, &LocalBinding{Value: UNDEFINED})
	if node.Assignment == nil {
		e.rec.AddAssignment(node, node.Name)
		e.rec.NewStep(Inline(node, fmt.Sprintf("<var>%s</var> = <var>undefined</var>", node.Name)))
	}
	return nil
}

func (e *Evaluator) assignment(node *ast.AssignmentStatement, target Value, exprValue Value) error {
	var value Value
	var err error
	if node.Symbol == "=" {
		if err = e.rec.AddCommand(node, "="); err != nil {
			return err
		}
		if value, err = e.unwrap(node.Expression, exprValue); err != nil {
			return err
		}
	} else {
		current, err := e.unwrap(node.Identifier, target)
		if err != nil {
			return e.operandError(node, node.Symbol, nil, err)
		}
		operand, err := e.unwrap(node.Expression, exprValue)
		if err != nil {
			return e.operandError(node, node.Symbol, current, err)
		}
		if value, err = e.runBinary(node, current, node.Symbol, operand); err != nil {
			return err
		}
	}
	if err := e.setVariable(node, node.Identifier, target, value); err != nil {
		return err
	}
	name := node.Identifier.Code()
	e.rec.AddAssignment(node, name)
	e.rec.NewStep(Inline(node, fmt.Sprintf("<var>%s</var> = <var>%s</var>", name, Stringify(value))))
	return nil
}

func (e *Evaluator) postfix(node *ast.PostfixStatement, target Value) error {
	if err := e.rec.AddCommand(node, "++"); err != nil {
		return err
	}
	current, err := e.unwrap(node.Identifier, target)
	if err != nil {
		return err
	}
	delta := 1.0
	if node.Symbol == "--" {
		delta = -1
	}
	var result Value
	if e.raw() {
		result = &Number{Value: ToNumber(current) + delta}
	} else {
		n, ok := current.(*Number)
		if !ok {
			return e.rec.newError(TypeError, node, "<var>%s</var> not possible since <var>%s</var> is not a number", node.Symbol, Stringify(current))
		}
		result = &Number{Value: n.Value + delta}
	}
	if err := e.setVariable(node, node.Identifier, target, result); err != nil {
		return err
	}
	name := node.Identifier.Code()
	e.rec.AddAssignment(node, name)
	e.rec.NewStep(Inline(node, fmt.Sprintf("<var>%s</var> = <var>%s</var>", name, Stringify(result))))
	return nil
}

// guard evaluates the condition of if, while and for. Safe strategies
// require a boolean.
func (e *Evaluator) guard(node ast.Node, tag string, expr ast.Node, cond Value) (bool, error) {
	if err := e.rec.AddCommand(node, tag); err != nil {
		return false, err
	}
	v, err := e.unwrap(expr, cond)
	if err != nil {
		return false, err
	}
	if e.raw() {
		return Truthy(v), nil
	}
	b, ok := v.(*Boolean)
	if !ok {
		return false, e.rec.newError(TypeError, node, "<var>%s</var> is not possible since <var>%s</var> is not a boolean", tag, Stringify(v))
	}
	return b.Value, nil
}

func (e *Evaluator) binaryExpression(node *ast.BinaryExpression, left, right Value) (Value, error) {
	v1, err := e.unwrap(node.Left, left)
	if err != nil {
		return nil, e.operandError(node, node.Symbol, nil, err)
	}
	v2, err := e.unwrap(node.Right, right)
	if err != nil {
		return nil, e.operandError(node, node.Symbol, v1, err)
	}
	result, err := e.runBinary(node, v1, node.Symbol, v2)
	if err != nil {
		return nil, err
	}
	e.rec.NewStep(Inline(node, fmt.Sprintf("<var>%s</var> %s <var>%s</var> = <var>%s</var>",
		Stringify(v1), node.Symbol, Stringify(v2), Stringify(result))))
	return result, nil
}

func (e *Evaluator) unaryExpression(node *ast.UnaryExpression, operand Value) (Value, error) {
	tag := "+"
	if node.Symbol == "!" {
		tag = "!"
	}
	if err := e.rec.AddCommand(node, tag); err != nil {
		return nil, err
	}
	v, err := e.unwrap(node.Expression, operand)
	if err != nil {
		return nil, err
	}
	var result Value
	if e.raw() {
		result = rawUnary(node.Symbol, v)
	} else {
		switch node.Symbol {
		case "!":
			b, ok := v.(*Boolean)
			if !ok {
				return nil, e.rec.newError(TypeError, node, "<var>!</var> not possible since <var>%s</var> is not a boolean", Stringify(v))
			}
			result = nativeBool(!b.Value)
		default:
			n, ok := v.(*Number)
			if !ok {
				return nil, e.rec.newError(TypeError, node, "<var>%s</var> not possible since <var>%s</var> is not a number", node.Symbol, Stringify(v))
			}
			if node.Symbol == "-" {
				result = &Number{Value: -n.Value}
			} else {
				result = n
			}
		}
	}
	e.rec.NewStep(Inline(node, fmt.Sprintf("<var>%s%s</var> = <var>%s</var>", node.Symbol, Stringify(v), Stringify(result))))
	return result, nil
}

func (e *Evaluator) lookupName(node *ast.NameIdentifier) (Value, error) {
	v, ok := e.rec.Scope().Find(node.Name)
	if !ok {
		return nil, e.rec.newError(ReferenceError, node, "Variable <var>%s</var> could not be found", node.Name)
	}
	return v, nil
}

func (e *Evaluator) member(node *ast.ObjectIdentifier, obj Value) (Value, error) {
	v, err := e.unwrap(node.Identifier, obj)
	if err != nil {
		return nil, err
	}
	var m Value
	switch o := v.(type) {
	case *Object:
		m = o.Member(node.Property)
	case *Array:
		m = o.Member(node.Property)
	case *String:
		if node.Property == "length" {
			m = &VariableBinding{Name: "length", Get: func(string) (Value, error) {
				return &Number{Value: float64(len([]rune(o.Value)))}, nil
			}}
		}
	default:
		return nil, e.rec.newError(TypeError, node, "Variable <var>%s</var> is not an object", node.Identifier.Code())
	}
	if m == nil {
		if e.raw() {
			return UNDEFINED, nil
		}
		return nil, e.rec.newError(ReferenceError, node, "Variable <var>%s</var> does not have property <var>%s</var>", node.Identifier.Code(), node.Property)
	}
	return m, nil
}

func (e *Evaluator) index(node *ast.ArrayIdentifier, arr Value, idx Value) (Value, error) {
	a, err := e.unwrap(node.Identifier, arr)
	if err != nil {
		return nil, err
	}
	i, err := e.unwrap(node.Expression, idx)
	if err != nil {
		return nil, err
	}
	n, ok := i.(*Number)
	if !ok || n.Value != math.Trunc(n.Value) {
		if e.raw() {
			return UNDEFINED, nil
		}
		return nil, e.rec.newError(TypeError, node, "Index <var>%s</var> is not an integer", node.Expression.Code())
	}
	if n.Value < 0 {
		if e.raw() {
			return UNDEFINED, nil
		}
		return nil, e.rec.newError(TypeError, node, "Index <var>%s</var> is negative", node.Expression.Code())
	}
	array, ok := a.(*Array)
	if !ok {
		return nil, e.rec.newError(TypeError, node, "Variable <var>%s</var> is not an array", node.Identifier.Code())
	}
	pos := config.MaxArrayLength
	if n.Value < config.MaxArrayLength {
		pos = int(n.Value)
	}
	return array.Slot(pos), nil
}

func (e *Evaluator) arrayDefinition(node *ast.ArrayDefinition) (Value, error) {
	if len(node.Expressions) > config.MaxArrayLength {
		return nil, e.rec.newError(LimitError, node, "%s", errArrayTooLong.Error())
	}
	values := make([]Value, len(node.Expressions))
	for i, expr := range node.Expressions {
		v, err := e.Eval(expr)
		if err != nil {
			return nil, err
		}
		if values[i], err = e.unwrap(expr, v); err != nil {
			return nil, err
		}
	}
	return NewArray(values), nil
}

func (e *Evaluator) call(node *ast.FunctionCall, callee Value, args []Value) (Value, error) {
	fn, err := e.unwrap(node.Identifier, callee)
	if err != nil {
		return nil, err
	}
	values := make([]Value, len(args))
	for i, arg := range args {
		if values[i], err = e.unwrap(node.Arguments[i], arg); err != nil {
			return nil, err
		}
	}
	label := callLabel(node.Identifier.Code(), values)
	e.rec.NewStep(Inline(node, fmt.Sprintf("calling <var>%s</var>", label)))

	if err := e.rec.EnterCall(node); err != nil {
		return nil, err
	}
	var ret Value
	switch f := fn.(type) {
	case *Function:
		if err := e.rec.AddCommand(node, "call"); err != nil {
			return nil, err
		}
		ret, err = e.callFunction(node, f, values)
	case *InternalFunction:
		if err := e.rec.AddCommand(node, f.Tag()); err != nil {
			return nil, err
		}
		ret, err = e.callHost(node, f, values)
	default:
		if err := e.rec.AddCommand(node, "call"); err != nil {
			return nil, err
		}
		err = e.rec.newError(ReferenceError, node, "Variable <var>%s</var> is not a function", node.Identifier.Code())
	}
	if err != nil {
		return nil, err
	}
	e.rec.LeaveCall(node)

	switch ret.(type) {
	case nil, *Null:
		ret = UNDEFINED
	case *Undefined:
	default:
		e.rec.NewStep(Inline(node, fmt.Sprintf("<var>%s</var> = <var>%s</var>", label, Stringify(ret))))
	}
	return ret, nil
}

// callFunction runs a user function: parameter binding, frame push, body
// execution and frame pop.
func (e *Evaluator) callFunction(node ast.Node, fn *Function, args []Value) (Value, error) {
	decl := fn.Decl
	if !e.raw() && len(args) < len(decl.Params) {
		return nil, e.rec.newError(ArityError, node, "Function <var>%s</var> expects <var>%d</var> arguments, but got only <var>%d</var>",
			fn.Name, len(decl.Params), len(args))
	}
	vars := make(map[string]Value, len(decl.Params))
	for i, param := range decl.Params {
		var arg Value = UNDEFINED
		if i < len(args) {
			arg = args[i]
		}
		if !e.raw() {
			switch arg.(type) {
			case nil, *Undefined:
				return nil, e.rec.newError(ValueError, node, "Variable <var>%s</var> is <var>undefined</var>", param)
			case *Null:
				return nil, e.rec.newError(ValueError, node, "Variable <var>%s</var> is <var>null</var>", param)
			}
		}
		vars[param] = &LocalBinding{Value: arg}
	}

	label := callLabel(fn.Name, args)
	e.rec.NewStep(Block(decl, fmt.Sprintf("entering <var>%s</var>", label)))
	e.rec.EnterFunction(decl, vars, label)
	ret, err := e.execStatements(decl.Statements)
	e.rec.LeaveFunction(decl)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return UNDEFINED, nil
	}
	return ret.Value, nil
}

func (e *Evaluator) callHost(node *ast.FunctionCall, fn *InternalFunction, args []Value) (ret Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			he := e.rec.newError(HostError, node, "<var>%s</var> failed: %v", node.Identifier.Code(), r)
			he.Err = fmt.Errorf("%v", r)
			ret, err = nil, he
		}
	}()
	ret, err = fn.Fn(e.rec, args)
	if err != nil {
		return nil, e.toError(node, err)
	}
	return ret, nil
}

func (e *Evaluator) declareFunction(node *ast.FunctionDeclaration) error {
	if err := e.rec.AddCommand(node, "function"); err != nil {
		return err
	}
	scope := e.rec.Scope()
	if existing, ok := scope.Local(node.Name); ok && !e.raw() {
		if lb, ok := existing.(*LocalBinding); ok {
			existing = lb.Value
		}
		if isCallable(existing) {
			return e.rec.newError(AssignmentError, node, "Function <var>%s</var> cannot be declared since there already is a function with that name", node.Name)
		}
		return e.rec.newError(AssignmentError, node, "Function <var>%s</var> cannot be declared since there already is a variable with that name", node.Name)
	}
	scope.Declare(node.Name, &Function{Name: node.Name, Decl: node})
	e.rec.AddAssignment(node, node.Name)
	e.rec.NewStep(Block(node, fmt.Sprintf("declaring <var>%s%s</var>", node.Name, node.ArgList())))
	return nil
}

func (e *Evaluator) execReturn(node *ast.ReturnStatement) (*ReturnValue, error) {
	if err := e.rec.AddCommand(node, "return"); err != nil {
		return nil, err
	}
	if !e.rec.InFunction() {
		return nil, e.rec.newError(ControlError, node, "Cannot return if not inside a function")
	}
	if node.Expression == nil {
		return &ReturnValue{Value: UNDEFINED}, nil
	}
	v, err := e.Eval(node.Expression)
	if err != nil {
		return nil, err
	}
	if v, err = e.unwrap(node.Expression, v); err != nil {
		return nil, err
	}
	e.rec.NewStep(Inline(node, fmt.Sprintf("returning <var>%s</var>", Stringify(v))))
	return &ReturnValue{Value: v}, nil
}

// callLabel renders "name(arg, ...)" for steps and stack frames.
func callLabel(name string, args []Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Stringify(a)
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}
