package evaluator

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/funvibe/jsmm/internal/ast"
)

// maxEvalDepth bounds expression nesting so that deeply nested input
// fails cleanly instead of exhausting the Go stack.
const maxEvalDepth = 10000

// Options configure one evaluator.
type Options struct {
	Strategy Strategy
	// Filter restricts command tags. Nil allows everything.
	Filter *CommandFilter
	// MaxStatements bounds executed statements plus loop guards.
	// Zero means no bound.
	MaxStatements int
	// MaxCallDepth bounds nested calls. Zero means the default.
	MaxCallDepth int
	// Limiter is consulted in addition to MaxStatements.
	Limiter Limiter
}

// Result is the outcome of a run.
type Result struct {
	Strategy   Strategy
	Err        *Error
	Commands   []Command
	Steps      []Step
	Statements int
}

// Failed reports whether the run ended with an error.
func (r *Result) Failed() bool {
	return r.Err != nil
}

type Evaluator struct {
	// Context for cancellation and deadlines
	Context context.Context

	opts   Options
	rec    *Context
	budget *StepBudget

	evalDepth int
}

func New(opts Options) *Evaluator {
	return &Evaluator{Context: context.Background(), opts: opts}
}

func (e *Evaluator) raw() bool {
	return e.opts.Strategy == Raw
}

// Run executes program with the given global bindings. Each call starts
// from fresh state; globals are bound into a new global scope, so host
// objects may be shared between runs only if they keep their own state
// per run.
func (e *Evaluator) Run(program *ast.Program, globals map[string]Value) (res *Result) {
	e.rec = newContext(e, globals)
	e.budget = NewStepBudget(e.opts.MaxStatements)
	e.evalDepth = 0

	res = &Result{Strategy: e.opts.Strategy}
	defer func() {
		if r := recover(); r != nil {
			res.Err = &Error{
				Class:   InternalError,
				Message: fmt.Sprintf("Internal error: <var>%v</var>", r),
				Orig:    fmt.Errorf("panic: %v\n%s", r, debug.Stack()),
			}
		}
		res.Commands = e.rec.commands
		res.Steps = e.rec.steps
		res.Statements = e.budget.Used()
	}()

	if program == nil {
		return res
	}
	if _, err := e.execStatements(program.Statements); err != nil {
		res.Err = e.toError(nil, err)
	}
	return res
}

// toError converts any failure into an engine error attributed to node.
func (e *Evaluator) toError(node ast.Node, err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}
	if node == nil {
		return &Error{Class: InternalError, Message: err.Error(), Orig: err}
	}
	he := e.rec.newError(HostError, node, "%s", err.Error())
	he.Err = err
	return he
}

// tick runs once per statement and once per loop guard.
func (e *Evaluator) tick(node ast.Node) error {
	if e.Context != nil {
		select {
		case <-e.Context.Done():
			return e.rec.newError(LimitError, node, "Program was stopped: <var>%v</var>", e.Context.Err())
		default:
		}
	}
	if err := e.budget.Tick(node); err != nil {
		return e.rec.newError(LimitError, node, "%s", err.Error())
	}
	if e.opts.Limiter != nil {
		if err := e.opts.Limiter.Tick(node); err != nil {
			le := e.rec.newError(LimitError, node, "%s", err.Error())
			le.Err = err
			return le
		}
	}
	return nil
}

func (e *Evaluator) execStatements(list []ast.Statement) (*ReturnValue, error) {
	for _, stmt := range list {
		ret, err := e.execStatement(stmt)
		if err != nil || ret != nil {
			return ret, err
		}
	}
	return nil, nil
}

func (e *Evaluator) execStatement(stmt ast.Statement) (*ReturnValue, error) {
	if err := e.tick(stmt); err != nil {
		return nil, err
	}
	switch node := stmt.(type) {
	case *ast.VarStatement:
		for _, item := range node.Items {
			if err := e.varItem(item); err != nil {
				return nil, err
			}
			if item.Assignment != nil {
				if err := e.execAssignment(item.Assignment); err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	case *ast.AssignmentStatement:
		return nil, e.execAssignment(node)
	case *ast.PostfixStatement:
		target, err := e.Eval(node.Identifier)
		if err != nil {
			return nil, err
		}
		return nil, e.postfix(node, target)
	case *ast.CallStatement:
		_, err := e.Eval(node.Call)
		return nil, err
	case *ast.IfBlock:
		return e.execIf(node)
	case *ast.WhileBlock:
		return e.execWhile(node)
	case *ast.ForBlock:
		return e.execFor(node)
	case *ast.FunctionDeclaration:
		return nil, e.declareFunction(node)
	case *ast.ReturnStatement:
		return e.execReturn(node)
	}
	return nil, fmt.Errorf("unknown statement %T", stmt)
}

func (e *Evaluator) execAssignment(node *ast.AssignmentStatement) error {
	target, err := e.Eval(node.Identifier)
	if err != nil {
		return err
	}
	value, err := e.Eval(node.Expression)
	if err != nil {
		return err
	}
	return e.assignment(node, target, value)
}

func (e *Evaluator) execIf(node *ast.IfBlock) (*ReturnValue, error) {
	cond, err := e.Eval(node.Expression)
	if err != nil {
		return nil, err
	}
	ok, err := e.guard(node, "if", node.Expression, cond)
	if err != nil {
		return nil, err
	}
	if ok {
		return e.execStatements(node.Statements)
	}
	switch alt := node.Else.(type) {
	case *ast.ElseIfBlock:
		if err := e.rec.AddCommand(alt, "else"); err != nil {
			return nil, err
		}
		return e.execIf(alt.IfBlock)
	case *ast.ElseBlock:
		if err := e.rec.AddCommand(alt, "else"); err != nil {
			return nil, err
		}
		return e.execStatements(alt.Statements)
	}
	return nil, nil
}

func (e *Evaluator) execWhile(node *ast.WhileBlock) (*ReturnValue, error) {
	for {
		if err := e.tick(node); err != nil {
			return nil, err
		}
		cond, err := e.Eval(node.Expression)
		if err != nil {
			return nil, err
		}
		ok, err := e.guard(node, "while", node.Expression, cond)
		if err != nil || !ok {
			return nil, err
		}
		ret, err := e.execStatements(node.Statements)
		if err != nil || ret != nil {
			return ret, err
		}
	}
}

func (e *Evaluator) execFor(node *ast.ForBlock) (*ReturnValue, error) {
	if node.Init != nil {
		if _, err := e.execStatement(node.Init); err != nil {
			return nil, err
		}
	}
	for {
		if err := e.tick(node); err != nil {
			return nil, err
		}
		cond, err := e.Eval(node.Expression)
		if err != nil {
			return nil, err
		}
		ok, err := e.guard(node, "for", node.Expression, cond)
		if err != nil || !ok {
			return nil, err
		}
		ret, err := e.execStatements(node.Statements)
		if err != nil || ret != nil {
			return ret, err
		}
		if node.Update != nil {
			if _, err := e.execStatement(node.Update); err != nil {
				return nil, err
			}
		}
	}
}

// Eval evaluates an expression. Identifiers yield bindings rather than
// values; operations unwrap them as needed.
func (e *Evaluator) Eval(expr ast.Expression) (Value, error) {
	e.evalDepth++
	defer func() { e.evalDepth-- }()
	if e.evalDepth > maxEvalDepth {
		return nil, e.rec.newError(LimitError, expr, "Expression is nested too deeply")
	}

	switch node := expr.(type) {
	case *ast.NumberLiteral:
		return &Number{Value: node.Value}, nil
	case *ast.StringLiteral:
		return &String{Value: node.Value}, nil
	case *ast.BooleanLiteral:
		return nativeBool(node.Value), nil
	case *ast.NullLiteral:
		return NULL, nil
	case *ast.NameIdentifier:
		return e.lookupName(node)
	case *ast.ObjectIdentifier:
		obj, err := e.Eval(node.Identifier)
		if err != nil {
			return nil, err
		}
		return e.member(node, obj)
	case *ast.ArrayIdentifier:
		arr, err := e.Eval(node.Identifier)
		if err != nil {
			return nil, err
		}
		idx, err := e.Eval(node.Expression)
		if err != nil {
			return nil, err
		}
		return e.index(node, arr, idx)
	case *ast.FunctionCall:
		return e.evalCall(node)
	case *ast.ArrayDefinition:
		return e.arrayDefinition(node)
	case *ast.BinaryExpression:
		if e.raw() && (node.Symbol == "&&" || node.Symbol == "||") {
			return e.rawLogical(node)
		}
		left, err := e.Eval(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.Eval(node.Right)
		if err != nil {
			return nil, err
		}
		return e.binaryExpression(node, left, right)
	case *ast.UnaryExpression:
		v, err := e.Eval(node.Expression)
		if err != nil {
			return nil, err
		}
		return e.unaryExpression(node, v)
	}
	return nil, fmt.Errorf("unknown expression %T", expr)
}

func (e *Evaluator) evalCall(node *ast.FunctionCall) (Value, error) {
	callee, err := e.Eval(node.Identifier)
	if err != nil {
		return nil, err
	}
	args := make([]Value, len(node.Arguments))
	for i, arg := range node.Arguments {
		if args[i], err = e.Eval(arg); err != nil {
			return nil, err
		}
	}
	return e.call(node, callee, args)
}
