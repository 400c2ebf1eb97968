package parser

import (
	"math"
	"strconv"

	oast "github.com/robertkrimen/otto/ast"
	otoken "github.com/robertkrimen/otto/token"

	"github.com/funvibe/jsmm/internal/ast"
)

var binarySymbols = map[otoken.Token]string{
	otoken.PLUS:             "+",
	otoken.MINUS:            "-",
	otoken.MULTIPLY:         "*",
	otoken.SLASH:            "/",
	otoken.REMAINDER:        "%",
	otoken.LESS:             "<",
	otoken.GREATER:          ">",
	otoken.LESS_OR_EQUAL:    "<=",
	otoken.GREATER_OR_EQUAL: ">=",
	otoken.EQUAL:            "==",
	otoken.NOT_EQUAL:        "!=",
	otoken.LOGICAL_AND:      "&&",
	otoken.LOGICAL_OR:       "||",
}

var unarySymbols = map[otoken.Token]string{
	otoken.NOT:   "!",
	otoken.PLUS:  "+",
	otoken.MINUS: "-",
}

func (c *converter) expression(e oast.Expression) (ast.Expression, error) {
	switch e := e.(type) {
	case *oast.NumberLiteral:
		nl := &ast.NumberLiteral{Base: c.base(c.tok(e.Idx, e.Literal)), Literal: e.Literal}
		switch v := e.Value.(type) {
		case float64:
			nl.Value = v
		case int64:
			nl.Value = float64(v)
		default:
			f, err := strconv.ParseFloat(e.Literal, 64)
			if err != nil {
				f = math.NaN()
			}
			nl.Value = f
		}
		return nl, nil

	case *oast.StringLiteral:
		return &ast.StringLiteral{Base: c.base(c.tok(e.Idx, e.Literal)), Value: e.Value, Literal: e.Literal}, nil

	case *oast.BooleanLiteral:
		return &ast.BooleanLiteral{Base: c.base(c.tok(e.Idx, e.Literal)), Value: e.Value}, nil

	case *oast.NullLiteral:
		return &ast.NullLiteral{Base: c.base(c.tok(e.Idx, "null"))}, nil

	case *oast.Identifier, *oast.DotExpression, *oast.BracketExpression:
		return c.identifier(e)

	case *oast.CallExpression:
		return c.call(e)

	case *oast.ArrayLiteral:
		ad := &ast.ArrayDefinition{Base: c.base(c.tok(e.LeftBracket, "["))}
		for _, el := range e.Value {
			if el == nil {
				return nil, c.unsupported(e.LeftBracket, "Arrays cannot have empty elements")
			}
			v, err := c.expression(el)
			if err != nil {
				return nil, err
			}
			ad.Expressions = append(ad.Expressions, v)
		}
		return ad, nil

	case *oast.BinaryExpression:
		symbol, ok := binarySymbols[e.Operator]
		if !ok {
			switch e.Operator {
			case otoken.STRICT_EQUAL:
				return nil, c.unsupported(e.Idx0(), "Use <var>==</var> instead of <var>===</var>")
			case otoken.STRICT_NOT_EQUAL:
				return nil, c.unsupported(e.Idx0(), "Use <var>!=</var> instead of <var>!==</var>")
			}
			return nil, c.unsupported(e.Idx0(), "Operator <var>%s</var> is not supported", e.Operator.String())
		}
		be := &ast.BinaryExpression{Base: c.base(c.tok(e.Idx0(), symbol)), Symbol: symbol}
		left, err := c.expression(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.expression(e.Right)
		if err != nil {
			return nil, err
		}
		be.Left, be.Right = left, right
		return be, nil

	case *oast.UnaryExpression:
		if e.Operator == otoken.INCREMENT || e.Operator == otoken.DECREMENT {
			return nil, c.unsupported(e.Idx0(), "<var>%s</var> can only be used as a separate statement", e.Operator.String())
		}
		symbol, ok := unarySymbols[e.Operator]
		if !ok {
			return nil, c.unsupported(e.Idx0(), "Operator <var>%s</var> is not supported", e.Operator.String())
		}
		ue := &ast.UnaryExpression{Base: c.base(c.tok(e.Idx0(), symbol)), Symbol: symbol}
		operand, err := c.expression(e.Operand)
		if err != nil {
			return nil, err
		}
		ue.Expression = operand
		return ue, nil

	case *oast.AssignExpression:
		return nil, c.unsupported(e.Idx0(), "Assignments can only be used as separate statements")
	case *oast.FunctionLiteral:
		return nil, c.unsupported(e.Idx0(), "Functions can only be declared at the top level")
	case *oast.ObjectLiteral:
		return nil, c.unsupported(e.Idx0(), "Objects cannot be created in jsmm")
	case *oast.ConditionalExpression:
		return nil, c.unsupported(e.Idx0(), "The <var>? :</var> operator is not supported, use <var>if</var>")
	case *oast.NewExpression:
		return nil, c.unsupported(e.Idx0(), "<var>new</var> is not supported")
	case *oast.ThisExpression:
		return nil, c.unsupported(e.Idx0(), "<var>this</var> is not supported")
	case *oast.SequenceExpression:
		return nil, c.unsupported(e.Idx0(), "The <var>,</var> operator is not supported")
	case *oast.RegExpLiteral:
		return nil, c.unsupported(e.Idx0(), "Regular expressions are not supported")
	}
	return nil, c.unsupported(e.Idx0(), "This kind of expression is not supported")
}

// identifier converts an assignable expression: a name, a member access or an index.
func (c *converter) identifier(e oast.Expression) (ast.Identifier, error) {
	switch e := e.(type) {
	case *oast.Identifier:
		return &ast.NameIdentifier{Base: c.base(c.tok(e.Idx, e.Name)), Name: e.Name}, nil

	case *oast.DotExpression:
		oi := &ast.ObjectIdentifier{Base: c.base(c.tok(e.Idx0(), e.Identifier.Name)), Property: e.Identifier.Name}
		left, err := c.expression(e.Left)
		if err != nil {
			return nil, err
		}
		oi.Identifier = left
		return oi, nil

	case *oast.BracketExpression:
		ai := &ast.ArrayIdentifier{Base: c.base(c.tok(e.Idx0(), "["))}
		left, err := c.expression(e.Left)
		if err != nil {
			return nil, err
		}
		index, err := c.expression(e.Member)
		if err != nil {
			return nil, err
		}
		ai.Identifier, ai.Expression = left, index
		return ai, nil
	}
	return nil, c.unsupported(e.Idx0(), "Only variables, properties and array elements can be assigned to")
}

func (c *converter) call(e *oast.CallExpression) (*ast.FunctionCall, error) {
	fc := &ast.FunctionCall{Base: c.base(c.tok(e.Idx0(), "("))}
	callee, err := c.expression(e.Callee)
	if err != nil {
		return nil, err
	}
	fc.Identifier = callee
	fc.Token.Lexeme = callee.Code()
	for _, arg := range e.ArgumentList {
		v, err := c.expression(arg)
		if err != nil {
			return nil, err
		}
		fc.Arguments = append(fc.Arguments, v)
	}
	return fc, nil
}
