package parser

import (
	"github.com/robertkrimen/otto/file"
	oast "github.com/robertkrimen/otto/ast"
	otoken "github.com/robertkrimen/otto/token"

	"github.com/funvibe/jsmm/internal/ast"
)

func (c *converter) statements(list []oast.Statement, top bool) ([]ast.Statement, error) {
	var out []ast.Statement
	for _, s := range list {
		stmt, err := c.statement(s, top)
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			out = append(out, stmt)
		}
	}
	return out, nil
}

// block converts the body of if/while/for/function, which must be braced.
func (c *converter) block(s oast.Statement, keyword string) ([]ast.Statement, error) {
	b, ok := s.(*oast.BlockStatement)
	if !ok {
		return nil, c.unsupported(s.Idx0(), "Use { and } around the body of %s", keyword)
	}
	return c.statements(b.List, false)
}

func (c *converter) statement(s oast.Statement, top bool) (ast.Statement, error) {
	switch s := s.(type) {
	case *oast.EmptyStatement:
		return nil, nil

	case *oast.ExpressionStatement:
		if err := c.semicolon(s.Idx1()); err != nil {
			return nil, err
		}
		return c.simpleStatement(s.Expression)

	case *oast.VariableStatement:
		if err := c.semicolon(varEnd(s)); err != nil {
			return nil, err
		}
		return c.varStatement(s.Var, s.List)

	case *oast.IfStatement:
		return c.ifBlock(s)

	case *oast.WhileStatement:
		wb := &ast.WhileBlock{Base: c.base(c.tok(s.While, "while"))}
		guard, err := c.expression(s.Test)
		if err != nil {
			return nil, err
		}
		wb.Expression = guard
		if wb.Statements, err = c.block(s.Body, "while"); err != nil {
			return nil, err
		}
		return wb, nil

	case *oast.ForStatement:
		return c.forBlock(s)

	case *oast.FunctionStatement:
		if !top {
			return nil, c.unsupported(s.Idx0(), "Functions can only be declared at the top level")
		}
		return c.functionDeclaration(s.Function)

	case *oast.ReturnStatement:
		end := s.Return + file.Idx(len("return"))
		if s.Argument != nil {
			end = s.Argument.Idx1()
		}
		if err := c.semicolon(end); err != nil {
			return nil, err
		}
		rs := &ast.ReturnStatement{Base: c.base(c.tok(s.Return, "return"))}
		if s.Argument != nil {
			arg, err := c.expression(s.Argument)
			if err != nil {
				return nil, err
			}
			rs.Expression = arg
		}
		return rs, nil

	case *oast.BlockStatement:
		return nil, c.unsupported(s.Idx0(), "Blocks can only be used after if, else, while, for and function")
	case *oast.BranchStatement:
		return nil, c.unsupported(s.Idx0(), "<var>%s</var> is not supported", s.Token.String())
	case *oast.DoWhileStatement:
		return nil, c.unsupported(s.Idx0(), "<var>do</var> loops are not supported, use <var>while</var>")
	case *oast.ForInStatement:
		return nil, c.unsupported(s.Idx0(), "<var>for in</var> loops are not supported")
	case *oast.SwitchStatement:
		return nil, c.unsupported(s.Idx0(), "<var>switch</var> is not supported, use <var>if</var>")
	case *oast.TryStatement, *oast.ThrowStatement:
		return nil, c.unsupported(s.Idx0(), "Exceptions are not supported")
	}
	return nil, c.unsupported(s.Idx0(), "This kind of statement is not supported")
}

// simpleStatement converts an expression used as a statement: an
// assignment, a postfix increment or a call.
func (c *converter) simpleStatement(e oast.Expression) (ast.Statement, error) {
	switch e := e.(type) {
	case *oast.AssignExpression:
		return c.assignment(e)

	case *oast.UnaryExpression:
		if e.Operator == otoken.INCREMENT || e.Operator == otoken.DECREMENT {
			if !e.Postfix {
				return nil, c.unsupported(e.Idx0(), "Use <var>i%s</var> instead of <var>%si</var>", e.Operator.String(), e.Operator.String())
			}
			ps := &ast.PostfixStatement{Base: c.base(c.tok(e.Idx0(), e.Operator.String())), Symbol: e.Operator.String()}
			target, err := c.identifier(e.Operand)
			if err != nil {
				return nil, err
			}
			ps.Identifier = target
			return ps, nil
		}

	case *oast.CallExpression:
		cs := &ast.CallStatement{Base: c.base(c.tok(e.Idx0(), ""))}
		call, err := c.call(e)
		if err != nil {
			return nil, err
		}
		cs.Call = call
		cs.Token.Lexeme = call.Token.Lexeme
		return cs, nil
	}
	return nil, c.unsupported(e.Idx0(), "Only assignments, increments and function calls can be used as statements")
}

var assignSymbols = map[otoken.Token]string{
	otoken.ASSIGN:    "=",
	otoken.PLUS:      "+=",
	otoken.MINUS:     "-=",
	otoken.MULTIPLY:  "*=",
	otoken.SLASH:     "/=",
	otoken.REMAINDER: "%=",
}

func (c *converter) assignment(e *oast.AssignExpression) (*ast.AssignmentStatement, error) {
	symbol, ok := assignSymbols[e.Operator]
	if !ok {
		return nil, c.unsupported(e.Idx0(), "Operator <var>%s=</var> is not supported", e.Operator.String())
	}
	as := &ast.AssignmentStatement{Base: c.base(c.tok(e.Idx0(), symbol)), Symbol: symbol}
	target, err := c.identifier(e.Left)
	if err != nil {
		return nil, err
	}
	as.Identifier = target
	if as.Expression, err = c.expression(e.Right); err != nil {
		return nil, err
	}
	return as, nil
}

func (c *converter) varStatement(idx file.Idx, list []oast.Expression) (*ast.VarStatement, error) {
	vs := &ast.VarStatement{Base: c.base(c.tok(idx, "var"))}
	for _, e := range list {
		ve, ok := e.(*oast.VariableExpression)
		if !ok {
			return nil, c.unsupported(e.Idx0(), "Only names can be declared with <var>var</var>")
		}
		item := &ast.VarItem{Base: c.base(c.tok(ve.Idx, ve.Name)), Name: ve.Name}
		if ve.Initializer != nil {
			as := &ast.AssignmentStatement{Base: c.base(c.tok(ve.Idx, "=")), Symbol: "="}
			as.Identifier = &ast.NameIdentifier{Base: c.base(c.tok(ve.Idx, ve.Name)), Name: ve.Name}
			value, err := c.expression(ve.Initializer)
			if err != nil {
				return nil, err
			}
			as.Expression = value
			item.Assignment = as
		}
		vs.Items = append(vs.Items, item)
	}
	return vs, nil
}

func (c *converter) ifBlock(s *oast.IfStatement) (*ast.IfBlock, error) {
	ib := &ast.IfBlock{Base: c.base(c.tok(s.If, "if"))}
	guard, err := c.expression(s.Test)
	if err != nil {
		return nil, err
	}
	ib.Expression = guard
	if ib.Statements, err = c.block(s.Consequent, "if"); err != nil {
		return nil, err
	}

	switch alt := s.Alternate.(type) {
	case nil:
	case *oast.IfStatement:
		eb := &ast.ElseIfBlock{Base: c.base(c.tok(alt.If, "else"))}
		if eb.IfBlock, err = c.ifBlock(alt); err != nil {
			return nil, err
		}
		ib.Else = eb
	default:
		eb := &ast.ElseBlock{Base: c.base(c.tok(alt.Idx0(), "else"))}
		if eb.Statements, err = c.block(alt, "else"); err != nil {
			return nil, err
		}
		ib.Else = eb
	}
	return ib, nil
}

func (c *converter) forBlock(s *oast.ForStatement) (*ast.ForBlock, error) {
	fb := &ast.ForBlock{Base: c.base(c.tok(s.For, "for"))}
	var err error

	switch init := s.Initializer.(type) {
	case nil:
	case *oast.SequenceExpression:
		if fb.Init, err = c.forVars(init); err != nil {
			return nil, err
		}
	case *oast.VariableExpression:
		if fb.Init, err = c.varStatement(init.Idx0(), []oast.Expression{init}); err != nil {
			return nil, err
		}
	default:
		if fb.Init, err = c.simpleStatement(init); err != nil {
			return nil, err
		}
	}

	if s.Test == nil {
		return nil, c.unsupported(s.For, "A <var>for</var> loop needs a condition")
	}
	if fb.Expression, err = c.expression(s.Test); err != nil {
		return nil, err
	}
	if s.Update != nil {
		if fb.Update, err = c.simpleStatement(s.Update); err != nil {
			return nil, err
		}
	}
	if fb.Statements, err = c.block(s.Body, "for"); err != nil {
		return nil, err
	}
	return fb, nil
}

// forVars handles "for (var i = 0, j = 1; ...)", which otto hands over as a
// sequence of variable expressions.
func (c *converter) forVars(seq *oast.SequenceExpression) (ast.Statement, error) {
	for _, e := range seq.Sequence {
		if _, ok := e.(*oast.VariableExpression); !ok {
			return nil, c.unsupported(seq.Idx0(), "Only one statement can be used at the start of a <var>for</var> loop")
		}
	}
	if len(seq.Sequence) == 0 {
		return nil, nil
	}
	return c.varStatement(seq.Idx0(), seq.Sequence)
}

func (c *converter) functionDeclaration(fl *oast.FunctionLiteral) (*ast.FunctionDeclaration, error) {
	if fl.Name == nil {
		return nil, c.unsupported(fl.Idx0(), "A function needs a name")
	}
	fd := &ast.FunctionDeclaration{Base: c.base(c.tok(fl.Idx0(), "function")), Name: fl.Name.Name}
	if fl.ParameterList != nil {
		seen := make(map[string]bool)
		for _, p := range fl.ParameterList.List {
			if seen[p.Name] {
				return nil, c.unsupported(p.Idx0(), "Parameter <var>%s</var> is used twice", p.Name)
			}
			seen[p.Name] = true
			fd.Params = append(fd.Params, p.Name)
		}
	}
	body, err := c.block(fl.Body, "function")
	if err != nil {
		return nil, err
	}
	fd.Statements = body
	return fd, nil
}

// varEnd is the index just past the last declared item. otto counts one
// character too many for a declaration without initializer.
func varEnd(s *oast.VariableStatement) file.Idx {
	if len(s.List) == 0 {
		return s.Var + file.Idx(len("var"))
	}
	if ve, ok := s.List[len(s.List)-1].(*oast.VariableExpression); ok && ve.Initializer == nil {
		return ve.Idx + file.Idx(len(ve.Name))
	}
	return s.Idx1()
}
