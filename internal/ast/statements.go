package ast

// VarStatement declares one or more variables: var a, b = 1;
type VarStatement struct {
	Base
	Items []*VarItem
}

func (vs *VarStatement) statementNode() {}
func (vs *VarStatement) Code() string   { return printVarStatement(vs) }

// VarItem is a single declared name with an optional initializer, which is
// represented as an ordinary assignment to that name.
type VarItem struct {
	Base
	Name       string
	Assignment *AssignmentStatement
}

func (vi *VarItem) statementNode() {}
func (vi *VarItem) Code() string {
	if vi.Assignment != nil {
		return vi.Assignment.Code()
	}
	return vi.Name
}

// AssignmentStatement is x = e, or a compound form such as x += e.
type AssignmentStatement struct {
	Base
	Identifier Identifier
	Symbol     string
	Expression Expression
}

func (as *AssignmentStatement) statementNode() {}
func (as *AssignmentStatement) Code() string {
	return as.Identifier.Code() + " " + as.Symbol + " " + as.Expression.Code()
}

// PostfixStatement is x++ or x--.
type PostfixStatement struct {
	Base
	Identifier Identifier
	Symbol     string
}

func (ps *PostfixStatement) statementNode() {}
func (ps *PostfixStatement) Code() string   { return ps.Identifier.Code() + ps.Symbol }

// CallStatement is a function call used as a statement.
type CallStatement struct {
	Base
	Call *FunctionCall
}

func (cs *CallStatement) statementNode() {}
func (cs *CallStatement) Code() string   { return cs.Call.Code() }

// IfBlock is if (Expression) { Statements } with an optional else chain.
// Else is nil, an *ElseIfBlock or an *ElseBlock.
type IfBlock struct {
	Base
	Expression Expression
	Statements []Statement
	Else       Statement
}

func (ib *IfBlock) statementNode() {}
func (ib *IfBlock) Code() string   { return printIf(ib, 0) }

// ElseIfBlock is "else if (...) {...}".
type ElseIfBlock struct {
	Base
	IfBlock *IfBlock
}

func (eb *ElseIfBlock) statementNode() {}
func (eb *ElseIfBlock) Code() string   { return "else " + eb.IfBlock.Code() }

// ElseBlock is a trailing "else {...}".
type ElseBlock struct {
	Base
	Statements []Statement
}

func (eb *ElseBlock) statementNode() {}
func (eb *ElseBlock) Code() string {
	return "else " + printBlock(eb.Statements, 0)
}

// WhileBlock is while (Expression) { Statements }.
type WhileBlock struct {
	Base
	Expression Expression
	Statements []Statement
}

func (wb *WhileBlock) statementNode() {}
func (wb *WhileBlock) Code() string {
	return "while (" + wb.Expression.Code() + ") " + printBlock(wb.Statements, 0)
}

// ForBlock is for (Init; Expression; Update) { Statements }.
// Init and Update are simple statements: var, assignment, postfix or call.
type ForBlock struct {
	Base
	Init       Statement
	Expression Expression
	Update     Statement
	Statements []Statement
}

func (fb *ForBlock) statementNode() {}
func (fb *ForBlock) Code() string   { return printFor(fb, 0) }

// FunctionDeclaration declares a top-level function.
type FunctionDeclaration struct {
	Base
	Name       string
	Params     []string
	Statements []Statement
}

func (fd *FunctionDeclaration) statementNode() {}
func (fd *FunctionDeclaration) Code() string {
	return "function " + fd.Name + fd.ArgList() + " " + printBlock(fd.Statements, 0)
}

// ArgList renders the parameter list, e.g. "(a, b)".
func (fd *FunctionDeclaration) ArgList() string {
	return "(" + joinNames(fd.Params) + ")"
}

// ReturnStatement is return or return Expression.
type ReturnStatement struct {
	Base
	Expression Expression
}

func (rs *ReturnStatement) statementNode() {}
func (rs *ReturnStatement) Code() string {
	if rs.Expression == nil {
		return "return"
	}
	return "return " + rs.Expression.Code()
}
