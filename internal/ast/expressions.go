package ast

import "strconv"

// BinaryExpression is Left Symbol Right.
type BinaryExpression struct {
	Base
	Left   Expression
	Symbol string
	Right  Expression
}

func (be *BinaryExpression) expressionNode() {}
func (be *BinaryExpression) Code() string   { return printExpression(be) }

// UnaryExpression is a prefix !, + or -.
type UnaryExpression struct {
	Base
	Symbol     string
	Expression Expression
}

func (ue *UnaryExpression) expressionNode() {}
func (ue *UnaryExpression) Code() string   { return printExpression(ue) }

// NumberLiteral keeps the literal text as written so that Code() round-trips.
type NumberLiteral struct {
	Base
	Value   float64
	Literal string
}

func (nl *NumberLiteral) expressionNode() {}
func (nl *NumberLiteral) Code() string {
	if nl.Literal != "" {
		return nl.Literal
	}
	return strconv.FormatFloat(nl.Value, 'g', -1, 64)
}

type StringLiteral struct {
	Base
	Value   string
	Literal string
}

func (sl *StringLiteral) expressionNode() {}
func (sl *StringLiteral) Code() string {
	if sl.Literal != "" {
		return sl.Literal
	}
	return strconv.Quote(sl.Value)
}

type BooleanLiteral struct {
	Base
	Value bool
}

func (bl *BooleanLiteral) expressionNode() {}
func (bl *BooleanLiteral) Code() string   { return strconv.FormatBool(bl.Value) }

type NullLiteral struct {
	Base
}

func (nl *NullLiteral) expressionNode() {}
func (nl *NullLiteral) Code() string   { return "null" }

// NameIdentifier is a bare name.
type NameIdentifier struct {
	Base
	Name string
}

func (ni *NameIdentifier) expressionNode() {}
func (ni *NameIdentifier) identifierNode() {}
func (ni *NameIdentifier) Code() string   { return ni.Name }

// ObjectIdentifier is member access: Identifier.Property.
type ObjectIdentifier struct {
	Base
	Identifier Expression
	Property   string
}

func (oi *ObjectIdentifier) expressionNode() {}
func (oi *ObjectIdentifier) identifierNode() {}
func (oi *ObjectIdentifier) Code() string   { return printExpression(oi) }

// ArrayIdentifier is indexing: Identifier[Expression].
type ArrayIdentifier struct {
	Base
	Identifier Expression
	Expression Expression
}

func (ai *ArrayIdentifier) expressionNode() {}
func (ai *ArrayIdentifier) identifierNode() {}
func (ai *ArrayIdentifier) Code() string   { return printExpression(ai) }

// FunctionCall is Identifier(Arguments...).
type FunctionCall struct {
	Base
	Identifier Expression
	Arguments  []Expression
}

func (fc *FunctionCall) expressionNode() {}
func (fc *FunctionCall) Code() string   { return printExpression(fc) }

// ArrayDefinition is an array literal.
type ArrayDefinition struct {
	Base
	Expressions []Expression
}

func (ad *ArrayDefinition) expressionNode() {}
func (ad *ArrayDefinition) Code() string   { return printExpression(ad) }
