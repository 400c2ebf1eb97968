// Package ast defines the jsmm syntax tree.
//
// The tree is closed: every node kind the evaluator understands is declared
// here, and the evaluator dispatches over them with one exhaustive type switch.
// Nodes carry a stable NodeID (assigned by the parser in construction order)
// so that errors, command records and step fragments can point back at them.
package ast

import "github.com/funvibe/jsmm/internal/token"

// NodeID identifies a node within one parsed program.
type NodeID int

// Node is the base interface for all syntax nodes.
type Node interface {
	ID() NodeID
	TokenLiteral() string
	GetToken() token.Token
	// Code renders canonical source text for the node.
	Code() string
}

// Statement is a Node that can appear in a statement list.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that produces a value (or a binding).
type Expression interface {
	Node
	expressionNode()
}

// Identifier is an expression that names something assignable:
// a NameIdentifier, ObjectIdentifier or ArrayIdentifier.
type Identifier interface {
	Expression
	identifierNode()
}

// Base carries the identity and position shared by every node.
type Base struct {
	NodeID NodeID
	Token  token.Token
}

func (b *Base) ID() NodeID             { return b.NodeID }
func (b *Base) TokenLiteral() string   { return b.Token.Lexeme }
func (b *Base) GetToken() token.Token { return b.Token }

// Program is the root node.
type Program struct {
	Base
	File       string
	Statements []Statement
	// Count is the number of nodes allocated while building this program.
	Count int
}

func (p *Program) Code() string { return printStatements(p.Statements, 0) }
