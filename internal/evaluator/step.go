package evaluator

import "github.com/funvibe/jsmm/internal/ast"

// Category tells a step viewer how to highlight a fragment's node.
type Category string

const (
	CategoryInline Category = "inline"
	CategoryBlock  Category = "block"
)

// Fragment is one piece of narration attached to a node.
type Fragment struct {
	NodeID   ast.NodeID
	Category Category
	Message  string
}

// Inline builds an inline fragment for node.
func Inline(node ast.Node, msg string) Fragment {
	return Fragment{NodeID: node.ID(), Category: CategoryInline, Message: msg}
}

// Block builds a block-level fragment for node.
func Block(node ast.Node, msg string) Fragment {
	return Fragment{NodeID: node.ID(), Category: CategoryBlock, Message: msg}
}

// Assignment marks that a step changed an assignable name.
type Assignment struct {
	NodeID ast.NodeID
	Name   string
}

// Step is one atomic narrated unit of execution.
type Step struct {
	Fragments   []Fragment
	Assignments []Assignment
	// Stack holds the call labels active when the step was recorded,
	// outermost first.
	Stack []string
}

// Command records which construct or operator a node used.
type Command struct {
	NodeID ast.NodeID
	Tag    string
}
