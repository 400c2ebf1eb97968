package ast

// Inspect traverses the tree rooted at node in depth-first order, calling f
// for each node. If f returns false the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		inspectStatements(n.Statements, f)
	case *VarStatement:
		for _, item := range n.Items {
			Inspect(item, f)
		}
	case *VarItem:
		if n.Assignment != nil {
			Inspect(n.Assignment, f)
		}
	case *AssignmentStatement:
		Inspect(n.Identifier, f)
		Inspect(n.Expression, f)
	case *PostfixStatement:
		Inspect(n.Identifier, f)
	case *CallStatement:
		Inspect(n.Call, f)
	case *IfBlock:
		Inspect(n.Expression, f)
		inspectStatements(n.Statements, f)
		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *ElseIfBlock:
		Inspect(n.IfBlock, f)
	case *ElseBlock:
		inspectStatements(n.Statements, f)
	case *WhileBlock:
		Inspect(n.Expression, f)
		inspectStatements(n.Statements, f)
	case *ForBlock:
		if n.Init != nil {
			Inspect(n.Init, f)
		}
		Inspect(n.Expression, f)
		if n.Update != nil {
			Inspect(n.Update, f)
		}
		inspectStatements(n.Statements, f)
	case *FunctionDeclaration:
		inspectStatements(n.Statements, f)
	case *ReturnStatement:
		if n.Expression != nil {
			Inspect(n.Expression, f)
		}
	case *BinaryExpression:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *UnaryExpression:
		Inspect(n.Expression, f)
	case *ObjectIdentifier:
		Inspect(n.Identifier, f)
	case *ArrayIdentifier:
		Inspect(n.Identifier, f)
		Inspect(n.Expression, f)
	case *FunctionCall:
		Inspect(n.Identifier, f)
		for _, arg := range n.Arguments {
			Inspect(arg, f)
		}
	case *ArrayDefinition:
		for _, e := range n.Expressions {
			Inspect(e, f)
		}
	}
}

func inspectStatements(list []Statement, f func(Node) bool) {
	for _, s := range list {
		Inspect(s, f)
	}
}

// Index maps every node of the program by its id.
func Index(p *Program) map[NodeID]Node {
	nodes := make(map[NodeID]Node, p.Count)
	Inspect(p, func(n Node) bool {
		nodes[n.ID()] = n
		return true
	})
	return nodes
}
