package ast

import "strings"

const indentUnit = "  "

// Binding strength of expression forms, loosest first.
const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precMember
)

func binaryPrecedence(symbol string) int {
	switch symbol {
	case "||":
		return precOr
	case "&&":
		return precAnd
	case "==", "!=":
		return precEquality
	case "<", ">", "<=", ">=":
		return precRelational
	case "+", "-":
		return precAdditive
	case "*", "/", "%":
		return precMultiplicative
	}
	return precLowest
}

func precedence(e Expression) int {
	switch e := e.(type) {
	case *BinaryExpression:
		return binaryPrecedence(e.Symbol)
	case *UnaryExpression:
		return precUnary
	default:
		return precMember
	}
}

func wrap(e Expression, needParens bool) string {
	if needParens {
		return "(" + e.Code() + ")"
	}
	return e.Code()
}

func printExpression(e Expression) string {
	switch e := e.(type) {
	case *BinaryExpression:
		p := binaryPrecedence(e.Symbol)
		// Operators are left-associative, so an equal-precedence right child needs parentheses.
		return wrap(e.Left, precedence(e.Left) < p) + " " + e.Symbol + " " + wrap(e.Right, precedence(e.Right) <= p)
	case *UnaryExpression:
		return e.Symbol + wrap(e.Expression, precedence(e.Expression) < precUnary)
	case *ObjectIdentifier:
		return wrap(e.Identifier, precedence(e.Identifier) < precMember) + "." + e.Property
	case *ArrayIdentifier:
		return wrap(e.Identifier, precedence(e.Identifier) < precMember) + "[" + e.Expression.Code() + "]"
	case *FunctionCall:
		return wrap(e.Identifier, precedence(e.Identifier) < precMember) + "(" + joinCodes(e.Arguments) + ")"
	case *ArrayDefinition:
		return "[" + joinCodes(e.Expressions) + "]"
	}
	return e.Code()
}

func joinCodes(list []Expression) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = e.Code()
	}
	return strings.Join(parts, ", ")
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}

func printVarStatement(vs *VarStatement) string {
	parts := make([]string, len(vs.Items))
	for i, item := range vs.Items {
		parts[i] = item.Code()
	}
	return "var " + strings.Join(parts, ", ")
}

// simpleCode renders a statement that may appear in a for header.
func simpleCode(s Statement) string {
	if s == nil {
		return ""
	}
	return s.Code()
}

func printFor(fb *ForBlock, indent int) string {
	guard := ""
	if fb.Expression != nil {
		guard = fb.Expression.Code()
	}
	return "for (" + simpleCode(fb.Init) + "; " + guard + "; " + simpleCode(fb.Update) + ") " +
		printBlock(fb.Statements, indent)
}

func printIf(ib *IfBlock, indent int) string {
	var sb strings.Builder
	sb.WriteString("if (" + ib.Expression.Code() + ") ")
	sb.WriteString(printBlock(ib.Statements, indent))
	switch e := ib.Else.(type) {
	case *ElseIfBlock:
		sb.WriteString(" else ")
		sb.WriteString(printIf(e.IfBlock, indent))
	case *ElseBlock:
		sb.WriteString(" else ")
		sb.WriteString(printBlock(e.Statements, indent))
	}
	return sb.String()
}

func printBlock(list []Statement, indent int) string {
	if len(list) == 0 {
		return "{\n" + strings.Repeat(indentUnit, indent) + "}"
	}
	return "{\n" + printStatements(list, indent+1) + strings.Repeat(indentUnit, indent) + "}"
}

// printStatements renders one statement per line at the given depth.
func printStatements(list []Statement, indent int) string {
	var sb strings.Builder
	pad := strings.Repeat(indentUnit, indent)
	for _, s := range list {
		sb.WriteString(pad)
		switch s := s.(type) {
		case *IfBlock:
			sb.WriteString(printIf(s, indent))
		case *WhileBlock:
			sb.WriteString("while (" + s.Expression.Code() + ") " + printBlock(s.Statements, indent))
		case *ForBlock:
			sb.WriteString(printFor(s, indent))
		case *FunctionDeclaration:
			sb.WriteString("function " + s.Name + s.ArgList() + " " + printBlock(s.Statements, indent))
		default:
			sb.WriteString(s.Code())
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
