// Package token holds the source positions attached to jsmm syntax nodes.
package token

import "fmt"

// Token is the primary token of a node: the text it starts with and
// where it starts. Line and Column are 1-based; zero means unknown.
type Token struct {
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	if t.Line == 0 {
		return t.Lexeme
	}
	return fmt.Sprintf("%d:%d %s", t.Line, t.Column, t.Lexeme)
}

// IsZero reports whether the token has no position.
func (t Token) IsZero() bool {
	return t.Line == 0 && t.Column == 0
}
