// Package parser turns JavaScript source into a jsmm syntax tree.
//
// Parsing itself is delegated to the otto JavaScript parser; this package
// walks the resulting tree, rejects everything that is not part of the jsmm
// subset, and builds the closed node set of package ast with stable ids.
package parser

import (
	"fmt"
	"strings"

	"github.com/robertkrimen/otto/file"
	ottoparser "github.com/robertkrimen/otto/parser"

	"github.com/funvibe/jsmm/internal/ast"
	"github.com/funvibe/jsmm/internal/diagnostics"
	"github.com/funvibe/jsmm/internal/token"
)

// Parse parses src as a jsmm program. The returned error, if any, is a
// *diagnostics.DiagnosticError pointing at the first problem.
func Parse(filename, src string) (*ast.Program, error) {
	if strings.TrimSpace(src) == "" {
		// otto cannot position an empty program.
		return &ast.Program{File: filename}, nil
	}

	program, err := ottoparser.ParseFile(nil, filename, src, 0)
	if err != nil {
		return nil, syntaxError(filename, err)
	}

	c := &converter{file: program.File, filename: filename}
	root := &ast.Program{Base: c.base(token.Token{Line: 1, Column: 1}), File: filename}
	stmts, err := c.statements(program.Body, true)
	if err != nil {
		return nil, err
	}
	root.Statements = stmts
	root.Count = c.nextID
	return root, nil
}

// syntaxError converts the otto error list into our diagnostic.
func syntaxError(filename string, err error) *diagnostics.DiagnosticError {
	if list, ok := err.(*ottoparser.ErrorList); ok && len(*list) > 0 {
		first := (*list)[0]
		d := diagnostics.NewError(diagnostics.ErrP001, token.Token{
			Line:   first.Position.Line,
			Column: first.Position.Column,
		}, first.Message)
		d.File = filename
		return d
	}
	d := diagnostics.NewError(diagnostics.ErrP001, token.Token{}, err.Error())
	d.File = filename
	return d
}

type converter struct {
	file     *file.File
	filename string
	nextID   int
}

func (c *converter) base(tok token.Token) ast.Base {
	id := ast.NodeID(c.nextID)
	c.nextID++
	return ast.Base{NodeID: id, Token: tok}
}

func (c *converter) tok(idx file.Idx, lexeme string) token.Token {
	t := token.Token{Lexeme: lexeme}
	if c.file == nil {
		return t
	}
	if pos := c.file.Position(idx); pos != nil {
		t.Line = pos.Line
		t.Column = pos.Column
		return t
	}
	// otto has no position for the end of the source.
	t.Line, t.Column = offsetPosition(c.file.Source(), int(idx)-c.file.Base())
	return t
}

// offsetPosition returns the 1-based line and column of the byte offset
// into src, clamped to the end of src.
func offsetPosition(src string, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	line := 1 + strings.Count(src[:offset], "\n")
	return line, offset - strings.LastIndexByte(src[:offset], '\n')
}

// unsupported reports a construct that parses as JavaScript but is outside jsmm.
func (c *converter) unsupported(idx file.Idx, format string, a ...interface{}) error {
	d := diagnostics.NewError(diagnostics.ErrP002, c.tok(idx, ""), fmt.Sprintf(format, a...))
	d.File = c.filename
	return d
}

// semicolon checks that the simple statement ending at end is terminated by
// a semicolon. JavaScript would insert one; jsmm asks for it explicitly.
func (c *converter) semicolon(end file.Idx) error {
	if c.file == nil {
		return nil
	}
	src := c.file.Source()
	i := int(end) - c.file.Base()
	for i >= 0 && i < len(src) {
		switch {
		case src[i] == ';':
			return nil
		case src[i] == ' ' || src[i] == '\t' || src[i] == '\r' || src[i] == '\n' || src[i] == ')':
			i++
		case strings.HasPrefix(src[i:], "//"):
			nl := strings.IndexByte(src[i:], '\n')
			if nl < 0 {
				i = len(src)
			} else {
				i += nl
			}
		case strings.HasPrefix(src[i:], "/*"):
			closing := strings.Index(src[i+2:], "*/")
			if closing < 0 {
				i = len(src)
			} else {
				i += closing + 4
			}
		default:
			return c.missingSemicolon(end)
		}
	}
	return c.missingSemicolon(end)
}

func (c *converter) missingSemicolon(end file.Idx) error {
	d := diagnostics.NewError(diagnostics.ErrP001, c.tok(end, ""), "There is a semicolon (<var>;</var>) missing at the end of this statement")
	d.File = c.filename
	return d
}
