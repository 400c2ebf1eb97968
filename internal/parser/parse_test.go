package parser_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/funvibe/jsmm/internal/ast"
	"github.com/funvibe/jsmm/internal/diagnostics"
	"github.com/funvibe/jsmm/internal/message"
	"github.com/funvibe/jsmm/internal/parser"
	"github.com/funvibe/jsmm/internal/pipeline"
)

func TestParseStatements(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"var a = 1;", "*ast.VarStatement"},
		{"a = 1;", "*ast.AssignmentStatement"},
		{"a += 1;", "*ast.AssignmentStatement"},
		{"a[0]++;", "*ast.PostfixStatement"},
		{"console.log(1);", "*ast.CallStatement"},
		{"if (a) {\n}", "*ast.IfBlock"},
		{"while (a) {\n}", "*ast.WhileBlock"},
		{"for (var i = 0; i < 3; i++) {\n}", "*ast.ForBlock"},
		{"function f(x) {\n  return x;\n}", "*ast.FunctionDeclaration"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			program, err := parser.Parse("test.js", tt.src)
			if err != nil {
				t.Fatal(err)
			}
			if len(program.Statements) != 1 {
				t.Fatalf("got %d statements", len(program.Statements))
			}
			if got := fmt.Sprintf("%T", program.Statements[0]); got != tt.want {
				t.Errorf("statement is %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"var a = 1 + 2 * 3;", "var a = 1 + 2 * 3;\n"},
		{"a = (1 + 2) * 3;", "a = (1 + 2) * 3;\n"},
		{"a = 1 - (2 - 3);", "a = 1 - (2 - 3);\n"},
		{"var a, b = 2;", "var a, b = 2;\n"},
		{"while (!(a == b)) {\n  a++;\n}", "while (!(a == b)) {\n  a++;\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			program, err := parser.Parse("test.js", tt.src)
			if err != nil {
				t.Fatal(err)
			}
			if got := program.Code(); got != tt.want {
				t.Errorf("Code() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeReparses(t *testing.T) {
	sources := []string{
		"var a = 1, b;\na[0] = -(1 + 2) * 3;",
		"if (a < 1) {\n  a++;\n} else if (b) {\n  b--;\n} else {\n  console.log(\"x\", [1, 2]);\n}",
		"for (var i = 0; i < 3; i++) {\n  s += i % 2;\n}",
		"function f(x, y) {\n  return x - (y - 1);\n}\nf(1, 2);",
		"while (a && b || c) {\n}",
	}
	for _, src := range sources {
		first, err := parser.Parse("a.js", src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		code := first.Code()
		second, err := parser.Parse("b.js", code)
		if err != nil {
			t.Fatalf("reparse %q: %v", code, err)
		}
		if second.Code() != code {
			t.Errorf("printed code is not stable:\n%s\n---\n%s", code, second.Code())
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diagnostics.ErrorCode
		line int
		msg  string
	}{
		{"missing semicolon", "var a = 1", diagnostics.ErrP001, 1, "semicolon (;) missing"},
		{"missing semicolon before next line", "a = 1\nb = 2;", diagnostics.ErrP001, 1, "semicolon"},
		{"missing return semicolon", "function f() {\n  return 1\n}", diagnostics.ErrP001, 2, "semicolon"},
		{"unbalanced", "var a = (1;", diagnostics.ErrP001, 1, ""},
		{"strict equality", "var c = a === b;", diagnostics.ErrP002, 1, "Use == instead of ==="},
		{"do loop", "do {\n} while (a);", diagnostics.ErrP002, 1, "do loops are not supported"},
		{"object literal", "var o = {};", diagnostics.ErrP002, 1, "Objects cannot be created"},
		{"body without braces", "if (a) b++;", diagnostics.ErrP002, 1, "Use { and }"},
		{"nested function", "function f() {\n  function g() {\n  }\n}", diagnostics.ErrP002, 2, "top level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse("bad.js", tt.src)
			var d *diagnostics.DiagnosticError
			if !errors.As(err, &d) {
				t.Fatalf("err = %v", err)
			}
			if d.Code != tt.code || d.Token.Line != tt.line || d.File != "bad.js" {
				t.Errorf("diagnostic = %+v", d)
			}
			if !strings.Contains(message.Plain(d.Message), tt.msg) {
				t.Errorf("message = %q, want it to contain %q", message.Plain(d.Message), tt.msg)
			}
		})
	}
}

func TestSemicolonMissingAtEnd(t *testing.T) {
	for _, tt := range []struct {
		src  string
		line int
	}{
		{"var a = 1", 1},
		{"a = 1;\nb = 2", 2},
		{"var a = 1;\nconsole.log(a)", 2},
	} {
		_, err := parser.Parse("end.js", tt.src)
		var d *diagnostics.DiagnosticError
		if !errors.As(err, &d) || d.Code != diagnostics.ErrP001 {
			t.Fatalf("%q: err = %v", tt.src, err)
		}
		if d.Token.Line != tt.line || d.Token.Column == 0 {
			t.Errorf("%q: reported at %d:%d, want line %d", tt.src, d.Token.Line, d.Token.Column, tt.line)
		}
	}
}

func TestSemicolonAfterComment(t *testing.T) {
	for _, src := range []string{"a++; // done", "a++ /* later */ ;", "a++ // later\n;"} {
		if _, err := parser.Parse("c.js", src); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}

func TestPositionsAndIDs(t *testing.T) {
	program, err := parser.Parse("p.js", "var a = 1;\n  b = [a, 2];\nconsole.log(b[0]);")
	if err != nil {
		t.Fatal(err)
	}
	if tok := program.Statements[1].GetToken(); tok.Line != 2 || tok.Column != 3 {
		t.Errorf("second statement at %d:%d, want 2:3", tok.Line, tok.Column)
	}

	seen := make(map[ast.NodeID]bool)
	ast.Inspect(program, func(n ast.Node) bool {
		if seen[n.ID()] {
			t.Errorf("id %d used twice", n.ID())
		}
		if int(n.ID()) >= program.Count {
			t.Errorf("id %d out of range (count %d)", n.ID(), program.Count)
		}
		seen[n.ID()] = true
		return true
	})
	if len(ast.Index(program)) != len(seen) {
		t.Errorf("Index has %d nodes, walk saw %d", len(ast.Index(program)), len(seen))
	}
}

func TestEmptyProgram(t *testing.T) {
	program, err := parser.Parse("e.js", " \n ")
	if err != nil {
		t.Fatal(err)
	}
	if len(program.Statements) != 0 {
		t.Errorf("statements = %v", program.Statements)
	}
}

func TestParserProcessor(t *testing.T) {
	ctx := pipeline.NewPipelineContext("var a = ;", "x.js")
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if !ctx.Failed() || ctx.AstRoot != nil {
		t.Fatalf("errors = %v, root = %v", ctx.Errors, ctx.AstRoot)
	}
	if ctx.Errors[0].File != "x.js" {
		t.Errorf("file = %q", ctx.Errors[0].File)
	}

	ctx = (&parser.ParserProcessor{}).Process(pipeline.NewPipelineContext("var a = 1;", "y.js"))
	if ctx.Failed() || ctx.AstRoot == nil {
		t.Errorf("errors = %v", ctx.Errors)
	}
}
