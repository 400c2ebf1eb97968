package hosts

import (
	"errors"
	"strings"
	"testing"

	"github.com/funvibe/jsmm/internal/evaluator"
	"github.com/funvibe/jsmm/internal/parser"
)

func run(t *testing.T, src string, strategy evaluator.Strategy) (*evaluator.Result, *Console) {
	t.Helper()
	program, err := parser.Parse("test.js", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	scope, console, err := Scope(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return evaluator.New(evaluator.Options{Strategy: strategy}).Run(program, scope), console
}

func TestConsole(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		output string
	}{
		{"join", `console.log("a", 1, true);`, "a 1 true\n"},
		{"empty", "console.log();", "\n"},
		{"array", "console.log([1, 2]);", "1,2\n"},
		{"clear", "console.log(1);\nconsole.clear();\nconsole.log(2);", "2\n"},
		{"multiplication table", "for (var l = 1; l <= 2; l++) {\n  var text = \"\";\n  for (var c = 1; c <= 3; c++) {\n    text += l * c + \" \";\n  }\n  console.log(text);\n}", "1 2 3 \n2 4 6 \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, console := run(t, tt.src, evaluator.Safe)
			if res.Err != nil {
				t.Fatal(res.Err)
			}
			if got := console.Output(); got != tt.output {
				t.Errorf("output = %q, want %q", got, tt.output)
			}
		})
	}
}

func TestConsoleColor(t *testing.T) {
	res, console := run(t, "console.setColor(\"#fff\");\nconsole.log(\"a\");\nconsole.color = \"hsla(120, 100%, 50%, 1)\";\nconsole.log(console.color);", evaluator.Stepped)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	lines := console.Lines()
	if len(lines) != 2 {
		t.Fatalf("lines = %+v", lines)
	}
	if lines[0].Color != "#ffffff" || lines[1].Color != "#00ff00" || lines[1].Text != "#00ff00" {
		t.Errorf("lines = %+v", lines)
	}

	for _, src := range []string{`console.setColor("nope");`, "console.color = 5;", "console.setColor();"} {
		res, _ := run(t, src, evaluator.Safe)
		if !errors.Is(res.Err, evaluator.ErrHost) {
			t.Errorf("%s: error = %v, want host error", src, res.Err)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "#fff", want: "#ffffff"},
		{in: "#ED7032", want: "#ed7032"},
		{in: "red", want: "#ff0000"},
		{in: "rgb(0, 128, 255)", want: "#0080ff"},
		{in: "rgba(100%, 0%, 0%, 0.5)", want: "#ff0000"},
		{in: "hsl(0, 100%, 50%)", want: "#ff0000"},
		{in: "hsla(480, 100%, 50%, 1)", want: "#00ff00"},
		{in: "#ggg", wantErr: true},
		{in: "rgb(1, 2)", wantErr: true},
		{in: "nocolor", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseColor(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseColor(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestMath(t *testing.T) {
	src := "console.log(Math.floor(2.7), Math.ceil(2.1), Math.round(-2.5), Math.abs(-3));\n" +
		"console.log(Math.sqrt(16), Math.pow(2, 10), Math.min(3, 1, 2), Math.max(3, 1, 2));\n" +
		"console.log(Math.floor(Math.PI * 100), Math.round(Math.E));"
	want := "2 3 -2 3\n4 1024 1 3\n314 3\n"
	for _, s := range []evaluator.Strategy{evaluator.Raw, evaluator.Safe, evaluator.Stepped} {
		res, console := run(t, src, s)
		if res.Err != nil {
			t.Fatalf("%s: %v", s, res.Err)
		}
		if got := console.Output(); got != want {
			t.Errorf("%s: output = %q, want %q", s, got, want)
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.49999999999999994, 0},
		{0.5, 1},
		{2.4, 2},
		{-2.5, -2},
		{-2.6, -3},
		{4503599627370497, 4503599627370497},
	}
	for _, tt := range tests {
		if got := round(tt.in); got != tt.want {
			t.Errorf("round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMathFailures(t *testing.T) {
	tests := []struct {
		src     string
		wantErr error
		msg     string
	}{
		{`Math.floor("1");`, evaluator.ErrHost, "Math.floor expects numbers"},
		{"Math.pow(2);", evaluator.ErrHost, "Math.pow expects 2 arguments"},
		{"Math.PI = 3;", evaluator.ErrHost, "Math.PI cannot be changed"},
		{"var a = Math.sqrt(-1) + 1;", evaluator.ErrValue, "is not a valid number"},
		{"Math.random();", evaluator.ErrReference, "does not have property random"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res, _ := run(t, tt.src, evaluator.Safe)
			if !errors.Is(res.Err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", res.Err, tt.wantErr)
			}
			if !strings.Contains(res.Err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", res.Err.Error(), tt.msg)
			}
		})
	}
}

func TestCommandTags(t *testing.T) {
	res, _ := run(t, "console.log(Math.abs(-1));", evaluator.Safe)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	var tags []string
	for _, c := range res.Commands {
		tags = append(tags, c.Tag)
	}
	if got := strings.Join(tags, " "); got != "+ Math.abs console.log" {
		t.Errorf("commands = %q", got)
	}
}

func TestScope(t *testing.T) {
	scope, _, err := Scope([]string{"console"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := scope["Math"]; ok {
		t.Error("Math enabled without being asked for")
	}
	if _, _, err := Scope([]string{"robot"}, nil); err == nil {
		t.Error("expected an error for an unknown host")
	}
	if !Valid("Math") || Valid("robot") {
		t.Error("Valid")
	}
}
