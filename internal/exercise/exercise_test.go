package exercise

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/funvibe/jsmm/internal/evaluator"
)

func TestParseConfig_YAML(t *testing.T) {
	data := `
name: loops
strategy: step
commands: [jsmm, console.log]
deny: [while]
limits:
  steps: 500
  timeout: 2s
  call_depth: 20
expect:
  output: "1\n2\n"
`
	cfg, err := ParseConfig([]byte(data), "jsmm.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "loops" || cfg.Strategy != "step" {
		t.Errorf("name/strategy = %q/%q", cfg.Name, cfg.Strategy)
	}
	if cfg.Timeout() != 2*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout())
	}
	if cfg.Expect.Output == nil || *cfg.Expect.Output != "1\n2\n" {
		t.Errorf("expect.output = %v", cfg.Expect.Output)
	}
	if len(cfg.Hosts) != 2 {
		t.Errorf("hosts = %v, want the defaults", cfg.Hosts)
	}

	opts := cfg.Options()
	if opts.Strategy != evaluator.Stepped || opts.MaxStatements != 500 || opts.MaxCallDepth != 20 {
		t.Errorf("options = %+v", opts)
	}
	if opts.Filter.Allows("while") || !opts.Filter.Allows("for") || !opts.Filter.Allows("console.log") {
		t.Error("filter does not follow commands and deny")
	}
}

func TestParseConfig_TOML(t *testing.T) {
	data := `
name = "functions"
commands = ["function", "return", "call", "var", "=", "+"]
hosts = ["console"]

[limits]
steps = 100

[expect]
error = "ArityError"
`
	cfg, err := ParseConfig([]byte(data), "jsmm.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Strategy != "safe" {
		t.Errorf("strategy = %q, want the default", cfg.Strategy)
	}
	if cfg.Limits.Steps != 100 || cfg.Limits.CallDepth != 100 {
		t.Errorf("limits = %+v", cfg.Limits)
	}
	if len(cfg.Hosts) != 1 || cfg.Hosts[0] != "console" {
		t.Errorf("hosts = %v", cfg.Hosts)
	}
	if cfg.Expect.Error != "ArityError" || cfg.Expect.Output != nil {
		t.Errorf("expect = %+v", cfg.Expect)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
		want string
	}{
		{"bad yaml", "jsmm.yaml", "commands: [", "parsing jsmm.yaml"},
		{"bad toml", "jsmm.toml", "commands = ", "parsing jsmm.toml"},
		{"strategy", "jsmm.yaml", "strategy: vm", "unknown strategy"},
		{"empty command", "jsmm.yaml", "commands: [\"\"]", "commands[0]: empty command"},
		{"host", "jsmm.yaml", "hosts: [robot]", `unknown host "robot"`},
		{"steps", "jsmm.yaml", "limits:\n  steps: -1", "limits.steps"},
		{"timeout", "jsmm.yaml", "limits:\n  timeout: soon", "limits.timeout"},
		{"negative timeout", "jsmm.yaml", "limits:\n  timeout: -1s", "must be positive"},
		{"error class", "jsmm.yaml", "expect:\n  error: Oops", "unknown error class"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data), tt.path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, err := FindConfig(nested)
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		// A stray exercise file above the temp dir would be found; only
		// check that it is not inside our tree.
		if strings.HasPrefix(path, root) {
			t.Fatalf("found %s before creating one", path)
		}
	}

	want := filepath.Join(root, "a", "jsmm.toml")
	if err := os.WriteFile(want, []byte(`name = "x"`), 0o644); err != nil {
		t.Fatal(err)
	}
	path, err = FindConfig(nested)
	if err != nil {
		t.Fatal(err)
	}
	if path != want {
		t.Errorf("FindConfig = %q, want %q", path, want)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "x" {
		t.Errorf("name = %q", cfg.Name)
	}
	if _, err := LoadConfig(filepath.Join(root, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestCheck(t *testing.T) {
	out := "3\n"
	valueErr := &evaluator.Error{Class: evaluator.ValueError, Message: "<var>a</var> is <var>undefined</var>"}
	syntax := errors.New("unexpected token")
	tests := []struct {
		name      string
		expect    Expect
		output    string
		syntaxErr error
		err       *evaluator.Error
		wantErr   string
	}{
		{name: "success", expect: Expect{Output: &out}, output: "3\n"},
		{name: "wrong output", expect: Expect{Output: &out}, output: "4\n", wantErr: "does not match"},
		{name: "unexpected failure", err: valueErr, wantErr: "a is undefined"},
		{name: "unexpected syntax error", syntaxErr: syntax, wantErr: "does not parse"},
		{name: "expected failure", expect: Expect{Error: "ValueError"}, err: valueErr},
		{name: "expected syntax error", expect: Expect{Error: "SyntaxError"}, syntaxErr: syntax},
		{name: "missing failure", expect: Expect{Error: "ValueError"}, wantErr: "but the program succeeded"},
		{name: "other failure", expect: Expect{Error: "TypeError"}, err: valueErr, wantErr: "expected a TypeError, got a ValueError"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Expect = tt.expect
			err := cfg.Check(tt.output, tt.syntaxErr, tt.err)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Check = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Filter() != nil {
		t.Error("default exercise must not filter commands")
	}
	if cfg.Options().Strategy != evaluator.Safe {
		t.Errorf("strategy = %v", cfg.Options().Strategy)
	}
	if cfg.Timeout() != 0 {
		t.Errorf("timeout = %v", cfg.Timeout())
	}
}

func TestNew(t *testing.T) {
	cfg, err := New("request", "step", []string{"jsmm"}, []string{"while"})
	if err != nil {
		t.Fatal(err)
	}
	opts := cfg.Options()
	if opts.Strategy != evaluator.Stepped || opts.Filter.Allows("while") || !opts.Filter.Allows("for") {
		t.Errorf("Options() = %+v", opts)
	}

	if _, err := New("request", "fast", nil, nil); err == nil || !strings.HasPrefix(err.Error(), "request: ") {
		t.Errorf("New with bad strategy: err = %v", err)
	}
	if _, err := New("request", "", []string{" "}, nil); err == nil {
		t.Error("New accepted an empty command")
	}
}
