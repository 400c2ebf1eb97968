package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")
	prog := writeFile(t, dir, "sum.js", "var a = 1 + 2;\nconsole.log(a);")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"plain", []string{"run", prog}, []string{"3\n"}},
		{"raw", []string{"run", "--strategy", "raw", prog}, []string{"3\n"}},
		{"trace", []string{"run", "--trace", prog}, []string{"1 + 2 = 3", "a = 3"}},
		{"commands", []string{"run", "--commands", prog}, []string{"commands:", "console.log", "var"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, append([]string{"--db", db}, tt.args...)...)
			if err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout, want) {
					t.Errorf("output %q does not contain %q", stdout, want)
				}
			}
		})
	}
}

func TestRunFailure(t *testing.T) {
	dir := t.TempDir()
	prog := writeFile(t, dir, "div.js", "function f(x) {\n  return x / 0;\n}\nconsole.log(\"before\");\nf(1);")

	stdout, stderr, err := execute(t, "--db", filepath.Join(dir, "h.db"), "run", prog)
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v, want errFailed", err)
	}
	if stdout != "before\n" {
		t.Errorf("stdout = %q", stdout)
	}
	for _, want := range []string{"ValueError at line 2:", "/ not possible since it is a division by zero", "(called f(1))"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr %q does not contain %q", stderr, want)
		}
	}

	bad := writeFile(t, dir, "bad.js", "var a = ;")
	_, stderr, err = execute(t, "--db", filepath.Join(dir, "h.db"), "run", bad)
	if !errors.Is(err, errFailed) || !strings.Contains(stderr, "bad.js:1:") {
		t.Errorf("syntax error: err = %v, stderr = %q", err, stderr)
	}

	if _, _, err := execute(t, "run", "--no-history", "--strategy", "fast", prog); err == nil {
		t.Error("unknown strategy accepted")
	}
}

func TestRunExercise(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "h.db")
	writeFile(t, dir, "jsmm.yaml", "name: sum\ncommands: [jsmm, console.log]\nexpect:\n  output: \"3\\n\"\n")
	good := writeFile(t, dir, "good.js", "console.log(1 + 2);")
	wrong := writeFile(t, dir, "wrong.js", "console.log(1 + 1);")
	denied := writeFile(t, dir, "denied.js", "console.log(Math.abs(3));")

	stdout, _, err := execute(t, "--db", db, "run", good)
	if err != nil || !strings.Contains(stdout, "Exercise passed!") {
		t.Errorf("good: err = %v, stdout = %q", err, stdout)
	}

	stdout, _, err = execute(t, "--db", db, "run", wrong)
	if !errors.Is(err, errFailed) || !strings.Contains(stdout, "Exercise not passed") {
		t.Errorf("wrong: err = %v, stdout = %q", err, stdout)
	}

	_, stderr, err := execute(t, "--db", db, "run", denied)
	if !errors.Is(err, errFailed) || !strings.Contains(stderr, "PolicyError") {
		t.Errorf("denied: err = %v, stderr = %q", err, stderr)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.js", "var a = 1;")
	bad := writeFile(t, dir, "bad.js", "var a = 1")

	stdout, _, err := execute(t, "check", good)
	if err != nil || !strings.HasPrefix(stdout, "ok ") {
		t.Errorf("good: err = %v, stdout = %q", err, stdout)
	}

	stdout, _, err = execute(t, "check", good, bad)
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stdout, "error "+bad+":1:") || !strings.Contains(stdout, "semicolon") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestTestCommand(t *testing.T) {
	stdout, _, err := execute(t, "test")
	if err != nil {
		t.Fatalf("err = %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "All tests completed successfully!") {
		t.Errorf("stdout = %q", stdout)
	}

	stdout, _, err = execute(t, "test", "--all", "--random", "5", "--seed", "3")
	if err != nil {
		t.Fatalf("err = %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, `Test "random 3 4" completed successfully!`) {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "h.db")

	stdout, _, err := execute(t, "--db", db, "history")
	if err != nil || !strings.Contains(stdout, "no runs recorded") {
		t.Fatalf("empty history: err = %v, stdout = %q", err, stdout)
	}

	prog := writeFile(t, dir, "p.js", "var a = 2;\na++;\nconsole.log(a);")
	if _, _, err := execute(t, "--db", db, "run", "--trace", prog); err != nil {
		t.Fatal(err)
	}

	stdout, _, err = execute(t, "--db", db, "history")
	if err != nil {
		t.Fatal(err)
	}
	fields := strings.Fields(stdout)
	if len(fields) == 0 || !strings.Contains(stdout, "step") {
		t.Fatalf("history = %q", stdout)
	}

	stdout, _, err = execute(t, "--db", db, "history", fields[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"source:", "output:", "3\n", "steps:", "a = 3"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("show output %q does not contain %q", stdout, want)
		}
	}

	if _, _, err := execute(t, "--db", db, "history", "missing"); err == nil {
		t.Error("history of an unknown id succeeded")
	}
}
