package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestFunctional runs every testdata/*.js program that has a .want file and
// compares stdout followed by stderr with it.
func TestFunctional(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.js"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Skip("no programs in testdata")
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".js")
		wantFile := strings.TrimSuffix(file, ".js") + ".want"
		wantBytes, err := os.ReadFile(wantFile)
		if err != nil {
			continue
		}

		t.Run(name, func(t *testing.T) {
			stdout, stderr, _ := execute(t, "run", "--no-history", file)

			got := strings.TrimSpace(stdout)
			if s := strings.TrimSpace(stderr); s != "" {
				if got != "" {
					got += "\n"
				}
				got += s
			}
			want := strings.TrimSpace(strings.ReplaceAll(string(wantBytes), "\r\n", "\n"))
			if got != want {
				t.Errorf("output mismatch:\n--- want ---\n%s\n--- got ---\n%s", want, got)
			}
		})
	}
}
