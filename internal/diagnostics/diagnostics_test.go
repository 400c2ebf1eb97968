package diagnostics

import (
	"testing"

	"github.com/funvibe/jsmm/internal/token"
)

func TestDiagnosticError(t *testing.T) {
	tests := []struct {
		name   string
		err    *DiagnosticError
		want   string
		syntax bool
	}{
		{"positioned", &DiagnosticError{Code: ErrP001, File: "a.js", Token: token.Token{Line: 2, Column: 5}, Message: "bad"}, "a.js:2:5: [P001] bad", true},
		{"no file", &DiagnosticError{Code: ErrP002, Token: token.Token{Line: 1, Column: 1}, Message: "no"}, "1:1: [P002] no", true},
		{"no position", NewError(ErrR001, token.Token{}, "boom"), "[R001] boom", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if got := tt.err.IsSyntax(); got != tt.syntax {
				t.Errorf("IsSyntax() = %v", got)
			}
		})
	}
}
