package parser

import "testing"

func TestOffsetPosition(t *testing.T) {
	tests := []struct {
		src          string
		offset       int
		line, column int
	}{
		{"var a = 1", 0, 1, 1},
		{"var a = 1", 9, 1, 10},
		{"var a = 1", 42, 1, 10},
		{"a = 1;\nb = 2", 7, 2, 1},
		{"a = 1;\nb = 2", 12, 2, 6},
		{"a = 1;\n", 7, 2, 1},
		{"x", -3, 1, 1},
	}
	for _, tt := range tests {
		line, column := offsetPosition(tt.src, tt.offset)
		if line != tt.line || column != tt.column {
			t.Errorf("offsetPosition(%q, %d) = %d:%d, want %d:%d", tt.src, tt.offset, line, column, tt.line, tt.column)
		}
	}
}
