package message

import "testing"

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		plain  string
		html   string
		styled string
	}{
		{"no markup", "Cannot return if not inside a function", "Cannot return if not inside a function", "Cannot return if not inside a function", "Cannot return if not inside a function"},
		{"one var", "<var>a</var> is <var>undefined</var>", "a is undefined", "<var>a</var> is <var>undefined</var>", "[a] is [undefined]"},
		{"escaping", `<var>"<b>"</var> < 2`, `"<b>" < 2`, "<var>&#34;&lt;b&gt;&#34;</var> &lt; 2", `["<b>"] < 2`},
		{"unbalanced", "<var>a is", "<var>a is", "&lt;var&gt;a is", "<var>a is"},
	}

	bracket := func(s string) string { return "[" + s + "]" }
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Plain(tt.markup); got != tt.plain {
				t.Errorf("Plain() = %q, want %q", got, tt.plain)
			}
			if got := HTML(tt.markup); got != tt.html {
				t.Errorf("HTML() = %q, want %q", got, tt.html)
			}
			if got := Render(tt.markup, bracket); got != tt.styled {
				t.Errorf("Render() = %q, want %q", got, tt.styled)
			}
		})
	}
}

func TestVar(t *testing.T) {
	if got := Var("x"); got != "<var>x</var>" {
		t.Errorf("Var() = %q", got)
	}
}
