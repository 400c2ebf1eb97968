// Package message handles the small markup used in error and step text:
// plain text with <var>...</var> spans around code fragments and values.
package message

import (
	"html"
	"strings"
)

const (
	openTag  = "<var>"
	closeTag = "</var>"
)

// Segment is a run of message text; Var marks a code or value fragment.
type Segment struct {
	Text string
	Var  bool
}

// Var wraps s in a var span.
func Var(s string) string {
	return openTag + s + closeTag
}

// Segments splits markup into text and var runs. Unbalanced tags are
// treated as text.
func Segments(markup string) []Segment {
	var out []Segment
	rest := markup
	for rest != "" {
		start := strings.Index(rest, openTag)
		if start < 0 {
			out = append(out, Segment{Text: rest})
			break
		}
		end := strings.Index(rest[start+len(openTag):], closeTag)
		if end < 0 {
			out = append(out, Segment{Text: rest})
			break
		}
		if start > 0 {
			out = append(out, Segment{Text: rest[:start]})
		}
		inner := rest[start+len(openTag) : start+len(openTag)+end]
		out = append(out, Segment{Text: inner, Var: true})
		rest = rest[start+len(openTag)+end+len(closeTag):]
	}
	return out
}

// Render rebuilds the message, passing var runs through style.
func Render(markup string, style func(string) string) string {
	var sb strings.Builder
	for _, seg := range Segments(markup) {
		if seg.Var && style != nil {
			sb.WriteString(style(seg.Text))
		} else {
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

// Plain strips the markup.
func Plain(markup string) string {
	return Render(markup, nil)
}

// HTML escapes the text and keeps var spans as <var> elements.
func HTML(markup string) string {
	var sb strings.Builder
	for _, seg := range Segments(markup) {
		if seg.Var {
			sb.WriteString(openTag + html.EscapeString(seg.Text) + closeTag)
		} else {
			sb.WriteString(html.EscapeString(seg.Text))
		}
	}
	return sb.String()
}
