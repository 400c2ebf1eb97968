package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/funvibe/jsmm/internal/message"
)

var (
	colorError  = lipgloss.Color("#EF4444")
	colorOK     = lipgloss.Color("#10B981")
	colorAccent = lipgloss.Color("#F59E0B")
	colorMuted  = lipgloss.Color("#6B7280")

	errorStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
	varStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// palette styles terminal output; it is a no-op when the writer is not a
// terminal.
type palette struct {
	color bool
}

func styles(w io.Writer) palette {
	f, ok := w.(*os.File)
	if !ok {
		return palette{}
	}
	return palette{color: isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())}
}

func (p palette) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p palette) errorText(text string) string { return p.render(errorStyle, text) }
func (p palette) okText(text string) string    { return p.render(okStyle, text) }
func (p palette) muted(text string) string     { return p.render(mutedStyle, text) }

// markup renders a message, highlighting its variable parts.
func (p palette) markup(msg string) string {
	if !p.color {
		return message.Plain(msg)
	}
	return message.Render(msg, func(s string) string { return varStyle.Render(s) })
}

// console renders one logged line in the color the program chose.
func (p palette) console(text, color string) string {
	if !p.color || color == "" {
		return text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}
