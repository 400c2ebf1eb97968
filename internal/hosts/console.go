package hosts

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/funvibe/jsmm/internal/config"
	"github.com/funvibe/jsmm/internal/evaluator"
)

// Line is one logged line with the color active when it was written.
type Line struct {
	Text  string
	Color string // normalized "#rrggbb", empty for the default color
}

// Console is the console sink of one run. A Console must not be shared
// between runs; create a fresh one for every program execution.
type Console struct {
	lines []Line
	color string
	// mirror, if set, receives every line as it is logged.
	mirror io.Writer
}

// NewConsole creates a console. w may be nil.
func NewConsole(w io.Writer) *Console {
	return &Console{mirror: w}
}

// Output returns everything logged so far, one "\n"-terminated line per
// log call.
func (c *Console) Output() string {
	var sb strings.Builder
	for _, l := range c.lines {
		sb.WriteString(l.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Lines returns the logged lines with their colors.
func (c *Console) Lines() []Line {
	return c.lines
}

// Color returns the active color.
func (c *Console) Color() string {
	return c.color
}

func (c *Console) log(args []evaluator.Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = evaluator.ToString(a)
	}
	line := Line{Text: strings.Join(parts, " "), Color: c.color}
	c.lines = append(c.lines, line)
	if c.mirror != nil {
		fmt.Fprintln(c.mirror, line.Text)
	}
}

func (c *Console) setColor(v evaluator.Value) error {
	s, ok := v.(*evaluator.String)
	if !ok {
		return fmt.Errorf("<var>console.color</var> must be a string, not <var>%s</var>", evaluator.Stringify(v))
	}
	color, err := ParseColor(s.Value)
	if err != nil {
		return fmt.Errorf("<var>%s</var> is not a valid color", evaluator.Stringify(v))
	}
	c.color = color
	return nil
}

// Object exposes the console to programs.
func (c *Console) Object() *evaluator.Object {
	name := config.ConsoleName
	return &evaluator.Object{Name: name, Members: map[string]evaluator.Value{
		"log": &evaluator.InternalFunction{Name: "log", Info: name + ".log",
			Fn: func(_ *evaluator.Context, args []evaluator.Value) (evaluator.Value, error) {
				c.log(args)
				return nil, nil
			}},
		"clear": &evaluator.InternalFunction{Name: "clear", Info: name + ".clear",
			Fn: func(_ *evaluator.Context, args []evaluator.Value) (evaluator.Value, error) {
				if len(args) != 0 {
					return nil, fmt.Errorf("<var>console.clear</var> expects no arguments")
				}
				c.lines = nil
				return nil, nil
			}},
		"setColor": &evaluator.InternalFunction{Name: "setColor", Info: name + ".setColor",
			Fn: func(_ *evaluator.Context, args []evaluator.Value) (evaluator.Value, error) {
				if len(args) != 1 {
					return nil, fmt.Errorf("<var>console.setColor</var> expects <var>1</var> argument, got <var>%d</var>", len(args))
				}
				return nil, c.setColor(args[0])
			}},
		"color": &evaluator.VariableBinding{
			Name: "color",
			Get: func(string) (evaluator.Value, error) {
				if c.color == "" {
					return &evaluator.String{Value: "#ffffff"}, nil
				}
				return &evaluator.String{Value: c.color}, nil
			},
			Set: func(_ *evaluator.Context, _ string, v evaluator.Value) error {
				return c.setColor(v)
			},
		},
	}}
}

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"gray":    "#808080",
	"grey":    "#808080",
	"red":     "#ff0000",
	"green":   "#008000",
	"lime":    "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"pink":    "#ffc0cb",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"brown":   "#a52a2a",
}

// ParseColor normalizes a CSS color (a name, #rgb, #rrggbb, rgb(), rgba(),
// hsl() or hsla()) to "#rrggbb". Alpha is ignored.
func ParseColor(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		return hex, nil
	}
	if strings.HasPrefix(s, "#") {
		if len(s) == 4 {
			s = "#" + string(s[1]) + string(s[1]) + string(s[2]) + string(s[2]) + string(s[3]) + string(s[3])
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return "", err
		}
		return c.Hex(), nil
	}

	fn, rest, ok := strings.Cut(s, "(")
	if !ok || !strings.HasSuffix(rest, ")") {
		return "", fmt.Errorf("unknown color %q", s)
	}
	parts := strings.Split(strings.TrimSuffix(rest, ")"), ",")
	want := 3
	if strings.HasSuffix(fn, "a") {
		want = 4
	}
	if len(parts) != want {
		return "", fmt.Errorf("%s needs %d components", fn, want)
	}
	switch fn {
	case "rgb", "rgba":
		var rgb [3]float64
		for i := range rgb {
			v, err := component(parts[i], 255)
			if err != nil {
				return "", err
			}
			rgb[i] = v / 255
		}
		return colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}.Clamped().Hex(), nil
	case "hsl", "hsla":
		h, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return "", err
		}
		sat, err := component(parts[1], 100)
		if err != nil {
			return "", err
		}
		light, err := component(parts[2], 100)
		if err != nil {
			return "", err
		}
		h = math.Mod(h, 360)
		if h < 0 {
			h += 360
		}
		return colorful.Hsl(h, sat/100, light/100).Clamped().Hex(), nil
	}
	return "", fmt.Errorf("unknown color function %q", fn)
}

// component parses a number or percentage; percentages are scaled to max.
func component(s string, max float64) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, err
		}
		return v / 100 * max, nil
	}
	return strconv.ParseFloat(s, 64)
}
