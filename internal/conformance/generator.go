package conformance

import (
	"fmt"
	"math/rand"
	"strings"
)

// RandomSource abstracts the source of randomness.
type RandomSource interface {
	Intn(n int) int
}

// ByteSource draws choices from a byte slice, which makes generated
// programs reproducible from fuzz inputs. It yields zeros once exhausted.
type ByteSource struct {
	data []byte
	pos  int
}

func (s *ByteSource) Intn(n int) int {
	if n <= 0 || s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return v % n
}

// Generator builds random jsmm programs. Every program declares its
// variables up front and bounds its loops, so most of them run to the end;
// the rest fail with ordinary runtime errors.
type Generator struct {
	src   RandomSource
	loops int
	vars  []string
	funcs []genFunc
}

type genFunc struct {
	name   string
	params int
}

const (
	maxDepth      = 3
	maxStatements = 6
)

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{src: rand.New(rand.NewSource(seed)), vars: []string{"a", "b", "c", "s", "arr"}}
}

// NewGeneratorFromData creates a generator driven by data.
func NewGeneratorFromData(data []byte) *Generator {
	return &Generator{src: &ByteSource{data: data}, vars: []string{"a", "b", "c", "s", "arr"}}
}

// Program generates one complete program.
func (g *Generator) Program() string {
	var sb strings.Builder
	sb.WriteString("var a = 1, b = 2, c = 3;\n")
	sb.WriteString("var s = \"x\";\n")
	sb.WriteString("var arr = [1, 2, 3];\n")

	g.funcs = nil
	for i := g.src.Intn(3); i > 0; i-- {
		sb.WriteString(g.function())
	}
	count := g.src.Intn(maxStatements) + 1
	for i := 0; i < count; i++ {
		sb.WriteString(g.statement(0))
	}
	sb.WriteString("console.log(a, b, c, s, arr);\n")
	return sb.String()
}

func (g *Generator) function() string {
	f := genFunc{name: fmt.Sprintf("f%d", len(g.funcs)), params: g.src.Intn(3)}
	params := make([]string, f.params)
	for i := range params {
		params[i] = fmt.Sprintf("p%d", i)
	}

	// Parameters are visible in the body in addition to the globals.
	saved := g.vars
	g.vars = append(append([]string(nil), saved...), params...)
	var sb strings.Builder
	fmt.Fprintf(&sb, "function %s(%s) {\n", f.name, strings.Join(params, ", "))
	for i := g.src.Intn(3); i > 0; i-- {
		sb.WriteString(g.statement(1))
	}
	fmt.Fprintf(&sb, "  return %s;\n}\n", g.expression(0))
	g.vars = saved

	// Declared after the body, so functions never call themselves.
	g.funcs = append(g.funcs, f)
	return sb.String()
}

func indent(level int) string {
	return strings.Repeat("  ", level)
}

func (g *Generator) statement(level int) string {
	pad := indent(level)
	if level > maxDepth {
		return pad + "console.log(a);\n"
	}

	switch g.src.Intn(10) {
	case 0, 1:
		return fmt.Sprintf("%s%s = %s;\n", pad, g.target(), g.expression(0))
	case 2:
		ops := []string{"+=", "-=", "*=", "/=", "%="}
		return fmt.Sprintf("%s%s %s %s;\n", pad, g.target(), ops[g.src.Intn(len(ops))], g.expression(0))
	case 3:
		ops := []string{"++", "--"}
		return fmt.Sprintf("%s%s%s;\n", pad, g.target(), ops[g.src.Intn(len(ops))])
	case 4:
		return fmt.Sprintf("%sconsole.log(%s);\n", pad, g.expression(0))
	case 5:
		var sb strings.Builder
		fmt.Fprintf(&sb, "%sif (%s) {\n", pad, g.condition())
		sb.WriteString(g.statement(level + 1))
		switch g.src.Intn(3) {
		case 1:
			fmt.Fprintf(&sb, "%s} else {\n", pad)
			sb.WriteString(g.statement(level + 1))
		case 2:
			fmt.Fprintf(&sb, "%s} else if (%s) {\n", pad, g.condition())
			sb.WriteString(g.statement(level + 1))
		}
		fmt.Fprintf(&sb, "%s}\n", pad)
		return sb.String()
	case 6:
		counter := fmt.Sprintf("i%d", g.loops)
		g.loops++
		var sb strings.Builder
		fmt.Fprintf(&sb, "%sfor (var %s = 0; %s < %d; %s++) {\n", pad, counter, counter, g.src.Intn(5)+1, counter)
		sb.WriteString(g.statement(level + 1))
		fmt.Fprintf(&sb, "%s}\n", pad)
		return sb.String()
	case 7:
		counter := fmt.Sprintf("w%d", g.loops)
		g.loops++
		var sb strings.Builder
		fmt.Fprintf(&sb, "%svar %s = %d;\n", pad, counter, g.src.Intn(4)+1)
		fmt.Fprintf(&sb, "%swhile (%s > 0) {\n", pad, counter)
		sb.WriteString(g.statement(level + 1))
		fmt.Fprintf(&sb, "%s  %s--;\n%s}\n", pad, counter, pad)
		return sb.String()
	case 8:
		if len(g.funcs) > 0 {
			return fmt.Sprintf("%s%s;\n", pad, g.call())
		}
		return fmt.Sprintf("%sarr[%d] = %s;\n", pad, g.src.Intn(5), g.expression(0))
	}
	return fmt.Sprintf("%sarr.length = %d;\n", pad, g.src.Intn(4))
}

func (g *Generator) target() string {
	if g.src.Intn(4) == 0 {
		return fmt.Sprintf("arr[%d]", g.src.Intn(4))
	}
	return g.vars[g.src.Intn(len(g.vars))]
}

func (g *Generator) call() string {
	f := g.funcs[g.src.Intn(len(g.funcs))]
	args := make([]string, f.params)
	for i := range args {
		args[i] = g.expression(maxDepth)
	}
	return fmt.Sprintf("%s(%s)", f.name, strings.Join(args, ", "))
}

func (g *Generator) condition() string {
	ops := []string{"<", ">", "<=", ">=", "==", "!="}
	c := fmt.Sprintf("%s %s %s", g.expression(1), ops[g.src.Intn(len(ops))], g.expression(1))
	switch g.src.Intn(4) {
	case 0:
		return "!(" + c + ")"
	case 1:
		return c + " && " + g.vars[g.src.Intn(len(g.vars))] + " != 0"
	}
	return c
}

func (g *Generator) expression(depth int) string {
	if depth >= maxDepth {
		return g.atom()
	}
	switch g.src.Intn(8) {
	case 0, 1, 2:
		return g.atom()
	case 3, 4:
		ops := []string{"+", "-", "*", "/", "%"}
		return fmt.Sprintf("%s %s %s", g.expression(depth+1), ops[g.src.Intn(len(ops))], g.expression(depth+1))
	case 5:
		return "(" + g.expression(depth+1) + ")"
	case 6:
		fns := []string{"Math.abs", "Math.floor", "Math.round", "Math.sqrt"}
		return fmt.Sprintf("%s(%s)", fns[g.src.Intn(len(fns))], g.expression(depth+1))
	}
	if len(g.funcs) > 0 {
		return g.call()
	}
	return "-" + g.atom()
}

func (g *Generator) atom() string {
	switch g.src.Intn(7) {
	case 0:
		return fmt.Sprint(g.src.Intn(20))
	case 1:
		return fmt.Sprintf("%d.5", g.src.Intn(5))
	case 2:
		return fmt.Sprintf("arr[%d]", g.src.Intn(4))
	case 3:
		return "arr.length"
	case 4:
		return `"t"`
	}
	return g.vars[g.src.Intn(len(g.vars))]
}

// RandomCases generates n cases from seed. They are checked between the
// safe and stepped strategies only.
func RandomCases(seed int64, n int) []Case {
	g := NewGenerator(seed)
	cases := make([]Case, n)
	for i := range cases {
		cases[i] = Case{Name: fmt.Sprintf("random_%d_%d", seed, i), Source: g.Program()}
	}
	return cases
}
