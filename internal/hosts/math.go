package hosts

import (
	"fmt"
	"math"

	"github.com/funvibe/jsmm/internal/config"
	"github.com/funvibe/jsmm/internal/evaluator"
)

type mathFunc struct {
	name  string
	arity int // -1 for variadic
	fn    func(args []float64) float64
}

// round rounds half up like Math.round. Adding 0.5 before flooring would
// round 0.49999999999999994 up.
func round(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		f++
	}
	return f
}

var mathFuncs = []mathFunc{
	{"floor", 1, func(a []float64) float64 { return math.Floor(a[0]) }},
	{"ceil", 1, func(a []float64) float64 { return math.Ceil(a[0]) }},
	{"round", 1, func(a []float64) float64 { return round(a[0]) }},
	{"abs", 1, func(a []float64) float64 { return math.Abs(a[0]) }},
	{"sqrt", 1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	{"pow", 2, func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
	{"min", -1, func(a []float64) float64 {
		r := math.Inf(1)
		for _, v := range a {
			if math.IsNaN(v) {
				return v
			}
			r = math.Min(r, v)
		}
		return r
	}},
	{"max", -1, func(a []float64) float64 {
		r := math.Inf(-1)
		for _, v := range a {
			if math.IsNaN(v) {
				return v
			}
			r = math.Max(r, v)
		}
		return r
	}},
}

// Math returns the Math namespace. It holds no state and may be shared.
func Math() *evaluator.Object {
	members := make(map[string]evaluator.Value, len(mathFuncs)+2)
	for _, f := range mathFuncs {
		members[f.name] = mathFunction(f)
	}
	members["PI"] = constant("PI", math.Pi)
	members["E"] = constant("E", math.E)
	return &evaluator.Object{Name: config.MathName, Members: members}
}

func mathFunction(f mathFunc) *evaluator.InternalFunction {
	qualified := config.MathName + "." + f.name
	return &evaluator.InternalFunction{
		Name: f.name,
		Info: qualified,
		Fn: func(ctx *evaluator.Context, args []evaluator.Value) (evaluator.Value, error) {
			strict := ctx == nil || ctx.Strategy() != evaluator.Raw
			if f.arity >= 0 && len(args) != f.arity {
				if strict || len(args) < f.arity {
					return nil, fmt.Errorf("<var>%s</var> expects <var>%d</var> arguments, got <var>%d</var>", qualified, f.arity, len(args))
				}
				args = args[:f.arity]
			}
			nums := make([]float64, len(args))
			for i, a := range args {
				n, ok := a.(*evaluator.Number)
				if !ok {
					if strict {
						return nil, fmt.Errorf("<var>%s</var> expects numbers, but <var>%s</var> is not a number", qualified, evaluator.Stringify(a))
					}
					nums[i] = evaluator.ToNumber(a)
					continue
				}
				nums[i] = n.Value
			}
			return &evaluator.Number{Value: f.fn(nums)}, nil
		},
	}
}

func constant(name string, v float64) *evaluator.VariableBinding {
	return &evaluator.VariableBinding{
		Name: name,
		Get: func(string) (evaluator.Value, error) {
			return &evaluator.Number{Value: v}, nil
		},
		Set: func(_ *evaluator.Context, name string, _ evaluator.Value) error {
			return fmt.Errorf("<var>Math.%s</var> cannot be changed", name)
		},
	}
}
