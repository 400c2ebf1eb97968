package jsmm

import (
	"fmt"
	"math"
	"reflect"

	"github.com/funvibe/jsmm/internal/config"
	"github.com/funvibe/jsmm/internal/evaluator"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Marshaller handles conversion between Go and jsmm values.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// ToValue converts a Go value to a jsmm value. name labels functions and
// objects; calls to a bound function are recorded under it.
//
// Numbers, strings and booleans map to their jsmm counterparts, slices to
// arrays and functions to callable host functions. Pointers to structs
// become objects whose exported fields and methods are members; fields
// can be assigned. Maps with string keys become read-only objects.
func (m *Marshaller) ToValue(name string, val interface{}) (evaluator.Value, error) {
	if val == nil {
		return evaluator.NULL, nil
	}
	if v, ok := val.(evaluator.Value); ok {
		return v, nil
	}
	return m.toValue(name, reflect.ValueOf(val))
}

func (m *Marshaller) toValue(name string, v reflect.Value) (evaluator.Value, error) {
	if !v.IsValid() {
		return evaluator.NULL, nil
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &evaluator.Number{Value: float64(v.Int())}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &evaluator.Number{Value: float64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return &evaluator.Number{Value: v.Float()}, nil
	case reflect.Bool:
		if v.Bool() {
			return evaluator.TRUE, nil
		}
		return evaluator.FALSE, nil
	case reflect.String:
		return &evaluator.String{Value: v.String()}, nil
	case reflect.Interface:
		if v.IsNil() {
			return evaluator.NULL, nil
		}
		return m.toValue(name, v.Elem())
	case reflect.Slice, reflect.Array:
		return m.sliceToArray(name, v)
	case reflect.Map:
		return m.mapToObject(name, v)
	case reflect.Func:
		if v.IsNil() {
			return evaluator.NULL, nil
		}
		return m.function(name, name, v), nil
	case reflect.Ptr:
		if v.IsNil() {
			return evaluator.NULL, nil
		}
		if v.Elem().Kind() == reflect.Struct {
			return m.structToObject(name, v), nil
		}
		return m.toValue(name, v.Elem())
	case reflect.Struct:
		// By value: the program works on a copy.
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		return m.structToObject(name, p), nil
	}
	return nil, fmt.Errorf("%s: cannot convert %s", name, v.Type())
}

func (m *Marshaller) sliceToArray(name string, v reflect.Value) (evaluator.Value, error) {
	if v.Len() > config.MaxArrayLength {
		return nil, fmt.Errorf("%s: %d elements exceed the array limit of %d", name, v.Len(), config.MaxArrayLength)
	}
	values := make([]evaluator.Value, v.Len())
	for i := range values {
		elem, err := m.toValue(fmt.Sprintf("%s[%d]", name, i), v.Index(i))
		if err != nil {
			return nil, err
		}
		values[i] = elem
	}
	return evaluator.NewArray(values), nil
}

func (m *Marshaller) mapToObject(name string, v reflect.Value) (evaluator.Value, error) {
	if v.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("%s: map keys must be strings, not %s", name, v.Type().Key())
	}
	members := make(map[string]evaluator.Value, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		elem, err := m.toValue(name+"."+key, iter.Value())
		if err != nil {
			return nil, err
		}
		if _, ok := elem.(*evaluator.InternalFunction); ok {
			members[key] = elem
			continue
		}
		members[key] = readOnly(name, key, elem)
	}
	return &evaluator.Object{Name: name, Members: members}, nil
}

func readOnly(object, key string, v evaluator.Value) *evaluator.VariableBinding {
	return &evaluator.VariableBinding{
		Name: key,
		Get: func(string) (evaluator.Value, error) {
			return v, nil
		},
		Set: func(_ *evaluator.Context, name string, _ evaluator.Value) error {
			return fmt.Errorf("<var>%s.%s</var> cannot be changed", object, name)
		},
	}
}

// structToObject exposes the exported fields and methods of the struct
// p points to. Writes to fields go to the Go value.
func (m *Marshaller) structToObject(name string, p reflect.Value) *evaluator.Object {
	members := make(map[string]evaluator.Value)
	t := p.Elem().Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		members[field.Name] = m.field(name, p.Elem().Field(i), field.Name)
	}
	for i := 0; i < p.NumMethod(); i++ {
		method := p.Type().Method(i)
		members[method.Name] = m.function(method.Name, name+"."+method.Name, p.Method(i))
	}
	return &evaluator.Object{Name: name, Members: members}
}

func (m *Marshaller) field(object string, f reflect.Value, name string) *evaluator.VariableBinding {
	qualified := object + "." + name
	return &evaluator.VariableBinding{
		Name: name,
		Get: func(string) (evaluator.Value, error) {
			return m.toValue(qualified, f)
		},
		Set: func(_ *evaluator.Context, _ string, v evaluator.Value) error {
			val, err := m.FromValue(v, f.Type())
			if err != nil {
				return fmt.Errorf("<var>%s</var>: %w", qualified, err)
			}
			if val == nil {
				f.Set(reflect.Zero(f.Type()))
				return nil
			}
			f.Set(reflect.ValueOf(val))
			return nil
		},
	}
}

// function wraps a Go function. Arguments are converted to the parameter
// types; a trailing error result, when non-nil, fails the call.
func (m *Marshaller) function(name, tag string, fn reflect.Value) *evaluator.InternalFunction {
	return &evaluator.InternalFunction{
		Name: name,
		Info: tag,
		Fn: func(_ *evaluator.Context, args []evaluator.Value) (evaluator.Value, error) {
			in, err := m.arguments(tag, fn.Type(), args)
			if err != nil {
				return nil, err
			}
			return m.results(tag, fn.Call(in))
		},
	}
}

func (m *Marshaller) arguments(name string, t reflect.Type, args []evaluator.Value) ([]reflect.Value, error) {
	numIn := t.NumIn()
	if t.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, fmt.Errorf("<var>%s</var> expects at least <var>%d</var> arguments, got <var>%d</var>", name, numIn-1, len(args))
		}
	} else if len(args) != numIn {
		return nil, fmt.Errorf("<var>%s</var> expects <var>%d</var> arguments, got <var>%d</var>", name, numIn, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var target reflect.Type
		if t.IsVariadic() && i >= numIn-1 {
			target = t.In(numIn - 1).Elem()
		} else {
			target = t.In(i)
		}
		val, err := m.FromValue(arg, target)
		if err != nil {
			return nil, fmt.Errorf("argument %d of <var>%s</var>: %w", i+1, name, err)
		}
		if val == nil {
			in[i] = reflect.Zero(target)
		} else {
			in[i] = reflect.ValueOf(val)
		}
	}
	return in, nil
}

func (m *Marshaller) results(name string, out []reflect.Value) (evaluator.Value, error) {
	if n := len(out); n > 0 && out[n-1].Type().Implements(errorType) {
		if err, _ := out[n-1].Interface().(error); err != nil {
			return nil, err
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return m.toValue(name, out[0])
	}
	return m.sliceToArray(name, reflect.ValueOf(valuesOf(out)))
}

func valuesOf(vs []reflect.Value) []interface{} {
	out := make([]interface{}, len(vs))
	for i, v := range vs {
		out[i] = v.Interface()
	}
	return out
}

// FromValue converts a jsmm value to a Go value of type target. A nil
// target yields the natural Go type: float64, string, bool, []interface{}
// or nil.
func (m *Marshaller) FromValue(v evaluator.Value, target reflect.Type) (interface{}, error) {
	if target == nil || (target.Kind() == reflect.Interface && target.NumMethod() == 0) {
		return m.natural(v)
	}

	switch target.Kind() {
	case reflect.Bool:
		b, ok := v.(*evaluator.Boolean)
		if !ok {
			return nil, mismatch(v, "a boolean")
		}
		return reflect.ValueOf(b.Value).Convert(target).Interface(), nil
	case reflect.String:
		s, ok := v.(*evaluator.String)
		if !ok {
			return nil, mismatch(v, "a string")
		}
		return reflect.ValueOf(s.Value).Convert(target).Interface(), nil
	case reflect.Float32, reflect.Float64:
		n, ok := v.(*evaluator.Number)
		if !ok {
			return nil, mismatch(v, "a number")
		}
		return reflect.ValueOf(n.Value).Convert(target).Interface(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := v.(*evaluator.Number)
		if !ok || n.Value != math.Trunc(n.Value) || math.IsInf(n.Value, 0) {
			return nil, mismatch(v, "an integer")
		}
		return reflect.ValueOf(int64(n.Value)).Convert(target).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := v.(*evaluator.Number)
		if !ok || n.Value < 0 || n.Value != math.Trunc(n.Value) || math.IsInf(n.Value, 0) {
			return nil, mismatch(v, "a non-negative integer")
		}
		return reflect.ValueOf(uint64(n.Value)).Convert(target).Interface(), nil
	case reflect.Slice:
		a, ok := v.(*evaluator.Array)
		if !ok {
			return nil, mismatch(v, "an array")
		}
		values := a.Values()
		out := reflect.MakeSlice(target, len(values), len(values))
		for i, elem := range values {
			val, err := m.FromValue(elem, target.Elem())
			if err != nil {
				return nil, err
			}
			if val != nil {
				out.Index(i).Set(reflect.ValueOf(val))
			}
		}
		return out.Interface(), nil
	case reflect.Ptr, reflect.Interface, reflect.Map:
		switch v.(type) {
		case *evaluator.Null, *evaluator.Undefined:
			return nil, nil
		}
	}
	return nil, fmt.Errorf("<var>%s</var> cannot be passed as %s", evaluator.Stringify(v), target)
}

func (m *Marshaller) natural(v evaluator.Value) (interface{}, error) {
	switch v := v.(type) {
	case *evaluator.Number:
		return v.Value, nil
	case *evaluator.String:
		return v.Value, nil
	case *evaluator.Boolean:
		return v.Value, nil
	case *evaluator.Null, *evaluator.Undefined:
		return nil, nil
	case *evaluator.Array:
		values := v.Values()
		out := make([]interface{}, len(values))
		for i, elem := range values {
			val, err := m.natural(elem)
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil
	}
	return nil, fmt.Errorf("<var>%s</var> cannot be passed to Go", evaluator.Stringify(v))
}

func mismatch(v evaluator.Value, want string) error {
	return fmt.Errorf("<var>%s</var> is not %s", evaluator.Stringify(v), want)
}
