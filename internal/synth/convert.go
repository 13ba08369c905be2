package synth

import (
	"fmt"
	"reflect"

	"github.com/spf13/cast"

	"github.com/proxyme/proxyme/internal/descriptor"
)

// coerce converts v into a value of type t.
// nil is accepted only for reference semantics and yields the typed zero.
func coerce(t reflect.Type, sem descriptor.Semantics, v any) (reflect.Value, error) {
	if v == nil {
		if sem == descriptor.ReferenceSemantics {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: nil is not a valid %s", ErrTypeMismatch, t)
	}

	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, mismatch(t, v)
	}
	out := reflect.New(t).Elem()
	out.Set(rv)
	return out, nil
}

// coerceArgs converts call arguments to the parameter types of a method
func coerceArgs(m descriptor.MethodDescriptor, args []any) ([]reflect.Value, error) {
	n := len(m.Params)
	if m.Variadic {
		if len(args) < n-1 {
			return nil, fmt.Errorf("%w: want at least %d, got %d", ErrArgumentCount, n-1, len(args))
		}
	} else if len(args) != n {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrArgumentCount, n, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		pt := paramType(m, i)
		sem, _ := descriptor.Classify(pt)
		v, err := coerce(pt, sem, arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = v
	}
	return in, nil
}

func paramType(m descriptor.MethodDescriptor, i int) reflect.Type {
	last := len(m.Params) - 1
	if m.Variadic && i >= last {
		return m.Params[last].Elem()
	}
	return m.Params[i]
}

// results unpacks reflect call results
func results(out []reflect.Value) []any {
	vals := make([]any, len(out))
	for i, v := range out {
		vals[i] = v.Interface()
	}
	return vals
}

// lenientConvert converts scalar raw values to t with spf13/cast
func lenientConvert(t reflect.Type, raw any) (reflect.Value, error) {
	var (
		v   any
		err error
	)
	switch t.Kind() {
	case reflect.Bool:
		v, err = cast.ToBoolE(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err = cast.ToInt64E(raw)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		v, err = cast.ToUint64E(raw)
	case reflect.Float32, reflect.Float64:
		v, err = cast.ToFloat64E(raw)
	case reflect.String:
		v, err = cast.ToStringE(raw)
	default:
		return reflect.Value{}, mismatch(t, raw)
	}
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}

	out := reflect.New(t).Elem()
	switch x := v.(type) {
	case bool:
		out.SetBool(x)
	case int64:
		if out.OverflowInt(x) {
			return reflect.Value{}, fmt.Errorf("%w: %v overflows %s", ErrTypeMismatch, raw, t)
		}
		out.SetInt(x)
	case uint64:
		if out.OverflowUint(x) {
			return reflect.Value{}, fmt.Errorf("%w: %v overflows %s", ErrTypeMismatch, raw, t)
		}
		out.SetUint(x)
	case float64:
		if out.OverflowFloat(x) {
			return reflect.Value{}, fmt.Errorf("%w: %v overflows %s", ErrTypeMismatch, raw, t)
		}
		out.SetFloat(x)
	case string:
		out.SetString(x)
	}
	return out, nil
}
