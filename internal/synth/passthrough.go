package synth

import (
	"fmt"
	"reflect"

	"github.com/proxyme/proxyme/internal/descriptor"
)

// passThroughSynthesizer wraps a base struct in a distinct runtime struct type
type passThroughSynthesizer struct {
	desc    *descriptor.ContractDescriptor
	storage reflect.Type
}

func newPassThroughSynthesizer(desc *descriptor.ContractDescriptor) *passThroughSynthesizer {
	storage := reflect.StructOf([]reflect.StructField{{
		Name: "Base",
		Type: desc.Type,
		Tag:  `json:"base"`,
	}})
	return &passThroughSynthesizer{desc: desc, storage: storage}
}

func base(o *Object) reflect.Value {
	return o.storage.Elem().Field(0)
}

func (s *passThroughSynthesizer) implementProperty(p descriptor.PropertyDescriptor) (*propertyImpl, error) {
	field := func(o *Object) (reflect.Value, error) {
		f, err := base(o).FieldByIndexErr(p.FieldIndex)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %v", ErrMissingValue, err)
		}
		return f, nil
	}

	impl := &propertyImpl{desc: p}
	impl.get = func(o *Object) (any, error) {
		f, err := field(o)
		if err != nil {
			return nil, err
		}
		return f.Interface(), nil
	}
	impl.store = func(o *Object, v any) error {
		f, err := field(o)
		if err != nil {
			return err
		}
		rv, err := coerce(p.Type, p.Semantics, v)
		if err != nil {
			return err
		}
		f.Set(rv)
		return nil
	}
	impl.set = impl.store
	return impl, nil
}

func (s *passThroughSynthesizer) implementMethod(m descriptor.MethodDescriptor) (*methodImpl, error) {
	return &methodImpl{
		desc: m,
		call: func(o *Object, args []any) ([]any, error) {
			in, err := coerceArgs(m, args)
			if err != nil {
				return nil, err
			}
			return results(base(o).Addr().Method(m.Index).Call(in)), nil
		},
	}, nil
}

func (s *passThroughSynthesizer) finalize(t *Type) {
	t.storage = s.storage
	t.newSubtype = func(args []any) (*Object, error) {
		o := &Object{typ: t, storage: reflect.New(s.storage)}

		ctor, in, err := s.match(args)
		if err != nil {
			return nil, &AccessError{Type: t.name, Op: "construct", Err: err}
		}
		if !ctor.Fn.IsValid() {
			return o, nil
		}

		out := ctor.Fn.Call(in)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, fmt.Errorf("base constructor of %s failed: %w", t.name, out[1].Interface().(error))
		}
		v := out[0]
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return nil, &AccessError{Type: t.name, Op: "construct", Err: fmt.Errorf("%w: base constructor returned nil", ErrNilArgument)}
			}
			v = v.Elem()
		}
		base(o).Set(v)
		return o, nil
	}
}

// match picks the first base constructor whose parameters accept args
func (s *passThroughSynthesizer) match(args []any) (descriptor.ConstructorDescriptor, []reflect.Value, error) {
	for _, c := range s.desc.Constructors {
		in, err := coerceArgs(descriptor.MethodDescriptor{Params: c.Params, Variadic: c.Variadic}, args)
		if err == nil {
			return c, in, nil
		}
	}
	return descriptor.ConstructorDescriptor{}, nil,
		fmt.Errorf("%w: no constructor of %s accepts %d arguments", ErrNoConstructor, s.desc.QualifiedName, len(args))
}
