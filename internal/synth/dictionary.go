package synth

import (
	"fmt"
	"reflect"

	"github.com/proxyme/proxyme/internal/descriptor"
)

// dictionarySynthesizer keeps property state in a caller-owned map
type dictionarySynthesizer struct {
	desc    *descriptor.ContractDescriptor
	lenient bool
}

func newDictionarySynthesizer(desc *descriptor.ContractDescriptor, lenient bool) *dictionarySynthesizer {
	return &dictionarySynthesizer{desc: desc, lenient: lenient}
}

func (s *dictionarySynthesizer) implementProperty(p descriptor.PropertyDescriptor) (*propertyImpl, error) {
	impl := &propertyImpl{
		desc: p,
		store: func(o *Object, v any) error {
			if v == nil && p.Semantics == descriptor.ReferenceSemantics {
				o.store[p.Name] = nil
				return nil
			}
			rv, err := coerce(p.Type, p.Semantics, v)
			if err != nil {
				return err
			}
			o.store[p.Name] = rv.Interface()
			return nil
		},
	}
	if p.HasGetter {
		impl.get = func(o *Object) (any, error) {
			return s.read(o.store, p)
		}
	}
	if p.HasSetter {
		impl.set = impl.store
	}
	return impl, nil
}

// read converts the raw map value to the property type
func (s *dictionarySynthesizer) read(store map[string]any, p descriptor.PropertyDescriptor) (any, error) {
	raw, ok := store[p.Name]
	if !ok || raw == nil {
		if p.Semantics == descriptor.ReferenceSemantics {
			return reflect.Zero(p.Type).Interface(), nil
		}
		return nil, fmt.Errorf("%w: no %s stored under %q", ErrMissingValue, p.Type, p.Name)
	}

	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(p.Type) {
		out := reflect.New(p.Type).Elem()
		out.Set(rv)
		return out.Interface(), nil
	}
	if s.lenient && p.Semantics == descriptor.ValueSemantics {
		out, err := lenientConvert(p.Type, raw)
		if err != nil {
			return nil, err
		}
		return out.Interface(), nil
	}
	return nil, mismatch(p.Type, raw)
}

func (s *dictionarySynthesizer) implementMethod(m descriptor.MethodDescriptor) (*methodImpl, error) {
	return nil, fmt.Errorf("dictionary-backed types cannot implement method %s", m.Name)
}

func (s *dictionarySynthesizer) finalize(t *Type) {
	t.newFromMap = func(store map[string]any) (*Object, error) {
		if store == nil {
			return nil, &AccessError{Type: t.name, Op: "construct", Err: fmt.Errorf("%w: map is nil", ErrNilArgument)}
		}
		for _, p := range s.desc.Properties {
			if _, ok := store[p.Name]; !ok {
				store[p.Name] = p.Zero()
			}
		}
		return &Object{typ: t, store: store}, nil
	}
}
