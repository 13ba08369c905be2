package synth

import (
	"fmt"
	"reflect"

	"github.com/proxyme/proxyme/internal/descriptor"
)

// forwardingSynthesizer delegates every member to the instance's target
type forwardingSynthesizer struct {
	desc *descriptor.ContractDescriptor
}

func newForwardingSynthesizer(desc *descriptor.ContractDescriptor) *forwardingSynthesizer {
	return &forwardingSynthesizer{desc: desc}
}

func (s *forwardingSynthesizer) implementProperty(p descriptor.PropertyDescriptor) (*propertyImpl, error) {
	impl := &propertyImpl{desc: p}

	if p.HasGetter {
		impl.get = func(o *Object) (any, error) {
			if o.peer != nil {
				return o.peer.Get(p.Name)
			}
			out := o.target.Method(p.GetterIndex).Call(nil)
			return out[0].Interface(), nil
		}
	}
	if p.HasSetter {
		impl.set = func(o *Object, v any) error {
			if o.peer != nil {
				return o.peer.Set(p.Name, v)
			}
			rv, err := coerce(p.Type, p.Semantics, v)
			if err != nil {
				return err
			}
			o.target.Method(p.SetterIndex).Call([]reflect.Value{rv})
			return nil
		}
	}
	return impl, nil
}

func (s *forwardingSynthesizer) implementMethod(m descriptor.MethodDescriptor) (*methodImpl, error) {
	return &methodImpl{
		desc: m,
		call: func(o *Object, args []any) ([]any, error) {
			if o.peer != nil {
				return o.peer.Call(m.Name, args...)
			}
			in, err := coerceArgs(m, args)
			if err != nil {
				return nil, err
			}
			return results(o.target.Method(m.Index).Call(in)), nil
		},
	}, nil
}

func (s *forwardingSynthesizer) finalize(t *Type) {
	t.newProxy = func(target any) (*Object, error) {
		if target == nil {
			return nil, &AccessError{Type: t.name, Op: "construct", Err: fmt.Errorf("%w: proxy target is nil", ErrNilArgument)}
		}

		if peer, ok := target.(*Object); ok && peer != nil && peer.typ.contract.Identity == s.desc.Identity {
			return &Object{typ: t, peer: peer}, nil
		}

		iface := s.desc.Type
		if iface == nil || !reflect.TypeOf(target).Implements(iface) {
			return nil, &AccessError{
				Type: t.name,
				Op:   "construct",
				Err:  fmt.Errorf("%w: %T does not implement %s", ErrInvalidTarget, target, s.desc.QualifiedName),
			}
		}

		tv := reflect.New(iface).Elem()
		tv.Set(reflect.ValueOf(target))
		return &Object{typ: t, target: tv}, nil
	}
}
