package synth

import (
	"fmt"
	"go/token"
	"reflect"

	"github.com/proxyme/proxyme/internal/descriptor"
)

// memberSynthesizer realizes the members of one type in one storage strategy
type memberSynthesizer interface {
	implementProperty(p descriptor.PropertyDescriptor) (*propertyImpl, error)
	implementMethod(m descriptor.MethodDescriptor) (*methodImpl, error)
	finalize(t *Type)
}

// backingSynthesizer keeps one slot per property in a runtime struct
type backingSynthesizer struct {
	storage reflect.Type
	slots   map[string]int
}

func newBackingSynthesizer(desc *descriptor.ContractDescriptor) *backingSynthesizer {
	fields := make([]reflect.StructField, len(desc.Properties))
	slots := make(map[string]int, len(desc.Properties))
	used := make(map[string]bool, len(desc.Properties))

	for i, p := range desc.Properties {
		name := p.Name
		for n := i; !token.IsIdentifier(name) || !token.IsExported(name) || used[name]; n++ {
			name = fmt.Sprintf("Field%d", n)
		}
		used[name] = true
		slots[p.Name] = i
		fields[i] = reflect.StructField{
			Name: name,
			Type: p.Type,
			Tag:  reflect.StructTag(fmt.Sprintf(`json:%q`, p.Name)),
		}
	}

	return &backingSynthesizer{
		storage: reflect.StructOf(fields),
		slots:   slots,
	}
}

func (s *backingSynthesizer) implementProperty(p descriptor.PropertyDescriptor) (*propertyImpl, error) {
	i, ok := s.slots[p.Name]
	if !ok {
		return nil, fmt.Errorf("no slot for property %s", p.Name)
	}

	impl := &propertyImpl{
		desc: p,
		store: func(o *Object, v any) error {
			rv, err := coerce(p.Type, p.Semantics, v)
			if err != nil {
				return err
			}
			o.storage.Elem().Field(i).Set(rv)
			return nil
		},
	}
	if p.HasGetter {
		impl.get = func(o *Object) (any, error) {
			return o.storage.Elem().Field(i).Interface(), nil
		}
	}
	if p.HasSetter {
		impl.set = impl.store
	}
	return impl, nil
}

func (s *backingSynthesizer) implementMethod(m descriptor.MethodDescriptor) (*methodImpl, error) {
	return nil, fmt.Errorf("backing-field types cannot implement method %s", m.Name)
}

func (s *backingSynthesizer) finalize(t *Type) {
	t.storage = s.storage
	t.newBlank = func() *Object {
		return &Object{typ: t, storage: reflect.New(s.storage)}
	}
}
