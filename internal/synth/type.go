package synth

import (
	"fmt"
	"reflect"

	"github.com/proxyme/proxyme/internal/descriptor"
)

// Initializer is invoked with a freshly zeroed instance before its constructor returns
type Initializer func(*Object) error

type getterFunc func(o *Object) (any, error)
type setterFunc func(o *Object, v any) error
type methodFunc func(o *Object, args []any) ([]any, error)

// propertyImpl is the synthesized implementation of one property
type propertyImpl struct {
	desc descriptor.PropertyDescriptor
	get  getterFunc
	set  setterFunc

	// store writes the backing slot regardless of accessors, nil without slots
	store setterFunc
}

// methodImpl is the synthesized implementation of one method
type methodImpl struct {
	desc descriptor.MethodDescriptor
	call methodFunc
}

// Type is a synthesized implementation of one contract in one mode.
// Types are immutable once assembled and safe for concurrent use.
type Type struct {
	name     string
	pkgPath  string
	mode     Mode
	contract *descriptor.ContractDescriptor
	moduleID string
	storage  reflect.Type

	properties []*propertyImpl
	methods    []*methodImpl
	propIndex  map[string]*propertyImpl
	methIndex  map[string]*methodImpl

	newBlank   func() *Object
	newFromMap func(store map[string]any) (*Object, error)
	newProxy   func(target any) (*Object, error)
	newSubtype func(args []any) (*Object, error)
}

// Name returns the synthesized type name
func (t *Type) Name() string { return t.name }

// PkgPath returns the namespace of the type, the contract's package path
func (t *Type) PkgPath() string { return t.pkgPath }

// Mode returns the synthesis mode
func (t *Type) Mode() Mode { return t.mode }

// Contract returns the descriptor the type implements
func (t *Type) Contract() *descriptor.ContractDescriptor { return t.contract }

// ModuleID returns the id of the assembler that built the type
func (t *Type) ModuleID() string { return t.moduleID }

// Storage returns the runtime struct type holding instance state.
// It is nil for modes that keep state outside the instance.
func (t *Type) Storage() reflect.Type { return t.storage }

// Properties returns the implemented properties in contract order
func (t *Type) Properties() []descriptor.PropertyDescriptor {
	props := make([]descriptor.PropertyDescriptor, len(t.properties))
	for i, p := range t.properties {
		props[i] = p.desc
	}
	return props
}

// Methods returns the implemented methods in contract order
func (t *Type) Methods() []descriptor.MethodDescriptor {
	methods := make([]descriptor.MethodDescriptor, len(t.methods))
	for i, m := range t.methods {
		methods[i] = m.desc
	}
	return methods
}

// SynthesizedFrom reports whether t was synthesized from the Go contract
// type target, or a pointer to it. It compares contract identity only:
// an *Object is never assignable to target.
func (t *Type) SynthesizedFrom(target reflect.Type) bool {
	if target == nil || t.contract.Type == nil {
		return false
	}
	if target == t.contract.Type {
		return true
	}
	return target.Kind() == reflect.Pointer && target.Elem() == t.contract.Type
}

// Constructors lists the constructor entry points the type offers
func (t *Type) Constructors() []string {
	var names []string
	if t.newBlank != nil {
		names = append(names, "New", "NewWithInitializer")
	}
	if t.newFromMap != nil {
		names = append(names, "NewFromMap")
	}
	if t.newProxy != nil {
		names = append(names, "NewProxy")
	}
	if t.newSubtype != nil {
		names = append(names, "NewSubtype")
	}
	return names
}

// String returns the type name
func (t *Type) String() string { return t.name }

// New creates an instance with every property at its zero value.
// For subtypes it runs the base type's default constructor.
func (t *Type) New() (*Object, error) {
	switch {
	case t.newBlank != nil:
		return t.newBlank(), nil
	case t.newSubtype != nil:
		return t.NewSubtype()
	default:
		return nil, t.noConstructor("New")
	}
}

// NewWithInitializer creates a zeroed instance and passes it to init before returning it.
// A nil init behaves as New.
func (t *Type) NewWithInitializer(init Initializer) (*Object, error) {
	if t.newBlank == nil {
		return nil, t.noConstructor("NewWithInitializer")
	}

	o := t.newBlank()
	if init == nil {
		return o, nil
	}

	o.initializing = true
	err := init(o)
	o.initializing = false
	if err != nil {
		return nil, fmt.Errorf("initializer for %s failed: %w", t.name, err)
	}
	return o, nil
}

// NewFromMap creates an instance whose properties live in store.
// The map is used in place; missing properties are seeded with zero values.
func (t *Type) NewFromMap(store map[string]any) (*Object, error) {
	if t.newFromMap == nil {
		return nil, t.noConstructor("NewFromMap")
	}
	return t.newFromMap(store)
}

// NewProxy creates an instance forwarding every member to target
func (t *Type) NewProxy(target any) (*Object, error) {
	if t.newProxy == nil {
		return nil, t.noConstructor("NewProxy")
	}
	return t.newProxy(target)
}

// NewSubtype creates a subtype instance through the base constructor matching args
func (t *Type) NewSubtype(args ...any) (*Object, error) {
	if t.newSubtype == nil {
		return nil, t.noConstructor("NewSubtype")
	}
	return t.newSubtype(args)
}

func (t *Type) noConstructor(name string) error {
	return &AccessError{
		Type: t.name,
		Op:   "construct",
		Err:  fmt.Errorf("%w: %s is not offered in %s mode", ErrNoConstructor, name, t.mode),
	}
}

func (t *Type) addProperty(p *propertyImpl) {
	t.properties = append(t.properties, p)
	t.propIndex[p.desc.Name] = p
}

func (t *Type) addMethod(m *methodImpl) {
	t.methods = append(t.methods, m)
	t.methIndex[m.desc.Name] = m
}
