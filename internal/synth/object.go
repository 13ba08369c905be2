package synth

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Object is an instance of a synthesized type.
// Members are reached by name; the type's mode decides where state lives.
type Object struct {
	typ *Type

	// Backing-Field and Pass-Through: pointer to the runtime storage struct
	storage reflect.Value
	// Dictionary-Backed: the caller's map
	store map[string]any
	// Forwarding: an interface value of the contract type, or a synthesized peer
	target reflect.Value
	peer   *Object

	initializing bool
}

// Type returns the synthesized type of the instance
func (o *Object) Type() *Type { return o.typ }

// Get reads a property
func (o *Object) Get(name string) (any, error) {
	p, ok := o.typ.propIndex[name]
	if !ok {
		return nil, o.fail("get", name, ErrUnknownMember)
	}
	if p.get == nil {
		return nil, o.fail("get", name, ErrNotReadable)
	}
	v, err := p.get(o)
	if err != nil {
		return nil, o.fail("get", name, err)
	}
	return v, nil
}

// Set writes a property.
// Inside an initializer, properties without a setter are writable as well.
func (o *Object) Set(name string, v any) error {
	p, ok := o.typ.propIndex[name]
	if !ok {
		return o.fail("set", name, ErrUnknownMember)
	}
	set := p.set
	if set == nil && o.initializing {
		set = p.store
	}
	if set == nil {
		return o.fail("set", name, ErrNotWritable)
	}
	if err := set(o, v); err != nil {
		return o.fail("set", name, err)
	}
	return nil
}

// Call invokes a method and returns its results
func (o *Object) Call(name string, args ...any) ([]any, error) {
	m, ok := o.typ.methIndex[name]
	if !ok {
		return nil, o.fail("call", name, ErrUnknownMember)
	}
	out, err := m.call(o, args)
	if err != nil {
		return nil, o.fail("call", name, err)
	}
	return out, nil
}

// Values returns a snapshot of every readable property
func (o *Object) Values() (map[string]any, error) {
	values := make(map[string]any, len(o.typ.properties))
	for _, p := range o.typ.properties {
		if p.get == nil {
			continue
		}
		v, err := o.Get(p.desc.Name)
		if err != nil {
			return nil, err
		}
		values[p.desc.Name] = v
	}
	return values, nil
}

// MarshalJSON encodes the readable properties as a JSON object
func (o *Object) MarshalJSON() ([]byte, error) {
	values, err := o.Values()
	if err != nil {
		return nil, err
	}
	return json.Marshal(values)
}

// Base returns a pointer to the embedded base value of a subtype instance
func (o *Object) Base() any {
	if o.typ.mode != ModeSubtype {
		return nil
	}
	return o.storage.Elem().Field(0).Addr().Interface()
}

// Target returns the wrapped target of a proxy instance
func (o *Object) Target() any {
	switch {
	case o.peer != nil:
		return o.peer
	case o.target.IsValid():
		return o.target.Interface()
	default:
		return nil
	}
}

// Store returns the backing map of a dictionary instance
func (o *Object) Store() map[string]any {
	return o.store
}

// String renders the type name and readable property values
func (o *Object) String() string {
	var b strings.Builder
	b.WriteString(o.typ.name)
	b.WriteString("{")
	first := true
	for _, p := range o.typ.properties {
		if p.get == nil {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		v, err := p.get(o)
		if err != nil {
			fmt.Fprintf(&b, "%s: <%v>", p.desc.Name, err)
			continue
		}
		fmt.Fprintf(&b, "%s: %v", p.desc.Name, v)
	}
	b.WriteString("}")
	return b.String()
}

// fail wraps err in an *AccessError unless a forwarded peer already did
func (o *Object) fail(op, member string, err error) error {
	var ae *AccessError
	if errors.As(err, &ae) {
		return err
	}
	return &AccessError{Type: o.typ.name, Member: member, Op: op, Err: err}
}
