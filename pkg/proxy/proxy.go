package proxy

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/proxyme/proxyme/internal/cache"
	"github.com/proxyme/proxyme/internal/descriptor"
	"github.com/proxyme/proxyme/internal/synth"
)

type (
	// Object is an instance of a synthesized type
	Object = synth.Object
	// Type is a synthesized implementation of one contract in one mode
	Type = synth.Type
	// Mode selects how a contract is synthesized
	Mode = synth.Mode
	// Initializer runs on a zeroed instance before its constructor returns
	Initializer = synth.Initializer
	// ContractViolation reports a contract unfit for the requested mode
	ContractViolation = synth.ContractViolation
	// AccessError reports a failed member access or construction
	AccessError = synth.AccessError
	// Descriptor describes the members of a contract
	Descriptor = descriptor.ContractDescriptor
	// Stats counts cache activity
	Stats = cache.Stats
)

const (
	ModeContract   = synth.ModeContract
	ModeDictionary = synth.ModeDictionary
	ModeProxy      = synth.ModeProxy
	ModeSubtype    = synth.ModeSubtype
)

// DefaultNameSeparator joins a contract name and the mode suffix
const DefaultNameSeparator = synth.DefaultNameSeparator

var (
	ErrContractViolation = synth.ErrContractViolation
	ErrUnknownMember     = synth.ErrUnknownMember
	ErrNotReadable       = synth.ErrNotReadable
	ErrNotWritable       = synth.ErrNotWritable
	ErrMissingValue      = synth.ErrMissingValue
	ErrTypeMismatch      = synth.ErrTypeMismatch
	ErrArgumentCount     = synth.ErrArgumentCount
	ErrInvalidTarget     = synth.ErrInvalidTarget
	ErrNoConstructor     = synth.ErrNoConstructor
	ErrNilArgument       = synth.ErrNilArgument
	ErrInvalidIdentity   = synth.ErrInvalidIdentity
	ErrIdentityConflict  = synth.ErrIdentityConflict
)

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the process-wide engine, created on first use
func Default() *Engine {
	defaultOnce.Do(func() {
		e, err := NewEngine()
		if err != nil {
			panic(fmt.Sprintf("proxy: default engine: %v", err))
		}
		defaultEngine = e
	})
	return defaultEngine
}

// TypeFor returns the reflect.Type of T, which may be an interface
func TypeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// CreateContract creates a backing-field instance of T on the default engine
func CreateContract[T any]() (*Object, error) {
	return Default().CreateContract(TypeFor[T]())
}

// CreateContractWith creates a backing-field instance of T and runs init on it
func CreateContractWith[T any](init Initializer) (*Object, error) {
	return Default().CreateContractWith(TypeFor[T](), init)
}

// CreateContractFromMap creates an instance of T whose properties live in store
func CreateContractFromMap[T any](store map[string]any) (*Object, error) {
	return Default().CreateContractFromMap(TypeFor[T](), store)
}

// CreateProxy creates an instance of T forwarding every member to target
func CreateProxy[T any](target T) (*Object, error) {
	return Default().CreateProxy(TypeFor[T](), target)
}

// CreateSubtype creates a subtype instance of the struct type T
func CreateSubtype[T any](args ...any) (*Object, error) {
	return Default().CreateSubtype(TypeFor[T](), args...)
}

// Get reads a property and asserts it to V.
// A nil property value yields the zero V.
func Get[V any](o *Object, name string) (V, error) {
	var zero V
	v, err := o.Get(name)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(V)
	if !ok {
		return zero, &AccessError{
			Type:   o.Type().Name(),
			Member: name,
			Op:     "get",
			Err:    fmt.Errorf("%w: property holds %T, not %s", ErrTypeMismatch, v, TypeFor[V]()),
		}
	}
	return typed, nil
}

// Call invokes a method and asserts its first result to V
func Call[V any](o *Object, name string, args ...any) (V, error) {
	var zero V
	out, err := o.Call(name, args...)
	if err != nil {
		return zero, err
	}
	if len(out) == 0 || out[0] == nil {
		return zero, nil
	}
	typed, ok := out[0].(V)
	if !ok {
		return zero, &AccessError{
			Type:   o.Type().Name(),
			Member: name,
			Op:     "call",
			Err:    fmt.Errorf("%w: method returned %T, not %s", ErrTypeMismatch, out[0], TypeFor[V]()),
		}
	}
	return typed, nil
}
