// Package descriptor describes the structural members of a contract.
// It defines the descriptor types consumed by the synthesis engine and the
// extractors that produce them from Go types and from contract documents.
package descriptor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"
)

// Kind discriminates the shape of a described type
type Kind int

const (
	// KindInterface is an interface-like contract with no implementation
	KindInterface Kind = iota
	// KindClass is a class-like type with an accessible default constructor
	KindClass
	// KindOpaque is neither: no members and nothing to construct
	KindOpaque
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindClass:
		return "class"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Semantics tells whether a value is copied or shared
type Semantics int

const (
	// ValueSemantics values are copied; their zero value is a concrete value
	ValueSemantics Semantics = iota
	// ReferenceSemantics values are shared; their zero value is nil
	ReferenceSemantics
)

// String returns the string representation of the semantics
func (s Semantics) String() string {
	switch s {
	case ValueSemantics:
		return "value"
	case ReferenceSemantics:
		return "reference"
	default:
		return "unknown"
	}
}

// Category is a coarse classification of a property type
type Category int

const (
	CategoryBool Category = iota
	CategoryInteger
	CategoryUnsigned
	CategoryFloat
	CategoryComplex
	CategoryString
	CategoryEnum
	CategoryStruct
	CategoryArray
	CategoryReference
)

// String returns the string representation of the category
func (c Category) String() string {
	switch c {
	case CategoryBool:
		return "bool"
	case CategoryInteger:
		return "integer"
	case CategoryUnsigned:
		return "unsigned"
	case CategoryFloat:
		return "float"
	case CategoryComplex:
		return "complex"
	case CategoryString:
		return "string"
	case CategoryEnum:
		return "enum"
	case CategoryStruct:
		return "struct"
	case CategoryArray:
		return "array"
	case CategoryReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Classify returns the semantics and category of t
func Classify(t reflect.Type) (Semantics, Category) {
	switch t.Kind() {
	case reflect.Bool:
		return ValueSemantics, CategoryBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if isEnum(t) {
			return ValueSemantics, CategoryEnum
		}
		return ValueSemantics, CategoryInteger
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if isEnum(t) {
			return ValueSemantics, CategoryEnum
		}
		return ValueSemantics, CategoryUnsigned
	case reflect.Float32, reflect.Float64:
		return ValueSemantics, CategoryFloat
	case reflect.Complex64, reflect.Complex128:
		return ValueSemantics, CategoryComplex
	case reflect.String:
		return ValueSemantics, CategoryString
	case reflect.Struct:
		return ValueSemantics, CategoryStruct
	case reflect.Array:
		return ValueSemantics, CategoryArray
	default:
		return ReferenceSemantics, CategoryReference
	}
}

// isEnum reports whether t is a named integer type declared outside the universe scope
func isEnum(t reflect.Type) bool {
	return t.Name() != "" && t.PkgPath() != ""
}

// PropertyDescriptor describes one property of a contract
type PropertyDescriptor struct {
	Name      string
	Type      reflect.Type
	TypeName  string // Source spelling of Type
	Semantics Semantics
	Category  Category
	HasGetter bool
	HasSetter bool

	// Interface accessors
	GetterMethod string
	SetterMethod string
	GetterIndex  int
	SetterIndex  int

	// Struct field path for class properties
	FieldIndex []int

	// ContractRef names another document contract this property refers to
	ContractRef string
}

// Readable reports whether the property has a getter
func (p PropertyDescriptor) Readable() bool { return p.HasGetter }

// Writable reports whether the property has a setter
func (p PropertyDescriptor) Writable() bool { return p.HasSetter }

// Access returns a short description of the accessors
func (p PropertyDescriptor) Access() string {
	switch {
	case p.HasGetter && p.HasSetter:
		return "readwrite"
	case p.HasGetter:
		return "read"
	case p.HasSetter:
		return "write"
	default:
		return "none"
	}
}

// Zero returns the value a fresh slot for this property holds.
// Value semantics yield the typed zero value; reference semantics yield nil.
// Strings have value semantics, so a dictionary slot for a string is
// seeded with "" instead of staying nil.
func (p PropertyDescriptor) Zero() any {
	if p.Semantics == ReferenceSemantics {
		return nil
	}
	return reflect.Zero(p.Type).Interface()
}

// MethodDescriptor describes one non-accessor method of a contract
type MethodDescriptor struct {
	Name     string
	Params   []reflect.Type
	Results  []reflect.Type
	Variadic bool
	Exported bool
	Index    int // Method index in the interface, -1 otherwise

	// Source spellings, set for document contracts
	ParamNames  []string
	ResultNames []string
}

// Signature renders the method as Go source would declare it
func (m MethodDescriptor) Signature() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = spell(p, m.ParamNames, i)
		if m.Variadic && i == len(m.Params)-1 {
			params[i] = "..." + spell(p.Elem(), nil, 0)
		}
	}
	results := make([]string, len(m.Results))
	for i, r := range m.Results {
		results[i] = spell(r, m.ResultNames, i)
	}

	sig := m.Name + "(" + strings.Join(params, ", ") + ")"
	switch len(results) {
	case 0:
		return sig
	case 1:
		return sig + " " + results[0]
	default:
		return sig + " (" + strings.Join(results, ", ") + ")"
	}
}

func spell(t reflect.Type, names []string, i int) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return t.String()
}

// ConstructorDescriptor describes a way to build a class instance.
// The zero-value default constructor has no Fn.
type ConstructorDescriptor struct {
	Params   []reflect.Type
	Variadic bool
	Fn       reflect.Value
}

// IsDefault reports whether the constructor takes no arguments
func (c ConstructorDescriptor) IsDefault() bool {
	return len(c.Params) == 0 && !c.Variadic
}

// DocumentIdentity identifies a contract declared in a contract document.
// Fingerprint hashes the member shape, so documents declaring the same
// qualified name with different members stay distinct.
type DocumentIdentity struct {
	QualifiedName string
	Fingerprint   string
}

// ContractDescriptor describes the structural members of one contract
type ContractDescriptor struct {
	// Identity is comparable and unique per contract: the reflect.Type for
	// Go contracts, a DocumentIdentity for document contracts.
	Identity      any
	QualifiedName string
	PkgPath       string
	Name          string
	Kind          Kind
	Properties    []PropertyDescriptor
	Methods       []MethodDescriptor
	Constructors  []ConstructorDescriptor

	// Type is the source Go type, nil for document contracts
	Type reflect.Type
}

// Shape renders the kind and members of the contract, one per line.
// Descriptors with equal shapes synthesize identical types.
func (d *ContractDescriptor) Shape() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", d.QualifiedName, d.Kind)
	for _, p := range d.Properties {
		fmt.Fprintf(&b, "property %s %s %s %s %s\n", p.Name, typeString(p.Type), p.Access(), p.GetterMethod, p.SetterMethod)
	}
	for _, m := range d.Methods {
		fmt.Fprintf(&b, "method %s exported=%t\n", m.Signature(), m.Exported)
	}
	return b.String()
}

// Fingerprint returns a SHA-256 hash of the contract shape
func (d *ContractDescriptor) Fingerprint() string {
	sum := sha256.Sum256([]byte(d.Shape()))
	return hex.EncodeToString(sum[:])
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// IsInterfaceLike reports whether the contract has no implementation
func (d *ContractDescriptor) IsInterfaceLike() bool {
	return d.Kind == KindInterface
}

// HasDefaultConstructor reports whether a zero-argument constructor is available
func (d *ContractDescriptor) HasDefaultConstructor() bool {
	for _, c := range d.Constructors {
		if c.IsDefault() {
			return true
		}
	}
	return false
}

// Property finds a property by name
func (d *ContractDescriptor) Property(name string) (PropertyDescriptor, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return PropertyDescriptor{}, false
}

// Method finds a method by name
func (d *ContractDescriptor) Method(name string) (MethodDescriptor, bool) {
	for _, m := range d.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return MethodDescriptor{}, false
}

// String returns a short description of the contract
func (d *ContractDescriptor) String() string {
	return fmt.Sprintf("%s %s (%d properties, %d methods)",
		d.Kind, d.QualifiedName, len(d.Properties), len(d.Methods))
}

// QualifiedName returns the package-qualified name of t
func QualifiedName(t reflect.Type) string {
	if t.Name() == "" {
		return t.String()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}
