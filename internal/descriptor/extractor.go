package descriptor

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultGetterPrefix marks interface methods read as property getters
	DefaultGetterPrefix = "Get"
	// DefaultSetterPrefix marks interface methods read as property setters
	DefaultSetterPrefix = "Set"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Extractor builds contract descriptors from Go types.
// Extraction is deterministic and has no side effects.
type Extractor struct {
	getterPrefix string
	setterPrefix string

	mu           sync.RWMutex
	constructors map[reflect.Type][]ConstructorDescriptor
}

// Option configures an Extractor
type Option func(*Extractor)

// WithGetterPrefix sets the method prefix that marks a property getter
func WithGetterPrefix(prefix string) Option {
	return func(e *Extractor) {
		if prefix != "" {
			e.getterPrefix = prefix
		}
	}
}

// WithSetterPrefix sets the method prefix that marks a property setter
func WithSetterPrefix(prefix string) Option {
	return func(e *Extractor) {
		if prefix != "" {
			e.setterPrefix = prefix
		}
	}
}

// NewExtractor creates a new descriptor extractor
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		getterPrefix: DefaultGetterPrefix,
		setterPrefix: DefaultSetterPrefix,
		constructors: make(map[reflect.Type][]ConstructorDescriptor),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// GetterPrefix returns the configured getter prefix
func (e *Extractor) GetterPrefix() string { return e.getterPrefix }

// SetterPrefix returns the configured setter prefix
func (e *Extractor) SetterPrefix() string { return e.setterPrefix }

// RegisterConstructor records fn as a constructor of the struct type it returns.
//
// fn must be a function returning T or *T, optionally followed by an error,
// where T is a struct type. A constructor taking no arguments replaces the
// zero-value default constructor of T.
func (e *Extractor) RegisterConstructor(fn any) error {
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func || fv.IsNil() {
		return fmt.Errorf("constructor must be a non-nil function, got %T", fn)
	}

	ft := fv.Type()
	if ft.NumOut() == 0 || ft.NumOut() > 2 {
		return fmt.Errorf("constructor %s must return T, *T or (T, error)", ft)
	}
	if ft.NumOut() == 2 && ft.Out(1) != errorType {
		return fmt.Errorf("constructor %s: second result must be error", ft)
	}

	base := ft.Out(0)
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	if base.Kind() != reflect.Struct {
		return fmt.Errorf("constructor %s must build a struct, got %s", ft, base.Kind())
	}

	ctor := ConstructorDescriptor{
		Params:   make([]reflect.Type, ft.NumIn()),
		Variadic: ft.IsVariadic(),
		Fn:       fv,
	}
	for i := range ctor.Params {
		ctor.Params[i] = ft.In(i)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.constructors[base] = append(e.constructors[base], ctor)
	return nil
}

// Extract describes t.
//
// Interface types are interface-like contracts; struct types are class-like.
// A pointer to either is dereferenced once. Everything else is opaque.
func (e *Extractor) Extract(t reflect.Type) *ContractDescriptor {
	if t.Kind() == reflect.Pointer {
		if k := t.Elem().Kind(); k == reflect.Struct || k == reflect.Interface {
			t = t.Elem()
		}
	}

	desc := &ContractDescriptor{
		Identity:      t,
		QualifiedName: QualifiedName(t),
		PkgPath:       t.PkgPath(),
		Name:          t.Name(),
		Type:          t,
	}
	if desc.Name == "" {
		desc.Name = t.String()
	}

	switch t.Kind() {
	case reflect.Interface:
		desc.Kind = KindInterface
		e.extractInterface(desc, t)
	case reflect.Struct:
		desc.Kind = KindClass
		e.extractClass(desc, t)
	default:
		desc.Kind = KindOpaque
	}

	return desc
}

// extractInterface pairs accessor methods into properties and keeps the rest as methods
func (e *Extractor) extractInterface(desc *ContractDescriptor, t reflect.Type) {
	getters := make(map[string]reflect.Method)
	setters := make(map[string]reflect.Method)
	var plain []reflect.Method

	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if name, ok := e.getterName(m); ok {
			getters[name] = m
			continue
		}
		if name, ok := e.setterName(m); ok {
			setters[name] = m
			continue
		}
		plain = append(plain, m)
	}

	names := make([]string, 0, len(getters)+len(setters))
	for name := range getters {
		names = append(names, name)
	}
	for name := range setters {
		if _, dup := getters[name]; !dup {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		g, hasGetter := getters[name]
		s, hasSetter := setters[name]

		// Accessors that disagree on the type do not form a property
		if hasGetter && hasSetter && g.Type.Out(0) != s.Type.In(0) {
			plain = append(plain, g, s)
			continue
		}

		p := PropertyDescriptor{
			Name:        name,
			GetterIndex: -1,
			SetterIndex: -1,
		}
		if hasGetter {
			p.Type = g.Type.Out(0)
			p.HasGetter = true
			p.GetterMethod = g.Name
			p.GetterIndex = g.Index
		}
		if hasSetter {
			p.Type = s.Type.In(0)
			p.HasSetter = true
			p.SetterMethod = s.Name
			p.SetterIndex = s.Index
		}
		p.TypeName = p.Type.String()
		p.Semantics, p.Category = Classify(p.Type)
		desc.Properties = append(desc.Properties, p)
	}

	sort.Slice(plain, func(i, j int) bool { return plain[i].Name < plain[j].Name })
	for _, m := range plain {
		desc.Methods = append(desc.Methods, describeMethod(m, m.Type, 0))
	}
}

// extractClass describes exported fields, pointer methods and constructors of a struct
func (e *Extractor) extractClass(desc *ContractDescriptor, t reflect.Type) {
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		p := PropertyDescriptor{
			Name:        f.Name,
			Type:        f.Type,
			TypeName:    f.Type.String(),
			HasGetter:   true,
			HasSetter:   true,
			GetterIndex: -1,
			SetterIndex: -1,
			FieldIndex:  f.Index,
		}
		p.Semantics, p.Category = Classify(f.Type)
		desc.Properties = append(desc.Properties, p)
	}

	// Methods of *T include those declared on T; the receiver is In(0)
	pt := reflect.PointerTo(t)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		desc.Methods = append(desc.Methods, describeMethod(m, m.Type, 1))
	}

	desc.Constructors = e.constructorsFor(t)
}

func (e *Extractor) constructorsFor(t reflect.Type) []ConstructorDescriptor {
	e.mu.RLock()
	registered := e.constructors[t]
	e.mu.RUnlock()

	ctors := make([]ConstructorDescriptor, 0, len(registered)+1)
	hasDefault := false
	for _, c := range registered {
		if c.IsDefault() {
			hasDefault = true
		}
	}
	if !hasDefault {
		ctors = append(ctors, ConstructorDescriptor{})
	}
	return append(ctors, registered...)
}

func describeMethod(m reflect.Method, ft reflect.Type, skip int) MethodDescriptor {
	md := MethodDescriptor{
		Name:     m.Name,
		Params:   make([]reflect.Type, 0, ft.NumIn()-skip),
		Results:  make([]reflect.Type, 0, ft.NumOut()),
		Variadic: ft.IsVariadic(),
		Exported: m.IsExported(),
		Index:    m.Index,
	}
	for i := skip; i < ft.NumIn(); i++ {
		md.Params = append(md.Params, ft.In(i))
	}
	for i := 0; i < ft.NumOut(); i++ {
		md.Results = append(md.Results, ft.Out(i))
	}
	return md
}

func (e *Extractor) getterName(m reflect.Method) (string, bool) {
	if m.Type.NumIn() != 0 || m.Type.NumOut() != 1 {
		return "", false
	}
	return accessorName(m, e.getterPrefix)
}

func (e *Extractor) setterName(m reflect.Method) (string, bool) {
	if m.Type.NumIn() != 1 || m.Type.NumOut() != 0 || m.Type.IsVariadic() {
		return "", false
	}
	return accessorName(m, e.setterPrefix)
}

// accessorName strips prefix from an exported method name followed by an upper-case letter
func accessorName(m reflect.Method, prefix string) (string, bool) {
	if !m.IsExported() || !strings.HasPrefix(m.Name, prefix) {
		return "", false
	}
	rest := m.Name[len(prefix):]
	r, _ := utf8.DecodeRuneInString(rest)
	if rest == "" || !unicode.IsUpper(r) {
		return "", false
	}
	return rest, true
}
