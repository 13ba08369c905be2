package descriptor

import (
	"fmt"
	"go/token"
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a set of contracts declared in YAML instead of Go source
type Document struct {
	Package   string         `yaml:"package" json:"package"`
	Contracts []ContractSpec `yaml:"contracts" json:"contracts"`
}

// ContractSpec declares one interface-like contract
type ContractSpec struct {
	Name       string         `yaml:"name" json:"name"`
	Properties []PropertySpec `yaml:"properties" json:"properties,omitempty"`
	Methods    []MethodSpec   `yaml:"methods" json:"methods,omitempty"`
}

// PropertySpec declares a property; Access is readwrite (default), read or write
type PropertySpec struct {
	Name   string `yaml:"name" json:"name"`
	Type   string `yaml:"type" json:"type"`
	Access string `yaml:"access,omitempty" json:"access,omitempty"`
}

// MethodSpec declares a method signature
type MethodSpec struct {
	Name    string   `yaml:"name" json:"name"`
	Params  []string `yaml:"params,omitempty" json:"params,omitempty"`
	Returns []string `yaml:"returns,omitempty" json:"returns,omitempty"`
}

// DocumentError describes one problem found in a contract document
type DocumentError struct {
	Contract string
	Member   string
	Message  string
}

// Error implements the error interface
func (e *DocumentError) Error() string {
	var b strings.Builder
	if e.Contract != "" {
		b.WriteString(e.Contract)
		if e.Member != "" {
			b.WriteString(".")
			b.WriteString(e.Member)
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

var (
	anyType    = reflect.TypeOf((*any)(nil)).Elem()
	stringType = reflect.TypeOf("")
)

var scalarTypes = map[string]reflect.Type{
	"bool":        reflect.TypeOf(false),
	"string":      stringType,
	"int":         reflect.TypeOf(int(0)),
	"int8":        reflect.TypeOf(int8(0)),
	"int16":       reflect.TypeOf(int16(0)),
	"int32":       reflect.TypeOf(int32(0)),
	"int64":       reflect.TypeOf(int64(0)),
	"uint":        reflect.TypeOf(uint(0)),
	"uint8":       reflect.TypeOf(uint8(0)),
	"uint16":      reflect.TypeOf(uint16(0)),
	"uint32":      reflect.TypeOf(uint32(0)),
	"uint64":      reflect.TypeOf(uint64(0)),
	"byte":        reflect.TypeOf(byte(0)),
	"rune":        reflect.TypeOf(rune(0)),
	"float32":     reflect.TypeOf(float32(0)),
	"float64":     reflect.TypeOf(float64(0)),
	"complex64":   reflect.TypeOf(complex64(0)),
	"complex128":  reflect.TypeOf(complex128(0)),
	"any":         anyType,
	"interface{}": anyType,
	"error":       errorType,
}

// ParseDocument decodes a YAML contract document
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse contract document: %w", err)
	}
	return &doc, nil
}

// LoadDocument reads and decodes a YAML contract document
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract document: %w", err)
	}
	return ParseDocument(data)
}

// Names returns the contract names in declaration order
func (d *Document) Names() []string {
	names := make([]string, len(d.Contracts))
	for i, c := range d.Contracts {
		names[i] = c.Name
	}
	return names
}

// Descriptors validates the document and describes every contract in it
func (d *Document) Descriptors() ([]*ContractDescriptor, error) {
	if errs := d.validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return nil, fmt.Errorf("contract document has %d errors:\n%s",
			len(errs), strings.Join(msgs, "\n"))
	}

	descs := make([]*ContractDescriptor, 0, len(d.Contracts))
	for _, spec := range d.Contracts {
		desc, err := d.describe(spec)
		if err != nil {
			return nil, err
		}
		descs = append(descs, desc)
	}
	return descs, nil
}

// Descriptor describes the named contract
func (d *Document) Descriptor(name string) (*ContractDescriptor, error) {
	descs, err := d.Descriptors()
	if err != nil {
		return nil, err
	}
	for _, desc := range descs {
		if desc.Name == name {
			return desc, nil
		}
	}
	return nil, fmt.Errorf("contract %s not found in document", name)
}

// QualifiedName returns the qualified name a contract of this document gets
func (d *Document) QualifiedName(name string) string {
	if d.Package == "" {
		return name
	}
	return d.Package + "." + name
}

func (d *Document) validate() []*DocumentError {
	var errs []*DocumentError
	seen := make(map[string]bool)

	for _, c := range d.Contracts {
		if !isExportedIdent(c.Name) {
			errs = append(errs, &DocumentError{Contract: c.Name, Message: "contract name must be an exported Go identifier"})
			continue
		}
		if seen[c.Name] {
			errs = append(errs, &DocumentError{Contract: c.Name, Message: "duplicate contract"})
		}
		seen[c.Name] = true

		members := make(map[string]string)
		for _, p := range c.Properties {
			if !isExportedIdent(p.Name) {
				errs = append(errs, &DocumentError{Contract: c.Name, Member: p.Name, Message: "property name must be an exported Go identifier"})
				continue
			}
			if _, dup := members[p.Name]; dup {
				errs = append(errs, &DocumentError{Contract: c.Name, Member: p.Name, Message: "duplicate property"})
			}
			members[p.Name] = "property"
			members[DefaultGetterPrefix+p.Name] = "accessor"
			members[DefaultSetterPrefix+p.Name] = "accessor"

			if _, _, err := d.resolve(p.Type); err != nil {
				errs = append(errs, &DocumentError{Contract: c.Name, Member: p.Name, Message: err.Error()})
			}
			switch p.Access {
			case "", "readwrite", "read", "write":
			default:
				errs = append(errs, &DocumentError{Contract: c.Name, Member: p.Name,
					Message: fmt.Sprintf("unknown access %q (want readwrite, read or write)", p.Access)})
			}
		}

		for _, m := range c.Methods {
			if !isExportedIdent(m.Name) {
				errs = append(errs, &DocumentError{Contract: c.Name, Member: m.Name, Message: "method name must be an exported Go identifier"})
				continue
			}
			if kind, dup := members[m.Name]; dup {
				errs = append(errs, &DocumentError{Contract: c.Name, Member: m.Name, Message: "method clashes with " + kind})
			}
			members[m.Name] = "method"

			for _, typ := range append(append([]string{}, m.Params...), m.Returns...) {
				if _, _, err := d.resolve(typ); err != nil {
					errs = append(errs, &DocumentError{Contract: c.Name, Member: m.Name, Message: err.Error()})
				}
			}
		}
	}

	return errs
}

func (d *Document) describe(spec ContractSpec) (*ContractDescriptor, error) {
	qualified := d.QualifiedName(spec.Name)
	desc := &ContractDescriptor{
		QualifiedName: qualified,
		PkgPath:       d.Package,
		Name:          spec.Name,
		Kind:          KindInterface,
	}

	for _, ps := range spec.Properties {
		typ, ref, err := d.resolve(ps.Type)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", spec.Name, ps.Name, err)
		}
		p := PropertyDescriptor{
			Name:        ps.Name,
			Type:        typ,
			TypeName:    strings.TrimSpace(ps.Type),
			HasGetter:   ps.Access != "write",
			HasSetter:   ps.Access != "read",
			GetterIndex: -1,
			SetterIndex: -1,
			ContractRef: ref,
		}
		if p.HasGetter {
			p.GetterMethod = DefaultGetterPrefix + ps.Name
		}
		if p.HasSetter {
			p.SetterMethod = DefaultSetterPrefix + ps.Name
		}
		p.Semantics, p.Category = Classify(typ)
		desc.Properties = append(desc.Properties, p)
	}

	for _, ms := range spec.Methods {
		m := MethodDescriptor{
			Name:        ms.Name,
			Exported:    true,
			Index:       -1,
			ParamNames:  trimAll(ms.Params),
			ResultNames: trimAll(ms.Returns),
		}
		for _, name := range ms.Params {
			typ, _, err := d.resolve(name)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", spec.Name, ms.Name, err)
			}
			m.Params = append(m.Params, typ)
		}
		for _, name := range ms.Returns {
			typ, _, err := d.resolve(name)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", spec.Name, ms.Name, err)
			}
			m.Results = append(m.Results, typ)
		}
		desc.Methods = append(desc.Methods, m)
	}

	desc.Identity = DocumentIdentity{QualifiedName: qualified, Fingerprint: desc.Fingerprint()}
	return desc, nil
}

// resolve maps a source type spelling to a reflect.Type.
// Names of contracts in the document resolve to any and are reported as ref.
func (d *Document) resolve(name string) (typ reflect.Type, ref string, err error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, "", fmt.Errorf("missing type")
	case strings.HasPrefix(name, "[]"):
		elem, _, err := d.resolve(name[2:])
		if err != nil {
			return nil, "", err
		}
		return reflect.SliceOf(elem), "", nil
	case strings.HasPrefix(name, "map[string]"):
		elem, _, err := d.resolve(name[len("map[string]"):])
		if err != nil {
			return nil, "", err
		}
		return reflect.MapOf(stringType, elem), "", nil
	case strings.HasPrefix(name, "*"):
		elem, _, err := d.resolve(name[1:])
		if err != nil {
			return nil, "", err
		}
		return reflect.PointerTo(elem), "", nil
	}

	if t, ok := scalarTypes[name]; ok {
		return t, "", nil
	}
	for _, c := range d.Contracts {
		if c.Name == name {
			return anyType, name, nil
		}
	}
	return nil, "", fmt.Errorf("unknown type %q", name)
}

func isExportedIdent(name string) bool {
	return token.IsIdentifier(name) && token.IsExported(name)
}

func trimAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
