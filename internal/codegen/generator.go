// Package codegen renders Go source for contracts declared in contract documents.
// It produces the interface of each contract and a hand-written style
// implementation for the backing-field, dictionary-backed or forwarding mode.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/proxyme/proxyme/internal/descriptor"
	"github.com/proxyme/proxyme/internal/synth"
)

// Options controls code generation
type Options struct {
	// Package is the package clause of the generated file
	Package string
	// Source is mentioned in the generated header, usually the document path
	Source string
}

type fileData struct {
	Package   string
	Source    string
	Mode      string
	Contracts []contractData
}

type contractData struct {
	Name       string
	Qualified  string
	Impl       string
	Properties []propertyData
	Methods    []methodData
}

type propertyData struct {
	Name      string
	Field     string
	Type      string
	Zero      string
	Getter    string
	Setter    string
	Reference bool
}

type methodData struct {
	Name    string
	Params  string
	Args    string
	Results string
	Returns bool
}

// Generate renders a Go file for every contract of doc in mode
func Generate(doc *descriptor.Document, mode synth.Mode, opts Options) ([]byte, error) {
	if opts.Package == "" {
		return nil, fmt.Errorf("package name is required")
	}
	if !token.IsIdentifier(opts.Package) {
		return nil, fmt.Errorf("invalid package name %q", opts.Package)
	}

	tmplText, ok := modeTemplates[mode]
	if !ok {
		return nil, fmt.Errorf("%s mode cannot be generated", mode)
	}

	descs, err := doc.Descriptors()
	if err != nil {
		return nil, err
	}

	data := fileData{
		Package: opts.Package,
		Source:  opts.Source,
		Mode:    mode.String(),
	}
	for _, desc := range descs {
		if err := synth.Validate(desc, mode); err != nil {
			return nil, err
		}
		data.Contracts = append(data.Contracts, contractFor(desc, mode))
	}

	tmpl, err := template.New("file").Parse(headerTemplate + interfaceTemplate + tmplText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", mode, err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated code does not compile: %w", err)
	}
	return src, nil
}

func contractFor(desc *descriptor.ContractDescriptor, mode synth.Mode) contractData {
	c := contractData{
		Name:      desc.Name,
		Qualified: desc.QualifiedName,
		Impl:      desc.Name + mode.Suffix(),
	}

	for _, p := range desc.Properties {
		c.Properties = append(c.Properties, propertyData{
			Name:      p.Name,
			Field:     fieldName(p.Name),
			Type:      p.TypeName,
			Zero:      zeroLiteral(p),
			Getter:    p.GetterMethod,
			Setter:    p.SetterMethod,
			Reference: p.Semantics == descriptor.ReferenceSemantics,
		})
	}

	for _, m := range desc.Methods {
		md := methodData{Name: m.Name}
		params := make([]string, len(m.Params))
		args := make([]string, len(m.Params))
		for i := range m.Params {
			args[i] = fmt.Sprintf("a%d", i)
			params[i] = args[i] + " " + spelling(m.ParamNames, m.Params[i].String(), i)
		}
		md.Params = strings.Join(params, ", ")
		md.Args = strings.Join(args, ", ")

		results := make([]string, len(m.Results))
		for i := range m.Results {
			results[i] = spelling(m.ResultNames, m.Results[i].String(), i)
		}
		switch len(results) {
		case 0:
		case 1:
			md.Results = results[0]
		default:
			md.Results = "(" + strings.Join(results, ", ") + ")"
		}
		md.Returns = len(results) > 0
		c.Methods = append(c.Methods, md)
	}

	return c
}

func spelling(names []string, fallback string, i int) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return fallback
}

// fieldName lower-cases the first letter, suffixing keywords
func fieldName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	field := string(unicode.ToLower(r)) + name[size:]
	if token.IsKeyword(field) {
		field += "_"
	}
	return field
}

func zeroLiteral(p descriptor.PropertyDescriptor) string {
	switch p.Category {
	case descriptor.CategoryBool:
		return "false"
	case descriptor.CategoryString:
		return `""`
	case descriptor.CategoryInteger, descriptor.CategoryUnsigned, descriptor.CategoryFloat, descriptor.CategoryComplex:
		return p.TypeName + "(0)"
	default:
		return "nil"
	}
}
