package codegen

import "github.com/proxyme/proxyme/internal/synth"

const headerTemplate = `// Code generated by proxyme; DO NOT EDIT.
{{- if .Source}}
// Source: {{.Source}}
{{- end}}
// Mode: {{.Mode}}

package {{.Package}}
`

const interfaceTemplate = `
{{- range .Contracts}}

// {{.Name}} is the contract {{.Qualified}}
type {{.Name}} interface {
{{- range .Properties}}
{{- if .Getter}}
	{{.Getter}}() {{.Type}}
{{- end}}
{{- if .Setter}}
	{{.Setter}}({{.Type}})
{{- end}}
{{- end}}
{{- range .Methods}}
	{{.Name}}({{.Params}}) {{.Results}}
{{- end}}
}
{{- end}}
`

const contractTemplate = `
{{- range .Contracts}}
{{- $impl := .Impl}}

// {{.Impl}} implements {{.Name}} with one field per property
type {{.Impl}} struct {
{{- range .Properties}}
	{{.Field}} {{.Type}}
{{- end}}
}

var _ {{.Name}} = (*{{.Impl}})(nil)

// New{{.Impl}} creates a {{.Impl}}, running init on it when non-nil
func New{{.Impl}}(init func(*{{.Impl}})) *{{.Impl}} {
	c := &{{.Impl}}{}
	if init != nil {
		init(c)
	}
	return c
}
{{- range .Properties}}
{{- if .Getter}}

func (c *{{$impl}}) {{.Getter}}() {{.Type}} { return c.{{.Field}} }
{{- end}}
{{- if .Setter}}

func (c *{{$impl}}) {{.Setter}}(v {{.Type}}) { c.{{.Field}} = v }
{{- end}}
{{- end}}
{{- end}}
`

const dictionaryTemplate = `
{{- range .Contracts}}
{{- $impl := .Impl}}

// {{.Impl}} implements {{.Name}} over a caller-owned map
type {{.Impl}} struct {
	store map[string]any
}

var _ {{.Name}} = (*{{.Impl}})(nil)

// New{{.Impl}} wraps store, seeding missing properties with zero values
func New{{.Impl}}(store map[string]any) *{{.Impl}} {
{{- range .Properties}}
	if _, ok := store["{{.Name}}"]; !ok {
		store["{{.Name}}"] = {{.Zero}}
	}
{{- end}}
	return &{{.Impl}}{store: store}
}

// Store returns the backing map
func (c *{{.Impl}}) Store() map[string]any { return c.store }
{{- range .Properties}}
{{- if .Getter}}

func (c *{{$impl}}) {{.Getter}}() {{.Type}} {
{{- if .Reference}}
	v, _ := c.store["{{.Name}}"].({{.Type}})
	return v
{{- else}}
	return c.store["{{.Name}}"].({{.Type}})
{{- end}}
}
{{- end}}
{{- if .Setter}}

func (c *{{$impl}}) {{.Setter}}(v {{.Type}}) { c.store["{{.Name}}"] = v }
{{- end}}
{{- end}}
{{- end}}
`

const proxyTemplate = `
{{- range .Contracts}}
{{- $impl := .Impl}}

// {{.Impl}} implements {{.Name}} by forwarding to a target
type {{.Impl}} struct {
	target {{.Name}}
}

var _ {{.Name}} = (*{{.Impl}})(nil)

// New{{.Impl}} wraps target
func New{{.Impl}}(target {{.Name}}) *{{.Impl}} {
	return &{{.Impl}}{target: target}
}

{{- range .Properties}}
{{- if .Getter}}

func (p *{{$impl}}) {{.Getter}}() {{.Type}} { return p.target.{{.Getter}}() }
{{- end}}
{{- if .Setter}}

func (p *{{$impl}}) {{.Setter}}(v {{.Type}}) { p.target.{{.Setter}}(v) }
{{- end}}
{{- end}}
{{- range .Methods}}

func (p *{{$impl}}) {{.Name}}({{.Params}}) {{.Results}} {
	{{if .Returns}}return {{end}}p.target.{{.Name}}({{.Args}})
}
{{- end}}
{{- end}}
`

var modeTemplates = map[synth.Mode]string{
	synth.ModeContract:   contractTemplate,
	synth.ModeDictionary: dictionaryTemplate,
	synth.ModeProxy:      proxyTemplate,
}
