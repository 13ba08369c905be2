package codegen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxyme/proxyme/internal/descriptor"
	"github.com/proxyme/proxyme/internal/synth"
)

const propertiesOnly = `
package: example.com/models
contracts:
  - name: Order
    properties:
      - {name: Quantity, type: int}
      - {name: Type, type: string}
      - {name: Customer, type: Customer}
      - {name: Notes, type: "[]string", access: read}
  - name: Customer
    properties:
      - {name: Name, type: string}
      - {name: Score, type: float64, access: write}
`

const withMethods = `
package: example.com/calc
contracts:
  - name: Calculator
    properties:
      - {name: Total, type: int}
    methods:
      - {name: Add, params: [int, int], returns: [int]}
      - {name: Divide, params: [float64, float64], returns: [float64, error]}
      - {name: Reset}
`

func parseDoc(t *testing.T, src string) *descriptor.Document {
	t.Helper()
	doc, err := descriptor.ParseDocument([]byte(src))
	require.NoError(t, err)
	return doc
}

// declared returns the top-level type and func names of a Go file
func declared(t *testing.T, src []byte) map[string]bool {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.ParseComments)
	require.NoError(t, err, string(src))

	names := make(map[string]bool)
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok {
					names[ts.Name.Name] = true
				}
			}
		case *ast.FuncDecl:
			name := d.Name.Name
			if d.Recv != nil {
				recv := d.Recv.List[0].Type.(*ast.StarExpr).X.(*ast.Ident).Name
				name = recv + "." + name
			}
			names[name] = true
		}
	}
	return names
}

func TestGenerateContract(t *testing.T) {
	src, err := Generate(parseDoc(t, propertiesOnly), synth.ModeContract, Options{Package: "models", Source: "contracts.yaml"})
	require.NoError(t, err)

	code := string(src)
	assert.True(t, strings.HasPrefix(code, "// Code generated by proxyme; DO NOT EDIT."))
	assert.Contains(t, code, "// Source: contracts.yaml")
	assert.Contains(t, code, "package models")
	assert.Contains(t, code, "return c.type_")

	names := declared(t, src)
	for _, want := range []string{
		"Order", "Customer",
		"OrderDynamicContract", "NewOrderDynamicContract",
		"OrderDynamicContract.GetQuantity", "OrderDynamicContract.SetQuantity",
		"OrderDynamicContract.GetNotes",
		"CustomerDynamicContract.SetScore",
	} {
		assert.True(t, names[want], "missing %s", want)
	}
	assert.False(t, names["OrderDynamicContract.SetNotes"])
	assert.False(t, names["CustomerDynamicContract.GetScore"])
}

func TestGenerateDictionary(t *testing.T) {
	src, err := Generate(parseDoc(t, propertiesOnly), synth.ModeDictionary, Options{Package: "models"})
	require.NoError(t, err)

	code := string(src)
	assert.Contains(t, code, `store["Quantity"] = int(0)`)
	assert.Contains(t, code, `store["Type"] = ""`)
	assert.Contains(t, code, `store["Customer"] = nil`)
	assert.Contains(t, code, `store["Score"] = float64(0)`)
	assert.Contains(t, code, `v, _ := c.store["Customer"].(Customer)`)
	assert.NotContains(t, code, "// Source:")

	names := declared(t, src)
	assert.True(t, names["NewOrderDynamicDictionaryContract"])
	assert.True(t, names["OrderDynamicDictionaryContract.Store"])
	assert.True(t, names["OrderDynamicDictionaryContract.GetCustomer"])
}

func TestGenerateProxy(t *testing.T) {
	src, err := Generate(parseDoc(t, withMethods), synth.ModeProxy, Options{Package: "calc"})
	require.NoError(t, err)

	code := string(src)
	assert.Contains(t, code, "Divide(a0 float64, a1 float64) (float64, error)")
	assert.Contains(t, code, "return p.target.Add(a0, a1)")
	assert.Contains(t, code, "\tp.target.Reset()")

	names := declared(t, src)
	for _, want := range []string{
		"Calculator", "CalculatorDynamicProxy", "NewCalculatorDynamicProxy",
		"CalculatorDynamicProxy.GetTotal", "CalculatorDynamicProxy.SetTotal",
		"CalculatorDynamicProxy.Add", "CalculatorDynamicProxy.Divide", "CalculatorDynamicProxy.Reset",
	} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestGenerateRejects(t *testing.T) {
	t.Run("methods in contract mode", func(t *testing.T) {
		_, err := Generate(parseDoc(t, withMethods), synth.ModeContract, Options{Package: "calc"})
		assert.ErrorIs(t, err, synth.ErrContractViolation)
	})

	t.Run("subtype mode", func(t *testing.T) {
		_, err := Generate(parseDoc(t, propertiesOnly), synth.ModeSubtype, Options{Package: "models"})
		assert.ErrorContains(t, err, "cannot be generated")
	})

	t.Run("package name", func(t *testing.T) {
		_, err := Generate(parseDoc(t, propertiesOnly), synth.ModeContract, Options{})
		assert.Error(t, err)
		_, err = Generate(parseDoc(t, propertiesOnly), synth.ModeContract, Options{Package: "my-models"})
		assert.Error(t, err)
	})

	t.Run("invalid document", func(t *testing.T) {
		_, err := Generate(parseDoc(t, "contracts:\n  - name: lower\n"), synth.ModeContract, Options{Package: "models"})
		assert.Error(t, err)
	})
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "quantity", fieldName("Quantity"))
	assert.Equal(t, "type_", fieldName("Type"))
	assert.Equal(t, "iD", fieldName("ID"))
}
