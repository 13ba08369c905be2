package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxyme/proxyme/internal/synth"
)

const shopDocument = `
package: example.com/shop
contracts:
  - name: Order
    properties:
      - {name: Quantity, type: int}
      - {name: Customer, type: string}
      - {name: Lines, type: "[]string", access: read}
  - name: Calculator
    properties:
      - {name: Total, type: int}
    methods:
      - {name: Add, params: [int, int], returns: [int]}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// run executes the root command with colors disabled
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "proxyme", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"version", "inspect", "seed", "generate"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"config", "verbose", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"

	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "proxyme version:")
	assert.Contains(t, out, "1.0.0-test")
	assert.Contains(t, out, "abc123")
}

func TestInspectCommand(t *testing.T) {
	doc := writeFile(t, "shop.yaml", shopDocument)

	t.Run("every mode", func(t *testing.T) {
		out, _, err := run(t, "inspect", doc)
		require.NoError(t, err)

		assert.Contains(t, out, "example.com/shop.Order`DynamicContract")
		assert.Contains(t, out, "example.com/shop.Order`DynamicDictionaryContract")
		assert.Contains(t, out, "example.com/shop.Calculator`DynamicProxy")
		assert.Contains(t, out, "✗ contract declares methods: Add")
		assert.Contains(t, out, "✗ contract is interface-like")
		assert.Contains(t, out, "4 types assembled")
	})

	t.Run("single contract", func(t *testing.T) {
		out, _, err := run(t, "inspect", doc, "--mode", "dictionary", "--contract", "Order")
		require.NoError(t, err)

		assert.Contains(t, out, "Storage:  map[string]any")
		assert.Contains(t, out, "PROPERTY")
		assert.Contains(t, out, "Lines     []string  read")
		assert.NotContains(t, out, "Calculator")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := run(t, "inspect", doc, "--mode", "contract", "--format", "json")
		require.NoError(t, err)

		var report inspectReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		require.Len(t, report.Types, 2)
		assert.Equal(t, "example.com/shop.Order", report.Types[0].Contract)
		assert.Len(t, report.Types[0].Properties, 3)
		assert.Contains(t, report.Types[0].Storage, "Quantity int")
		assert.Equal(t, "contract declares methods: Add", report.Types[1].Violation)
		assert.Equal(t, uint64(1), report.Stats.Assemblies)
	})

	t.Run("yaml", func(t *testing.T) {
		out, _, err := run(t, "inspect", doc, "--mode", "proxy", "--format", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "types:")
		assert.Contains(t, out, "- Add(int, int) int")
	})

	t.Run("config file", func(t *testing.T) {
		cfg := writeFile(t, "proxyme.yaml", "synthesis:\n  name_separator: \"::\"\n")
		out, _, err := run(t, "inspect", doc, "--mode", "contract", "--config", cfg)
		require.NoError(t, err)
		assert.Contains(t, out, "example.com/shop.Order::DynamicContract")
	})

	t.Run("unknown contract", func(t *testing.T) {
		_, stderr, err := run(t, "inspect", doc, "--contract", "Ordr")
		require.Error(t, err)
		assert.Contains(t, stderr, "CONTRACT NOT FOUND")
		assert.Contains(t, stderr, "Did you mean: Order?")
	})

	t.Run("bad arguments", func(t *testing.T) {
		_, _, err := run(t, "inspect", doc, "--mode", "sideways")
		assert.Error(t, err)
		_, _, err = run(t, "inspect", doc, "--format", "xml")
		assert.ErrorContains(t, err, "unsupported format")
		_, _, err = run(t, "inspect", filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestSeedCommand(t *testing.T) {
	doc := writeFile(t, "shop.yaml", shopDocument)

	t.Run("seeds missing properties", func(t *testing.T) {
		input := writeFile(t, "order.json", `{"Quantity": 3}`)
		out, _, err := run(t, "seed", doc, "Order", "--input", input)
		require.NoError(t, err)

		assert.Contains(t, out, "Quantity: 3")
		assert.Contains(t, out, `Customer: ""`)
		assert.Contains(t, out, "Lines: null")
	})

	t.Run("table", func(t *testing.T) {
		out, _, err := run(t, "seed", doc, "Order", "--format", "table")
		require.NoError(t, err)
		assert.Contains(t, out, "Quantity:  0")
		assert.Contains(t, out, "✓ seeded example.com/shop.Order`DynamicDictionaryContract")
	})

	t.Run("null input", func(t *testing.T) {
		for name, content := range map[string]string{"null.yaml": "null\n", "empty.yaml": "", "comment.yaml": "# nothing yet\n"} {
			input := writeFile(t, name, content)
			out, _, err := run(t, "seed", doc, "Order", "--input", input)
			require.NoError(t, err, name)
			assert.Contains(t, out, "Quantity: 0", name)
		}
	})

	t.Run("input that is not an object", func(t *testing.T) {
		input := writeFile(t, "list.yaml", "- 1\n- 2\n")
		_, _, err := run(t, "seed", doc, "Order", "--input", input)
		assert.ErrorContains(t, err, "failed to parse "+input)
	})

	t.Run("wrong value type", func(t *testing.T) {
		input := writeFile(t, "order.yaml", "Quantity: three\n")
		_, _, err := run(t, "seed", doc, "Order", "--input", input)
		require.Error(t, err)
		assert.ErrorIs(t, err, synth.ErrTypeMismatch)
	})

	t.Run("contract with methods", func(t *testing.T) {
		_, _, err := run(t, "seed", doc, "Calculator")
		assert.ErrorIs(t, err, synth.ErrContractViolation)
	})

	t.Run("unknown contract", func(t *testing.T) {
		_, stderr, err := run(t, "seed", doc, "Customer")
		require.Error(t, err)
		assert.Contains(t, stderr, `no contract named "Customer"`)
	})
}

func TestGenerateCommand(t *testing.T) {
	doc := writeFile(t, "shop.yaml", shopDocument)

	t.Run("stdout", func(t *testing.T) {
		out, _, err := run(t, "generate", doc, "--mode", "proxy", "--package", "shop")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "// Code generated by proxyme; DO NOT EDIT."))
		assert.Contains(t, out, "// Source: shop.yaml")
		assert.Contains(t, out, "type CalculatorDynamicProxy struct")
	})

	t.Run("output file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "shop_gen.go")
		out, stderr, err := run(t, "gen", doc, "--mode", "dictionary", "-p", "shop", "-o", path)
		require.Error(t, err, "Calculator declares methods")
		assert.Empty(t, out)
		assert.Empty(t, stderr)
		assert.NoFileExists(t, path)

		props := writeFile(t, "props.yaml", "contracts:\n  - name: Point\n    properties:\n      - {name: X, type: int}\n")
		_, stderr, err = run(t, "gen", props, "--mode", "dictionary", "-p", "shop", "-o", path)
		require.NoError(t, err)
		assert.Contains(t, stderr, "✓ wrote "+path)

		src, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(src), "type PointDynamicDictionaryContract struct")
	})

	t.Run("rejected", func(t *testing.T) {
		_, _, err := run(t, "generate", doc)
		assert.ErrorContains(t, err, "package")
		_, _, err = run(t, "generate", doc, "--mode", "subtype", "--package", "shop")
		assert.ErrorContains(t, err, "cannot be generated")
		_, _, err = run(t, "generate", doc, "--package", "shop", "--watch")
		assert.ErrorContains(t, err, "--watch requires --output")
	})
}
