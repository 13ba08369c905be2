package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/proxyme/proxyme/internal/cli/ui"
)

// Output formats accepted by --format
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// writeOutput encodes data as JSON or YAML, or calls table for the table format
func writeOutput(w io.Writer, format string, data any, table func() error) error {
	switch strings.ToLower(format) {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	case formatTable:
		if table == nil {
			return fmt.Errorf("table output is not available here (supported: json, yaml)")
		}
		return table()
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, json, yaml)", format)
	}
}

func noColor(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("no-color")
	return v
}

func newKeyValue(cmd *cobra.Command) *ui.KeyValueTable {
	return ui.NewKeyValueTable(cmd.OutOrStdout(), noColor(cmd))
}

// readValues decodes a JSON or YAML object of property values.
// YAML decoding keeps integers as int, which strict dictionary reads require.
func readValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	// An empty document or a bare null carries no values
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}
