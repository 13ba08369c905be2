package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/proxyme/proxyme/internal/cli/ui"
	"github.com/proxyme/proxyme/internal/descriptor"
)

// NewSeedCommand creates the seed command
func NewSeedCommand(g *globalOptions) *cobra.Command {
	var (
		input  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "seed <document> <contract>",
		Short: "Build a dictionary-backed instance and print its seeded store",
		Long: `Construct a dictionary-backed instance of a contract over a map and print
the map afterwards. Properties missing from the input are seeded with
their zero value. Every readable property is read back, so values of the
wrong type are reported.`,
		Example: `  proxyme seed contracts.yaml Order
  proxyme seed contracts.yaml Order --input order.json --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := descriptor.LoadDocument(args[0])
			if err != nil {
				return err
			}
			descs, err := doc.Descriptors()
			if err != nil {
				return err
			}
			desc, err := findContract(cmd, doc, descs, args[0], args[1])
			if err != nil {
				return err
			}

			store := map[string]any{}
			if input != "" {
				if store, err = readValues(input); err != nil {
					return err
				}
			}

			engine, err := g.engine()
			if err != nil {
				return err
			}
			obj, err := engine.NewFromDescriptorMap(desc, store)
			if err != nil {
				return err
			}
			if _, err := obj.Values(); err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), format, obj.Store(), func() error {
				kv := newKeyValue(cmd)
				for _, key := range sortedKeys(obj.Store()) {
					kv.AddRow(key, fmt.Sprintf("%#v", obj.Store()[key]))
				}
				kv.Render()
				fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("seeded %s", obj.Type().Name()), noColor(cmd)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON or YAML file with initial property values")
	cmd.Flags().StringVarP(&format, "format", "f", formatYAML, "Output format (table, json, yaml)")

	return cmd
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
