package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/proxyme/proxyme/internal/cli/ui"
	"github.com/proxyme/proxyme/internal/descriptor"
	"github.com/proxyme/proxyme/internal/synth"
	"github.com/proxyme/proxyme/pkg/proxy"
)

// typeReport describes one contract synthesized in one mode
type typeReport struct {
	Contract   string         `json:"contract" yaml:"contract"`
	Mode       string         `json:"mode" yaml:"mode"`
	Type       string         `json:"type,omitempty" yaml:"type,omitempty"`
	Storage    string         `json:"storage,omitempty" yaml:"storage,omitempty"`
	Properties []memberReport `json:"properties,omitempty" yaml:"properties,omitempty"`
	Methods    []string       `json:"methods,omitempty" yaml:"methods,omitempty"`
	Violation  string         `json:"violation,omitempty" yaml:"violation,omitempty"`
}

type memberReport struct {
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"`
	Access string `json:"access" yaml:"access"`
}

type inspectReport struct {
	Types []typeReport `json:"types" yaml:"types"`
	Stats proxy.Stats  `json:"stats" yaml:"stats"`
}

// NewInspectCommand creates the inspect command
func NewInspectCommand(g *globalOptions) *cobra.Command {
	var (
		modeName string
		contract string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "inspect <document>",
		Short: "Synthesize the contracts of a document and show the resulting types",
		Long: `Synthesize every contract of a YAML contract document and report the
synthesized type name, runtime storage and members.

Without --mode every mode is attempted. Modes a contract cannot be
synthesized in are reported with the contract violation.`,
		Example: `  proxyme inspect contracts.yaml
  proxyme inspect contracts.yaml --mode dictionary --contract Order
  proxyme inspect contracts.yaml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modes := synth.Modes()
			if modeName != "" {
				mode, err := synth.ParseMode(modeName)
				if err != nil {
					return err
				}
				modes = []synth.Mode{mode}
			}

			doc, err := descriptor.LoadDocument(args[0])
			if err != nil {
				return err
			}
			descs, err := doc.Descriptors()
			if err != nil {
				return err
			}
			if contract != "" {
				desc, err := findContract(cmd, doc, descs, args[0], contract)
				if err != nil {
					return err
				}
				descs = []*descriptor.ContractDescriptor{desc}
			}

			engine, err := g.engine()
			if err != nil {
				return err
			}

			report, err := inspect(engine, descs, modes)
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), format, report, func() error {
				renderInspect(cmd, report, contract != "")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&modeName, "mode", "m", "", "Synthesis mode (contract, dictionary, proxy, subtype)")
	cmd.Flags().StringVarP(&contract, "contract", "c", "", "Inspect a single contract and list its members")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table, json, yaml)")

	return cmd
}

// inspect synthesizes every descriptor in every mode.
// Contract violations become part of the report; other failures abort.
func inspect(engine *proxy.Engine, descs []*descriptor.ContractDescriptor, modes []synth.Mode) (*inspectReport, error) {
	report := &inspectReport{}
	for _, desc := range descs {
		for _, mode := range modes {
			r := typeReport{Contract: desc.QualifiedName, Mode: mode.String()}

			typ, err := engine.Synthesize(desc, mode)
			var cv *synth.ContractViolation
			switch {
			case errors.As(err, &cv):
				r.Violation = cv.Reason
			case err != nil:
				return nil, err
			default:
				r.Type = typ.Name()
				r.Storage = storageOf(typ)
				for _, p := range typ.Properties() {
					r.Properties = append(r.Properties, memberReport{Name: p.Name, Type: p.TypeName, Access: p.Access()})
				}
				for _, m := range typ.Methods() {
					r.Methods = append(r.Methods, m.Signature())
				}
			}
			report.Types = append(report.Types, r)
		}
	}
	report.Stats = engine.Stats()
	return report, nil
}

func renderInspect(cmd *cobra.Command, report *inspectReport, detailed bool) {
	w := cmd.OutOrStdout()
	plain := noColor(cmd)

	table := ui.NewTable(w, []string{"CONTRACT", "MODE", "TYPE", "PROPERTIES", "METHODS"}, &ui.TableOptions{NoColor: plain})
	for _, r := range report.Types {
		if r.Violation != "" {
			table.AddRow(r.Contract, r.Mode, "✗ "+r.Violation)
			continue
		}
		table.AddRow(r.Contract, r.Mode, r.Type, strconv.Itoa(len(r.Properties)), strconv.Itoa(len(r.Methods)))
	}
	table.Render()

	if detailed {
		for _, r := range report.Types {
			if r.Violation != "" {
				continue
			}
			fmt.Fprintln(w)
			ui.Header(w, r.Type, plain)
			kv := ui.NewKeyValueTable(w, plain)
			kv.AddRow("Storage", r.Storage)
			if len(r.Methods) > 0 {
				kv.AddRow("Methods", strings.Join(r.Methods, "; "))
			}
			kv.Render()
			if len(r.Properties) > 0 {
				fmt.Fprintln(w)
				members := ui.NewTable(w, []string{"PROPERTY", "TYPE", "ACCESS"}, &ui.TableOptions{NoColor: plain})
				for _, p := range r.Properties {
					members.AddRow(p.Name, p.Type, p.Access)
				}
				members.Render()
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d types assembled, %d cache hits, %d misses\n",
		report.Stats.Assemblies, report.Stats.Hits, report.Stats.Misses)
}

func storageOf(typ *synth.Type) string {
	if st := typ.Storage(); st != nil {
		return st.String()
	}
	switch typ.Mode() {
	case synth.ModeDictionary:
		return "map[string]any"
	case synth.ModeProxy:
		return "forwarded to " + typ.Contract().QualifiedName
	default:
		return "none"
	}
}

// findContract picks the named descriptor, printing suggestions when it is missing
func findContract(cmd *cobra.Command, doc *descriptor.Document, descs []*descriptor.ContractDescriptor, path, name string) (*descriptor.ContractDescriptor, error) {
	for _, desc := range descs {
		if desc.Name == name {
			return desc, nil
		}
	}

	ui.Message{
		Context:     "contract not found",
		Problem:     fmt.Sprintf("no contract named %q in %s", name, path),
		Suggestions: ui.Suggest(name, doc.Names(), 3),
		Hints:       []string{"List contracts: proxyme inspect " + path},
		NoColor:     noColor(cmd),
	}.Write(cmd.ErrOrStderr())
	return nil, fmt.Errorf("contract %s not found", name)
}
