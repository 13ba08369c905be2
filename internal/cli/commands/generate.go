package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/proxyme/proxyme/internal/cli/ui"
	"github.com/proxyme/proxyme/internal/codegen"
	"github.com/proxyme/proxyme/internal/descriptor"
	"github.com/proxyme/proxyme/internal/synth"
	"github.com/proxyme/proxyme/internal/watch"
)

type generateOptions struct {
	mode    synth.Mode
	pkg     string
	output  string
	noColor bool
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand(g *globalOptions) *cobra.Command {
	var (
		modeName string
		watching bool
		opts     generateOptions
	)

	cmd := &cobra.Command{
		Use:     "generate <document>",
		Aliases: []string{"gen"},
		Short:   "Generate Go source for the contracts of a document",
		Long: `Render the interfaces declared in a contract document together with an
implementation in the chosen mode. The subtype mode needs a concrete
base type and cannot be generated from a document.

With --watch the file is regenerated whenever the document changes.`,
		Example: `  proxyme generate contracts.yaml --package models
  proxyme generate contracts.yaml --mode proxy --package models -o models_gen.go
  proxyme generate contracts.yaml --package models -o models_gen.go --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := synth.ParseMode(modeName)
			if err != nil {
				return err
			}
			opts.mode = mode
			opts.noColor = noColor(cmd)

			if watching && opts.output == "" {
				return fmt.Errorf("--watch requires --output")
			}

			if err := generate(cmd, args[0], opts); err != nil {
				if !watching {
					return err
				}
				ui.Message{Problem: err.Error(), NoColor: opts.noColor}.Write(cmd.ErrOrStderr())
			}
			if !watching {
				return nil
			}

			if _, err := g.setup(); err != nil {
				return err
			}
			w, err := watch.New([]string{args[0]}, watch.WithLogger(g.logger))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			g.logger.Info("watching contract document", zap.String("document", args[0]), zap.String("output", opts.output))
			return w.Run(ctx, func([]string) error {
				return generate(cmd, args[0], opts)
			})
		},
	}

	cmd.Flags().StringVarP(&modeName, "mode", "m", synth.ModeContract.String(), "Implementation mode (contract, dictionary, proxy)")
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "Package name of the generated file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVarP(&watching, "watch", "w", false, "Regenerate when the document changes")
	_ = cmd.MarkFlagRequired("package")

	return cmd
}

// generate renders path and writes the result to the output file or stdout
func generate(cmd *cobra.Command, path string, opts generateOptions) error {
	doc, err := descriptor.LoadDocument(path)
	if err != nil {
		return err
	}

	src, err := codegen.Generate(doc, opts.mode, codegen.Options{
		Package: opts.pkg,
		Source:  filepath.Base(path),
	})
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(src)
		return err
	}
	if err := os.WriteFile(opts.output, src, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.output, err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), ui.Success(fmt.Sprintf("wrote %s", opts.output), opts.noColor))
	return nil
}
