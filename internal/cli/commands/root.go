package commands

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/proxyme/proxyme/internal/cli/config"
	"github.com/proxyme/proxyme/internal/logging"
	"github.com/proxyme/proxyme/pkg/proxy"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// globalOptions holds the persistent flags and the engine built from them
type globalOptions struct {
	configPath string
	verbose    bool
	noColor    bool

	logger *zap.Logger
}

// setup loads the configuration and builds the logger for one command run
func (g *globalOptions) setup() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}

	if g.verbose {
		g.logger = logging.Verbose()
		return cfg, nil
	}
	g.logger, err = logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// engine builds an engine from the configuration
func (g *globalOptions) engine() (*proxy.Engine, error) {
	cfg, err := g.setup()
	if err != nil {
		return nil, err
	}
	return proxy.NewEngine(proxy.WithConfig(cfg), proxy.WithLogger(g.logger))
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "proxyme",
		Short: "Synthesize runtime implementations of contracts",
		Long: color.CyanString(`proxyme - dynamic type synthesis

proxyme builds implementations of property contracts at runtime.
A contract can be synthesized in four modes:
  • contract    one backing field per property
  • dictionary  properties stored in a caller-owned map
  • proxy       every member forwarded to a wrapped target
  • subtype     a pass-through specialization of a concrete type

Contracts are read from YAML documents.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Configuration file (default: ./proxyme.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log synthesis activity at debug level")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewInspectCommand(opts))
	rootCmd.AddCommand(NewSeedCommand(opts))
	rootCmd.AddCommand(NewGenerateCommand(opts))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the proxyme version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			kv := newKeyValue(cmd)
			kv.AddRow("proxyme version", Version)
			kv.AddRow("Git commit", GitCommit)
			kv.AddRow("Build date", BuildDate)
			kv.AddRow("Go version", goVer)
			kv.Render()
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
