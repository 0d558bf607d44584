// Command transcode encodes contract calls and decodes call data, return
// values and events using a contract's metadata.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/contract-transcode/config"
	"github.com/wippyai/contract-transcode/contract"
)

type globalFlags struct {
	metadata   string
	configPath string
	output     string
	verbose    bool
}

// app holds state shared by the subcommands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
	flags  globalFlags
}

func main() {
	a := &app{out: os.Stdout}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "transcode",
		Short: "Encode and decode smart contract calls from metadata",
		Long: `transcode translates between contract call data and readable values.

It reads a contract metadata document (or a .contract bundle) and uses its
type registry to encode constructor and message calls, and to decode call
data, return values and emitted events.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(a.out)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.metadata, "metadata", "m", "", "metadata JSON or .contract bundle")
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default $"+config.EnvPath+")")
	pf.StringVarP(&a.flags.output, "output", "o", "", "output format: pretty|json")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug details to stderr")

	root.AddCommand(
		newEncodeCmd(a),
		newDecodeCmd(a),
		newInfoCmd(a),
		newInteractiveCmd(a),
	)
	return root
}

// setup loads the config and applies flag overrides.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}
	if a.flags.metadata != "" {
		cfg.Metadata = a.flags.metadata
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = a.flags.output
	}
	if a.flags.verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.logger = logger
	contract.SetLogger(logger.Named("contract"))
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}

// contract loads the configured metadata.
func (a *app) contract() (*contract.Contract, error) {
	if a.cfg.Metadata == "" {
		return nil, fmt.Errorf("no metadata: pass --metadata or set metadata in the config file")
	}
	opts := contract.DefaultOptions()
	opts.SS58Prefix = a.cfg.SS58Prefix
	opts.Limits = a.cfg.ScaleLimits()

	c, err := contract.LoadFile(a.cfg.Metadata, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", a.cfg.Metadata, err)
	}
	a.logger.Debug("metadata loaded", zap.String("path", a.cfg.Metadata), zap.String("contract", c.Name()))
	return c, nil
}

func (a *app) printer() *printer {
	return newPrinter(a.out, a.cfg.Output)
}
