package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/minikb/internal/config"
	"github.com/roach88/minikb/internal/ir"
	"github.com/roach88/minikb/internal/kb"
	"github.com/roach88/minikb/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Database   string
	Driver     string
	Models     []string

	// Config is the resolved configuration: file values with flags applied.
	// Set by the root PersistentPreRunE.
	Config config.Config

	// Logger writes to the command's stderr. Set by the root PersistentPreRunE.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the kb CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "kb",
		Short: "kb - a minimal triple store",
		Long: `A minimal knowledge base of subject-predicate-object facts grouped into
named models, with conjunctive pattern queries.

Triples are written as one argument each, for example "Rex type Dog".
Terms starting with "?" are variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", config.DefaultDatabase, "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", store.DefaultDriver,
		fmt.Sprintf("database driver %v", store.Drivers))
	cmd.PersistentFlags().StringSliceVarP(&opts.Models, "model", "m", nil,
		"model to read (repeatable); the single model to write for mutations")

	// Add subcommands
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewHasCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewHasStmtCommand(opts))
	cmd.AddCommand(NewAboutCommand(opts))
	cmd.AddCommand(NewClassesOfCommand(opts))
	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve validates global flags, loads the config file, applies explicit
// flags over it and installs the logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database = o.Database
	}
	if flags.Changed("driver") {
		cfg.Driver = o.Driver
	}
	if flags.Changed("model") {
		cfg.Models = o.Models
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	o.Config = cfg

	// Configure logging based on verbose flag
	level := cfg.Level()
	if o.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})
	o.Logger = slog.New(handler)
	slog.SetDefault(o.Logger)

	return nil
}

// formatter returns an OutputFormatter bound to the command's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// openKB opens the configured store. The returned function closes it.
func (o *RootOptions) openKB() (*kb.KB, func(), error) {
	o.logger().Debug("opening database", "path", o.Config.Database, "driver", o.Config.Driver)
	st, err := store.Open(o.Config.Database, store.WithDriver(o.Config.Driver))
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if closeErr := st.Close(); closeErr != nil {
			o.logger().Error("error closing database", "error", closeErr)
		}
	}
	return kb.New(st, kb.WithLogger(o.logger())), closeFn, nil
}

// logger returns the configured logger, or a discard logger when the
// command ran without the root PersistentPreRunE.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// readModels returns the read scope.
func (o *RootOptions) readModels() []string {
	return o.Config.ReadModels()
}

// writeModel returns the single model mutations target: the one --model
// given, or the configured default model.
func (o *RootOptions) writeModel() (string, error) {
	switch len(o.Models) {
	case 0:
		return o.Config.DefaultModel, nil
	case 1:
		return o.Models[0], nil
	default:
		return "", ir.NewInvalidArgument("write model",
			fmt.Sprintf("mutations take exactly one --model, got %d", len(o.Models)))
	}
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
