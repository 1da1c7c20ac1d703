// Package cli builds the solex command tree. It translates flags and
// positional arguments into the application's configuration and leaves
// process-level concerns (exit codes, signals) to the caller.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/solconf/solconf/internal/app"
)

// formatFlag restricts --format to the supported output encoders at
// flag-parse time.
type formatFlag string

var _ pflag.Value = (*formatFlag)(nil)

func (f *formatFlag) String() string { return string(*f) }

func (f *formatFlag) Type() string { return "format" }

func (f *formatFlag) Set(s string) error {
	switch s {
	case "yaml", "json":
		*f = formatFlag(s)
		return nil
	}
	return fmt.Errorf("must be 'yaml' or 'json', got %q", s)
}

// options collects the flag values the subcommands share.
type options struct {
	format    formatFlag
	address   string
	unitDirs  []string
	sets      []string
	logLevel  string
	logFormat string
}

// New builds the solex command tree. Resolved output goes to outW, log
// records to errW; both are injected so tests can capture the streams.
func New(outW, errW io.Writer) *cobra.Command {
	o := options{format: "yaml"}

	root := &cobra.Command{
		Use:   "solex",
		Short: "Resolve hierarchical configuration trees",
		Long: `solex resolves hierarchical configuration files: entries carry
type constraints and modifiers in their keys, string values starting
with "$:" are evaluated as expressions, and command-line overrides
redirect any node by its dotted address.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&o.logFormat, "log-format", "text", "log format: text or json")

	resolve := &cobra.Command{
		Use:   "resolve FILE [overrides...]",
		Short: "Resolve a configuration file and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(args)
			if err != nil {
				return err
			}
			return app.New(outW, errW, cfg).Run(cmd.Context())
		},
	}
	addRunFlags(resolve, &o)
	resolve.Flags().StringVarP(&o.address, "address", "a", "", "resolve the node at this reference instead of the root")

	check := &cobra.Command{
		Use:   "check FILE [overrides...]",
		Short: "Validate structure and modifier pipelines without resolving",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(args)
			if err != nil {
				return err
			}
			return app.New(outW, errW, cfg).Check(cmd.Context())
		},
	}
	addRunFlags(check, &o)

	watch := &cobra.Command{
		Use:   "watch FILE [overrides...]",
		Short: "Resolve continuously, re-running on file changes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(args)
			if err != nil {
				return err
			}
			return app.New(outW, errW, cfg).Watch(cmd.Context())
		},
	}
	addRunFlags(watch, &o)

	root.AddCommand(resolve, check, watch)
	return root
}

func addRunFlags(cmd *cobra.Command, o *options) {
	cmd.Flags().VarP(&o.format, "format", "o", "output format: yaml or json")
	cmd.Flags().StringArrayVar(&o.unitDirs, "unit-dir", nil, "additional search root for load() units (repeatable)")
	cmd.Flags().StringArrayVar(&o.sets, "set", nil, `override assignment, e.g. --set 'model.size = "large"' (repeatable)`)
}

// config validates the collected flags and positional arguments into an
// app.Config. Positional override statements merge after --set ones, so
// conflicts between the two forms are rejected the same way as within
// either.
func (o *options) config(args []string) (*app.Config, error) {
	switch o.logFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", o.logFormat)
	}
	switch o.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn' or 'error'", o.logLevel)
	}

	overrides := append(append([]string(nil), o.sets...), args[1:]...)
	return app.NewConfig(app.Config{
		Path:      args[0],
		Address:   o.address,
		UnitDirs:  o.unitDirs,
		Overrides: overrides,
		Format:    string(o.format),
		LogFormat: o.logFormat,
		LogLevel:  o.logLevel,
	})
}
