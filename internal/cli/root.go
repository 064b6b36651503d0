package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/roach88/contactbook/internal/clock"
	"github.com/roach88/contactbook/internal/logger"
	"github.com/roach88/contactbook/internal/objstore"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "text" | "json" | "yaml"
	ConfigFile string
	DataDir    string
	Strict     bool

	// strictSet records whether --strict was given, so an unset flag does
	// not override the configured value.
	strictSet bool

	// Fs, Clock, OpIDs, ObjectStore, EnvFile and Logger override production
	// defaults (for testing). Nil or empty means the default.
	Fs          afero.Fs
	Clock       clock.Clock
	OpIDs       OpIDGenerator
	ObjectStore objstore.Provider
	EnvFile     string
	Logger      *logger.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the contactbook CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions creates the root command around opts, so tests
// can inject a filesystem, clock and object store.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contactbook",
		Short: "A contact book kept in a CSV file",
		Long: `contactbook keeps contacts (name, email, phone, address) in a CSV file
named after the day it was started, contactbook_<DDMMYYYY>.csv.

Run without a command for the interactive menu, or use the commands below
for scripting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.strictSet = cmd.Flags().Changed("strict")
			return nil
		},
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(opts, cmd)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (yaml, toml or json)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "directory holding the contact book file")
	cmd.PersistentFlags().BoolVar(&opts.Strict, "strict", false, "report update/delete of a name that matches nothing")

	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// exactArgs is cobra.ExactArgs with a command-error exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return wrapArgs(cobra.ExactArgs(n))
}

// maximumArgs is cobra.MaximumNArgs with a command-error exit code.
func maximumArgs(n int) cobra.PositionalArgs {
	return wrapArgs(cobra.MaximumNArgs(n))
}

var noArgs = wrapArgs(cobra.NoArgs)

func wrapArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		return nil
	}
}
