package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/contactbook/internal/contact"
)

// updateData is the structured payload of a successful update.
type updateData struct {
	Name    string `json:"name" yaml:"name"`
	Field   string `json:"field" yaml:"field"`
	Matched int    `json:"matched" yaml:"matched"`
	Changed int    `json:"changed" yaml:"changed"`
}

// deleteData is the structured payload of a successful delete.
type deleteData struct {
	Name    string `json:"name" yaml:"name"`
	Removed int    `json:"removed" yaml:"removed"`
}

// newFormatter builds the formatter for one command run.
func newFormatter(opts *RootOptions, cmd *cobra.Command, opID string) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		OpID:      opID,
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <email> <phone> <address>",
		Short: "Add a contact",
		Long: `Add a contact stamped with the current time.

The email must look like user@domain.tld and the phone number must be an
Egyptian mobile number (+201, 01 or 00201, then 0, 1, 2 or 5, then 8
digits). Nothing is written if either is invalid.

Example:
  contactbook add Alice alice@x.com 01012345678 Cairo`,
		Args:          exactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			st, opID := a.store("add")
			out := newFormatter(opts, cmd, opID)

			c, err := st.Create(args[0], args[1], args[2], args[3])
			if err != nil {
				return fail(out, err, st.Path())
			}
			if out.Structured() {
				return out.Success(c)
			}
			return out.Success(msgAdded)
		},
	}
}

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"view"},
		Short:   "List all contacts in file order",
		Args:    noArgs,
		Example: `  contactbook list
  contactbook list --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			st, opID := a.store("list")
			out := newFormatter(opts, cmd, opID)

			contacts, err := st.List()
			if err != nil {
				return fail(out, err, st.Path())
			}
			if out.Structured() {
				return out.Success(contacts)
			}
			if len(contacts) == 0 {
				return out.Success(msgNoContacts)
			}
			rows := make([][]string, len(contacts))
			for i, c := range contacts {
				rows[i] = c.ToRow()
			}
			return WriteTable(out.Writer, rows)
		},
	}
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <name> <field> <value>",
		Short: "Update one field of every contact with the given name",
		Long: `Update one field of every contact named <name>.

<field> is one of username, email, phone or address. An invalid email or
phone is reported and the contact keeps its old value. A name that matches
nothing succeeds unless --strict is set.

Example:
  contactbook update Alice phone 01112345678`,
		Args:          exactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			st, opID := a.store("update")
			out := newFormatter(opts, cmd, opID)

			field, err := contact.ParseField(args[1])
			if err != nil {
				return fail(out, err, st.Path())
			}
			res, err := st.Update(args[0], field, args[2])
			if err != nil {
				return fail(out, err, st.Path())
			}
			out.VerboseLog("matched %d, changed %d", res.Matched, res.Changed)
			if out.Structured() {
				return out.Success(updateData{Name: args[0], Field: string(field), Matched: res.Matched, Changed: res.Changed})
			}
			return out.Success(msgUpdated)
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"remove"},
		Short:   "Remove every contact with the given name",
		Long: `Remove every contact named <name>. Removing a name that matches
nothing succeeds unless --strict is set.`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			st, opID := a.store("delete")
			out := newFormatter(opts, cmd, opID)

			removed, err := st.Delete(args[0])
			if err != nil {
				return fail(out, err, st.Path())
			}
			out.VerboseLog("removed %d", removed)
			if out.Structured() {
				return out.Success(deleteData{Name: args[0], Removed: removed})
			}
			return out.Success(msgRemoved)
		},
	}
}
