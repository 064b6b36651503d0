package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/contactbook/internal/contact"
	"github.com/roach88/contactbook/internal/store"
)

const menuText = `
Welcome to the Contact Book!
1. Add new contact
2. View all contacts
3. Update a contact
4. Remove a contact
5. Backup your contacts
6. Exit`

// errEOF ends the menu loop when input runs out.
var errEOF = errors.New("end of input")

// menu is the interactive loop run when contactbook has no subcommand.
type menu struct {
	app *app
	in  *bufio.Scanner
	out io.Writer
}

func runMenu(opts *RootOptions, cmd *cobra.Command) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer a.close()

	m := &menu{
		app: a,
		in:  bufio.NewScanner(cmd.InOrStdin()),
		out: cmd.OutOrStdout(),
	}
	return m.run()
}

// run shows the menu until the user picks 6 or input ends. Store errors are
// printed and the loop continues; only input errors end it early.
func (m *menu) run() error {
	for {
		fmt.Fprintln(m.out, menuText)
		choice, err := m.prompt("Enter your choice: ")
		if err != nil {
			return m.exit(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = m.add()
		case "2":
			err = m.view()
		case "3":
			err = m.update()
		case "4":
			err = m.remove()
		case "5":
			err = m.backup()
		case "6":
			fmt.Fprintln(m.out, msgGoodbye)
			return nil
		default:
			fmt.Fprintln(m.out, msgInvalidChoice)
		}
		if err != nil {
			return m.exit(err)
		}
	}
}

func (m *menu) exit(err error) error {
	if errors.Is(err, errEOF) {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, msgGoodbye)
		return nil
	}
	return err
}

// prompt prints label and reads one line. Values are returned as typed.
func (m *menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errEOF
	}
	return strings.TrimSuffix(m.in.Text(), "\r"), nil
}

// prompts reads one answer per label, stopping at the first error.
func (m *menu) prompts(labels ...string) ([]string, error) {
	answers := make([]string, len(labels))
	for i, label := range labels {
		v, err := m.prompt(label)
		if err != nil {
			return nil, err
		}
		answers[i] = v
	}
	return answers, nil
}

func (m *menu) report(err error) {
	fmt.Fprintln(m.out, userMessage(err, m.app.path))
}

// store returns a Store for one menu action and logs the action's id, the
// same id the one-shot commands report in their output.
func (m *menu) store(op string) *store.Store {
	st, opID := m.app.store(op)
	m.app.log.WithOperation(opID, op).Debugw("menu action")
	return st
}

func (m *menu) add() error {
	in, err := m.prompts("Enter username: ", "Enter email: ", "Enter phone number: ", "Enter address: ")
	if err != nil {
		return err
	}

	st := m.store("add")
	if _, err := st.Create(in[0], in[1], in[2], in[3]); err != nil {
		m.report(err)
		return nil
	}
	fmt.Fprintln(m.out, msgAdded)
	return nil
}

func (m *menu) view() error {
	st := m.store("view")
	rows, err := st.Load()
	if err != nil {
		m.report(err)
		return nil
	}
	if len(rows) == 0 {
		fmt.Fprintln(m.out, msgNoContacts)
		return nil
	}
	return WriteTable(m.out, rows)
}

func (m *menu) update() error {
	in, err := m.prompts(
		"Enter name of contact to update: ",
		"Enter field to update (username/email/phone/address): ",
		"Enter new value: ",
	)
	if err != nil {
		return err
	}

	field, err := contact.ParseField(in[1])
	if err != nil {
		m.report(err)
		return nil
	}

	st := m.store("update")
	if _, err := st.Update(in[0], field, in[2]); err != nil {
		m.report(err)
		return nil
	}
	fmt.Fprintln(m.out, msgUpdated)
	return nil
}

func (m *menu) remove() error {
	name, err := m.prompt("Enter name of contact to remove: ")
	if err != nil {
		return err
	}

	st := m.store("delete")
	if _, err := st.Delete(name); err != nil {
		m.report(err)
		return nil
	}
	fmt.Fprintln(m.out, msgRemoved)
	return nil
}

func (m *menu) backup() error {
	dir, err := m.prompt("Enter Backup Directory Name: ")
	if err != nil {
		return err
	}
	if strings.TrimSpace(dir) == "" {
		dir = m.app.cfg.Backup.Dir
	}

	st := m.store("backup")
	path, err := st.BackupLocal(dir)
	if err != nil {
		m.report(err)
		return nil
	}
	fmt.Fprintln(m.out, "Backup saved to "+path)
	return nil
}
