package store

import (
	"fmt"

	"github.com/roach88/contactbook/internal/contact"
)

// Create validates and appends a new contact stamped with the current time.
// Email is checked before phone; the first failure is returned and nothing
// is written.
func (s *Store) Create(name, email, phone, address string) (contact.Contact, error) {
	c := contact.New(name, email, phone, address, s.clock.Now())
	if err := validateContact(c); err != nil {
		s.log.WithError(err).Debugw("create rejected", "name", name)
		return contact.Contact{}, err
	}
	if err := s.Append(c); err != nil {
		return contact.Contact{}, err
	}
	s.log.Debugw("contact created", "name", name)
	return c, nil
}

// UpdateResult counts the rows an Update touched.
type UpdateResult struct {
	Matched int // rows whose name equals the target
	Changed int // rows whose field value actually changed
}

// Update sets field to value on every contact named name.
//
// username and address are replaced unconditionally. email and phone are
// replaced only when value validates; otherwise the rows are left as they
// were and ErrInvalidEmail or ErrInvalidPhone is returned once the file has
// been rewritten. With no matching contact the file is rewritten unchanged,
// unless the store is strict, in which case ErrNoMatch is returned and
// nothing is written.
func (s *Store) Update(name string, field contact.Field, value string) (UpdateResult, error) {
	var res UpdateResult

	col := field.Column()
	if col < 0 {
		return res, fmt.Errorf("%w %q", ErrUnknownField, field)
	}
	invalid := validateField(field, value)

	rows, err := s.Load()
	if err != nil {
		return res, err
	}

	for _, row := range rows {
		if len(row) == 0 || row[contact.ColName] != name {
			continue
		}
		res.Matched++
		if invalid != nil || col >= len(row) {
			continue
		}
		if row[col] != value {
			row[col] = value
			res.Changed++
		}
	}

	if res.Matched == 0 && s.strict {
		return res, fmt.Errorf("%w: %q", ErrNoMatch, name)
	}

	if err := s.Save(rows); err != nil {
		return res, err
	}

	s.log.Debugw("update applied", "name", name, "field", field, "matched", res.Matched, "changed", res.Changed)
	if invalid != nil && res.Matched > 0 {
		return res, invalid
	}
	return res, nil
}

// Delete removes every contact named name and returns how many were
// removed. Deleting a missing name succeeds, unless the store is strict.
func (s *Store) Delete(name string) (int, error) {
	rows, err := s.Load()
	if err != nil {
		return 0, err
	}

	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 && row[contact.ColName] == name {
			continue
		}
		kept = append(kept, row)
	}
	removed := len(rows) - len(kept)

	if removed == 0 && s.strict {
		return 0, fmt.Errorf("%w: %q", ErrNoMatch, name)
	}

	if err := s.Save(kept); err != nil {
		return 0, err
	}
	s.log.Debugw("contacts deleted", "name", name, "removed", removed)
	return removed, nil
}

// List returns every contact in file order. A missing file yields no
// contacts and ErrNotFound.
func (s *Store) List() ([]contact.Contact, error) {
	rows, err := s.Load()
	if err != nil {
		return nil, err
	}
	contacts, err := contact.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return contacts, nil
}
