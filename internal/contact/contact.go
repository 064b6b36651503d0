package contact

import (
	"errors"
	"fmt"
	"time"
)

// TimestampLayout is the layout of the created_at field.
const TimestampLayout = "2006-01-02 15:04:05"

// DateStampLayout is the DDMMYYYY layout used in contact book file names.
const DateStampLayout = "02012006"

// RowLen is the number of fields in a serialized contact.
const RowLen = 5

// Column indexes within a row.
const (
	ColName = iota
	ColEmail
	ColPhone
	ColAddress
	ColCreatedAt
)

// ErrMalformedRow is returned by FromRow when a row does not have RowLen fields.
var ErrMalformedRow = errors.New("contact: malformed row")

// Contact is one contact book entry. Name is the lookup key.
//
// The validate tags are registered by internal/store.
type Contact struct {
	Name      string `json:"name" yaml:"name"`
	Email     string `json:"email" yaml:"email" validate:"contact_email"`
	Phone     string `json:"phone" yaml:"phone" validate:"contact_phone"`
	Address   string `json:"address" yaml:"address"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
}

// New builds a contact stamped with the given insertion time.
func New(name, email, phone, address string, at time.Time) Contact {
	return Contact{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Address:   address,
		CreatedAt: at.Format(TimestampLayout),
	}
}

// ToRow returns the contact's fields in row order.
func (c Contact) ToRow() []string {
	return []string{c.Name, c.Email, c.Phone, c.Address, c.CreatedAt}
}

// FromRow is the inverse of ToRow.
func FromRow(row []string) (Contact, error) {
	if len(row) != RowLen {
		return Contact{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRow, RowLen, len(row))
	}
	return Contact{
		Name:      row[ColName],
		Email:     row[ColEmail],
		Phone:     row[ColPhone],
		Address:   row[ColAddress],
		CreatedAt: row[ColCreatedAt],
	}, nil
}

// FromRows converts every row, stopping at the first malformed one.
func FromRows(rows [][]string) ([]Contact, error) {
	out := make([]Contact, 0, len(rows))
	for i, row := range rows {
		c, err := FromRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, c)
	}
	return out, nil
}
