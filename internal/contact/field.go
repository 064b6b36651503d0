package contact

import (
	"errors"
	"fmt"
)

// Field names an updatable contact field.
type Field string

// Updatable fields. FieldUsername renames the contact.
const (
	FieldUsername Field = "username"
	FieldEmail    Field = "email"
	FieldPhone    Field = "phone"
	FieldAddress  Field = "address"
)

// Fields lists the updatable fields in prompt order.
var Fields = []Field{FieldUsername, FieldEmail, FieldPhone, FieldAddress}

// ErrUnknownField is returned by ParseField for names outside Fields.
var ErrUnknownField = errors.New("contact: unknown field")

// ParseField maps user input to a Field. Matching is exact.
func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q: must be one of %v", ErrUnknownField, s, Fields)
}

// Column returns the row index the field is stored at.
func (f Field) Column() int {
	switch f {
	case FieldUsername:
		return ColName
	case FieldEmail:
		return ColEmail
	case FieldPhone:
		return ColPhone
	case FieldAddress:
		return ColAddress
	}
	return -1
}
