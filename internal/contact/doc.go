// Package contact defines the contact record and its mapping to a flat row
// of text fields.
//
// A row is always exactly five fields in fixed order:
//
//	[name, email, phone, address, created_at]
//
// created_at is formatted with TimestampLayout. The package has no
// dependencies on storage; internal/store owns validation and file I/O.
package contact
