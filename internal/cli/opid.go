package cli

import "github.com/google/uuid"

// OpIDGenerator produces the id attached to every log entry of one user
// action.
type OpIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 operation ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
