// Package store provides the file-backed contact book.
//
// A Store owns exactly one headerless CSV file. Each row is a serialized
// contact.Contact:
//
//	name,email,phone,address,created_at
//
// # Access Pattern
//
// There is no in-memory cache. Every operation reads the whole file, and
// every mutation rewrites it (Save) or adds one row (Append). Load-then-Save
// is not transactional and no lock is taken; two processes sharing a file
// can lose updates.
//
// # File Existence
//
//   - Load, Save and List report ErrNotFound when the file is absent.
//   - Append and EnsureExists create the file (and its directory).
//
// # Naming
//
// The active file and every backup are named contactbook_<DDMMYYYY>.csv,
// where the date comes from the clock.Started value given to New. It is
// captured once at process start and never re-read.
//
// # Backups
//
// BackupLocal copies the file into a directory. BackupRemote stages a copy,
// uploads it through an objstore.Provider and removes the staged copy.
// Failures carry the stage that failed (*BackupError, *RemoteBackupError).
package store
