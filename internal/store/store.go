package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/roach88/contactbook/internal/clock"
	"github.com/roach88/contactbook/internal/contact"
	"github.com/roach88/contactbook/internal/logger"
	"github.com/roach88/contactbook/internal/objstore"
)

// Store is a contact book backed by one CSV file.
type Store struct {
	fs      afero.Fs
	path    string
	started clock.Started
	clock   clock.Clock
	strict  bool
	objects objstore.Provider
	staging string
	log     *logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(s *Store) { s.fs = fsys }
}

// WithClock sets the clock used for insertion timestamps. Defaults to
// clock.System.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithStrict makes Update and Delete return ErrNoMatch, without writing,
// when no contact has the given name.
func WithStrict(strict bool) Option {
	return func(s *Store) { s.strict = strict }
}

// WithObjectStore sets the provider used by BackupRemote.
func WithObjectStore(p objstore.Provider) Option {
	return func(s *Store) { s.objects = p }
}

// WithStagingDir sets where BackupRemote writes the copy it uploads. Empty
// means a fresh temporary directory per backup.
func WithStagingDir(dir string) Option {
	return func(s *Store) { s.staging = dir }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates a store for the file at path. started fixes the date used in
// backup names.
func New(path string, started clock.Started, opts ...Option) *Store {
	s := &Store{
		fs:      afero.NewOsFs(),
		path:    path,
		started: started,
		clock:   clock.System{},
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("store").WithFields("path", path)
	return s
}

// FileName returns contactbook_<DDMMYYYY>.csv for the given start time.
func FileName(started clock.Started) string {
	return "contactbook_" + started.Stamp(contact.DateStampLayout) + ".csv"
}

// PathIn returns the active file path inside dir.
func PathIn(dir string, started clock.Started) string {
	return filepath.Join(dir, FileName(started))
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// Strict reports whether strict mode is on.
func (s *Store) Strict() bool {
	return s.strict
}

// Exists reports whether the file exists.
func (s *Store) Exists() (bool, error) {
	return afero.Exists(s.fs, s.path)
}

// EnsureExists creates an empty file, and its directory, if none exists.
func (s *Store) EnsureExists() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	f, err := s.fs.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.path, err)
	}
	return f.Close()
}

// Load returns every row in file order. Rows are returned as stored, so a
// row with the wrong field count survives a Load/Save round trip.
func (s *Store) Load() ([][]string, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, s.notFound(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	s.log.Debugw("loaded rows", "rows", len(rows))
	return rows, nil
}

// Save replaces the file's contents with rows. The file must already exist.
func (s *Store) Save(rows [][]string) error {
	f, err := s.fs.OpenFile(s.path, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return s.notFound(err)
	}
	if err := writeRows(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	s.log.Debugw("saved rows", "rows", len(rows))
	return nil
}

// Append adds one contact to the end of the file, creating it if absent.
func (s *Store) Append(c contact.Contact) error {
	if err := s.EnsureExists(); err != nil {
		return err
	}
	f, err := s.fs.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	if err := writeRows(f, [][]string{c.ToRow()}); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", s.path, err)
	}
	return f.Close()
}

// writeRows writes CRLF-terminated CSV, the line ending the contact book
// format has always used.
func writeRows(f afero.File, rows [][]string) error {
	w := csv.NewWriter(f)
	w.UseCRLF = true
	return w.WriteAll(rows)
}

// notFound maps a missing file to ErrNotFound and passes other errors through.
func (s *Store) notFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	return fmt.Errorf("open %s: %w", s.path, err)
}
