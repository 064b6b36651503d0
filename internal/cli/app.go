package cli

import (
	"errors"

	"github.com/spf13/afero"

	"github.com/roach88/contactbook/internal/clock"
	"github.com/roach88/contactbook/internal/config"
	"github.com/roach88/contactbook/internal/logger"
	"github.com/roach88/contactbook/internal/objstore"
	"github.com/roach88/contactbook/internal/store"
)

// app is the wiring shared by every command: configuration, logger and the
// settings each per-operation Store is built from.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	fs      afero.Fs
	clock   clock.Clock
	started clock.Started
	objects objstore.Provider
	opIDs   OpIDGenerator
	path    string
}

// newApp loads configuration, applies flag overrides and captures the start
// time that names the contact book file.
func newApp(opts *RootOptions) (*app, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if opts.DataDir != "" {
		cfg.Store.DataDir = opts.DataDir
	}
	if opts.strictSet {
		cfg.Store.Strict = opts.Strict
	}
	if opts.Verbose {
		cfg.Logger.Level = "debug"
	}

	log := opts.Logger
	if log == nil {
		log, err = logger.New(cfg.Logger)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to create logger", err)
		}
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		fs:      opts.Fs,
		clock:   opts.Clock,
		objects: opts.ObjectStore,
		opIDs:   opts.OpIDs,
	}
	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}
	if a.clock == nil {
		a.clock = clock.System{}
	}
	if a.opIDs == nil {
		a.opIDs = UUIDv7Generator{}
	}
	if a.objects == nil {
		a.objects = objstore.NewS3Provider(a.fs, s3Options(cfg.S3))
	}

	a.started = clock.Capture(a.clock)
	a.path = store.PathIn(cfg.Store.DataDir, a.started)

	log.Debugw("contact book ready", "path", a.path, "strict", cfg.Store.Strict)
	return a, nil
}

// s3Options maps the s3 config section onto the provider's options.
func s3Options(cfg config.S3Config) objstore.S3Options {
	return objstore.S3Options{
		Region:       cfg.Region,
		Endpoint:     cfg.Endpoint,
		UsePathStyle: cfg.UsePathStyle,
		Prefix:       cfg.Prefix,
	}
}

// store returns a Store whose log entries carry a fresh operation id, and
// that id.
func (a *app) store(op string) (*store.Store, string) {
	opID := a.opIDs.Generate()
	log := a.log.WithOperation(opID, op)
	return store.New(a.path, a.started,
		store.WithFs(a.fs),
		store.WithClock(a.clock),
		store.WithStrict(a.cfg.Store.Strict),
		store.WithObjectStore(a.objects),
		store.WithStagingDir(a.cfg.Backup.StagingDir),
		store.WithLogger(log),
	), opID
}

// close flushes the logger.
func (a *app) close() {
	a.log.Sync()
}

// exitCodeFor maps a store error to an exit code. A missing contact book or
// an unknown field is a command error; everything else is an operation
// failure.
func exitCodeFor(err error) int {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrUnknownField) {
		return ExitCommandError
	}
	return ExitFailure
}
