package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/roach88/contactbook/internal/clock"
	"github.com/roach88/contactbook/internal/contact"
	"github.com/roach88/contactbook/internal/logger"
	"github.com/roach88/contactbook/internal/objstore"
	"github.com/roach88/contactbook/internal/store"
	"github.com/roach88/contactbook/internal/testutil"
)

// Paths inside the scenario filesystem.
const (
	DataDir    = "/data"
	StagingDir = "/staging"
)

// Harness is the test execution engine.
// It runs scenarios against an in-memory filesystem with a fixed clock.
type Harness struct {
	fs      afero.Fs
	clock   *testutil.FixedClock
	objects *objstore.Memory
	store   *store.Store
	log     *logger.Logger
}

// Option configures Run.
type Option func(*runOptions)

type runOptions struct {
	log *logger.Logger
}

// WithLogger routes store logging to l. Defaults to a no-op logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *runOptions) { o.log = l }
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs on a fresh in-memory filesystem and object store.
// A step whose outcome differs from its expect clause is recorded as an
// error and execution continues, so the trace always covers every step.
//
// Run returns an error only when the scenario cannot be started.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	o := runOptions{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	start, err := scenario.startTime(testutil.DefaultTestTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start: %w", err)
	}

	fs := afero.NewMemMapFs()
	clk := testutil.NewFixedClock(start)
	started := clock.Capture(clk)
	objects := objstore.NewMemory(fs)

	h := &Harness{
		fs:      fs,
		clock:   clk,
		objects: objects,
		log:     o.log.WithFields("scenario", scenario.Name),
	}
	h.store = store.New(store.PathIn(DataDir, started), started,
		store.WithFs(fs),
		store.WithClock(clk),
		store.WithStrict(scenario.Strict),
		store.WithObjectStore(objects),
		store.WithStagingDir(StagingDir),
		store.WithLogger(h.log),
	)

	ctx := context.Background()
	result := NewResult()
	result.File = h.store.Path()

	for i, step := range scenario.Steps {
		h.executeStep(ctx, i, step, result)
	}

	actx := &AssertionContext{
		Fs:      fs,
		Store:   h.store,
		Objects: objects,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	rows, err := h.store.Load()
	switch {
	case err == nil:
		result.Rows = rows
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("failed to read final state: %w", err)
	}

	return result, nil
}

// executeStep runs one step, traces it and checks its expect clause.
func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) {
	detail, err := h.apply(ctx, step)
	outcome := store.Code(err)
	result.AddTrace(step.Op, step.Args, outcome, detail)

	expect := step.Expect
	if expect == "" {
		expect = store.CodeOK
	}
	if outcome != expect {
		msg := fmt.Sprintf("steps[%d] %s: expected %s, got %s", index, step.Op, expect, outcome)
		if err != nil {
			msg += fmt.Sprintf(" (%v)", err)
		}
		result.AddError(msg)
	}

	if step.Advance != "" {
		// Validated by ParseScenario.
		d, _ := time.ParseDuration(step.Advance)
		h.clock.Advance(d)
	}
}

// apply dispatches a step to the store and summarizes what it did.
func (h *Harness) apply(ctx context.Context, step Step) (string, error) {
	a := step.Args
	switch step.Op {
	case OpCreate:
		c, err := h.store.Create(a["name"], a["email"], a["phone"], a["address"])
		if err != nil {
			return "", err
		}
		return "created_at=" + c.CreatedAt, nil

	case OpUpdate:
		res, err := h.store.Update(a["name"], contact.Field(a["field"]), a["value"])
		return fmt.Sprintf("matched=%d changed=%d", res.Matched, res.Changed), err

	case OpDelete:
		n, err := h.store.Delete(a["name"])
		return fmt.Sprintf("removed=%d", n), err

	case OpList:
		contacts, err := h.store.List()
		return fmt.Sprintf("contacts=%d", len(contacts)), err

	case OpBackupLocal:
		return h.store.BackupLocal(a["dir"])

	case OpBackupRemote:
		creds := store.Credentials{KeyID: a["key_id"], Secret: a["secret"]}
		return h.store.BackupRemote(ctx, a["bucket"], creds)
	}
	return "", fmt.Errorf("unknown op %q", step.Op)
}
