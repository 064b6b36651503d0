package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/roach88/contactbook/internal/logger"
	"github.com/roach88/contactbook/internal/objstore"
	"github.com/roach88/contactbook/internal/testutil"
)

// dataFile is the contact book path for a run started at testutil.DefaultTestTime.
const dataFile = "/data/contactbook_07032024.csv"

// testEnv shares a filesystem, clock and object store across command runs.
type testEnv struct {
	t       *testing.T
	fs      afero.Fs
	clock   *testutil.FixedClock
	objects *objstore.Memory
	opIDs   *testutil.SequentialOpIDs
	log     *logger.Logger // zaptest when nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	fs := afero.NewMemMapFs()
	return &testEnv{
		t:       t,
		fs:      fs,
		clock:   testutil.NewFixedClock(testutil.DefaultTestTime),
		objects: objstore.NewMemory(fs),
		opIDs:   testutil.NewSequentialOpIDs(""),
	}
}

// run executes contactbook with args against the env. --data-dir=/data is
// prepended.
func (e *testEnv) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	opts := &RootOptions{
		Fs:          e.fs,
		Clock:       e.clock,
		OpIDs:       e.opIDs,
		ObjectStore: e.objects,
		EnvFile:     filepath.Join(e.t.TempDir(), "missing.env"),
		Logger:      e.log,
	}
	if opts.Logger == nil {
		opts.Logger = logger.Wrap(zaptest.NewLogger(e.t))
	}
	cmd := NewRootCommandWithOptions(opts)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--data-dir=/data"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

// mustRun is run that fails the test on error.
func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run("", args...)
	require.NoError(e.t, err, out)
	return out
}

// file returns the contact book's raw contents.
func (e *testEnv) file() string {
	e.t.Helper()
	data, err := afero.ReadFile(e.fs, dataFile)
	require.NoError(e.t, err)
	return string(data)
}

func (e *testEnv) addAlice() {
	e.t.Helper()
	e.mustRun("add", "Alice", "alice@x.com", "01012345678", "Cairo")
}
