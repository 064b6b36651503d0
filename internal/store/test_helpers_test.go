package store

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/roach88/contactbook/internal/clock"
	"github.com/roach88/contactbook/internal/logger"
	"github.com/roach88/contactbook/internal/testutil"
)

// testPath is the active file for a store started at testutil.DefaultTestTime.
const testPath = "/data/contactbook_07032024.csv"

// createTestStore creates a store on an in-memory filesystem with a pinned
// clock. Extra options are applied after the defaults.
func createTestStore(t *testing.T, opts ...Option) (*Store, afero.Fs, *testutil.FixedClock) {
	t.Helper()
	fs := afero.NewMemMapFs()
	clk := testutil.NewFixedClock(testutil.DefaultTestTime)
	base := []Option{
		WithFs(fs),
		WithClock(clk),
		WithLogger(logger.Wrap(zaptest.NewLogger(t))),
	}
	s := New(testPath, clock.Capture(clk), append(base, opts...)...)
	return s, fs, clk
}

// readFile returns the store file's raw contents.
func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

// seed creates contacts through the public API.
func seed(t *testing.T, s *Store, contacts ...[4]string) {
	t.Helper()
	for _, c := range contacts {
		_, err := s.Create(c[0], c[1], c[2], c[3])
		require.NoError(t, err)
	}
}

var (
	alice = [4]string{"Alice", "alice@x.com", "01012345678", "Cairo"}
	bob   = [4]string{"Bob", "bob@y.org", "+201112345678", "Giza"}
	carol = [4]string{"Carol", "carol@z.net", "00201212345678", "Alexandria, EG"}
)
