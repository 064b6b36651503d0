package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roach88/contactbook/internal/logger"
)

// lines joins menu answers into stdin.
func lines(answers ...string) string {
	return strings.Join(answers, "\n") + "\n"
}

func TestMenu_AddViewExit(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(lines("1", "Alice", "alice@x.com", "01012345678", "Cairo", "2", "6"))
	require.NoError(t, err)

	assert.Contains(t, out, "Welcome to the Contact Book!")
	assert.Contains(t, out, "Enter username: ")
	assert.Contains(t, out, msgAdded)
	assert.Contains(t, out, "Alice  alice@x.com  01012345678  Cairo    2024-03-07 09:30:00")
	assert.True(t, strings.HasSuffix(out, msgGoodbye+"\n"))
	assert.Equal(t, aliceLine, env.file())
}

func TestMenu_InvalidChoice(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(lines("7", " 6 "))
	require.NoError(t, err)
	assert.Contains(t, out, msgInvalidChoice)
	assert.Equal(t, 2, strings.Count(out, "Enter your choice: "))
	assert.Contains(t, out, msgGoodbye)
}

func TestMenu_EOFExits(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("")
	require.NoError(t, err)
	assert.Contains(t, out, msgGoodbye)

	// EOF in the middle of an operation also ends the loop without writing.
	out, err = env.run(lines("1", "Alice"))
	require.NoError(t, err)
	assert.Contains(t, out, msgGoodbye)
	assert.NotContains(t, out, msgAdded)
}

func TestMenu_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(lines(
		"1", "Bob", "not-an-email", "01012345678", "Giza",
		"1", "Bob", "bob@y.org", "12345", "Giza",
		"6",
	))
	require.NoError(t, err)
	assert.Contains(t, out, msgInvalidEmail)
	assert.Contains(t, out, msgInvalidPhone)
	assert.NotContains(t, out, msgAdded)
}

func TestMenu_ViewMissingFile(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(lines("2", "6"))
	require.NoError(t, err)
	assert.Contains(t, out, "Sorry, the file "+dataFile+" does not exist.")
}

func TestMenu_UpdateAndRemove(t *testing.T) {
	env := newTestEnv(t)
	env.addAlice()

	out, err := env.run(lines(
		"3", "Alice", "phone", "0001",
		"3", "Alice", "nickname", "Al",
		"3", "Alice", "address", "Giza",
		"6",
	))
	require.NoError(t, err)
	assert.Contains(t, out, msgInvalidPhone)
	assert.Contains(t, out, msgUnknownField)
	assert.Equal(t, 1, strings.Count(out, msgUpdated))
	assert.Equal(t, "Alice,alice@x.com,01012345678,Giza,2024-03-07 09:30:00\r\n", env.file())

	out, err = env.run(lines("4", "Alice", "4", "Alice", "6"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, msgRemoved))
	assert.Empty(t, env.file())
}

func TestMenu_StrictNoMatch(t *testing.T) {
	env := newTestEnv(t)
	env.addAlice()

	out, err := env.run(lines("4", "Zed", "6"), "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, msgNoMatch)
	assert.NotContains(t, out, msgRemoved)
}

func TestMenu_Backup(t *testing.T) {
	env := newTestEnv(t)
	env.addAlice()

	out, err := env.run(lines("5", "/backups", "5", "", "5", "/data", "6"))
	require.NoError(t, err)
	assert.Contains(t, out, "Backup saved to /backups/contactbook_07032024.csv")
	assert.Contains(t, out, "Backup saved to backups/contactbook_07032024.csv")
	assert.Contains(t, out, msgBackupFailed)
	assert.Equal(t, aliceLine, env.file())
}

func TestMenu_LogsOperationIDs(t *testing.T) {
	env := newTestEnv(t)
	core, logs := observer.New(zapcore.DebugLevel)
	env.log = logger.Wrap(zap.New(core))

	_, err := env.run(lines("1", "Alice", "alice@x.com", "01012345678", "Cairo", "2", "6"))
	require.NoError(t, err)

	actions := logs.FilterMessage("menu action").All()
	require.Len(t, actions, 2)
	assert.Equal(t, "op-1", actions[0].ContextMap()["op_id"])
	assert.Equal(t, "add", actions[0].ContextMap()["op"])
	assert.Equal(t, "op-2", actions[1].ContextMap()["op_id"])
	assert.Equal(t, "view", actions[1].ContextMap()["op"])

	// Store entries for the add carry the same id.
	created := logs.FilterMessage("contact created").All()
	require.Len(t, created, 1)
	assert.Equal(t, "op-1", created[0].ContextMap()["op_id"])
}
