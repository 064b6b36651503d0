package cli

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup(t *testing.T) {
	env := newTestEnv(t)
	env.addAlice()

	out := env.mustRun("backup", "/backups")
	assert.Equal(t, "Backup saved to /backups/contactbook_07032024.csv\n", out)

	data, err := afero.ReadFile(env.fs, "/backups/contactbook_07032024.csv")
	require.NoError(t, err)
	assert.Equal(t, env.file(), string(data))
}

func TestBackup_DefaultDir(t *testing.T) {
	env := newTestEnv(t)
	env.addAlice()

	out := env.mustRun("backup")
	assert.Equal(t, "Backup saved to backups/contactbook_07032024.csv\n", out)
}

func TestBackup_IntoDataDir(t *testing.T) {
	env := newTestEnv(t)
	env.addAlice()

	out, err := env.run("", "--format=json", "backup", "/data")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), msgBackupFailed)
	assert.Equal(t, aliceLine, env.file())

	var resp struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "backup_failed", resp.Error.Code)
	assert.Equal(t, "copy", resp.Error.Details["stage"])
}

func TestBackupS3(t *testing.T) {
	env := newTestEnv(t)
	env.addAlice()

	out := env.mustRun("backup", "s3", "--bucket=contacts", "--access-key-id=AKID", "--secret-access-key=s3cr3t")
	assert.Equal(t, "Backup uploaded to s3://contacts/contactbook_07032024.csv\n", out)

	data, ok := env.objects.Object("contacts", "contactbook_07032024.csv")
	require.True(t, ok)
	assert.Equal(t, env.file(), string(data))
}

func TestBackupS3_ConfigBucket(t *testing.T) {
	env := newTestEnv(t)
	env.addAlice()

	path := writeConfig(t, "s3:\n  bucket: from-config\n  access_key_id: AKID\n  secret_access_key: s3cr3t\n")
	env.mustRun("--config="+path, "backup", "s3")

	assert.Equal(t, 1, env.objects.Keys("from-config"))
}

func TestBackupS3_NoBucket(t *testing.T) {
	env := newTestEnv(t)
	env.addAlice()

	_, err := env.run("", "backup", "s3", "--access-key-id=AKID", "--secret-access-key=s3cr3t")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no bucket")
}

func TestBackupS3_MissingCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.addAlice()

	out, err := env.run("", "--format=json", "backup", "s3", "--bucket=contacts")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "remote_backup_failed", resp.Error.Code)
	assert.Equal(t, 0, env.objects.Keys("contacts"))
}
