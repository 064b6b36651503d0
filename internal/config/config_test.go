package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noEnvFile points Load at a .env that does not exist so the developer's
// working directory cannot leak into tests.
func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{EnvFile: noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Store.DataDir)
	assert.False(t, cfg.Store.Strict)
	assert.Equal(t, "backups", cfg.Backup.Dir)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "stderr", cfg.Logger.Output)
}

func TestDefault_MatchesLoad(t *testing.T) {
	cfg, err := Load(LoadOptions{EnvFile: noEnvFile(t)})
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, cfg.Store, def.Store)
	assert.Equal(t, cfg.Backup, def.Backup)
	assert.Equal(t, cfg.Logger, def.Logger)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contactbook.yaml")
	content := `
store:
  data_dir: /var/lib/contactbook
  strict: true
backup:
  dir: /mnt/backups
s3:
  bucket: my-contacts
  region: eu-central-1
  endpoint: http://localhost:9000
  use_path_style: true
  prefix: contactbook/daily
logger:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(LoadOptions{ConfigFile: path, EnvFile: noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/contactbook", cfg.Store.DataDir)
	assert.True(t, cfg.Store.Strict)
	assert.Equal(t, "/mnt/backups", cfg.Backup.Dir)
	assert.Equal(t, "my-contacts", cfg.S3.Bucket)
	assert.Equal(t, "eu-central-1", cfg.S3.Region)
	assert.Equal(t, "http://localhost:9000", cfg.S3.Endpoint)
	assert.True(t, cfg.S3.UsePathStyle)
	assert.Equal(t, "contactbook/daily", cfg.S3.Prefix)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contactbook.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  data_dir: from-file\n"), 0644))
	t.Setenv("CONTACTBOOK_STORE_DATA_DIR", "from-env")

	cfg, err := Load(LoadOptions{ConfigFile: path, EnvFile: noEnvFile(t)})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Store.DataDir)
}

func TestLoad_AWSCredentialFallback(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	cfg, err := Load(LoadOptions{EnvFile: noEnvFile(t)})
	require.NoError(t, err)
	assert.Equal(t, "AKIAEXAMPLE", cfg.S3.AccessKeyID)
	assert.Equal(t, "secret", cfg.S3.SecretAccessKey)
}

func TestLoad_PrefixedCredentialsWin(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("CONTACTBOOK_S3_ACCESS_KEY_ID", "AKIAPREFIXED")

	cfg, err := Load(LoadOptions{EnvFile: noEnvFile(t)})
	require.NoError(t, err)
	assert.Equal(t, "AKIAPREFIXED", cfg.S3.AccessKeyID)
}

func TestLoad_DotEnv(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("CONTACTBOOK_BACKUP_DIR=dotenv-backups\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("CONTACTBOOK_BACKUP_DIR") })

	cfg, err := Load(LoadOptions{EnvFile: envPath})
	require.NoError(t, err)
	assert.Equal(t, "dotenv-backups", cfg.Backup.Dir)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(LoadOptions{
		ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"),
		EnvFile:    noEnvFile(t),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidLevel(t *testing.T) {
	t.Setenv("CONTACTBOOK_LOGGER_LEVEL", "loud")

	_, err := Load(LoadOptions{EnvFile: noEnvFile(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logger.level")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults ok", func(*Config) {}, ""},
		{"empty data dir", func(c *Config) { c.Store.DataDir = "" }, "store.data_dir"},
		{"empty backup dir", func(c *Config) { c.Backup.Dir = "" }, "backup.dir"},
		{"bad format", func(c *Config) { c.Logger.Format = "xml" }, "logger.format"},
		{"bad output", func(c *Config) { c.Logger.Output = "syslog" }, "logger.output"},
		{"file without name", func(c *Config) { c.Logger.Output = "file" }, "logger.filename"},
		{"file with name", func(c *Config) {
			c.Logger.Output = "file"
			c.Logger.Filename = "cb.log"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
