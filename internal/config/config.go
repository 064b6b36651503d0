// Package config loads contactbook settings from defaults, an optional
// config file, a .env file and CONTACTBOOK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. CONTACTBOOK_STORE_DATA_DIR.
const EnvPrefix = "CONTACTBOOK"

// Config holds all configuration for the contact book.
type Config struct {
	Store  StoreConfig  `mapstructure:"store"`
	Backup BackupConfig `mapstructure:"backup"`
	S3     S3Config     `mapstructure:"s3"`
	Logger LoggerConfig `mapstructure:"logger"`
}

// StoreConfig controls where the contact file lives and how update/delete
// treat names that match nothing.
type StoreConfig struct {
	DataDir string `mapstructure:"data_dir"`
	Strict  bool   `mapstructure:"strict"`
}

// BackupConfig holds local backup settings.
type BackupConfig struct {
	Dir        string `mapstructure:"dir"`
	StagingDir string `mapstructure:"staging_dir"`
}

// S3Config holds remote backup settings.
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
	Prefix          string `mapstructure:"prefix"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// LoadOptions selects optional files. Empty paths are skipped, except that
// EnvFile defaults to ".env" in the working directory.
type LoadOptions struct {
	ConfigFile string
	EnvFile    string
}

// Load builds a Config. Sources, lowest precedence first: defaults, config
// file, .env, environment.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// A missing .env is normal; a malformed one is not.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration Load produces with no file and no
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults are static and always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.data_dir", ".")
	v.SetDefault("store.strict", false)

	v.SetDefault("backup.dir", "backups")
	v.SetDefault("backup.staging_dir", "")

	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.use_path_style", false)
	v.SetDefault("s3.prefix", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")

	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.filename", "")
}

// bindEnvVars lets the standard AWS variables fill the S3 credentials when
// the CONTACTBOOK_ ones are unset.
func bindEnvVars(v *viper.Viper) error {
	bindings := map[string][]string{
		"s3.access_key_id":     {EnvPrefix + "_S3_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"},
		"s3.secret_access_key": {EnvPrefix + "_S3_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"},
		"s3.region":            {EnvPrefix + "_S3_REGION", "AWS_REGION"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"console", "json"}
	validOutputs = []string{"stderr", "stdout", "file"}
)

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if c.Store.DataDir == "" {
		return errors.New("store.data_dir must not be empty")
	}
	if c.Backup.Dir == "" {
		return errors.New("backup.dir must not be empty")
	}
	if !oneOf(c.Logger.Level, validLevels) {
		return fmt.Errorf("logger.level %q: must be one of %v", c.Logger.Level, validLevels)
	}
	if !oneOf(c.Logger.Format, validFormats) {
		return fmt.Errorf("logger.format %q: must be one of %v", c.Logger.Format, validFormats)
	}
	if !oneOf(c.Logger.Output, validOutputs) {
		return fmt.Errorf("logger.output %q: must be one of %v", c.Logger.Output, validOutputs)
	}
	if c.Logger.Output == "file" && c.Logger.Filename == "" {
		return errors.New("logger.filename is required when logger.output is file")
	}
	return nil
}

func oneOf(s string, allowed []string) bool {
	for _, a := range allowed {
		if a == s {
			return true
		}
	}
	return false
}
