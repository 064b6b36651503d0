package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/contactbook/internal/store"
)

// BackupS3Options holds flags for the backup s3 command.
type BackupS3Options struct {
	*RootOptions
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// backupData is the structured payload of a successful backup.
type backupData struct {
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Key    string `json:"key,omitempty" yaml:"key,omitempty"`
}

// NewBackupCommand creates the backup command and its s3 subcommand.
func NewBackupCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup [dir]",
		Short: "Copy the contact book into a backup directory",
		Long: `Copy the contact book file into [dir] (default: backup.dir from the
config, "backups"), creating the directory if needed. The copy is named
contactbook_<DDMMYYYY>.csv after the day contactbook was started.`,
		Args:          maximumArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			dir := a.cfg.Backup.Dir
			if len(args) == 1 {
				dir = args[0]
			}

			st, opID := a.store("backup")
			out := newFormatter(opts, cmd, opID)

			path, err := st.BackupLocal(dir)
			if err != nil {
				return fail(out, err, st.Path())
			}
			if out.Structured() {
				return out.Success(backupData{Path: path})
			}
			return out.Success("Backup saved to " + path)
		},
	}

	cmd.AddCommand(NewBackupS3Command(opts))
	return cmd
}

// NewBackupS3Command creates the backup s3 command.
func NewBackupS3Command(rootOpts *RootOptions) *cobra.Command {
	opts := &BackupS3Options{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "s3",
		Short: "Upload a copy of the contact book to an S3 bucket",
		Long: `Upload a copy of the contact book to an S3 bucket under the name
contactbook_<DDMMYYYY>.csv. There is no retry.

Bucket and credentials default to the s3 section of the config, then to
AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.

Example:
  contactbook backup s3 --bucket my-contacts`,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupS3(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Bucket, "bucket", "", "destination bucket")
	cmd.Flags().StringVar(&opts.AccessKeyID, "access-key-id", "", "access key id")
	cmd.Flags().StringVar(&opts.SecretAccessKey, "secret-access-key", "", "secret access key")

	return cmd
}

func runBackupS3(opts *BackupS3Options, cmd *cobra.Command) error {
	a, err := newApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.close()

	bucket := firstNonEmpty(opts.Bucket, a.cfg.S3.Bucket)
	if bucket == "" {
		return NewExitError(ExitCommandError, "no bucket: pass --bucket or set s3.bucket")
	}
	creds := store.Credentials{
		KeyID:  firstNonEmpty(opts.AccessKeyID, a.cfg.S3.AccessKeyID),
		Secret: firstNonEmpty(opts.SecretAccessKey, a.cfg.S3.SecretAccessKey),
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, opID := a.store("backup_s3")
	out := newFormatter(opts.RootOptions, cmd, opID)

	key, err := st.BackupRemote(ctx, bucket, creds)
	if err != nil {
		return fail(out, err, st.Path())
	}
	if out.Structured() {
		return out.Success(backupData{Bucket: bucket, Key: key})
	}
	return out.Success(fmt.Sprintf("Backup uploaded to s3://%s/%s", bucket, key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
