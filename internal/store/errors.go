package store

import (
	"errors"
	"fmt"

	"github.com/roach88/contactbook/internal/contact"
)

var (
	// ErrInvalidEmail reports an email that fails ValidateEmail.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidPhone reports a phone number that fails ValidatePhone.
	ErrInvalidPhone = errors.New("invalid phone")

	// ErrNotFound reports that the contact book file does not exist.
	ErrNotFound = errors.New("contact book file does not exist")

	// ErrNoMatch reports, in strict mode only, that update or delete matched
	// no contact.
	ErrNoMatch = errors.New("no contact with that name")

	// ErrSameFile reports a backup whose destination is the store file itself.
	ErrSameFile = errors.New("backup destination is the contact book file")

	// ErrNoObjectStore reports a remote backup on a store built without a provider.
	ErrNoObjectStore = errors.New("no object store configured")

	// ErrUnknownField is contact.ErrUnknownField.
	ErrUnknownField = contact.ErrUnknownField

	// ErrMalformedRow is contact.ErrMalformedRow.
	ErrMalformedRow = contact.ErrMalformedRow
)

// Stage names the step of a backup that failed.
type Stage string

const (
	// StageMkdir is creating the local backup directory.
	StageMkdir Stage = "mkdir"

	// StageCopy is copying the store file into the backup directory.
	StageCopy Stage = "copy"

	// StageAuth is authenticating to the object store.
	StageAuth Stage = "auth"

	// StageBucket is resolving the destination bucket.
	StageBucket Stage = "bucket"

	// StageStage is writing the local copy that gets uploaded.
	StageStage Stage = "stage"

	// StageUpload is the upload itself.
	StageUpload Stage = "upload"

	// StageCleanup is removing the staged copy after upload.
	StageCleanup Stage = "cleanup"
)

// BackupError is returned by BackupLocal.
type BackupError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backup %s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *BackupError) Unwrap() error {
	return e.Err
}

// RemoteBackupError is returned by BackupRemote.
type RemoteBackupError struct {
	Stage  Stage
	Bucket string
	Err    error
}

func (e *RemoteBackupError) Error() string {
	if e.Bucket == "" {
		return fmt.Sprintf("remote backup %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("remote backup %s (bucket=%s): %v", e.Stage, e.Bucket, e.Err)
}

func (e *RemoteBackupError) Unwrap() error {
	return e.Err
}

// BackupStage returns the failed stage of a local or remote backup error.
// Uses errors.As to handle wrapped errors.
func BackupStage(err error) (Stage, bool) {
	var be *BackupError
	if errors.As(err, &be) {
		return be.Stage, true
	}
	var re *RemoteBackupError
	if errors.As(err, &re) {
		return re.Stage, true
	}
	return "", false
}

// Outcome codes returned by Code.
const (
	CodeOK                 = "ok"
	CodeInvalidEmail       = "invalid_email"
	CodeInvalidPhone       = "invalid_phone"
	CodeNotFound           = "not_found"
	CodeNoMatch            = "no_match"
	CodeUnknownField       = "unknown_field"
	CodeMalformedRow       = "malformed_row"
	CodeBackupFailed       = "backup_failed"
	CodeRemoteBackupFailed = "remote_backup_failed"
	CodeInternal           = "internal"
)

// Code classifies err into a stable outcome code. A nil error is CodeOK.
// Backup errors are classified by their type before their cause, so a
// backup of a missing file is CodeBackupFailed rather than CodeNotFound.
func Code(err error) string {
	if err == nil {
		return CodeOK
	}
	var be *BackupError
	if errors.As(err, &be) {
		return CodeBackupFailed
	}
	var re *RemoteBackupError
	if errors.As(err, &re) {
		return CodeRemoteBackupFailed
	}
	switch {
	case errors.Is(err, ErrInvalidEmail):
		return CodeInvalidEmail
	case errors.Is(err, ErrInvalidPhone):
		return CodeInvalidPhone
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrNoMatch):
		return CodeNoMatch
	case errors.Is(err, ErrUnknownField):
		return CodeUnknownField
	case errors.Is(err, ErrMalformedRow):
		return CodeMalformedRow
	}
	return CodeInternal
}
