package store

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// Credentials authenticate a remote backup.
type Credentials struct {
	KeyID  string
	Secret string
}

// BackupFileName returns the name every backup of this store is written
// under: contactbook_<DDMMYYYY>.csv, dated at construction.
func (s *Store) BackupFileName() string {
	return FileName(s.started)
}

// BackupLocal copies the store file into dir, creating dir if needed, and
// returns the backup's path. An existing backup from the same day is
// overwritten.
func (s *Store) BackupLocal(dir string) (string, error) {
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		s.log.WithError(err).Errorw("backup directory creation failed", "dir", dir)
		return "", &BackupError{Stage: StageMkdir, Path: dir, Err: err}
	}

	dst := filepath.Join(dir, s.BackupFileName())
	if err := s.copyTo(dst); err != nil {
		s.log.WithError(err).Errorw("backup copy failed", "dst", dst)
		return "", &BackupError{Stage: StageCopy, Path: dst, Err: err}
	}

	s.log.Infow("local backup written", "dst", dst)
	return dst, nil
}

// BackupRemote uploads a copy of the store file to bucket and returns the
// remote object name. The copy is staged locally under BackupFileName and
// removed afterwards, also when the upload fails. There is no retry.
func (s *Store) BackupRemote(ctx context.Context, bucket string, creds Credentials) (remote string, err error) {
	fail := func(stage Stage, err error) error {
		s.log.WithError(err).Errorw("remote backup failed", "stage", stage, "bucket", bucket)
		return &RemoteBackupError{Stage: stage, Bucket: bucket, Err: err}
	}

	if s.objects == nil {
		return "", fail(StageAuth, ErrNoObjectStore)
	}

	sess, err := s.objects.Authenticate(ctx, creds.KeyID, creds.Secret)
	if err != nil {
		return "", fail(StageAuth, err)
	}
	b, err := sess.Bucket(bucket)
	if err != nil {
		return "", fail(StageBucket, err)
	}

	dir := s.staging
	if dir == "" {
		dir, err = afero.TempDir(s.fs, "", "contactbook-backup-")
		if err != nil {
			return "", fail(StageStage, err)
		}
		defer s.fs.RemoveAll(dir)
	} else if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fail(StageStage, err)
	}

	local := filepath.Join(dir, s.BackupFileName())
	if err := s.copyTo(local); err != nil {
		return "", fail(StageStage, err)
	}
	defer func() {
		if rmErr := s.fs.Remove(local); rmErr != nil && err == nil {
			remote = ""
			err = fail(StageCleanup, rmErr)
		}
	}()

	remote = filepath.Base(local)
	if err := b.Upload(ctx, local, remote); err != nil {
		return "", fail(StageUpload, err)
	}

	s.log.Infow("remote backup uploaded", "bucket", bucket, "key", remote)
	return remote, nil
}

// copyTo copies the store file to dst, truncating dst.
func (s *Store) copyTo(dst string) error {
	same, err := s.samePath(dst)
	if err != nil {
		return err
	}
	if same {
		return ErrSameFile
	}

	src, err := s.fs.Open(s.path)
	if err != nil {
		return s.notFound(err)
	}
	defer src.Close()

	out, err := s.fs.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}

// samePath reports whether dst resolves to the store file. The backup name
// equals the active file name, so backing up into the data directory would
// otherwise truncate the source.
func (s *Store) samePath(dst string) (bool, error) {
	a, err := filepath.Abs(s.path)
	if err != nil {
		return false, err
	}
	b, err := filepath.Abs(dst)
	if err != nil {
		return false, err
	}
	return a == b, nil
}
