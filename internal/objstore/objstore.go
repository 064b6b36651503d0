// Package objstore defines the object-storage collaborator used by remote
// backups: authenticate to get a session, pick a bucket, upload a local file.
//
// The S3 implementation works with Amazon S3 and any S3-compatible store
// (MinIO, R2) through a custom endpoint and path-style addressing.
package objstore

import (
	"context"
	"errors"
	"fmt"
)

// Provider authenticates against an object store.
type Provider interface {
	Authenticate(ctx context.Context, keyID, secret string) (Session, error)
}

// Session is an authenticated connection.
type Session interface {
	Bucket(name string) (Bucket, error)
}

// Bucket uploads files into one bucket.
type Bucket interface {
	// Upload copies the local file at localPath to remoteName.
	Upload(ctx context.Context, localPath, remoteName string) error
}

var (
	// ErrMissingCredentials is returned by Authenticate for an empty key id or secret.
	ErrMissingCredentials = errors.New("objstore: missing credentials")

	// ErrMissingBucket is returned by Session.Bucket for an empty name.
	ErrMissingBucket = errors.New("objstore: missing bucket name")
)

// UploadError describes a failed upload. Code carries the service error
// code (e.g. "NoSuchBucket", "AccessDenied") when the service returned one.
type UploadError struct {
	Bucket string
	Key    string
	Code   string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("objstore: upload s3://%s/%s: %s: %v", e.Bucket, e.Key, e.Code, e.Err)
	}
	return fmt.Sprintf("objstore: upload s3://%s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
