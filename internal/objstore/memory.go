package objstore

import (
	"context"
	"io"
	"sync"

	"github.com/spf13/afero"
)

// Memory is an in-process Provider that keeps uploaded objects in a map.
// It backs the scenario harness and tests; AuthErr and UploadErr inject
// failures.
type Memory struct {
	mu      sync.Mutex
	fs      afero.Fs
	objects map[string]map[string][]byte

	AuthErr   error
	UploadErr error
}

// NewMemory creates an empty in-memory object store reading local files from fs.
func NewMemory(fs afero.Fs) *Memory {
	return &Memory{fs: fs, objects: make(map[string]map[string][]byte)}
}

// Authenticate accepts any non-empty credentials unless AuthErr is set.
func (m *Memory) Authenticate(_ context.Context, keyID, secret string) (Session, error) {
	if keyID == "" || secret == "" {
		return nil, ErrMissingCredentials
	}
	if m.AuthErr != nil {
		return nil, m.AuthErr
	}
	return memorySession{m: m}, nil
}

// Object returns a stored object and whether it exists.
func (m *Memory) Object(bucket, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[bucket][key]
	return data, ok
}

// Keys returns the number of objects stored in bucket.
func (m *Memory) Keys(bucket string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects[bucket])
}

type memorySession struct {
	m *Memory
}

func (s memorySession) Bucket(name string) (Bucket, error) {
	if name == "" {
		return nil, ErrMissingBucket
	}
	return memoryBucket{m: s.m, name: name}, nil
}

type memoryBucket struct {
	m    *Memory
	name string
}

func (b memoryBucket) Upload(_ context.Context, localPath, remoteName string) error {
	if b.m.UploadErr != nil {
		return &UploadError{Bucket: b.name, Key: remoteName, Code: apiErrorCode(b.m.UploadErr), Err: b.m.UploadErr}
	}

	f, err := b.m.fs.Open(localPath)
	if err != nil {
		return &UploadError{Bucket: b.name, Key: remoteName, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return &UploadError{Bucket: b.name, Key: remoteName, Err: err}
	}

	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	if b.m.objects[b.name] == nil {
		b.m.objects[b.name] = make(map[string][]byte)
	}
	b.m.objects[b.name][remoteName] = data
	return nil
}

var _ Provider = (*Memory)(nil)
