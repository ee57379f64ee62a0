package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StoredFile describes a file persisted in the object store.
type StoredFile struct {
	Key        string
	URL        string
	Name       string
	Size       int64
	UploadedAt time.Time
}

// ObjectStore abstracts where attachment bytes live. The ticket document
// only keeps the returned URL and metadata.
type ObjectStore interface {
	Store(ctx context.Context, name string, r io.Reader) (*StoredFile, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// LocalStore keeps attachment files on the local file system under a base
// directory, addressed by generated keys.
type LocalStore struct {
	basePath      string
	publicBaseURL string
}

// NewLocalStore creates the base directory if needed.
func NewLocalStore(basePath, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}
	return &LocalStore{basePath: abs, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Store writes the stream to disk under a fresh key and returns metadata.
func (s *LocalStore) Store(_ context.Context, name string, r io.Reader) (*StoredFile, error) {
	key := uuid.NewString() + sanitizeExt(filepath.Ext(name))
	fullPath := filepath.Join(s.basePath, key)

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, r)
	if err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &StoredFile{
		Key:        key,
		URL:        s.publicBaseURL + "/" + key,
		Name:       name,
		Size:       size,
		UploadedAt: time.Now(),
	}, nil
}

// Open returns a reader over the stored object.
func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.basePath, sanitizeKey(key)))
}

// Delete removes the stored object. Missing objects are not an error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(s.basePath, sanitizeKey(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// KeyFromURL recovers the storage key from a stored attachment URL.
func (s *LocalStore) KeyFromURL(url string) string {
	return sanitizeKey(strings.TrimPrefix(url, s.publicBaseURL+"/"))
}

func sanitizeKey(key string) string {
	// keys are flat; strip any traversal attempt
	return filepath.Base(filepath.Clean(key))
}

func sanitizeExt(ext string) string {
	ext = strings.ToLower(ext)
	for _, r := range ext {
		if r != '.' && (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
