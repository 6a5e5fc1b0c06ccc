package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/mcoot/guestlist/internal/model"
	"github.com/mcoot/guestlist/internal/storage"
)

// lockRetryDelay is how often a contended lock file is polled
const lockRetryDelay = 25 * time.Millisecond

// Storage keeps the document in a single JSON file.
// Writes go to a temporary file in the same directory and are renamed into place.
// A sibling "<path>.lock" file serializes writers across processes.
type Storage struct {
	path string
	lock *flock.Flock
}

// New creates a file storage at path, creating the parent directory if needed
func New(path string) (*Storage, error) {
	if path == "" {
		return nil, errors.New("file storage: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &Storage{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Ensure Storage implements the interfaces
var (
	_ storage.Backend = (*Storage)(nil)
	_ storage.Locker  = (*Storage)(nil)
)

// Path returns the document path
func (s *Storage) Path() string {
	return s.path
}

func (s *Storage) ReadDocument(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return data, nil
}

func (s *Storage) WriteDocument(ctx context.Context, data []byte) error {
	dir := filepath.Dir(s.path)

	tmpFile, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp document file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	// Write, sync, close, in that order, so the rename never exposes a partial file
	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing temp document file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp document file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp document file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("setting document file mode: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("renaming document file into place: %w", err)
	}
	success = true

	// Make the rename durable across power loss
	if parent, err := os.Open(dir); err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}

// Lock takes the cross-process lock, polling until ctx is done
func (s *Storage) Lock(ctx context.Context) (func() error, error) {
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", s.lock.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("locking %s: lock not acquired", s.lock.Path())
	}
	return s.lock.Unlock, nil
}

func (s *Storage) Close() error {
	return s.lock.Close()
}
