package memory

import (
	"context"
	"sync"

	"github.com/mcoot/guestlist/internal/model"
	"github.com/mcoot/guestlist/internal/storage"
)

// Storage is an in-memory implementation of the storage backend
type Storage struct {
	mu sync.RWMutex

	data     []byte
	writes   int
	readErr  error
	writeErr error
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Backend = (*Storage)(nil)

func (s *Storage) ReadDocument(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	if s.data == nil {
		return nil, model.ErrDocumentNotFound
	}
	result := make([]byte, len(s.data))
	copy(result, s.data)
	return result, nil
}

func (s *Storage) WriteDocument(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.data = make([]byte, len(data))
	copy(s.data, data)
	s.writes++
	return nil
}

func (s *Storage) Close() error {
	return nil
}

// Test helpers

// Raw returns the stored bytes, or nil if nothing was written
func (s *Storage) Raw() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil
	}
	return append([]byte(nil), s.data...)
}

// SetRaw replaces the stored bytes without counting a write
func (s *Storage) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
}

// Writes returns how many times WriteDocument succeeded
func (s *Storage) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// FailReads makes subsequent reads return err (nil to clear)
func (s *Storage) FailReads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

// FailWrites makes subsequent writes return err (nil to clear)
func (s *Storage) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}
