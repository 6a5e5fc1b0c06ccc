package storage

import (
	"context"
)

// Backend persists the serialized document as a single blob.
// ReadDocument returns model.ErrDocumentNotFound when nothing has been written yet.
// WriteDocument must replace the blob atomically: a concurrent reader sees either
// the old or the new bytes, never a mix.
type Backend interface {
	ReadDocument(ctx context.Context) ([]byte, error)
	WriteDocument(ctx context.Context, data []byte) error
	Close() error
}

// Locker is implemented by backends that can be shared between processes.
// The returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context) (unlock func() error, err error)
}
