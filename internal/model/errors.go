package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Store errors
	ErrDocumentNotFound = errors.New("document not found")
	ErrCorruptStore     = errors.New("store is corrupt")
	ErrStoreIO          = errors.New("store is unavailable")

	// Guest errors
	ErrGuestNotFound      = errors.New("guest not found")
	ErrInvalidName        = errors.New("guest name must not be empty")
	ErrInvalidIdentity    = errors.New("invalid identity")
	ErrUnregisterDisabled = errors.New("unregistration is currently disabled")

	// Settings errors
	ErrInvalidCapacity    = errors.New("capacity must not be negative")
	ErrInvalidFriendLimit = errors.New("friend limit must not be negative")

	// Blacklist errors
	ErrInvalidBanEntry = errors.New("invalid blacklist entry")
)

// CorruptStoreError reports a persisted document that could not be parsed.
// It matches ErrCorruptStore with errors.Is.
type CorruptStoreError struct {
	Detail string
	Err    error
}

func (e *CorruptStoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrCorruptStore, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrCorruptStore, e.Detail)
}

func (e *CorruptStoreError) Unwrap() error { return e.Err }

func (e *CorruptStoreError) Is(target error) bool { return target == ErrCorruptStore }

// StoreIOError reports a storage medium that could not be read or written.
// It matches ErrStoreIO with errors.Is.
type StoreIOError struct {
	Op  string
	Err error
}

func (e *StoreIOError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStoreIO, e.Op, e.Err)
}

func (e *StoreIOError) Unwrap() error { return e.Err }

func (e *StoreIOError) Is(target error) bool { return target == ErrStoreIO }
