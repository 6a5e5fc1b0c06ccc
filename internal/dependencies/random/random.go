package random

import (
	"github.com/google/uuid"
)

// Random mints unpredictable identifiers and can be mocked for testing
type Random interface {
	// Token returns a new opaque token with negligible collision probability
	Token() string
}

// UUIDRandom implements Random with random (version 4) UUIDs
type UUIDRandom struct{}

// New creates a new UUIDRandom
func New() *UUIDRandom {
	return &UUIDRandom{}
}

// Token returns a fresh UUIDv4 string
func (r *UUIDRandom) Token() string {
	return uuid.NewString()
}
