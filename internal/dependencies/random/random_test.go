package random

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIsUUIDv4(t *testing.T) {
	token := New().Token()

	parsed, err := uuid.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}

func TestTokensAreUnique(t *testing.T) {
	r := New()
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		token := r.Token()
		_, dup := seen[token]
		require.False(t, dup, "duplicate token %s", token)
		seen[token] = struct{}{}
	}
}
