package model

import (
	"strconv"
	"strings"
)

// Identity is the stable numeric key naming one participant
type Identity int64

// String returns the decimal form used as a registered_users key
func (id Identity) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseIdentity parses the decimal form of an identity
func ParseIdentity(s string) (Identity, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, ErrInvalidIdentity
	}
	return Identity(n), nil
}

// NormalizeHandle strips whitespace and a leading '@' and case-folds the handle.
// Returns "" for an absent handle.
func NormalizeHandle(handle string) string {
	h := strings.TrimSpace(handle)
	h = strings.TrimPrefix(h, "@")
	return strings.ToLower(h)
}

// CleanHandle strips whitespace and a leading '@' but keeps the original case.
// Guest records store handles this way; comparisons go through NormalizeHandle.
func CleanHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}
