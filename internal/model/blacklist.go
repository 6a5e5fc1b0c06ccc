package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// BanKind distinguishes identity bans from handle bans
type BanKind int

const (
	BanByID BanKind = iota
	BanByHandle
)

// BanEntry is a single blacklist entry: either an identity or a normalized handle
type BanEntry struct {
	Kind   BanKind
	ID     Identity
	Handle string
}

// BanID returns an entry banning the given identity
func BanID(id Identity) BanEntry {
	return BanEntry{Kind: BanByID, ID: id}
}

// BanHandle returns an entry banning the given handle (case-folded, without '@')
func BanHandle(handle string) BanEntry {
	return BanEntry{Kind: BanByHandle, Handle: NormalizeHandle(handle)}
}

// ParseBanEntry interprets operator input: digits are identities, anything else a handle
func ParseBanEntry(s string) (BanEntry, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "@" {
		return BanEntry{}, ErrInvalidBanEntry
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return BanID(Identity(n)), nil
	}
	entry := BanHandle(s)
	if entry.Handle == "" {
		return BanEntry{}, ErrInvalidBanEntry
	}
	return entry, nil
}

// String returns the identity digits or the handle
func (e BanEntry) String() string {
	if e.Kind == BanByID {
		return e.ID.String()
	}
	return e.Handle
}

// MarshalJSON writes identities as numbers and handles as strings
func (e BanEntry) MarshalJSON() ([]byte, error) {
	if e.Kind == BanByID {
		return []byte(e.ID.String()), nil
	}
	return json.Marshal(e.Handle)
}

// UnmarshalJSON accepts an integer or a string
func (e *BanEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		entry := BanHandle(s)
		if entry.Handle == "" {
			return fmt.Errorf("%w: empty handle", ErrInvalidBanEntry)
		}
		*e = entry
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBanEntry, data)
	}
	*e = BanID(Identity(n))
	return nil
}

// Blacklist is an ordered set of ban entries indexed by identity and by handle.
// The zero value is an empty blacklist.
type Blacklist struct {
	entries []BanEntry
	ids     map[Identity]struct{}
	handles map[string]struct{}
}

// Len returns the number of entries
func (b *Blacklist) Len() int {
	return len(b.entries)
}

// Contains reports whether the exact entry is present
func (b *Blacklist) Contains(e BanEntry) bool {
	if e.Kind == BanByID {
		_, ok := b.ids[e.ID]
		return ok
	}
	_, ok := b.handles[NormalizeHandle(e.Handle)]
	return ok
}

// Add inserts an entry. Returns false if it was already present.
func (b *Blacklist) Add(e BanEntry) bool {
	if e.Kind == BanByHandle {
		e.Handle = NormalizeHandle(e.Handle)
	}
	if b.Contains(e) {
		return false
	}
	if b.ids == nil {
		b.ids = make(map[Identity]struct{})
		b.handles = make(map[string]struct{})
	}
	if e.Kind == BanByID {
		b.ids[e.ID] = struct{}{}
	} else {
		b.handles[e.Handle] = struct{}{}
	}
	b.entries = append(b.entries, e)
	return true
}

// Remove deletes an entry. Returns false if it was not present.
func (b *Blacklist) Remove(e BanEntry) bool {
	if e.Kind == BanByHandle {
		e.Handle = NormalizeHandle(e.Handle)
	}
	if !b.Contains(e) {
		return false
	}
	if e.Kind == BanByID {
		delete(b.ids, e.ID)
	} else {
		delete(b.handles, e.Handle)
	}
	for i, existing := range b.entries {
		if existing == e {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			break
		}
	}
	return true
}

// IsBanned checks the identity and the (optional) handle; either match bans
func (b *Blacklist) IsBanned(id Identity, handle string) bool {
	if _, ok := b.ids[id]; ok {
		return true
	}
	if h := NormalizeHandle(handle); h != "" {
		if _, ok := b.handles[h]; ok {
			return true
		}
	}
	return false
}

// Entries returns a copy of the entries in insertion order
func (b *Blacklist) Entries() []BanEntry {
	return append([]BanEntry{}, b.entries...)
}

// MarshalJSON writes the entries as a mixed array
func (b Blacklist) MarshalJSON() ([]byte, error) {
	if b.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(b.entries)
}

// UnmarshalJSON reads a mixed array, dropping duplicates after normalization
func (b *Blacklist) UnmarshalJSON(data []byte) error {
	var entries []BanEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*b = Blacklist{}
	for _, e := range entries {
		b.Add(e)
	}
	return nil
}
