package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Friend is a plus-one attached to a registered guest
type Friend struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Guest is a single registration
type Guest struct {
	Name         string    `json:"name"`
	Username     string    `json:"username"` // without '@', empty when absent
	RegisteredAt time.Time `json:"registered_at"`
	QRToken      string    `json:"qr_token"`
	Friends      []Friend  `json:"friends"`
}

// GuestEntry pairs a guest with its identity, for ordered listings
type GuestEntry struct {
	ID    Identity
	Guest Guest
}

// GuestList maps identities to guests and remembers insertion order.
// The zero value is an empty list.
type GuestList struct {
	order  []Identity
	guests map[Identity]*Guest
}

// Len returns the number of guests
func (l *GuestList) Len() int {
	return len(l.order)
}

// Get returns the guest with the given identity, or nil if not registered
func (l *GuestList) Get(id Identity) *Guest {
	if l.guests == nil {
		return nil
	}
	return l.guests[id]
}

// Has reports whether the identity is registered
func (l *GuestList) Has(id Identity) bool {
	return l.Get(id) != nil
}

// Add appends a guest. Returns false and leaves the list untouched if the identity exists.
func (l *GuestList) Add(id Identity, g *Guest) bool {
	if l.guests == nil {
		l.guests = make(map[Identity]*Guest)
	}
	if _, ok := l.guests[id]; ok {
		return false
	}
	l.guests[id] = g
	l.order = append(l.order, id)
	return true
}

// Remove deletes a guest. Returns false if the identity was not registered.
func (l *GuestList) Remove(id Identity) bool {
	if !l.Has(id) {
		return false
	}
	delete(l.guests, id)
	for i, existing := range l.order {
		if existing == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear removes every guest
func (l *GuestList) Clear() {
	l.order = nil
	l.guests = nil
}

// Entries returns copies of all guests in registration order
func (l *GuestList) Entries() []GuestEntry {
	entries := make([]GuestEntry, 0, len(l.order))
	for _, id := range l.order {
		g := *l.guests[id]
		g.Friends = append([]Friend(nil), g.Friends...)
		entries = append(entries, GuestEntry{ID: id, Guest: g})
	}
	return entries
}

// FriendCount returns the number of friends across all guests
func (l *GuestList) FriendCount() int {
	n := 0
	for _, g := range l.guests {
		n += len(g.Friends)
	}
	return n
}

// MarshalJSON writes the guests as a JSON object keyed by identity, in insertion order
func (l GuestList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range l.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id.String())
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(l.guests[id])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keyed by identity, keeping key order
func (l *GuestList) UnmarshalJSON(data []byte) error {
	l.Clear()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("registered_users: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		id, err := ParseIdentity(key)
		if err != nil {
			return fmt.Errorf("registered_users: key %q: %w", key, err)
		}

		var g Guest
		if err := dec.Decode(&g); err != nil {
			return fmt.Errorf("registered_users[%s]: %w", key, err)
		}
		if g.Friends == nil {
			g.Friends = []Friend{}
		}

		// Later duplicates win but keep the first position
		if existing := l.Get(id); existing != nil {
			*existing = g
			continue
		}
		l.Add(id, &g)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
