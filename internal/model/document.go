package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	// CurrentSchemaVersion is the version written by this code
	CurrentSchemaVersion = 2

	// DefaultMaxSlots is the capacity of a freshly created document
	DefaultMaxSlots = 50
)

// EventInfo holds the announced event details. Unset fields are empty strings.
type EventInfo struct {
	Place string `json:"place"`
	Time  string `json:"time"`
	Price string `json:"price"`
}

// IsAnnounced reports whether any detail has been set
func (e EventInfo) IsAnnounced() bool {
	return e.Place != "" || e.Time != "" || e.Price != ""
}

// LegacyPrice is the top-level price field kept from older documents.
// It holds either a JSON number or a JSON string and is preserved verbatim.
// EventInfo.Price is authoritative.
type LegacyPrice struct {
	raw json.RawMessage
}

// NewLegacyPrice stores s as a number when it is numeric, otherwise as a string
func NewLegacyPrice(s string) LegacyPrice {
	if _, err := strconv.ParseFloat(s, 64); err == nil && json.Valid([]byte(s)) {
		return LegacyPrice{raw: json.RawMessage(s)}
	}
	quoted, _ := json.Marshal(s)
	return LegacyPrice{raw: quoted}
}

// String returns the number text or the unquoted string
func (p LegacyPrice) String() string {
	if len(p.raw) == 0 {
		return "0"
	}
	var s string
	if err := json.Unmarshal(p.raw, &s); err == nil {
		return s
	}
	return string(p.raw)
}

// Equal reports whether both prices encode to the same JSON
func (p LegacyPrice) Equal(other LegacyPrice) bool {
	a, _ := p.MarshalJSON()
	b, _ := other.MarshalJSON()
	return bytes.Equal(a, b)
}

func (p LegacyPrice) MarshalJSON() ([]byte, error) {
	if len(p.raw) == 0 {
		return []byte("0"), nil
	}
	return p.raw, nil
}

func (p *LegacyPrice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		p.raw = nil
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v.(type) {
	case float64, string:
	default:
		return fmt.Errorf("price must be a number or a string, got %s", data)
	}
	p.raw = append(json.RawMessage(nil), data...)
	return nil
}

// Document is the single persisted aggregate holding all state
type Document struct {
	SchemaVersion     int                 `json:"schema_version"`
	MaxSlots          int                 `json:"max_slots"`
	Price             LegacyPrice         `json:"price"`
	Event             EventInfo           `json:"event"`
	UnregisterAllowed bool                `json:"unregister_allowed"`
	RegisteredUsers   GuestList           `json:"registered_users"`
	Blacklist         Blacklist           `json:"blacklist"`
	KnownUsers        map[string]Identity `json:"known_users"`
	MaxFriendsPerUser int                 `json:"max_friends_per_user"`
	FriendsEnabled    bool                `json:"friends_enabled"`
}

// NewDocument returns a document seeded with defaults
func NewDocument() *Document {
	return &Document{
		SchemaVersion:     CurrentSchemaVersion,
		MaxSlots:          DefaultMaxSlots,
		UnregisterAllowed: true,
		KnownUsers:        make(map[string]Identity),
	}
}

// FreeSlots returns remaining capacity. Negative when capacity was lowered below occupancy.
func (d *Document) FreeSlots() int {
	return d.MaxSlots - d.RegisteredUsers.Len()
}

// HasCapacity reports whether another guest can register
func (d *Document) HasCapacity() bool {
	return d.FreeSlots() > 0
}

// IsBanned checks the identity and the case-folded handle against the blacklist
func (d *Document) IsBanned(id Identity, handle string) bool {
	return d.Blacklist.IsBanned(id, handle)
}

// RecordKnown remembers the latest identity seen for a handle. Empty handles are ignored.
func (d *Document) RecordKnown(id Identity, handle string) bool {
	h := NormalizeHandle(handle)
	if h == "" {
		return false
	}
	if d.KnownUsers == nil {
		d.KnownUsers = make(map[string]Identity)
	}
	if existing, ok := d.KnownUsers[h]; ok && existing == id {
		return false
	}
	d.KnownUsers[h] = id
	return true
}

// ResolveHandle returns the identity last seen with the handle
func (d *Document) ResolveHandle(handle string) (Identity, bool) {
	id, ok := d.KnownUsers[NormalizeHandle(handle)]
	return id, ok
}
