package response

import (
	"time"

	"github.com/mcoot/guestlist/internal/model"
	"github.com/mcoot/guestlist/internal/services/registry"
)

// Friend represents a plus-one in API responses
type Friend struct {
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
}

// Guest represents a registration in API responses
type Guest struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
	QRToken      string    `json:"qr_token"`
	Friends      []Friend  `json:"friends"`
}

// GuestFromModel converts a model.Guest to a response Guest
func GuestFromModel(id model.Identity, g *model.Guest) Guest {
	friends := make([]Friend, len(g.Friends))
	for i, f := range g.Friends {
		friends[i] = Friend{Name: f.Name, Username: f.Username}
	}
	return Guest{
		ID:           int64(id),
		Name:         g.Name,
		Username:     g.Username,
		RegisteredAt: g.RegisteredAt,
		QRToken:      g.QRToken,
		Friends:      friends,
	}
}

// GuestList is the ordered admin listing
type GuestList struct {
	Guests []Guest `json:"guests"`
}

// GuestListFromModel converts ordered entries
func GuestListFromModel(entries []model.GuestEntry) GuestList {
	guests := make([]Guest, len(entries))
	for i, e := range entries {
		guests[i] = GuestFromModel(e.ID, &e.Guest)
	}
	return GuestList{Guests: guests}
}

// RegisterResponse reports a registration outcome
type RegisterResponse struct {
	Outcome model.RegisterOutcome `json:"outcome"`
	Guest   *Guest                `json:"guest,omitempty"`
}

// FriendResponse reports a plus-one outcome
type FriendResponse struct {
	Outcome model.FriendOutcome `json:"outcome"`
}

// CancelResponse reports whether a registration was removed
type CancelResponse struct {
	Removed bool `json:"removed"`
}

// Event represents the announced event plus remaining capacity
type Event struct {
	Place     string `json:"place"`
	Time      string `json:"time"`
	Price     string `json:"price"`
	Announced bool   `json:"announced"`
	FreeSlots int    `json:"free_slots"`
}

// EventFromModel converts model.EventInfo
func EventFromModel(info model.EventInfo, freeSlots int) Event {
	return Event{
		Place:     info.Place,
		Time:      info.Time,
		Price:     info.Price,
		Announced: info.IsAnnounced(),
		FreeSlots: freeSlots,
	}
}

// Slots represents capacity accounting
type Slots struct {
	Current     int  `json:"current"`
	Max         int  `json:"max"`
	Free        int  `json:"free"`
	HasCapacity bool `json:"has_capacity"`
}

// SlotsFromStats converts registry stats
func SlotsFromStats(s registry.Stats) Slots {
	return Slots{
		Current:     s.Registered,
		Max:         s.MaxSlots,
		Free:        s.FreeSlots,
		HasCapacity: s.FreeSlots > 0,
	}
}

// Price represents the legacy top-level price
type Price struct {
	Price string `json:"price"`
}

// Policy represents the operator toggles
type Policy struct {
	UnregisterAllowed bool `json:"unregister_allowed"`
}

// Friends represents plus-one settings
type Friends struct {
	Enabled bool `json:"enabled"`
	Limit   int  `json:"limit"`
}

// BanEntry represents one blacklist entry
type BanEntry struct {
	Kind  string `json:"kind"` // "id" or "handle"
	Value string `json:"value"`
}

// BanEntryFromModel converts model.BanEntry
func BanEntryFromModel(e model.BanEntry) BanEntry {
	kind := "handle"
	if e.Kind == model.BanByID {
		kind = "id"
	}
	return BanEntry{Kind: kind, Value: e.String()}
}

// Blacklist is the ordered list of entries
type Blacklist struct {
	Entries []BanEntry `json:"entries"`
}

// BlacklistFromModel converts entries
func BlacklistFromModel(entries []model.BanEntry) Blacklist {
	out := make([]BanEntry, len(entries))
	for i, e := range entries {
		out[i] = BanEntryFromModel(e)
	}
	return Blacklist{Entries: out}
}

// BanResult reports a newly added entry and, for resolved handle bans,
// the identity banned alongside it
type BanResult struct {
	Entry      BanEntry `json:"entry"`
	ResolvedID *int64   `json:"resolved_id,omitempty"`
}

// BanCheck reports whether an identity or handle is banned
type BanCheck struct {
	Banned bool `json:"banned"`
}

// KnownUser maps a handle to its last seen identity
type KnownUser struct {
	Handle string `json:"handle"`
	ID     int64  `json:"id"`
}
