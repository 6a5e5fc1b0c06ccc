package registry

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/guestlist/internal/dependencies/clock"
	"github.com/mcoot/guestlist/internal/dependencies/random"
	"github.com/mcoot/guestlist/internal/model"
	"github.com/mcoot/guestlist/internal/services/document"
)

// Stats summarises the guest list for the admin panel
type Stats struct {
	Registered        int  `json:"registered"`
	Friends           int  `json:"friends"`
	MaxSlots          int  `json:"max_slots"`
	FreeSlots         int  `json:"free_slots"`
	Banned            int  `json:"banned"`
	UnregisterAllowed bool `json:"unregister_allowed"`
}

// Service handles registration, capacity and plus-ones
type Service struct {
	store  *document.Store
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

// New creates a new registry Service
func New(store *document.Store, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clock,
		random: random,
		logger: logger.With(slog.String("component", "registry")),
	}
}

// IsRegistered reports whether the identity holds a slot
func (s *Service) IsRegistered(ctx context.Context, id model.Identity) (bool, error) {
	var registered bool
	err := s.store.View(ctx, func(doc *model.Document) error {
		registered = doc.RegisteredUsers.Has(id)
		return nil
	})
	return registered, err
}

// Register claims a slot for the identity. Checks run in order: already
// registered, banned (by identity or handle), out of capacity. Only a
// successful registration changes the document, and only then is the
// created guest returned.
func (s *Service) Register(ctx context.Context, id model.Identity, name, handle string) (model.RegisterOutcome, *model.Guest, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, model.ErrInvalidName
	}
	username := model.CleanHandle(handle)

	var (
		outcome model.RegisterOutcome
		created model.Guest
	)
	err := s.store.Update(ctx, func(doc *model.Document) error {
		switch {
		case doc.RegisteredUsers.Has(id):
			outcome = model.RegisterAlreadyRegistered
			return document.ErrNoChange
		case doc.IsBanned(id, username):
			outcome = model.RegisterBlacklisted
			return document.ErrNoChange
		case !doc.HasCapacity():
			outcome = model.RegisterFull
			return document.ErrNoChange
		}

		guest := &model.Guest{
			Name:         name,
			Username:     username,
			RegisteredAt: s.clock.Now(),
			QRToken:      s.random.Token(),
			Friends:      []model.Friend{},
		}
		doc.RegisteredUsers.Add(id, guest)
		doc.RecordKnown(id, username)
		created = *guest
		created.Friends = []model.Friend{}
		outcome = model.RegisterSuccess
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	if outcome == model.RegisterSuccess {
		s.logger.Info("guest registered",
			slog.String("id", id.String()),
			slog.String("username", username),
		)
	} else {
		s.logger.Debug("registration refused",
			slog.String("id", id.String()),
			slog.String("outcome", string(outcome)),
		)
		return outcome, nil, nil
	}
	return outcome, &created, nil
}

// Unregister frees the identity's slot. An absent identity is a no-op.
func (s *Service) Unregister(ctx context.Context, id model.Identity) error {
	_, err := s.unregister(ctx, id, false)
	return err
}

// UnregisterSelf is the guest-initiated cancellation. It fails with
// model.ErrUnregisterDisabled while the policy forbids it and reports
// whether a registration was actually removed.
func (s *Service) UnregisterSelf(ctx context.Context, id model.Identity) (bool, error) {
	return s.unregister(ctx, id, true)
}

func (s *Service) unregister(ctx context.Context, id model.Identity, checkPolicy bool) (bool, error) {
	var removed bool
	err := s.store.Update(ctx, func(doc *model.Document) error {
		if checkPolicy && !doc.UnregisterAllowed {
			return model.ErrUnregisterDisabled
		}
		if !doc.RegisteredUsers.Remove(id) {
			return document.ErrNoChange
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.Info("guest unregistered",
			slog.String("id", id.String()),
			slog.Bool("self", checkPolicy),
		)
	}
	return removed, nil
}

// AttachFriend appends a plus-one to a registered guest. An unregistered
// identity yields model.FriendNotRegistered and leaves the document as is,
// as do a disabled feature and an exhausted per-guest limit.
func (s *Service) AttachFriend(ctx context.Context, id model.Identity, name, handle string) (model.FriendOutcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", model.ErrInvalidName
	}

	var outcome model.FriendOutcome
	err := s.store.Update(ctx, func(doc *model.Document) error {
		guest := doc.RegisteredUsers.Get(id)
		switch {
		case guest == nil:
			outcome = model.FriendNotRegistered
			return document.ErrNoChange
		case !doc.FriendsEnabled:
			outcome = model.FriendsDisabled
			return document.ErrNoChange
		case len(guest.Friends) >= doc.MaxFriendsPerUser:
			outcome = model.FriendLimitReached
			return document.ErrNoChange
		}

		guest.Friends = append(guest.Friends, model.Friend{
			Name:     name,
			Username: model.CleanHandle(handle),
		})
		outcome = model.FriendAdded
		return nil
	})
	if err != nil {
		return "", err
	}

	if outcome == model.FriendAdded {
		s.logger.Info("friend attached", slog.String("id", id.String()))
	}
	return outcome, nil
}

// SetCapacity changes max_slots. Lowering it below the current count
// never evicts anyone; FreeSlots goes negative instead.
func (s *Service) SetCapacity(ctx context.Context, n int) error {
	if n < 0 {
		return model.ErrInvalidCapacity
	}
	var previous int
	err := s.store.Update(ctx, func(doc *model.Document) error {
		previous = doc.MaxSlots
		if previous == n {
			return document.ErrNoChange
		}
		doc.MaxSlots = n
		return nil
	})
	if err != nil || previous == n {
		return err
	}
	s.logger.Info("capacity changed",
		slog.Int("from", previous),
		slog.Int("to", n),
	)
	return nil
}

// CurrentCount returns the number of registered guests
func (s *Service) CurrentCount(ctx context.Context) (int, error) {
	var n int
	err := s.store.View(ctx, func(doc *model.Document) error {
		n = doc.RegisteredUsers.Len()
		return nil
	})
	return n, err
}

// MaxSlots returns the configured capacity
func (s *Service) MaxSlots(ctx context.Context) (int, error) {
	var n int
	err := s.store.View(ctx, func(doc *model.Document) error {
		n = doc.MaxSlots
		return nil
	})
	return n, err
}

// FreeSlots returns capacity minus registrations; negative after a shrink
func (s *Service) FreeSlots(ctx context.Context) (int, error) {
	var n int
	err := s.store.View(ctx, func(doc *model.Document) error {
		n = doc.FreeSlots()
		return nil
	})
	return n, err
}

// HasCapacity reports whether FreeSlots is positive
func (s *Service) HasCapacity(ctx context.Context) (bool, error) {
	free, err := s.FreeSlots(ctx)
	return free > 0, err
}

// ClearAll removes every registration. Blacklist, event and friend
// settings are untouched.
func (s *Service) ClearAll(ctx context.Context) error {
	var cleared int
	err := s.store.Update(ctx, func(doc *model.Document) error {
		cleared = doc.RegisteredUsers.Len()
		if cleared == 0 {
			return document.ErrNoChange
		}
		doc.RegisteredUsers.Clear()
		return nil
	})
	if err != nil || cleared == 0 {
		return err
	}
	s.logger.Info("guest list cleared", slog.Int("removed", cleared))
	return nil
}

// SetFriendLimit sets the per-guest plus-one limit. A positive limit also
// switches the feature on.
func (s *Service) SetFriendLimit(ctx context.Context, n int) error {
	if n < 0 {
		return model.ErrInvalidFriendLimit
	}
	var changed bool
	err := s.store.Update(ctx, func(doc *model.Document) error {
		if doc.MaxFriendsPerUser == n && (n == 0 || doc.FriendsEnabled) {
			return document.ErrNoChange
		}
		doc.MaxFriendsPerUser = n
		if n > 0 {
			doc.FriendsEnabled = true
		}
		changed = true
		return nil
	})
	if err != nil || !changed {
		return err
	}
	s.logger.Info("friend limit changed", slog.Int("limit", n))
	return nil
}

// FriendLimit returns the per-guest plus-one limit
func (s *Service) FriendLimit(ctx context.Context) (int, error) {
	var n int
	err := s.store.View(ctx, func(doc *model.Document) error {
		n = doc.MaxFriendsPerUser
		return nil
	})
	return n, err
}

// SetFriendsEnabled switches plus-ones on or off without touching the limit
func (s *Service) SetFriendsEnabled(ctx context.Context, enabled bool) error {
	var changed bool
	err := s.store.Update(ctx, func(doc *model.Document) error {
		if doc.FriendsEnabled == enabled {
			return document.ErrNoChange
		}
		doc.FriendsEnabled = enabled
		changed = true
		return nil
	})
	if err != nil || !changed {
		return err
	}
	s.logger.Info("friends toggled", slog.Bool("enabled", enabled))
	return nil
}

// FriendsEnabled reports whether plus-ones are accepted
func (s *Service) FriendsEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	err := s.store.View(ctx, func(doc *model.Document) error {
		enabled = doc.FriendsEnabled
		return nil
	})
	return enabled, err
}

// Guest returns a copy of the identity's registration
func (s *Service) Guest(ctx context.Context, id model.Identity) (*model.Guest, error) {
	var guest *model.Guest
	err := s.store.View(ctx, func(doc *model.Document) error {
		g := doc.RegisteredUsers.Get(id)
		if g == nil {
			return model.ErrGuestNotFound
		}
		copied := *g
		copied.Friends = append([]model.Friend{}, g.Friends...)
		guest = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return guest, nil
}

// List returns all guests in registration order
func (s *Service) List(ctx context.Context) ([]model.GuestEntry, error) {
	var entries []model.GuestEntry
	err := s.store.View(ctx, func(doc *model.Document) error {
		entries = doc.RegisteredUsers.Entries()
		return nil
	})
	return entries, err
}

// Stats returns the counters shown on the admin panel
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.store.View(ctx, func(doc *model.Document) error {
		stats = Stats{
			Registered:        doc.RegisteredUsers.Len(),
			Friends:           doc.RegisteredUsers.FriendCount(),
			MaxSlots:          doc.MaxSlots,
			FreeSlots:         doc.FreeSlots(),
			Banned:            doc.Blacklist.Len(),
			UnregisterAllowed: doc.UnregisterAllowed,
		}
		return nil
	})
	return stats, err
}
