package blacklist

import (
	"context"
	"log/slog"

	"github.com/mcoot/guestlist/internal/model"
	"github.com/mcoot/guestlist/internal/services/document"
)

// Service manages banned identities and handles, and the handle to
// identity index built from registrants
type Service struct {
	store  *document.Store
	logger *slog.Logger
}

// New creates a new blacklist Service
func New(store *document.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With(slog.String("component", "blacklist")),
	}
}

// ParseEntry interprets operator input. Digits (optionally negative) are
// identities; anything else is a handle, case-folded with any leading '@'
// removed.
func (s *Service) ParseEntry(input string) (model.BanEntry, error) {
	return model.ParseBanEntry(input)
}

// Ban adds the entry. Banning twice is a no-op.
func (s *Service) Ban(ctx context.Context, entry model.BanEntry) error {
	var added bool
	err := s.store.Update(ctx, func(doc *model.Document) error {
		if !doc.Blacklist.Add(entry) {
			return document.ErrNoChange
		}
		added = true
		return nil
	})
	if err != nil {
		return err
	}
	if added {
		s.logger.Info("entry banned", slog.String("entry", entry.String()))
	}
	return nil
}

// Unban removes the entry. Removing an absent entry is a no-op.
func (s *Service) Unban(ctx context.Context, entry model.BanEntry) error {
	var removed bool
	err := s.store.Update(ctx, func(doc *model.Document) error {
		if !doc.Blacklist.Remove(entry) {
			return document.ErrNoChange
		}
		removed = true
		return nil
	})
	if err != nil {
		return err
	}
	if removed {
		s.logger.Info("entry unbanned", slog.String("entry", entry.String()))
	}
	return nil
}

// IsBanned reports whether the identity or the handle (compared
// case-insensitively) is on the blacklist. An empty handle only checks
// the identity.
func (s *Service) IsBanned(ctx context.Context, id model.Identity, handle string) (bool, error) {
	var banned bool
	err := s.store.View(ctx, func(doc *model.Document) error {
		banned = doc.IsBanned(id, handle)
		return nil
	})
	return banned, err
}

// IsEntryBanned reports whether the exact entry is present
func (s *Service) IsEntryBanned(ctx context.Context, entry model.BanEntry) (bool, error) {
	var banned bool
	err := s.store.View(ctx, func(doc *model.Document) error {
		banned = doc.Blacklist.Contains(entry)
		return nil
	})
	return banned, err
}

// List returns entries in the order they were banned
func (s *Service) List(ctx context.Context) ([]model.BanEntry, error) {
	var entries []model.BanEntry
	err := s.store.View(ctx, func(doc *model.Document) error {
		entries = doc.Blacklist.Entries()
		return nil
	})
	return entries, err
}

// ResolveIdentityForHandle returns the identity last registered with the handle
func (s *Service) ResolveIdentityForHandle(ctx context.Context, handle string) (model.Identity, bool, error) {
	var (
		id    model.Identity
		found bool
	)
	err := s.store.View(ctx, func(doc *model.Document) error {
		id, found = doc.ResolveHandle(handle)
		return nil
	})
	return id, found, err
}

// RecordKnown remembers that the handle belongs to the identity. The latest
// call for a handle wins. An empty handle is ignored.
func (s *Service) RecordKnown(ctx context.Context, id model.Identity, handle string) error {
	if model.NormalizeHandle(handle) == "" {
		return nil
	}
	return s.store.Update(ctx, func(doc *model.Document) error {
		if !doc.RecordKnown(id, handle) {
			return document.ErrNoChange
		}
		return nil
	})
}

// BanHandleResolved bans the handle and, when an identity is known for it,
// that identity too, so the ban survives a change of handle. It returns the
// resolved identity if there was one.
func (s *Service) BanHandleResolved(ctx context.Context, handle string) (model.Identity, bool, error) {
	entry := model.BanHandle(handle)
	if entry.Handle == "" {
		return 0, false, model.ErrInvalidBanEntry
	}

	var (
		id    model.Identity
		found bool
	)
	err := s.store.Update(ctx, func(doc *model.Document) error {
		id, found = doc.ResolveHandle(entry.Handle)
		changed := doc.Blacklist.Add(entry)
		if found && doc.Blacklist.Add(model.BanID(id)) {
			changed = true
		}
		if !changed {
			return document.ErrNoChange
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	attrs := []any{slog.String("handle", entry.Handle)}
	if found {
		attrs = append(attrs, slog.String("id", id.String()))
	}
	s.logger.Info("handle banned", attrs...)
	return id, found, nil
}
