package event

import (
	"context"
	"log/slog"

	"github.com/mcoot/guestlist/internal/model"
	"github.com/mcoot/guestlist/internal/services/document"
)

// Service stores the announced place, time and price
type Service struct {
	store  *document.Store
	logger *slog.Logger
}

// New creates a new event Service
func New(store *document.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With(slog.String("component", "event")),
	}
}

// Get returns the current event details
func (s *Service) Get(ctx context.Context) (model.EventInfo, error) {
	var info model.EventInfo
	err := s.store.View(ctx, func(doc *model.Document) error {
		info = doc.Event
		return nil
	})
	return info, err
}

// Set replaces all three fields; there is no partial update
func (s *Service) Set(ctx context.Context, place, time, price string) error {
	info := model.EventInfo{Place: place, Time: time, Price: price}
	var changed bool
	err := s.store.Update(ctx, func(doc *model.Document) error {
		if doc.Event == info {
			return document.ErrNoChange
		}
		doc.Event = info
		changed = true
		return nil
	})
	if err != nil || !changed {
		return err
	}
	s.logger.Info("event updated",
		slog.String("place", place),
		slog.String("time", time),
		slog.String("price", price),
	)
	return nil
}

// Clear resets the event to "not announced"
func (s *Service) Clear(ctx context.Context) error {
	var changed bool
	err := s.store.Update(ctx, func(doc *model.Document) error {
		if !doc.Event.IsAnnounced() {
			return document.ErrNoChange
		}
		doc.Event = model.EventInfo{}
		changed = true
		return nil
	})
	if err != nil || !changed {
		return err
	}
	s.logger.Info("event cleared")
	return nil
}

// LegacyPrice returns the top-level price kept from older documents.
// Event.Price is the one shown to guests.
func (s *Service) LegacyPrice(ctx context.Context) (string, error) {
	var price string
	err := s.store.View(ctx, func(doc *model.Document) error {
		price = doc.Price.String()
		return nil
	})
	return price, err
}

// SetLegacyPrice overwrites the top-level price. Numeric input is stored as
// a JSON number, anything else as a string.
func (s *Service) SetLegacyPrice(ctx context.Context, price string) error {
	next := model.NewLegacyPrice(price)
	var changed bool
	err := s.store.Update(ctx, func(doc *model.Document) error {
		if doc.Price.Equal(next) {
			return document.ErrNoChange
		}
		doc.Price = next
		changed = true
		return nil
	})
	if err != nil || !changed {
		return err
	}
	s.logger.Info("legacy price updated", slog.String("price", next.String()))
	return nil
}
