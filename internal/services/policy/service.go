package policy

import (
	"context"
	"log/slog"

	"github.com/mcoot/guestlist/internal/model"
	"github.com/mcoot/guestlist/internal/services/document"
)

// Service holds the operator toggles
type Service struct {
	store  *document.Store
	logger *slog.Logger
}

// New creates a new policy Service
func New(store *document.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With(slog.String("component", "policy")),
	}
}

// UnregisterAllowed reports whether guests may cancel their own registration
func (s *Service) UnregisterAllowed(ctx context.Context) (bool, error) {
	var allowed bool
	err := s.store.View(ctx, func(doc *model.Document) error {
		allowed = doc.UnregisterAllowed
		return nil
	})
	return allowed, err
}

// SetUnregisterAllowed toggles self-service cancellation
func (s *Service) SetUnregisterAllowed(ctx context.Context, allowed bool) error {
	err := s.store.Update(ctx, func(doc *model.Document) error {
		if doc.UnregisterAllowed == allowed {
			return document.ErrNoChange
		}
		doc.UnregisterAllowed = allowed
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("unregister policy changed", slog.Bool("allowed", allowed))
	return nil
}
