package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mcoot/guestlist/internal/dependencies/random"
	"github.com/mcoot/guestlist/internal/model"
	"github.com/mcoot/guestlist/internal/storage"
)

// ErrNoChange may be returned from an Update func to skip the save.
// Update itself then returns nil.
var ErrNoChange = errors.New("document unchanged")

// Store owns the persisted document. Every Update is one load, mutate, save
// cycle under a single mutex (plus the backend's cross-process lock, if any),
// so concurrent callers never act on a stale snapshot. Nothing is cached
// between calls.
type Store struct {
	backend storage.Backend
	tokens  random.Random
	logger  *slog.Logger

	mu sync.Mutex
}

// New creates a Store over the given backend. tokens fills in QR tokens for
// guests migrated from documents that predate them.
func New(backend storage.Backend, tokens random.Random, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Store{
		backend: backend,
		tokens:  tokens,
		logger:  logger.With(slog.String("component", "document")),
	}
}

// Close releases the backend
func (s *Store) Close() error {
	return s.backend.Close()
}

// Load reads and decodes the document. It returns model.ErrDocumentNotFound
// if nothing is persisted yet. A document written by an older schema is
// migrated in memory only; EnsureInitialized persists migrations.
func (s *Store) Load(ctx context.Context) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, _, err := s.loadLocked(ctx)
	return doc, err
}

// Save overwrites the persisted document
func (s *Store) Save(ctx context.Context, doc *model.Document) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	return s.saveLocked(ctx, doc)
}

// EnsureInitialized creates the default document when none exists, and
// otherwise migrates the persisted one to the current schema, writing it
// back only if something changed. Calling it again is a no-op.
func (s *Store) EnsureInitialized(ctx context.Context) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	doc, from, err := s.loadLocked(ctx)
	if errors.Is(err, model.ErrDocumentNotFound) {
		if err := s.saveLocked(ctx, model.NewDocument()); err != nil {
			return err
		}
		s.logger.Info("created document", slog.Int("schema_version", model.CurrentSchemaVersion))
		return nil
	}
	if err != nil {
		return err
	}

	if from < 0 {
		return nil
	}
	if err := s.saveLocked(ctx, doc); err != nil {
		return err
	}
	s.logger.Info("migrated document",
		slog.Int("from_version", from),
		slog.Int("to_version", model.CurrentSchemaVersion),
	)
	return nil
}

// Update runs fn against a freshly loaded document and saves the result.
// If nothing is persisted yet fn sees a default document. If fn returns an
// error nothing is saved; ErrNoChange is swallowed.
func (s *Store) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	doc, _, err := s.loadLocked(ctx)
	if errors.Is(err, model.ErrDocumentNotFound) {
		doc = model.NewDocument()
	} else if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}
	return s.saveLocked(ctx, doc)
}

// View runs fn against a freshly loaded document without saving.
// Changes fn makes to doc are discarded.
func (s *Store) View(ctx context.Context, fn func(doc *model.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, _, err := s.loadLocked(ctx)
	if errors.Is(err, model.ErrDocumentNotFound) {
		doc = model.NewDocument()
	} else if err != nil {
		return err
	}
	return fn(doc)
}

// acquire takes the in-process mutex and, when the backend supports it,
// the cross-process lock
func (s *Store) acquire(ctx context.Context) (func(), error) {
	s.mu.Lock()

	locker, ok := s.backend.(storage.Locker)
	if !ok {
		return s.mu.Unlock, nil
	}

	unlock, err := locker.Lock(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, &model.StoreIOError{Op: "lock", Err: err}
	}
	return func() {
		if err := unlock(); err != nil {
			s.logger.Warn("failed to release document lock", slog.String("error", err.Error()))
		}
		s.mu.Unlock()
	}, nil
}

// loadLocked reads and decodes the document (caller must hold mu).
// from is the schema version the persisted bytes had, or -1 if no
// migration was needed.
func (s *Store) loadLocked(ctx context.Context) (*model.Document, int, error) {
	data, err := s.backend.ReadDocument(ctx)
	if err != nil {
		if errors.Is(err, model.ErrDocumentNotFound) {
			return nil, -1, err
		}
		return nil, -1, &model.StoreIOError{Op: "read", Err: err}
	}

	doc, from, err := s.decode(data)
	if err != nil {
		s.logger.Error("persisted document is corrupt", slog.String("error", err.Error()))
		return nil, -1, err
	}
	return doc, from, nil
}

// saveLocked encodes and writes the document (caller must hold mu)
func (s *Store) saveLocked(ctx context.Context, doc *model.Document) error {
	doc.SchemaVersion = model.CurrentSchemaVersion
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := s.backend.WriteDocument(ctx, data); err != nil {
		return &model.StoreIOError{Op: "write", Err: err}
	}
	return nil
}

// decode parses persisted bytes, migrating older schemas in memory
func (s *Store) decode(data []byte) (*model.Document, int, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, -1, &model.CorruptStoreError{Detail: "document is not a JSON object", Err: err}
	}
	if raw == nil {
		return nil, -1, &model.CorruptStoreError{Detail: "document is null"}
	}

	from, changed, err := migrate(raw, s.tokens)
	if err != nil {
		return nil, -1, &model.CorruptStoreError{Detail: "cannot migrate document", Err: err}
	}
	if !changed {
		from = -1
	}

	if changed {
		data, err = json.Marshal(raw)
		if err != nil {
			return nil, -1, fmt.Errorf("re-encoding migrated document: %w", err)
		}
	}

	doc := &model.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, -1, &model.CorruptStoreError{Detail: "document does not match schema", Err: err}
	}
	if doc.KnownUsers == nil {
		doc.KnownUsers = make(map[string]model.Identity)
	}
	return doc, from, nil
}

// Encode renders the document in its persisted form: two-space indented
// JSON with a trailing newline
func Encode(doc *model.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
