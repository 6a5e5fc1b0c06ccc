package factory

import (
	"context"
	"time"

	"github.com/mcoot/guestlist/internal/dependencies/mocks"
	"github.com/mcoot/guestlist/internal/storage/memory"
	"github.com/mcoot/guestlist/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an initialized App over in-memory storage with mocked dependencies
func NewTestApp() *TestApp {
	backend := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(backend, mockClock, mockRandom, testutil.NopLogger())
	if err := app.Store.EnsureInitialized(context.Background()); err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     backend,
	}
}
