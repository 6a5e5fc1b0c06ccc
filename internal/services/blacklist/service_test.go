package blacklist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/guestlist/internal/dependencies/mocks"
	"github.com/mcoot/guestlist/internal/model"
	"github.com/mcoot/guestlist/internal/services/document"
	"github.com/mcoot/guestlist/internal/storage/memory"
	"github.com/mcoot/guestlist/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	backend *memory.Storage
	store   *document.Store
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.backend = memory.New()
	s.store = document.New(s.backend, mocks.NewMockRandom(), logger)
	s.service = New(s.store, logger)
	s.ctx = context.Background()

	s.Require().NoError(s.store.EnsureInitialized(s.ctx))
}

func (s *ServiceSuite) banned(id model.Identity, handle string) bool {
	banned, err := s.service.IsBanned(s.ctx, id, handle)
	s.Require().NoError(err)
	return banned
}

// ParseEntry tests

func (s *ServiceSuite) TestParseEntry() {
	cases := []struct {
		input string
		want  model.BanEntry
	}{
		{"12345", model.BanID(12345)},
		{" 42 ", model.BanID(42)},
		{"-100200", model.BanID(-100200)},
		{"Alice", model.BanHandle("alice")},
		{"@Bob", model.BanHandle("bob")},
		{"  @CAROL ", model.BanHandle("carol")},
		{"user123", model.BanHandle("user123")},
	}
	for _, tc := range cases {
		got, err := s.service.ParseEntry(tc.input)
		s.Require().NoError(err, tc.input)
		s.Equal(tc.want, got, tc.input)
	}
}

func (s *ServiceSuite) TestParseEntryRejectsEmpty() {
	for _, input := range []string{"", "   ", "@"} {
		_, err := s.service.ParseEntry(input)
		s.ErrorIs(err, model.ErrInvalidBanEntry, input)
	}
}

// Ban tests

func (s *ServiceSuite) TestBanIdentity() {
	s.Require().NoError(s.service.Ban(s.ctx, model.BanID(7)))

	s.True(s.banned(7, ""))
	s.False(s.banned(8, ""))
}

func (s *ServiceSuite) TestBanHandleIsCaseInsensitive() {
	s.Require().NoError(s.service.Ban(s.ctx, model.BanHandle("Bob")))

	s.True(s.banned(1, "BOB"))
	s.True(s.banned(1, "@bob"))
	s.True(s.banned(1, "bOb"))
	s.False(s.banned(1, "bobby"))
	s.False(s.banned(1, ""))
}

func (s *ServiceSuite) TestEitherIdentityOrHandleBans() {
	s.Require().NoError(s.service.Ban(s.ctx, model.BanID(7)))
	s.Require().NoError(s.service.Ban(s.ctx, model.BanHandle("mallory")))

	s.True(s.banned(7, "innocent"))
	s.True(s.banned(8, "Mallory"))
	s.False(s.banned(8, "innocent"))
}

func (s *ServiceSuite) TestBanTwiceStoresOnce() {
	s.Require().NoError(s.service.Ban(s.ctx, model.BanHandle("Bob")))
	writes := s.backend.Writes()

	s.Require().NoError(s.service.Ban(s.ctx, model.BanHandle("@BOB")))

	s.Equal(writes, s.backend.Writes())
	entries, _ := s.service.List(s.ctx)
	s.Len(entries, 1)
}

func (s *ServiceSuite) TestIdentityAndDigitHandleAreDistinct() {
	s.Require().NoError(s.service.Ban(s.ctx, model.BanID(42)))
	s.Require().NoError(s.service.Ban(s.ctx, model.BanEntry{Kind: model.BanByHandle, Handle: "42"}))

	entries, _ := s.service.List(s.ctx)
	s.Len(entries, 2)
}

// Unban tests

func (s *ServiceSuite) TestUnbanHandle() {
	s.Require().NoError(s.service.Ban(s.ctx, model.BanHandle("alice")))

	s.Require().NoError(s.service.Unban(s.ctx, model.BanHandle("ALICE")))

	s.False(s.banned(1, "alice"))
}

func (s *ServiceSuite) TestUnbanIdentity() {
	s.Require().NoError(s.service.Ban(s.ctx, model.BanID(9)))

	s.Require().NoError(s.service.Unban(s.ctx, model.BanID(9)))

	s.False(s.banned(9, ""))
}

func (s *ServiceSuite) TestUnbanAbsentIsNoop() {
	writes := s.backend.Writes()

	s.NoError(s.service.Unban(s.ctx, model.BanHandle("nobody")))

	s.Equal(writes, s.backend.Writes())
}

func (s *ServiceSuite) TestIsEntryBanned() {
	s.Require().NoError(s.service.Ban(s.ctx, model.BanHandle("alice")))

	banned, err := s.service.IsEntryBanned(s.ctx, model.BanHandle("Alice"))
	s.Require().NoError(err)
	s.True(banned)

	banned, err = s.service.IsEntryBanned(s.ctx, model.BanID(1))
	s.Require().NoError(err)
	s.False(banned)
}

// List tests

func (s *ServiceSuite) TestListKeepsInsertionOrderAndMixedTypes() {
	s.Require().NoError(s.service.Ban(s.ctx, model.BanHandle("zed")))
	s.Require().NoError(s.service.Ban(s.ctx, model.BanID(3)))
	s.Require().NoError(s.service.Ban(s.ctx, model.BanHandle("amy")))

	entries, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.BanEntry{
		model.BanHandle("zed"),
		model.BanID(3),
		model.BanHandle("amy"),
	}, entries)

	doc, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	raw, err := document.Encode(doc)
	s.Require().NoError(err)
	s.Contains(string(raw), `"blacklist": [
    "zed",
    3,
    "amy"
  ]`)
}

// Known users tests

func (s *ServiceSuite) TestRecordKnownLastWriteWins() {
	s.Require().NoError(s.service.RecordKnown(s.ctx, 1, "@Ann"))
	s.Require().NoError(s.service.RecordKnown(s.ctx, 2, "ann"))

	id, found, err := s.service.ResolveIdentityForHandle(s.ctx, "ANN")
	s.Require().NoError(err)
	s.True(found)
	s.Equal(model.Identity(2), id)

	doc, _ := s.store.Load(s.ctx)
	s.Equal(map[string]model.Identity{"ann": 2}, doc.KnownUsers)
}

func (s *ServiceSuite) TestRecordKnownIgnoresEmptyHandle() {
	writes := s.backend.Writes()

	s.Require().NoError(s.service.RecordKnown(s.ctx, 1, ""))
	s.Require().NoError(s.service.RecordKnown(s.ctx, 1, " @ "))

	s.Equal(writes, s.backend.Writes())
}

func (s *ServiceSuite) TestResolveUnknownHandle() {
	_, found, err := s.service.ResolveIdentityForHandle(s.ctx, "ghost")
	s.Require().NoError(err)
	s.False(found)
}

func (s *ServiceSuite) TestBanHandleResolvedBansKnownIdentity() {
	s.Require().NoError(s.service.RecordKnown(s.ctx, 77, "Trouble"))

	id, found, err := s.service.BanHandleResolved(s.ctx, "@trouble")
	s.Require().NoError(err)
	s.True(found)
	s.Equal(model.Identity(77), id)

	// still banned after changing handle
	s.True(s.banned(77, "new_name"))
	s.True(s.banned(1, "TROUBLE"))
}

func (s *ServiceSuite) TestBanHandleResolvedWithUnknownHandle() {
	_, found, err := s.service.BanHandleResolved(s.ctx, "stranger")
	s.Require().NoError(err)
	s.False(found)

	entries, _ := s.service.List(s.ctx)
	s.Equal([]model.BanEntry{model.BanHandle("stranger")}, entries)
}

func (s *ServiceSuite) TestBanHandleResolvedRejectsEmpty() {
	_, _, err := s.service.BanHandleResolved(s.ctx, "@")
	s.ErrorIs(err, model.ErrInvalidBanEntry)
}
