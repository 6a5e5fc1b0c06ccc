package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/guestlist/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.LockTTL = time.Minute

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestReadMissingIsNotFound() {
	_, err := s.storage.ReadDocument(s.ctx)
	s.ErrorIs(err, model.ErrDocumentNotFound)
}

func (s *StorageSuite) TestWriteAndRead() {
	err := s.storage.WriteDocument(s.ctx, []byte(`{"max_slots":5}`))
	s.Require().NoError(err)

	data, err := s.storage.ReadDocument(s.ctx)
	s.Require().NoError(err)
	s.Equal(`{"max_slots":5}`, string(data))
}

func (s *StorageSuite) TestDocumentHasNoTTL() {
	_ = s.storage.WriteDocument(s.ctx, []byte(`{}`))

	ttl := s.mini.TTL(DefaultConfig().Key)
	s.Equal(time.Duration(0), ttl, "Document should not have TTL")
}

func (s *StorageSuite) TestLockIsExclusive() {
	unlock, err := s.storage.Lock(s.ctx)
	s.Require().NoError(err)
	s.True(s.mini.Exists(s.storage.lockKey()))

	ctx, cancel := context.WithTimeout(s.ctx, 100*time.Millisecond)
	defer cancel()
	_, err = s.storage.Lock(ctx)
	s.Error(err, "second lock should time out while the first is held")

	s.Require().NoError(unlock())
	s.False(s.mini.Exists(s.storage.lockKey()))

	unlock, err = s.storage.Lock(s.ctx)
	s.Require().NoError(err)
	s.NoError(unlock())
}

func (s *StorageSuite) TestLockHasTTL() {
	unlock, err := s.storage.Lock(s.ctx)
	s.Require().NoError(err)
	defer unlock()

	ttl := s.mini.TTL(s.storage.lockKey())
	s.True(ttl > 0, "Lock should expire if the holder dies")
}

func (s *StorageSuite) TestUnlockDoesNotReleaseForeignLock() {
	unlock, err := s.storage.Lock(s.ctx)
	s.Require().NoError(err)

	// Simulate the lease expiring and another process taking it
	s.Require().NoError(s.mini.Set(s.storage.lockKey(), "someone-else"))

	s.Require().NoError(unlock())
	got, err := s.mini.Get(s.storage.lockKey())
	s.Require().NoError(err)
	s.Equal("someone-else", got)
}
