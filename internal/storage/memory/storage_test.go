package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/guestlist/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestReadBeforeWriteIsNotFound() {
	_, err := s.storage.ReadDocument(s.ctx)
	s.ErrorIs(err, model.ErrDocumentNotFound)
}

func (s *StorageSuite) TestWriteAndRead() {
	err := s.storage.WriteDocument(s.ctx, []byte(`{"max_slots":2}`))
	s.Require().NoError(err)

	data, err := s.storage.ReadDocument(s.ctx)
	s.Require().NoError(err)
	s.JSONEq(`{"max_slots":2}`, string(data))
	s.Equal(1, s.storage.Writes())
}

func (s *StorageSuite) TestReadReturnsCopy() {
	_ = s.storage.WriteDocument(s.ctx, []byte(`{}`))

	data, _ := s.storage.ReadDocument(s.ctx)
	data[0] = 'x'

	again, _ := s.storage.ReadDocument(s.ctx)
	s.Equal(`{}`, string(again))
}

func (s *StorageSuite) TestInjectedFailures() {
	boom := errors.New("boom")
	s.storage.FailWrites(boom)
	s.ErrorIs(s.storage.WriteDocument(s.ctx, []byte(`{}`)), boom)

	s.storage.FailReads(boom)
	_, err := s.storage.ReadDocument(s.ctx)
	s.ErrorIs(err, boom)

	s.storage.FailReads(nil)
	_, err = s.storage.ReadDocument(s.ctx)
	s.ErrorIs(err, model.ErrDocumentNotFound)
}
