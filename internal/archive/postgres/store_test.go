//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/stratosilva/ethiopia-thdf/internal/declaration"
	"github.com/stratosilva/ethiopia-thdf/internal/sentinel"
	"github.com/stratosilva/ethiopia-thdf/pkg/testutil/containers"
)

type ArchiveStoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func TestArchiveStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ArchiveStoreSuite))
}

func (s *ArchiveStoreSuite) SetupSuite() {
	pc := containers.GetManager().GetPostgres(s.T())
	s.store = New(pc.DB)
	s.ctx = context.Background()
}

func (s *ArchiveStoreSuite) SetupTest() {
	pc := containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(pc.TruncateTables(s.ctx, "submissions"))
}

func (s *ArchiveStoreSuite) entry(token, passport string, at time.Time) declaration.ArchiveEntry {
	return declaration.ArchiveEntry{
		SessionID:      "sess-1",
		Token:          token,
		Classification: "GREEN",
		Outcome:        declaration.NewTraveler,
		Passport:       passport,
		SubmittedAt:    at,
	}
}

func (s *ArchiveStoreSuite) TestRecordAndFindByToken() {
	at := time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.Record(s.ctx, s.entry("Tei00000001-Enr00000001-Evt00000001", "EP1234567", at)))

	got, err := s.store.FindByToken(s.ctx, "Tei00000001-Enr00000001-Evt00000001")
	s.Require().NoError(err)
	s.Equal("sess-1", got.SessionID)
	s.Equal("GREEN", got.Classification)
	s.Equal(declaration.NewTraveler, got.Outcome)
	s.Equal("EP1234567", got.Passport)
	s.WithinDuration(at, got.SubmittedAt, time.Second)
}

func (s *ArchiveStoreSuite) TestFindByTokenReturnsNewest() {
	base := time.Now().UTC().Truncate(time.Microsecond)

	first := s.entry("Tei00000001-Enr00000001-Evt00000001", "EP1234567", base)
	second := first
	second.SubmittedAt = base.Add(time.Hour)
	second.Classification = "YELLOW"
	second.Outcome = declaration.MatchedEnrolled

	s.Require().NoError(s.store.Record(s.ctx, first))
	s.Require().NoError(s.store.Record(s.ctx, second))

	got, err := s.store.FindByToken(s.ctx, first.Token)
	s.Require().NoError(err)
	s.Equal("YELLOW", got.Classification)
	s.Equal(declaration.MatchedEnrolled, got.Outcome)
}

func (s *ArchiveStoreSuite) TestFindUnknownTokenNotFound() {
	_, err := s.store.FindByToken(s.ctx, "Tei00000009-Enr00000009-Evt00000009")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ArchiveStoreSuite) TestListByPassportNewestFirst() {
	base := time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.Record(s.ctx, s.entry("Tei00000001-Enr00000001-Evt00000001", "EP1234567", base)))
	s.Require().NoError(s.store.Record(s.ctx, s.entry("Tei00000002-Enr00000002-Evt00000002", "EP1234567", base.Add(time.Minute))))
	s.Require().NoError(s.store.Record(s.ctx, s.entry("Tei00000003-Enr00000003-Evt00000003", "EP7654321", base)))

	entries, err := s.store.ListByPassport(s.ctx, "EP1234567")
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("Tei00000002-Enr00000002-Evt00000002", entries[0].Token)
	s.Equal("Tei00000001-Enr00000001-Evt00000001", entries[1].Token)
}

func (s *ArchiveStoreSuite) TestListUnknownPassportIsEmpty() {
	entries, err := s.store.ListByPassport(s.ctx, "EP0000000")
	s.Require().NoError(err)
	s.Empty(entries)
}
