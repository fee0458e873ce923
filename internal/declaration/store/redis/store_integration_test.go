//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/stratosilva/ethiopia-thdf/internal/declaration"
	"github.com/stratosilva/ethiopia-thdf/internal/sentinel"
	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
	"github.com/stratosilva/ethiopia-thdf/pkg/testutil"
	"github.com/stratosilva/ethiopia-thdf/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	rc := containers.GetManager().GetRedis(s.T())
	s.store = New(rc.NewClient(), 2*time.Hour)
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) SetupTest() {
	rc := containers.GetManager().GetRedis(s.T())
	s.Require().NoError(rc.Flush(s.ctx))
}

func (s *RedisStoreSuite) session(id string) *declaration.Session {
	return &declaration.Session{
		ID:         id,
		Step:       declaration.StepTravel,
		Generation: 2,
		Declaration: declaration.Declaration{
			Personal: testutil.NewDeclaration().Personal(),
			Clinical: declaration.Clinical{Answers: map[string]declaration.Answer{
				"feverQ": {Kind: declaration.AnswerBoolean, Flag: true},
			}},
		},
	}
}

func (s *RedisStoreSuite) TestRoundTrip() {
	s.Require().NoError(s.store.Create(s.ctx, s.session("a")))

	got, err := s.store.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal("a", got.ID)
	s.Equal(declaration.StepTravel, got.Step)
	s.Equal("Abebe", got.Declaration.Personal.FirstName)
	s.Equal(declaration.Answer{Kind: declaration.AnswerBoolean, Flag: true},
		got.Declaration.Clinical.Answers["feverQ"])
}

func (s *RedisStoreSuite) TestCreateDuplicateConflicts() {
	s.Require().NoError(s.store.Create(s.ctx, s.session("a")))
	err := s.store.Create(s.ctx, s.session("a"))
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *RedisStoreSuite) TestUpdateUnknownNotFound() {
	s.ErrorIs(s.store.Update(s.ctx, s.session("missing")), sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestDelete() {
	s.Require().NoError(s.store.Create(s.ctx, s.session("a")))
	s.Require().NoError(s.store.Delete(s.ctx, "a"))

	_, err := s.store.Get(s.ctx, "a")
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, "a"), sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestExpiry() {
	short := New(s.store.client, 200*time.Millisecond)
	s.Require().NoError(short.Create(s.ctx, s.session("brief")))

	time.Sleep(400 * time.Millisecond)
	_, err := short.Get(s.ctx, "brief")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestConcurrentCreateSingleWinner() {
	result := testutil.RunConcurrent(10, func(int) error {
		return s.store.Create(s.ctx, s.session("contended"))
	})
	s.EqualValues(1, result.Successes)
	s.EqualValues(9, result.Conflicts)
}

func (s *RedisStoreSuite) TestManySessionsIsolated() {
	for i := 0; i < 5; i++ {
		sess := s.session(fmt.Sprintf("sess-%d", i))
		sess.Generation = int64(i)
		s.Require().NoError(s.store.Create(s.ctx, sess))
	}
	for i := 0; i < 5; i++ {
		got, err := s.store.Get(s.ctx, fmt.Sprintf("sess-%d", i))
		s.Require().NoError(err)
		s.EqualValues(i, got.Generation)
	}
}
