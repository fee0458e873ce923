package declaration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/stratosilva/ethiopia-thdf/internal/declaration"
	"github.com/stratosilva/ethiopia-thdf/internal/declaration/mocks"
	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
)

type AllocatorSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	registry *mocks.MockRegistry
}

func TestAllocatorSuite(t *testing.T) {
	suite.Run(t, new(AllocatorSuite))
}

func (s *AllocatorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.registry = mocks.NewMockRegistry(s.ctrl)
}

func (s *AllocatorSuite) TestNewTravelerGetsFourInOrder() {
	s.registry.EXPECT().
		ReserveIDs(gomock.Any(), 4).
		Return([]string{"a", "b", "c", "d"}, nil)

	ids, err := declaration.Allocate(context.Background(), s.registry,
		declaration.Resolution{Outcome: declaration.NewTraveler}, nil)
	s.Require().NoError(err)
	s.Equal(declaration.IdentitySet{
		Person:        "a",
		Enrollment:    "b",
		TravelEvent:   "c",
		ClinicalEvent: "d",
	}, ids)
}

func (s *AllocatorSuite) TestMatchedUnenrolledGetsThree() {
	s.registry.EXPECT().
		ReserveIDs(gomock.Any(), 3).
		Return([]string{"a", "b", "c"}, nil)

	ids, err := declaration.Allocate(context.Background(), s.registry,
		declaration.Resolution{Outcome: declaration.MatchedUnenrolled, TrackedEntity: "tei01"}, nil)
	s.Require().NoError(err)
	s.Equal(declaration.IdentitySet{
		Person:        "tei01",
		Enrollment:    "a",
		TravelEvent:   "b",
		ClinicalEvent: "c",
	}, ids)
}

func (s *AllocatorSuite) TestMatchedEnrolledGetsTwo() {
	s.registry.EXPECT().
		ReserveIDs(gomock.Any(), 2).
		Return([]string{"a", "b"}, nil)

	ids, err := declaration.Allocate(context.Background(), s.registry,
		declaration.Resolution{
			Outcome:       declaration.MatchedEnrolled,
			TrackedEntity: "tei01",
			Enrollment:    "enr01",
		}, nil)
	s.Require().NoError(err)
	s.Equal(declaration.IdentitySet{
		Person:        "tei01",
		Enrollment:    "enr01",
		TravelEvent:   "a",
		ClinicalEvent: "b",
	}, ids)
}

func (s *AllocatorSuite) TestEditOnlyFillsMissing() {
	s.registry.EXPECT().
		ReserveIDs(gomock.Any(), 1).
		Return([]string{"fresh"}, nil)

	ids, err := declaration.Allocate(context.Background(), s.registry,
		declaration.Resolution{}, &declaration.EditTarget{
			TrackedEntity: "tei01",
			Enrollment:    "enr01",
			TravelEvent:   "trv01",
		})
	s.Require().NoError(err)
	s.Equal(declaration.IdentitySet{
		Person:        "tei01",
		Enrollment:    "enr01",
		TravelEvent:   "trv01",
		ClinicalEvent: "fresh",
	}, ids)
}

func (s *AllocatorSuite) TestEditWithNothingMissingSkipsReservation() {
	ids, err := declaration.Allocate(context.Background(), s.registry,
		declaration.Resolution{}, &declaration.EditTarget{
			TrackedEntity: "tei01",
			Enrollment:    "enr01",
			TravelEvent:   "trv01",
			ClinicalEvent: "cln01",
		})
	s.Require().NoError(err)
	s.Equal("cln01", ids.ClinicalEvent)
}

func (s *AllocatorSuite) TestShortfallAborts() {
	s.registry.EXPECT().
		ReserveIDs(gomock.Any(), 4).
		Return([]string{"a", "b"}, nil)

	_, err := declaration.Allocate(context.Background(), s.registry,
		declaration.Resolution{Outcome: declaration.NewTraveler}, nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAllocationShortfall))
	s.Contains(err.Error(), "reserved 2 of 4")
}

func (s *AllocatorSuite) TestReserveErrorPropagates() {
	s.registry.EXPECT().
		ReserveIDs(gomock.Any(), 4).
		Return(nil, dErrors.New(dErrors.CodeRegistryUnavailable, "registry returned 502"))

	_, err := declaration.Allocate(context.Background(), s.registry,
		declaration.Resolution{Outcome: declaration.NewTraveler}, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeRegistryUnavailable))
}
