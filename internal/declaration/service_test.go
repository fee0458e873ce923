package declaration_test

//go:generate mockgen -source=contracts.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/stratosilva/ethiopia-thdf/internal/declaration"
	"github.com/stratosilva/ethiopia-thdf/internal/declaration/mocks"
	"github.com/stratosilva/ethiopia-thdf/internal/dhis2"
	"github.com/stratosilva/ethiopia-thdf/internal/reference"
	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
	"github.com/stratosilva/ethiopia-thdf/pkg/platform/audit"
)

type ServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	registry *mocks.MockRegistry
	sessions *mocks.MockSessionStore
	metadata *mocks.MockMetadataLoader
	archiver *mocks.MockArchiver
	auditor  *mocks.MockAuditPublisher
	svc      *declaration.Service
	now      time.Time
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.registry = mocks.NewMockRegistry(s.ctrl)
	s.sessions = mocks.NewMockSessionStore(s.ctrl)
	s.metadata = mocks.NewMockMetadataLoader(s.ctrl)
	s.archiver = mocks.NewMockArchiver(s.ctrl)
	s.auditor = mocks.NewMockAuditPublisher(s.ctrl)
	s.now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	s.ctx = context.Background()

	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	s.svc = declaration.NewService(s.registry, s.sessions, s.metadata,
		declaration.WithArchiver(s.archiver),
		declaration.WithAuditPublisher(s.auditor),
		declaration.WithClock(func() time.Time { return s.now }),
	)
}

func (s *ServiceSuite) metadataFixture() *reference.Metadata {
	return &reference.Metadata{
		ClinicalQuestions: []reference.ClinicalQuestion{
			{ID: "feverQ", ValueType: "BOOLEAN", Compulsory: true},
		},
	}
}

func (s *ServiceSuite) completeSession() *declaration.Session {
	return &declaration.Session{
		ID:   "sess01",
		Step: declaration.StepSummary,
		Declaration: declaration.Declaration{
			Personal: declaration.Personal{
				FirstName:   "Abebe",
				LastName:    "Bikila",
				DateOfBirth: "1990-08-07",
				Sex:         "MALE",
				Phone:       "+251911223344",
				Nationality: "ET",
				Passport:    "EP1234567",
			},
			Travel: declaration.Travel{
				Purpose:          "TOURISM",
				Airline:          "ET",
				FlightNumber:     "501",
				SeatNumber:       "12A",
				DepartureCountry: "KE",
				ArrivalDate:      "2026-03-12",
			},
			Clinical: declaration.Clinical{Answers: map[string]declaration.Answer{
				"feverQ": {Kind: declaration.AnswerBoolean, Flag: false},
			}},
		},
		Generation: 3,
		CreatedAt:  s.now,
		UpdatedAt:  s.now,
	}
}

func (s *ServiceSuite) TestNewServicePanicsOnMissingDeps() {
	s.Panics(func() { declaration.NewService(nil, s.sessions, s.metadata) })
	s.Panics(func() { declaration.NewService(s.registry, nil, s.metadata) })
	s.Panics(func() { declaration.NewService(s.registry, s.sessions, nil) })
}

func (s *ServiceSuite) TestStartCreatesSessionAtPersonalStep() {
	var created *declaration.Session
	s.sessions.EXPECT().Create(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, sess *declaration.Session) error {
			created = sess
			return nil
		})

	session, err := s.svc.Start(s.ctx)
	s.Require().NoError(err)
	s.Equal(created, session)
	s.NotEmpty(session.ID)
	s.Equal(declaration.StepPersonal, session.Step)
	s.EqualValues(1, session.Generation)
	s.NotNil(session.Declaration.Clinical.Answers)
}

func (s *ServiceSuite) TestSavePersonalAdvancesAndBumpsGeneration() {
	session := &declaration.Session{ID: "sess01", Step: declaration.StepPersonal, Generation: 1}
	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(session, nil)
	s.sessions.EXPECT().Update(s.ctx, session).Return(nil)

	updated, err := s.svc.SavePersonal(s.ctx, "sess01", s.completeSession().Declaration.Personal)
	s.Require().NoError(err)
	s.Equal(declaration.StepTravel, updated.Step)
	s.EqualValues(2, updated.Generation)
}

func (s *ServiceSuite) TestSavePersonalValidationFailureCarriesFields() {
	session := &declaration.Session{ID: "sess01", Step: declaration.StepPersonal, Generation: 1}
	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(session, nil)

	_, err := s.svc.SavePersonal(s.ctx, "sess01", declaration.Personal{})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	var vErr *declaration.ValidationError
	s.Require().ErrorAs(err, &vErr)
	s.Contains(vErr.Fields, "firstName")
}

func (s *ServiceSuite) TestSaveTravelRequiresPersonalFirst() {
	session := &declaration.Session{ID: "sess01", Step: declaration.StepPersonal, Generation: 1}
	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(session, nil)

	_, err := s.svc.SaveTravel(s.ctx, "sess01", s.completeSession().Declaration.Travel)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
}

func (s *ServiceSuite) TestSaveClinicalReachesSummary() {
	session := s.completeSession()
	session.Step = declaration.StepClinical
	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(session, nil)
	s.metadata.EXPECT().Load(s.ctx).Return(s.metadataFixture(), nil)
	s.sessions.EXPECT().Update(s.ctx, session).Return(nil)

	updated, err := s.svc.SaveClinical(s.ctx, "sess01", session.Declaration.Clinical)
	s.Require().NoError(err)
	s.Equal(declaration.StepSummary, updated.Step)
}

func (s *ServiceSuite) TestEditingEarlierStepKeepsPosition() {
	session := s.completeSession()
	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(session, nil)
	s.sessions.EXPECT().Update(s.ctx, session).Return(nil)

	updated, err := s.svc.SavePersonal(s.ctx, "sess01", session.Declaration.Personal)
	s.Require().NoError(err)
	s.Equal(declaration.StepSummary, updated.Step)
	s.EqualValues(4, updated.Generation)
}

func (s *ServiceSuite) TestBackReopensPreviousStep() {
	session := s.completeSession()
	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(session, nil)
	s.sessions.EXPECT().Update(s.ctx, session).Return(nil)

	updated, err := s.svc.Back(s.ctx, "sess01")
	s.Require().NoError(err)
	s.Equal(declaration.StepClinical, updated.Step)
}

func (s *ServiceSuite) TestBackAtPersonalIsNoOp() {
	session := &declaration.Session{ID: "sess01", Step: declaration.StepPersonal, Generation: 1}
	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(session, nil)

	updated, err := s.svc.Back(s.ctx, "sess01")
	s.Require().NoError(err)
	s.EqualValues(1, updated.Generation)
}

func (s *ServiceSuite) TestCancelDeletes() {
	s.sessions.EXPECT().Delete(s.ctx, "sess01").Return(nil)
	s.NoError(s.svc.Cancel(s.ctx, "sess01"))
}

func (s *ServiceSuite) TestSubmitNewTraveler() {
	session := s.completeSession()
	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(session, nil)
	s.metadata.EXPECT().Load(s.ctx).Return(s.metadataFixture(), nil)

	// Dedup misses everywhere.
	s.registry.EXPECT().Search(gomock.Any(), gomock.Any(), false).Return(nil, nil).Times(3)
	s.registry.EXPECT().ReserveIDs(gomock.Any(), 4).
		Return([]string{"TeiNew0001", "EnrNew0001", "TrvNew0001", "ClnNew0001"}, nil)

	var upserted dhis2.TrackerPayload
	s.registry.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p dhis2.TrackerPayload) error {
			upserted = p
			return nil
		})
	s.registry.EXPECT().Enrollment(gomock.Any(), "EnrNew0001").
		Return(&dhis2.Enrollment{Events: []dhis2.Event{{
			ProgramStage: dhis2.ClinicalStageID,
			DataValues:   []dhis2.DataValue{{DataElement: dhis2.ElemClassification, Value: "YELLOW"}},
		}}}, nil)

	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(session, nil)
	s.sessions.EXPECT().Update(s.ctx, session).Return(nil)

	var archived declaration.ArchiveEntry
	s.archiver.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e declaration.ArchiveEntry) error {
			archived = e
			return nil
		})

	result, err := s.svc.Submit(s.ctx, "sess01", true)
	s.Require().NoError(err)

	s.Equal(declaration.StepComplete, result.Step)
	s.Require().NotNil(result.Result)
	s.Equal("TeiNew0001-EnrNew0001-ClnNew0001", result.Result.Token)
	s.Equal("YELLOW", result.Result.Classification)
	s.Contains(result.Result.QRURL, "api.qrserver.com")

	s.Require().Len(upserted.TrackedEntities, 1)
	s.Equal("TeiNew0001", upserted.TrackedEntities[0].TrackedEntity)

	s.Equal(declaration.NewTraveler, archived.Outcome)
	s.Equal("EP1234567", archived.Passport)
}

func (s *ServiceSuite) TestSubmitMatchedEnrolledReusesRecords() {
	session := s.completeSession()
	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(session, nil).Times(2)
	s.metadata.EXPECT().Load(s.ctx).Return(s.metadataFixture(), nil)

	s.registry.EXPECT().Search(gomock.Any(), gomock.Any(), false).
		Return([]dhis2.TrackedEntity{{
			TrackedEntity: "TeiOld0001",
			Enrollments:   []dhis2.Enrollment{{Enrollment: "EnrOld0001", EnrolledAt: "2025-11-01"}},
		}}, nil)
	s.registry.EXPECT().ReserveIDs(gomock.Any(), 2).
		Return([]string{"TrvNew0001", "ClnNew0001"}, nil)

	var upserted dhis2.TrackerPayload
	s.registry.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p dhis2.TrackerPayload) error {
			upserted = p
			return nil
		})
	s.registry.EXPECT().Enrollment(gomock.Any(), "EnrOld0001").
		Return(&dhis2.Enrollment{}, nil)

	s.sessions.EXPECT().Update(s.ctx, session).Return(nil)
	s.archiver.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

	result, err := s.svc.Submit(s.ctx, "sess01", true)
	s.Require().NoError(err)
	s.Equal("TeiOld0001-EnrOld0001-ClnNew0001", result.Result.Token)
	s.Equal(declaration.DefaultClassification, result.Result.Classification)
	s.Equal("2025-11-01", upserted.TrackedEntities[0].Enrollments[0].EnrolledAt)
}

func (s *ServiceSuite) TestSubmitShortfallAborts() {
	session := s.completeSession()
	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(session, nil)
	s.metadata.EXPECT().Load(s.ctx).Return(s.metadataFixture(), nil)
	s.registry.EXPECT().Search(gomock.Any(), gomock.Any(), false).Return(nil, nil).Times(3)
	s.registry.EXPECT().ReserveIDs(gomock.Any(), 4).Return([]string{"one"}, nil)

	_, err := s.svc.Submit(s.ctx, "sess01", true)
	s.True(dErrors.HasCode(err, dErrors.CodeAllocationShortfall))
}

func (s *ServiceSuite) TestSubmitStaleGuardDiscardsResult() {
	session := s.completeSession()
	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(session, nil)
	s.metadata.EXPECT().Load(s.ctx).Return(s.metadataFixture(), nil)
	s.registry.EXPECT().Search(gomock.Any(), gomock.Any(), false).Return(nil, nil).Times(3)
	s.registry.EXPECT().ReserveIDs(gomock.Any(), 4).
		Return([]string{"a", "b", "c", "d"}, nil)
	s.registry.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	s.registry.EXPECT().Enrollment(gomock.Any(), "b").Return(&dhis2.Enrollment{}, nil)

	// Session was edited while the registry calls were in flight.
	edited := s.completeSession()
	edited.Generation = session.Generation + 1
	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(edited, nil)

	_, err := s.svc.Submit(s.ctx, "sess01", true)
	s.True(dErrors.HasCode(err, dErrors.CodeStaleSession))
}

func (s *ServiceSuite) TestSubmitWithoutConsentRefused() {
	session := s.completeSession()
	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(session, nil)

	// No registry or metadata call may happen before consent is checked.
	_, err := s.svc.Submit(s.ctx, "sess01", false)
	s.True(dErrors.HasCode(err, dErrors.CodeMissingConsent))
	s.Equal(declaration.StepSummary, session.Step)
}

func (s *ServiceSuite) TestSubmitRejectsIncompleteSession() {
	session := s.completeSession()
	session.Step = declaration.StepClinical
	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(session, nil)

	_, err := s.svc.Submit(s.ctx, "sess01", true)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
}

func (s *ServiceSuite) TestSubmitEditUpdatesInPlace() {
	session := s.completeSession()
	session.Editing = &declaration.EditTarget{
		TrackedEntity: "TeiOld0001",
		Enrollment:    "EnrOld0001",
		TravelEvent:   "TrvOld0001",
		ClinicalEvent: "ClnOld0001",
	}
	s.sessions.EXPECT().Get(s.ctx, "sess01").Return(session, nil).Times(2)
	s.metadata.EXPECT().Load(s.ctx).Return(s.metadataFixture(), nil)

	// No dedup search and no reservation when everything already exists.
	s.registry.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	s.registry.EXPECT().Enrollment(gomock.Any(), "EnrOld0001").Return(&dhis2.Enrollment{}, nil)

	s.sessions.EXPECT().Update(s.ctx, session).Return(nil)
	s.archiver.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

	result, err := s.svc.Submit(s.ctx, "sess01", true)
	s.Require().NoError(err)
	s.Equal("TeiOld0001-EnrOld0001-ClnOld0001", result.Result.Token)
}

func (s *ServiceSuite) TestLookupBuildsEditSession() {
	entity := &dhis2.TrackedEntity{
		Attributes: []dhis2.Attribute{
			{Attribute: dhis2.AttrFirstName, Value: "Abebe"},
			{Attribute: dhis2.AttrLastName, Value: "Bikila"},
			{Attribute: dhis2.AttrPassport, Value: "EP1234567"},
		},
		Enrollments: []dhis2.Enrollment{{
			Enrollment: "EnrOld0001",
			Events: []dhis2.Event{{
				Event:        "TrvOld0001",
				ProgramStage: dhis2.TravelStageID,
				OccurredAt:   "2026-03-12T00:00:00.000",
				DataValues: []dhis2.DataValue{
					{DataElement: dhis2.ElemAirlineAndFlight, Value: "ET501"},
				},
			}},
		}},
	}
	s.registry.EXPECT().TrackedEntity(s.ctx, "TeiOld0001").Return(entity, nil)
	s.metadata.EXPECT().Load(s.ctx).Return(s.metadataFixture(), nil)
	s.sessions.EXPECT().Create(s.ctx, gomock.Any()).Return(nil)

	session, err := s.svc.Lookup(s.ctx, "TeiOld0001-EnrOld0001-ClnOld0001")
	s.Require().NoError(err)
	s.Equal(declaration.StepSummary, session.Step)
	s.Require().NotNil(session.Editing)
	s.Equal("TeiOld0001", session.Editing.TrackedEntity)
	s.Equal("ET", session.Declaration.Travel.Airline)
}

func (s *ServiceSuite) TestLookupRejectsMalformedToken() {
	_, err := s.svc.Lookup(s.ctx, "not a token")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestLookupByPassportSearchesOnce() {
	s.registry.EXPECT().
		Search(s.ctx, []string{"kDWurLVuVZw:eq:EP1234567"}, false).
		Return([]dhis2.TrackedEntity{
			{TrackedEntity: "TeiOld0001"},
			{TrackedEntity: "TeiOld0002"},
		}, nil)
	s.registry.EXPECT().TrackedEntity(s.ctx, "TeiOld0001").
		Return(&dhis2.TrackedEntity{
			Attributes: []dhis2.Attribute{
				{Attribute: dhis2.AttrPassport, Value: "EP1234567"},
			},
			Enrollments: []dhis2.Enrollment{{Enrollment: "EnrOld0001"}},
		}, nil)
	s.metadata.EXPECT().Load(s.ctx).Return(s.metadataFixture(), nil)
	s.sessions.EXPECT().Create(s.ctx, gomock.Any()).Return(nil)

	session, err := s.svc.LookupByPassport(s.ctx, "EP1234567")
	s.Require().NoError(err)
	s.Equal(declaration.StepSummary, session.Step)
	s.Require().NotNil(session.Editing)
	s.Equal("TeiOld0001", session.Editing.TrackedEntity)
	s.Equal("EnrOld0001", session.Editing.Enrollment)
	s.Equal("EP1234567", session.Declaration.Personal.Passport)
}

func (s *ServiceSuite) TestLookupByPassportNoMatch() {
	s.registry.EXPECT().Search(s.ctx, gomock.Any(), false).Return(nil, nil)

	_, err := s.svc.LookupByPassport(s.ctx, "EP0000000")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestVerifyReturnsLatestClassification() {
	s.registry.EXPECT().
		Search(s.ctx, []string{"vUacdogzWI6:ilike:Bikila", "kDWurLVuVZw:ilike:EP1234567"}, true).
		Return([]dhis2.TrackedEntity{{
			TrackedEntity: "TeiOld0001",
			Attributes: []dhis2.Attribute{
				{Attribute: dhis2.AttrFirstName, Value: "Abebe"},
				{Attribute: dhis2.AttrLastName, Value: "Bikila"},
				{Attribute: dhis2.AttrPassport, Value: "EP1234567"},
			},
		}}, nil)
	s.registry.EXPECT().TrackedEntity(s.ctx, "TeiOld0001").
		Return(&dhis2.TrackedEntity{Enrollments: []dhis2.Enrollment{{
			Events: []dhis2.Event{
				{
					ProgramStage: dhis2.ClinicalStageID,
					OccurredAt:   "2026-01-02T00:00:00.000",
					DataValues:   []dhis2.DataValue{{DataElement: dhis2.ElemClassification, Value: "RED"}},
				},
				{
					ProgramStage: dhis2.ClinicalStageID,
					OccurredAt:   "2026-03-09T00:00:00.000",
					DataValues:   []dhis2.DataValue{{DataElement: dhis2.ElemClassification, Value: "GREEN"}},
				},
			},
		}}}, nil)

	result, err := s.svc.Verify(s.ctx, "Bikila", "EP1234567")
	s.Require().NoError(err)
	s.Equal("GREEN", result.Classification)
	s.Equal("Abebe", result.FirstName)
}

func (s *ServiceSuite) TestVerifyNoMatch() {
	s.registry.EXPECT().Search(s.ctx, gomock.Any(), true).Return(nil, nil)

	_, err := s.svc.Verify(s.ctx, "Bikila", "EP0000000")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestVerifyRequiresBothFields() {
	_, err := s.svc.Verify(s.ctx, "", "EP1234567")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestAuditEventsCarryAction() {
	var events []audit.Event
	auditor := mocks.NewMockAuditPublisher(s.ctrl)
	auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e audit.Event) error {
			events = append(events, e)
			return nil
		}).AnyTimes()

	svc := declaration.NewService(s.registry, s.sessions, s.metadata,
		declaration.WithAuditPublisher(auditor),
		declaration.WithClock(func() time.Time { return s.now }),
	)

	s.sessions.EXPECT().Create(s.ctx, gomock.Any()).Return(nil)
	_, err := svc.Start(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(events, 1)
	s.Equal(audit.ActionDeclarationStarted, events[0].Action)
	s.Equal(s.now, events[0].Timestamp)
}
