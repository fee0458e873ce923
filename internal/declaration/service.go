package declaration

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stratosilva/ethiopia-thdf/internal/dhis2"
	"github.com/stratosilva/ethiopia-thdf/internal/dhis2/tracer"
	"github.com/stratosilva/ethiopia-thdf/internal/platform/metrics"
	"github.com/stratosilva/ethiopia-thdf/internal/platform/middleware"
	"github.com/stratosilva/ethiopia-thdf/internal/reference"
	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
	"github.com/stratosilva/ethiopia-thdf/pkg/platform/audit"
)

// Service orchestrates the declaration workflow: session lifecycle, step
// validation, dedup, identifier allocation, submission and verification.
type Service struct {
	registry Registry
	sessions SessionStore
	metadata MetadataLoader
	archiver Archiver
	auditor  AuditPublisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
	clock    Clock
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithArchiver records submissions in the archive.
func WithArchiver(a Archiver) ServiceOption {
	return func(s *Service) { s.archiver = a }
}

// WithAuditPublisher emits audit events for workflow actions.
func WithAuditPublisher(p AuditPublisher) ServiceOption {
	return func(s *Service) { s.auditor = p }
}

// WithMetrics enables workflow metrics.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets a structured logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the time source.
func WithClock(c Clock) ServiceOption {
	return func(s *Service) { s.clock = c }
}

// NewService creates the workflow service. Registry, session store and
// metadata loader are required.
func NewService(registry Registry, sessions SessionStore, metadata MetadataLoader, opts ...ServiceOption) *Service {
	if registry == nil {
		panic("declaration: registry is required")
	}
	if sessions == nil {
		panic("declaration: session store is required")
	}
	if metadata == nil {
		panic("declaration: metadata loader is required")
	}
	s := &Service{
		registry: registry,
		sessions: sessions,
		metadata: metadata,
		logger:   slog.Default(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens a fresh declaration session at the personal step.
func (s *Service) Start(ctx context.Context) (*Session, error) {
	now := s.clock()
	session := &Session{
		ID:          uuid.NewString(),
		Declaration: Declaration{Clinical: Clinical{Answers: map[string]Answer{}}},
		Step:        StepPersonal,
		Generation:  1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementDeclarationsStarted()
		s.metrics.IncrementActiveSessions(1)
	}
	s.emit(ctx, audit.ActionDeclarationStarted, session.ID, "", "ok", "")
	return session, nil
}

// Get returns the current state of a session.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.sessions.Get(ctx, id)
}

// SavePersonal validates and stores the identity step. On first save the
// wizard advances to the travel step; later saves keep the current step so a
// traveler can revise earlier answers.
func (s *Service) SavePersonal(ctx context.Context, id string, p Personal) (*Session, error) {
	session, err := s.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidatePersonal(p, s.clock()); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "personal details invalid")
	}

	session.Declaration.Personal = p
	if session.Step == StepPersonal {
		session.Step = StepTravel
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.emit(ctx, audit.ActionStepSaved, session.ID, "", StepPersonal.String(), "")
	return session, nil
}

// SaveTravel validates and stores the journey step.
func (s *Service) SaveTravel(ctx context.Context, id string, t Travel) (*Session, error) {
	session, err := s.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Step < StepTravel {
		return nil, dErrors.New(dErrors.CodeInvalidState, "complete the personal step first")
	}
	if err := ValidateTravel(t, s.clock()); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "travel details invalid")
	}

	session.Declaration.Travel = t
	if session.Step == StepTravel {
		session.Step = StepClinical
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.emit(ctx, audit.ActionStepSaved, session.ID, "", StepTravel.String(), "")
	return session, nil
}

// SaveClinical validates and stores the screening step. Completing it puts
// the session at the summary step, ready to submit.
func (s *Service) SaveClinical(ctx context.Context, id string, c Clinical) (*Session, error) {
	session, err := s.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Step < StepClinical {
		return nil, dErrors.New(dErrors.CodeInvalidState, "complete the travel step first")
	}

	meta, err := s.metadata.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateClinical(c, meta.ClinicalQuestions); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "clinical answers invalid")
	}

	session.Declaration.Clinical = c
	if session.Step == StepClinical {
		session.Step = StepSummary
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.emit(ctx, audit.ActionStepSaved, session.ID, "", StepClinical.String(), "")
	return session, nil
}

// Back reopens the previous step. At the personal step it is a no-op.
func (s *Service) Back(ctx context.Context, id string) (*Session, error) {
	session, err := s.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Step == StepPersonal {
		return session, nil
	}

	session.Step--
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.emit(ctx, audit.ActionStepReopened, session.ID, "", session.Step.String(), "")
	return session, nil
}

// Cancel discards a session.
func (s *Service) Cancel(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncrementDeclarationsCancelled()
		s.metrics.DecrementActiveSessions(1)
	}
	s.emit(ctx, audit.ActionDeclarationCancelled, id, "", "ok", "")
	return nil
}

// Submit resolves the traveler, allocates identifiers, writes the tracker
// payload and reads back the classification. The traveler must have given an
// affirmative consent and the whole declaration is revalidated first. If the
// session changed while the registry calls were in flight the result is
// discarded and the caller must retry.
func (s *Service) Submit(ctx context.Context, id string, consent bool) (*Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Step == StepComplete {
		return nil, dErrors.New(dErrors.CodeInvalidState, "declaration already submitted")
	}
	if session.Step != StepSummary {
		return nil, dErrors.New(dErrors.CodeInvalidState, "declaration is not complete")
	}
	if !consent {
		return nil, dErrors.New(dErrors.CodeMissingConsent, "declaration requires the traveler's consent")
	}

	meta, err := s.metadata.Load(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	if err := s.revalidate(session.Declaration, meta.ClinicalQuestions, now); err != nil {
		return nil, err
	}

	generation := session.Generation
	d := session.Declaration
	start := now

	res, err := s.resolve(ctx, session)
	if err != nil {
		s.failSubmission(ctx, session.ID, err)
		return nil, err
	}
	if s.metrics != nil && session.Editing == nil {
		s.metrics.IncrementResolutionOutcome(string(res.Outcome))
	}

	ids, err := Allocate(ctx, s.registry, res, session.Editing)
	if err != nil {
		s.failSubmission(ctx, session.ID, err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.AddIdentifiersReserved(identifiersNeeded(res, session.Editing))
	}

	if err := s.registry.Upsert(ctx, Assemble(d, ids, res, now)); err != nil {
		s.failSubmission(ctx, session.ID, err)
		return nil, err
	}

	classification := s.classification(ctx, ids.Enrollment)
	token := EncodeToken(ids.Person, ids.Enrollment, ids.ClinicalEvent)
	submission := &Submission{
		Token:          token,
		Classification: classification,
		QRURL:          QRCodeURL(token, classification, d.Personal),
		SubmittedAt:    s.clock(),
	}

	// The registry calls above can be slow. If the session was edited or
	// reset meanwhile, the assembled payload no longer reflects it.
	fresh, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStaleSession, "session gone during submission")
	}
	if fresh.Generation != generation {
		return nil, dErrors.New(dErrors.CodeStaleSession, "declaration changed during submission")
	}

	fresh.Result = submission
	fresh.Step = StepComplete
	fresh.UpdatedAt = s.clock()
	if err := s.sessions.Update(ctx, fresh); err != nil {
		return nil, err
	}

	s.archive(ctx, ArchiveEntry{
		SessionID:      fresh.ID,
		Token:          token,
		Classification: classification,
		Outcome:        res.Outcome,
		Passport:       d.Personal.Passport,
		SubmittedAt:    submission.SubmittedAt,
	})

	if s.metrics != nil {
		s.metrics.IncrementSubmissions(string(res.Outcome))
		s.metrics.ObserveSubmissionLatency(s.clock().Sub(start).Seconds())
		s.metrics.DecrementActiveSessions(1)
	}
	s.emit(ctx, audit.ActionDeclarationSubmitted, fresh.ID,
		tracer.HashPassport(d.Personal.Passport), string(res.Outcome), "")

	s.logger.InfoContext(ctx, "declaration submitted",
		"session_id", fresh.ID,
		"outcome", res.Outcome,
		"classification", classification,
	)
	return fresh, nil
}

// Lookup opens an edit session from a declaration token. The registry record
// is decoded back into wizard state and the session is pinned to the existing
// identifiers so submitting updates them in place.
func (s *Service) Lookup(ctx context.Context, rawToken string) (*Session, error) {
	token, err := DecodeToken(rawToken)
	if err != nil {
		return nil, err
	}
	return s.openEdit(ctx, token.TrackedEntity)
}

// LookupByPassport opens an edit session for a traveler who lost their token.
// A single exact-match search finds the person record; no match is a plain
// not-found, never an error page.
func (s *Service) LookupByPassport(ctx context.Context, passport string) (*Session, error) {
	instances, err := s.registry.Search(ctx,
		[]string{dhis2.Filter(dhis2.AttrPassport, "eq", passport)}, false)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no declaration on record for this passport")
	}
	return s.openEdit(ctx, instances[0].TrackedEntity)
}

// openEdit fetches the full person record and rebuilds a wizard session
// pinned to its existing identifiers.
func (s *Service) openEdit(ctx context.Context, uid string) (*Session, error) {
	entity, err := s.registry.TrackedEntity(ctx, uid)
	if err != nil {
		return nil, err
	}
	meta, err := s.metadata.Load(ctx)
	if err != nil {
		return nil, err
	}

	d, target, err := DecodeEntity(uid, entity, meta)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	session := &Session{
		ID:          uuid.NewString(),
		Declaration: d,
		Step:        StepSummary,
		Generation:  1,
		Editing:     &target,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementActiveSessions(1)
	}
	s.emit(ctx, audit.ActionDeclarationLookedUp, session.ID,
		tracer.HashPassport(d.Personal.Passport), "ok", "")
	return session, nil
}

// VerificationResult is what a border officer sees when checking a traveler.
type VerificationResult struct {
	FirstName      string    `json:"firstName"`
	MiddleName     string    `json:"middleName,omitempty"`
	LastName       string    `json:"lastName"`
	Passport       string    `json:"passport"`
	Classification string    `json:"classification"`
	CheckedAt      time.Time `json:"checkedAt"`
}

// Verify looks up a traveler's latest classification by last name and
// passport. Both filters are joint, so partial matches on one attribute alone
// never surface another traveler's record.
func (s *Service) Verify(ctx context.Context, lastName, passport string) (*VerificationResult, error) {
	fields := make(map[string]string)
	if lastName == "" {
		fields["lastName"] = "Last name is required."
	}
	if passport == "" {
		fields["passport"] = "Passport number is required."
	}
	if len(fields) > 0 {
		return nil, dErrors.Wrap(&ValidationError{Fields: fields},
			dErrors.CodeValidation, "verification request invalid")
	}

	filters := []string{
		dhis2.Filter(dhis2.AttrLastName, "ilike", lastName),
		dhis2.Filter(dhis2.AttrPassport, "ilike", passport),
	}
	instances, err := s.registry.Search(ctx, filters, true)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		if s.metrics != nil {
			s.metrics.IncrementVerifications("no_match")
		}
		s.emit(ctx, audit.ActionVerificationChecked, "",
			tracer.HashPassport(passport), "no_match", "")
		return nil, dErrors.New(dErrors.CodeNotFound, "no declaration on record")
	}
	match := instances[0]

	// The search response has no events; pull the full record for the
	// clinical history.
	full, err := s.registry.TrackedEntity(ctx, match.TrackedEntity)
	if err != nil {
		return nil, err
	}

	attrs := match.AttributeMap()
	result := &VerificationResult{
		FirstName:      attrs[dhis2.AttrFirstName],
		MiddleName:     attrs[dhis2.AttrMiddleName],
		LastName:       attrs[dhis2.AttrLastName],
		Passport:       attrs[dhis2.AttrPassport],
		Classification: latestClassification(full),
		CheckedAt:      s.clock(),
	}

	if s.metrics != nil {
		s.metrics.IncrementVerifications("match")
	}
	s.emit(ctx, audit.ActionVerificationChecked, "",
		tracer.HashPassport(passport), result.Classification, "")
	return result, nil
}

// editable loads a session that can still be modified.
func (s *Service) editable(ctx context.Context, id string) (*Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Step == StepComplete {
		return nil, dErrors.New(dErrors.CodeInvalidState, "declaration already submitted")
	}
	return session, nil
}

// save bumps the generation and persists the session. Any in-flight submit
// started against the previous generation will discard its result.
func (s *Service) save(ctx context.Context, session *Session) error {
	session.Generation++
	session.UpdatedAt = s.clock()
	return s.sessions.Update(ctx, session)
}

func (s *Service) resolve(ctx context.Context, session *Session) (Resolution, error) {
	if session.Editing != nil {
		return Resolution{
			Outcome:       MatchedEnrolled,
			TrackedEntity: session.Editing.TrackedEntity,
			Enrollment:    session.Editing.Enrollment,
		}, nil
	}
	return Resolve(ctx, s.registry, session.Declaration.Personal)
}

// revalidate checks the full declaration right before submission. Step saves
// already validated each group, but metadata may have changed since.
func (s *Service) revalidate(d Declaration, questions []reference.ClinicalQuestion, now time.Time) error {
	if err := ValidatePersonal(d.Personal, now); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "personal details invalid")
	}
	if err := ValidateTravel(d.Travel, now); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "travel details invalid")
	}
	if err := ValidateClinical(d.Clinical, questions); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "clinical answers invalid")
	}
	return nil
}

// classification reads back the health flag the registry's program rules
// assigned. A read-back failure downgrades to the default, it never fails a
// submission that already went through.
func (s *Service) classification(ctx context.Context, enrollmentID string) string {
	enrollment, err := s.registry.Enrollment(ctx, enrollmentID)
	if err != nil {
		s.logger.Warn("classification read-back failed",
			"enrollment", enrollmentID, "error", err)
		return DefaultClassification
	}
	for _, ev := range enrollment.Events {
		if ev.ProgramStage != dhis2.ClinicalStageID {
			continue
		}
		for _, dv := range ev.DataValues {
			if dv.DataElement == dhis2.ElemClassification && dv.Value != "" {
				return dv.Value
			}
		}
	}
	return DefaultClassification
}

// latestClassification returns the health flag of the most recent clinical
// event on the record.
func latestClassification(entity *dhis2.TrackedEntity) string {
	var latest *dhis2.Event
	var latestAt string
	for ei := range entity.Enrollments {
		events := entity.Enrollments[ei].Events
		for i := range events {
			ev := &events[i]
			if ev.ProgramStage != dhis2.ClinicalStageID {
				continue
			}
			at := ev.OccurredAt
			if at == "" {
				at = ev.CompletedAt
			}
			if latest == nil || at > latestAt {
				latest = ev
				latestAt = at
			}
		}
	}
	if latest == nil {
		return DefaultClassification
	}
	for _, dv := range latest.DataValues {
		if dv.DataElement == dhis2.ElemClassification && dv.Value != "" {
			return dv.Value
		}
	}
	return DefaultClassification
}

func (s *Service) failSubmission(ctx context.Context, sessionID string, err error) {
	if s.metrics != nil {
		s.metrics.IncrementSubmissions("failed")
	}
	s.emit(ctx, audit.ActionDeclarationSubmitted, sessionID, "", "failed", err.Error())
}

func (s *Service) archive(ctx context.Context, entry ArchiveEntry) {
	if s.archiver == nil {
		return
	}
	if err := s.archiver.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to archive submission",
			"session_id", entry.SessionID, "error", err)
	}
}

func (s *Service) emit(ctx context.Context, action, sessionID, subject, outcome, reason string) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Timestamp: s.clock(),
		SessionID: sessionID,
		Subject:   subject,
		Action:    action,
		Outcome:   outcome,
		Reason:    reason,
		RequestID: middleware.GetRequestID(ctx),
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.Warn("failed to emit audit event", "action", action, "error", err)
	}
}
