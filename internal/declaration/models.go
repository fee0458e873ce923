// Package declaration implements the traveler health declaration workflow:
// a step wizard over a server held session, traveler deduplication against
// the health registry, identifier allocation, payload assembly and
// submission, and declaration token verification.
package declaration

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Step identifies a wizard step.
type Step int

const (
	StepPersonal Step = iota
	StepTravel
	StepClinical
	StepSummary
	StepComplete
)

// String returns the step's wire name.
func (s Step) String() string {
	switch s {
	case StepPersonal:
		return "personal"
	case StepTravel:
		return "travel"
	case StepClinical:
		return "clinical"
	case StepSummary:
		return "summary"
	case StepComplete:
		return "complete"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// MarshalJSON encodes the step as its wire name.
func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Personal holds the identity group of the declaration.
type Personal struct {
	FirstName     string `json:"firstName"`
	MiddleName    string `json:"middleName,omitempty"`
	LastName      string `json:"lastName"`
	DateOfBirth   string `json:"dateOfBirth"` // 2006-01-02
	Sex           string `json:"sex"`
	Phone         string `json:"phone"`
	Nationality   string `json:"nationality"` // ISO code
	Passport      string `json:"passport"`
	GuardianName  string `json:"guardianName,omitempty"`
	GuardianPhone string `json:"guardianPhone,omitempty"`
}

// Travel holds the journey group of the declaration.
type Travel struct {
	Purpose          string   `json:"purpose"`
	Airline          string   `json:"airline"` // IATA code or OTHER
	OtherAirline     string   `json:"otherAirline,omitempty"`
	FlightNumber     string   `json:"flightNumber"`
	SeatNumber       string   `json:"seatNumber"`
	DepartureCountry string   `json:"departureCountry"` // ISO code
	DepartureCity    string   `json:"departureCity,omitempty"`
	ArrivalDate      string   `json:"arrivalDate"` // 2006-01-02
	VisitedCountries []string `json:"visitedCountries,omitempty"`
}

// AnswerKind discriminates the clinical answer variants.
type AnswerKind string

const (
	AnswerCoded   AnswerKind = "CODED"
	AnswerBoolean AnswerKind = "BOOLEAN"
	AnswerText    AnswerKind = "TEXT"
)

// Answer is a clinical answer. It is a closed variant: exactly one of the
// value fields is meaningful, selected by Kind.
type Answer struct {
	Kind AnswerKind
	Code string
	Flag bool
	Text string
}

// Render returns the registry wire representation of the answer.
// Booleans render as "true"/"false" per the registry's value type contract.
func (a Answer) Render() string {
	switch a.Kind {
	case AnswerBoolean:
		if a.Flag {
			return "true"
		}
		return "false"
	case AnswerCoded:
		return a.Code
	default:
		return a.Text
	}
}

// answerWire is the JSON shape of an answer.
type answerWire struct {
	Kind  AnswerKind      `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the answer with an explicit kind tag.
func (a Answer) MarshalJSON() ([]byte, error) {
	var value any
	switch a.Kind {
	case AnswerBoolean:
		value = a.Flag
	case AnswerCoded:
		value = a.Code
	case AnswerText:
		value = a.Text
	default:
		return nil, fmt.Errorf("unknown answer kind %q", a.Kind)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(answerWire{Kind: a.Kind, Value: raw})
}

// UnmarshalJSON decodes a kind-tagged answer, rejecting unknown kinds and
// mismatched value types.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var w answerWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case AnswerBoolean:
		if err := json.Unmarshal(w.Value, &a.Flag); err != nil {
			return fmt.Errorf("boolean answer: %w", err)
		}
	case AnswerCoded:
		if err := json.Unmarshal(w.Value, &a.Code); err != nil {
			return fmt.Errorf("coded answer: %w", err)
		}
	case AnswerText:
		if err := json.Unmarshal(w.Value, &a.Text); err != nil {
			return fmt.Errorf("text answer: %w", err)
		}
	default:
		return fmt.Errorf("unknown answer kind %q", w.Kind)
	}
	a.Kind = w.Kind
	return nil
}

// Clinical holds the health screening answers, keyed by question ID.
type Clinical struct {
	Answers map[string]Answer `json:"answers"`
}

// SortedQuestionIDs returns answered question IDs in stable order so payload
// assembly is deterministic.
func (c Clinical) SortedQuestionIDs() []string {
	ids := make([]string, 0, len(c.Answers))
	for id := range c.Answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Declaration is the complete wizard state for one traveler journey.
type Declaration struct {
	Personal Personal `json:"personal"`
	Travel   Travel   `json:"travel"`
	Clinical Clinical `json:"clinical"`
}

// EditTarget pins a session to previously submitted registry records so a
// resubmission updates them instead of creating new ones.
type EditTarget struct {
	TrackedEntity string `json:"trackedEntity"`
	Enrollment    string `json:"enrollment,omitempty"`
	TravelEvent   string `json:"travelEvent,omitempty"`
	ClinicalEvent string `json:"clinicalEvent,omitempty"`
}

// Session is the server held wizard state. Generation increments whenever
// the session is reset, so slow responses from a previous life of the
// session can be detected and discarded.
type Session struct {
	ID          string      `json:"id"`
	Declaration Declaration `json:"declaration"`
	Step        Step        `json:"step"`
	Generation  int64       `json:"generation"`
	Editing     *EditTarget `json:"editing,omitempty"`
	Result      *Submission `json:"result,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// ResolutionOutcome classifies how a traveler matched against the registry.
type ResolutionOutcome string

const (
	NewTraveler       ResolutionOutcome = "NEW_TRAVELER"
	MatchedEnrolled   ResolutionOutcome = "MATCHED_ENROLLED"
	MatchedUnenrolled ResolutionOutcome = "MATCHED_UNENROLLED"
)

// Resolution is the result of traveler deduplication.
type Resolution struct {
	Outcome       ResolutionOutcome
	TrackedEntity string
	Enrollment    string
	EnrolledAt    string
}

// IdentitySet holds every registry identifier a submission writes to.
type IdentitySet struct {
	Person        string
	Enrollment    string
	TravelEvent   string
	ClinicalEvent string
}

// DefaultClassification is reported when the registry has not yet flagged
// the clinical event.
const DefaultClassification = "GREEN"

// Submission is the outcome of a successful declaration submission.
type Submission struct {
	Token          string    `json:"token"`
	Classification string    `json:"classification"`
	QRURL          string    `json:"qrUrl"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// ValidationError carries per-field messages for one wizard step.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// FieldErrors returns the per-field messages.
func (e *ValidationError) FieldErrors() map[string]string {
	return e.Fields
}
