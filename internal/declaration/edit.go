package declaration

import (
	"strings"

	"github.com/stratosilva/ethiopia-thdf/internal/dhis2"
	"github.com/stratosilva/ethiopia-thdf/internal/reference"
	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
)

// DecodeEntity rebuilds a declaration from a registry person record so a
// traveler can edit a previous submission. The returned EditTarget pins the
// session to the records that already exist; identifiers missing from the
// record are allocated again on submit.
func DecodeEntity(uid string, entity *dhis2.TrackedEntity, meta *reference.Metadata) (Declaration, EditTarget, error) {
	if len(entity.Enrollments) == 0 {
		return Declaration{}, EditTarget{}, dErrors.New(dErrors.CodeNotFound, "no enrollment on record")
	}
	enrollment := entity.Enrollments[0]

	target := EditTarget{
		TrackedEntity: uid,
		Enrollment:    enrollment.Enrollment,
	}

	var travelEvent, clinicalEvent *dhis2.Event
	for i := range enrollment.Events {
		ev := &enrollment.Events[i]
		switch ev.ProgramStage {
		case dhis2.TravelStageID:
			if travelEvent == nil {
				travelEvent = ev
				target.TravelEvent = ev.Event
			}
		case dhis2.ClinicalStageID:
			if clinicalEvent == nil {
				clinicalEvent = ev
				target.ClinicalEvent = ev.Event
			}
		}
	}

	d := Declaration{
		Personal: decodePersonal(entity.AttributeMap()),
		Clinical: Clinical{Answers: map[string]Answer{}},
	}
	if travelEvent != nil {
		d.Travel = decodeTravel(travelEvent, meta)
	}
	if clinicalEvent != nil {
		d.Clinical = decodeClinical(clinicalEvent, meta)
	}
	return d, target, nil
}

func decodePersonal(attrs map[string]string) Personal {
	return Personal{
		FirstName:   attrs[dhis2.AttrFirstName],
		MiddleName:  attrs[dhis2.AttrMiddleName],
		LastName:    attrs[dhis2.AttrLastName],
		DateOfBirth: attrs[dhis2.AttrDateOfBirth],
		Sex:         attrs[dhis2.AttrSex],
		Phone:       attrs[dhis2.AttrPhone],
		Nationality: attrs[dhis2.AttrNationality],
		Passport:    attrs[dhis2.AttrPassport],
	}
}

func decodeTravel(ev *dhis2.Event, meta *reference.Metadata) Travel {
	values := dataValueMap(ev)

	t := Travel{
		Purpose:          values[dhis2.ElemPurpose],
		SeatNumber:       values[dhis2.ElemSeatNumber],
		DepartureCountry: values[dhis2.ElemDepartureCountry],
		DepartureCity:    values[dhis2.ElemDepartureCity],
		ArrivalDate:      eventDate(ev),
	}
	t.Airline, t.OtherAirline, t.FlightNumber = decodeAirline(values)

	for _, elem := range dhis2.VisitedCountryElems {
		if v := values[elem]; v != "" {
			t.VisitedCountries = append(t.VisitedCountries, resolveCountryCode(v, meta))
		}
	}
	return t
}

// decodeAirline splits the composite airline and flight element. Carriers are
// stored as a two letter IATA prefix; unrecognized prefixes decode as the
// OTHER sentinel with the prefix as the carrier's free text name and the
// remainder as the flight number.
func decodeAirline(values map[string]string) (airline, other, flight string) {
	composite := values[dhis2.ElemAirlineAndFlight]
	if len(composite) >= 2 {
		if reference.KnownAirline(composite[:2]) {
			return composite[:2], "", composite[2:]
		}
		return reference.AirlineOther, composite[:2], composite[2:]
	}

	airline = values[dhis2.ElemAirline]
	other = values[dhis2.ElemOtherAirline]
	flight = values[dhis2.ElemFlightNumber]
	if airline == "" && composite != "" {
		airline = reference.AirlineOther
		if other == "" {
			other = composite
		}
	}
	return airline, other, flight
}

// resolveCountryCode maps a stored visited country value back to an ISO code.
// Older records stored display names, so the dynamic risk country labels are
// tried first, then the static country list, then the value as is.
func resolveCountryCode(value string, meta *reference.Metadata) string {
	if reference.CountryByCode(value) {
		return value
	}
	if meta != nil {
		for _, c := range meta.RiskCountries {
			if c.Label == value {
				return c.Value
			}
		}
	}
	if code, ok := reference.CountryByLabel(value); ok {
		return code
	}
	return value
}

func decodeClinical(ev *dhis2.Event, meta *reference.Metadata) Clinical {
	values := dataValueMap(ev)
	answers := make(map[string]Answer)
	if meta != nil {
		for _, q := range meta.ClinicalQuestions {
			v, ok := values[q.ID]
			if !ok || v == "" {
				continue
			}
			answers[q.ID] = decodeAnswer(q, v)
		}
	}
	return Clinical{Answers: answers}
}

func decodeAnswer(q reference.ClinicalQuestion, value string) Answer {
	switch {
	case q.ValueType == "BOOLEAN" || q.ValueType == "TRUE_ONLY":
		return Answer{Kind: AnswerBoolean, Flag: value == "true"}
	case len(q.Options) > 0:
		return Answer{Kind: AnswerCoded, Code: value}
	default:
		return Answer{Kind: AnswerText, Text: value}
	}
}

func dataValueMap(ev *dhis2.Event) map[string]string {
	m := make(map[string]string, len(ev.DataValues))
	for _, dv := range ev.DataValues {
		m[dv.DataElement] = dv.Value
	}
	return m
}

// eventDate extracts the date part of an event timestamp.
func eventDate(ev *dhis2.Event) string {
	ts := ev.OccurredAt
	if ts == "" {
		ts = ev.CompletedAt
	}
	if i := strings.IndexByte(ts, 'T'); i > 0 {
		return ts[:i]
	}
	return ts
}
