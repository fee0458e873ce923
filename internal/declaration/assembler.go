package declaration

import (
	"time"

	"github.com/stratosilva/ethiopia-thdf/internal/dhis2"
)

// Assemble builds the tracker upsert for one declaration. The same payload
// shape covers create and update: the registry upserts by identifier.
//
// The classification element is never written; the registry's program rules
// own it.
func Assemble(d Declaration, ids IdentitySet, res Resolution, now time.Time) dhis2.TrackerPayload {
	occurredAt := d.Travel.ArrivalDate
	if occurredAt == "" {
		occurredAt = now.Format(dateLayout)
	}

	attributes := assembleAttributes(d.Personal)

	travelEvent := dhis2.Event{
		Event:        ids.TravelEvent,
		ProgramStage: dhis2.TravelStageID,
		Program:      dhis2.ProgramID,
		OrgUnit:      dhis2.OrgUnitID,
		Status:       "COMPLETED",
		OccurredAt:   occurredAt,
		CompletedAt:  occurredAt,
		DataValues:   assembleTravelValues(d.Travel),
	}

	clinicalEvent := dhis2.Event{
		Event:        ids.ClinicalEvent,
		ProgramStage: dhis2.ClinicalStageID,
		Program:      dhis2.ProgramID,
		OrgUnit:      dhis2.OrgUnitID,
		Status:       "COMPLETED",
		OccurredAt:   occurredAt,
		CompletedAt:  occurredAt,
		DataValues:   assembleClinicalValues(d.Clinical),
	}

	// A reconciled traveler keeps their original enrollment date.
	enrolledAt := res.EnrolledAt
	if enrolledAt == "" {
		enrolledAt = now.Format(dateLayout)
	}

	enrollment := dhis2.Enrollment{
		Enrollment: ids.Enrollment,
		Program:    dhis2.ProgramID,
		Status:     "ACTIVE",
		OrgUnit:    dhis2.OrgUnitID,
		EnrolledAt: enrolledAt,
		Events:     []dhis2.Event{travelEvent, clinicalEvent},
	}

	entity := dhis2.TrackedEntity{
		TrackedEntity:     ids.Person,
		TrackedEntityType: dhis2.TrackedEntityTypeID,
		OrgUnit:           dhis2.OrgUnitID,
		Attributes:        attributes,
		Enrollments:       []dhis2.Enrollment{enrollment},
	}

	return dhis2.TrackerPayload{TrackedEntities: []dhis2.TrackedEntity{entity}}
}

// assembleAttributes maps the personal group onto tracked entity attributes.
// Empty values are omitted entirely. Guardian details stay local; the
// registry has no attribute for them.
func assembleAttributes(p Personal) []dhis2.Attribute {
	var attrs []dhis2.Attribute
	push := func(attribute, value string) {
		if value != "" {
			attrs = append(attrs, dhis2.Attribute{Attribute: attribute, Value: value})
		}
	}
	push(dhis2.AttrFirstName, p.FirstName)
	push(dhis2.AttrMiddleName, p.MiddleName)
	push(dhis2.AttrLastName, p.LastName)
	push(dhis2.AttrDateOfBirth, p.DateOfBirth)
	push(dhis2.AttrSex, p.Sex)
	push(dhis2.AttrPhone, p.Phone)
	push(dhis2.AttrNationality, p.Nationality)
	push(dhis2.AttrPassport, p.Passport)
	return attrs
}

// assembleTravelValues maps the journey group onto travel stage data values.
// The composite airline and flight element concatenates the airline code and
// flight number with no separator.
func assembleTravelValues(t Travel) []dhis2.DataValue {
	values := []dhis2.DataValue{
		{DataElement: dhis2.ElemAirlineAndFlight, Value: t.Airline + t.FlightNumber},
		{DataElement: dhis2.ElemPurpose, Value: t.Purpose},
		{DataElement: dhis2.ElemAirline, Value: t.Airline},
	}
	if t.Airline == "OTHER" && t.OtherAirline != "" {
		values = append(values, dhis2.DataValue{DataElement: dhis2.ElemOtherAirline, Value: t.OtherAirline})
	}
	values = append(values,
		dhis2.DataValue{DataElement: dhis2.ElemFlightNumber, Value: t.FlightNumber},
		dhis2.DataValue{DataElement: dhis2.ElemSeatNumber, Value: t.SeatNumber},
		dhis2.DataValue{DataElement: dhis2.ElemDepartureCountry, Value: t.DepartureCountry},
		dhis2.DataValue{DataElement: dhis2.ElemDepartureCity, Value: t.DepartureCity},
	)

	// Visited countries fill the five fixed slots in selection order.
	// Unused slots are omitted.
	for i, code := range t.VisitedCountries {
		if i >= len(dhis2.VisitedCountryElems) {
			break
		}
		if code != "" {
			values = append(values, dhis2.DataValue{
				DataElement: dhis2.VisitedCountryElems[i],
				Value:       code,
			})
		}
	}
	return values
}

// assembleClinicalValues renders the clinical answers in stable question
// order. Unanswered questions are omitted.
func assembleClinicalValues(c Clinical) []dhis2.DataValue {
	var values []dhis2.DataValue
	for _, id := range c.SortedQuestionIDs() {
		if id == dhis2.ElemClassification {
			continue
		}
		rendered := c.Answers[id].Render()
		if rendered == "" {
			continue
		}
		values = append(values, dhis2.DataValue{DataElement: id, Value: rendered})
	}
	return values
}
