// Package testutil provides fixtures and helpers shared by tests.
package testutil

import (
	"time"

	"github.com/stratosilva/ethiopia-thdf/internal/declaration"
)

// FixedNow is the reference instant used by deterministic tests.
var FixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

// DeclarationBuilder provides a fluent interface for building test declarations.
type DeclarationBuilder struct {
	d declaration.Declaration
}

// NewDeclaration returns a builder seeded with a valid adult declaration
// arriving two days after FixedNow.
func NewDeclaration() *DeclarationBuilder {
	return &DeclarationBuilder{d: declaration.Declaration{
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
			DepartureCity:    "Nairobi",
			ArrivalDate:      "2026-03-12",
		},
		Clinical: declaration.Clinical{Answers: map[string]declaration.Answer{}},
	}}
}

// WithPassport overrides the passport number.
func (b *DeclarationBuilder) WithPassport(passport string) *DeclarationBuilder {
	b.d.Personal.Passport = passport
	return b
}

// WithName overrides first and last name.
func (b *DeclarationBuilder) WithName(first, last string) *DeclarationBuilder {
	b.d.Personal.FirstName = first
	b.d.Personal.LastName = last
	return b
}

// AsMinor makes the traveler 12 years old with a guardian.
func (b *DeclarationBuilder) AsMinor() *DeclarationBuilder {
	b.d.Personal.DateOfBirth = FixedNow.AddDate(-12, 0, 0).Format("2006-01-02")
	b.d.Personal.GuardianName = "Fatuma"
	b.d.Personal.GuardianPhone = "+251922334455"
	return b
}

// WithVisited sets the visited country codes.
func (b *DeclarationBuilder) WithVisited(codes ...string) *DeclarationBuilder {
	b.d.Travel.VisitedCountries = codes
	return b
}

// WithAnswer sets one clinical answer.
func (b *DeclarationBuilder) WithAnswer(questionID string, a declaration.Answer) *DeclarationBuilder {
	b.d.Clinical.Answers[questionID] = a
	return b
}

// Build returns the declaration.
func (b *DeclarationBuilder) Build() declaration.Declaration {
	return b.d
}

// Personal returns just the identity group.
func (b *DeclarationBuilder) Personal() declaration.Personal {
	return b.d.Personal
}

// Travel returns just the journey group.
func (b *DeclarationBuilder) Travel() declaration.Travel {
	return b.d.Travel
}

// Clinical returns just the screening group.
func (b *DeclarationBuilder) Clinical() declaration.Clinical {
	return b.d.Clinical
}
