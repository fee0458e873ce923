package declaration

import (
	"regexp"
	"time"

	"github.com/stratosilva/ethiopia-thdf/internal/reference"
)

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9]+$`)
)

const dateLayout = "2006-01-02"

// adultAge is the age in completed years from which no guardian is needed.
const adultAge = 18

// ageInYears returns completed years between dob and now, or -1 when dob
// does not parse.
func ageInYears(dob string, now time.Time) int {
	d, err := time.Parse(dateLayout, dob)
	if err != nil {
		return -1
	}
	years := now.Year() - d.Year()
	// Not yet had this year's birthday.
	if now.Month() < d.Month() || (now.Month() == d.Month() && now.Day() < d.Day()) {
		years--
	}
	return years
}

// ValidatePersonal checks the identity step. A nil return means the step is
// complete and well formed.
func ValidatePersonal(p Personal, now time.Time) error {
	fields := make(map[string]string)

	switch {
	case p.FirstName == "":
		fields["firstName"] = "First name is required."
	case !nameRe.MatchString(p.FirstName):
		fields["firstName"] = "Only letters are allowed."
	}
	switch {
	case p.LastName == "":
		fields["lastName"] = "Last name is required."
	case !nameRe.MatchString(p.LastName):
		fields["lastName"] = "Only letters are allowed."
	}
	if p.MiddleName != "" && !nameRe.MatchString(p.MiddleName) {
		fields["middleName"] = "Only letters are allowed."
	}
	if p.DateOfBirth == "" {
		fields["dateOfBirth"] = "Date of birth is required."
	} else if _, err := time.Parse(dateLayout, p.DateOfBirth); err != nil {
		fields["dateOfBirth"] = "Use the format YYYY-MM-DD."
	}
	if p.Sex == "" {
		fields["sex"] = "Select a value."
	} else if !reference.ValidOption(reference.Sexes, p.Sex) {
		fields["sex"] = "Select a value."
	}
	switch {
	case p.Phone == "":
		fields["phone"] = "Phone number is required."
	case !phoneRe.MatchString(p.Phone):
		fields["phone"] = "Use only + and digits."
	}
	if p.Nationality == "" {
		fields["nationality"] = "Select nationality."
	} else if !reference.CountryByCode(p.Nationality) {
		fields["nationality"] = "Select nationality."
	}
	if p.Passport == "" {
		fields["passport"] = "Passport number is required."
	}

	// Minors must name a guardian.
	if age := ageInYears(p.DateOfBirth, now); age >= 0 && age < adultAge {
		if p.GuardianName == "" {
			fields["guardianName"] = "Guardian name required for minors."
		}
		if p.GuardianPhone == "" {
			fields["guardianPhone"] = "Guardian phone required for minors."
		} else if !phoneRe.MatchString(p.GuardianPhone) {
			fields["guardianPhone"] = "Use only + and digits."
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// MaxVisitedCountries is the number of visited-country slots on the travel
// stage. The registry has exactly five.
const MaxVisitedCountries = 5

// ValidateTravel checks the journey step. The arrival date comparison is
// date-only: arriving today is valid.
func ValidateTravel(t Travel, now time.Time) error {
	fields := make(map[string]string)

	if t.Purpose == "" {
		fields["purpose"] = "Select purpose."
	} else if !reference.ValidOption(reference.Purposes, t.Purpose) {
		fields["purpose"] = "Select purpose."
	}
	if t.Airline == "" {
		fields["airline"] = "Select airline."
	} else if !reference.ValidOption(reference.Airlines, t.Airline) {
		fields["airline"] = "Select airline."
	}
	if t.Airline == reference.AirlineOther && t.OtherAirline == "" {
		fields["otherAirline"] = "Specify airline."
	}
	if t.FlightNumber == "" {
		fields["flightNumber"] = "Enter flight number."
	}
	if t.SeatNumber == "" {
		fields["seatNumber"] = "Enter seat number."
	}
	if t.DepartureCountry == "" {
		fields["departureCountry"] = "Departure country required."
	} else if !reference.CountryByCode(t.DepartureCountry) {
		fields["departureCountry"] = "Departure country required."
	}
	if t.ArrivalDate == "" {
		fields["arrivalDate"] = "Arrival date required."
	} else if arr, err := time.Parse(dateLayout, t.ArrivalDate); err != nil {
		fields["arrivalDate"] = "Use the format YYYY-MM-DD."
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if arr.Before(today) {
			fields["arrivalDate"] = "Arrival date cannot be in the past."
		}
	}

	if len(t.VisitedCountries) > MaxVisitedCountries {
		fields["visitedCountries"] = "Select at most five countries."
	} else {
		seen := make(map[string]bool, len(t.VisitedCountries))
		for _, code := range t.VisitedCountries {
			if !reference.CountryByCode(code) {
				fields["visitedCountries"] = "Unknown country code."
				break
			}
			if seen[code] {
				fields["visitedCountries"] = "Duplicate country."
				break
			}
			seen[code] = true
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ValidateClinical checks that every compulsory question is answered and
// coded answers use a code from the question's option set.
func ValidateClinical(c Clinical, questions []reference.ClinicalQuestion) error {
	fields := make(map[string]string)

	for _, q := range questions {
		answer, ok := c.Answers[q.ID]
		if !ok {
			if q.Compulsory {
				fields[q.ID] = "Required"
			}
			continue
		}
		if answer.Kind == AnswerCoded && len(q.Options) > 0 &&
			!reference.ValidOption(q.Options, answer.Code) {
			fields[q.ID] = "Select a listed option."
		}
		if answer.Kind == AnswerText && q.Compulsory && answer.Text == "" {
			fields[q.ID] = "Required"
		}
		if answer.Kind == AnswerCoded && answer.Code == "" && q.Compulsory {
			fields[q.ID] = "Required"
		}
	}

	// Reject answers to questions the stage doesn't ask.
	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	for id := range c.Answers {
		if !known[id] {
			fields[id] = "Unknown question."
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
