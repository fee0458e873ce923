package declaration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/stratosilva/ethiopia-thdf/internal/reference"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
}

func validPersonal() Personal {
	return Personal{
		FirstName:   "Abebe",
		LastName:    "Bikila",
		DateOfBirth: "1990-08-07",
		Sex:         "MALE",
		Phone:       "+251911223344",
		Nationality: "ET",
		Passport:    "EP1234567",
	}
}

func validTravel() Travel {
	return Travel{
		Purpose:          "TOURISM",
		Airline:          "ET",
		FlightNumber:     "501",
		SeatNumber:       "12A",
		DepartureCountry: "KE",
		DepartureCity:    "Nairobi",
		ArrivalDate:      "2026-03-12",
	}
}

type ValidatePersonalSuite struct {
	suite.Suite
}

func TestValidatePersonalSuite(t *testing.T) {
	suite.Run(t, new(ValidatePersonalSuite))
}

func (s *ValidatePersonalSuite) fieldError(p Personal, field string) string {
	err := ValidatePersonal(p, fixedNow())
	s.Require().Error(err)
	var vErr *ValidationError
	s.Require().ErrorAs(err, &vErr)
	return vErr.Fields[field]
}

func (s *ValidatePersonalSuite) TestValidAdult() {
	s.NoError(ValidatePersonal(validPersonal(), fixedNow()))
}

func (s *ValidatePersonalSuite) TestNames() {
	s.Run("first name required", func() {
		p := validPersonal()
		p.FirstName = ""
		s.Equal("First name is required.", s.fieldError(p, "firstName"))
	})

	s.Run("digits rejected", func() {
		p := validPersonal()
		p.FirstName = "Abebe2"
		s.Equal("Only letters are allowed.", s.fieldError(p, "firstName"))
	})

	s.Run("spaces rejected", func() {
		p := validPersonal()
		p.LastName = "Bikila Jr"
		s.Equal("Only letters are allowed.", s.fieldError(p, "lastName"))
	})

	s.Run("middle name optional but letters only", func() {
		p := validPersonal()
		p.MiddleName = "Tes-fa"
		s.Equal("Only letters are allowed.", s.fieldError(p, "middleName"))
	})
}

func (s *ValidatePersonalSuite) TestPhone() {
	s.Run("plus prefix allowed", func() {
		p := validPersonal()
		p.Phone = "+251911000000"
		s.NoError(ValidatePersonal(p, fixedNow()))
	})

	s.Run("letters rejected", func() {
		p := validPersonal()
		p.Phone = "09-11"
		s.Equal("Use only + and digits.", s.fieldError(p, "phone"))
	})

	s.Run("plus in the middle rejected", func() {
		p := validPersonal()
		p.Phone = "091+1"
		s.Equal("Use only + and digits.", s.fieldError(p, "phone"))
	})
}

func (s *ValidatePersonalSuite) TestGuardianRule() {
	minorDOB := fixedNow().AddDate(-17, 0, 0).Format(dateLayout)

	s.Run("minor without guardian fails", func() {
		p := validPersonal()
		p.DateOfBirth = minorDOB
		s.Equal("Guardian name required for minors.", s.fieldError(p, "guardianName"))
		s.Equal("Guardian phone required for minors.", s.fieldError(p, "guardianPhone"))
	})

	s.Run("minor with guardian passes", func() {
		p := validPersonal()
		p.DateOfBirth = minorDOB
		p.GuardianName = "Fatuma"
		p.GuardianPhone = "+251922334455"
		s.NoError(ValidatePersonal(p, fixedNow()))
	})

	s.Run("18th birthday today needs no guardian", func() {
		p := validPersonal()
		p.DateOfBirth = fixedNow().AddDate(-18, 0, 0).Format(dateLayout)
		s.NoError(ValidatePersonal(p, fixedNow()))
	})

	s.Run("day before 18th birthday still a minor", func() {
		p := validPersonal()
		p.DateOfBirth = fixedNow().AddDate(-18, 0, 1).Format(dateLayout)
		s.Equal("Guardian name required for minors.", s.fieldError(p, "guardianName"))
	})

	s.Run("guardian phone format enforced", func() {
		p := validPersonal()
		p.DateOfBirth = minorDOB
		p.GuardianName = "Fatuma"
		p.GuardianPhone = "call me"
		s.Equal("Use only + and digits.", s.fieldError(p, "guardianPhone"))
	})
}

func (s *ValidatePersonalSuite) TestReferenceFields() {
	s.Run("unknown sex code", func() {
		p := validPersonal()
		p.Sex = "X"
		s.Equal("Select a value.", s.fieldError(p, "sex"))
	})

	s.Run("unknown nationality code", func() {
		p := validPersonal()
		p.Nationality = "ZZ"
		s.Equal("Select nationality.", s.fieldError(p, "nationality"))
	})

	s.Run("passport required", func() {
		p := validPersonal()
		p.Passport = ""
		s.Equal("Passport number is required.", s.fieldError(p, "passport"))
	})

	s.Run("bad date format", func() {
		p := validPersonal()
		p.DateOfBirth = "07/08/1990"
		s.Equal("Use the format YYYY-MM-DD.", s.fieldError(p, "dateOfBirth"))
	})
}

type ValidateTravelSuite struct {
	suite.Suite
}

func TestValidateTravelSuite(t *testing.T) {
	suite.Run(t, new(ValidateTravelSuite))
}

func (s *ValidateTravelSuite) fieldError(t Travel, field string) string {
	err := ValidateTravel(t, fixedNow())
	s.Require().Error(err)
	var vErr *ValidationError
	s.Require().ErrorAs(err, &vErr)
	return vErr.Fields[field]
}

func (s *ValidateTravelSuite) TestValid() {
	s.NoError(ValidateTravel(validTravel(), fixedNow()))
}

func (s *ValidateTravelSuite) TestArrivalDate() {
	s.Run("today is valid", func() {
		t := validTravel()
		t.ArrivalDate = fixedNow().Format(dateLayout)
		s.NoError(ValidateTravel(t, fixedNow()))
	})

	s.Run("yesterday is rejected", func() {
		t := validTravel()
		t.ArrivalDate = fixedNow().AddDate(0, 0, -1).Format(dateLayout)
		s.Equal("Arrival date cannot be in the past.", s.fieldError(t, "arrivalDate"))
	})

	s.Run("missing", func() {
		t := validTravel()
		t.ArrivalDate = ""
		s.Equal("Arrival date required.", s.fieldError(t, "arrivalDate"))
	})
}

func (s *ValidateTravelSuite) TestOtherAirline() {
	s.Run("other without name fails", func() {
		t := validTravel()
		t.Airline = "OTHER"
		s.Equal("Specify airline.", s.fieldError(t, "otherAirline"))
	})

	s.Run("other with name passes", func() {
		t := validTravel()
		t.Airline = "OTHER"
		t.OtherAirline = "Sky Bishoftu"
		s.NoError(ValidateTravel(t, fixedNow()))
	})

	s.Run("unknown airline code", func() {
		t := validTravel()
		t.Airline = "Z9"
		s.Equal("Select airline.", s.fieldError(t, "airline"))
	})
}

func (s *ValidateTravelSuite) TestVisitedCountries() {
	s.Run("five allowed", func() {
		t := validTravel()
		t.VisitedCountries = []string{"KE", "UG", "TZ", "SD", "DJ"}
		s.NoError(ValidateTravel(t, fixedNow()))
	})

	s.Run("six rejected", func() {
		t := validTravel()
		t.VisitedCountries = []string{"KE", "UG", "TZ", "SD", "DJ", "SO"}
		s.Equal("Select at most five countries.", s.fieldError(t, "visitedCountries"))
	})

	s.Run("duplicate rejected", func() {
		t := validTravel()
		t.VisitedCountries = []string{"KE", "KE"}
		s.Equal("Duplicate country.", s.fieldError(t, "visitedCountries"))
	})

	s.Run("unknown code rejected", func() {
		t := validTravel()
		t.VisitedCountries = []string{"XX"}
		s.Equal("Unknown country code.", s.fieldError(t, "visitedCountries"))
	})
}

func (s *ValidateTravelSuite) TestRequiredFields() {
	t := validTravel()
	t.Purpose = ""
	t.FlightNumber = ""
	t.SeatNumber = ""
	t.DepartureCountry = ""

	err := ValidateTravel(t, fixedNow())
	var vErr *ValidationError
	s.Require().ErrorAs(err, &vErr)
	s.Equal("Select purpose.", vErr.Fields["purpose"])
	s.Equal("Enter flight number.", vErr.Fields["flightNumber"])
	s.Equal("Enter seat number.", vErr.Fields["seatNumber"])
	s.Equal("Departure country required.", vErr.Fields["departureCountry"])
}

func testQuestions() []reference.ClinicalQuestion {
	return []reference.ClinicalQuestion{
		{ID: "feverQ", Label: "Fever in the last 48h", ValueType: "BOOLEAN", Compulsory: true},
		{
			ID: "symptomQ", Label: "Main symptom", ValueType: "TEXT", Compulsory: false,
			Options: []reference.Option{
				{Label: "Cough", Value: "COUGH"},
				{Label: "Headache", Value: "HEADACHE"},
			},
		},
		{ID: "notesQ", Label: "Notes", ValueType: "TEXT", Compulsory: false},
	}
}

type ValidateClinicalSuite struct {
	suite.Suite
}

func TestValidateClinicalSuite(t *testing.T) {
	suite.Run(t, new(ValidateClinicalSuite))
}

func (s *ValidateClinicalSuite) TestCompulsoryAnswers() {
	s.Run("missing compulsory answer fails", func() {
		c := Clinical{Answers: map[string]Answer{}}
		err := ValidateClinical(c, testQuestions())
		var vErr *ValidationError
		s.Require().ErrorAs(err, &vErr)
		s.Equal("Required", vErr.Fields["feverQ"])
	})

	s.Run("compulsory answered passes", func() {
		c := Clinical{Answers: map[string]Answer{
			"feverQ": {Kind: AnswerBoolean, Flag: false},
		}}
		s.NoError(ValidateClinical(c, testQuestions()))
	})
}

func (s *ValidateClinicalSuite) TestCodedAnswers() {
	s.Run("listed option passes", func() {
		c := Clinical{Answers: map[string]Answer{
			"feverQ":   {Kind: AnswerBoolean, Flag: true},
			"symptomQ": {Kind: AnswerCoded, Code: "COUGH"},
		}}
		s.NoError(ValidateClinical(c, testQuestions()))
	})

	s.Run("unlisted option fails", func() {
		c := Clinical{Answers: map[string]Answer{
			"feverQ":   {Kind: AnswerBoolean, Flag: true},
			"symptomQ": {Kind: AnswerCoded, Code: "SNEEZE"},
		}}
		err := ValidateClinical(c, testQuestions())
		var vErr *ValidationError
		s.Require().ErrorAs(err, &vErr)
		s.Equal("Select a listed option.", vErr.Fields["symptomQ"])
	})
}

func (s *ValidateClinicalSuite) TestUnknownQuestion() {
	c := Clinical{Answers: map[string]Answer{
		"feverQ":    {Kind: AnswerBoolean, Flag: false},
		"bogusUID1": {Kind: AnswerText, Text: "hello"},
	}}
	err := ValidateClinical(c, testQuestions())
	var vErr *ValidationError
	s.Require().ErrorAs(err, &vErr)
	s.Equal("Unknown question.", vErr.Fields["bogusUID1"])
}
