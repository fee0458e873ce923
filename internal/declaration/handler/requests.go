package handler

import (
	"strings"

	"github.com/stratosilva/ethiopia-thdf/internal/declaration"
	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
	"github.com/stratosilva/ethiopia-thdf/pkg/platform/validation"
)

// HTTP request DTOs. Field level validation lives in the declaration
// package; requests only normalize input and reject structurally empty
// bodies.

type PersonalRequest struct {
	FirstName     string `json:"firstName"`
	MiddleName    string `json:"middleName"`
	LastName      string `json:"lastName"`
	DateOfBirth   string `json:"dateOfBirth"`
	Sex           string `json:"sex"`
	Phone         string `json:"phone"`
	Nationality   string `json:"nationality"`
	Passport      string `json:"passport"`
	GuardianName  string `json:"guardianName"`
	GuardianPhone string `json:"guardianPhone"`
}

func (r *PersonalRequest) Normalize() {
	if r == nil {
		return
	}
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.MiddleName = strings.TrimSpace(r.MiddleName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
	r.Sex = strings.ToUpper(strings.TrimSpace(r.Sex))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Nationality = strings.ToUpper(strings.TrimSpace(r.Nationality))
	r.Passport = strings.ToUpper(strings.TrimSpace(r.Passport))
	r.GuardianName = strings.TrimSpace(r.GuardianName)
	r.GuardianPhone = strings.TrimSpace(r.GuardianPhone)
}

func (r *PersonalRequest) toDomain() declaration.Personal {
	return declaration.Personal{
		FirstName:     r.FirstName,
		MiddleName:    r.MiddleName,
		LastName:      r.LastName,
		DateOfBirth:   r.DateOfBirth,
		Sex:           r.Sex,
		Phone:         r.Phone,
		Nationality:   r.Nationality,
		Passport:      r.Passport,
		GuardianName:  r.GuardianName,
		GuardianPhone: r.GuardianPhone,
	}
}

type TravelRequest struct {
	Purpose          string   `json:"purpose"`
	Airline          string   `json:"airline"`
	OtherAirline     string   `json:"otherAirline"`
	FlightNumber     string   `json:"flightNumber"`
	SeatNumber       string   `json:"seatNumber"`
	DepartureCountry string   `json:"departureCountry"`
	DepartureCity    string   `json:"departureCity"`
	ArrivalDate      string   `json:"arrivalDate"`
	VisitedCountries []string `json:"visitedCountries"`
}

func (r *TravelRequest) Normalize() {
	if r == nil {
		return
	}
	r.Purpose = strings.ToUpper(strings.TrimSpace(r.Purpose))
	r.Airline = strings.ToUpper(strings.TrimSpace(r.Airline))
	r.OtherAirline = strings.TrimSpace(r.OtherAirline)
	r.FlightNumber = strings.ToUpper(strings.TrimSpace(r.FlightNumber))
	r.SeatNumber = strings.ToUpper(strings.TrimSpace(r.SeatNumber))
	r.DepartureCountry = strings.ToUpper(strings.TrimSpace(r.DepartureCountry))
	r.DepartureCity = strings.TrimSpace(r.DepartureCity)
	r.ArrivalDate = strings.TrimSpace(r.ArrivalDate)

	countries := r.VisitedCountries[:0]
	for _, c := range r.VisitedCountries {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			countries = append(countries, c)
		}
	}
	r.VisitedCountries = countries
}

func (r *TravelRequest) Validate() error {
	if err := validation.CheckSliceCount("visitedCountries", len(r.VisitedCountries), validation.MaxVisitedCountries); err != nil {
		return err
	}
	return validation.CheckStringLength("departureCity", r.DepartureCity, validation.MaxFreeTextLength)
}

func (r *TravelRequest) toDomain() declaration.Travel {
	return declaration.Travel{
		Purpose:          r.Purpose,
		Airline:          r.Airline,
		OtherAirline:     r.OtherAirline,
		FlightNumber:     r.FlightNumber,
		SeatNumber:       r.SeatNumber,
		DepartureCountry: r.DepartureCountry,
		DepartureCity:    r.DepartureCity,
		ArrivalDate:      r.ArrivalDate,
		VisitedCountries: r.VisitedCountries,
	}
}

type ClinicalRequest struct {
	Answers map[string]declaration.Answer `json:"answers"`
}

func (r *ClinicalRequest) Validate() error {
	if r == nil || r.Answers == nil {
		return dErrors.New(dErrors.CodeValidation, "answers are required")
	}
	return validation.CheckSliceCount("answers", len(r.Answers), validation.MaxAnswers)
}

func (r *ClinicalRequest) toDomain() declaration.Clinical {
	return declaration.Clinical{Answers: r.Answers}
}

// SubmitRequest carries the traveler's affirmative consent. The service
// refuses submission without it.
type SubmitRequest struct {
	Consent bool `json:"consent"`
}

type LookupRequest struct {
	Token    string `json:"token"`
	Passport string `json:"passport"`
}

func (r *LookupRequest) Normalize() {
	if r == nil {
		return
	}
	r.Token = strings.TrimSpace(r.Token)
	r.Passport = strings.ToUpper(strings.TrimSpace(r.Passport))
}

func (r *LookupRequest) Validate() error {
	if r == nil || (r.Token == "" && r.Passport == "") {
		return dErrors.New(dErrors.CodeValidation, "a token or passport number is required")
	}
	if err := validation.CheckStringLength("token", r.Token, validation.MaxTokenLength); err != nil {
		return err
	}
	return validation.CheckStringLength("passport", r.Passport, validation.MaxPassportLength)
}

type VerifyRequest struct {
	LastName string `json:"lastName"`
	Passport string `json:"passport"`
}

func (r *VerifyRequest) Normalize() {
	if r == nil {
		return
	}
	r.LastName = strings.TrimSpace(r.LastName)
	r.Passport = strings.ToUpper(strings.TrimSpace(r.Passport))
}
