package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
)

// LimitsSuite tests the validation helper functions.
//
// Justification: These are trust-boundary validators. The invariants
// "max+1 must fail" and "max must pass" are security-critical.
type LimitsSuite struct {
	suite.Suite
}

func TestLimitsSuite(t *testing.T) {
	suite.Run(t, new(LimitsSuite))
}

func (s *LimitsSuite) TestCheckSliceCount() {
	s.Run("passes when count equals max", func() {
		err := CheckSliceCount("answers", 50, 50)
		s.NoError(err)
	})

	s.Run("passes when count is below max", func() {
		err := CheckSliceCount("answers", 5, 50)
		s.NoError(err)
	})

	s.Run("passes when count is zero", func() {
		err := CheckSliceCount("answers", 0, 50)
		s.NoError(err)
	})

	s.Run("fails when count exceeds max", func() {
		err := CheckSliceCount("answers", 51, 50)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "too many answers")
		s.Contains(err.Error(), "max 50 allowed")
	})
}

func (s *LimitsSuite) TestCheckStringLength() {
	s.Run("passes when length equals max", func() {
		str := strings.Repeat("a", MaxNameLength)
		err := CheckStringLength("firstName", str, MaxNameLength)
		s.NoError(err)
	})

	s.Run("passes when length is below max", func() {
		err := CheckStringLength("firstName", "short", MaxNameLength)
		s.NoError(err)
	})

	s.Run("fails when length exceeds max", func() {
		str := strings.Repeat("a", MaxNameLength+1)
		err := CheckStringLength("firstName", str, MaxNameLength)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "firstName exceeds max length")
	})
}

func (s *LimitsSuite) TestCheckEachStringLength() {
	s.Run("passes when all elements fit", func() {
		err := CheckEachStringLength("visitedCountries", []string{"KE", "UG"}, 2)
		s.NoError(err)
	})

	s.Run("passes on empty slice", func() {
		err := CheckEachStringLength("visitedCountries", nil, 2)
		s.NoError(err)
	})

	s.Run("fails when any element exceeds max", func() {
		err := CheckEachStringLength("visitedCountries", []string{"KE", "KEN"}, 2)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
