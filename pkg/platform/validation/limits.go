package validation

import (
	"fmt"

	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (64 KB).
	// Sufficient for a full declaration while preventing memory exhaustion.
	MaxBodySize = 64 * 1024
)

// Slice element count limits
const (
	// MaxAnswers is the maximum number of clinical answers per request.
	MaxAnswers = 50

	// MaxVisitedCountries is the maximum number of visited country entries
	// accepted on the wire. The registry form itself holds five slots.
	MaxVisitedCountries = 10
)

// String element length limits
const (
	// MaxNameLength is the maximum length of a name field.
	MaxNameLength = 100

	// MaxPassportLength is the maximum length of a passport number.
	MaxPassportLength = 20

	// MaxTokenLength is the maximum length of a declaration token.
	MaxTokenLength = 64

	// MaxFreeTextLength is the maximum length of free-text fields such as
	// departure city or airline names.
	MaxFreeTextLength = 200
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckEachStringLength validates that each string in a slice does not exceed the maximum length.
func CheckEachStringLength(fieldName string, values []string, max int) error {
	for _, v := range values {
		if len(v) > max {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
		}
	}
	return nil
}
