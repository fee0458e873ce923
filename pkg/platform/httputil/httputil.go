package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	// The response body may be incomplete, but headers are already sent.
	_ = json.NewEncoder(w).Encode(response)
}

// FieldErrorer is implemented by errors that carry per-field validation detail.
type FieldErrorer interface {
	FieldErrors() map[string]string
}

// WriteError centralizes domain error translation to HTTP responses.
// It translates transport-agnostic domain errors into HTTP status codes and error responses.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		status := DomainCodeToHTTPStatus(domainErr.Code)
		response := map[string]any{
			"error": DomainCodeToHTTPCode(domainErr.Code),
		}
		if domainErr.Message != "" {
			response["error_description"] = domainErr.Message
		}
		var fe FieldErrorer
		if errors.As(err, &fe) {
			response["fields"] = fe.FieldErrors()
		}
		WriteJSON(w, status, response)
		return
	}

	// Fallback for unexpected errors
	WriteJSON(w, http.StatusInternalServerError, map[string]any{
		"error": DomainCodeToHTTPCode(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest
	case dErrors.CodeConflict, dErrors.CodeStaleSession, dErrors.CodeInvalidState:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden, dErrors.CodeMissingConsent:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeRegistryUnavailable:
		return http.StatusBadGateway
	case dErrors.CodeRegistryRejected, dErrors.CodeAllocationShortfall:
		return http.StatusBadGateway
	case dErrors.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode translates domain error codes to HTTP error codes (for JSON response).
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return "bad_request"
	case dErrors.CodeValidation, dErrors.CodeInvariantViolation:
		return "validation_error"
	case dErrors.CodeConflict:
		return "conflict"
	case dErrors.CodeInvalidState:
		return "invalid_state"
	case dErrors.CodeStaleSession:
		return "stale_session"
	case dErrors.CodeUnauthorized:
		return "unauthorized"
	case dErrors.CodeForbidden:
		return "forbidden"
	case dErrors.CodeMissingConsent:
		return "missing_consent"
	case dErrors.CodeTimeout:
		return "registry_timeout"
	case dErrors.CodeRegistryUnavailable:
		return "registry_unavailable"
	case dErrors.CodeRegistryRejected:
		return "registry_rejected"
	case dErrors.CodeAllocationShortfall:
		return "allocation_shortfall"
	case dErrors.CodeInternal:
		return "internal_error"
	default:
		return "internal_error"
	}
}
