// Package domainerrors provides coded domain errors. Services return these so
// transports can translate failures into wire responses without string
// matching. Infrastructure facts (not found, conflict) live in
// pkg/platform/sentinel; stores return those and services lift them into
// coded errors at the boundary.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a category of domain failure. Every validation or
// precondition failure surfaces as exactly one code; no error is ever
// silently corrected into a default value.
type Code string

const (
	// State-precondition violations.
	CodeRegistryPaused     Code = "registry_paused"
	CodeAlreadyVerified    Code = "already_verified"
	CodeHumanRecordRevoked Code = "human_record_revoked"
	CodeSessionInactive    Code = "session_inactive"
	CodeSessionExpired     Code = "session_expired"
	CodeUnauthorized       Code = "unauthorized"

	// Input-validation violations.
	CodeInvalidVerificationLevel Code = "invalid_verification_level"
	CodeBehavioralScoreTooLow    Code = "behavioral_score_too_low"
	CodeInvalidContentHash       Code = "invalid_content_hash"
	CodeAuthorityMismatch        Code = "authority_mismatch"
	CodeInvalidInput             Code = "invalid_input"

	// Resource-limit violations.
	CodeInteractionLimitReached Code = "interaction_limit_reached"
	CodeSessionDurationExceeded Code = "session_duration_exceeded"
	CodeInsufficientFunds       Code = "insufficient_funds"

	// Cryptographic mismatch.
	CodeChallengeMismatch Code = "challenge_mismatch"

	// Arithmetic.
	CodeNumericalOverflow Code = "numerical_overflow"

	// Generic transport-facing codes.
	CodeNotFound        Code = "not_found"
	CodeConflict        Code = "conflict"
	CodeBadRequest      Code = "bad_request"
	CodeUnauthenticated Code = "unauthenticated"
	CodeInternal        Code = "internal"
)

// DomainError carries a code plus a human-readable message. It supports
// errors.As/Is chains so wrapped errors keep their code.
type DomainError struct {
	Code    Code
	Message string
	cause   error
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.cause }

// New creates a coded domain error.
func New(code Code, message string) error {
	return &DomainError{Code: code, Message: message}
}

// Wrap creates a coded domain error that preserves an underlying cause.
func Wrap(code Code, message string, cause error) error {
	return &DomainError{Code: code, Message: message, cause: cause}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, falling back to CodeInternal.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain code to an HTTP status. Transport layers own
// the final response shape; this keeps the mapping in one place.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeAlreadyVerified:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeBadRequest, CodeInvalidInput, CodeInvalidVerificationLevel,
		CodeInvalidContentHash, CodeBehavioralScoreTooLow, CodeAuthorityMismatch:
		return http.StatusBadRequest
	case CodeRegistryPaused:
		return http.StatusServiceUnavailable
	case CodeSessionExpired, CodeSessionInactive, CodeHumanRecordRevoked:
		return http.StatusConflict
	case CodeInteractionLimitReached, CodeSessionDurationExceeded:
		return http.StatusUnprocessableEntity
	case CodeChallengeMismatch:
		return http.StatusForbidden
	case CodeInsufficientFunds:
		return http.StatusPaymentRequired
	case CodeNumericalOverflow:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
