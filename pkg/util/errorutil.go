package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewCredentialRequired signals a request carrying no Authorization header.
func NewCredentialRequired() error {
	return NewDomainError("CREDENTIAL_REQUIRED", "authorization credential required", http.StatusUnauthorized, nil)
}

// NewInvalidCredential signals a token that failed decoding, signature or expiry checks.
func NewInvalidCredential() error {
	return NewDomainError("INVALID_CREDENTIAL", "invalid or expired credential", http.StatusUnauthorized, nil)
}

// NewUnauthenticated signals a credential whose account is gone or deactivated.
func NewUnauthenticated(message string) error {
	return NewDomainError("UNAUTHENTICATED", message, http.StatusUnauthorized, nil)
}

// NewInsufficientRole signals a role outside the allowed set for the operation.
func NewInsufficientRole() error {
	return NewDomainError("INSUFFICIENT_ROLE", "role not permitted for this operation", http.StatusForbidden, nil)
}

// NewResourceForbidden signals a failed ownership check against a resource.
func NewResourceForbidden(kind string) error {
	return NewDomainError("RESOURCE_FORBIDDEN", fmt.Sprintf("access to this %s is not permitted", kind), http.StatusForbidden, nil)
}

// NewAccessCheckFailed wraps a lookup failure inside an ownership predicate.
func NewAccessCheckFailed(err error) error {
	return &DomainError{
		Code:       "ACCESS_CHECK_FAILED",
		Message:    "resource access check failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewConflict reports uniqueness or dependency violations. The API contract
// surfaces these as 400, not 409.
func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusBadRequest, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
