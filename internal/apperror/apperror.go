// Package apperror defines the application's error taxonomy.
//
// Every failure the service layer can produce is wrapped in an *AppError
// carrying three things:
//   - a sentinel (Err) that handlers match with errors.Is to pick an HTTP status
//   - a stable machine-readable Code clients can branch on
//   - a human-readable Message reported verbatim
//
// No error in this taxonomy is fatal to the process; every one is returned
// to the caller as a structured response.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinels. Handlers map these to HTTP status codes; services wrap them
// via the constructor functions below.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrExternal     = errors.New("external dependency error")
)

// Stable error codes. These are part of the API contract — renaming one is
// a breaking change for clients that branch on the "error" response field.
const (
	CodeValidation     = "validation_error"
	CodeTokenMissing   = "token_missing"
	CodeTokenInvalid   = "token_invalid"
	CodeWrongPassword  = "incorrect_password"
	CodeFederatedOnly  = "federated_only_account"
	CodeProviderClash  = "provider_mismatch"
	CodeNoPasswordAuth = "password_change_unsupported"
	CodeDuplicateEmail = "duplicate_email"
	CodeUsernameTaken  = "username_taken"
	CodeUserNotFound   = "user_not_found"
	CodeMalformedURL   = "malformed_url"
	CodeBadSocialLink  = "invalid_social_link"
	CodeFederation     = "federation_failed"
)

// AppError is a structured application error.
type AppError struct {
	Err     error  // sentinel, for errors.Is matching
	Code    string // stable machine-readable kind
	Message string // human-readable error message
	Field   string // optional: field or key causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed reports malformed user input on a named field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    CodeValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthorized reports an authentication failure with the given code.
func Unauthorized(code, message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Code:    code,
		Message: message,
	}
}

// Forbidden reports an operation the authenticated account may not perform.
func Forbidden(code, message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Code:    code,
		Message: message,
	}
}

// Conflict reports a persistence-layer uniqueness violation. Surfaced
// distinctly from validation so a client can offer "choose another" UX.
func Conflict(code, field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// MalformedURL reports a social-link value that is not a parseable URL.
func MalformedURL(field string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    CodeMalformedURL,
		Message: "You must provide full social links with http(s) included",
		Field:   field,
	}
}

// InvalidSocialLink reports a social link whose hostname does not belong to
// the provider named by key.
func InvalidSocialLink(key string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    CodeBadSocialLink,
		Message: fmt.Sprintf("%s link is invalid. You must enter a full link", key),
		Field:   key,
	}
}

// NotFound reports a missing user record.
func NotFound(id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Code:    CodeUserNotFound,
		Message: fmt.Sprintf("user not found with id %s", id),
	}
}

// External reports a provider-side failure during federated verification.
func External(message string, cause error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrExternal, cause),
		Code:    CodeFederation,
		Message: message,
	}
}
