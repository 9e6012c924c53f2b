package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("fullname", "fullname is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict(CodeDuplicateEmail, "email", "Email already exists"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized(CodeTokenInvalid, "Access token is invalid"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden(CodeNoPasswordAuth, "account uses google login"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "External wraps ErrExternal",
			err:       External("provider rejected token", errors.New("boom")),
			target:    ErrExternal,
			wantMatch: true,
		},
		{
			name:      "External preserves the cause in the chain",
			err:       External("provider rejected token", errTestCause),
			target:    errTestCause,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Conflict does NOT match ErrNotFound",
			err:       Conflict(CodeUsernameTaken, "username", "username is already taken"),
			target:    ErrNotFound,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

var errTestCause = errors.New("test cause")

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantCode string
	}{
		{"validation", ValidationFailed("email", "Email is invalid"), CodeValidation},
		{"token missing", Unauthorized(CodeTokenMissing, "No access token"), CodeTokenMissing},
		{"duplicate email", Conflict(CodeDuplicateEmail, "email", "Email already exists"), CodeDuplicateEmail},
		{"not found", NotFound("abc123"), CodeUserNotFound},
		{"federation", External("provider rejected token", nil), CodeFederation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	// .Error() must return the human-readable message verbatim — it is
	// reported to the caller as-is.
	err := ValidationFailed("password", "Password should be 6 to 20 characters long")
	if got := err.Error(); got != "Password should be 6 to 20 characters long" {
		t.Errorf("Error() = %q", got)
	}

	nf := NotFound("abc123")
	if got := nf.Error(); got != "user not found with id abc123" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidationFailedField(t *testing.T) {
	// The Field lets handlers tell the frontend WHICH input was invalid.
	err := ValidationFailed("email", "invalid email format")
	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
}

func TestConflictField(t *testing.T) {
	err := Conflict(CodeUsernameTaken, "username", "username is already taken")
	if err.Field != "username" {
		t.Errorf("Field = %q, want %q", err.Field, "username")
	}
}
