// Package auth — password hashing utilities.
//
// WHY BCRYPT?
// bcrypt is a password hashing function designed to be slow. That slowness
// is the point: it makes offline brute-force expensive while staying cheap
// enough for a single login check.
//
// bcrypt automatically:
//   - Generates a random salt (two users with the same password get different hashes)
//   - Embeds the salt in the output (no separate salt column needed)
//   - Controls the work factor via "cost"
//
// Plaintext passwords are never stored and never logged anywhere in this
// service — they exist only transiently inside Hash and Verify.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/account-service/internal/apperror"
)

// DefaultCost is the bcrypt work factor used when none is configured.
// 10 rounds matches the cost the original deployment of this service used;
// tune via BCRYPT_COST so hashing lands around 100–300ms on your hardware.
const DefaultCost = 10

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so the cost can be injected — tests use
// the bcrypt minimum (4) to avoid paying the full work factor per hash.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the given work factor.
// A cost of 0 (or anything below the bcrypt minimum) falls back to DefaultCost.
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost {
		cost = DefaultCost
	}
	return &PasswordService{cost: cost}
}

// NewPasswordServiceForTest creates a PasswordService with bcrypt cost 4
// (the minimum allowed). Do NOT use in production.
func NewPasswordServiceForTest() *PasswordService {
	return &PasswordService{cost: bcrypt.MinCost}
}

// Hash hashes the given plaintext password with bcrypt.
//
// The output is self-contained (salt and cost embedded) and goes straight
// into the password_hash column. Returns an error if the plaintext exceeds
// bcrypt's 72-byte limit — we reject explicitly rather than let bcrypt
// silently truncate.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
//
// Returns nil on a match. A mismatch returns an incorrect_password AppError;
// a structurally broken hash (wrong prefix, truncated) returns a plain error
// so callers can tell corrupt data apart from a wrong password.
//
// An empty stored hash means the account has no password at all (it was
// created through a federated provider). That is an incorrect_password
// outcome, not corrupt data — bcrypt would otherwise report the empty
// string as a too-short hash.
//
// bcrypt.CompareHashAndPassword compares in constant time internally, so
// response timing does not leak how much of the password was right.
func (p *PasswordService) Verify(hash, plaintext string) error {
	if hash == "" {
		return apperror.Unauthorized(apperror.CodeWrongPassword, "Incorrect password")
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperror.Unauthorized(apperror.CodeWrongPassword, "Incorrect password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
