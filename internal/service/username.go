package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/account-service/internal/repository"
)

// usernameSuffixLen is the length of the random disambiguator appended when
// the email local-part collides with an existing username.
const usernameSuffixLen = 5

// UsernameAllocator derives a candidate username from an email address and
// resolves collisions with a short random suffix.
//
// The allocation is best-effort, not authoritative: after a collision it
// appends the suffix and returns WITHOUT re-checking uniqueness of the
// suffixed form. The residual collision probability is accepted — the users
// table's unique index is the real guard, and a losing write surfaces as a
// username conflict at persistence time.
type UsernameAllocator struct {
	repo repository.UserRepository
}

// NewUsernameAllocator creates an allocator backed by the given repository.
func NewUsernameAllocator(repo repository.UserRepository) *UsernameAllocator {
	return &UsernameAllocator{repo: repo}
}

// Allocate returns a username for the given email: the substring before the
// "@", suffixed with 5 random alphanumeric characters only when that exact
// name is already taken. Its only side effect is the existence query.
func (a *UsernameAllocator) Allocate(ctx context.Context, email string) (string, error) {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return "", fmt.Errorf("service: cannot derive username from email %q", email)
	}

	taken, err := a.repo.ExistsByUsername(ctx, local)
	if err != nil {
		return "", fmt.Errorf("service: checking username availability: %w", err)
	}
	if !taken {
		return local, nil
	}

	return local + randomSuffix(), nil
}

// randomSuffix returns 5 characters drawn from an xid.
//
// An xid encodes as 20 base32hex characters ([0-9a-v]); the leading
// characters are timestamp-derived and barely change between calls, so we
// take the TRAILING characters, which come from the random/counter portion
// and differ on every call.
func randomSuffix() string {
	id := xid.New().String()
	return id[len(id)-usernameSuffixLen:]
}
