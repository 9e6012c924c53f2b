// Package repository declares the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/sakif/account-service/internal/model"
)

// UserRepository is the persistence boundary for user accounts.
//
// Implementations must surface uniqueness violations (email, username) as
// apperror.ErrConflict with the appropriate code. The unique indexes are the
// authoritative guard for those invariants — callers such as the username
// allocator only do best-effort pre-checks, and two racing creates for the
// same email are resolved here by letting the second one fail.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// UpdateProfileImage overwrites the profile image URL.
	UpdateProfileImage(ctx context.Context, id, url string) error

	// UpdateProfile persists username, bio, and all social links in a single
	// statement, so the mutation is atomic at the storage level.
	UpdateProfile(ctx context.Context, id, username, bio string, links model.SocialLinks) error

	// Delete hard-deletes the record. Deleting an absent id is an error,
	// not a silent success.
	Delete(ctx context.Context, id string) error
}
