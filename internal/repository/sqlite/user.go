package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/model"
	"github.com/sakif/account-service/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, fullname, email, username, password_hash, profile_img, bio,
	link_youtube, link_facebook, link_twitter, link_github, link_instagram, link_website,
	admin, google_auth, facebook_auth, created_at, updated_at`

// Create inserts a new user row, generating the internal ID and timestamps.
//
// A UNIQUE violation on email or username is mapped to a conflict error
// rather than wrapped as an opaque failure — this is the authoritative
// enforcement point for both invariants, including the benign race where two
// first-time federated logins for the same email both pass the lookup: the
// second INSERT lands here and fails.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.PersonalInfo.Fullname,
		user.PersonalInfo.Email,
		user.PersonalInfo.Username,
		user.PersonalInfo.Password,
		user.PersonalInfo.ProfileImg,
		user.PersonalInfo.Bio,
		user.SocialLinks.YouTube,
		user.SocialLinks.Facebook,
		user.SocialLinks.Twitter,
		user.SocialLinks.GitHub,
		user.SocialLinks.Instagram,
		user.SocialLinks.Website,
		user.Admin,
		user.GoogleAuth,
		user.FacebookAuth,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if conflict := asConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.PersonalInfo.Email, err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getOne(ctx, "id", id)
}

// GetByEmail retrieves a user by email. The lookup is exact — emails are
// stored and compared case-sensitively.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getOne(ctx, "email", email)
}

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getOne(ctx, "username", username)
}

func (db *DB) getOne(ctx context.Context, column, value string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`,
		value,
	).Scan(
		&u.ID,
		&u.PersonalInfo.Fullname,
		&u.PersonalInfo.Email,
		&u.PersonalInfo.Username,
		&u.PersonalInfo.Password,
		&u.PersonalInfo.ProfileImg,
		&u.PersonalInfo.Bio,
		&u.SocialLinks.YouTube,
		&u.SocialLinks.Facebook,
		&u.SocialLinks.Twitter,
		&u.SocialLinks.GitHub,
		&u.SocialLinks.Instagram,
		&u.SocialLinks.Website,
		&u.Admin,
		&u.GoogleAuth,
		&u.FacebookAuth,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound(value)
		}
		return nil, fmt.Errorf("sqlite: getting user by %s: %w", column, err)
	}

	return &u, nil
}

// ExistsByUsername reports whether any user already holds the username.
func (db *DB) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, username,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking username %s: %w", username, err)
	}
	return count > 0, nil
}

// UpdatePassword replaces the stored password hash.
func (db *DB) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return db.updateOne(ctx, id,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id,
	)
}

// UpdateProfileImage overwrites the profile image URL. No validation here —
// the guard layer decides what is acceptable.
func (db *DB) UpdateProfileImage(ctx context.Context, id, url string) error {
	return db.updateOne(ctx, id,
		`UPDATE users SET profile_img = ?, updated_at = ? WHERE id = ?`,
		url, time.Now().UTC(), id,
	)
}

// UpdateProfile persists username, bio, and all six social links in one
// statement. A UNIQUE violation on the new username surfaces as a
// username_taken conflict.
func (db *DB) UpdateProfile(ctx context.Context, id, username, bio string, links model.SocialLinks) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, bio = ?,
			link_youtube = ?, link_facebook = ?, link_twitter = ?,
			link_github = ?, link_instagram = ?, link_website = ?,
			updated_at = ?
		 WHERE id = ?`,
		username, bio,
		links.YouTube, links.Facebook, links.Twitter,
		links.GitHub, links.Instagram, links.Website,
		time.Now().UTC(), id,
	)
	if err != nil {
		if conflict := asConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("sqlite: updating profile for user %s: %w", id, err)
	}

	return requireRowHit(res, id)
}

// Delete hard-deletes the user row. Absence is reported as not-found, not
// swallowed — deleting twice is an error the second time.
func (db *DB) Delete(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}
	return requireRowHit(res, id)
}

func (db *DB) updateOne(ctx context.Context, id, query string, args ...any) error {
	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", id, err)
	}
	return requireRowHit(res, id)
}

// requireRowHit turns a zero-row UPDATE/DELETE into a not-found error.
func requireRowHit(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: reading rows affected for user %s: %w", id, err)
	}
	if n == 0 {
		return apperror.NotFound(id)
	}
	return nil
}

// asConflict translates a driver UNIQUE-constraint error into the matching
// conflict AppError, or returns nil when err is some other failure.
//
// modernc.org/sqlite reports constraint violations in the error text as
// "UNIQUE constraint failed: users.<column>". Matching on the text is the
// driver's documented surface for this — there is no typed error to unwrap.
func asConflict(err error) *apperror.AppError {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	switch {
	case strings.Contains(msg, "users.email"):
		return apperror.Conflict(apperror.CodeDuplicateEmail, "email", "Email already exists")
	case strings.Contains(msg, "users.username"):
		return apperror.Conflict(apperror.CodeUsernameTaken, "username", "username is already taken")
	}
	return apperror.Conflict(apperror.CodeUsernameTaken, "", "record conflicts with an existing user")
}
