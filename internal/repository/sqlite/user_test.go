package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/model"
)

// newTestDB returns a *DB backed by an in-memory SQLite database that is
// closed when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a user and fails the test on error.
func createTestUser(t *testing.T, db *DB, email, username string) *model.User {
	t.Helper()
	user := &model.User{
		PersonalInfo: model.PersonalInfo{
			Fullname:   "Test User",
			Email:      email,
			Username:   username,
			Password:   "$2a$04$fakehashfakehashfakehash",
			ProfileImg: "https://example.com/default.png",
		},
	}
	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CREATE
// =========================================================================

func TestCreate(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "jane@x.com", "jane")

	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "jane@x.com", "jane")

	dup := &model.User{
		PersonalInfo: model.PersonalInfo{Email: "jane@x.com", Username: "jane2"},
	}
	err := db.Create(context.Background(), dup)
	if err == nil {
		t.Fatal("Create() should fail on duplicate email")
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeDuplicateEmail {
		t.Errorf("error = %v, want duplicate_email conflict", err)
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Error("duplicate email should match ErrConflict")
	}
}

func TestCreate_DuplicateUsername(t *testing.T) {
	// The unique index is the authoritative backstop for the allocator's
	// unchecked suffixed form: a lost race lands here.
	db := newTestDB(t)
	createTestUser(t, db, "jane@x.com", "jane")

	dup := &model.User{
		PersonalInfo: model.PersonalInfo{Email: "other@x.com", Username: "jane"},
	}
	err := db.Create(context.Background(), dup)
	if err == nil {
		t.Fatal("Create() should fail on duplicate username")
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeUsernameTaken {
		t.Errorf("error = %v, want username_taken conflict", err)
	}
}

// =========================================================================
// LOOKUPS
// =========================================================================

func TestGetByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "jane@x.com", "jane")

	got, err := db.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.PersonalInfo.Email != "jane@x.com" {
		t.Errorf("Email = %q", got.PersonalInfo.Email)
	}
	if got.PersonalInfo.Password == "" {
		t.Error("password hash not round-tripped")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "ghost")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetByEmail_CaseSensitive(t *testing.T) {
	// Emails are stored and matched exactly.
	db := newTestDB(t)
	createTestUser(t, db, "Jane@x.com", "jane")

	if _, err := db.GetByEmail(context.Background(), "Jane@x.com"); err != nil {
		t.Errorf("exact-case lookup failed: %v", err)
	}
	if _, err := db.GetByEmail(context.Background(), "jane@x.com"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("lower-case lookup = %v, want ErrNotFound", err)
	}
}

func TestGetByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "jane@x.com", "jane")

	got, err := db.GetByUsername(context.Background(), "jane")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %q, want %q", got.ID, created.ID)
	}
}

func TestExistsByUsername(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "jane@x.com", "jane")

	taken, err := db.ExistsByUsername(context.Background(), "jane")
	if err != nil {
		t.Fatalf("ExistsByUsername() error = %v", err)
	}
	if !taken {
		t.Error("ExistsByUsername(jane) = false, want true")
	}

	free, err := db.ExistsByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("ExistsByUsername() error = %v", err)
	}
	if free {
		t.Error("ExistsByUsername(bob) = true, want false")
	}
}

// =========================================================================
// UPDATES
// =========================================================================

func TestUpdatePassword(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "jane@x.com", "jane")

	if err := db.UpdatePassword(context.Background(), created.ID, "$2a$04$newhash"); err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}

	got, _ := db.GetByID(context.Background(), created.ID)
	if got.PersonalInfo.Password != "$2a$04$newhash" {
		t.Errorf("Password = %q", got.PersonalInfo.Password)
	}
}

func TestUpdatePassword_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.UpdatePassword(context.Background(), "ghost", "$2a$04$hash")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateProfileImage(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "jane@x.com", "jane")

	// Twice with the same URL: both succeed, value unchanged.
	for i := 0; i < 2; i++ {
		if err := db.UpdateProfileImage(context.Background(), created.ID, "https://cdn.x.com/me.png"); err != nil {
			t.Fatalf("call %d: UpdateProfileImage() error = %v", i+1, err)
		}
	}

	got, _ := db.GetByID(context.Background(), created.ID)
	if got.PersonalInfo.ProfileImg != "https://cdn.x.com/me.png" {
		t.Errorf("ProfileImg = %q", got.PersonalInfo.ProfileImg)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "jane@x.com", "jane")

	links := model.SocialLinks{
		GitHub:  "https://github.com/jane",
		Website: "https://jane.io",
	}
	if err := db.UpdateProfile(context.Background(), created.ID, "jane_doe", "my bio", links); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	got, _ := db.GetByID(context.Background(), created.ID)
	if got.PersonalInfo.Username != "jane_doe" || got.PersonalInfo.Bio != "my bio" {
		t.Errorf("profile = %q / %q", got.PersonalInfo.Username, got.PersonalInfo.Bio)
	}
	if got.SocialLinks.GitHub != links.GitHub || got.SocialLinks.Website != links.Website {
		t.Errorf("links = %+v", got.SocialLinks)
	}
}

func TestUpdateProfile_UsernameTaken(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "jane@x.com", "jane")
	createTestUser(t, db, "bob@x.com", "bob")

	err := db.UpdateProfile(context.Background(), created.ID, "bob", "", model.SocialLinks{})
	if err == nil {
		t.Fatal("UpdateProfile() should fail when the username is taken")
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeUsernameTaken {
		t.Errorf("error = %v, want username_taken conflict", err)
	}
}

func TestUpdateProfile_KeepOwnUsername(t *testing.T) {
	// Re-saving the profile with the unchanged username must not trip the
	// unique index — the row conflicts only with OTHER rows.
	db := newTestDB(t)
	created := createTestUser(t, db, "jane@x.com", "jane")

	if err := db.UpdateProfile(context.Background(), created.ID, "jane", "new bio", model.SocialLinks{}); err != nil {
		t.Fatalf("UpdateProfile() with own username: %v", err)
	}
}

// =========================================================================
// DELETE
// =========================================================================

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "jane@x.com", "jane")

	if err := db.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := db.GetByID(context.Background(), created.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("user still readable after delete: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Delete(context.Background(), "ghost")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDelete_FreesUniqueValues(t *testing.T) {
	// Hard delete: the email and username become available again.
	db := newTestDB(t)
	created := createTestUser(t, db, "jane@x.com", "jane")

	if err := db.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	createTestUser(t, db, "jane@x.com", "jane")
}
