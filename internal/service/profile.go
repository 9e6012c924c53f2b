package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/model"
	"github.com/sakif/account-service/internal/repository"
)

// ProfileService guards profile mutations: password change, profile image
// overwrite, profile field updates, and account deletion. Every operation
// takes the user ID from an already-verified session token — the HTTP layer
// never passes through an unauthenticated ID.
type ProfileService struct {
	repo      repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger

	bioLimit       int
	minUsernameLen int
}

// NewProfileService creates a ProfileService. bioLimit and minUsernameLen
// come from configuration (150 and 3 unless overridden).
func NewProfileService(
	repo repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
	bioLimit, minUsernameLen int,
) *ProfileService {
	if bioLimit <= 0 {
		bioLimit = 150
	}
	if minUsernameLen <= 0 {
		minUsernameLen = 3
	}
	return &ProfileService{
		repo:           repo,
		passwords:      passwords,
		logger:         logger,
		bioLimit:       bioLimit,
		minUsernameLen: minUsernameLen,
	}
}

// ChangePassword verifies the current password and replaces it with a new
// one. Accounts linked to google cannot change a password here — they are
// refused before any hash comparison, mirroring the signin-side rules.
// Both passwords must satisfy the signup password policy.
func (s *ProfileService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if !validPassword(current) || !validPassword(next) {
		return apperror.ValidationFailed("password", passwordPolicyMessage)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.GoogleAuth {
		return apperror.Forbidden(apperror.CodeNoPasswordAuth,
			"You can't change account's password because you logged in through google")
	}

	if err := s.passwords.Verify(user.PersonalInfo.Password, current); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == apperror.CodeWrongPassword {
			return apperror.Unauthorized(apperror.CodeWrongPassword, "Incorrect current password")
		}
		return err
	}

	hashed, err := s.passwords.Hash(next)
	if err != nil {
		return fmt.Errorf("service: hashing new password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}

	s.logger.Info("password changed", slog.String("userID", userID))
	return nil
}

// UpdateProfileImage overwrites the stored profile image URL.
//
// Beyond requiring a non-empty value, the URL is deliberately not validated
// — the previous deployment accepted anything here and stored clients
// depend on that. The overwrite is idempotent: repeating the same URL is a
// no-op that still succeeds.
func (s *ProfileService) UpdateProfileImage(ctx context.Context, userID, imgURL string) error {
	if imgURL == "" {
		return apperror.ValidationFailed("url", "Image URL is required")
	}

	if err := s.repo.UpdateProfileImage(ctx, userID, imgURL); err != nil {
		return err
	}

	s.logger.Info("profile image updated", slog.String("userID", userID))
	return nil
}

// UpdateProfile validates and persists username, bio, and social links as
// one atomic write.
//
// Social-link rule: a non-empty value must parse as a URL with a hostname,
// and that hostname must contain "<key>.com" — except for the "website"
// key, which accepts any hostname. A repository uniqueness conflict on the
// new username surfaces as username_taken.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID, username, bio string, links model.SocialLinks) error {
	if err := validation.Validate(username,
		validation.Required.Error("Username should be at least 3 letters long"),
		validation.Length(s.minUsernameLen, 0).Error("Username should be at least 3 letters long"),
	); err != nil {
		return apperror.ValidationFailed("username", err.Error())
	}

	if err := validation.Validate(bio,
		validation.Length(0, s.bioLimit).Error(fmt.Sprintf("Bio should not be more than %d characters", s.bioLimit)),
	); err != nil {
		return apperror.ValidationFailed("bio", err.Error())
	}

	if err := validateSocialLinks(links); err != nil {
		return err
	}

	if err := s.repo.UpdateProfile(ctx, userID, username, bio, links); err != nil {
		return err
	}

	s.logger.Info("profile updated",
		slog.String("userID", userID),
		slog.String("username", username),
	)
	return nil
}

// validateSocialLinks checks every non-empty link in provider order, so the
// first offending key wins.
func validateSocialLinks(links model.SocialLinks) error {
	for _, key := range model.SocialProviders {
		value := links.ByProvider(key)
		if value == "" {
			continue
		}

		parsed, err := url.Parse(value)
		if err != nil || parsed.Hostname() == "" {
			return apperror.MalformedURL(key)
		}

		if key != "website" && !strings.Contains(parsed.Hostname(), key+".com") {
			return apperror.InvalidSocialLink(key)
		}
	}
	return nil
}

// GetPublicProfile returns the redacted profile for a username: personal
// info minus the password hash, social links, and the join date. Provider
// flags and the admin bit stay private.
func (s *ProfileService) GetPublicProfile(ctx context.Context, username string) (*model.PublicProfile, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Code:    apperror.CodeUserNotFound,
				Message: fmt.Sprintf("user not found with username %s", username),
			}
		}
		return nil, err
	}

	return user.Public(), nil
}

// DeleteAccount hard-deletes the user record. Deleting an id that no longer
// exists returns user_not_found — absence is an error, never a silent
// success.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("account deleted", slog.String("userID", userID))
	return nil
}
