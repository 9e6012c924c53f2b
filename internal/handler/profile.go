package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/model"
	"github.com/sakif/account-service/internal/service"
)

// ProfileHandler exposes the profile mutation and lookup endpoints.
//
//	POST   /change-password     (auth) → rotate the account password
//	POST   /get-profile                → public profile lookup by username
//	POST   /update-profile-img  (auth) → overwrite the profile image URL
//	POST   /update-profile      (auth) → username / bio / social links
//	DELETE /delete-user         (auth) → hard-delete the account
//
// Auth-gated routes read the user ID from the session claims the
// RequireAuth middleware stored in the request context.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// HandleChangePassword rotates the caller's password.
func (h *ProfileHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(apperror.CodeTokenMissing, "No access token"))
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.profiles.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password changed successfully"})
}

// HandleGetProfile returns the public profile for {username}.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profiles.GetPublicProfile(r.Context(), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleUpdateProfileImage overwrites the caller's profile image URL.
func (h *ProfileHandler) HandleUpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(apperror.CodeTokenMissing, "No access token"))
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.profiles.UpdateProfileImage(r.Context(), claims.UserID, req.URL); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "Profile image updated successfully"})
}

// HandleUpdateProfile updates the caller's username, bio, and social links.
func (h *ProfileHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(apperror.CodeTokenMissing, "No access token"))
		return
	}

	var req struct {
		Username    string            `json:"username"`
		Bio         string            `json:"bio"`
		SocialLinks model.SocialLinks `json:"social_links"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.profiles.UpdateProfile(r.Context(), claims.UserID, req.Username, req.Bio, req.SocialLinks); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "User updated successfully"})
}

// HandleDeleteUser hard-deletes the caller's account.
func (h *ProfileHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(apperror.CodeTokenMissing, "No access token"))
		return
	}

	if err := h.profiles.DeleteAccount(r.Context(), claims.UserID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
