package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/account-service/internal/service"
)

// AuthHandler exposes the authentication endpoints.
//
//	POST /signup        → local account registration
//	POST /signin        → local password login
//	POST /google-auth   → federated auth via google
//	POST /facebook-auth → federated auth via facebook
//
// Each one delegates to AuthService and responds with the uniform
// AuthResult payload on success.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// HandleSignup registers a new account from {fullname, email, password}.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Fullname string `json:"fullname"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.SignUp(r.Context(), req.Fullname, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleSignin authenticates {email, password}.
func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleGoogleAuth authenticates a google-issued access token.
func (h *AuthHandler) HandleGoogleAuth(w http.ResponseWriter, r *http.Request) {
	h.handleFederated(w, r, service.ProviderGoogle)
}

// HandleFacebookAuth authenticates a facebook-issued access token.
func (h *AuthHandler) HandleFacebookAuth(w http.ResponseWriter, r *http.Request) {
	h.handleFederated(w, r, service.ProviderFacebook)
}

func (h *AuthHandler) handleFederated(w http.ResponseWriter, r *http.Request, provider string) {
	var req struct {
		AccessToken string `json:"access_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.FederatedAuth(r.Context(), provider, req.AccessToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
