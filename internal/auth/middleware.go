package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sakif/account-service/internal/apperror"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means only this package can read or write
// session claims in a request context — no collisions with other packages.
type contextKey string

const claimsKey contextKey = "sessionClaims"

// RequireAuth enforces authentication on protected routes.
//
// It reads the bearer token from the Authorization header
// ("Authorization: Bearer <jwt>"), verifies it, and stores the session
// claims in the request context. A missing token is reported as
// token_missing with 401; a token that fails verification as token_invalid
// with 403. Either way the request chain stops here.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeAuthError(w, http.StatusUnauthorized, apperror.CodeTokenMissing, "No access token")
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				writeAuthError(w, http.StatusForbidden, apperror.CodeTokenInvalid, "Access token is invalid")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retrieves the verified session claims from the request
// context. Returns (nil, false) on routes not behind RequireAuth.
func ClaimsFromContext(ctx context.Context) (*SessionClaims, bool) {
	c, ok := ctx.Value(claimsKey).(*SessionClaims)
	return c, ok && c != nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Returns "" when the header is absent or not in bearer form.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// writeAuthError writes the standard error response shape without importing
// the handler package (which would create an import cycle).
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}
