package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// okHandler records whether the inner handler ran and echoes the claims it
// finds in the request context.
func okHandler(t *testing.T, ran *bool, wantUserID string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*ran = true
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Error("claims missing from context inside protected handler")
			return
		}
		if claims.UserID != wantUserID {
			t.Errorf("UserID = %q, want %q", claims.UserID, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_MissingToken(t *testing.T) {
	ts := newTestTokenService(t)
	ran := false
	h := RequireAuth(ts)(okHandler(t, &ran, ""))

	req := httptest.NewRequest(http.MethodPost, "/change-password", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if ran {
		t.Error("inner handler ran without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	ts := newTestTokenService(t)
	ran := false
	h := RequireAuth(ts)(okHandler(t, &ran, ""))

	req := httptest.NewRequest(http.MethodPost, "/change-password", nil)
	req.Header.Set("Authorization", "Token abc123") // not bearer form
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if ran {
		t.Error("inner handler ran with a malformed Authorization header")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	ts := newTestTokenService(t)
	ran := false
	h := RequireAuth(ts)(okHandler(t, &ran, ""))

	req := httptest.NewRequest(http.MethodPost, "/change-password", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if ran {
		t.Error("inner handler ran with an invalid token")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Issue("user-42", true)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	ran := false
	h := RequireAuth(ts)(okHandler(t, &ran, "user-42"))

	req := httptest.NewRequest(http.MethodPost, "/change-password", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !ran {
		t.Fatal("inner handler did not run with a valid token")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestClaimsFromContext_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := ClaimsFromContext(req.Context()); ok {
		t.Error("ClaimsFromContext returned claims for an anonymous request")
	}
}
