package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/account-service/internal/apperror"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

// =========================================================================
// CONSTRUCTION
// =========================================================================

func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := NewTokenService("short")
	if err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}
}

// =========================================================================
// ISSUE / VERIFY ROUND TRIP
// =========================================================================

func TestIssueVerifyRoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	tests := []struct {
		name   string
		userID string
		admin  bool
	}{
		{"regular user", "user-123", false},
		{"admin user", "admin-456", true},
		{"xid-shaped id", "cv37rs3pp9olc6atsptg", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ts.Issue(tt.userID, tt.admin)
			if err != nil {
				t.Fatalf("Issue() error = %v", err)
			}
			if strings.Count(token, ".") != 2 {
				t.Errorf("token %q is not header.payload.signature shaped", token)
			}

			claims, err := ts.Verify(token)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if claims.UserID != tt.userID {
				t.Errorf("UserID = %q, want %q", claims.UserID, tt.userID)
			}
			if claims.Admin != tt.admin {
				t.Errorf("Admin = %v, want %v", claims.Admin, tt.admin)
			}
		})
	}
}

func TestTokensCarryNoExpiry(t *testing.T) {
	// Sessions are non-expiring: the token must verify with no exp claim
	// and no issued-at claim present.
	ts := newTestTokenService(t)

	token, err := ts.Issue("user-123", false)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.ExpiresAt != nil {
		t.Error("token carries an exp claim; sessions must not expire")
	}
	if claims.IssuedAt != nil {
		t.Error("token carries an iat claim")
	}
}

// =========================================================================
// VERIFY FAILURE PATHS
// =========================================================================

func TestVerify_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Issue("user-123", false)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Flip a character in the signature part.
	tampered := token[:len(token)-2] + "xx"
	_, err = ts.Verify(tampered)
	if err == nil {
		t.Fatal("Verify() accepted a tampered token")
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeTokenInvalid {
		t.Errorf("Verify() error = %v, want token_invalid AppError", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	ts := newTestTokenService(t)
	other, err := NewTokenService("a-completely-different-secret!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := other.Issue("user-123", true)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := ts.Verify(token); err == nil {
		t.Fatal("Verify() accepted a token signed with a different secret")
	}
}

func TestVerify_Garbage(t *testing.T) {
	ts := newTestTokenService(t)

	for _, bad := range []string{"", "garbage", "a.b.c", "a.b"} {
		if _, err := ts.Verify(bad); err == nil {
			t.Errorf("Verify(%q) should fail", bad)
		}
	}
}

func TestVerify_EmptySubject(t *testing.T) {
	// A structurally valid token with no id claim must be rejected —
	// there is no identity to bind the session to.
	ts := newTestTokenService(t)

	token, err := ts.Issue("", false)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := ts.Verify(token); err == nil {
		t.Fatal("Verify() accepted a token with an empty id claim")
	}
}

func TestVerify_UnsignedAlgorithmRejected(t *testing.T) {
	// A token using alg "none" must never verify, even with a matching
	// payload shape.
	ts := newTestTokenService(t)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{UserID: "user-123"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing with none: %v", err)
	}

	if _, err := ts.Verify(raw); err == nil {
		t.Fatal("Verify() accepted an unsigned token")
	}
}
