// Package auth provides session token issue/verify, password hashing, and
// federated identity verification for the account service.
//
// SESSION SCHEME:
// A successful signup, signin, or federated auth issues a signed JWT carrying
// an id claim (the internal user ID) and an admin claim. The token is
// stateless — the server keeps no session store; the HMAC signature alone
// proves the claims were issued here.
//
// NOTE ON EXPIRY:
// Tokens carry no exp or iat claim. Sessions never expire on their own; a
// client holds its token until it discards it. This mirrors the behaviour of
// the service's previous deployment and is a deliberate, recorded decision —
// adding expiry would invalidate every outstanding session on rollout.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/account-service/internal/apperror"
)

// SessionClaims is the JWT payload: the user's internal ID and whether the
// account holds the admin privilege. The json tags fix the wire names — "id"
// and "admin" — which clients and the middleware both rely on.
type SessionClaims struct {
	UserID string `json:"id"`
	Admin  bool   `json:"admin"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens.
//
// It holds the process-wide HMAC secret, established once at startup and
// read-only thereafter. The same secret signs and verifies.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: signing secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Issue creates and signs a session token for the given user.
//
// Signing algorithm: HS256 (HMAC-SHA256). Symmetric, fast, fine for a
// single-service deployment where issuer and verifier share a process.
func (s *TokenService) Issue(userID string, admin bool) (string, error) {
	c := SessionClaims{
		UserID: userID,
		Admin:  admin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and verifies a session token string, returning its claims.
//
// jwt.WithValidMethods pins the algorithm to HS256 — without it an attacker
// could present a token signed with a different (or no) algorithm and the
// parser might accept it. Any signature or format failure comes back as a
// token_invalid AppError; expiry is not checked because tokens carry none.
func (s *TokenService) Verify(tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&SessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return nil, apperror.Unauthorized(apperror.CodeTokenInvalid, "Access token is invalid")
	}

	c, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, apperror.Unauthorized(apperror.CodeTokenInvalid, "Access token is invalid")
	}

	if c.UserID == "" {
		return nil, apperror.Unauthorized(apperror.CodeTokenInvalid, "Access token is invalid")
	}

	return c, nil
}
