package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/sakif/account-service/internal/apperror"
)

// ExternalIdentity is what a federated provider asserts about a user after
// its token has been verified: an email, a display name, and a picture URL.
// It is everything the identity resolver needs to log in or create an account.
type ExternalIdentity struct {
	Email   string
	Name    string
	Picture string
}

// IdentityVerifier verifies a provider-issued token and returns the identity
// it asserts. Implementations call out to the provider; tests supply fakes.
// Any provider-side rejection must come back as a federation_failed AppError.
type IdentityVerifier interface {
	Verify(ctx context.Context, accessToken string) (*ExternalIdentity, error)
}

// GoogleVerifier verifies Google access tokens by presenting them to
// Google's userinfo endpoint. A token the provider rejects gets a non-200
// response; a token it accepts returns the profile fields we need.
//
// The oauth2 package does the transport work: oauth2.NewClient with a
// StaticTokenSource yields an *http.Client that attaches
// "Authorization: Bearer <token>" to every request.
type GoogleVerifier struct {
	// UserInfoURL is overridable for tests; zero value uses Google's endpoint.
	UserInfoURL string
}

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

func (g *GoogleVerifier) Verify(ctx context.Context, accessToken string) (*ExternalIdentity, error) {
	endpoint := g.UserInfoURL
	if endpoint == "" {
		endpoint = googleUserInfoURL
	}

	var payload struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := fetchUserInfo(ctx, endpoint, accessToken, &payload); err != nil {
		return nil, apperror.External("Failed to authenticate you with google. Try with some other google account", err)
	}
	if payload.Email == "" {
		return nil, apperror.External("Failed to authenticate you with google. Try with some other google account",
			fmt.Errorf("auth: google userinfo response has no email"))
	}

	return &ExternalIdentity{
		Email:   payload.Email,
		Name:    payload.Name,
		Picture: payload.Picture,
	}, nil
}

// FacebookVerifier verifies Facebook access tokens against the Graph API
// /me endpoint. Facebook nests the picture URL one level deeper than Google,
// so the response shape differs.
type FacebookVerifier struct {
	// UserInfoURL is overridable for tests; zero value uses the Graph API.
	UserInfoURL string
}

const facebookUserInfoURL = "https://graph.facebook.com/me?fields=name,email,picture.width(384)"

func (f *FacebookVerifier) Verify(ctx context.Context, accessToken string) (*ExternalIdentity, error) {
	endpoint := f.UserInfoURL
	if endpoint == "" {
		endpoint = facebookUserInfoURL
	}

	var payload struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := fetchUserInfo(ctx, endpoint, accessToken, &payload); err != nil {
		return nil, apperror.External("Failed to authenticate you with facebook. Try with some other facebook account", err)
	}
	if payload.Email == "" {
		return nil, apperror.External("Failed to authenticate you with facebook. Try with some other facebook account",
			fmt.Errorf("auth: facebook userinfo response has no email"))
	}

	return &ExternalIdentity{
		Email:   payload.Email,
		Name:    payload.Name,
		Picture: payload.Picture.Data.URL,
	}, nil
}

// fetchUserInfo GETs a provider userinfo endpoint with the given bearer
// token and decodes the JSON response into out.
func fetchUserInfo(ctx context.Context, endpoint, accessToken string, out any) error {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	client := oauth2.NewClient(ctx, src)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("auth: building userinfo request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("auth: calling userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth: userinfo endpoint returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("auth: decoding userinfo response: %w", err)
	}

	return nil
}
