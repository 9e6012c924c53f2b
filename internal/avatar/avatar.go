// Package avatar resolves a default profile picture for new local-signup
// accounts from a ui-avatars style endpoint.
//
// The resolver never fails. Any problem — timeout, DNS, non-2xx status —
// falls back to the configured default image URL, and the underlying
// error is logged but never returned. Signup must not depend on a
// third-party image service being up.
package avatar

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Resolver fetches generated avatar URLs with a bounded timeout.
type Resolver struct {
	endpoint   string
	defaultURL string
	client     *http.Client
	logger     *slog.Logger
}

// NewResolver creates a Resolver. timeout bounds the whole fetch (connect,
// redirects, body) so a slow avatar service cannot stall signup.
func NewResolver(endpoint, defaultURL string, timeout time.Duration, logger *slog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Resolver{
		endpoint:   endpoint,
		defaultURL: defaultURL,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Resolve returns an avatar URL for the given full name.
//
// It requests the avatar endpoint with the name (QueryEscape renders spaces
// as '+', which the ui-avatars API expects) and returns the final URL after
// redirects. On any failure it returns the default image URL —
// unconditionally, with no error.
func (r *Resolver) Resolve(ctx context.Context, fullname string) string {
	target := r.endpoint + "?name=" + url.QueryEscape(fullname) + "&background=random&size=384"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		r.logger.Warn("avatar: building request failed, using default image",
			slog.String("error", err.Error()),
		)
		return r.defaultURL
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("avatar: fetch failed, using default image",
			slog.String("error", err.Error()),
		)
		return r.defaultURL
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.logger.Warn("avatar: fetch returned non-success status, using default image",
			slog.Int("status", resp.StatusCode),
		)
		return r.defaultURL
	}

	// The service may redirect to the stored image; the final request URL
	// is the stable address worth persisting.
	return resp.Request.URL.String()
}
