package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"civiclens/internal/api"
	cerrors "civiclens/internal/errors"
)

// userinfoURL is a variable so tests can point the provider at a local
// server.
var userinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleProvider resolves real OAuth access tokens against the Google
// userinfo endpoint. The demo flows (email, OTP, signup) are inherited
// from the mock provider; only Google sign-in goes over the network.
type GoogleProvider struct {
	*MockProvider
	clientID string
	base     *http.Client
}

// NewGoogleProvider creates a provider for the given OAuth client id.
func NewGoogleProvider(clientID string, timeout time.Duration) *GoogleProvider {
	return &GoogleProvider{
		MockProvider: NewMockProvider(),
		clientID:     clientID,
		base:         api.NewHTTPClient(timeout),
	}
}

// userinfoResponse is the subset of the Google userinfo payload the
// app needs.
type userinfoResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// GoogleSignIn exchanges an OAuth access token for the citizen's
// Google profile.
func (p *GoogleProvider) GoogleSignIn(ctx context.Context, token string) (User, error) {
	if strings.TrimSpace(token) == "" {
		return User{}, cerrors.NewValidationError("token", "an access token is required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.base)
	client := oauth2.NewClient(ctx, ts)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoURL, nil)
	if err != nil {
		return User{}, cerrors.NewServiceCallError("google", "failed to create request", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return User{}, cerrors.NewServiceCallError("google", "userinfo request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return User{}, cerrors.NewValidationError("token", "the access token was rejected")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return User{}, cerrors.NewServiceCallError("google",
			fmt.Sprintf("userinfo returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var info userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return User{}, cerrors.NewServiceCallError("google", "failed to decode userinfo", err)
	}
	if info.Email == "" {
		return User{}, cerrors.NewServiceCallError("google", "userinfo response had no email", nil)
	}

	name := info.Name
	if name == "" {
		name = userFromEmail(info.Email).Name
	}
	return User{Name: name, Email: info.Email, Picture: info.Picture}, nil
}
