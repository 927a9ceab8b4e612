// Package auth handles citizen identity.
//
// Two Provider variants exist and one is selected once at startup:
//   - GoogleProvider: exchanges an OAuth access token for the Google
//     userinfo profile (requires GOOGLE_CLIENT_ID)
//   - MockProvider: a demo identity source with canned accounts, used
//     whenever no client id is configured
//
// Email, OTP and signup flows are demo-only in both variants; only the
// Google flow differs between them. Sessions persist to a JSON file so
// a restart keeps the citizen signed in.
package auth

import (
	"context"
	"log"

	"civiclens/internal/config"
	cerrors "civiclens/internal/errors"
)

// User is the signed-in citizen's profile.
type User struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

// Provider authenticates citizens.
//
// All methods return a ValidationError on bad credentials and a
// ServiceCallError when an upstream identity service fails.
type Provider interface {
	// GoogleSignIn resolves an OAuth access token (or, for the mock,
	// any opaque credential) to a user profile.
	GoogleSignIn(ctx context.Context, token string) (User, error)

	// EmailLogin signs in with email and password.
	EmailLogin(ctx context.Context, email, password string) (User, error)

	// SignUp registers a new account. All fields are required.
	SignUp(ctx context.Context, name, email, password string) (User, error)

	// SendOTP issues a one-time code for the phone number and returns
	// it so the demo UI can surface it.
	SendOTP(ctx context.Context, phone string) (string, error)

	// VerifyOTP checks the code and signs the citizen in.
	VerifyOTP(ctx context.Context, phone, code string) (User, error)
}

// NewProvider selects the provider variant from configuration.
// Selection happens exactly once; call sites never branch on client id
// presence again.
func NewProvider(cfg *config.Config) Provider {
	google, err := newGoogleFromConfig(cfg)
	if err != nil {
		if cerrors.IsConfigMissing(err) {
			log.Printf("⚠️  %v. Sign-in will use the mock identity provider.", err)
		}
		return NewMockProvider()
	}
	log.Println("✓ Google sign-in configured successfully")
	return google
}

// newGoogleFromConfig builds the Google variant, or reports why the
// configuration cannot support one.
func newGoogleFromConfig(cfg *config.Config) (*GoogleProvider, error) {
	if cfg.GoogleClientID == "" {
		return nil, cerrors.NewConfigMissingError("GOOGLE_CLIENT_ID")
	}
	return NewGoogleProvider(cfg.GoogleClientID, cfg.HTTPTimeout), nil
}
