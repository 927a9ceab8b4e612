package auth

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"sync"

	cerrors "civiclens/internal/errors"
)

// otpBackdoor always verifies, so the demo flow works without reading
// the issued code.
const otpBackdoor = "123456"

const minPasswordLen = 6

// mockAccounts are the canned Google identities the mock provider
// rotates through.
var mockAccounts = []User{
	{
		Name:    "Rahul Sharma",
		Email:   "rahul.sharma@gmail.com",
		Picture: "https://ui-avatars.com/api/?name=Rahul+Sharma&background=0D8ABC&color=fff",
	},
	{
		Name:    "Priya Patel",
		Email:   "priya.official@work.com",
		Picture: "https://ui-avatars.com/api/?name=Priya+Patel&background=8A2BE2&color=fff",
	},
}

// MockProvider is the demo identity source. No network calls; every
// flow resolves locally.
type MockProvider struct {
	mu   sync.Mutex
	next int               // index of the next canned Google account
	otps map[string]string // phone → issued code
}

// NewMockProvider creates a mock provider with no issued codes.
func NewMockProvider() *MockProvider {
	return &MockProvider{otps: make(map[string]string)}
}

// GoogleSignIn ignores the credential and hands out the next canned
// account.
func (p *MockProvider) GoogleSignIn(ctx context.Context, token string) (User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	u := mockAccounts[p.next%len(mockAccounts)]
	p.next++
	return u, nil
}

// EmailLogin accepts any email with a password of at least six
// characters and derives a display name from the address.
func (p *MockProvider) EmailLogin(ctx context.Context, email, password string) (User, error) {
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		return User{}, cerrors.NewValidationError("email", "a valid email address is required")
	}
	if len(password) < minPasswordLen {
		return User{}, cerrors.NewValidationError("password",
			fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	return userFromEmail(email), nil
}

// SignUp registers a demo account. Name, email and password are all
// required.
func (p *MockProvider) SignUp(ctx context.Context, name, email, password string) (User, error) {
	if strings.TrimSpace(name) == "" {
		return User{}, cerrors.NewValidationError("name", "name is required")
	}
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		return User{}, cerrors.NewValidationError("email", "a valid email address is required")
	}
	if len(password) < minPasswordLen {
		return User{}, cerrors.NewValidationError("password",
			fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	return User{
		Name:    name,
		Email:   email,
		Picture: avatarURL(name),
	}, nil
}

// SendOTP issues a random six-digit code for the phone number and
// returns it for display.
func (p *MockProvider) SendOTP(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if len(phone) < 10 {
		return "", cerrors.NewValidationError("phone", "a 10-digit phone number is required")
	}
	code := fmt.Sprintf("%06d", rand.Intn(1000000))
	p.mu.Lock()
	p.otps[phone] = code
	p.mu.Unlock()
	return code, nil
}

// VerifyOTP checks the issued code. The backdoor code always
// verifies.
func (p *MockProvider) VerifyOTP(ctx context.Context, phone, code string) (User, error) {
	phone = strings.TrimSpace(phone)

	p.mu.Lock()
	issued, issuedOK := p.otps[phone]
	p.mu.Unlock()

	if code != otpBackdoor && (!issuedOK || code != issued) {
		return User{}, cerrors.NewValidationError("otp", "the entered code does not match")
	}

	p.mu.Lock()
	delete(p.otps, phone)
	p.mu.Unlock()

	suffix := phone
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	name := "Citizen " + suffix
	return User{
		Name:    name,
		Email:   fmt.Sprintf("user%s@phone.local", suffix),
		Picture: avatarURL(name),
	}, nil
}

// userFromEmail derives a display profile from an email address, title
// casing the local part.
func userFromEmail(email string) User {
	local := email
	if i := strings.Index(email, "@"); i > 0 {
		local = email[:i]
	}
	words := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	name := strings.Join(words, " ")
	if name == "" {
		name = "Citizen"
	}
	return User{Name: name, Email: email, Picture: avatarURL(name)}
}

func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=0D8ABC&color=fff"
}
