package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/batchpricer/internal/models"
)

type memUsers struct {
	byEmail map[string]*models.User
}

func (m *memUsers) CreateUser(_ context.Context, user *models.User) error {
	if m.byEmail == nil {
		m.byEmail = make(map[string]*models.User)
	}
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	m.byEmail[user.Email] = user
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.byEmail[email], nil
}

func (m *memUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func newTestAuthenticator() *PasswordAuthenticator {
	return NewPasswordAuthenticator(&memUsers{}, WithBcryptCost(bcrypt.MinCost))
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()

	user, err := a.Register(ctx, "  Baker@Example.com ", "Baker", "correct-horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "baker@example.com" {
		t.Errorf("Email = %q, want normalized", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "correct-horse" {
		t.Error("expected password to be hashed")
	}

	if _, err := a.Register(ctx, "baker@example.com", "Again", "another-pass"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate Register error = %v, want ErrEmailExists", err)
	}
	if _, err := a.Register(ctx, "new@example.com", "New", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("weak Register error = %v, want ErrWeakPassword", err)
	}

	got, err := a.Authenticate(ctx, "BAKER@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Authenticate returned %q, want %q", got.ID, user.ID)
	}

	if _, err := a.Authenticate(ctx, "baker@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := a.Authenticate(ctx, "ghost@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", err)
	}
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "u1", Email: "baker@example.com", DisplayName: "Baker"}

	token, expiresAt, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("expected expiry in the future")
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	want := Operator{ID: "u1", Email: "baker@example.com", DisplayName: "Baker"}
	if got := claims.Operator(); got != want {
		t.Errorf("Operator() = %+v, want %+v", got, want)
	}

	other := NewJWTManager("other-secret", time.Hour)
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret error = %v, want ErrInvalidToken", err)
	}

	expired := NewJWTManager("test-secret", -time.Minute)
	old, _, err := expired.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := m.Validate(old); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token error = %v, want ErrInvalidToken", err)
	}

	if _, err := m.Validate(strings.Repeat("x", 20)); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTManagerRejectsForeignTokens(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	now := time.Now()

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("SignedString failed: %v", err)
		}
		return s
	}
	registered := func(issuer, subject string, expires bool) jwt.RegisteredClaims {
		rc := jwt.RegisteredClaims{Issuer: issuer, Subject: subject, IssuedAt: jwt.NewNumericDate(now)}
		if expires {
			rc.ExpiresAt = jwt.NewNumericDate(now.Add(time.Hour))
		}
		return rc
	}

	tests := []struct {
		name  string
		token string
	}{
		{"other issuer", sign(jwt.SigningMethodHS256, []byte("test-secret"), &Claims{RegisteredClaims: registered("someone-else", "u1", true)})},
		{"no expiry", sign(jwt.SigningMethodHS256, []byte("test-secret"), &Claims{RegisteredClaims: registered(tokenIssuer, "u1", false)})},
		{"no subject", sign(jwt.SigningMethodHS256, []byte("test-secret"), &Claims{RegisteredClaims: registered(tokenIssuer, "", true)})},
		{"other algorithm", sign(jwt.SigningMethodHS512, []byte("test-secret"), &Claims{RegisteredClaims: registered(tokenIssuer, "u1", true)})},
		{"unsigned", sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, &Claims{RegisteredClaims: registered(tokenIssuer, "u1", true)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
