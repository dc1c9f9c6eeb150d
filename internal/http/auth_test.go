package httpapi_test

import (
	"context"
	"net/http"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"vibecommerce/internal/domain"
)

// Seeded passwords are stored as bcrypt hashes, never plaintext.
func TestPasswordsSeededAreHashed(t *testing.T) {
	_, db := newTestApp(t, testConfig())

	var hash string
	if err := db.GetContext(context.Background(), &hash,
		`SELECT password_hash FROM users WHERE email = 'john.doe@example.com'`); err != nil {
		t.Fatal(err)
	}
	if hash == "password123" {
		t.Fatal("seeded password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("password123")); err != nil {
		t.Fatalf("seeded hash does not verify: %v", err)
	}
}

// Login throttling plus success and failure paths.
func TestLoginSuccessFailAndThrottle(t *testing.T) {
	app, _ := newTestApp(t, testConfig())

	status, res := call(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "john.doe@example.com", "password": "wrongpass"}, "")
	if status != http.StatusUnauthorized || res.Error != "Invalid email or password" {
		t.Fatalf("bad creds: got %d %q", status, res.Error)
	}

	status, res = call(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "  "}, "")
	if status != http.StatusBadRequest || res.Error != "Please provide email and password" {
		t.Fatalf("missing creds: got %d %q", status, res.Error)
	}

	status, res = call(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "John.Doe@example.com", "password": "password123"}, "")
	if status != http.StatusOK || !res.Success || res.Token == "" {
		t.Fatalf("good creds: got %d %+v", status, res)
	}
	u := decode[domain.User](t, res.Data)
	if u.Email != "john.doe@example.com" || u.Name != "John Doe" {
		t.Fatalf("unexpected user %+v", u)
	}

	// 3 attempts so far; the limiter allows 10 per window.
	for i := 3; i < 10; i++ {
		call(t, app, http.MethodPost, "/api/auth/login",
			map[string]string{"email": "john.doe@example.com", "password": "nope"}, "")
	}
	status, res = call(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "john.doe@example.com", "password": "password123"}, "")
	if status != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", status)
	}
	if res.Success || res.Error == "" {
		t.Fatalf("429 body should carry an error, got %+v", res)
	}
}

func TestRegisterMeLogout(t *testing.T) {
	app, _ := newTestApp(t, testConfig())

	status, res := call(t, app, http.MethodPost, "/api/auth/register",
		map[string]string{"name": "Ann", "email": "Ann@Example.com", "password": "secret1"}, "")
	if status != http.StatusCreated || res.Token == "" {
		t.Fatalf("register: got %d %q", status, res.Error)
	}
	token := res.Token

	status, res = call(t, app, http.MethodPost, "/api/auth/register",
		map[string]string{"name": "Ann", "email": "ann@example.com", "password": "secret1"}, "")
	if status != http.StatusBadRequest || res.Error != "User with this email already exists" {
		t.Fatalf("duplicate: got %d %q", status, res.Error)
	}

	status, res = call(t, app, http.MethodGet, "/api/auth/me", nil, token)
	if status != http.StatusOK {
		t.Fatalf("me: got %d %q", status, res.Error)
	}
	if me := decode[domain.User](t, res.Data); me.Email != "ann@example.com" {
		t.Fatalf("me: unexpected %+v", me)
	}

	if status, _ = call(t, app, http.MethodPost, "/api/auth/logout", nil, token); status != http.StatusOK {
		t.Fatalf("logout: got %d", status)
	}
	if status, _ = call(t, app, http.MethodGet, "/api/auth/me", nil, token); status != http.StatusUnauthorized {
		t.Fatalf("me after logout: got %d", status)
	}
	if status, _ = call(t, app, http.MethodGet, "/api/auth/me", nil, ""); status != http.StatusUnauthorized {
		t.Fatalf("me anonymous: got %d", status)
	}
}

func TestResetPassword(t *testing.T) {
	app, _ := newTestApp(t, testConfig())

	status, res := call(t, app, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email": "ghost@example.com", "newPassword": "abcdef", "confirmPassword": "abcdef",
	}, "")
	if status != http.StatusNotFound || res.Error != "No account found with this email address" {
		t.Fatalf("unknown email: got %d %q", status, res.Error)
	}

	status, res = call(t, app, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email": "john.doe@example.com", "newPassword": "abcdef", "confirmPassword": "abcdeg",
	}, "")
	if status != http.StatusBadRequest || res.Error != "Passwords do not match" {
		t.Fatalf("mismatch: got %d %q", status, res.Error)
	}

	status, res = call(t, app, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email": "john.doe@example.com", "newPassword": "abcdef", "confirmPassword": "abcdef",
	}, "")
	if status != http.StatusOK || res.Message == "" {
		t.Fatalf("reset: got %d %q", status, res.Error)
	}
	login(t, app, "john.doe@example.com", "abcdef")
}
