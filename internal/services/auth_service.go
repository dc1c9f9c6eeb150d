package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"vibecommerce/internal/domain"
	"vibecommerce/internal/repos"
	"vibecommerce/internal/validate"
)

var ErrBadCreds = domain.Unauthorized("Invalid email or password")

// SessionStore maps opaque bearer tokens to user ids. repos.SessionRepo and
// session.RedisStore both satisfy it.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Lookup(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
	DeleteForUser(ctx context.Context, userID string) error
}

type AuthService struct {
	Users    *repos.UserRepo
	Sessions SessionStore
	Cost     int
}

func NewAuthService(users *repos.UserRepo, sessions SessionStore, cost int) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{Users: users, Sessions: sessions, Cost: cost}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates the account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	name, nameOK := validate.Name(in.Name)
	email := strings.TrimSpace(in.Email)
	password := strings.TrimSpace(in.Password)

	switch {
	case !nameOK:
		return nil, "", domain.Validation("Please provide a valid name")
	case email == "":
		return nil, "", domain.Validation("Please provide a valid email")
	case password == "":
		return nil, "", domain.Validation("Please provide a valid password")
	}
	email, ok := validate.Email(email)
	if !ok {
		return nil, "", domain.Validation("Please provide a valid email address")
	}
	if err := validate.Password(password); err != nil {
		return nil, "", err
	}

	hash, err := hashPassword(password, s.Cost)
	if err != nil {
		return nil, "", domain.Wrap(err, "Failed to register user")
	}
	u := &domain.User{
		ID:        repos.NewID(),
		Name:      name,
		Email:     email,
		Hash:      string(hash),
		CreatedAt: domain.Now(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, "", domain.Wrap(err, "Failed to register user")
	}
	token, err := s.Sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, "", domain.Wrap(err, "Failed to register user")
	}
	return u, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, "", domain.Validation("Please provide email and password")
	}

	u, err := s.Users.ByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, "", ErrBadCreds
	}
	if err != nil {
		return nil, "", domain.Wrap(err, "Failed to login")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	token, err := s.Sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, "", domain.Wrap(err, "Failed to login")
	}
	return u, token, nil
}

type ResetInput struct {
	Email           string `json:"email"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ResetPassword replaces the password and signs the user out everywhere.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetInput) error {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	pw := strings.TrimSpace(in.NewPassword)
	confirm := strings.TrimSpace(in.ConfirmPassword)

	switch {
	case email == "":
		return domain.Validation("Please provide email address")
	case pw == "":
		return domain.Validation("Please provide new password")
	case confirm == "":
		return domain.Validation("Please confirm your password")
	}
	if err := validate.Password(pw); err != nil {
		return err
	}
	if pw != confirm {
		return domain.Validation("Passwords do not match")
	}

	u, err := s.Users.ByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound("No account found with this email address")
	}
	if err != nil {
		return domain.Wrap(err, "Failed to reset password")
	}
	hash, err := hashPassword(pw, s.Cost)
	if err != nil {
		return domain.Wrap(err, "Failed to reset password")
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, string(hash)); err != nil {
		return domain.Wrap(err, "Failed to reset password")
	}
	if err := s.Sessions.DeleteForUser(ctx, u.ID); err != nil {
		return domain.Wrap(err, "Failed to reset password")
	}
	return nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return domain.Wrap(s.Sessions.Delete(ctx, token), "Failed to logout")
}

// CurrentUser resolves a bearer token. Unknown, expired or orphaned tokens
// are all domain.ErrUnauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.Unauthorized("Authentication required")
	}
	userID, err := s.Sessions.Lookup(ctx, token)
	if err != nil {
		return nil, domain.Wrap(err, "Failed to load session")
	}
	u, err := s.Users.ByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Unauthorized("Invalid or expired session")
	}
	if err != nil {
		return nil, domain.Wrap(err, "Failed to load session")
	}
	return u, nil
}

func hashPassword(pw string, cost int) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, domain.Validation("Password must be at most 72 bytes")
	}
	return hash, err
}
