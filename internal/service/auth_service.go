package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Hamzabaloch08/taskApp-backend/internal/domain"
	"github.com/Hamzabaloch08/taskApp-backend/internal/metrics"
	"github.com/Hamzabaloch08/taskApp-backend/internal/repository"

	"github.com/go-playground/validator/v10"
)

// UserStore is the credential store used by AuthService.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type SignupInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is a freshly issued token and the identity it carries.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  domain.Identity
}

type AuthService struct {
	users    UserStore
	hasher   *PasswordHasher
	tokens   *TokenManager
	validate *validator.Validate

	// compared against on unknown emails so both failure paths cost one bcrypt check
	dummyHash string
}

func NewAuthService(users UserStore, hasher *PasswordHasher, tokens *TokenManager) *AuthService {
	dummy, _ := hasher.Hash("dummy-password-for-timing")
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		validate:  validator.New(),
		dummyHash: dummy,
	}
}

// NormalizeEmail performs case-insensitive canonicalization.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Signup registers a new user. Duplicate emails (after normalization) fail
// with ErrEmailTaken.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = NormalizeEmail(in.Email)
	if strings.TrimSpace(in.Password) == "" {
		in.Password = ""
	}

	if err := s.validateSignup(in); err != nil {
		metrics.AuthEvents.WithLabelValues("signup", "invalid").Inc()
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if IsValidation(err) {
			metrics.AuthEvents.WithLabelValues("signup", "invalid").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			metrics.AuthEvents.WithLabelValues("signup", "conflict").Inc()
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	metrics.AuthEvents.WithLabelValues("signup", "ok").Inc()
	return u, nil
}

func (s *AuthService) validateSignup(in SignupInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return invalid("All fields required")
		}
	}
	return invalid("Invalid email")
}

// Login checks credentials and issues a token. Unknown email and wrong
// password are the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		metrics.AuthEvents.WithLabelValues("login", "invalid").Inc()
		return nil, invalid("Email and password required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(in.Password, s.dummyHash)
			metrics.AuthEvents.WithLabelValues("login", "rejected").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(in.Password, u.PasswordHash) {
		metrics.AuthEvents.WithLabelValues("login", "rejected").Inc()
		return nil, ErrInvalidCredentials
	}

	id := u.Identity()
	token, exp, err := s.tokens.Issue(id)
	if err != nil {
		return nil, err
	}

	metrics.AuthEvents.WithLabelValues("login", "ok").Inc()
	return &LoginResult{Token: token, ExpiresAt: exp, Identity: id}, nil
}

// Authenticate resolves a raw token into the identity it was issued for.
func (s *AuthService) Authenticate(token string) (domain.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Identity{}, err
	}
	return claims.Identity(), nil
}
