package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindease/mindease/internal/platform/auth"
)

type Service struct {
	repo      Repository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewService(repo Repository, jwtSecret []byte, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

var validRoles = map[string]bool{
	auth.RoleUser: true, auth.RoleTherapist: true, auth.RoleAdmin: true,
}

// Register creates an account with a bcrypt password hash. Role defaults
// to "user".
func (s *Service) Register(ctx context.Context, username, email, password, role string) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalid)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrInvalid)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalid)
	}
	if role == "" {
		role = auth.RoleUser
	}
	if !validRoles[role] {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalid, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{Username: username, Email: email, PasswordHash: string(hash), Role: role}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a signed token. Bad email and
// bad password produce the same error so callers cannot probe accounts.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrInvalid)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrInvalid)
	}
	token, err := auth.IssueToken(s.jwtSecret, u.ID.String(), u.Role, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Username != nil {
		if *upd.Username == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", ErrInvalid)
		}
		u.Username = *upd.Username
	}
	if upd.Email != nil {
		if _, err := mail.ParseAddress(*upd.Email); err != nil {
			return nil, fmt.Errorf("%w: invalid email address", ErrInvalid)
		}
		u.Email = *upd.Email
	}
	if upd.Password != nil {
		if len(*upd.Password) < 8 {
			return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalid)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
