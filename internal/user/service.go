package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrRoleInvalid      = errors.New("role must be admin or customer")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register hashes the password and persists a new user. The zero role
// defaults to customer.
func (s *Service) Register(ctx context.Context, email, password, role string) (*User, error) {
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}
	if role == "" {
		role = RoleCustomer
	}
	if !ValidRole(role) {
		return nil, ErrRoleInvalid
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", u.ID).Str("role", u.Role).Msg("user registered")
	return u, nil
}

// Login returns ErrInvalidCredentials for an unknown email and for a wrong
// password alike, so callers cannot tell the two apart.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// UpdateInput carries the optional fields of a profile update. Empty strings
// mean "leave unchanged".
type UpdateInput struct {
	Email    string
	Role     string
	Password string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*User, error) {
	if in.Role != "" && !ValidRole(in.Role) {
		return nil, ErrRoleInvalid
	}

	updatePassword := false
	var hash string
	if in.Password != "" {
		if len(in.Password) < 6 {
			return nil, ErrPasswordTooShort
		}
		h, err := HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = h
		updatePassword = true
	}

	u := &User{ID: id, Email: in.Email, Role: in.Role, PasswordHash: hash}
	if err := s.repo.Update(ctx, u, updatePassword); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}
