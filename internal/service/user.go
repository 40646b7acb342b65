package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/matte1240/app-mezzi/internal/auth"
	"github.com/matte1240/app-mezzi/internal/model"
)

type UserStore interface {
	Create(ctx context.Context, u model.User) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *model.User) (string, error)
}

type UserService struct {
	users  UserStore
	issuer TokenIssuer
}

func NewUserService(users UserStore, issuer TokenIssuer) *UserService {
	return &UserService{users: users, issuer: issuer}
}

// Login verifies the credentials and returns a signed access token.
// Unknown emails and bad passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: invalid credentials", ErrPermissionDenied)
		}
		return "", err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", fmt.Errorf("%w: invalid credentials", ErrPermissionDenied)
	}
	return s.issuer.Issue(user)
}

type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	Role     model.Role
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if input.Name == "" || len(input.Name) > 100 {
		return nil, fmt.Errorf("%w: name must be 1-100 characters", ErrInvalidInput)
	}
	if len(input.Password) < 8 || len(input.Password) > 64 {
		return nil, fmt.Errorf("%w: password must be 8-64 characters", ErrInvalidInput)
	}
	if input.Role == "" {
		input.Role = model.RoleEmployee
	}
	if !model.ValidRole(input.Role) {
		return nil, fmt.Errorf("%w: invalid role", ErrInvalidInput)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: a user with this email already exists", ErrConflict)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, model.User{
		Email:        email,
		Name:         input.Name,
		PasswordHash: hash,
		Role:         input.Role,
	})
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}
