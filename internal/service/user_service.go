package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MMXXXII/educational-platform/internal/auth"
	apperrors "github.com/MMXXXII/educational-platform/internal/errors"
	"github.com/MMXXXII/educational-platform/internal/model"
	"github.com/MMXXXII/educational-platform/internal/repository"
)

var (
	// ErrUserAlreadyExists is returned when username or email is taken.
	ErrUserAlreadyExists = errors.New("username or email already registered")
	// ErrInvalidRole is returned for a role outside the known set.
	ErrInvalidRole = errors.New("invalid role")
)

// UserUpdate carries the admin-editable fields; nil means unchanged.
type UserUpdate struct {
	Role     *model.Role
	Disabled *bool
}

// UserService handles account management.
type UserService interface {
	Register(ctx context.Context, username, email, password string, role model.Role) (*model.User, error)
	Get(ctx context.Context, id uint) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uint, update UserUpdate) (*model.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

// Register creates a new account with a hashed password.
func (s *userService) Register(ctx context.Context, username, email, password string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if err := s.checkAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// Update applies admin changes to role and disabled state.
func (s *userService) Update(ctx context.Context, id uint, update UserUpdate) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Role != nil {
		if !update.Role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = *update.Role
	}
	if update.Disabled != nil {
		user.Disabled = *update.Disabled
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) checkAvailable(ctx context.Context, username, email string) error {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check username: %w", err)
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}
