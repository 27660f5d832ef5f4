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
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrVKExchange is returned when the VK code exchange fails.
	ErrVKExchange = errors.New("failed to get access token")
)

// TokenPair is an access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, usernameOrEmail, password string) (*TokenPair, *model.User, error)
	Refresh(ctx context.Context, user *model.User) (*TokenPair, error)
	VKAuthorizeURL() string
	VKCallback(ctx context.Context, code string) (*TokenPair, error)
}

type authService struct {
	users         repository.UserRepository
	refreshTokens repository.RefreshTokenRepository
	jwtService    *auth.JWTService
	vk            VKClient
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	refreshTokens repository.RefreshTokenRepository,
	jwtService *auth.JWTService,
	vk VKClient,
) AuthService {
	return &authService{
		users:         users,
		refreshTokens: refreshTokens,
		jwtService:    jwtService,
		vk:            vk,
	}
}

// Login authenticates by username or email and returns a fresh token pair.
func (s *authService) Login(ctx context.Context, usernameOrEmail, password string) (*TokenPair, *model.User, error) {
	user, err := s.users.FindByUsername(ctx, usernameOrEmail)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.users.FindByEmail(ctx, usernameOrEmail)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh mints and persists a new pair for an already resolved principal.
// A disabled account never receives a new pair.
func (s *authService) Refresh(ctx context.Context, user *model.User) (*TokenPair, error) {
	if user.Disabled {
		return nil, apperrors.ErrAccountDisabled
	}
	return s.issuePair(ctx, user)
}

// VKAuthorizeURL returns the VK OAuth redirect URL for the client.
func (s *authService) VKAuthorizeURL() string {
	return s.vk.AuthorizeURL()
}

// VKCallback exchanges the OAuth code, provisions the user on first login
// and returns a fresh token pair.
func (s *authService) VKCallback(ctx context.Context, code string) (*TokenPair, error) {
	identity, err := s.vk.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	username := fmt.Sprintf("vk_%d", identity.UserID)
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.provisionVKUser(ctx, username, identity)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve vk user: %w", err)
	}

	return s.issuePair(ctx, user)
}

func (s *authService) provisionVKUser(ctx context.Context, username string, identity *VKIdentity) (*model.User, error) {
	email := identity.Email
	if email == "" {
		email = username + "@example.com"
	}
	vkID := fmt.Sprintf("%d", identity.UserID)
	user := &model.User{
		Username: username,
		Email:    email,
		// Social-only account: the empty digest never verifies, so the
		// account cannot be entered with a password.
		PasswordHash: "",
		Role:         model.RoleUser,
		VKID:         &vkID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// issuePair mints an access/refresh pair and rotates the stored refresh
// token, leaving at most one active row for the user.
func (s *authService) issuePair(ctx context.Context, user *model.User) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, expiresAt, err := s.jwtService.GenerateRefreshToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if _, err := s.refreshTokens.Rotate(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}
