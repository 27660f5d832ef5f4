package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/MMXXXII/educational-platform/internal/auth"
	apperrors "github.com/MMXXXII/educational-platform/internal/errors"
	"github.com/MMXXXII/educational-platform/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByVKID(ctx context.Context, vkID string) (*model.User, error) {
	args := m.Called(ctx, vkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockRefreshTokenRepository is a mock implementation of RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Rotate(ctx context.Context, userID uint, token string, expiresAt time.Time) (*model.RefreshToken, error) {
	args := m.Called(ctx, userID, token, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) FindByUserID(ctx context.Context, userID uint) (*model.RefreshToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockVKClient is a mock implementation of VKClient.
type MockVKClient struct {
	mock.Mock
}

func (m *MockVKClient) AuthorizeURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockVKClient) ExchangeCode(ctx context.Context, code string) (*VKIdentity, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VKIdentity), args.Error(1)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret", 30*time.Minute, 7*24*time.Hour)
}

func testUser(username, password string) *model.User {
	hashed, _ := auth.HashPassword(password)
	return &model.User{
		ID:           1,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hashed,
		Role:         model.RoleUser,
	}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		identifier    string
		password      string
		setupMock     func(*MockUserRepository, *MockRefreshTokenRepository)
		expectedError error
	}{
		{
			name:       "login by username",
			identifier: "alice",
			password:   "password123",
			setupMock: func(users *MockUserRepository, tokens *MockRefreshTokenRepository) {
				users.On("FindByUsername", mock.Anything, "alice").Return(testUser("alice", "password123"), nil)
				tokens.On("Rotate", mock.Anything, uint(1), mock.Anything, mock.Anything).Return(&model.RefreshToken{}, nil)
			},
		},
		{
			name:       "login by email falls back after username miss",
			identifier: "alice@example.com",
			password:   "password123",
			setupMock: func(users *MockUserRepository, tokens *MockRefreshTokenRepository) {
				users.On("FindByUsername", mock.Anything, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
				users.On("FindByEmail", mock.Anything, "alice@example.com").Return(testUser("alice", "password123"), nil)
				tokens.On("Rotate", mock.Anything, uint(1), mock.Anything, mock.Anything).Return(&model.RefreshToken{}, nil)
			},
		},
		{
			name:       "wrong password",
			identifier: "alice",
			password:   "wrong",
			setupMock: func(users *MockUserRepository, tokens *MockRefreshTokenRepository) {
				users.On("FindByUsername", mock.Anything, "alice").Return(testUser("alice", "password123"), nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:       "unknown user",
			identifier: "nobody",
			password:   "password123",
			setupMock: func(users *MockUserRepository, tokens *MockRefreshTokenRepository) {
				users.On("FindByUsername", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)
				users.On("FindByEmail", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tokens := new(MockRefreshTokenRepository)
			tt.setupMock(users, tokens)

			service := NewAuthService(users, tokens, newTestJWTService(), new(MockVKClient))
			pair, user, err := service.Login(context.Background(), tt.identifier, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, pair)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, pair.AccessToken)
				assert.NotEmpty(t, pair.RefreshToken)
				assert.Equal(t, "bearer", pair.TokenType)
				assert.NotNil(t, user)
			}

			users.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	t.Run("mints and rotates a new pair", func(t *testing.T) {
		users := new(MockUserRepository)
		tokens := new(MockRefreshTokenRepository)
		tokens.On("Rotate", mock.Anything, uint(1), mock.Anything, mock.Anything).Return(&model.RefreshToken{}, nil)

		service := NewAuthService(users, tokens, newTestJWTService(), new(MockVKClient))
		pair, err := service.Refresh(context.Background(), testUser("alice", "password123"))

		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		tokens.AssertExpectations(t)
	})

	t.Run("disabled account is refused", func(t *testing.T) {
		users := new(MockUserRepository)
		tokens := new(MockRefreshTokenRepository)

		service := NewAuthService(users, tokens, newTestJWTService(), new(MockVKClient))
		user := testUser("alice", "password123")
		user.Disabled = true

		pair, err := service.Refresh(context.Background(), user)

		assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
		assert.Nil(t, pair)
		tokens.AssertNotCalled(t, "Rotate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_VKCallback(t *testing.T) {
	t.Run("provisions a new account on first login", func(t *testing.T) {
		users := new(MockUserRepository)
		tokens := new(MockRefreshTokenRepository)
		vk := new(MockVKClient)

		vk.On("ExchangeCode", mock.Anything, "code123").Return(&VKIdentity{UserID: 42, Email: "vk@example.com"}, nil)
		users.On("FindByUsername", mock.Anything, "vk_42").Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Username == "vk_42" && u.Email == "vk@example.com" && u.PasswordHash == "" && u.VKID != nil
		})).Return(nil)
		tokens.On("Rotate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&model.RefreshToken{}, nil)

		service := NewAuthService(users, tokens, newTestJWTService(), vk)
		pair, err := service.VKCallback(context.Background(), "code123")

		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		users.AssertExpectations(t)
		vk.AssertExpectations(t)
	})

	t.Run("reuses the existing account on repeat login", func(t *testing.T) {
		users := new(MockUserRepository)
		tokens := new(MockRefreshTokenRepository)
		vk := new(MockVKClient)

		existing := testUser("vk_42", "unused")
		vk.On("ExchangeCode", mock.Anything, "code123").Return(&VKIdentity{UserID: 42}, nil)
		users.On("FindByUsername", mock.Anything, "vk_42").Return(existing, nil)
		tokens.On("Rotate", mock.Anything, existing.ID, mock.Anything, mock.Anything).Return(&model.RefreshToken{}, nil)

		service := NewAuthService(users, tokens, newTestJWTService(), vk)
		pair, err := service.VKCallback(context.Background(), "code123")

		assert.NoError(t, err)
		assert.NotEmpty(t, pair.RefreshToken)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("exchange failure surfaces", func(t *testing.T) {
		users := new(MockUserRepository)
		tokens := new(MockRefreshTokenRepository)
		vk := new(MockVKClient)

		vk.On("ExchangeCode", mock.Anything, "bad").Return(nil, ErrVKExchange)

		service := NewAuthService(users, tokens, newTestJWTService(), vk)
		pair, err := service.VKCallback(context.Background(), "bad")

		assert.ErrorIs(t, err, ErrVKExchange)
		assert.Nil(t, pair)
	})
}
