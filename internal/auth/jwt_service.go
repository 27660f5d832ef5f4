package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/MMXXXII/educational-platform/internal/model"
)

// Claims represents JWT claims. The registered subject carries the username.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and validates signed tokens. Token lifetimes come from
// configuration so the service carries no ambient state.
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService creates a new JWT service with the given secret and lifetimes.
func NewJWTService(secret string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// RefreshTokenTTL exposes the configured refresh token lifetime.
func (s *JWTService) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}

// GenerateAccessToken generates a short-lived access token for the user.
func (s *JWTService) GenerateAccessToken(username string, role model.Role) (string, error) {
	return s.generate(username, role, s.accessTTL, "")
}

// GenerateRefreshToken generates a long-lived refresh token for the user.
// The token carries a unique ID so two tokens for the same claims never
// collide even when issued within the same second.
func (s *JWTService) GenerateRefreshToken(username string, role model.Role) (token string, expiresAt time.Time, err error) {
	expiresAt = time.Now().Add(s.refreshTTL)
	token, err = s.generate(username, role, s.refreshTTL, uuid.NewString())
	return token, expiresAt, err
}

func (s *JWTService) generate(username string, role model.Role, ttl time.Duration, jti string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken verifies signature and expiry and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("missing subject")
	}

	return claims, nil
}
