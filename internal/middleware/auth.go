package middleware

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/MMXXXII/educational-platform/internal/auth"
	apperrors "github.com/MMXXXII/educational-platform/internal/errors"
	"github.com/MMXXXII/educational-platform/internal/model"
	"github.com/MMXXXII/educational-platform/internal/repository"
)

// principalContextKey is where the resolved user is stored on the request.
const principalContextKey = "principal"

// PrincipalResolver authenticates bearer tokens into user records. Every
// request is re-validated independently; nothing is carried between calls.
type PrincipalResolver struct {
	jwtService *auth.JWTService
	users      repository.UserRepository
}

// NewPrincipalResolver creates a resolver over the given token service and
// user lookup.
func NewPrincipalResolver(jwtService *auth.JWTService, users repository.UserRepository) *PrincipalResolver {
	return &PrincipalResolver{
		jwtService: jwtService,
		users:      users,
	}
}

// Middleware returns echo middleware that requires a valid bearer token
// resolving to an existing, enabled account. Missing, malformed, expired or
// foreign-signed tokens and tokens of deleted users yield 401; a disabled
// account yields 403.
func (r *PrincipalResolver) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:     principalContextKey,
		TokenLookup:    "header:" + echo.HeaderAuthorization,
		ParseTokenFunc: r.resolve,
		ErrorHandler:   resolveErrorHandler,
	})
}

func (r *PrincipalResolver) resolve(c echo.Context, tokenString string) (interface{}, error) {
	claims, err := r.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}

	user, err := r.users.FindByUsername(c.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, err
	}
	if user.Disabled {
		return nil, apperrors.ErrAccountDisabled
	}
	return user, nil
}

func resolveErrorHandler(c echo.Context, err error) error {
	mapped := apperrors.ErrUnauthenticated
	if errors.Is(err, apperrors.ErrAccountDisabled) {
		mapped = apperrors.ErrAccountDisabled
	}
	httpErr := apperrors.MapErrorToHTTP(mapped)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// CurrentUser returns the principal resolved for this request, or nil on
// unprotected routes.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(principalContextKey).(*model.User)
	return user
}

// RequireRoles gates a route on the principal's role. It composes with the
// resolver middleware and never mutates state.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := auth.Authorize(CurrentUser(c), roles...); err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}
