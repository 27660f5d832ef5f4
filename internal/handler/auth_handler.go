package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MMXXXII/educational-platform/internal/errors"
	"github.com/MMXXXII/educational-platform/internal/middleware"
	"github.com/MMXXXII/educational-platform/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a login request. Username accepts either the
// username or the account email; both form and JSON bodies are accepted.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// VKAuthorizeResponse carries the VK OAuth redirect URL.
type VKAuthorizeResponse struct {
	URL string `json:"url"`
}

// Token godoc
// @Summary Login with username or email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.TokenPair
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	pair, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_CREDENTIALS",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to login",
			Code:  "LOGIN_FAILED",
		})
	}

	return c.JSON(http.StatusOK, pair)
}

// Refresh godoc
// @Summary Rotate the token pair for the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.TokenPair
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	user := middleware.CurrentUser(c)

	pair, err := h.authService.Refresh(c.Request().Context(), user)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, pair)
}

// VKLogin godoc
// @Summary Get the VK OAuth authorization URL
// @Tags auth
// @Produce json
// @Success 200 {object} VKAuthorizeResponse
// @Router /auth/login/vk [get]
func (h *AuthHandler) VKLogin(c echo.Context) error {
	return c.JSON(http.StatusOK, VKAuthorizeResponse{
		URL: h.authService.VKAuthorizeURL(),
	})
}

// VKCallback godoc
// @Summary Complete the VK OAuth flow
// @Tags auth
// @Produce json
// @Param code query string true "OAuth authorization code"
// @Success 200 {object} service.TokenPair
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/vk-callback [get]
func (h *AuthHandler) VKCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "missing code parameter",
			Code:  "INVALID_REQUEST",
		})
	}

	pair, err := h.authService.VKCallback(c.Request().Context(), code)
	if err != nil {
		if err == service.ErrVKExchange {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "VK_EXCHANGE_FAILED",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to complete vk login",
			Code:  "VK_LOGIN_FAILED",
		})
	}
	return c.JSON(http.StatusOK, pair)
}
