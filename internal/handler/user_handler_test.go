package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MMXXXII/educational-platform/internal/model"
)

func TestRegister(t *testing.T) {
	app := newTestApp(t, &stubVK{})

	t.Run("role defaults to user", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/users", "", `{"username":"bob","email":"bob@example.com","password":"password123"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		user := decode[model.User](t, rec)
		assert.Equal(t, model.RoleUser, user.Role)
		assert.False(t, user.Disabled)
		// The password digest never leaves the server.
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/users", "", `{"username":"bob","email":"other@example.com","password":"password123"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "USER_ALREADY_EXISTS")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/users", "", `{"username":"bob2","email":"bob@example.com","password":"password123"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid role is rejected", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/users", "", `{"username":"eve","email":"eve@example.com","password":"password123","role":"superadmin"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/users", "", `{"username":"eve","email":"eve@example.com","password":"123"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMe(t *testing.T) {
	app := newTestApp(t, &stubVK{})
	pair := app.register(t, "alice", "password123", "teacher")

	rec := app.request(t, http.MethodGet, "/api/users/me", pair.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	user := decode[model.User](t, rec)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, model.RoleTeacher, user.Role)
}

func TestUserAdministration(t *testing.T) {
	app := newTestApp(t, &stubVK{})
	adminPair := app.register(t, "root", "password123", "admin")
	userPair := app.register(t, "alice", "password123", "")

	t.Run("listing requires admin", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/users", userPair.AccessToken, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "FORBIDDEN")

		rec = app.request(t, http.MethodGet, "/api/users", adminPair.AccessToken, "")
		assert.Equal(t, http.StatusOK, rec.Code)

		users := decode[[]model.User](t, rec)
		assert.Len(t, users, 2)
	})

	t.Run("admin promotes a user", func(t *testing.T) {
		rec := app.request(t, http.MethodPatch, "/api/users/2", adminPair.AccessToken, `{"role":"teacher"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		updated := decode[model.User](t, rec)
		assert.Equal(t, model.RoleTeacher, updated.Role)
	})

	t.Run("admin disables a user and their token stops working", func(t *testing.T) {
		rec := app.request(t, http.MethodPatch, "/api/users/2", adminPair.AccessToken, `{"disabled":true}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = app.request(t, http.MethodGet, "/api/users/me", userPair.AccessToken, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "ACCOUNT_DISABLED")
	})

	t.Run("non-admin cannot update accounts", func(t *testing.T) {
		rec := app.request(t, http.MethodPatch, "/api/users/1", userPair.AccessToken, `{"disabled":true}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown user yields 404", func(t *testing.T) {
		rec := app.request(t, http.MethodPatch, "/api/users/999", adminPair.AccessToken, `{"disabled":true}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "USER_NOT_FOUND")
	})
}
