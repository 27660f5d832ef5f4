package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MMXXXII/educational-platform/internal/auth"
	"github.com/MMXXXII/educational-platform/internal/cache"
	"github.com/MMXXXII/educational-platform/internal/config"
	"github.com/MMXXXII/educational-platform/internal/handler"
	"github.com/MMXXXII/educational-platform/internal/middleware"
	"github.com/MMXXXII/educational-platform/internal/model"
	"github.com/MMXXXII/educational-platform/internal/repository"
	"github.com/MMXXXII/educational-platform/internal/router"
	"github.com/MMXXXII/educational-platform/internal/service"
)

// stubVK satisfies service.VKClient without talking to the network.
type stubVK struct {
	identity *service.VKIdentity
}

func (s *stubVK) AuthorizeURL() string {
	return "https://oauth.vk.com/authorize?client_id=stub"
}

func (s *stubVK) ExchangeCode(ctx context.Context, code string) (*service.VKIdentity, error) {
	if s.identity == nil {
		return nil, service.ErrVKExchange
	}
	return s.identity, nil
}

type testApp struct {
	echo *echo.Echo
	db   *gorm.DB
}

// newTestApp wires the full stack over an in-memory database. The cache
// client points at a closed port; its fail-safe wrapper degrades every
// operation to a miss.
func newTestApp(t *testing.T, vk service.VKClient) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Category{},
		&model.Course{},
		&model.Lesson{},
		&model.CourseEnrollment{},
		&model.UserFile{},
	))

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		UploadDir:       t.TempDir(),
	}

	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	fileRepo := repository.NewFileRepository(db)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	principal := middleware.NewPrincipalResolver(jwtService, userRepo)
	cacheClient := cache.New("127.0.0.1:1", "", 0)

	authService := service.NewAuthService(userRepo, refreshTokenRepo, jwtService, vk)
	userService := service.NewUserService(userRepo)
	courseService := service.NewCourseService(courseRepo, categoryRepo, enrollmentRepo, cacheClient)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo)
	lessonService := service.NewLessonService(lessonRepo, courseRepo)
	fileService := service.NewFileService(fileRepo, cfg.UploadDir)

	e := echo.New()
	router.Register(
		e,
		cfg,
		principal,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewCourseHandler(courseService),
		handler.NewEnrollmentHandler(enrollmentService),
		handler.NewLessonHandler(lessonService),
		handler.NewFileHandler(fileService),
	)
	return &testApp{echo: e, db: db}
}

func (a *testApp) request(t *testing.T, method, path, token string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// register creates an account through the API and returns a token pair from
// a subsequent login.
func (a *testApp) register(t *testing.T, username, password, role string) service.TokenPair {
	t.Helper()

	payload := `{"username":"` + username + `","email":"` + username + `@example.com","password":"` + password + `"`
	if role != "" {
		payload += `,"role":"` + role + `"`
	}
	payload += `}`

	rec := a.request(t, http.MethodPost, "/api/users", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.request(t, http.MethodPost, "/api/auth/token", "", `{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[service.TokenPair](t, rec)
}
