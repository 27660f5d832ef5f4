package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/MMXXXII/educational-platform/internal/config"
	"github.com/MMXXXII/educational-platform/internal/handler"
	"github.com/MMXXXII/educational-platform/internal/middleware"
	"github.com/MMXXXII/educational-platform/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	principal *middleware.PrincipalResolver,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	courseHandler *handler.CourseHandler,
	enrollmentHandler *handler.EnrollmentHandler,
	lessonHandler *handler.LessonHandler,
	fileHandler *handler.FileHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	adminOnly := middleware.RequireRoles(model.RoleAdmin)

	// Public routes
	api.POST("/auth/token", authHandler.Token)
	api.GET("/auth/login/vk", authHandler.VKLogin)
	api.GET("/auth/vk-callback", authHandler.VKCallback)
	api.POST("/users", userHandler.Register)
	api.GET("/courses", courseHandler.List)
	api.GET("/courses/popular", courseHandler.Popular)
	api.GET("/courses/recent", courseHandler.Recent)
	api.GET("/courses/categories", courseHandler.ListCategories)
	api.GET("/courses/categories/:id", courseHandler.GetCategory)

	// Secured routes
	secured := api.Group("", principal.Middleware())

	secured.POST("/auth/refresh", authHandler.Refresh)

	secured.GET("/users/me", userHandler.Me)
	secured.GET("/users", userHandler.List, adminOnly)
	secured.PATCH("/users/:id", userHandler.Update, adminOnly)

	// Static course paths are registered before /courses/:id so echo does
	// not swallow them as IDs.
	secured.GET("/courses/recommended", courseHandler.Recommended)
	secured.GET("/courses/my-courses", enrollmentHandler.MyCourses)
	secured.GET("/courses/enrollments", enrollmentHandler.List)
	secured.POST("/courses/enroll", enrollmentHandler.Enroll)
	secured.PUT("/courses/enrollments/:id", enrollmentHandler.Update)
	secured.DELETE("/courses/enrollments/:id", enrollmentHandler.Unenroll)

	secured.GET("/courses/:id", courseHandler.Get)
	secured.GET("/courses/:id/progress", enrollmentHandler.Progress)
	secured.GET("/courses/:id/lessons", lessonHandler.ListByCourse)
	secured.POST("/courses", courseHandler.Create, adminOnly)
	secured.PUT("/courses/:id", courseHandler.Update, adminOnly)
	secured.DELETE("/courses/:id", courseHandler.Delete, adminOnly)
	secured.POST("/courses/categories", courseHandler.CreateCategory, adminOnly)

	secured.GET("/lessons/:id", lessonHandler.Get)
	secured.POST("/lessons", lessonHandler.Create, adminOnly)
	secured.PUT("/lessons/:id", lessonHandler.Update, adminOnly)
	secured.DELETE("/lessons/:id", lessonHandler.Delete, adminOnly)

	secured.GET("/folders", fileHandler.ListFolders)
	secured.POST("/folders", fileHandler.CreateFolder)
	secured.DELETE("/folders/:id", fileHandler.DeleteFolder)
	secured.GET("/files", fileHandler.ListFiles)
	secured.POST("/files", fileHandler.Upload)
	secured.GET("/files/:id/download", fileHandler.Download)
	secured.DELETE("/files/:id", fileHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
