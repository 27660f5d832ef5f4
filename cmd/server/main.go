package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/MMXXXII/educational-platform/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"github.com/MMXXXII/educational-platform/internal/auth"
	"github.com/MMXXXII/educational-platform/internal/cache"
	"github.com/MMXXXII/educational-platform/internal/config"
	"github.com/MMXXXII/educational-platform/internal/db"
	"github.com/MMXXXII/educational-platform/internal/handler"
	"github.com/MMXXXII/educational-platform/internal/middleware"
	"github.com/MMXXXII/educational-platform/internal/model"
	"github.com/MMXXXII/educational-platform/internal/repository"
	"github.com/MMXXXII/educational-platform/internal/router"
	"github.com/MMXXXII/educational-platform/internal/service"
)

// @title Educational Platform API
// @version 1.0
// @description Course catalog, enrollments, personal file storage and JWT authentication with VK social login.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.UserFile{},
			&model.CourseEnrollment{},
			&model.Lesson{},
			"course_categories",
			&model.Course{},
			&model.Category{},
			&model.RefreshToken{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Category{},
		&model.Course{},
		&model.Lesson{},
		&model.CourseEnrollment{},
		&model.UserFile{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	refreshTokenRepo := repository.NewRefreshTokenRepository(gormDB)
	courseRepo := repository.NewCourseRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	lessonRepo := repository.NewLessonRepository(gormDB)
	enrollmentRepo := repository.NewEnrollmentRepository(gormDB)
	fileRepo := repository.NewFileRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	principal := middleware.NewPrincipalResolver(jwtService, userRepo)

	// Initialize services
	vkClient := service.NewVKClient(cfg)
	authService := service.NewAuthService(userRepo, refreshTokenRepo, jwtService, vkClient)
	userService := service.NewUserService(userRepo)
	courseService := service.NewCourseService(courseRepo, categoryRepo, enrollmentRepo, cacheClient)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo)
	lessonService := service.NewLessonService(lessonRepo, courseRepo)
	fileService := service.NewFileService(fileRepo, cfg.UploadDir)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	courseHandler := handler.NewCourseHandler(courseService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	lessonHandler := handler.NewLessonHandler(lessonService)
	fileHandler := handler.NewFileHandler(fileService)

	// Register routes
	router.Register(
		e,
		cfg,
		principal,
		authHandler,
		userHandler,
		courseHandler,
		enrollmentHandler,
		lessonHandler,
		fileHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
