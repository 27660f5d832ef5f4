package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/MMXXXII/educational-platform/internal/auth"
	"github.com/MMXXXII/educational-platform/internal/config"
	"github.com/MMXXXII/educational-platform/internal/db"
	"github.com/MMXXXII/educational-platform/internal/model"
	"github.com/MMXXXII/educational-platform/internal/repository"
)

type seedCourse struct {
	Title         string
	Description   string
	Level         string
	Author        string
	CategorySlugs []string
	Lessons       []string
}

var seedCategories = []model.Category{
	{Name: "Programming", Slug: "programming", Description: ptr("Software development from the ground up")},
	{Name: "Mathematics", Slug: "mathematics", Description: ptr("Algebra, calculus and beyond")},
	{Name: "Design", Slug: "design", Description: ptr("Visual and product design")},
	{Name: "Languages", Slug: "languages", Description: ptr("Foreign language courses")},
}

var seedCourses = []seedCourse{
	{
		Title:         "Go for Backend Developers",
		Description:   "Build production web services in Go.",
		Level:         "intermediate",
		Author:        "Elena Petrova",
		CategorySlugs: []string{"programming"},
		Lessons:       []string{"Setting up the toolchain", "HTTP servers", "Working with databases", "Testing and deployment"},
	},
	{
		Title:         "Python Fundamentals",
		Description:   "A first course in programming with Python.",
		Level:         "beginner",
		Author:        "Mark Jensen",
		CategorySlugs: []string{"programming"},
		Lessons:       []string{"Variables and types", "Control flow", "Functions", "Collections"},
	},
	{
		Title:         "Linear Algebra Essentials",
		Description:   "Vectors, matrices and linear maps for applied work.",
		Level:         "intermediate",
		Author:        "Sofia Almeida",
		CategorySlugs: []string{"mathematics"},
		Lessons:       []string{"Vector spaces", "Matrix operations", "Eigenvalues"},
	},
	{
		Title:         "UI Design Principles",
		Description:   "Layout, typography and color for digital products.",
		Level:         "beginner",
		Author:        "Elena Petrova",
		CategorySlugs: []string{"design"},
		Lessons:       []string{"Visual hierarchy", "Typography basics", "Color systems"},
	},
	{
		Title:         "Spanish for Beginners",
		Description:   "Everyday Spanish from zero.",
		Level:         "beginner",
		Author:        "Carlos Ruiz",
		CategorySlugs: []string{"languages"},
		Lessons:       []string{"Greetings", "Numbers and time", "Ordering food"},
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Category{},
		&model.Course{},
		&model.Lesson{},
		&model.CourseEnrollment{},
		&model.UserFile{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	if err := seedAdmin(ctx, gormDB); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	categoriesBySlug, err := seedCategoryRows(ctx, gormDB)
	if err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	created, err := seedCourseRows(ctx, gormDB, categoriesBySlug)
	if err != nil {
		log.Fatalf("Failed to seed courses: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Categories: %d", len(categoriesBySlug))
	log.Printf("  - New courses created: %d", created)
}

// seedAdmin creates the initial admin account if it does not already exist.
// The password comes from SEED_ADMIN_PASSWORD and defaults to "admin".
func seedAdmin(ctx context.Context, gormDB *gorm.DB) error {
	users := repository.NewUserRepository(gormDB)

	if _, err := users.FindByUsername(ctx, "admin"); err == nil {
		log.Println("Admin user already exists, skipping")
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := auth.HashPassword(getSeedPassword())
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &model.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: hashed,
		Role:         model.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Println("Admin user created")
	return nil
}

func seedCategoryRows(ctx context.Context, gormDB *gorm.DB) (map[string]model.Category, error) {
	categories := repository.NewCategoryRepository(gormDB)
	bySlug := make(map[string]model.Category, len(seedCategories))

	for _, category := range seedCategories {
		existing, err := categories.FindBySlug(ctx, category.Slug)
		if err == nil {
			bySlug[category.Slug] = *existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check category %s: %w", category.Slug, err)
		}

		row := category
		if err := categories.Create(ctx, &row); err != nil {
			return nil, fmt.Errorf("create category %s: %w", category.Slug, err)
		}
		bySlug[category.Slug] = row
	}
	return bySlug, nil
}

func seedCourseRows(ctx context.Context, gormDB *gorm.DB, categoriesBySlug map[string]model.Category) (int, error) {
	created := 0

	for _, seed := range seedCourses {
		var existing model.Course
		err := gormDB.WithContext(ctx).Where("title = ?", seed.Title).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("check course %q: %w", seed.Title, err)
		}

		linked := make([]model.Category, 0, len(seed.CategorySlugs))
		for _, slug := range seed.CategorySlugs {
			category, ok := categoriesBySlug[slug]
			if !ok {
				return created, fmt.Errorf("course %q references unknown category %q", seed.Title, slug)
			}
			linked = append(linked, category)
		}

		lessons := make([]model.Lesson, 0, len(seed.Lessons))
		for i, title := range seed.Lessons {
			lessons = append(lessons, model.Lesson{
				Title:   title,
				Content: fmt.Sprintf("Lesson %d of %s.", i+1, seed.Title),
				Order:   i + 1,
			})
		}

		course := model.Course{
			Title:        seed.Title,
			Description:  seed.Description,
			Level:        seed.Level,
			Author:       seed.Author,
			LessonsCount: len(lessons),
			Categories:   linked,
			Lessons:      lessons,
		}
		if err := gormDB.WithContext(ctx).Create(&course).Error; err != nil {
			return created, fmt.Errorf("create course %q: %w", seed.Title, err)
		}
		created++
	}
	return created, nil
}

func getSeedPassword() string {
	if v, ok := os.LookupEnv("SEED_ADMIN_PASSWORD"); ok && v != "" {
		return v
	}
	return "admin"
}

func ptr(s string) *string {
	return &s
}
