package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/MMXXXII/educational-platform/internal/cache"
	apperrors "github.com/MMXXXII/educational-platform/internal/errors"
	"github.com/MMXXXII/educational-platform/internal/model"
	"github.com/MMXXXII/educational-platform/internal/repository"
)

const (
	shelfCacheTTL      = 5 * time.Minute
	categoriesCacheKey = "courses:categories"
	popularShelfKey    = "courses:popular"
	recentShelfKey     = "courses:recent"

	// shelfSize is how many courses each cached shelf holds; reads slice it
	// down to the requested limit.
	shelfSize = 20
)

// CourseList is one page of catalog results.
type CourseList struct {
	Items []model.Course `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Pages int            `json:"pages"`
}

// CourseInput carries the fields for creating a course.
type CourseInput struct {
	Title           string
	Description     string
	LongDescription string
	Level           string
	Author          string
	ImageURL        *string
	LessonsCount    int
	CategoryIDs     []uint
}

// CourseUpdate carries optional course changes; nil means unchanged.
type CourseUpdate struct {
	Title           *string
	Description     *string
	LongDescription *string
	Level           *string
	Author          *string
	ImageURL        *string
	LessonsCount    *int
	CategoryIDs     []uint
}

// CourseService handles the course catalog and categories.
type CourseService interface {
	List(ctx context.Context, filter repository.CourseFilter, page, size int) (*CourseList, error)
	Get(ctx context.Context, id uint, viewer *model.User) (*model.Course, error)
	Create(ctx context.Context, input CourseInput) (*model.Course, error)
	Update(ctx context.Context, id uint, update CourseUpdate) (*model.Course, error)
	Delete(ctx context.Context, id uint) error
	Popular(ctx context.Context, limit int) ([]model.Course, error)
	Recent(ctx context.Context, limit int) ([]model.Course, error)
	Recommended(ctx context.Context, userID uint, limit int) ([]model.Course, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id uint) (*model.Category, error)
	CreateCategory(ctx context.Context, name, slug string, description *string) (*model.Category, error)
}

type courseService struct {
	courses     repository.CourseRepository
	categories  repository.CategoryRepository
	enrollments repository.EnrollmentRepository
	cache       *cache.Client
}

// NewCourseService creates a new course service.
func NewCourseService(
	courses repository.CourseRepository,
	categories repository.CategoryRepository,
	enrollments repository.EnrollmentRepository,
	cacheClient *cache.Client,
) CourseService {
	return &courseService{
		courses:     courses,
		categories:  categories,
		enrollments: enrollments,
		cache:       cacheClient,
	}
}

// NormalizePage clamps pagination parameters: page >= 1, 1 <= size <= 100.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

func pageCount(total int64, size int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

func (s *courseService) List(ctx context.Context, filter repository.CourseFilter, page, size int) (*CourseList, error) {
	page, size = NormalizePage(page, size)
	items, total, err := s.courses.List(ctx, filter, page, size)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return &CourseList{
		Items: items,
		Total: total,
		Page:  page,
		Size:  size,
		Pages: pageCount(total, size),
	}, nil
}

// Get returns a course with its lessons. When the viewer is enrolled, the
// enrollment's last access time is touched.
func (s *courseService) Get(ctx context.Context, id uint, viewer *model.User) (*model.Course, error) {
	course, err := s.courses.FindByIDWithLessons(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}

	if viewer != nil {
		if enrollment, err := s.enrollments.FindByUserAndCourse(ctx, viewer.ID, id); err == nil {
			enrollment.LastAccessedAt = time.Now()
			_ = s.enrollments.Update(ctx, enrollment)
		}
	}
	return course, nil
}

func (s *courseService) Create(ctx context.Context, input CourseInput) (*model.Course, error) {
	categories, err := s.resolveCategories(ctx, input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	course := &model.Course{
		Title:           input.Title,
		Description:     input.Description,
		LongDescription: input.LongDescription,
		Level:           input.Level,
		Author:          input.Author,
		ImageURL:        input.ImageURL,
		LessonsCount:    input.LessonsCount,
		Categories:      categories,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.invalidateShelves(ctx)
	return course, nil
}

func (s *courseService) Update(ctx context.Context, id uint, update CourseUpdate) (*model.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}

	if update.CategoryIDs != nil {
		categories, err := s.resolveCategories(ctx, update.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if err := s.courses.ReplaceCategories(ctx, course, categories); err != nil {
			return nil, fmt.Errorf("replace categories: %w", err)
		}
		course.Categories = categories
	}

	if update.Title != nil {
		course.Title = *update.Title
	}
	if update.Description != nil {
		course.Description = *update.Description
	}
	if update.LongDescription != nil {
		course.LongDescription = *update.LongDescription
	}
	if update.Level != nil {
		course.Level = *update.Level
	}
	if update.Author != nil {
		course.Author = *update.Author
	}
	if update.ImageURL != nil {
		course.ImageURL = update.ImageURL
	}
	if update.LessonsCount != nil {
		course.LessonsCount = *update.LessonsCount
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	s.invalidateShelves(ctx)
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return err
	}
	if err := s.courses.Delete(ctx, course); err != nil {
		return err
	}
	s.invalidateShelves(ctx)
	return nil
}

// Popular serves the by-enrollment shelf through the cache.
func (s *courseService) Popular(ctx context.Context, limit int) ([]model.Course, error) {
	courses, err := s.cachedShelf(ctx, popularShelfKey, func() ([]model.Course, error) {
		return s.courses.Popular(ctx, shelfSize)
	})
	return trimShelf(courses, limit), err
}

// Recent serves the newest-first shelf through the cache.
func (s *courseService) Recent(ctx context.Context, limit int) ([]model.Course, error) {
	courses, err := s.cachedShelf(ctx, recentShelfKey, func() ([]model.Course, error) {
		return s.courses.Recent(ctx, shelfSize)
	})
	return trimShelf(courses, limit), err
}

// Recommended is per-user and always computed fresh.
func (s *courseService) Recommended(ctx context.Context, userID uint, limit int) ([]model.Course, error) {
	return s.courses.RecommendedFor(ctx, userID, limit)
}

func (s *courseService) ListCategories(ctx context.Context) ([]model.Category, error) {
	if data, _ := s.cache.Get(ctx, categoriesCacheKey); data != nil {
		var cached []model.Category
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if payload, err := json.Marshal(categories); err == nil {
		_ = s.cache.Set(ctx, categoriesCacheKey, payload, shelfCacheTTL)
	}
	return categories, nil
}

func (s *courseService) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *courseService) CreateCategory(ctx context.Context, name, slug string, description *string) (*model.Category, error) {
	if _, err := s.categories.FindBySlug(ctx, slug); err == nil {
		return nil, apperrors.ErrCategoryExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check category slug: %w", err)
	}

	category := &model.Category{
		Name:        name,
		Slug:        slug,
		Description: description,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	_ = s.cache.Delete(ctx, categoriesCacheKey)
	return category, nil
}

func (s *courseService) resolveCategories(ctx context.Context, ids []uint) ([]model.Category, error) {
	if len(ids) == 0 {
		return nil, apperrors.ErrCategoryNotFound
	}
	categories, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	if len(categories) != len(ids) {
		return nil, apperrors.ErrCategoryNotFound
	}
	return categories, nil
}

func (s *courseService) cachedShelf(ctx context.Context, key string, load func() ([]model.Course, error)) ([]model.Course, error) {
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []model.Course
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	courses, err := load()
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(courses); err == nil {
		_ = s.cache.Set(ctx, key, payload, shelfCacheTTL)
	}
	return courses, nil
}

func (s *courseService) invalidateShelves(ctx context.Context) {
	_ = s.cache.Delete(ctx, popularShelfKey, recentShelfKey)
}

func trimShelf(courses []model.Course, limit int) []model.Course {
	if limit > 0 && len(courses) > limit {
		return courses[:limit]
	}
	return courses
}
