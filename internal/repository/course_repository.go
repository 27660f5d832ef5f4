package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/MMXXXII/educational-platform/internal/model"
)

// CourseFilter carries the optional list filters and sort parameters.
type CourseFilter struct {
	CategoryID uint
	Level      string
	Search     string
	Author     string
	SortBy     string
	SortOrder  string
}

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id uint) (*model.Course, error)
	FindByIDWithLessons(ctx context.Context, id uint) (*model.Course, error)
	List(ctx context.Context, filter CourseFilter, page, size int) (courses []model.Course, total int64, err error)
	ListByIDs(ctx context.Context, ids []uint) ([]model.Course, error)
	Popular(ctx context.Context, limit int) ([]model.Course, error)
	Recent(ctx context.Context, limit int) ([]model.Course, error)
	RecommendedFor(ctx context.Context, userID uint, limit int) ([]model.Course, error)
	ReplaceCategories(ctx context.Context, course *model.Course, categories []model.Category) error
	SetLessonsCount(ctx context.Context, courseID uint, count int) error
}

// sortColumns whitelists client-supplied sort fields.
var sortColumns = map[string]string{
	"title":         "title",
	"author":        "author",
	"level":         "level",
	"lessons_count": "lessons_count",
	"created_at":    "created_at",
	"updated_at":    "updated_at",
}

const studentsCountSelect = "courses.*, (SELECT COUNT(*) FROM course_enrollments WHERE course_enrollments.course_id = courses.id) AS students_count"

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository builds a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) Delete(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Select("Lessons", "Enrollments", "Categories").Delete(course).Error
}

func (r *courseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Select(studentsCountSelect).
		Preload("Categories").
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindByIDWithLessons(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Select(studentsCountSelect).
		Preload("Categories").
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lesson_order")
		}).
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// List returns one page of courses matching the filter plus the total match
// count. Page and size are assumed normalized by the caller.
func (r *courseRepository) List(ctx context.Context, filter CourseFilter, page, size int) ([]model.Course, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	err := r.filtered(ctx, filter).
		Select(studentsCountSelect).
		Preload("Categories").
		Order(orderClause(filter.SortBy, filter.SortOrder)).
		Offset((page - 1) * size).
		Limit(size).
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *courseRepository) ListByIDs(ctx context.Context, ids []uint) ([]model.Course, error) {
	var courses []model.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := r.db.WithContext(ctx).
		Select(studentsCountSelect).
		Preload("Categories").
		Where("courses.id IN ?", ids).
		Find(&courses).Error
	return courses, err
}

// Popular orders courses by enrollment count.
func (r *courseRepository) Popular(ctx context.Context, limit int) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Select(studentsCountSelect).
		Preload("Categories").
		Order("students_count DESC, courses.created_at DESC").
		Limit(limit).
		Find(&courses).Error
	return courses, err
}

func (r *courseRepository) Recent(ctx context.Context, limit int) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Select(studentsCountSelect).
		Preload("Categories").
		Order("courses.created_at DESC").
		Limit(limit).
		Find(&courses).Error
	return courses, err
}

// RecommendedFor suggests courses sharing a category with the user's
// enrollments, excluding courses the user already takes. Falls back to the
// popular shelf for users without enrollments.
func (r *courseRepository) RecommendedFor(ctx context.Context, userID uint, limit int) ([]model.Course, error) {
	var enrolledIDs []uint
	err := r.db.WithContext(ctx).
		Model(&model.CourseEnrollment{}).
		Where("user_id = ?", userID).
		Pluck("course_id", &enrolledIDs).Error
	if err != nil {
		return nil, err
	}
	if len(enrolledIDs) == 0 {
		return r.Popular(ctx, limit)
	}

	var categoryIDs []uint
	err = r.db.WithContext(ctx).
		Table("course_categories").
		Where("course_id IN ?", enrolledIDs).
		Distinct().
		Pluck("category_id", &categoryIDs).Error
	if err != nil {
		return nil, err
	}

	var courses []model.Course
	err = r.db.WithContext(ctx).
		Select("DISTINCT "+studentsCountSelect).
		Preload("Categories").
		Joins("JOIN course_categories cc ON cc.course_id = courses.id").
		Where("cc.category_id IN ?", categoryIDs).
		Where("courses.id NOT IN ?", enrolledIDs).
		Order("students_count DESC").
		Limit(limit).
		Find(&courses).Error
	return courses, err
}

func (r *courseRepository) ReplaceCategories(ctx context.Context, course *model.Course, categories []model.Category) error {
	return r.db.WithContext(ctx).Model(course).Association("Categories").Replace(categories)
}

func (r *courseRepository) SetLessonsCount(ctx context.Context, courseID uint, count int) error {
	return r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("id = ?", courseID).
		Update("lessons_count", count).Error
}

func (r *courseRepository) filtered(ctx context.Context, filter CourseFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Course{})

	if filter.CategoryID != 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM course_categories WHERE course_categories.course_id = courses.id AND course_categories.category_id = ?)",
			filter.CategoryID,
		)
	}
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Author != "" {
		query = query.Where("LOWER(author) LIKE ?", "%"+strings.ToLower(filter.Author)+"%")
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}
	return query
}

func orderClause(sortBy, sortOrder string) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	return "courses." + column + " " + direction
}
