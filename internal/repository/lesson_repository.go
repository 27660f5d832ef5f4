package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MMXXXII/educational-platform/internal/model"
)

// LessonRepository defines persistence operations for lessons.
type LessonRepository interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	Update(ctx context.Context, lesson *model.Lesson) error
	Delete(ctx context.Context, lesson *model.Lesson) error
	FindByID(ctx context.Context, id uint) (*model.Lesson, error)
	ListByCourse(ctx context.Context, courseID uint) ([]model.Lesson, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
}

type lessonRepository struct {
	db *gorm.DB
}

// NewLessonRepository builds a GORM-backed repository.
func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *lessonRepository) Update(ctx context.Context, lesson *model.Lesson) error {
	return r.db.WithContext(ctx).Save(lesson).Error
}

func (r *lessonRepository) Delete(ctx context.Context, lesson *model.Lesson) error {
	return r.db.WithContext(ctx).Delete(lesson).Error
}

func (r *lessonRepository) FindByID(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepository) ListByCourse(ctx context.Context, courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("lesson_order").
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}
