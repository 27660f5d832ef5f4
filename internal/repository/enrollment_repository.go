package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MMXXXII/educational-platform/internal/model"
)

// EnrollmentRepository defines persistence operations for enrollments.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.CourseEnrollment) error
	Update(ctx context.Context, enrollment *model.CourseEnrollment) error
	Delete(ctx context.Context, enrollment *model.CourseEnrollment) error
	FindByID(ctx context.Context, id uint) (*model.CourseEnrollment, error)
	FindByUserAndCourse(ctx context.Context, userID, courseID uint) (*model.CourseEnrollment, error)
	ListByUser(ctx context.Context, userID uint) ([]model.CourseEnrollment, error)
	ListCourseIDsByUser(ctx context.Context, userID uint, page, size int) (ids []uint, total int64, err error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository builds a GORM-backed repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *model.CourseEnrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) Update(ctx context.Context, enrollment *model.CourseEnrollment) error {
	return r.db.WithContext(ctx).Save(enrollment).Error
}

func (r *enrollmentRepository) Delete(ctx context.Context, enrollment *model.CourseEnrollment) error {
	return r.db.WithContext(ctx).Delete(enrollment).Error
}

func (r *enrollmentRepository) FindByID(ctx context.Context, id uint) (*model.CourseEnrollment, error) {
	var enrollment model.CourseEnrollment
	if err := r.db.WithContext(ctx).First(&enrollment, id).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) FindByUserAndCourse(ctx context.Context, userID, courseID uint) (*model.CourseEnrollment, error) {
	var enrollment model.CourseEnrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListByUser returns the user's enrollments with course data, most recently
// accessed first.
func (r *enrollmentRepository) ListByUser(ctx context.Context, userID uint) ([]model.CourseEnrollment, error) {
	var enrollments []model.CourseEnrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Course").
		Preload("Course.Categories").
		Order("last_accessed_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

// ListCourseIDsByUser pages over the IDs of courses the user is enrolled in,
// most recently accessed first.
func (r *enrollmentRepository) ListCourseIDsByUser(ctx context.Context, userID uint, page, size int) ([]uint, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.CourseEnrollment{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var ids []uint
	err = r.db.WithContext(ctx).
		Model(&model.CourseEnrollment{}).
		Where("user_id = ?", userID).
		Order("last_accessed_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}
