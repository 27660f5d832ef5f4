package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/MMXXXII/educational-platform/internal/errors"
	"github.com/MMXXXII/educational-platform/internal/model"
	"github.com/MMXXXII/educational-platform/internal/repository"
)

// EnrollmentUpdate carries progress changes; nil means unchanged.
type EnrollmentUpdate struct {
	Progress  *float64
	Completed *bool
}

// EnrollmentService handles course membership and progress tracking.
type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID uint) (*model.CourseEnrollment, error)
	ListByUser(ctx context.Context, userID uint) ([]model.CourseEnrollment, error)
	MyCourses(ctx context.Context, userID uint, page, size int) (*CourseList, error)
	Progress(ctx context.Context, userID, courseID uint) (*model.CourseEnrollment, error)
	Update(ctx context.Context, userID, enrollmentID uint, update EnrollmentUpdate) (*model.CourseEnrollment, error)
	Unenroll(ctx context.Context, userID, enrollmentID uint) error
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
}

// NewEnrollmentService creates a new enrollment service.
func NewEnrollmentService(enrollments repository.EnrollmentRepository, courses repository.CourseRepository) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		courses:     courses,
	}
}

// Enroll records the user on a course once.
func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID uint) (*model.CourseEnrollment, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}

	if _, err := s.enrollments.FindByUserAndCourse(ctx, userID, courseID); err == nil {
		return nil, apperrors.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}

	now := time.Now()
	enrollment := &model.CourseEnrollment{
		UserID:         userID,
		CourseID:       courseID,
		EnrolledAt:     now,
		LastAccessedAt: now,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	return enrollment, nil
}

func (s *enrollmentService) ListByUser(ctx context.Context, userID uint) ([]model.CourseEnrollment, error) {
	return s.enrollments.ListByUser(ctx, userID)
}

// MyCourses pages over the user's enrolled courses, most recently accessed
// first.
func (s *enrollmentService) MyCourses(ctx context.Context, userID uint, page, size int) (*CourseList, error) {
	page, size = NormalizePage(page, size)

	ids, total, err := s.enrollments.ListCourseIDsByUser(ctx, userID, page, size)
	if err != nil {
		return nil, fmt.Errorf("list enrolled course ids: %w", err)
	}

	courses, err := s.courses.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load enrolled courses: %w", err)
	}

	// ListByIDs does not preserve order; restore the access-time ordering.
	byID := make(map[uint]model.Course, len(courses))
	for _, course := range courses {
		byID[course.ID] = course
	}
	ordered := make([]model.Course, 0, len(ids))
	for _, id := range ids {
		if course, ok := byID[id]; ok {
			ordered = append(ordered, course)
		}
	}

	return &CourseList{
		Items: ordered,
		Total: total,
		Page:  page,
		Size:  size,
		Pages: pageCount(total, size),
	}, nil
}

func (s *enrollmentService) Progress(ctx context.Context, userID, courseID uint) (*model.CourseEnrollment, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}

	enrollment, err := s.enrollments.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return enrollment, nil
}

// Update applies progress changes to the caller's own enrollment. Progress
// is clamped to 0..100 and reaching 100 marks the enrollment completed
// unless the caller set the flag explicitly.
func (s *enrollmentService) Update(ctx context.Context, userID, enrollmentID uint, update EnrollmentUpdate) (*model.CourseEnrollment, error) {
	enrollment, err := s.findOwned(ctx, userID, enrollmentID)
	if err != nil {
		return nil, err
	}

	if update.Progress != nil {
		progress := *update.Progress
		if progress < 0 {
			progress = 0
		}
		if progress > 100 {
			progress = 100
		}
		enrollment.Progress = progress
		if progress >= 100 && update.Completed == nil {
			enrollment.Completed = true
		}
	}
	if update.Completed != nil {
		enrollment.Completed = *update.Completed
	}
	enrollment.LastAccessedAt = time.Now()

	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("update enrollment: %w", err)
	}
	return enrollment, nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, userID, enrollmentID uint) error {
	enrollment, err := s.findOwned(ctx, userID, enrollmentID)
	if err != nil {
		return err
	}
	return s.enrollments.Delete(ctx, enrollment)
}

// findOwned treats another user's enrollment the same as a missing one.
func (s *enrollmentService) findOwned(ctx context.Context, userID, enrollmentID uint) (*model.CourseEnrollment, error) {
	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, err
	}
	if enrollment.UserID != userID {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	return enrollment, nil
}
