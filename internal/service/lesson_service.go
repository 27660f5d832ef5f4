package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/MMXXXII/educational-platform/internal/errors"
	"github.com/MMXXXII/educational-platform/internal/model"
	"github.com/MMXXXII/educational-platform/internal/repository"
)

// LessonInput carries the fields for creating a lesson.
type LessonInput struct {
	CourseID  uint
	Title     string
	Content   string
	Order     int
	SceneData string
}

// LessonUpdate carries optional lesson changes; nil means unchanged.
type LessonUpdate struct {
	Title     *string
	Content   *string
	Order     *int
	SceneData *string
}

// LessonService handles course lesson content.
type LessonService interface {
	ListByCourse(ctx context.Context, courseID uint) ([]model.Lesson, error)
	Get(ctx context.Context, id uint) (*model.Lesson, error)
	Create(ctx context.Context, input LessonInput) (*model.Lesson, error)
	Update(ctx context.Context, id uint, update LessonUpdate) (*model.Lesson, error)
	Delete(ctx context.Context, id uint) error
}

type lessonService struct {
	lessons repository.LessonRepository
	courses repository.CourseRepository
}

// NewLessonService creates a new lesson service.
func NewLessonService(lessons repository.LessonRepository, courses repository.CourseRepository) LessonService {
	return &lessonService{
		lessons: lessons,
		courses: courses,
	}
}

func (s *lessonService) ListByCourse(ctx context.Context, courseID uint) ([]model.Lesson, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}
	return s.lessons.ListByCourse(ctx, courseID)
}

func (s *lessonService) Get(ctx context.Context, id uint) (*model.Lesson, error) {
	lesson, err := s.lessons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

// Create adds a lesson and refreshes the course's lesson counter.
func (s *lessonService) Create(ctx context.Context, input LessonInput) (*model.Lesson, error) {
	if _, err := s.courses.FindByID(ctx, input.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}

	lesson := &model.Lesson{
		CourseID:  input.CourseID,
		Title:     input.Title,
		Content:   input.Content,
		Order:     input.Order,
		SceneData: input.SceneData,
	}
	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}

	if err := s.syncLessonsCount(ctx, input.CourseID); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *lessonService) Update(ctx context.Context, id uint, update LessonUpdate) (*model.Lesson, error) {
	lesson, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		lesson.Title = *update.Title
	}
	if update.Content != nil {
		lesson.Content = *update.Content
	}
	if update.Order != nil {
		lesson.Order = *update.Order
	}
	if update.SceneData != nil {
		lesson.SceneData = *update.SceneData
	}

	if err := s.lessons.Update(ctx, lesson); err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}
	return lesson, nil
}

// Delete removes a lesson and refreshes the course's lesson counter.
func (s *lessonService) Delete(ctx context.Context, id uint) error {
	lesson, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.lessons.Delete(ctx, lesson); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return s.syncLessonsCount(ctx, lesson.CourseID)
}

func (s *lessonService) syncLessonsCount(ctx context.Context, courseID uint) error {
	count, err := s.lessons.CountByCourse(ctx, courseID)
	if err != nil {
		return fmt.Errorf("count lessons: %w", err)
	}
	if err := s.courses.SetLessonsCount(ctx, courseID, int(count)); err != nil {
		return fmt.Errorf("sync lessons count: %w", err)
	}
	return nil
}
