package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MMXXXII/educational-platform/internal/service"
)

// LessonHandler handles lesson content endpoints.
type LessonHandler struct {
	lessonService service.LessonService
}

// NewLessonHandler creates a new lesson handler.
func NewLessonHandler(lessonService service.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService}
}

// LessonRequest represents a lesson creation request.
type LessonRequest struct {
	CourseID  uint   `json:"course_id" validate:"required"`
	Title     string `json:"title" validate:"required,max=200"`
	Content   string `json:"content"`
	Order     int    `json:"order" validate:"gte=0"`
	SceneData string `json:"scene_data"`
}

// UpdateLessonRequest represents a partial lesson update.
type UpdateLessonRequest struct {
	Title     *string `json:"title" validate:"omitempty,max=200"`
	Content   *string `json:"content"`
	Order     *int    `json:"order" validate:"omitempty,gte=0"`
	SceneData *string `json:"scene_data"`
}

// ListByCourse godoc
// @Summary List a course's lessons in order
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {array} model.Lesson
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id}/lessons [get]
func (h *LessonHandler) ListByCourse(c echo.Context) error {
	courseID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	lessons, err := h.lessonService.ListByCourse(c.Request().Context(), courseID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, lessons)
}

// Get godoc
// @Summary Get a lesson
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} model.Lesson
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	lesson, err := h.lessonService.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, lesson)
}

// Create godoc
// @Summary Create a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LessonRequest true "Lesson data"
// @Success 201 {object} model.Lesson
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lessons [post]
func (h *LessonHandler) Create(c echo.Context) error {
	var req LessonRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	lesson, err := h.lessonService.Create(c.Request().Context(), service.LessonInput{
		CourseID:  req.CourseID,
		Title:     req.Title,
		Content:   req.Content,
		Order:     req.Order,
		SceneData: req.SceneData,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, lesson)
}

// Update godoc
// @Summary Update a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param request body UpdateLessonRequest true "Changes"
// @Success 200 {object} model.Lesson
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lessons/{id} [put]
func (h *LessonHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateLessonRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	lesson, err := h.lessonService.Update(c.Request().Context(), id, service.LessonUpdate{
		Title:     req.Title,
		Content:   req.Content,
		Order:     req.Order,
		SceneData: req.SceneData,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, lesson)
}

// Delete godoc
// @Summary Delete a lesson
// @Tags lessons
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lessons/{id} [delete]
func (h *LessonHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.lessonService.Delete(c.Request().Context(), id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
