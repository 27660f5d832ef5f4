package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MMXXXII/educational-platform/internal/middleware"
	"github.com/MMXXXII/educational-platform/internal/service"
)

// EnrollmentHandler handles enrollment and progress endpoints.
type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler.
func NewEnrollmentHandler(enrollmentService service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// EnrollRequest represents an enrollment request.
type EnrollRequest struct {
	CourseID uint `json:"course_id" validate:"required"`
}

// UpdateEnrollmentRequest represents a progress update; absent fields are
// left unchanged.
type UpdateEnrollmentRequest struct {
	Progress  *float64 `json:"progress"`
	Completed *bool    `json:"completed"`
}

// Enroll godoc
// @Summary Enroll the authenticated user in a course
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EnrollRequest true "Course to enroll in"
// @Success 201 {object} model.CourseEnrollment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/enroll [post]
func (h *EnrollmentHandler) Enroll(c echo.Context) error {
	var req EnrollRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	user := middleware.CurrentUser(c)
	enrollment, err := h.enrollmentService.Enroll(c.Request().Context(), user.ID, req.CourseID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, enrollment)
}

// List godoc
// @Summary List the authenticated user's enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.CourseEnrollment
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /courses/enrollments [get]
func (h *EnrollmentHandler) List(c echo.Context) error {
	user := middleware.CurrentUser(c)

	enrollments, err := h.enrollmentService.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, enrollments)
}

// MyCourses godoc
// @Summary Page over the authenticated user's enrolled courses
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} service.CourseList
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /courses/my-courses [get]
func (h *EnrollmentHandler) MyCourses(c echo.Context) error {
	user := middleware.CurrentUser(c)

	list, err := h.enrollmentService.MyCourses(
		c.Request().Context(),
		user.ID,
		queryInt(c, "page", 1),
		queryInt(c, "size", 10),
	)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// Progress godoc
// @Summary Get the authenticated user's progress on a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} model.CourseEnrollment
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id}/progress [get]
func (h *EnrollmentHandler) Progress(c echo.Context) error {
	courseID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	enrollment, err := h.enrollmentService.Progress(c.Request().Context(), user.ID, courseID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, enrollment)
}

// Update godoc
// @Summary Update progress on one of the authenticated user's enrollments
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param request body UpdateEnrollmentRequest true "Progress changes"
// @Success 200 {object} model.CourseEnrollment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/enrollments/{id} [put]
func (h *EnrollmentHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateEnrollmentRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	user := middleware.CurrentUser(c)
	enrollment, err := h.enrollmentService.Update(c.Request().Context(), user.ID, id, service.EnrollmentUpdate{
		Progress:  req.Progress,
		Completed: req.Completed,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, enrollment)
}

// Unenroll godoc
// @Summary Remove one of the authenticated user's enrollments
// @Tags enrollments
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/enrollments/{id} [delete]
func (h *EnrollmentHandler) Unenroll(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if err := h.enrollmentService.Unenroll(c.Request().Context(), user.ID, id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
