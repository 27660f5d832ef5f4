package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MMXXXII/educational-platform/internal/middleware"
	"github.com/MMXXXII/educational-platform/internal/model"
	"github.com/MMXXXII/educational-platform/internal/repository"
	"github.com/MMXXXII/educational-platform/internal/service"
)

const (
	defaultShelfLimit = 5
	maxShelfLimit     = 20
)

// CourseHandler handles catalog and category endpoints.
type CourseHandler struct {
	courseService service.CourseService
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// CourseRequest represents a course creation request.
type CourseRequest struct {
	Title           string  `json:"title" validate:"required,max=200"`
	Description     string  `json:"description" validate:"required"`
	LongDescription string  `json:"long_description"`
	Level           string  `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	Author          string  `json:"author" validate:"required,max=100"`
	ImageURL        *string `json:"image_url"`
	LessonsCount    int     `json:"lessons_count" validate:"gte=0"`
	CategoryIDs     []uint  `json:"category_ids" validate:"required,min=1"`
}

// UpdateCourseRequest represents a partial course update; absent fields are
// left unchanged.
type UpdateCourseRequest struct {
	Title           *string `json:"title" validate:"omitempty,max=200"`
	Description     *string `json:"description"`
	LongDescription *string `json:"long_description"`
	Level           *string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Author          *string `json:"author" validate:"omitempty,max=100"`
	ImageURL        *string `json:"image_url"`
	LessonsCount    *int    `json:"lessons_count" validate:"omitempty,gte=0"`
	CategoryIDs     []uint  `json:"category_ids"`
}

// CategoryRequest represents a category creation request.
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Slug        string  `json:"slug" validate:"required,max=100"`
	Description *string `json:"description"`
}

// CategoriesResponse represents the full category listing.
type CategoriesResponse struct {
	Items []model.Category `json:"items"`
	Total int              `json:"total"`
}

// List godoc
// @Summary List courses with filtering, sorting and pagination
// @Tags courses
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Param category_id query int false "Filter by category"
// @Param level query string false "Filter by level"
// @Param search query string false "Search in title and description"
// @Param author query string false "Filter by author substring"
// @Param sort_by query string false "Sort column"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} service.CourseList
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	categoryID, err := queryUintPtr(c, "category_id")
	if err != nil {
		return err
	}

	filter := repository.CourseFilter{
		Level:     c.QueryParam("level"),
		Search:    c.QueryParam("search"),
		Author:    c.QueryParam("author"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}
	if categoryID != nil {
		filter.CategoryID = *categoryID
	}

	list, err := h.courseService.List(
		c.Request().Context(),
		filter,
		queryInt(c, "page", 1),
		queryInt(c, "size", 10),
	)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// Get godoc
// @Summary Get a course with its lessons
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} model.Course
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	course, err := h.courseService.Get(c.Request().Context(), id, middleware.CurrentUser(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, course)
}

// Create godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CourseRequest true "Course data"
// @Success 201 {object} model.Course
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	var req CourseRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	course, err := h.courseService.Create(c.Request().Context(), service.CourseInput{
		Title:           req.Title,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		Level:           req.Level,
		Author:          req.Author,
		ImageURL:        req.ImageURL,
		LessonsCount:    req.LessonsCount,
		CategoryIDs:     req.CategoryIDs,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, course)
}

// Update godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body UpdateCourseRequest true "Changes"
// @Success 200 {object} model.Course
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateCourseRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	course, err := h.courseService.Update(c.Request().Context(), id, service.CourseUpdate{
		Title:           req.Title,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		Level:           req.Level,
		Author:          req.Author,
		ImageURL:        req.ImageURL,
		LessonsCount:    req.LessonsCount,
		CategoryIDs:     req.CategoryIDs,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, course)
}

// Delete godoc
// @Summary Delete a course and its dependent records
// @Tags courses
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.courseService.Delete(c.Request().Context(), id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Popular godoc
// @Summary List courses with the most enrolled students
// @Tags courses
// @Produce json
// @Param limit query int false "Shelf size"
// @Success 200 {array} model.Course
// @Failure 500 {object} errors.ErrorResponse
// @Router /courses/popular [get]
func (h *CourseHandler) Popular(c echo.Context) error {
	courses, err := h.courseService.Popular(c.Request().Context(), shelfLimit(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, courses)
}

// Recent godoc
// @Summary List the newest courses
// @Tags courses
// @Produce json
// @Param limit query int false "Shelf size"
// @Success 200 {array} model.Course
// @Failure 500 {object} errors.ErrorResponse
// @Router /courses/recent [get]
func (h *CourseHandler) Recent(c echo.Context) error {
	courses, err := h.courseService.Recent(c.Request().Context(), shelfLimit(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, courses)
}

// Recommended godoc
// @Summary List courses recommended for the authenticated user
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Shelf size"
// @Success 200 {array} model.Course
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /courses/recommended [get]
func (h *CourseHandler) Recommended(c echo.Context) error {
	user := middleware.CurrentUser(c)

	courses, err := h.courseService.Recommended(c.Request().Context(), user.ID, shelfLimit(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, courses)
}

// ListCategories godoc
// @Summary List all categories
// @Tags categories
// @Produce json
// @Success 200 {object} CategoriesResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /courses/categories [get]
func (h *CourseHandler) ListCategories(c echo.Context) error {
	categories, err := h.courseService.ListCategories(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, CategoriesResponse{
		Items: categories,
		Total: len(categories),
	})
}

// GetCategory godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} model.Category
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/categories/{id} [get]
func (h *CourseHandler) GetCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	category, err := h.courseService.GetCategory(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, category)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "Category data"
// @Success 201 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /courses/categories [post]
func (h *CourseHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	category, err := h.courseService.CreateCategory(c.Request().Context(), req.Name, req.Slug, req.Description)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, category)
}

func shelfLimit(c echo.Context) int {
	limit := queryInt(c, "limit", defaultShelfLimit)
	if limit < 1 {
		limit = defaultShelfLimit
	}
	if limit > maxShelfLimit {
		limit = maxShelfLimit
	}
	return limit
}
