package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when no valid principal can be resolved.
	ErrUnauthenticated = errors.New("could not validate credentials")
	// ErrAccountDisabled is returned when the resolved account is disabled.
	ErrAccountDisabled = errors.New("account is disabled")
	// ErrForbidden is returned when the principal's role is not permitted.
	ErrForbidden = errors.New("operation not permitted")

	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrCourseNotFound is returned when a course is not found.
	ErrCourseNotFound = errors.New("course not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryExists is returned when a category slug is already taken.
	ErrCategoryExists = errors.New("category already exists")
	// ErrLessonNotFound is returned when a lesson is not found.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrEnrollmentNotFound is returned when an enrollment is not found or
	// belongs to another user.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrAlreadyEnrolled is returned when enrolling twice in the same course.
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	// ErrFolderNotFound is returned when a folder is not found or not owned.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrFileNotFound is returned when a file is not found or not owned.
	ErrFileNotFound = errors.New("file not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrAccountDisabled):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ACCOUNT_DISABLED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrCourseNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "COURSE_NOT_FOUND")
	case errors.Is(err, ErrCategoryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CATEGORY_NOT_FOUND")
	case errors.Is(err, ErrCategoryExists):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CATEGORY_EXISTS")
	case errors.Is(err, ErrLessonNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "LESSON_NOT_FOUND")
	case errors.Is(err, ErrEnrollmentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ENROLLMENT_NOT_FOUND")
	case errors.Is(err, ErrAlreadyEnrolled):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ALREADY_ENROLLED")
	case errors.Is(err, ErrFolderNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "FOLDER_NOT_FOUND")
	case errors.Is(err, ErrFileNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "FILE_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
