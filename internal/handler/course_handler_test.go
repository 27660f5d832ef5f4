package handler_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MMXXXII/educational-platform/internal/handler"
	"github.com/MMXXXII/educational-platform/internal/model"
	"github.com/MMXXXII/educational-platform/internal/service"
)

// createCatalog builds a category and a course through the admin API and
// returns their IDs.
func createCatalog(t *testing.T, app *testApp, adminToken string) (categoryID, courseID uint) {
	t.Helper()

	rec := app.request(t, http.MethodPost, "/api/courses/categories", adminToken,
		`{"name":"Programming","slug":"programming"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	category := decode[model.Category](t, rec)

	rec = app.request(t, http.MethodPost, "/api/courses", adminToken,
		`{"title":"Go Basics","description":"Introduction to Go","level":"beginner","author":"Elena Petrova","category_ids":[`+strconv.Itoa(int(category.ID))+`]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	course := decode[model.Course](t, rec)

	return category.ID, course.ID
}

func TestCourseCatalog(t *testing.T) {
	app := newTestApp(t, &stubVK{})
	adminPair := app.register(t, "root", "password123", "admin")
	userPair := app.register(t, "alice", "password123", "")
	_, courseID := createCatalog(t, app, adminPair.AccessToken)

	t.Run("course creation requires admin", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/courses", userPair.AccessToken,
			`{"title":"X","description":"Y","level":"beginner","author":"Z","category_ids":[1]}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("public listing with pagination contract", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/courses", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		list := decode[service.CourseList](t, rec)
		assert.Equal(t, int64(1), list.Total)
		assert.Equal(t, 1, list.Page)
		assert.Equal(t, 10, list.Size)
		assert.Equal(t, 1, list.Pages)
		assert.Len(t, list.Items, 1)
	})

	t.Run("unknown category on create", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/courses", adminPair.AccessToken,
			`{"title":"X","description":"Y","level":"beginner","author":"Z","category_ids":[999]}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "CATEGORY_NOT_FOUND")
	})

	t.Run("duplicate category slug", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/courses/categories", adminPair.AccessToken,
			`{"name":"Other","slug":"programming"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "CATEGORY_EXISTS")
	})

	t.Run("category listing is public", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/courses/categories", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		categories := decode[handler.CategoriesResponse](t, rec)
		assert.Equal(t, 1, categories.Total)
	})

	t.Run("course detail requires authentication", func(t *testing.T) {
		path := "/api/courses/" + strconv.Itoa(int(courseID))

		rec := app.request(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = app.request(t, http.MethodGet, path, userPair.AccessToken, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("update and delete", func(t *testing.T) {
		path := "/api/courses/" + strconv.Itoa(int(courseID))

		rec := app.request(t, http.MethodPut, path, adminPair.AccessToken, `{"title":"Go Basics 2"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		updated := decode[model.Course](t, rec)
		assert.Equal(t, "Go Basics 2", updated.Title)
		// Untouched fields survive a partial update.
		assert.Equal(t, "Elena Petrova", updated.Author)

		rec = app.request(t, http.MethodDelete, path, adminPair.AccessToken, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = app.request(t, http.MethodGet, path, userPair.AccessToken, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEnrollmentFlow(t *testing.T) {
	app := newTestApp(t, &stubVK{})
	adminPair := app.register(t, "root", "password123", "admin")
	userPair := app.register(t, "alice", "password123", "")
	_, courseID := createCatalog(t, app, adminPair.AccessToken)
	coursePath := strconv.Itoa(int(courseID))

	rec := app.request(t, http.MethodPost, "/api/courses/enroll", userPair.AccessToken,
		`{"course_id":`+coursePath+`}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	enrollment := decode[model.CourseEnrollment](t, rec)
	assert.Equal(t, float64(0), enrollment.Progress)
	assert.False(t, enrollment.Completed)

	t.Run("double enrollment is rejected", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/courses/enroll", userPair.AccessToken,
			`{"course_id":`+coursePath+`}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "ALREADY_ENROLLED")
	})

	t.Run("progress reaching 100 marks completion", func(t *testing.T) {
		path := "/api/courses/enrollments/" + strconv.Itoa(int(enrollment.ID))

		rec := app.request(t, http.MethodPut, path, userPair.AccessToken, `{"progress":150}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		updated := decode[model.CourseEnrollment](t, rec)
		assert.Equal(t, float64(100), updated.Progress)
		assert.True(t, updated.Completed)
	})

	t.Run("progress endpoint", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/courses/"+coursePath+"/progress", userPair.AccessToken, "")
		require.Equal(t, http.StatusOK, rec.Code)

		progress := decode[model.CourseEnrollment](t, rec)
		assert.Equal(t, float64(100), progress.Progress)
	})

	t.Run("my courses pages over enrollments", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/courses/my-courses", userPair.AccessToken, "")
		require.Equal(t, http.StatusOK, rec.Code)

		list := decode[service.CourseList](t, rec)
		assert.Equal(t, int64(1), list.Total)
		assert.Len(t, list.Items, 1)
	})

	t.Run("another user cannot touch the enrollment", func(t *testing.T) {
		otherPair := app.register(t, "mallory", "password123", "")
		path := "/api/courses/enrollments/" + strconv.Itoa(int(enrollment.ID))

		rec := app.request(t, http.MethodPut, path, otherPair.AccessToken, `{"progress":0}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "ENROLLMENT_NOT_FOUND")
	})

	t.Run("unenroll", func(t *testing.T) {
		path := "/api/courses/enrollments/" + strconv.Itoa(int(enrollment.ID))

		rec := app.request(t, http.MethodDelete, path, userPair.AccessToken, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = app.request(t, http.MethodGet, "/api/courses/enrollments", userPair.AccessToken, "")
		require.Equal(t, http.StatusOK, rec.Code)
		enrollments := decode[[]model.CourseEnrollment](t, rec)
		assert.Empty(t, enrollments)
	})
}

func TestLessonAdministration(t *testing.T) {
	app := newTestApp(t, &stubVK{})
	adminPair := app.register(t, "root", "password123", "admin")
	userPair := app.register(t, "alice", "password123", "")
	_, courseID := createCatalog(t, app, adminPair.AccessToken)
	coursePath := strconv.Itoa(int(courseID))

	rec := app.request(t, http.MethodPost, "/api/lessons", adminPair.AccessToken,
		`{"course_id":`+coursePath+`,"title":"Intro","order":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	lesson := decode[model.Lesson](t, rec)

	t.Run("creation syncs the course lesson counter", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/courses/"+coursePath, userPair.AccessToken, "")
		require.Equal(t, http.StatusOK, rec.Code)

		course := decode[model.Course](t, rec)
		assert.Equal(t, 1, course.LessonsCount)
	})

	t.Run("non-admin cannot create lessons", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/lessons", userPair.AccessToken,
			`{"course_id":`+coursePath+`,"title":"Nope"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("lessons are listed in order", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/api/lessons", adminPair.AccessToken,
			`{"course_id":`+coursePath+`,"title":"Zero","order":0}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = app.request(t, http.MethodGet, "/api/courses/"+coursePath+"/lessons", userPair.AccessToken, "")
		require.Equal(t, http.StatusOK, rec.Code)

		lessons := decode[[]model.Lesson](t, rec)
		require.Len(t, lessons, 2)
		assert.Equal(t, "Zero", lessons[0].Title)
		assert.Equal(t, "Intro", lessons[1].Title)
	})

	t.Run("deletion syncs the counter back", func(t *testing.T) {
		rec := app.request(t, http.MethodDelete, "/api/lessons/"+strconv.Itoa(int(lesson.ID)), adminPair.AccessToken, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = app.request(t, http.MethodGet, "/api/courses/"+coursePath, userPair.AccessToken, "")
		require.Equal(t, http.StatusOK, rec.Code)
		course := decode[model.Course](t, rec)
		assert.Equal(t, 1, course.LessonsCount)
	})
}
