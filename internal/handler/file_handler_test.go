package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MMXXXII/educational-platform/internal/model"
)

// upload posts a multipart file to /api/files.
func (a *testApp) upload(t *testing.T, token, filename, content, folderID string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	if folderID != "" {
		require.NoError(t, writer.WriteField("folder", folderID))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func TestFileStorage(t *testing.T) {
	app := newTestApp(t, &stubVK{})
	alicePair := app.register(t, "alice", "password123", "")
	bobPair := app.register(t, "bob", "password123", "")

	rec := app.request(t, http.MethodPost, "/api/folders", alicePair.AccessToken, `{"name":"docs"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	folder := decode[model.UserFile](t, rec)
	assert.True(t, folder.IsFolder)
	folderID := strconv.Itoa(int(folder.ID))

	rec = app.upload(t, alicePair.AccessToken, "notes.txt", "hello world", folderID)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	file := decode[model.UserFile](t, rec)
	assert.Equal(t, "notes.txt", file.Filename)
	assert.Equal(t, int64(len("hello world")), file.Size)
	fileID := strconv.Itoa(int(file.ID))

	t.Run("listing is scoped to the folder", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/files?folder="+folderID, alicePair.AccessToken, "")
		require.Equal(t, http.StatusOK, rec.Code)
		files := decode[[]model.UserFile](t, rec)
		require.Len(t, files, 1)
		assert.Equal(t, "notes.txt", files[0].Filename)

		// Root level holds no files.
		rec = app.request(t, http.MethodGet, "/api/files", alicePair.AccessToken, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[[]model.UserFile](t, rec))
	})

	t.Run("download returns the content", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/files/"+fileID+"/download", alicePair.AccessToken, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello world", rec.Body.String())
	})

	t.Run("other users cannot see or fetch the file", func(t *testing.T) {
		rec := app.request(t, http.MethodGet, "/api/files/"+fileID+"/download", bobPair.AccessToken, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "FILE_NOT_FOUND")

		rec = app.request(t, http.MethodGet, "/api/folders", bobPair.AccessToken, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[[]model.UserFile](t, rec))
	})

	t.Run("upload into a foreign folder is rejected", func(t *testing.T) {
		rec := app.upload(t, bobPair.AccessToken, "sneaky.txt", "x", folderID)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "FOLDER_NOT_FOUND")
	})

	t.Run("folder deletion removes descendants", func(t *testing.T) {
		// Nested folder with a file inside.
		rec := app.request(t, http.MethodPost, "/api/folders", alicePair.AccessToken,
			`{"name":"nested","parent_id":`+folderID+`}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		nested := decode[model.UserFile](t, rec)

		rec = app.upload(t, alicePair.AccessToken, "deep.txt", "deep", strconv.Itoa(int(nested.ID)))
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = app.request(t, http.MethodDelete, "/api/folders/"+folderID, alicePair.AccessToken, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		var count int64
		require.NoError(t, app.db.Model(&model.UserFile{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})
}
