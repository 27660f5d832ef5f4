package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/MMXXXII/educational-platform/internal/errors"
	"github.com/MMXXXII/educational-platform/internal/middleware"
	"github.com/MMXXXII/educational-platform/internal/service"
)

// FileHandler handles personal storage endpoints.
type FileHandler struct {
	fileService service.FileService
}

// NewFileHandler creates a new file handler.
func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// CreateFolderRequest represents a folder creation request.
type CreateFolderRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	ParentID *uint  `json:"parent_id"`
}

// ListFolders godoc
// @Summary List the authenticated user's folders
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param parent query int false "Parent folder ID, omit for root"
// @Success 200 {array} model.UserFile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /folders [get]
func (h *FileHandler) ListFolders(c echo.Context) error {
	parentID, err := queryUintPtr(c, "parent")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	folders, err := h.fileService.ListFolders(c.Request().Context(), user.ID, parentID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, folders)
}

// CreateFolder godoc
// @Summary Create a folder
// @Tags files
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateFolderRequest true "Folder data"
// @Success 201 {object} model.UserFile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /folders [post]
func (h *FileHandler) CreateFolder(c echo.Context) error {
	var req CreateFolderRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	user := middleware.CurrentUser(c)
	folder, err := h.fileService.CreateFolder(c.Request().Context(), user.ID, req.Name, req.ParentID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, folder)
}

// DeleteFolder godoc
// @Summary Delete a folder and everything under it
// @Tags files
// @Security BearerAuth
// @Param id path int true "Folder ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /folders/{id} [delete]
func (h *FileHandler) DeleteFolder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if err := h.fileService.DeleteFolder(c.Request().Context(), user.ID, id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListFiles godoc
// @Summary List the authenticated user's files
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param folder query int false "Folder ID, omit for root"
// @Success 200 {array} model.UserFile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /files [get]
func (h *FileHandler) ListFiles(c echo.Context) error {
	folderID, err := queryUintPtr(c, "folder")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	files, err := h.fileService.ListFiles(c.Request().Context(), user.ID, folderID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, files)
}

// Upload godoc
// @Summary Upload a file
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File content"
// @Param folder formData int false "Destination folder ID"
// @Success 201 {object} model.UserFile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /files [post]
func (h *FileHandler) Upload(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "missing file field",
			Code:  "INVALID_REQUEST",
		})
	}

	var folderID *uint
	if raw := c.FormValue("folder"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid folder",
				Code:  "INVALID_ID",
			})
		}
		id := uint(value)
		folderID = &id
	}

	src, err := header.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to read upload",
			Code:  "UPLOAD_FAILED",
		})
	}
	defer src.Close()

	user := middleware.CurrentUser(c)
	file, err := h.fileService.Upload(c.Request().Context(), user.ID, header.Filename, src, folderID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, file)
}

// Download godoc
// @Summary Download a file
// @Tags files
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "File ID"
// @Success 200 {file} binary
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /files/{id}/download [get]
func (h *FileHandler) Download(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	path, filename, err := h.fileService.Path(c.Request().Context(), user.ID, id)
	if err != nil {
		return domainError(err)
	}
	return c.Attachment(path, filename)
}

// Delete godoc
// @Summary Delete a file
// @Tags files
// @Security BearerAuth
// @Param id path int true "File ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if err := h.fileService.Delete(c.Request().Context(), user.ID, id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
