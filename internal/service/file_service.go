package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/MMXXXII/educational-platform/internal/errors"
	"github.com/MMXXXII/educational-platform/internal/model"
	"github.com/MMXXXII/educational-platform/internal/repository"
)

// FileService handles the per-user personal storage tree. Metadata lives in
// the database; file blobs live on local disk under the configured base
// directory.
type FileService interface {
	ListFolders(ctx context.Context, userID uint, parentID *uint) ([]model.UserFile, error)
	CreateFolder(ctx context.Context, userID uint, name string, parentID *uint) (*model.UserFile, error)
	DeleteFolder(ctx context.Context, userID, folderID uint) error
	ListFiles(ctx context.Context, userID uint, folderID *uint) ([]model.UserFile, error)
	Upload(ctx context.Context, userID uint, filename string, src io.Reader, folderID *uint) (*model.UserFile, error)
	Delete(ctx context.Context, userID, fileID uint) error
	// Path resolves a file to its on-disk location for download.
	Path(ctx context.Context, userID, fileID uint) (absPath, filename string, err error)
}

type fileService struct {
	files   repository.FileRepository
	baseDir string
}

// NewFileService creates a new file service rooted at baseDir.
func NewFileService(files repository.FileRepository, baseDir string) FileService {
	return &fileService{
		files:   files,
		baseDir: baseDir,
	}
}

func (s *fileService) ListFolders(ctx context.Context, userID uint, parentID *uint) ([]model.UserFile, error) {
	if parentID != nil {
		if _, err := s.folder(ctx, userID, *parentID); err != nil {
			return nil, err
		}
	}
	return s.files.ListFolders(ctx, userID, parentID)
}

func (s *fileService) CreateFolder(ctx context.Context, userID uint, name string, parentID *uint) (*model.UserFile, error) {
	if parentID != nil {
		if _, err := s.folder(ctx, userID, *parentID); err != nil {
			return nil, err
		}
	}

	folder := &model.UserFile{
		UserID:   userID,
		Filename: name,
		IsFolder: true,
		ParentID: parentID,
	}
	if err := s.files.Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return folder, nil
}

// DeleteFolder removes a folder, every descendant row and every descendant
// blob on disk.
func (s *fileService) DeleteFolder(ctx context.Context, userID, folderID uint) error {
	folder, err := s.folder(ctx, userID, folderID)
	if err != nil {
		return err
	}

	descendants, err := s.files.ListDescendants(ctx, userID, folderID)
	if err != nil {
		return fmt.Errorf("list folder contents: %w", err)
	}

	// Delete children before parents so the rows never orphan on failure.
	for i := len(descendants) - 1; i >= 0; i-- {
		node := descendants[i]
		if !node.IsFolder {
			s.removeBlob(node.RelativePath)
		}
		if err := s.files.Delete(ctx, &node); err != nil {
			return fmt.Errorf("delete folder contents: %w", err)
		}
	}
	return s.files.Delete(ctx, folder)
}

func (s *fileService) ListFiles(ctx context.Context, userID uint, folderID *uint) ([]model.UserFile, error) {
	if folderID != nil {
		if _, err := s.folder(ctx, userID, *folderID); err != nil {
			return nil, err
		}
	}
	return s.files.ListFiles(ctx, userID, folderID)
}

// Upload stores the blob under a collision-free name and records metadata.
// On any failure the blob is removed again; no orphan rows are left behind.
func (s *fileService) Upload(ctx context.Context, userID uint, filename string, src io.Reader, folderID *uint) (*model.UserFile, error) {
	if folderID != nil {
		if _, err := s.folder(ctx, userID, *folderID); err != nil {
			return nil, err
		}
	}

	relPath := filepath.Join(
		fmt.Sprintf("user_%d", userID),
		uuid.NewString()+filepath.Ext(filename),
	)
	absPath := filepath.Join(s.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.removeBlob(relPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	file := &model.UserFile{
		UserID:       userID,
		Filename:     filename,
		RelativePath: relPath,
		ParentID:     folderID,
		Size:         written,
	}
	if err := s.files.Create(ctx, file); err != nil {
		s.removeBlob(relPath)
		return nil, fmt.Errorf("record file: %w", err)
	}
	return file, nil
}

func (s *fileService) Delete(ctx context.Context, userID, fileID uint) error {
	file, err := s.file(ctx, userID, fileID)
	if err != nil {
		return err
	}
	s.removeBlob(file.RelativePath)
	return s.files.Delete(ctx, file)
}

func (s *fileService) Path(ctx context.Context, userID, fileID uint) (string, string, error) {
	file, err := s.file(ctx, userID, fileID)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(s.baseDir, file.RelativePath), file.Filename, nil
}

func (s *fileService) folder(ctx context.Context, userID, id uint) (*model.UserFile, error) {
	node, err := s.files.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFolderNotFound
		}
		return nil, err
	}
	if !node.IsFolder {
		return nil, apperrors.ErrFolderNotFound
	}
	return node, nil
}

func (s *fileService) file(ctx context.Context, userID, id uint) (*model.UserFile, error) {
	node, err := s.files.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, err
	}
	if node.IsFolder {
		return nil, apperrors.ErrFileNotFound
	}
	return node, nil
}

func (s *fileService) removeBlob(relPath string) {
	if relPath == "" {
		return
	}
	_ = os.Remove(filepath.Join(s.baseDir, relPath))
}
