package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MMXXXII/educational-platform/internal/model"
)

// FileRepository defines persistence operations for the personal file tree.
type FileRepository interface {
	Create(ctx context.Context, file *model.UserFile) error
	Delete(ctx context.Context, file *model.UserFile) error
	FindByID(ctx context.Context, userID, id uint) (*model.UserFile, error)
	ListFolders(ctx context.Context, userID uint, parentID *uint) ([]model.UserFile, error)
	ListFiles(ctx context.Context, userID uint, folderID *uint) ([]model.UserFile, error)
	ListDescendants(ctx context.Context, userID, folderID uint) ([]model.UserFile, error)
}

type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository builds a GORM-backed repository.
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *model.UserFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepository) Delete(ctx context.Context, file *model.UserFile) error {
	return r.db.WithContext(ctx).Delete(file).Error
}

func (r *fileRepository) FindByID(ctx context.Context, userID, id uint) (*model.UserFile, error) {
	var file model.UserFile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&file, id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) ListFolders(ctx context.Context, userID uint, parentID *uint) ([]model.UserFile, error) {
	return r.list(ctx, userID, parentID, true)
}

func (r *fileRepository) ListFiles(ctx context.Context, userID uint, folderID *uint) ([]model.UserFile, error) {
	return r.list(ctx, userID, folderID, false)
}

func (r *fileRepository) list(ctx context.Context, userID uint, parentID *uint, folders bool) ([]model.UserFile, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND is_folder = ?", userID, folders)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var files []model.UserFile
	if err := query.Order("filename").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// ListDescendants collects every node under the given folder, breadth-first.
func (r *fileRepository) ListDescendants(ctx context.Context, userID, folderID uint) ([]model.UserFile, error) {
	var all []model.UserFile
	frontier := []uint{folderID}
	for len(frontier) > 0 {
		var children []model.UserFile
		err := r.db.WithContext(ctx).
			Where("user_id = ? AND parent_id IN ?", userID, frontier).
			Find(&children).Error
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			break
		}
		frontier = frontier[:0]
		for _, child := range children {
			all = append(all, child)
			if child.IsFolder {
				frontier = append(frontier, child.ID)
			}
		}
	}
	return all, nil
}
