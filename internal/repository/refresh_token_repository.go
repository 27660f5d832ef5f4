package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MMXXXII/educational-platform/internal/model"
)

// RefreshTokenRepository persists at most one active refresh token per user.
type RefreshTokenRepository interface {
	// Rotate deletes every refresh token of the user and inserts the new one
	// in a single transaction. On failure nothing is applied.
	Rotate(ctx context.Context, userID uint, token string, expiresAt time.Time) (*model.RefreshToken, error)
	FindByUserID(ctx context.Context, userID uint) (*model.RefreshToken, error)
	DeleteByUserID(ctx context.Context, userID uint) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository builds a GORM-backed repository.
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Rotate(ctx context.Context, userID uint, token string, expiresAt time.Time) (*model.RefreshToken, error) {
	record := &model.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *refreshTokenRepository) FindByUserID(ctx context.Context, userID uint) (*model.RefreshToken, error) {
	var record model.RefreshToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *refreshTokenRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RefreshToken{}).Error
}
