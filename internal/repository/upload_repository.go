package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"excel-analytics/internal/model"
)

type UploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

func (r *UploadRepository) Create(ctx context.Context, upload *model.Upload) error {
	if err := r.db.WithContext(ctx).Omit("Dataset").Create(upload).Error; err != nil {
		return fmt.Errorf("create upload failed: %w", err)
	}
	return nil
}

// ListByUserID returns the user's uploads newest first with their datasets attached.
func (r *UploadRepository) ListByUserID(ctx context.Context, userID uint) ([]model.Upload, error) {
	var uploads []model.Upload
	if err := r.db.WithContext(ctx).
		Preload("Dataset").
		Where("user_id = ?", userID).
		Order("uploaded_at DESC").
		Order("id DESC").
		Find(&uploads).Error; err != nil {
		return nil, fmt.Errorf("list uploads failed: %w", err)
	}
	return uploads, nil
}

func (r *UploadRepository) GetByIDAndUserID(ctx context.Context, id, userID uint) (*model.Upload, error) {
	var upload model.Upload
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&upload).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query upload failed: %w", err)
	}
	return &upload, nil
}

func (r *UploadRepository) GetByDatasetIDAndUserID(ctx context.Context, datasetID string, userID uint) (*model.Upload, error) {
	var upload model.Upload
	if err := r.db.WithContext(ctx).
		Where("dataset_id = ? AND user_id = ?", datasetID, userID).
		First(&upload).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query upload by dataset failed: %w", err)
	}
	return &upload, nil
}

func (r *UploadRepository) DeleteByIDAndUserID(ctx context.Context, id, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Upload{})
	if result.Error != nil {
		return false, fmt.Errorf("delete upload failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
