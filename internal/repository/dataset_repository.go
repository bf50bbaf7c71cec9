package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"excel-analytics/internal/model"
)

type DatasetRepository struct {
	db *gorm.DB
}

func NewDatasetRepository(db *gorm.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

func (r *DatasetRepository) Create(ctx context.Context, ds *model.Dataset) error {
	if err := r.db.WithContext(ctx).Create(ds).Error; err != nil {
		return fmt.Errorf("create dataset failed: %w", err)
	}
	return nil
}

func (r *DatasetRepository) GetByID(ctx context.Context, id string) (*model.Dataset, error) {
	var ds model.Dataset
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ds).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query dataset by id failed: %w", err)
	}
	return &ds, nil
}

// DeleteByID reports whether a dataset was removed.
func (r *DatasetRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Dataset{})
	if result.Error != nil {
		return false, fmt.Errorf("delete dataset failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
