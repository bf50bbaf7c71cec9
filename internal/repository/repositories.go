package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles the stores that must change together when an upload
// is recorded or removed.
type Repositories struct {
	db       *gorm.DB
	Datasets *DatasetRepository
	Uploads  *UploadRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:       db,
		Datasets: NewDatasetRepository(db),
		Uploads:  NewUploadRepository(db),
	}
}

// Transaction runs fn against repositories bound to a single transaction.
// Returning an error from fn rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
