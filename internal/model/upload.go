package model

import "time"

// Upload is one ledger entry: a stored file owned by a user and the dataset
// parsed from it.
type Upload struct {
	ID           uint      `gorm:"primaryKey" json:"id" msgpack:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id" msgpack:"user_id"`
	Filename     string    `gorm:"size:255;not null" json:"filename" msgpack:"filename"`
	OriginalName string    `gorm:"size:255;not null" json:"original_name" msgpack:"original_name"`
	DatasetID    string    `gorm:"size:36;not null;uniqueIndex" json:"dataset_id" msgpack:"dataset_id"`
	Dataset      *Dataset  `gorm:"foreignKey:DatasetID" json:"-" msgpack:"dataset"`
	UploadedAt   time.Time `gorm:"not null;index" json:"uploaded_at" msgpack:"uploaded_at"`
}
