package model

import "time"

// FileCleanupEvent asks the cleanup worker to remove a stored upload file.
type FileCleanupEvent struct {
	UploadID       uint      `json:"upload_id" msgpack:"upload_id"`
	UserID         uint      `json:"user_id" msgpack:"user_id"`
	StoredFilename string    `json:"stored_filename" msgpack:"stored_filename"`
	RequestedAt    time.Time `json:"requested_at" msgpack:"requested_at"`
}
