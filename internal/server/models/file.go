package models

import "time"

// Upload states of a File.
const (
	FileStatusPending   = "pending"
	FileStatusCompleted = "completed"
)

// File is the metadata of a blob kept in object storage.
type File struct {
	ID          string
	UserID      string
	Bucket      string
	StorageKey  string
	Filename    string
	ContentType string
	Size        int64
	Status      string
	CreatedAt   time.Time
}
