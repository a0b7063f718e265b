package models

import "time"

// Document is one JSON object owned by a user inside a named collection.
// Seq is a server-assigned, monotonic position used as the paging cursor.
type Document struct {
	ID         string
	UserID     string
	Collection string
	Data       []byte
	Seq        int64
	CreatedAt  time.Time
}
