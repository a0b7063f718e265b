package client

import (
	"context"
	"time"
)

// Credentials identify a user to the remote store.
type Credentials struct {
	Username string
	Password string
}

// Session is the authenticated state held by a RemoteStore.
type Session struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Document is a schemaless record of a collection.
type Document struct {
	ID         string
	Collection string
	Data       map[string]any
	CreatedAt  time.Time
}

// RemoteStore is the contract between the mood journal and its backend.
// Document and file operations require a session; they fail with
// ErrNoSession when there is none and ErrUnauthorized when the backend
// rejects it.
type RemoteStore interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, creds Credentials) error
	Login(ctx context.Context, creds Credentials) (*Session, error)
	Logout(ctx context.Context) error
	CurrentSession() (*Session, bool)

	CreateDocument(ctx context.Context, collection string, data map[string]any) (string, error)
	// ListDocuments returns one page in creation order. An empty next token
	// means the collection is exhausted.
	ListDocuments(ctx context.Context, collection, pageToken string) ([]Document, string, error)
	DeleteDocument(ctx context.Context, collection, id string) error

	UploadFile(ctx context.Context, bucket string, data []byte, filename, mime string) (string, error)
	DownloadFile(ctx context.Context, bucket, fileID string) ([]byte, error)

	Close() error
}
