package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrEmptyMessage is returned by Decode for a nil Struct.
var ErrEmptyMessage = errors.New("empty message")

// Credentials is the Register/Login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Tokens is returned by Login and RefreshToken.
type Tokens struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// CreateDocument is the CreateDocument payload.
type CreateDocument struct {
	Collection string         `json:"collection"`
	Data       map[string]any `json:"data"`
}

// ListDocuments requests one page of a collection. An empty PageToken
// starts from the oldest document; PageSize <= 0 lets the server decide.
type ListDocuments struct {
	Collection string `json:"collection"`
	PageToken  string `json:"page_token,omitempty"`
	PageSize   int    `json:"page_size,omitempty"`
}

// Document is one stored document as returned by ListDocuments.
type Document struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	Data       map[string]any `json:"data"`
	CreatedAt  time.Time      `json:"created_at"`
}

// DocumentPage is the ListDocuments reply. NextPageToken is empty on the last page.
type DocumentPage struct {
	Documents     []Document `json:"documents"`
	NextPageToken string     `json:"next_page_token,omitempty"`
}

// DocumentRef addresses one document.
type DocumentRef struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

// UploadRequest asks for a presigned upload slot. Size travels as a
// string, as proto3 JSON does for int64, since a Struct number is a double.
type UploadRequest struct {
	Bucket      string `json:"bucket"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size,string"`
}

// UploadTicket carries the file id and the presigned PUT URL.
type UploadTicket struct {
	FileID string `json:"file_id"`
	URL    string `json:"url"`
}

// FileRef addresses one stored file.
type FileRef struct {
	Bucket string `json:"bucket"`
	FileID string `json:"file_id"`
}

// Encode converts a JSON-tagged value into a Struct.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return s, nil
}

// Decode fills v from a Struct produced by Encode.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		return ErrEmptyMessage
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}
