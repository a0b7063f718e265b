package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/dmitrijs2005/moodkeeper/internal/server/config"
	"github.com/dmitrijs2005/moodkeeper/internal/server/models"
	"github.com/dmitrijs2005/moodkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// namePattern restricts collection and bucket names.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

func validateName(kind, name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: invalid %s name %q", common.ErrorValidation, kind, name)
	}
	return nil
}

type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	maxPageSize int
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *DocumentService {
	return &DocumentService{db: db, repomanager: m, maxPageSize: cfg.DocumentsPageSize}
}

// Create stores data as a new document and returns it with its assigned id.
func (s *DocumentService) Create(ctx context.Context, userID, collection string, data map[string]any) (*models.Document, error) {
	if err := validateName("collection", collection); err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	doc := &models.Document{
		ID:         uuid.NewString(),
		UserID:     userID,
		Collection: collection,
		Data:       raw,
	}
	if err := s.repomanager.Documents(s.db).Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("error creating document: %w", err)
	}
	return doc, nil
}

// List returns one page of collection in creation order and the token of
// the next page ("" when this is the last one). pageSize <= 0 or above the
// configured maximum is clamped to the maximum.
func (s *DocumentService) List(ctx context.Context, userID, collection, pageToken string, pageSize int) ([]*models.Document, string, error) {
	if err := validateName("collection", collection); err != nil {
		return nil, "", err
	}
	after, err := decodePageToken(pageToken)
	if err != nil {
		return nil, "", err
	}
	if pageSize <= 0 || pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	docs, err := s.repomanager.Documents(s.db).ListAfter(ctx, userID, collection, after, pageSize+1)
	if err != nil {
		return nil, "", fmt.Errorf("error listing documents: %w", err)
	}

	var next string
	if len(docs) > pageSize {
		docs = docs[:pageSize]
		next = encodePageToken(docs[pageSize-1].Seq)
	}
	return docs, next, nil
}

// Delete removes one document. Malformed ids are reported as not found.
func (s *DocumentService) Delete(ctx context.Context, userID, collection, id string) error {
	if err := validateName("collection", collection); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return s.repomanager.Documents(s.db).Delete(ctx, userID, collection, id)
}

func encodePageToken(seq int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(seq, 10)))
}

func decodePageToken(token string) (int64, error) {
	if token == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("%w: bad page token", common.ErrorValidation)
	}
	seq, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("%w: bad page token", common.ErrorValidation)
	}
	return seq, nil
}
