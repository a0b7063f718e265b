// Package documents stores per-user JSON documents grouped by collection.
package documents

import (
	"context"

	"github.com/dmitrijs2005/moodkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts doc and fills in Seq and CreatedAt.
	Create(ctx context.Context, doc *models.Document) error
	// ListAfter returns up to limit documents with Seq > afterSeq, oldest first.
	ListAfter(ctx context.Context, userID, collection string, afterSeq int64, limit int) ([]*models.Document, error)
	// Delete returns common.ErrorNotFound when nothing matched.
	Delete(ctx context.Context, userID, collection, id string) error
}
