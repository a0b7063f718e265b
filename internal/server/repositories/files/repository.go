// Package files stores metadata of blobs kept in object storage.
package files

import (
	"context"

	"github.com/dmitrijs2005/moodkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) error
	// MarkUploaded flips a pending file owned by userID to completed.
	MarkUploaded(ctx context.Context, userID, id string) error
	// Get returns common.ErrorNotFound unless the file exists and belongs to userID.
	Get(ctx context.Context, userID, id string) (*models.File, error)
}
