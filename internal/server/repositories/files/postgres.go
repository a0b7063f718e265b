package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/dmitrijs2005/moodkeeper/internal/dbx"
	"github.com/dmitrijs2005/moodkeeper/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a pending file record and fills in CreatedAt.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) error {
	query := `INSERT INTO files (id, user_id, bucket, storage_key, filename, content_type, size, upload_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	if file.Status == "" {
		file.Status = models.FileStatusPending
	}
	err := r.db.QueryRowContext(ctx, query,
		file.ID, file.UserID, file.Bucket, file.StorageKey, file.Filename, file.ContentType, file.Size, file.Status,
	).Scan(&file.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) MarkUploaded(ctx context.Context, userID, id string) error {
	query := `UPDATE files SET upload_status = 'completed'
		WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark uploaded: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("wrong rows affected count: %d", n)
	}
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.File, error) {
	query := `SELECT id, user_id, bucket, storage_key, filename, content_type, size, upload_status, created_at
		FROM files
		WHERE id = $1 AND user_id = $2`

	f := &models.File{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&f.ID, &f.UserID, &f.Bucket, &f.StorageKey, &f.Filename, &f.ContentType, &f.Size, &f.Status, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select file: %w", err)
	}
	return f, nil
}
