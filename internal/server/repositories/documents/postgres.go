package documents

import (
	"context"
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

func (r *PostgresRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `INSERT INTO documents (id, user_id, collection, data)
		VALUES ($1, $2, $3, $4)
		RETURNING seq, created_at`

	err := r.db.QueryRowContext(ctx, query, doc.ID, doc.UserID, doc.Collection, doc.Data).
		Scan(&doc.Seq, &doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListAfter(ctx context.Context, userID, collection string, afterSeq int64, limit int) ([]*models.Document, error) {
	query := `SELECT id, data, seq, created_at FROM documents
		WHERE user_id = $1 AND collection = $2 AND seq > $3
		ORDER BY seq
		LIMIT $4`

	rows, err := r.db.QueryContext(ctx, query, userID, collection, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		doc := &models.Document{UserID: userID, Collection: collection}
		if err := rows.Scan(&doc.ID, &doc.Data, &doc.Seq, &doc.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, collection, id string) error {
	query := `DELETE FROM documents
		WHERE id = $1 AND user_id = $2 AND collection = $3`

	res, err := r.db.ExecContext(ctx, query, id, userID, collection)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
