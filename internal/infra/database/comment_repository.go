package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

type CommentRepository struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewCommentRepository(db *sql.DB, logger *zap.Logger) *CommentRepository {
	return &CommentRepository{DB: db, Logger: logger}
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	query := `
		INSERT INTO comments (id, comment_type, reference_doctype, reference_name, content, comment_by, creation)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.CommentType, c.ReferenceDoctype, c.ReferenceName, c.Content, nullString(c.CommentBy), c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", classify(err))
	}
	return nil
}

// ListForLead returns the lead's comments, newest first.
func (r *CommentRepository) ListForLead(ctx context.Context, leadID string) ([]*entity.Comment, error) {
	query := `
		SELECT id, comment_type, reference_doctype, reference_name, content, comment_by, creation
		FROM comments
		WHERE reference_doctype = $2
		  AND reference_name = $1
		  AND comment_type = $3
		ORDER BY creation DESC`

	rows, err := r.DB.QueryContext(ctx, query, leadID, entity.DoctypeLeads, entity.CommentTypeComment)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", classify(err))
	}
	defer rows.Close()

	var out []*entity.Comment
	for rows.Next() {
		var (
			c           entity.Comment
			content, by sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.CommentType, &c.ReferenceDoctype, &c.ReferenceName, &content, &by, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.Content, c.CommentBy = content.String, by.String
		out = append(out, &c)
	}
	return out, rows.Err()
}
