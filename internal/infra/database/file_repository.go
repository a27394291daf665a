package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

const fileColumns = `id, file_name, file_url, is_private, file_size, content_hash, attached_to_doctype, attached_to_name`

type FileRepository struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewFileRepository(db *sql.DB, logger *zap.Logger) *FileRepository {
	return &FileRepository{DB: db, Logger: logger}
}

func scanFile(row rowScanner) (*entity.File, error) {
	var (
		f                          entity.File
		name, hash, doctype, owner sql.NullString
		size                       sql.NullInt64
	)
	if err := row.Scan(&f.ID, &name, &f.FileURL, &f.IsPrivate, &size, &hash, &doctype, &owner); err != nil {
		return nil, err
	}
	f.FileName, f.ContentHash = name.String, hash.String
	f.AttachedToDoctype, f.AttachedToName = doctype.String, owner.String
	f.FileSize = size.Int64
	return &f, nil
}

// FindByURL returns the most recent file stored under url.
func (r *FileRepository) FindByURL(ctx context.Context, url string) (*entity.File, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM files WHERE file_url = $1 ORDER BY creation DESC LIMIT 1`, url)
	f, err := scanFile(row)
	if err != nil {
		return nil, classify(err)
	}
	return f, nil
}

func (r *FileRepository) AttachToLead(ctx context.Context, fileID, leadID string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE files
		SET attached_to_doctype = $2, attached_to_name = $3, modified = NOW()
		WHERE id = $1`,
		fileID, entity.DoctypeLeads, leadID,
	)
	if err != nil {
		return fmt.Errorf("attach file: %w", classify(err))
	}
	return expectOneRow(res)
}

func (r *FileRepository) ListForLead(ctx context.Context, leadID string) ([]*entity.File, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+fileColumns+`
		FROM files
		WHERE attached_to_doctype = $1 AND attached_to_name = $2
		ORDER BY creation DESC`,
		entity.DoctypeLeads, leadID,
	)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", classify(err))
	}
	defer rows.Close()

	var out []*entity.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
