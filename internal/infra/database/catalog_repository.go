package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

type CatalogRepository struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewCatalogRepository(db *sql.DB, logger *zap.Logger) *CatalogRepository {
	return &CatalogRepository{DB: db, Logger: logger}
}

func (r *CatalogRepository) Seats(ctx context.Context) ([]entity.CatalogEntry, error) {
	return r.list(ctx, `SELECT name FROM seat_catalog ORDER BY name`)
}

func (r *CatalogRepository) Amenities(ctx context.Context) ([]entity.CatalogEntry, error) {
	return r.list(ctx, `SELECT name FROM amenity_catalog ORDER BY name`)
}

func (r *CatalogRepository) list(ctx context.Context, query string) ([]entity.CatalogEntry, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", classify(err))
	}
	defer rows.Close()

	out := []entity.CatalogEntry{}
	for rows.Next() {
		var e entity.CatalogEntry
		if err := rows.Scan(&e.Name); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
