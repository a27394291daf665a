package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

const prospectColumns = `
	vp.id, vp.name1, vp.company, vp.mobile_number, vp.email_id, vp.lead_type,
	vp.date_and_time_of_visit, vp.visit_location1, vp.visit_created_by_pre_sales,
	vp.assigned_to, vp.creation, vp.claimed_by, vp.claimed_on, vp.removed_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProspect(row rowScanner) (*entity.VisitingProspect, error) {
	var (
		p                                      entity.VisitingProspect
		name, company, mobile, email, leadType sql.NullString
		location, preSales, assignedTo         sql.NullString
		claimedBy, removedBy                   sql.NullString
		visitAt, claimedOn                     sql.NullTime
	)
	err := row.Scan(
		&p.ID, &name, &company, &mobile, &email, &leadType,
		&visitAt, &location, &preSales,
		&assignedTo, &p.CreatedAt, &claimedBy, &claimedOn, &removedBy,
	)
	if err != nil {
		return nil, err
	}
	p.Name = name.String
	p.Company = company.String
	p.MobileNumber = mobile.String
	p.EmailID = email.String
	p.LeadType = leadType.String
	p.VisitAt = timePtr(visitAt)
	p.VisitLocation = location.String
	p.CreatedByPreSales = preSales.String
	p.AssignedTo = assignedTo.String
	p.ClaimedBy = claimedBy.String
	p.ClaimedOn = timePtr(claimedOn)
	p.RemovedBy = removedBy.String
	return &p, nil
}

type ProspectRepository struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewProspectRepository(db *sql.DB, logger *zap.Logger) *ProspectRepository {
	return &ProspectRepository{DB: db, Logger: logger}
}

func (r *ProspectRepository) FindByID(ctx context.Context, id string) (*entity.VisitingProspect, error) {
	query := `SELECT` + prospectColumns + ` FROM visiting_prospects vp WHERE vp.id = $1`
	p, err := scanProspect(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

// ListClaimable returns prospects still open for claiming on the board.
func (r *ProspectRepository) ListClaimable(ctx context.Context) ([]*entity.VisitingProspect, error) {
	query := `SELECT` + prospectColumns + `
		FROM visiting_prospects vp
		JOIN leads l ON l.id = vp.id
		WHERE (vp.claimed_by IS NULL OR vp.claimed_by = '')
		  AND vp.claimed_on IS NULL
		  AND (vp.removed_by IS NULL OR vp.removed_by = '')
		  AND l.leasing_status IN ($1, $2)
		ORDER BY vp.creation DESC`

	rows, err := r.DB.QueryContext(ctx, query, entity.StatusProspect, entity.StatusActiveProspect)
	if err != nil {
		return nil, fmt.Errorf("list claimable prospects: %w", classify(err))
	}
	defer rows.Close()

	var out []*entity.VisitingProspect
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prospect: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProspectRepository) SetRemovedBy(ctx context.Context, id, removedBy string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE visiting_prospects SET removed_by = $2, modified = NOW() WHERE id = $1`,
		id, removedBy,
	)
	if err != nil {
		r.Logger.Error("failed to set removed_by", zap.String("lead_id", id), zap.Error(err))
		return fmt.Errorf("set removed_by: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set removed_by: %w", err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
