package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

const leadColumns = `
	l.id, l.name1, l.lead_name, l.company, l.leasing_status, l.assignedto,
	l.pre_sales_assigned_user, l.managedby, l.mobile_phone, l.primary_email,
	l.secondary_email, l.alternative_number, l.whatsapp_link_1, l.whatsapp_link_2,
	l.lead_title, l.building, l.floor, l.nearby, l.agreement, l.modified`

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		l    entity.Lead
		cols [18]sql.NullString
	)
	err := row.Scan(
		&l.ID, &cols[0], &cols[1], &cols[2], &cols[3], &cols[4],
		&cols[5], &cols[6], &cols[7], &cols[8],
		&cols[9], &cols[10], &cols[11], &cols[12],
		&cols[13], &cols[14], &cols[15], &cols[16], &cols[17], &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Name = cols[0].String
	l.LeadName = cols[1].String
	l.Company = cols[2].String
	l.LeasingStatus = cols[3].String
	l.AssignedTo = cols[4].String
	l.PreSalesAssignedUser = cols[5].String
	l.ManagedBy = cols[6].String
	l.MobilePhone = cols[7].String
	l.PrimaryEmail = cols[8].String
	l.SecondaryEmail = cols[9].String
	l.AlternativeNumber = cols[10].String
	l.WhatsappLink1 = cols[11].String
	l.WhatsappLink2 = cols[12].String
	l.LeadTitle = cols[13].String
	l.Building = cols[14].String
	l.Floor = cols[15].String
	l.Nearby = cols[16].String
	l.Agreement = cols[17].String
	return &l, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type LeadRepository struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewLeadRepository(db *sql.DB, logger *zap.Logger) *LeadRepository {
	return &LeadRepository{DB: db, Logger: logger}
}

// FindByID loads the lead with its billing lines and visit details.
func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := scanLead(r.DB.QueryRowContext(ctx, `SELECT`+leadColumns+` FROM leads l WHERE l.id = $1`, id))
	if err != nil {
		return nil, classify(err)
	}

	byLead, err := loadBillingItems(ctx, r.DB, []string{l.ID})
	if err != nil {
		return nil, err
	}
	attachItems(l, byLead[l.ID])

	l.VisitDetails, err = loadVisitDetails(ctx, r.DB, l.ID)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *LeadRepository) FindIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM leads WHERE lead_name = $1 ORDER BY modified DESC LIMIT 1`, name,
	).Scan(&id)
	if err != nil {
		return "", classify(err)
	}
	return id, nil
}

// ListByAssignee returns the user's leads in the given status with billing lines.
func (r *LeadRepository) ListByAssignee(ctx context.Context, user, status string) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT`+leadColumns+` FROM leads l WHERE l.assignedto = $1 AND l.leasing_status = $2 ORDER BY l.name1`,
		user, status,
	)
	if err != nil {
		return nil, fmt.Errorf("list leads by assignee: %w", classify(err))
	}
	defer rows.Close()

	var (
		leads []*entity.Lead
		ids   []string
	)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
		ids = append(ids, l.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return leads, nil
	}

	byLead, err := loadBillingItems(ctx, r.DB, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range leads {
		attachItems(l, byLead[l.ID])
	}
	return leads, nil
}

func (r *LeadRepository) ListProspectCards(ctx context.Context, user string) ([]entity.ProspectCard, error) {
	query := `
		SELECT l.id, l.name1, l.company, v.date_and_time_of_visit, l.leasing_status
		FROM leads l
		JOIN visiting_prospects v ON v.id = l.id
		WHERE l.leasing_status IN ($2, $3, $4)
		  AND l.assignedto = $1
		ORDER BY v.date_and_time_of_visit DESC NULLS LAST`

	rows, err := r.DB.QueryContext(ctx, query, user,
		entity.StatusProspect, entity.StatusVisitedProspect, entity.StatusActiveProspect)
	if err != nil {
		return nil, fmt.Errorf("list prospect cards: %w", classify(err))
	}
	defer rows.Close()

	out := []entity.ProspectCard{}
	for rows.Next() {
		var (
			c                     entity.ProspectCard
			name, company, status sql.NullString
			visitAt               sql.NullTime
		)
		if err := rows.Scan(&c.ID, &name, &company, &visitAt, &status); err != nil {
			return nil, fmt.Errorf("scan prospect card: %w", err)
		}
		c.Name, c.Company, c.LeasingStatus = name.String, company.String, status.String
		c.VisitAt = timePtr(visitAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Journey joins the lead with its visit and the newest comment on it.
func (r *LeadRepository) Journey(ctx context.Context, id string) (*entity.ProspectJourney, error) {
	query := `
		SELECT l.id, l.leasing_status, l.name1, l.company,
		       v.date_and_time_of_visit::date, c.content
		FROM leads l
		JOIN visiting_prospects v ON v.id = l.id
		LEFT JOIN LATERAL (
			SELECT content
			FROM comments
			WHERE comment_type = $2
			  AND reference_doctype = $3
			  AND reference_name = l.id
			ORDER BY creation DESC
			LIMIT 1
		) c ON TRUE
		WHERE l.id = $1`

	var (
		j                              entity.ProspectJourney
		status, name, company, comment sql.NullString
		visitDate                      sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, id, entity.CommentTypeComment, entity.DoctypeLeads).
		Scan(&j.ID, &status, &name, &company, &visitDate, &comment)
	if err != nil {
		return nil, classify(err)
	}
	j.LeasingStatus, j.Name, j.Company, j.LatestComment = status.String, name.String, company.String, comment.String
	j.VisitDate = timePtr(visitDate)
	return &j, nil
}

func (r *LeadRepository) UpdateLeasingStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET leasing_status = $2, modified = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update leasing status: %w", classify(err))
	}
	return expectOneRow(res)
}

// AppendBillingItems inserts the lines after the lead's existing ones in one transaction.
func (r *LeadRepository) AppendBillingItems(ctx context.Context, leadID string, items []entity.BillingItem) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append items: %w", classify(err))
	}
	defer tx.Rollback()

	// serialize concurrent proposals on the same lead so idx stays unique
	var locked string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM leads WHERE id = $1 FOR UPDATE`, leadID).Scan(&locked); err != nil {
		return classify(err)
	}

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(idx), 0) FROM lead_items WHERE lead_id = $1`, leadID,
	).Scan(&next); err != nil {
		return fmt.Errorf("next item idx: %w", classify(err))
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO lead_items (
			lead_id, kind, idx, item_code, sales_description, qty, rate, amount,
			start_date, stop_date, rollout_status, novel_billing_entity
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`)
	if err != nil {
		return fmt.Errorf("prepare item insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		next++
		if _, err := stmt.ExecContext(ctx,
			leadID, it.Kind, next, it.ItemCode, it.SalesDescription, it.Qty, it.Rate, it.Amount,
			it.StartDate, it.StopDate, nullString(it.RolloutStatus), it.NovelBillingEntity,
		); err != nil {
			return fmt.Errorf("insert lead item: %w", classify(err))
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE leads SET modified = NOW() WHERE id = $1`, leadID); err != nil {
		return fmt.Errorf("touch lead: %w", classify(err))
	}
	return tx.Commit()
}

func loadBillingItems(ctx context.Context, q querier, leadIDs []string) (map[string][]entity.BillingItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, lead_id, kind, item_code, sales_description, qty, rate, amount,
		       start_date, stop_date, rollout_status, floor, novel_billing_entity,
		       billing_period, deposit_amt, deposit_months
		FROM lead_items
		WHERE lead_id = ANY($1)
		ORDER BY lead_id, idx`, stringArray(leadIDs))
	if err != nil {
		return nil, fmt.Errorf("load lead items: %w", classify(err))
	}
	defer rows.Close()

	out := make(map[string][]entity.BillingItem)
	for rows.Next() {
		var (
			it                                     entity.BillingItem
			code, desc, rollout, floor, entityName sql.NullString
			period                                 sql.NullString
			qty, rate, amount, deposit             sql.NullFloat64
			months                                 sql.NullInt64
			start, stop                            sql.NullTime
		)
		if err := rows.Scan(&it.ID, &it.LeadID, &it.Kind, &code, &desc, &qty, &rate, &amount,
			&start, &stop, &rollout, &floor, &entityName, &period, &deposit, &months); err != nil {
			return nil, fmt.Errorf("scan lead item: %w", err)
		}
		it.ItemCode, it.SalesDescription = code.String, desc.String
		it.Qty, it.Rate, it.Amount = qty.Float64, rate.Float64, amount.Float64
		it.StartDate, it.StopDate = timePtr(start), timePtr(stop)
		it.RolloutStatus, it.Floor, it.NovelBillingEntity = rollout.String, floor.String, entityName.String
		it.BillingPeriod, it.DepositAmount, it.DepositMonths = period.String, deposit.Float64, int(months.Int64)
		out[it.LeadID] = append(out[it.LeadID], it)
	}
	return out, rows.Err()
}

func attachItems(l *entity.Lead, items []entity.BillingItem) {
	l.Seats = []entity.BillingItem{}
	l.Amenities = []entity.BillingItem{}
	for _, it := range items {
		switch it.Kind {
		case entity.ItemKindSeat:
			l.Seats = append(l.Seats, it)
		case entity.ItemKindAmenity:
			l.Amenities = append(l.Amenities, it)
		}
	}
}

func loadVisitDetails(ctx context.Context, q querier, leadID string) ([]entity.VisitDetail, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT data FROM lead_visit_details WHERE lead_id = $1 ORDER BY idx`, leadID)
	if err != nil {
		return nil, fmt.Errorf("load visit details: %w", classify(err))
	}
	defer rows.Close()

	out := []entity.VisitDetail{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan visit detail: %w", err)
		}
		var d entity.VisitDetail
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode visit detail: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
