package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

const (
	collectionLatest   = "latest"
	collectionPrevious = "previous"
)

type SpacePlanRepository struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewSpacePlanRepository(db *sql.DB, logger *zap.Logger) *SpacePlanRepository {
	return &SpacePlanRepository{DB: db, Logger: logger}
}

// FindByLead returns the lead's most recently modified plan with its rows.
func (r *SpacePlanRepository) FindByLead(ctx context.Context, leadID string) (*entity.SpacePlan, error) {
	var (
		p        entity.SpacePlan
		comments sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT name, lead_id, additional_comments, status
		FROM space_plans
		WHERE lead_id = $1
		ORDER BY modified DESC
		LIMIT 1`, leadID,
	).Scan(&p.Name, &p.LeadID, &comments, &p.Status)
	if err != nil {
		return nil, classify(err)
	}
	p.AdditionalComments = comments.String

	if p.Locations, err = r.locations(ctx, p.Name); err != nil {
		return nil, err
	}
	if p.Items, err = r.items(ctx, p.Name); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SpacePlanRepository) locations(ctx context.Context, plan string) ([]entity.SpacePlanLocation, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT location, floor, attachment, comment
		FROM space_plan_locations
		WHERE plan_name = $1
		ORDER BY idx`, plan)
	if err != nil {
		return nil, fmt.Errorf("list plan locations: %w", classify(err))
	}
	defer rows.Close()

	out := []entity.SpacePlanLocation{}
	for rows.Next() {
		var loc, floor, att, comment sql.NullString
		if err := rows.Scan(&loc, &floor, &att, &comment); err != nil {
			return nil, fmt.Errorf("scan plan location: %w", err)
		}
		out = append(out, entity.SpacePlanLocation{
			Location: loc.String, Floor: floor.String, Attachment: att.String, Comment: comment.String,
		})
	}
	return out, rows.Err()
}

func (r *SpacePlanRepository) items(ctx context.Context, plan string) ([]entity.SpacePlanItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT category, item, required, quantity, comment
		FROM space_plan_items
		WHERE plan_name = $1
		ORDER BY idx`, plan)
	if err != nil {
		return nil, fmt.Errorf("list plan items: %w", classify(err))
	}
	defer rows.Close()

	out := []entity.SpacePlanItem{}
	for rows.Next() {
		var (
			it                      entity.SpacePlanItem
			category, item, comment sql.NullString
		)
		if err := rows.Scan(&category, &item, &it.Required, &it.Quantity, &comment); err != nil {
			return nil, fmt.Errorf("scan plan item: %w", err)
		}
		it.Category, it.Item, it.Comment = category.String, item.String, comment.String
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *SpacePlanRepository) Create(ctx context.Context, plan *entity.SpacePlan) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create plan: %w", classify(err))
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO space_plans (name, lead_id, additional_comments, status, creation, modified)
		VALUES ($1, $2, $3, $4, NOW(), NOW())`,
		plan.Name, plan.LeadID, nullString(plan.AdditionalComments), plan.Status,
	)
	if err != nil {
		return fmt.Errorf("insert space plan: %w", classify(err))
	}

	for _, loc := range plan.Locations {
		if err := insertLocation(ctx, tx, plan.Name, loc); err != nil {
			return err
		}
	}
	if err := insertItems(ctx, tx, plan.Name, plan.Items); err != nil {
		return err
	}
	return tx.Commit()
}

// AddRequirement appends a location and items to an existing plan and moves
// it back to Required.
func (r *SpacePlanRepository) AddRequirement(ctx context.Context, name, comments string, loc entity.SpacePlanLocation, items []entity.SpacePlanItem) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add requirement: %w", classify(err))
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE space_plans
		SET additional_comments = COALESCE(NULLIF($2, ''), additional_comments),
		    status = $3,
		    modified = NOW()
		WHERE name = $1`,
		name, comments, entity.SpacePlanStatusRequired,
	)
	if err != nil {
		return fmt.Errorf("update space plan: %w", classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return err
	}

	if err := insertLocation(ctx, tx, name, loc); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, name, items); err != nil {
		return err
	}
	return tx.Commit()
}

func insertLocation(ctx context.Context, tx *sql.Tx, plan string, loc entity.SpacePlanLocation) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO space_plan_locations (plan_name, idx, location, floor, attachment, comment)
		VALUES ($1, (SELECT COALESCE(MAX(idx), 0) + 1 FROM space_plan_locations WHERE plan_name = $1), $2, $3, $4, $5)`,
		plan, loc.Location, loc.Floor, loc.Attachment, loc.Comment,
	)
	if err != nil {
		return fmt.Errorf("insert plan location: %w", classify(err))
	}
	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, plan string, items []entity.SpacePlanItem) error {
	for _, it := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO space_plan_items (plan_name, idx, category, item, required, quantity, comment)
			VALUES ($1, (SELECT COALESCE(MAX(idx), 0) + 1 FROM space_plan_items WHERE plan_name = $1), $2, $3, $4, $5, $6)`,
			plan, it.Category, it.Item, it.Required, it.Quantity, it.Comment,
		)
		if err != nil {
			return fmt.Errorf("insert plan item: %w", classify(err))
		}
	}
	return nil
}

// ListDetails loads the plan's detail documents with both file collections.
func (r *SpacePlanRepository) ListDetails(ctx context.Context, leadID, planName string) ([]entity.SpacePlanDetail, error) {
	details, err := r.queryDetails(ctx, `
		SELECT name, parent, lead_id, name1, approved, attachment
		FROM space_plan_details
		WHERE lead_id = $1 AND parent = $2
		ORDER BY creation`, leadID, planName)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	index := make(map[string]int, len(details))
	names := make([]string, 0, len(details))
	for i, d := range details {
		index[d.Name] = i
		names = append(names, d.Name)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT detail_name, collection, name, attachment, comment, location, floor, approved
		FROM space_plan_files
		WHERE detail_name = ANY($1)
		ORDER BY detail_name, collection, idx`, stringArray(names))
	if err != nil {
		return nil, fmt.Errorf("list detail files: %w", classify(err))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			detail, collection                  string
			f                                   entity.SpacePlanFile
			att, comment, location, floor, name sql.NullString
		)
		if err := rows.Scan(&detail, &collection, &name, &att, &comment, &location, &floor, &f.Approved); err != nil {
			return nil, fmt.Errorf("scan detail file: %w", err)
		}
		f.Name, f.Attachment, f.Comment, f.Location, f.Floor = name.String, att.String, comment.String, location.String, floor.String

		i, ok := index[detail]
		if !ok {
			continue
		}
		switch collection {
		case collectionLatest:
			details[i].Latest = append(details[i].Latest, f)
		case collectionPrevious:
			details[i].Previous = append(details[i].Previous, f)
		}
	}
	return details, rows.Err()
}

func (r *SpacePlanRepository) DetailRows(ctx context.Context, planName string) ([]entity.SpacePlanDetail, error) {
	return r.queryDetails(ctx, `
		SELECT name, parent, lead_id, name1, approved, attachment
		FROM space_plan_details
		WHERE parent = $1
		ORDER BY creation`, planName)
}

func (r *SpacePlanRepository) queryDetails(ctx context.Context, query string, args ...any) ([]entity.SpacePlanDetail, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list space plan details: %w", classify(err))
	}
	defer rows.Close()

	out := []entity.SpacePlanDetail{}
	for rows.Next() {
		var (
			d                  entity.SpacePlanDetail
			leadID, title, att sql.NullString
		)
		if err := rows.Scan(&d.Name, &d.Parent, &leadID, &title, &d.Approved, &att); err != nil {
			return nil, fmt.Errorf("scan space plan detail: %w", err)
		}
		d.LeadID, d.Title, d.Attachment = leadID.String, title.String, att.String
		out = append(out, d)
	}
	return out, rows.Err()
}
