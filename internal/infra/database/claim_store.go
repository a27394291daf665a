package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
	"github.com/xavierca1/leasing-crm/internal/usecase"
)

// ClaimStore runs a claim's reads and writes in one READ COMMITTED transaction.
type ClaimStore struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewClaimStore(db *sql.DB, logger *zap.Logger) *ClaimStore {
	return &ClaimStore{DB: db, Logger: logger}
}

func (s *ClaimStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx usecase.ClaimTx) error) (err error) {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin claim transaction: %w", classify(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(withTx(ctx, tx), &claimTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.Logger.Error("claim rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit claim: %w", classify(err))
	}
	return nil
}

type txKey struct{}

// withTx binds tx to ctx so reads made during a claim reuse its connection.
func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queryerFor returns the transaction bound to ctx, or db when there is none.
func queryerFor(ctx context.Context, db *sql.DB) queryer {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

type claimTx struct {
	tx *sql.Tx
}

func (c *claimTx) LockProspect(ctx context.Context, id string) (*entity.VisitingProspect, error) {
	row := c.tx.QueryRowContext(ctx,
		`SELECT`+prospectColumns+` FROM visiting_prospects vp WHERE vp.id = $1 FOR UPDATE`, id)
	p, err := scanProspect(row)
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

func (c *claimTx) MarkClaimed(ctx context.Context, id, claimedBy string, at time.Time) (bool, error) {
	res, err := c.tx.ExecContext(ctx, `
		UPDATE visiting_prospects
		SET claimed_by = $2, claimed_on = $3, modified = NOW()
		WHERE id = $1 AND (claimed_by IS NULL OR claimed_by = '')`,
		id, claimedBy, at,
	)
	if err != nil {
		return false, fmt.Errorf("mark prospect claimed: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (c *claimTx) FindLead(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := scanLead(c.tx.QueryRowContext(ctx,
		`SELECT`+leadColumns+` FROM leads l WHERE l.id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, classify(err)
	}
	return l, nil
}

func (c *claimTx) UpdateLeadAssignment(ctx context.Context, lead *entity.Lead) error {
	res, err := c.tx.ExecContext(ctx, `
		UPDATE leads
		SET assignedto = $2, pre_sales_assigned_user = $3, managedby = $4, modified = NOW()
		WHERE id = $1`,
		lead.ID, lead.AssignedTo, nullString(lead.PreSalesAssignedUser), nullString(lead.ManagedBy),
	)
	if err != nil {
		return fmt.Errorf("update lead assignment: %w", classify(err))
	}
	return expectOneRow(res)
}

func (c *claimTx) AppendVisitDetail(ctx context.Context, leadID string, detail entity.VisitDetail) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("encode visit detail: %w", err)
	}
	_, err = c.tx.ExecContext(ctx, `
		INSERT INTO lead_visit_details (lead_id, idx, data, creation)
		VALUES ($1, (SELECT COALESCE(MAX(idx), 0) + 1 FROM lead_visit_details WHERE lead_id = $1), $2, NOW())`,
		leadID, data,
	)
	if err != nil {
		return fmt.Errorf("append visit detail: %w", classify(err))
	}
	return nil
}
