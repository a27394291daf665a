package database

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

type MAFRepository struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewMAFRepository(db *sql.DB, logger *zap.Logger) *MAFRepository {
	return &MAFRepository{DB: db, Logger: logger}
}

// FindByLead returns the newest form linked to the lead.
func (r *MAFRepository) FindByLead(ctx context.Context, leadID string) (*entity.MAFDocument, error) {
	query := `
		SELECT name, owner, creation, modified, modified_by, link_in, maf_client_id, form_url,
		       type_of_customer, customer_email, agreement_entered, place, company2, rate1,
		       company_address, customer, location, authorized_name, cr_email, subject, rollout,
		       term_of_maf, term_commencement_date, term_end_date, handover_date,
		       security_deposit, lockinperiod, noticeperiod, bdm_email, email_sent
		FROM maf_documents
		WHERE link_in = $1
		ORDER BY modified DESC
		LIMIT 1`

	var (
		m    entity.MAFDocument
		s    [21]sql.NullString
		rate sql.NullFloat64
		dep  sql.NullFloat64
		sent sql.NullBool

		commence, end, handover sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, leadID).Scan(
		&m.Name, &s[0], &m.Creation, &m.Modified, &s[1], &s[2], &s[3], &s[4],
		&s[5], &s[6], &s[7], &s[8], &s[9], &rate,
		&s[10], &s[11], &s[12], &s[13], &s[14], &s[15], &s[16],
		&s[17], &commence, &end, &handover,
		&dep, &s[18], &s[19], &s[20], &sent,
	)
	if err != nil {
		return nil, classify(err)
	}

	m.Owner, m.ModifiedBy, m.LinkIn, m.MAFClientID, m.FormURL = s[0].String, s[1].String, s[2].String, s[3].String, s[4].String
	m.TypeOfCustomer, m.CustomerEmail, m.AgreementEntered, m.Place, m.Company = s[5].String, s[6].String, s[7].String, s[8].String, s[9].String
	m.CompanyAddress, m.Customer, m.Location, m.AuthorizedName = s[10].String, s[11].String, s[12].String, s[13].String
	m.CREmail, m.Subject, m.Rollout, m.TermOfMAF = s[14].String, s[15].String, s[16].String, s[17].String
	m.LockInPeriod, m.NoticePeriod, m.BDMEmail = s[18].String, s[19].String, s[20].String
	m.Rate, m.SecurityDeposit, m.EmailSent = rate.Float64, dep.Float64, sent.Bool
	m.TermCommencementDate, m.TermEndDate, m.HandoverDate = timePtr(commence), timePtr(end), timePtr(handover)
	return &m, nil
}
