package entity

import "time"

// MAFDocument is the move-in agreement form linked to a lead.
type MAFDocument struct {
	Name                 string     `json:"name"`
	Owner                string     `json:"owner"`
	Creation             time.Time  `json:"creation"`
	Modified             time.Time  `json:"modified"`
	ModifiedBy           string     `json:"modified_by"`
	LinkIn               string     `json:"link_in"`
	MAFClientID          string     `json:"maf_client_id"`
	FormURL              string     `json:"form_url"`
	TypeOfCustomer       string     `json:"type_of_customer"`
	CustomerEmail        string     `json:"customer_email"`
	AgreementEntered     string     `json:"agreement_entered"`
	Place                string     `json:"place"`
	Company              string     `json:"company2"`
	Rate                 float64    `json:"rate1"`
	CompanyAddress       string     `json:"company_address"`
	Customer             string     `json:"customer"`
	Location             string     `json:"location"`
	AuthorizedName       string     `json:"authorized_name"`
	CREmail              string     `json:"cr_email"`
	Subject              string     `json:"subject"`
	Rollout              string     `json:"rollout"`
	TermOfMAF            string     `json:"term_of_maf"`
	TermCommencementDate *time.Time `json:"term_commencement_date"`
	TermEndDate          *time.Time `json:"term_end_date"`
	HandoverDate         *time.Time `json:"handover_date"`
	SecurityDeposit      float64    `json:"security_deposit"`
	LockInPeriod         string     `json:"lockinperiod"`
	NoticePeriod         string     `json:"noticeperiod"`
	BDMEmail             string     `json:"bdm_email"`
	EmailSent            bool       `json:"email_sent"`
}
