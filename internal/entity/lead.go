package entity

import (
	"strings"
	"time"
	"unicode"
)

const (
	StatusProspect        = "Prospect"
	StatusActiveProspect  = "Active Prospect"
	StatusVisitedProspect = "Visited Prospect"
	StatusClient          = "Client"
)

const OfficeTypeOffice = "Office"

// VisitDetail is a free-form visit questionnaire appended to a lead.
type VisitDetail map[string]any

type Lead struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	LeadName             string `json:"lead_name"`
	Company              string `json:"company"`
	LeasingStatus        string `json:"leasing_status"`
	AssignedTo           string `json:"assigned_to"`
	PreSalesAssignedUser string `json:"pre_sales_assigned_user"`
	ManagedBy            string `json:"managed_by"`

	MobilePhone       string `json:"mobile_phone"`
	PrimaryEmail      string `json:"primary_email"`
	SecondaryEmail    string `json:"secondary_email"`
	AlternativeNumber string `json:"alternative_number"`
	WhatsappLink1     string `json:"whatsapp_link_1"`
	WhatsappLink2     string `json:"whatsapp_link_2"`

	LeadTitle string `json:"lead_title"`
	Building  string `json:"building"`
	Floor     string `json:"floor"`
	Nearby    string `json:"nearby"`
	Agreement string `json:"agreement"`

	VisitDetails []VisitDetail `json:"visit_details"`
	Seats        []BillingItem `json:"seats"`
	Amenities    []BillingItem `json:"amenities"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Contact prefers the mobile number over the primary email.
func (l *Lead) Contact() string {
	if l.MobilePhone != "" {
		return l.MobilePhone
	}
	return l.PrimaryEmail
}

// Initials takes the first letter of up to two words of the name.
func Initials(name string) string {
	var b strings.Builder
	n := 0
	for _, part := range strings.Fields(name) {
		r := []rune(part)
		b.WriteRune(unicode.ToUpper(r[0]))
		n++
		if n == 2 {
			break
		}
	}
	return b.String()
}

// Assign applies the claim outcome to the lead. An empty manager keeps the
// previous ManagedBy value.
func (l *Lead) Assign(claimedBy, preSales, manager string) {
	l.AssignedTo = claimedBy
	l.PreSalesAssignedUser = preSales
	if manager != "" {
		l.ManagedBy = manager
	}
}
