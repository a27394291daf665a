package entity

import (
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("record not found")

// VisitingProspect is the intake record a sales rep claims. It shares its ID
// with the Lead it belongs to.
type VisitingProspect struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Company           string     `json:"company"`
	MobileNumber      string     `json:"mobile_number"`
	EmailID           string     `json:"email_id"`
	LeadType          string     `json:"lead_type"`
	VisitAt           *time.Time `json:"date_and_time_of_visit"`
	VisitLocation     string     `json:"visit_location1"`
	CreatedByPreSales string     `json:"visit_created_by_pre_sales"`
	AssignedTo        string     `json:"assigned_to"`
	CreatedAt         time.Time  `json:"creation"`
	ClaimedBy         string     `json:"claimed_by"`
	ClaimedOn         *time.Time `json:"claimed_on"`
	RemovedBy         string     `json:"removed_by"`
}

func (p *VisitingProspect) IsClaimed() bool {
	return strings.TrimSpace(p.ClaimedBy) != ""
}

func (p *VisitingProspect) IsRemoved() bool {
	return strings.TrimSpace(p.RemovedBy) != ""
}

// Claim sets the claimant once. It reports false when the prospect already has one.
func (p *VisitingProspect) Claim(user string, at time.Time) bool {
	if p.IsClaimed() {
		return false
	}
	p.ClaimedBy = user
	p.ClaimedOn = &at
	return true
}
