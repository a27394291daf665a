package entity

import "time"

// ProspectCard is a row on a sales rep's prospect board.
type ProspectCard struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Company       string     `json:"company"`
	VisitAt       *time.Time `json:"dateandtime"`
	LeasingStatus string     `json:"-"`
}

type ProspectJourney struct {
	ID            string     `json:"id"`
	LeasingStatus string     `json:"leasing_status"`
	Name          string     `json:"name"`
	Company       string     `json:"company"`
	VisitDate     *time.Time `json:"visit_date"`
	LatestComment string     `json:"latest_comment"`
}
