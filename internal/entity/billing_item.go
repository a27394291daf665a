package entity

import "time"

const (
	ItemKindSeat    = "Seat"
	ItemKindAmenity = "Amenity"
)

const DefaultBillingEntity = "Millertech Spaces LLP"

const SeatRolloutStatus = "CRF&MAF"

// BillingItem is one seat or amenity line on a lead.
type BillingItem struct {
	ID                 string     `json:"id"`
	LeadID             string     `json:"lead_id"`
	Kind               string     `json:"type"`
	ItemCode           string     `json:"item_code"`
	SalesDescription   string     `json:"sales_description"`
	Qty                float64    `json:"qty"`
	Rate               float64    `json:"rate"`
	Amount             float64    `json:"amount"`
	StartDate          *time.Time `json:"start_date"`
	StopDate           *time.Time `json:"stop_date"`
	RolloutStatus      string     `json:"rollout_status"`
	Floor              string     `json:"floor"`
	NovelBillingEntity string     `json:"novel_billing_entity"`
	BillingPeriod      string     `json:"billing_period"`
	DepositAmount      float64    `json:"deposit_amt"`
	DepositMonths      int        `json:"deposit_months"`
}

func NewBillingItem(leadID, kind, code, description string, qty, rate float64, day time.Time) BillingItem {
	item := BillingItem{
		LeadID:             leadID,
		Kind:               kind,
		ItemCode:           code,
		SalesDescription:   description,
		Qty:                qty,
		Rate:               rate,
		Amount:             qty * rate,
		StartDate:          &day,
		StopDate:           &day,
		NovelBillingEntity: DefaultBillingEntity,
	}
	if kind == ItemKindSeat {
		item.RolloutStatus = SeatRolloutStatus
	}
	return item
}

type CatalogEntry struct {
	Name string `json:"name"`
}
