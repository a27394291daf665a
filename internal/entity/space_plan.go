package entity

const SpacePlanStatusRequired = "Required"

const SpacePlanPlaceholderAttachment = "dummy.pdf"

type SpacePlan struct {
	Name               string              `json:"name"`
	LeadID             string              `json:"lead_id"`
	AdditionalComments string              `json:"additional_comments"`
	Status             string              `json:"status"`
	Locations          []SpacePlanLocation `json:"locations"`
	Items              []SpacePlanItem     `json:"items"`
}

type SpacePlanLocation struct {
	Location   string `json:"location"`
	Floor      string `json:"floor"`
	Attachment string `json:"attachment"`
	Comment    string `json:"comment"`
}

type SpacePlanItem struct {
	Category string `json:"category"`
	Item     string `json:"item"`
	Required int    `json:"required"`
	Quantity int    `json:"quantity"`
	Comment  string `json:"comment"`
}

// SpacePlanDetail is a layout revision uploaded against a space plan. Files
// live in two named collections: Latest (approval candidates) and Previous.
type SpacePlanDetail struct {
	Name       string          `json:"name"`
	Parent     string          `json:"parent"`
	LeadID     string          `json:"lead_id"`
	Title      string          `json:"name1"`
	Approved   bool            `json:"approved"`
	Attachment string          `json:"attachment"`
	Latest     []SpacePlanFile `json:"latest"`
	Previous   []SpacePlanFile `json:"previous"`
}

type SpacePlanFile struct {
	Name       string `json:"name"`
	Attachment string `json:"attachment"`
	Comment    string `json:"comment"`
	Location   string `json:"location"`
	Floor      string `json:"floor"`
	Approved   bool   `json:"approved"`
}
