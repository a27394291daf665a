package entity

type Employee struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ReportsTo string `json:"reports_to"`
}
