package entity

const (
	RoleTypeUser = "user"
	RoleTypeTL   = "tl"
)

type RoleAssignment struct {
	Department string `json:"department"`
	RoleType   string `json:"role_type"`
}
