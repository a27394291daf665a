package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

type RoleRepository struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewRoleRepository(db *sql.DB, logger *zap.Logger) *RoleRepository {
	return &RoleRepository{DB: db, Logger: logger}
}

// ListRoles lists every department where the user is a member or a team lead.
func (r *RoleRepository) ListRoles(ctx context.Context, user string) ([]entity.RoleAssignment, error) {
	query := `
		SELECT d.name,
		       CASE dm.parentfield WHEN 'tls' THEN $2 ELSE $3 END AS role_type
		FROM internal_app_role_users dm
		JOIN internal_app_roles d ON d.name = dm.parent
		WHERE dm.user_id = $1
		  AND dm.parentfield IN ('user', 'tls')
		ORDER BY d.name, role_type`

	rows, err := r.DB.QueryContext(ctx, query, user, entity.RoleTypeTL, entity.RoleTypeUser)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", classify(err))
	}
	defer rows.Close()

	var out []entity.RoleAssignment
	for rows.Next() {
		var ra entity.RoleAssignment
		if err := rows.Scan(&ra.Department, &ra.RoleType); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		out = append(out, ra)
	}
	return out, rows.Err()
}
