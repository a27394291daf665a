package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

type RoleUseCase struct {
	Roles  RoleRepository
	Logger *zap.Logger
}

func NewRoleUseCase(roles RoleRepository, logger *zap.Logger) *RoleUseCase {
	return &RoleUseCase{Roles: roles, Logger: logger}
}

// LoginRoles lists the departments the user belongs to, as a member
// ("user") or as a team lead ("tl").
func (uc *RoleUseCase) LoginRoles(ctx context.Context, user string) ([]entity.RoleAssignment, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, NewValidationError("Missing required parameter: loginUser")
	}
	roles, err := uc.Roles.ListRoles(ctx, user)
	if err != nil {
		uc.Logger.Error("list login roles failed", zap.String("user", user), zap.Error(err))
		return nil, structure("list roles", err)
	}
	if len(roles) == 0 {
		return nil, NewNotFoundError(fmt.Sprintf("No department or role found for user: %s", user))
	}
	return roles, nil
}
