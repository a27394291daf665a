package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

var detailCols = []string{"name", "parent", "lead_id", "name1", "approved", "attachment"}

func TestFindSpacePlanByLead(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSpacePlanRepository(db, zap.NewNop())

	mock.ExpectQuery(`FROM space_plans`).WithArgs("L1").
		WillReturnRows(sqlmock.NewRows([]string{"name", "lead_id", "additional_comments", "status"}).
			AddRow("SP-1", "L1", nil, entity.SpacePlanStatusRequired))
	mock.ExpectQuery(`FROM space_plan_locations`).WithArgs("SP-1").
		WillReturnRows(sqlmock.NewRows([]string{"location", "floor", "attachment", "comment"}).
			AddRow("Tower A", "5", "dummy.pdf", nil))
	mock.ExpectQuery(`FROM space_plan_items`).WithArgs("SP-1").
		WillReturnRows(sqlmock.NewRows([]string{"category", "item", "required", "quantity", "comment"}).
			AddRow("Seating", "Desk", 1, 4, nil))

	p, err := repo.FindByLead(context.Background(), "L1")

	require.NoError(t, err)
	assert.Equal(t, "SP-1", p.Name)
	assert.Equal(t, []entity.SpacePlanLocation{{Location: "Tower A", Floor: "5", Attachment: "dummy.pdf"}}, p.Locations)
	assert.Equal(t, []entity.SpacePlanItem{{Category: "Seating", Item: "Desk", Required: 1, Quantity: 4}}, p.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDetailsGroupsFileCollections(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSpacePlanRepository(db, zap.NewNop())

	mock.ExpectQuery(`WHERE lead_id = \$1 AND parent = \$2`).WithArgs("L1", "SP-1").
		WillReturnRows(sqlmock.NewRows(detailCols).
			AddRow("SPD-1", "SP-1", "L1", "Layout", true, "/f/l.pdf"))
	mock.ExpectQuery(`FROM space_plan_files`).WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"detail_name", "collection", "name", "attachment", "comment", "location", "floor", "approved"}).
			AddRow("SPD-1", "latest", "v2", "/f/v2.pdf", nil, "Tower A", "5", true).
			AddRow("SPD-1", "previous", "v1", "/f/v1.pdf", "old", nil, nil, false).
			AddRow("SPD-9", "latest", "stray", "/f/x.pdf", nil, nil, nil, true))

	details, err := repo.ListDetails(context.Background(), "L1", "SP-1")

	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, []entity.SpacePlanFile{{Name: "v2", Attachment: "/f/v2.pdf", Location: "Tower A", Floor: "5", Approved: true}}, details[0].Latest)
	assert.Equal(t, []entity.SpacePlanFile{{Name: "v1", Attachment: "/f/v1.pdf", Comment: "old"}}, details[0].Previous)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDetailsWithoutDetailsSkipsFiles(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSpacePlanRepository(db, zap.NewNop())

	mock.ExpectQuery(`FROM space_plan_details`).WithArgs("L1", "SP-1").
		WillReturnRows(sqlmock.NewRows(detailCols))

	details, err := repo.ListDetails(context.Background(), "L1", "SP-1")

	require.NoError(t, err)
	assert.Empty(t, details)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRoles(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoleRepository(db, zap.NewNop())

	mock.ExpectQuery(`FROM internal_app_role_users dm`).
		WithArgs("rep@x.com", entity.RoleTypeTL, entity.RoleTypeUser).
		WillReturnRows(sqlmock.NewRows([]string{"name", "role_type"}).
			AddRow("Leasing", "user").
			AddRow("Sales", "tl"))

	roles, err := repo.ListRoles(context.Background(), "rep@x.com")

	require.NoError(t, err)
	assert.Equal(t, []entity.RoleAssignment{
		{Department: "Leasing", RoleType: entity.RoleTypeUser},
		{Department: "Sales", RoleType: entity.RoleTypeTL},
	}, roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}
