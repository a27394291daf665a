package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/leasing-crm/internal/entity"
	"github.com/xavierca1/leasing-crm/internal/usecase"
)

// ============ MOCKS ============

type MockClaimStore struct {
	mock.Mock
	Tx *MockClaimTx
}

func (m *MockClaimStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx usecase.ClaimTx) error) error {
	m.Called(ctx)
	return fn(ctx, m.Tx)
}

type MockClaimTx struct {
	mock.Mock
}

func (m *MockClaimTx) LockProspect(ctx context.Context, id string) (*entity.VisitingProspect, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VisitingProspect), args.Error(1)
}

func (m *MockClaimTx) MarkClaimed(ctx context.Context, id, claimedBy string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, claimedBy, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockClaimTx) FindLead(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockClaimTx) UpdateLeadAssignment(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockClaimTx) AppendVisitDetail(ctx context.Context, leadID string, detail entity.VisitDetail) error {
	return m.Called(ctx, leadID, detail).Error(0)
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) ManagerOf(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(ctx context.Context, event string, payload any) error {
	return m.Called(ctx, event, payload).Error(0)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordClaim(outcome string) {
	m.Called(outcome)
}

func (m *MockRecorder) RecordPublishError(event string) {
	m.Called(event)
}

type MockProspectRepository struct {
	mock.Mock
}

func (m *MockProspectRepository) FindByID(ctx context.Context, id string) (*entity.VisitingProspect, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VisitingProspect), args.Error(1)
}

func (m *MockProspectRepository) ListClaimable(ctx context.Context) ([]*entity.VisitingProspect, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.VisitingProspect), args.Error(1)
}

func (m *MockProspectRepository) SetRemovedBy(ctx context.Context, id, removedBy string) error {
	return m.Called(ctx, id, removedBy).Error(0)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindIDByName(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockLeadRepository) ListByAssignee(ctx context.Context, user, status string) ([]*entity.Lead, error) {
	args := m.Called(ctx, user, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListProspectCards(ctx context.Context, user string) ([]entity.ProspectCard, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ProspectCard), args.Error(1)
}

func (m *MockLeadRepository) Journey(ctx context.Context, id string) (*entity.ProspectJourney, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProspectJourney), args.Error(1)
}

func (m *MockLeadRepository) UpdateLeasingStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockLeadRepository) AppendBillingItems(ctx context.Context, leadID string, items []entity.BillingItem) error {
	return m.Called(ctx, leadID, items).Error(0)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCommentRepository) ListForLead(ctx context.Context, leadID string) ([]*entity.Comment, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Comment), args.Error(1)
}

type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) FindByURL(ctx context.Context, url string) (*entity.File, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.File), args.Error(1)
}

func (m *MockFileRepository) AttachToLead(ctx context.Context, fileID, leadID string) error {
	return m.Called(ctx, fileID, leadID).Error(0)
}

func (m *MockFileRepository) ListForLead(ctx context.Context, leadID string) ([]*entity.File, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.File), args.Error(1)
}

type MockSpacePlanRepository struct {
	mock.Mock
}

func (m *MockSpacePlanRepository) FindByLead(ctx context.Context, leadID string) (*entity.SpacePlan, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SpacePlan), args.Error(1)
}

func (m *MockSpacePlanRepository) Create(ctx context.Context, plan *entity.SpacePlan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *MockSpacePlanRepository) AddRequirement(ctx context.Context, name, comments string, loc entity.SpacePlanLocation, items []entity.SpacePlanItem) error {
	return m.Called(ctx, name, comments, loc, items).Error(0)
}

func (m *MockSpacePlanRepository) ListDetails(ctx context.Context, leadID, planName string) ([]entity.SpacePlanDetail, error) {
	args := m.Called(ctx, leadID, planName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SpacePlanDetail), args.Error(1)
}

func (m *MockSpacePlanRepository) DetailRows(ctx context.Context, planName string) ([]entity.SpacePlanDetail, error) {
	args := m.Called(ctx, planName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SpacePlanDetail), args.Error(1)
}

type MockMAFRepository struct {
	mock.Mock
}

func (m *MockMAFRepository) FindByLead(ctx context.Context, leadID string) (*entity.MAFDocument, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MAFDocument), args.Error(1)
}

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) ListRoles(ctx context.Context, user string) ([]entity.RoleAssignment, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RoleAssignment), args.Error(1)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Seats(ctx context.Context) ([]entity.CatalogEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CatalogEntry), args.Error(1)
}

func (m *MockCatalogRepository) Amenities(ctx context.Context) ([]entity.CatalogEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CatalogEntry), args.Error(1)
}
