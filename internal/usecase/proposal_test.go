package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
	"github.com/xavierca1/leasing-crm/internal/usecase"
)

func newProposalUC(leads *MockLeadRepository, catalog *MockCatalogRepository) *usecase.ProposalUseCase {
	uc := usecase.NewProposalUseCase(leads, catalog, zap.NewNop())
	uc.Now = func() time.Time { return time.Date(2025, 6, 10, 17, 30, 0, 0, time.UTC) }
	return uc
}

// TestProposalCreate - seat and amenity lines are appended, unknown kinds skipped
func TestProposalCreate(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("FindByID", mock.Anything, "LEAD-1").Return(&entity.Lead{ID: "LEAD-1", Name: "acme"}, nil)

	var saved []entity.BillingItem
	leads.On("AppendBillingItems", mock.Anything, "LEAD-1", mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).([]entity.BillingItem) }).
		Return(nil)

	uc := newProposalUC(leads, new(MockCatalogRepository))
	out, err := uc.Create(context.Background(), usecase.ProposalInput{
		LeadID: "LEAD-1",
		Items: []*usecase.ProposalItem{
			{RecursionType: usecase.RecursionSeats, ProductName: "Hot Desk", Qty: 4, RatePerUnit: 250},
			{RecursionType: "parking", ProductName: "ignored", Qty: 1, RatePerUnit: 1},
			nil,
			{RecursionType: usecase.RecursionAmenities, ProductName: "Locker", SalesDescription: "small", Qty: 2, RatePerUnit: 15.5},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, &usecase.ProposalOutput{Status: "success", ProposalID: "acme"}, out)
	require.Len(t, saved, 2)

	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	seat := saved[0]
	assert.Equal(t, entity.ItemKindSeat, seat.Kind)
	assert.Equal(t, float64(1000), seat.Amount)
	assert.Equal(t, entity.SeatRolloutStatus, seat.RolloutStatus)
	assert.Equal(t, entity.DefaultBillingEntity, seat.NovelBillingEntity)
	assert.Equal(t, day, *seat.StartDate)
	assert.Equal(t, day, *seat.StopDate)

	amenity := saved[1]
	assert.Equal(t, entity.ItemKindAmenity, amenity.Kind)
	assert.Equal(t, float64(31), amenity.Amount)
	assert.Equal(t, "", amenity.RolloutStatus)
	assert.Equal(t, "small", amenity.SalesDescription)
}

func TestProposalCreateWithoutItemsSkipsWrite(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("FindByID", mock.Anything, "LEAD-1").Return(&entity.Lead{ID: "LEAD-1", Name: "acme"}, nil)
	uc := newProposalUC(leads, new(MockCatalogRepository))

	_, err := uc.Create(context.Background(), usecase.ProposalInput{LeadID: "LEAD-1"})

	require.NoError(t, err)
	leads.AssertNotCalled(t, "AppendBillingItems", mock.Anything, mock.Anything, mock.Anything)
}

func TestProposalCreateErrors(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("FindByID", mock.Anything, "LEAD-404").Return(nil, entity.ErrNotFound)
	leads.On("FindByID", mock.Anything, "LEAD-1").Return(&entity.Lead{ID: "LEAD-1"}, nil)
	leads.On("AppendBillingItems", mock.Anything, "LEAD-1", mock.Anything).Return(errors.New("db down"))
	uc := newProposalUC(leads, new(MockCatalogRepository))
	ctx := context.Background()

	_, err := uc.Create(ctx, usecase.ProposalInput{})
	assert.Equal(t, usecase.CodeValidation, usecase.ErrorCode(err))

	_, err = uc.Create(ctx, usecase.ProposalInput{LeadID: "LEAD-404"})
	assert.Equal(t, usecase.CodeNotFound, usecase.ErrorCode(err))

	_, err = uc.Create(ctx, usecase.ProposalInput{LeadID: "LEAD-1", Items: []*usecase.ProposalItem{
		{RecursionType: usecase.RecursionSeats, Qty: 1, RatePerUnit: 1},
	}})
	assert.Equal(t, usecase.CodeTransientStore, usecase.ErrorCode(err))
}

func TestCatalogs(t *testing.T) {
	catalog := new(MockCatalogRepository)
	catalog.On("Seats", mock.Anything).Return([]entity.CatalogEntry{{Name: "Hot Desk"}}, nil)
	catalog.On("Amenities", mock.Anything).Return(nil, nil)
	uc := newProposalUC(new(MockLeadRepository), catalog)

	seats, err := uc.SeatCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "success", seats.Status)
	assert.Equal(t, []entity.CatalogEntry{{Name: "Hot Desk"}}, seats.Message)

	amenities, err := uc.AmenityCatalog(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, amenities.Message)
	assert.Empty(t, amenities.Message)
}
