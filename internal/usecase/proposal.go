package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

const (
	RecursionSeats     = "seats"
	RecursionAmenities = "amenities"
)

type ProposalItem struct {
	RecursionType    string  `json:"recursionType"`
	ProductName      string  `json:"productName"`
	SalesDescription string  `json:"salesDescription"`
	Qty              float64 `json:"qty"`
	RatePerUnit      float64 `json:"ratePerUnit"`
}

type ProposalInput struct {
	LeadID string          `json:"lead_id"`
	Items  []*ProposalItem `json:"items"`
}

type ProposalOutput struct {
	Status     string `json:"status"`
	ProposalID string `json:"proposal_id"`
}

type CatalogOutput struct {
	Status  string                `json:"status"`
	Message []entity.CatalogEntry `json:"message"`
}

type ProposalUseCase struct {
	Leads   LeadRepository
	Catalog CatalogRepository
	Logger  *zap.Logger
	Now     func() time.Time
}

func NewProposalUseCase(leads LeadRepository, catalog CatalogRepository, logger *zap.Logger) *ProposalUseCase {
	return &ProposalUseCase{Leads: leads, Catalog: catalog, Logger: logger, Now: time.Now}
}

// Create appends the proposal's seat and amenity lines to the lead.
func (uc *ProposalUseCase) Create(ctx context.Context, input ProposalInput) (*ProposalOutput, error) {
	leadID := strings.TrimSpace(input.LeadID)
	if leadID == "" {
		return nil, NewValidationError("Missing lead_id in proposal data")
	}

	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("Lead %s not found", leadID))
		}
		return nil, structure("load lead", err)
	}

	y, m, d := uc.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var lines []entity.BillingItem
	for _, it := range input.Items {
		if it == nil {
			continue
		}
		var kind string
		switch it.RecursionType {
		case RecursionSeats:
			kind = entity.ItemKindSeat
		case RecursionAmenities:
			kind = entity.ItemKindAmenity
		default:
			continue
		}
		lines = append(lines, entity.NewBillingItem(lead.ID, kind, it.ProductName, it.SalesDescription, it.Qty, it.RatePerUnit, today))
	}

	if len(lines) > 0 {
		if err := uc.Leads.AppendBillingItems(ctx, lead.ID, lines); err != nil {
			return nil, structure("save proposal items", err)
		}
	}
	uc.Logger.Info("proposal saved", zap.String("lead_id", lead.ID), zap.Int("items", len(lines)))

	return &ProposalOutput{Status: "success", ProposalID: lead.Name}, nil
}

func (uc *ProposalUseCase) SeatCatalog(ctx context.Context) (*CatalogOutput, error) {
	entries, err := uc.Catalog.Seats(ctx)
	if err != nil {
		return nil, structure("list seats", err)
	}
	return &CatalogOutput{Status: "success", Message: nonNilCatalog(entries)}, nil
}

func (uc *ProposalUseCase) AmenityCatalog(ctx context.Context) (*CatalogOutput, error) {
	entries, err := uc.Catalog.Amenities(ctx)
	if err != nil {
		return nil, structure("list amenities", err)
	}
	return &CatalogOutput{Status: "success", Message: nonNilCatalog(entries)}, nil
}

func nonNilCatalog(entries []entity.CatalogEntry) []entity.CatalogEntry {
	if entries == nil {
		return []entity.CatalogEntry{}
	}
	return entries
}
