package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

// VisitingLeadsUseCase serves the claim board.
type VisitingLeadsUseCase struct {
	Prospects ProspectRepository
}

func NewVisitingLeadsUseCase(prospects ProspectRepository) *VisitingLeadsUseCase {
	return &VisitingLeadsUseCase{Prospects: prospects}
}

// ListClaimable returns prospects nobody claimed or removed whose lead is
// still a prospect.
func (uc *VisitingLeadsUseCase) ListClaimable(ctx context.Context) ([]*entity.VisitingProspect, error) {
	prospects, err := uc.Prospects.ListClaimable(ctx)
	if err != nil {
		return nil, structure("list visiting prospects", err)
	}
	if prospects == nil {
		prospects = []*entity.VisitingProspect{}
	}
	return prospects, nil
}

func (uc *VisitingLeadsUseCase) Get(ctx context.Context, leadID string) (*entity.VisitingProspect, error) {
	leadID = strings.TrimSpace(leadID)
	if leadID == "" {
		return nil, NewValidationError("Missing required parameter: lead_id")
	}
	p, err := uc.Prospects.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("Visiting Prospect %s not found", leadID))
		}
		return nil, structure("load visiting prospect", err)
	}
	return p, nil
}
