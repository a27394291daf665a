package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

const leadIDPrefix = "LEAD"

type MAFUseCase struct {
	Leads LeadRepository
	MAFs  MAFRepository
}

func NewMAFUseCase(leads LeadRepository, mafs MAFRepository) *MAFUseCase {
	return &MAFUseCase{Leads: leads, MAFs: mafs}
}

// Get returns the MAF document for a lead id or lead name. A nil document
// with a nil error means nothing matched.
func (uc *MAFUseCase) Get(ctx context.Context, leadIDOrName string) (*entity.MAFDocument, error) {
	key := strings.TrimSpace(leadIDOrName)
	if key == "" {
		return nil, nil
	}

	if !strings.HasPrefix(key, leadIDPrefix) {
		id, err := uc.Leads.FindIDByName(ctx, key)
		if err != nil {
			if isNotFound(err) {
				return nil, nil
			}
			return nil, structure("resolve lead by name", err)
		}
		key = id
	}

	doc, err := uc.MAFs.FindByLead(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, structure("load MAF document", err)
	}
	return doc, nil
}
