package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

type RemoveLeadInput struct {
	LeadID    string `json:"lead_id"`
	RemovedBy string `json:"removed_by"`
}

type RemoveLeadOutput struct {
	Message string `json:"message"`
}

type RemoveLeadUseCase struct {
	Prospects ProspectRepository
	Logger    *zap.Logger
}

func NewRemoveLeadUseCase(prospects ProspectRepository, logger *zap.Logger) *RemoveLeadUseCase {
	return &RemoveLeadUseCase{Prospects: prospects, Logger: logger}
}

// Execute marks the prospect removed. Claim state is left untouched and
// repeating the call with the same actor leaves the same state.
func (uc *RemoveLeadUseCase) Execute(ctx context.Context, input RemoveLeadInput) (*RemoveLeadOutput, error) {
	leadID := strings.TrimSpace(input.LeadID)
	removedBy := strings.TrimSpace(input.RemovedBy)
	if leadID == "" || removedBy == "" {
		return nil, NewValidationError("Missing required parameters: lead_id, removed_by")
	}

	if err := uc.Prospects.SetRemovedBy(ctx, leadID, removedBy); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("Visiting Prospect %s not found", leadID))
		}
		uc.Logger.Error("failed to mark prospect removed", zap.String("lead_id", leadID), zap.Error(err))
		return nil, structure("mark prospect removed", err)
	}

	uc.Logger.Info("prospect removed", zap.String("lead_id", leadID), zap.String("removed_by", removedBy))
	return &RemoveLeadOutput{Message: "Lead marked as removed."}, nil
}
