package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

const EventLeadClaimed = "lead_claimed"

const (
	DefaultClaimTimeout   = 10 * time.Second
	notifyTimeout         = 5 * time.Second
	claimLockPrefix       = "lead-claim:"
	msgLeadClaimed        = "Lead Claimed Successfully"
	msgMissingClaimParams = "Missing required parameters: lead_id, claimed_by"
)

// Claim outcomes reported to the metrics recorder.
const (
	OutcomeClaimed  = "claimed"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

type ClaimRecorder interface {
	RecordClaim(outcome string)
	RecordPublishError(event string)
}

type ClaimLeadInput struct {
	LeadID      string `json:"lead_id"`
	PreSales    string `json:"pre_sales"`
	ClaimedBy   string `json:"claimed_by"`
	OfficeType  string `json:"officeType"`
	ChildFields string `json:"child_fields_dict"`
}

type ClaimLeadOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LeadID  string `json:"lead_id"`
}

// LeadClaimedEvent is broadcast after a claim commits.
type LeadClaimedEvent struct {
	LeadID    string    `json:"lead_id"`
	ClaimedBy string    `json:"claimed_by"`
	ManagedBy string    `json:"managed_by,omitempty"`
	ClaimedOn time.Time `json:"claimed_on"`
}

type ClaimLeadUseCase struct {
	Store     ClaimStore
	Directory Directory
	Locker    Locker
	Notifier  Notifier
	Metrics   ClaimRecorder
	Logger    *zap.Logger
	Timeout   time.Duration
	Now       func() time.Time
}

func NewClaimLeadUseCase(
	store ClaimStore,
	directory Directory,
	locker Locker,
	notifier Notifier,
	metrics ClaimRecorder,
	logger *zap.Logger,
	timeout time.Duration,
) *ClaimLeadUseCase {
	if timeout <= 0 {
		timeout = DefaultClaimTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClaimLeadUseCase{
		Store:     store,
		Directory: directory,
		Locker:    locker,
		Notifier:  notifier,
		Metrics:   metrics,
		Logger:    logger,
		Timeout:   timeout,
		Now:       time.Now,
	}
}

// Execute claims the prospect for input.ClaimedBy and assigns the linked lead.
// Every returned error is a *DomainError or a *TechnicalError.
func (uc *ClaimLeadUseCase) Execute(ctx context.Context, input ClaimLeadInput) (*ClaimLeadOutput, error) {
	input.LeadID = strings.TrimSpace(input.LeadID)
	input.ClaimedBy = strings.TrimSpace(input.ClaimedBy)
	input.PreSales = strings.TrimSpace(input.PreSales)

	log := uc.Logger.With(
		zap.String("lead_id", input.LeadID),
		zap.String("claimed_by", input.ClaimedBy),
		zap.String("pre_sales", input.PreSales),
		zap.String("office_type", input.OfficeType),
	)

	if input.LeadID == "" || input.ClaimedBy == "" {
		uc.record(OutcomeRejected)
		return nil, NewValidationError(msgMissingClaimParams)
	}

	detail, err := parseVisitDetail(input.ChildFields)
	if err != nil {
		uc.record(OutcomeRejected)
		log.Warn("rejecting claim with malformed child_fields_dict", zap.Error(err))
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.Timeout)
	defer cancel()

	unlock, err := uc.Locker.Lock(ctx, claimLockPrefix+input.LeadID)
	if err != nil {
		uc.record(OutcomeFailed)
		log.Error("could not acquire claim lock", zap.Error(err))
		return nil, structure("acquire claim lock", err)
	}
	defer unlock()

	var event LeadClaimedEvent
	err = uc.Store.WithinTx(ctx, func(ctx context.Context, tx ClaimTx) error {
		prospect, err := tx.LockProspect(ctx, input.LeadID)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return NewNotFoundError(fmt.Sprintf("Visiting Prospect %s not found", input.LeadID))
			}
			return structure("load visiting prospect", err)
		}
		if prospect.IsClaimed() {
			return NewConflictError(prospect.ClaimedBy)
		}

		now := uc.Now()
		ok, err := tx.MarkClaimed(ctx, input.LeadID, input.ClaimedBy, now)
		if err != nil {
			return structure("save visiting prospect", err)
		}
		if !ok {
			// lost the conditional update; report whoever holds it now
			current, err := tx.LockProspect(ctx, input.LeadID)
			if err != nil {
				return structure("reload visiting prospect", err)
			}
			return NewConflictError(current.ClaimedBy)
		}

		lead, err := tx.FindLead(ctx, input.LeadID)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return NewNotFoundError(fmt.Sprintf("Lead %s not found", input.LeadID))
			}
			return structure("load lead", err)
		}

		manager, err := uc.Directory.ManagerOf(ctx, input.ClaimedBy)
		if err != nil {
			return structure("resolve manager", err)
		}
		lead.Assign(input.ClaimedBy, input.PreSales, manager)

		if input.OfficeType == entity.OfficeTypeOffice && len(detail) > 0 {
			if err := tx.AppendVisitDetail(ctx, lead.ID, detail); err != nil {
				return structure("append visit details", err)
			}
			lead.VisitDetails = append(lead.VisitDetails, detail)
		}

		if err := tx.UpdateLeadAssignment(ctx, lead); err != nil {
			return structure("save lead", err)
		}

		event = LeadClaimedEvent{
			LeadID:    lead.ID,
			ClaimedBy: input.ClaimedBy,
			ManagedBy: lead.ManagedBy,
			ClaimedOn: now,
		}
		return nil
	})
	if err != nil {
		err = structure("claim lead", err)
		var de *DomainError
		errors.As(err, &de)
		switch ErrorCode(err) {
		case CodeConflict:
			uc.record(OutcomeConflict)
			log.Info("lead already claimed", zap.String("holder", de.Holder))
		case CodeNotFound:
			uc.record(OutcomeRejected)
			log.Info("claim target missing", zap.Error(err))
		default:
			uc.record(OutcomeFailed)
			log.Error("claim failed", zap.Error(err))
		}
		return nil, err
	}

	uc.record(OutcomeClaimed)
	log.Info("lead claimed", zap.String("managed_by", event.ManagedBy))

	uc.notify(ctx, event)

	return &ClaimLeadOutput{
		Success: true,
		Message: msgLeadClaimed,
		LeadID:  input.LeadID,
	}, nil
}

// notify publishes on a context detached from the request so a cancelled
// caller does not drop the broadcast. Failures are only logged.
func (uc *ClaimLeadUseCase) notify(ctx context.Context, event LeadClaimedEvent) {
	if uc.Notifier == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := uc.Notifier.Publish(pubCtx, EventLeadClaimed, event); err != nil {
		if uc.Metrics != nil {
			uc.Metrics.RecordPublishError(EventLeadClaimed)
		}
		uc.Logger.Warn("lead claimed but realtime publish failed",
			zap.String("lead_id", event.LeadID), zap.Error(err))
	}
}

func (uc *ClaimLeadUseCase) record(outcome string) {
	if uc.Metrics != nil {
		uc.Metrics.RecordClaim(outcome)
	}
}

// parseVisitDetail decodes the child_fields_dict form value. An empty value
// yields a nil detail; anything that is not a JSON object is rejected.
func parseVisitDetail(raw string) (entity.VisitDetail, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var detail entity.VisitDetail
	if err := dec.Decode(&detail); err != nil {
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: fmt.Sprintf("invalid child_fields_dict: %v", err),
			Err:     err,
		}
	}
	if dec.More() {
		return nil, NewValidationError("invalid child_fields_dict: trailing data after JSON object")
	}
	return detail, nil
}
