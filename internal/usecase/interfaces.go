package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

// ClaimTx is the set of writes a claim performs inside one store transaction.
type ClaimTx interface {
	// LockProspect loads the prospect and holds its row until the transaction ends.
	LockProspect(ctx context.Context, id string) (*entity.VisitingProspect, error)
	// MarkClaimed sets the claimant only if none is set yet.
	MarkClaimed(ctx context.Context, id, claimedBy string, at time.Time) (bool, error)
	FindLead(ctx context.Context, id string) (*entity.Lead, error)
	UpdateLeadAssignment(ctx context.Context, lead *entity.Lead) error
	AppendVisitDetail(ctx context.Context, leadID string, detail entity.VisitDetail) error
}

// ClaimStore commits everything fn does, or nothing when fn returns an error.
type ClaimStore interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx ClaimTx) error) error
}

type Directory interface {
	// ManagerOf returns "" when the user has no employee record or manager.
	ManagerOf(ctx context.Context, userID string) (string, error)
}

type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type Notifier interface {
	Publish(ctx context.Context, event string, payload any) error
}

type ProspectRepository interface {
	FindByID(ctx context.Context, id string) (*entity.VisitingProspect, error)
	ListClaimable(ctx context.Context) ([]*entity.VisitingProspect, error)
	SetRemovedBy(ctx context.Context, id, removedBy string) error
}

type LeadRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
	FindIDByName(ctx context.Context, name string) (string, error)
	ListByAssignee(ctx context.Context, user, status string) ([]*entity.Lead, error)
	ListProspectCards(ctx context.Context, user string) ([]entity.ProspectCard, error)
	Journey(ctx context.Context, id string) (*entity.ProspectJourney, error)
	UpdateLeasingStatus(ctx context.Context, id, status string) error
	AppendBillingItems(ctx context.Context, leadID string, items []entity.BillingItem) error
}

type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	ListForLead(ctx context.Context, leadID string) ([]*entity.Comment, error)
}

type FileRepository interface {
	FindByURL(ctx context.Context, url string) (*entity.File, error)
	AttachToLead(ctx context.Context, fileID, leadID string) error
	ListForLead(ctx context.Context, leadID string) ([]*entity.File, error)
}

type SpacePlanRepository interface {
	FindByLead(ctx context.Context, leadID string) (*entity.SpacePlan, error)
	Create(ctx context.Context, plan *entity.SpacePlan) error
	AddRequirement(ctx context.Context, name, comments string, loc entity.SpacePlanLocation, items []entity.SpacePlanItem) error
	ListDetails(ctx context.Context, leadID, planName string) ([]entity.SpacePlanDetail, error)
	DetailRows(ctx context.Context, planName string) ([]entity.SpacePlanDetail, error)
}

type MAFRepository interface {
	FindByLead(ctx context.Context, leadID string) (*entity.MAFDocument, error)
}

type RoleRepository interface {
	ListRoles(ctx context.Context, user string) ([]entity.RoleAssignment, error)
}

type CatalogRepository interface {
	Seats(ctx context.Context) ([]entity.CatalogEntry, error)
	Amenities(ctx context.Context) ([]entity.CatalogEntry, error)
}
