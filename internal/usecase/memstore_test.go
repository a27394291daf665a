package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/xavierca1/leasing-crm/internal/entity"
	"github.com/xavierca1/leasing-crm/internal/usecase"
)

// memStore is an in-memory ClaimStore. Transactions run one at a time on a
// private copy that is swapped in only when fn succeeds.
type memStore struct {
	mu        sync.Mutex
	prospects map[string]entity.VisitingProspect
	leads     map[string]entity.Lead
	txCount   int

	failLeadUpdate error
}

func newMemStore() *memStore {
	return &memStore{
		prospects: map[string]entity.VisitingProspect{},
		leads:     map[string]entity.Lead{},
	}
}

func (s *memStore) addPair(id string, claimedBy string) {
	s.prospects[id] = entity.VisitingProspect{ID: id, Name: "Prospect " + id, ClaimedBy: claimedBy}
	s.leads[id] = entity.Lead{ID: id, Name: "Lead " + id, LeasingStatus: entity.StatusProspect}
}

func (s *memStore) prospect(id string) entity.VisitingProspect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prospects[id]
}

func (s *memStore) lead(id string) entity.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leads[id]
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx usecase.ClaimTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCount++

	tx := &memTx{
		prospects:      make(map[string]entity.VisitingProspect, len(s.prospects)),
		leads:          make(map[string]entity.Lead, len(s.leads)),
		failLeadUpdate: s.failLeadUpdate,
	}
	for k, v := range s.prospects {
		tx.prospects[k] = v
	}
	for k, v := range s.leads {
		v.VisitDetails = append([]entity.VisitDetail(nil), v.VisitDetails...)
		tx.leads[k] = v
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.prospects, s.leads = tx.prospects, tx.leads
	return nil
}

type memTx struct {
	prospects      map[string]entity.VisitingProspect
	leads          map[string]entity.Lead
	failLeadUpdate error
}

func (t *memTx) LockProspect(_ context.Context, id string) (*entity.VisitingProspect, error) {
	p, ok := t.prospects[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &p, nil
}

func (t *memTx) MarkClaimed(_ context.Context, id, claimedBy string, at time.Time) (bool, error) {
	p, ok := t.prospects[id]
	if !ok {
		return false, entity.ErrNotFound
	}
	if !p.Claim(claimedBy, at) {
		return false, nil
	}
	t.prospects[id] = p
	return true, nil
}

func (t *memTx) FindLead(_ context.Context, id string) (*entity.Lead, error) {
	l, ok := t.leads[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &l, nil
}

func (t *memTx) UpdateLeadAssignment(_ context.Context, lead *entity.Lead) error {
	if t.failLeadUpdate != nil {
		return t.failLeadUpdate
	}
	l, ok := t.leads[lead.ID]
	if !ok {
		return entity.ErrNotFound
	}
	l.AssignedTo = lead.AssignedTo
	l.PreSalesAssignedUser = lead.PreSalesAssignedUser
	l.ManagedBy = lead.ManagedBy
	t.leads[lead.ID] = l
	return nil
}

func (t *memTx) AppendVisitDetail(_ context.Context, leadID string, detail entity.VisitDetail) error {
	l, ok := t.leads[leadID]
	if !ok {
		return entity.ErrNotFound
	}
	l.VisitDetails = append(l.VisitDetails, detail)
	t.leads[leadID] = l
	return nil
}

// mapDirectory resolves managers from a fixed user -> manager table.
type mapDirectory map[string]string

func (d mapDirectory) ManagerOf(_ context.Context, userID string) (string, error) {
	return d[userID], nil
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

// blockingLocker never grants the lock and waits for the caller to give up.
type blockingLocker struct{}

func (blockingLocker) Lock(ctx context.Context, _ string) (func(), error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// recordingNotifier keeps every published event.
type recordingNotifier struct {
	mu     sync.Mutex
	events []usecase.LeadClaimedEvent
}

func (n *recordingNotifier) Publish(_ context.Context, _ string, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if e, ok := payload.(usecase.LeadClaimedEvent); ok {
		n.events = append(n.events, e)
	}
	return nil
}
