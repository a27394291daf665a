package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/auth"
	"github.com/xavierca1/leasing-crm/internal/entity"
	"github.com/xavierca1/leasing-crm/internal/infra/lock"
	"github.com/xavierca1/leasing-crm/internal/usecase"
)

// ============ FAKES ============

type fakeClaimTx struct {
	prospect *entity.VisitingProspect
}

func (f *fakeClaimTx) LockProspect(context.Context, string) (*entity.VisitingProspect, error) {
	if f.prospect == nil {
		return nil, entity.ErrNotFound
	}
	p := *f.prospect
	return &p, nil
}

func (f *fakeClaimTx) MarkClaimed(_ context.Context, _, claimedBy string, at time.Time) (bool, error) {
	return f.prospect.Claim(claimedBy, at), nil
}

func (f *fakeClaimTx) FindLead(_ context.Context, id string) (*entity.Lead, error) {
	return &entity.Lead{ID: id}, nil
}

func (f *fakeClaimTx) UpdateLeadAssignment(context.Context, *entity.Lead) error { return nil }

func (f *fakeClaimTx) AppendVisitDetail(context.Context, string, entity.VisitDetail) error {
	return nil
}

type fakeClaimStore struct{ tx *fakeClaimTx }

func (s *fakeClaimStore) WithinTx(ctx context.Context, fn func(context.Context, usecase.ClaimTx) error) error {
	return fn(ctx, s.tx)
}

type noManager struct{}

func (noManager) ManagerOf(context.Context, string) (string, error) { return "", nil }

type nopNotifier struct{}

func (nopNotifier) Publish(context.Context, string, any) error { return nil }

type stubProspects struct {
	usecase.ProspectRepository
	removed map[string]string
}

func (s *stubProspects) SetRemovedBy(_ context.Context, id, by string) error {
	if id != "L1" {
		return entity.ErrNotFound
	}
	s.removed[id] = by
	return nil
}

type stubLeads struct {
	usecase.LeadRepository
	lead *entity.Lead
}

func (s *stubLeads) FindByID(_ context.Context, id string) (*entity.Lead, error) {
	if s.lead == nil || s.lead.ID != id {
		return nil, entity.ErrNotFound
	}
	return s.lead, nil
}

func newVisitingLeadRouter(t *testing.T, prospect *entity.VisitingProspect, limiter *RateLimiter) (http.Handler, *stubProspects) {
	t.Helper()
	store := &fakeClaimStore{tx: &fakeClaimTx{prospect: prospect}}
	claims := usecase.NewClaimLeadUseCase(store, noManager{}, lock.NewKeyedMutex(), nopNotifier{}, nil, zap.NewNop(), time.Second)
	prospects := &stubProspects{removed: map[string]string{}}
	h := NewVisitingLeadHandler(claims, usecase.NewRemoveLeadUseCase(prospects, zap.NewNop()), usecase.NewVisitingLeadsUseCase(prospects), limiter, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/api/visiting-leads/claim", h.Claim)
	r.Post("/api/visiting-leads/remove", h.Remove)
	return r, prospects
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ============ PARAMS ============

func TestParseParamsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/x?lead_id=Q&extra=1",
		strings.NewReader(`{"lead_id":"L1","child_fields_dict":{"a":1},"items":[1,2],"skip":null}`))
	req.Header.Set("Content-Type", "application/json")

	p, err := ParseParams(req)

	require.NoError(t, err)
	assert.Equal(t, "L1", p.Get("lead_id"))
	assert.Equal(t, "1", p.Get("extra"))
	assert.JSONEq(t, `{"a":1}`, p.Get("child_fields_dict"))
	assert.Equal(t, "[1,2]", p.Get("items"))
	_, ok := p["skip"]
	assert.False(t, ok)
}

func TestParseParamsForm(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("lead_id=L1&office_type=Office"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	p, err := ParseParams(req)

	require.NoError(t, err)
	assert.Equal(t, "Office", p.First("officeType", "office_type"))
}

func TestParseParamsMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("lead", "L1"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/x", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	p, err := ParseParams(req)

	require.NoError(t, err)
	assert.Equal(t, "L1", p.Get("lead"))
}

func TestParseParamsInvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{bad`))
	req.Header.Set("Content-Type", "application/json")

	_, err := ParseParams(req)
	assert.Error(t, err)
}

// ============ ERROR MAPPING ============

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{usecase.NewValidationError("x"), http.StatusBadRequest},
		{usecase.NewNotFoundError("x"), http.StatusNotFound},
		{usecase.NewConflictError("u1"), http.StatusConflict},
		{usecase.NewTransientStoreError("op", errors.New("x")), http.StatusServiceUnavailable},
		{usecase.NewTimeoutError("op", nil), http.StatusGatewayTimeout},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StatusFor(c.err), c.err.Error())
	}
}

func TestWriteErrorHidesUnstructuredDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, zap.NewNop(), errors.New("pq: password authentication failed"))

	resp := decode(t, rec)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, usecase.CodeInternal, resp.Code)
	assert.Equal(t, "internal error", resp.Message)
}

// ============ VISITING LEADS ============

func TestClaimHandlerSuccess(t *testing.T) {
	router, _ := newVisitingLeadRouter(t, &entity.VisitingProspect{ID: "L1"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/visiting-leads/claim",
		strings.NewReader(`{"lead_id":"L1","claimed_by":"u1","pre_sales":"p1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Lead Claimed Successfully", resp.Message)
}

func TestClaimHandlerConflict(t *testing.T) {
	router, _ := newVisitingLeadRouter(t, &entity.VisitingProspect{ID: "L1", ClaimedBy: "u7"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/visiting-leads/claim",
		strings.NewReader(`{"lead_id":"L1","claimed_by":"u1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decode(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, usecase.CodeConflict, resp.Code)
	assert.Equal(t, "u7", resp.ClaimedBy)
}

func TestClaimHandlerMissingParams(t *testing.T) {
	router, _ := newVisitingLeadRouter(t, &entity.VisitingProspect{ID: "L1"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/visiting-leads/claim", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, usecase.CodeValidation, decode(t, rec).Code)
}

func TestClaimHandlerRateLimited(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()
	router, _ := newVisitingLeadRouter(t, &entity.VisitingProspect{ID: "L1"}, limiter)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/visiting-leads/claim",
			strings.NewReader(`{"lead_id":"L1","claimed_by":"u1"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i+1))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRemoveHandler(t *testing.T) {
	router, prospects := newVisitingLeadRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/visiting-leads/remove",
		strings.NewReader("lead_id=L1&removed_by=admin"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", prospects.removed["L1"])

	req = httptest.NewRequest(http.MethodPost, "/api/visiting-leads/remove",
		strings.NewReader("lead_id=L9&removed_by=admin"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ============ RATE LIMITER ============

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("ip:1"))
	assert.True(t, rl.Allow("ip:1"))
	assert.False(t, rl.Allow("ip:1"))
	assert.True(t, rl.Allow("ip:2"))

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.Allow("ip:1"))
}

func TestCallerKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "ip:192.0.2.1", callerKey(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	req.Header.Set("X-Real-IP", "203.0.113.10")
	assert.Equal(t, "ip:192.0.2.1", callerKey(req))

	req = req.WithContext(auth.WithUser(req.Context(), "rep@x.com"))
	assert.Equal(t, "user:rep@x.com", callerKey(req))
}

// ============ CLIENT EXPORT ============

func TestExportHandler(t *testing.T) {
	leads := &stubLeads{lead: &entity.Lead{ID: "LEAD-1", Name: "acme"}}
	uc := usecase.NewClientUseCase(leads, nil, zap.NewNop())
	uc.Now = func() time.Time { return time.Date(2025, 4, 5, 6, 7, 8, 0, time.UTC) }
	h := NewClientHandler(uc, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/api/clients/{leadID}/export", h.Export)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clients/LEAD-1/export?format=csv", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="lead_LEAD-1_csv_20250405_060708.csv"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Type,Item Code"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clients/LEAD-1/export?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clients/LEAD-9/export", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
