package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/usecase"
)

type VisitingLeadHandler struct {
	Claims      *usecase.ClaimLeadUseCase
	Removals    *usecase.RemoveLeadUseCase
	Queries     *usecase.VisitingLeadsUseCase
	RateLimiter *RateLimiter
	Logger      *zap.Logger
}

func NewVisitingLeadHandler(
	claims *usecase.ClaimLeadUseCase,
	removals *usecase.RemoveLeadUseCase,
	queries *usecase.VisitingLeadsUseCase,
	limiter *RateLimiter,
	logger *zap.Logger,
) *VisitingLeadHandler {
	return &VisitingLeadHandler{
		Claims:      claims,
		Removals:    removals,
		Queries:     queries,
		RateLimiter: limiter,
		Logger:      logger,
	}
}

// List (GET /api/visiting-leads)
func (h *VisitingLeadHandler) List(w http.ResponseWriter, r *http.Request) {
	prospects, err := h.Queries.ListClaimable(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", prospects)
}

// Get (GET /api/visiting-leads/{leadID})
func (h *VisitingLeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	prospect, err := h.Queries.Get(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", prospect)
}

// Claim (POST /api/visiting-leads/claim)
func (h *VisitingLeadHandler) Claim(w http.ResponseWriter, r *http.Request) {
	if h.RateLimiter != nil && !h.RateLimiter.Allow(callerKey(r)) {
		writeJSON(w, http.StatusTooManyRequests, Response{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	p, err := ParseParams(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	out, err := h.Claims.Execute(r.Context(), usecase.ClaimLeadInput{
		LeadID:      p.Get("lead_id"),
		PreSales:    p.Get("pre_sales"),
		ClaimedBy:   p.Get("claimed_by"),
		OfficeType:  p.First("officeType", "office_type"),
		ChildFields: p.Get("child_fields_dict"),
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: out.Message, Data: out})
}

// Remove (POST /api/visiting-leads/remove)
func (h *VisitingLeadHandler) Remove(w http.ResponseWriter, r *http.Request) {
	p, err := ParseParams(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	out, err := h.Removals.Execute(r.Context(), usecase.RemoveLeadInput{
		LeadID:    p.Get("lead_id"),
		RemovedBy: p.Get("removed_by"),
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, out.Message, nil)
}
