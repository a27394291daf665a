package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/usecase"
)

type SpacePlanHandler struct {
	Plans  *usecase.SpacePlanUseCase
	Logger *zap.Logger
}

func NewSpacePlanHandler(uc *usecase.SpacePlanUseCase, logger *zap.Logger) *SpacePlanHandler {
	return &SpacePlanHandler{Plans: uc, Logger: logger}
}

func (h *SpacePlanHandler) SaveRequirement(w http.ResponseWriter, r *http.Request) {
	p, err := ParseParams(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	out, err := h.Plans.SaveRequirement(r.Context(), usecase.SaveRequirementInput{
		LeadID:             p.Get("lead_id"),
		AdditionalComments: p.Get("additional_comments"),
		Location:           p.Get("location"),
		Floor:              p.Get("floor"),
		NearbyPlace:        p.Get("nearby_place"),
		QuickItemsJSON:     p.Get("quick_items_json"),
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, out.Message, out)
}

func (h *SpacePlanHandler) GetByLead(w http.ResponseWriter, r *http.Request) {
	out, err := h.Plans.GetByLead(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", out)
}

func (h *SpacePlanHandler) Details(w http.ResponseWriter, r *http.Request) {
	out, err := h.Plans.Details(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", out)
}
