package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/usecase"
)

type ProposalHandler struct {
	Proposals *usecase.ProposalUseCase
	Logger    *zap.Logger
}

func NewProposalHandler(uc *usecase.ProposalUseCase, logger *zap.Logger) *ProposalHandler {
	return &ProposalHandler{Proposals: uc, Logger: logger}
}

// Create (POST /api/proposals) takes lead_id and items, where items is a JSON
// array or its string encoding.
func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := ParseParams(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	input := usecase.ProposalInput{LeadID: p.Get("lead_id")}
	if raw := p.Get("items"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.Items); err != nil {
			writeBadRequest(w, "items must be a JSON array")
			return
		}
	}

	out, err := h.Proposals.Create(r.Context(), input)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", out)
}

func (h *ProposalHandler) Seats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Proposals.SeatCatalog(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", out)
}

func (h *ProposalHandler) Amenities(w http.ResponseWriter, r *http.Request) {
	out, err := h.Proposals.AmenityCatalog(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", out)
}
