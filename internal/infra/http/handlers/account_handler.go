package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/usecase"
)

// AccountHandler serves the MAF lookup and the login role listing.
type AccountHandler struct {
	MAFs   *usecase.MAFUseCase
	Roles  *usecase.RoleUseCase
	Logger *zap.Logger
}

func NewAccountHandler(mafs *usecase.MAFUseCase, roles *usecase.RoleUseCase, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{MAFs: mafs, Roles: roles, Logger: logger}
}

// MAF (GET /api/maf?lead_id_or_name=) answers with empty data when nothing
// matches.
func (h *AccountHandler) MAF(w http.ResponseWriter, r *http.Request) {
	doc, err := h.MAFs.Get(r.Context(), r.URL.Query().Get("lead_id_or_name"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if doc == nil {
		writeOK(w, "", map[string]any{})
		return
	}
	writeOK(w, "", doc)
}

func (h *AccountHandler) LoginRoles(w http.ResponseWriter, r *http.Request) {
	p, err := ParseParams(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	roles, err := h.Roles.LoginRoles(r.Context(), sessionOrParam(r, p))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", roles)
}
