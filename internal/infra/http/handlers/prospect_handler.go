package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/auth"
	"github.com/xavierca1/leasing-crm/internal/usecase"
)

type ProspectHandler struct {
	Prospects *usecase.ProspectUseCase
	Logger    *zap.Logger
}

func NewProspectHandler(uc *usecase.ProspectUseCase, logger *zap.Logger) *ProspectHandler {
	return &ProspectHandler{Prospects: uc, Logger: logger}
}

// sessionOrParam prefers an explicit user parameter over the session user.
func sessionOrParam(r *http.Request, p Params) string {
	if u := p.Get("user"); u != "" {
		return u
	}
	return auth.UserFrom(r.Context())
}

// List (GET /api/prospects)
func (h *ProspectHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := ParseParams(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	user := sessionOrParam(r, p)
	if user == "" {
		writeBadRequest(w, "user is required")
		return
	}

	items, err := h.Prospects.ListAssigned(r.Context(), user)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", items)
}

func (h *ProspectHandler) Journey(w http.ResponseWriter, r *http.Request) {
	out, err := h.Prospects.Journey(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", out)
}

func (h *ProspectHandler) Comments(w http.ResponseWriter, r *http.Request) {
	out, err := h.Prospects.CommentHistory(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", out)
}

func (h *ProspectHandler) MarkVisited(w http.ResponseWriter, r *http.Request) {
	if err := h.Prospects.MarkVisited(r.Context(), chi.URLParam(r, "leadID")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "Lead marked as visited", nil)
}

// RecordVisit (POST /api/prospects/{leadID}/visit) takes comment, file_names
// and file_urls. The file lists may be JSON arrays or single strings.
func (h *ProspectHandler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	p, err := ParseParams(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	commentBy := p.Get("comment_by")
	if commentBy == "" {
		commentBy = auth.UserFrom(r.Context())
	}

	err = h.Prospects.RecordVisit(r.Context(), usecase.RecordVisitInput{
		LeadID:    chi.URLParam(r, "leadID"),
		Comment:   p.Get("comment"),
		FileNames: usecase.ParseStringList(p.Get("file_names")),
		FileURLs:  usecase.ParseStringList(p.Get("file_urls")),
		CommentBy: commentBy,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "Visit recorded", nil)
}

func (h *ProspectHandler) Files(w http.ResponseWriter, r *http.Request) {
	files, err := h.Prospects.ListFiles(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", files)
}
