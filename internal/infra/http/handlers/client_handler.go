package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/usecase"
)

type ClientHandler struct {
	Clients *usecase.ClientUseCase
	Logger  *zap.Logger
}

func NewClientHandler(uc *usecase.ClientUseCase, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{Clients: uc, Logger: logger}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
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

	clients, err := h.Clients.ListForUser(r.Context(), user)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", clients)
}

func (h *ClientHandler) Details(w http.ResponseWriter, r *http.Request) {
	out, err := h.Clients.Details(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", out)
}

func (h *ClientHandler) Seats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Clients.Seats(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", out)
}

func (h *ClientHandler) Attachments(w http.ResponseWriter, r *http.Request) {
	out, err := h.Clients.Attachments(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", out)
}

func (h *ClientHandler) Summary(w http.ResponseWriter, r *http.Request) {
	out, err := h.Clients.Summary(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeOK(w, "", out)
}

// Export (GET /api/clients/{leadID}/export?format=) streams the file as an
// attachment.
func (h *ClientHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = usecase.ExportJSON
	}

	file, err := h.Clients.Export(r.Context(), chi.URLParam(r, "leadID"), format)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}
