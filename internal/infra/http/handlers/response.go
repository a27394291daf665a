package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/usecase"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Code      string `json:"code,omitempty"`
	ClaimedBy string `json:"claimed_by,omitempty"`
	Data      any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, Response{Success: false, Code: usecase.CodeValidation, Message: message})
}

// StatusFor maps the error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch usecase.ErrorCode(err) {
	case usecase.CodeValidation:
		return http.StatusBadRequest
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeConflict:
		return http.StatusConflict
	case usecase.CodeTransientStore:
		return http.StatusServiceUnavailable
	case usecase.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the envelope. Technical details are logged, not
// sent to the client.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := StatusFor(err)
	resp := Response{Success: false, Code: usecase.ErrorCode(err)}

	var de *usecase.DomainError
	if errors.As(err, &de) {
		resp.Message = de.Message
		resp.ClaimedBy = de.Holder
	} else {
		var te *usecase.TechnicalError
		if errors.As(err, &te) {
			resp.Message = te.Message
		} else {
			resp.Code = usecase.CodeInternal
			resp.Message = "internal error"
		}
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}

	writeJSON(w, status, resp)
}
